package eventmodels

type TradeTickEvent struct {
	Code        string     `json:"code"`
	Expiration  string     `json:"expiration"`
	Strike      FeedNumber `json:"strike"`
	CP          string     `json:"cp"`
	Last        FeedNumber `json:"last"`
	ChangeRate  FeedNumber `json:"change_rate"`
	TotalVolume FeedNumber `json:"total_volume"`
}

func (e *TradeTickEvent) ContractKey(defaultExpiration ExpirationDate) (ContractKey, error) {
	return resolveContractKey(e.Code, e.Expiration, e.Strike, e.CP, defaultExpiration)
}

func (e *TradeTickEvent) Patch() ContractQuote {
	return ContractQuote{
		Last:        e.Last.Ptr(),
		ChangeRate:  e.ChangeRate.Ptr(),
		TotalVolume: e.TotalVolume.Ptr(),
	}
}
