package eventmodels

type OrderBookEvent struct {
	Code       string       `json:"code"`
	Expiration string       `json:"expiration"`
	Strike     FeedNumber   `json:"strike"`
	CP         string       `json:"cp"`
	Bid1       FeedNumber   `json:"bid1"`
	Bid2       FeedNumber   `json:"bid2"`
	Bid3       FeedNumber   `json:"bid3"`
	Bid4       FeedNumber   `json:"bid4"`
	Bid5       FeedNumber   `json:"bid5"`
	Ask1       FeedNumber   `json:"ask1"`
	Ask2       FeedNumber   `json:"ask2"`
	Ask3       FeedNumber   `json:"ask3"`
	Ask4       FeedNumber   `json:"ask4"`
	Ask5       FeedNumber   `json:"ask5"`
	BidVolume  []FeedNumber `json:"bid_volume"`
	AskVolume  []FeedNumber `json:"ask_volume"`
}

func (e *OrderBookEvent) ContractKey(defaultExpiration ExpirationDate) (ContractKey, error) {
	return resolveContractKey(e.Code, e.Expiration, e.Strike, e.CP, defaultExpiration)
}

func (e *OrderBookEvent) Patch() ContractQuote {
	var patch ContractQuote

	bids := [BookDepth]FeedNumber{e.Bid1, e.Bid2, e.Bid3, e.Bid4, e.Bid5}
	asks := [BookDepth]FeedNumber{e.Ask1, e.Ask2, e.Ask3, e.Ask4, e.Ask5}
	for i := 0; i < BookDepth; i++ {
		patch.Bid[i] = bids[i].Ptr()
		patch.Ask[i] = asks[i].Ptr()

		if i < len(e.BidVolume) {
			patch.BidVolume[i] = e.BidVolume[i].Ptr()
		}

		if i < len(e.AskVolume) {
			patch.AskVolume[i] = e.AskVolume[i].Ptr()
		}
	}

	return patch
}
