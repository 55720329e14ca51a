package eventmodels

type SessionClock struct {
	Expiration               ExpirationDate `json:"expiration"`
	SecondsToSettlement      int64          `json:"seconds_to_settlement"`
	TradableMinutesRemaining int64          `json:"tradable_minutes_remaining"`
	SettlementCountdown      string         `json:"settlement_countdown"`
	TradableCountdown        string         `json:"tradable_countdown"`
}

func (c SessionClock) IsSettled() bool {
	return c.SecondsToSettlement <= 0
}
