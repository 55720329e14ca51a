package eventmodels

import "time"

type SpotPriceEvent struct {
	Ts    int64      `json:"ts"`
	Price FeedNumber `json:"price"`
}

func (e *SpotPriceEvent) Timestamp() time.Time {
	if e.Ts <= 0 {
		return time.Time{}
	}

	return time.UnixMilli(e.Ts)
}
