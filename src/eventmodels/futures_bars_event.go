package eventmodels

import (
	"fmt"
	"sort"
	"time"
)

// FuturesBarDTO is one daily bar of the near-month futures, ts in epoch
// milliseconds.
type FuturesBarDTO struct {
	Ts     int64      `json:"ts"`
	Open   FeedNumber `json:"Open"`
	High   FeedNumber `json:"High"`
	Low    FeedNumber `json:"Low"`
	Close  FeedNumber `json:"Close"`
	Volume FeedNumber `json:"Volume"`
}

func (b *FuturesBarDTO) ToModel() (FuturesBar, error) {
	if b.Ts <= 0 {
		return FuturesBar{}, fmt.Errorf("FuturesBarDTO.ToModel: invalid ts %d", b.Ts)
	}

	if !b.Open.Valid || !b.High.Valid || !b.Low.Valid || !b.Close.Valid {
		return FuturesBar{}, fmt.Errorf("FuturesBarDTO.ToModel: bar at %d is missing a price", b.Ts)
	}

	return FuturesBar{
		Time:   time.UnixMilli(b.Ts),
		Open:   b.Open.Value,
		High:   b.High.Value,
		Low:    b.Low.Value,
		Close:  b.Close.Value,
		Volume: b.Volume.Value,
	}, nil
}

// FuturesBarsEvent replaces the recent daily bars of the near-month futures.
type FuturesBarsEvent struct {
	Kbars []FuturesBarDTO `json:"kbars"`
}

// ToModel converts the bars in time order, one per timestamp. Bad bars are
// skipped and reported.
func (e *FuturesBarsEvent) ToModel() ([]FuturesBar, []error) {
	var errs []error
	byTime := make(map[int64]FuturesBar, len(e.Kbars))

	for i := range e.Kbars {
		bar, err := e.Kbars[i].ToModel()
		if err != nil {
			errs = append(errs, err)
			continue
		}

		byTime[e.Kbars[i].Ts] = bar
	}

	bars := make([]FuturesBar, 0, len(byTime))
	for _, bar := range byTime {
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})

	return bars, errs
}

type FuturesBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}
