package views

import (
	"sort"
	"sync"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

// OTMSeriesRecorder keeps one OTM sum sample per tradable minute for the
// expiration being tracked. A new expiration starts a new series.
type OTMSeriesRecorder struct {
	mu         sync.Mutex
	expiration eventmodels.ExpirationDate
	samples    map[int64]float64
}

func NewOTMSeriesRecorder() *OTMSeriesRecorder {
	return &OTMSeriesRecorder{
		samples: make(map[int64]float64),
	}
}

func (r *OTMSeriesRecorder) Record(expiration eventmodels.ExpirationDate, minutes int64, sum float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if expiration != r.expiration {
		r.expiration = expiration
		r.samples = make(map[int64]float64)
	}

	r.samples[minutes] = sum
}

// Series returns the samples ordered from the most to the least minutes
// remaining.
func (r *OTMSeriesRecorder) Series() *eventmodels.OTMSeries {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := &eventmodels.OTMSeries{
		Expiration: r.expiration,
		Samples:    make([]eventmodels.OTMSample, 0, len(r.samples)),
	}

	for minutes, sum := range r.samples {
		out.Samples = append(out.Samples, eventmodels.OTMSample{TradableMinutes: minutes, Sum: sum})
	}

	sort.Slice(out.Samples, func(i, j int) bool {
		return out.Samples[i].TradableMinutes > out.Samples[j].TradableMinutes
	})

	return out
}
