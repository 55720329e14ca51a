package views

import (
	"sort"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

// VolumeHistogram puts call volume above and put volume below zero, by
// strike.
func VolumeHistogram(snapshot *eventmodels.ChainSnapshot, expiration eventmodels.ExpirationDate) *eventmodels.VolumeHistogram {
	if expiration == "" {
		expiration = snapshot.NearExpiration
	}

	bars := make(map[float64]*eventmodels.VolumeBar)
	for _, c := range snapshot.ByExpiration(expiration) {
		if c.TotalVolume == nil {
			continue
		}

		strike := c.Key.StrikeFloat()
		bar, ok := bars[strike]
		if !ok {
			bar = &eventmodels.VolumeBar{Strike: strike}
			bars[strike] = bar
		}

		if c.Key.Type.IsCall() {
			bar.CallVolume = *c.TotalVolume
		} else {
			bar.PutVolume = -*c.TotalVolume
		}
	}

	out := &eventmodels.VolumeHistogram{Expiration: expiration}
	for _, b := range bars {
		out.Bars = append(out.Bars, *b)
	}
	sort.Slice(out.Bars, func(i, j int) bool {
		return out.Bars[i].Strike < out.Bars[j].Strike
	})

	return out
}
