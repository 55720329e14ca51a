package views

import (
	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

// SimulatePayoff values a multi-leg position at settlement over a grid built
// from every strike of the snapshot. Each leg expiration gets its own series;
// a leg whose contract is unknown or has no premium adds nothing to it.
func SimulatePayoff(snapshot *eventmodels.ChainSnapshot, legs []eventmodels.PositionLeg, cfg Config) *eventmodels.PayoffSimulation {
	grid := strikeGrid(snapshot.Strikes(""), cfg.FallbackStrikeStep)

	out := &eventmodels.PayoffSimulation{
		Grid:  grid,
		Total: make([]float64, len(grid)),
	}

	series := make(map[eventmodels.ExpirationDate]int)
	for _, leg := range legs {
		idx, ok := series[leg.Key.Expiration]
		if !ok {
			idx = len(out.ByExpiration)
			series[leg.Key.Expiration] = idx
			out.ByExpiration = append(out.ByExpiration, eventmodels.PayoffSeries{
				Expiration: leg.Key.Expiration,
				Values:     make([]float64, len(grid)),
			})
		}

		contract, ok := snapshot.Lookup(leg.Key)
		if !ok {
			continue
		}

		premium, ok := contract.Premium()
		if !ok {
			continue
		}

		strike := leg.Key.StrikeFloat()
		for i, price := range grid {
			pnl := (intrinsicValue(leg.Key.Type.IsCall(), price, strike) - premium) * leg.Quantity * cfg.Multiplier * leg.Side.Sign()
			out.ByExpiration[idx].Values[i] += pnl
			out.Total[i] += pnl
		}
	}

	return out
}
