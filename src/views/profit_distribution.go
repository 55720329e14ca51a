package views

import (
	"math"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

type painContributor struct {
	strike  float64
	isCall  bool
	oi      float64
	premium float64
}

// ProfitDistribution is the sellers' payoff across settlement prices. Only
// contracts with open interest and a traded price contribute. Max pain is the
// first grid price with the highest total; the pain zone spans the prices
// within 10% of that peak.
func ProfitDistribution(snapshot *eventmodels.ChainSnapshot, expiration eventmodels.ExpirationDate, cfg Config) *eventmodels.ProfitDistribution {
	if expiration == "" {
		expiration = snapshot.NearExpiration
	}

	out := &eventmodels.ProfitDistribution{Expiration: expiration}

	var contributors []painContributor
	var strikes []float64
	for _, c := range snapshot.ByExpiration(expiration) {
		if c.OpenInterest == nil || *c.OpenInterest == 0 || c.Last == nil || *c.Last == 0 {
			continue
		}

		contributors = append(contributors, painContributor{
			strike:  c.Key.StrikeFloat(),
			isCall:  c.Key.Type.IsCall(),
			oi:      math.Abs(*c.OpenInterest),
			premium: *c.Last,
		})
		strikes = append(strikes, c.Key.StrikeFloat())
	}

	if len(contributors) == 0 {
		return out
	}

	for _, price := range strikeGrid(strikes, cfg.FallbackStrikeStep) {
		point := eventmodels.ProfitDistributionPoint{Price: price}
		for _, c := range contributors {
			payoff := (c.premium - intrinsicValue(c.isCall, price, c.strike)) * c.oi * cfg.Multiplier
			if c.isCall {
				point.Call += payoff
			} else {
				point.Put += payoff
			}
		}
		point.Total = point.Call + point.Put

		out.Points = append(out.Points, point)
	}

	peak := out.Points[0]
	for _, p := range out.Points[1:] {
		if p.Total > peak.Total {
			peak = p
		}
	}

	threshold := peak.Total - 0.1*math.Abs(peak.Total)
	out.PainZoneLow = math.Inf(1)
	out.PainZoneHigh = math.Inf(-1)
	for _, p := range out.Points {
		if p.Total >= threshold {
			out.PainZoneLow = math.Min(out.PainZoneLow, p.Price)
			out.PainZoneHigh = math.Max(out.PainZoneHigh, p.Price)
		}
	}

	out.MaxPain = peak.Price
	out.MaxPainValue = peak.Total
	out.Defined = true

	return out
}
