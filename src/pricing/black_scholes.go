package pricing

import (
	"math"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

// OptionInput is one contract priced against spot.
type OptionInput struct {
	Type   eventmodels.OptionType
	Spot   float64
	Strike float64
	Years  float64
	Rate   float64
	Price  float64
}

func d1d2(S, K, T, r, sigma float64) (float64, float64) {
	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	return d1, d1 - sigma*sqrtT
}

func intrinsic(optionType eventmodels.OptionType, S, K float64) float64 {
	if optionType.IsCall() {
		return math.Max(0, S-K)
	}

	return math.Max(0, K-S)
}

// BlackScholesPrice is the European option price. A non-positive horizon or
// volatility returns the intrinsic value.
func BlackScholesPrice(optionType eventmodels.OptionType, S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		return intrinsic(optionType, S, K)
	}

	d1, d2 := d1d2(S, K, T, r, sigma)
	discount := K * math.Exp(-r*T)

	if optionType.IsCall() {
		return S*NormCDF(d1) - discount*NormCDF(d2)
	}

	return discount*NormCDF(-d2) - S*NormCDF(-d1)
}

// Vega is the raw price sensitivity to volatility (per 1.00 of sigma).
func Vega(S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		return 0
	}

	d1, _ := d1d2(S, K, T, r, sigma)
	return S * NormPDF(d1) * math.Sqrt(T)
}
