package pricing

import (
	"math"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

// Greeks are quoted per day for theta and per 1% for vega and rho.
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

func CalculateGreeks(optionType eventmodels.OptionType, S, K, T, r, sigma float64) Greeks {
	if T <= 0 || sigma <= 0 || S <= 0 || K <= 0 {
		return Greeks{}
	}

	phi := -1.0
	if optionType.IsCall() {
		phi = 1.0
	}

	sqrtT := math.Sqrt(T)
	d1, d2 := d1d2(S, K, T, r, sigma)
	pdf := NormPDF(d1)
	discount := math.Exp(-r * T)

	delta := NormCDF(d1)
	if !optionType.IsCall() {
		delta -= 1
	}

	return Greeks{
		Delta: delta,
		Gamma: pdf / (S * sigma * sqrtT),
		Theta: (-S*pdf*sigma/(2*sqrtT) - phi*r*K*discount*NormCDF(phi*d2)) / 365,
		Vega:  S * pdf * sqrtT / 100,
		Rho:   phi * K * T * discount * NormCDF(phi*d2) / 100,
	}
}
