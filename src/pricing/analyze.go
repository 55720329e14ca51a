package pricing

import (
	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

// Analyze solves the implied volatility of in and derives the Greeks at that
// volatility. The result is undefined when the inputs cannot be priced.
func Analyze(key eventmodels.ContractKey, in OptionInput) eventmodels.AnalyticsResult {
	result := eventmodels.AnalyticsResult{
		Key:          key,
		Spot:         in.Spot,
		Price:        in.Price,
		YearFraction: in.Years,
	}

	if in.Spot <= 0 || in.Strike <= 0 {
		return result
	}

	result.Moneyness = eventmodels.NewOptionMoneyness(in.Type, in.Strike, in.Spot)

	iv := ImpliedVolatility(in)
	if !iv.Defined {
		return result
	}

	greeks := CalculateGreeks(in.Type, in.Spot, in.Strike, in.Years, in.Rate, iv.Sigma)

	result.ImpliedVol = iv.Sigma
	result.Delta = greeks.Delta
	result.Gamma = greeks.Gamma
	result.Theta = greeks.Theta
	result.Vega = greeks.Vega
	result.Rho = greeks.Rho
	result.Defined = true
	result.Converged = iv.Converged
	result.Iterations = iv.Iterations

	return result
}
