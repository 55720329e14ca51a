package pricing

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

const testRate = 0.01745

func TestNormCDF(t *testing.T) {
	t.Run("matches erf", func(t *testing.T) {
		for x := -6.0; x <= 6.0; x += 0.05 {
			expected := 0.5 * math.Erfc(-x/math.Sqrt2)
			assert.InDelta(t, expected, NormCDF(x), 1e-6, "x=%v", x)
		}
	})

	t.Run("symmetry", func(t *testing.T) {
		for _, x := range []float64{0.1, 0.5, 1, 2.5, 4} {
			assert.InDelta(t, 1.0, NormCDF(x)+NormCDF(-x), 1e-12)
		}
	})

	t.Run("center", func(t *testing.T) {
		assert.InDelta(t, 0.5, NormCDF(0), 1e-7)
		assert.InDelta(t, 0.3989422804, NormPDF(0), 1e-9)
	})
}

func TestBlackScholesPrice(t *testing.T) {
	t.Run("put call parity", func(t *testing.T) {
		S, K, T, sigma := 18050.0, 18000.0, 0.05, 0.18

		call := BlackScholesPrice(eventmodels.OptionTypeCall, S, K, T, testRate, sigma)
		put := BlackScholesPrice(eventmodels.OptionTypePut, S, K, T, testRate, sigma)

		assert.InDelta(t, S-K*math.Exp(-testRate*T), call-put, 1e-2)
	})

	t.Run("intrinsic at expiry", func(t *testing.T) {
		assert.Equal(t, 50.0, BlackScholesPrice(eventmodels.OptionTypeCall, 18050, 18000, 0, testRate, 0.2))
		assert.Equal(t, 0.0, BlackScholesPrice(eventmodels.OptionTypePut, 18050, 18000, 0, testRate, 0.2))
		assert.Equal(t, 50.0, BlackScholesPrice(eventmodels.OptionTypePut, 18000, 18050, 0, testRate, 0.2))
	})
}

func TestImpliedVolatility(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, optionType := range []eventmodels.OptionType{eventmodels.OptionTypeCall, eventmodels.OptionTypePut} {
			for _, K := range []float64{90, 100, 110} {
				for _, T := range []float64{0.25, 0.5, 1} {
					for _, sigma := range []float64{0.2, 0.35, 0.6} {
						name := fmt.Sprintf("%s K=%v T=%v sigma=%v", optionType, K, T, sigma)
						t.Run(name, func(t *testing.T) {
							price := BlackScholesPrice(optionType, 100, K, T, testRate, sigma)

							result := ImpliedVolatility(OptionInput{
								Type:   optionType,
								Spot:   100,
								Strike: K,
								Years:  T,
								Rate:   testRate,
								Price:  price,
							})

							require.True(t, result.Defined)
							assert.True(t, result.Converged)
							assert.InDelta(t, sigma, result.Sigma, 1e-3)
						})
					}
				}
			}
		}
	})

	t.Run("degenerate inputs are undefined", func(t *testing.T) {
		base := OptionInput{Type: eventmodels.OptionTypeCall, Spot: 100, Strike: 100, Years: 0.5, Rate: testRate, Price: 5}

		noPrice := base
		noPrice.Price = 0
		assert.False(t, ImpliedVolatility(noPrice).Defined)

		expired := base
		expired.Years = 0
		assert.False(t, ImpliedVolatility(expired).Defined)

		negative := base
		negative.Years = -1
		assert.False(t, ImpliedVolatility(negative).Defined)
	})

	t.Run("price below intrinsic does not converge", func(t *testing.T) {
		result := ImpliedVolatility(OptionInput{
			Type:   eventmodels.OptionTypeCall,
			Spot:   100,
			Strike: 90,
			Years:  0.25,
			Rate:   testRate,
			Price:  5,
		})

		assert.True(t, result.Defined)
		assert.False(t, result.Converged)
		assert.GreaterOrEqual(t, result.Sigma, minSigma)
	})
}

func TestCalculateGreeks(t *testing.T) {
	S, K, T, sigma := 100.0, 100.0, 0.5, 0.3

	call := CalculateGreeks(eventmodels.OptionTypeCall, S, K, T, testRate, sigma)
	put := CalculateGreeks(eventmodels.OptionTypePut, S, K, T, testRate, sigma)

	t.Run("delta", func(t *testing.T) {
		assert.InDelta(t, 1.0, call.Delta-put.Delta, 1e-12)
		assert.Greater(t, call.Delta, 0.5)
		assert.Less(t, put.Delta, 0.0)
	})

	t.Run("gamma and vega are side independent", func(t *testing.T) {
		assert.InDelta(t, call.Gamma, put.Gamma, 1e-12)
		assert.InDelta(t, call.Vega, put.Vega, 1e-12)
		assert.InDelta(t, Vega(S, K, T, testRate, sigma)/100, call.Vega, 1e-12)
	})

	t.Run("vega matches a finite difference", func(t *testing.T) {
		h := 1e-3
		up := BlackScholesPrice(eventmodels.OptionTypeCall, S, K, T, testRate, sigma+h)
		down := BlackScholesPrice(eventmodels.OptionTypeCall, S, K, T, testRate, sigma-h)

		assert.InDelta(t, (up-down)/(2*h)/100, call.Vega, 1e-3)
	})

	t.Run("theta is negative and rho signs", func(t *testing.T) {
		assert.Less(t, call.Theta, 0.0)
		assert.Greater(t, call.Rho, 0.0)
		assert.Less(t, put.Rho, 0.0)
	})

	t.Run("undefined inputs", func(t *testing.T) {
		assert.Equal(t, Greeks{}, CalculateGreeks(eventmodels.OptionTypeCall, S, K, 0, testRate, sigma))
	})
}

func TestAnalyze(t *testing.T) {
	key, err := eventmodels.NewContractKey("2025/01/15", 18000, "P")
	require.NoError(t, err)

	t.Run("defined result", func(t *testing.T) {
		price := BlackScholesPrice(eventmodels.OptionTypePut, 18050, 18000, 0.02, testRate, 0.2)

		result := Analyze(key, OptionInput{
			Type:   eventmodels.OptionTypePut,
			Spot:   18050,
			Strike: 18000,
			Years:  0.02,
			Rate:   testRate,
			Price:  price,
		})

		assert.True(t, result.Defined)
		assert.True(t, result.Converged)
		assert.InDelta(t, 0.2, result.ImpliedVol, 1e-3)
		assert.Equal(t, eventmodels.OptionMoneynessOutOfTheMoney, result.Moneyness)
		assert.Less(t, result.Delta, 0.0)
	})

	t.Run("unknown spot", func(t *testing.T) {
		result := Analyze(key, OptionInput{Type: eventmodels.OptionTypePut, Strike: 18000, Years: 0.02, Price: 80})

		assert.False(t, result.Defined)
	})
}
