package pricing

import (
	"math"

	log "github.com/sirupsen/logrus"
)

const (
	initialSigma = 0.25
	minSigma     = 1e-4
	ivTolerance  = 1e-4
	ivMaxIter    = 50
	minVega      = 1e-12
)

type IVResult struct {
	Sigma      float64
	Iterations int
	Converged  bool
	Defined    bool
}

// ImpliedVolatility solves for sigma with Newton-Raphson. When the solver
// does not converge the last iterate is returned with Converged unset.
func ImpliedVolatility(in OptionInput) IVResult {
	if in.Price <= 0 || in.Years <= 0 || in.Spot <= 0 || in.Strike <= 0 {
		return IVResult{}
	}

	sigma := initialSigma
	for i := 1; i <= ivMaxIter; i++ {
		theo := BlackScholesPrice(in.Type, in.Spot, in.Strike, in.Years, in.Rate, sigma)
		diff := theo - in.Price
		if math.Abs(diff) < ivTolerance {
			return IVResult{Sigma: sigma, Iterations: i, Converged: true, Defined: true}
		}

		vega := Vega(in.Spot, in.Strike, in.Years, in.Rate, sigma)
		if vega < minVega {
			log.WithFields(log.Fields{
				"type":   in.Type,
				"strike": in.Strike,
				"price":  in.Price,
				"sigma":  sigma,
			}).Debug("ImpliedVolatility: vega vanished")

			return IVResult{Sigma: sigma, Iterations: i, Defined: true}
		}

		sigma = math.Max(minSigma, sigma-diff/vega)
	}

	log.WithFields(log.Fields{
		"type":   in.Type,
		"strike": in.Strike,
		"price":  in.Price,
		"sigma":  sigma,
	}).Debug("ImpliedVolatility: did not converge")

	return IVResult{Sigma: sigma, Iterations: ivMaxIter, Defined: true}
}
