package pricing

import "math"

const invSqrt2Pi = 0.3989422804014327

// NormPDF is the standard normal density.
func NormPDF(x float64) float64 {
	return invSqrt2Pi * math.Exp(-0.5*x*x)
}

// NormCDF is the Zelen-Severo approximation of the standard normal
// distribution (Abramowitz & Stegun 26.2.17), absolute error below 7.5e-8.
func NormCDF(x float64) float64 {
	const (
		p  = 0.2316419
		a1 = 0.319381530
		a2 = -0.356563782
		a3 = 1.781477937
		a4 = -1.821255978
		a5 = 1.330274429
	)

	if math.IsNaN(x) {
		return math.NaN()
	}

	ax := math.Abs(x)
	k := 1 / (1 + p*ax)
	poly := k * (a1 + k*(a2+k*(a3+k*(a4+k*a5))))
	upper := NormPDF(ax) * poly

	if x >= 0 {
		return 1 - upper
	}

	return upper
}
