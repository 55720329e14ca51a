package views

import (
	"math"
	"sort"
)

func uniqueSorted(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)

	n := 0
	for i, v := range out {
		if i > 0 && v == out[n-1] {
			continue
		}
		out[n] = v
		n++
	}

	return out[:n]
}

// strikeGrid pads the distinct strikes by one step on each side. The step is
// the smallest gap between neighbouring strikes, or fallback for a single
// strike.
func strikeGrid(strikes []float64, fallback float64) []float64 {
	ks := uniqueSorted(strikes)
	if len(ks) == 0 {
		return nil
	}

	step := math.Inf(1)
	for i := 1; i < len(ks); i++ {
		step = math.Min(step, ks[i]-ks[i-1])
	}
	if math.IsInf(step, 1) {
		step = fallback
	}

	grid := make([]float64, 0, len(ks)+2)
	grid = append(grid, ks[0]-step)
	grid = append(grid, ks...)
	grid = append(grid, ks[len(ks)-1]+step)

	return grid
}

func intrinsicValue(isCall bool, price, strike float64) float64 {
	if isCall {
		return math.Max(price-strike, 0)
	}

	return math.Max(strike-price, 0)
}
