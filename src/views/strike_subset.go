package views

import (
	"sort"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

// DefaultStrikeSubset picks callCount strikes above spot and putCount at or
// below it. When one side runs short the other side makes up the
// difference.
func DefaultStrikeSubset(strikes []float64, spot float64, callCount, putCount int) []float64 {
	ks := uniqueSorted(strikes)
	if len(ks) == 0 {
		return nil
	}

	i := sort.Search(len(ks), func(i int) bool { return ks[i] > spot })
	above, below := ks[i:], ks[:i]

	nc := min(callCount, len(above))
	np := min(putCount, len(below))
	if nc < callCount {
		np = min(len(below), putCount+callCount-nc)
	}
	if np < putCount {
		nc = min(len(above), callCount+putCount-np)
	}

	out := make([]float64, 0, nc+np)
	out = append(out, below[len(below)-np:]...)
	out = append(out, above[:nc]...)

	return out
}

// StrikeSubset returns the announced subset of the expiration, or derives
// one from the known strikes and the spot price.
func StrikeSubset(snapshot *eventmodels.ChainSnapshot, expiration eventmodels.ExpirationDate, cfg Config) []float64 {
	if expiration == "" {
		expiration = snapshot.NearExpiration
	}

	if subset, ok := snapshot.DefaultSubset[expiration]; ok && len(subset) > 0 {
		return append([]float64(nil), subset...)
	}

	spot, ok := snapshot.SpotPrice()
	if !ok {
		return nil
	}

	strikes := append(snapshot.Strikes(expiration), snapshot.StrikesByExpiration[expiration]...)

	return DefaultStrikeSubset(strikes, spot, cfg.CallSubsetSize, cfg.PutSubsetSize)
}
