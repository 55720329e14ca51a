package eventmodels

import (
	"sort"
	"time"
)

// ChainSnapshot is an immutable copy of the whole chain taken at one store
// version. Contracts are ordered by expiration, strike, then calls first.
type ChainSnapshot struct {
	Contracts           []ContractState              `json:"contracts"`
	Expirations         []ExpirationDate             `json:"expirations"`
	NearExpiration      ExpirationDate               `json:"near_expiration"`
	DefaultExpiration   ExpirationDate               `json:"default_expiration"`
	StrikesByExpiration map[ExpirationDate][]float64 `json:"strikes_by_expiration"`
	DefaultSubset       map[ExpirationDate][]float64 `json:"default_subset"`
	Spot                *float64                     `json:"spot"`
	Version             uint64                       `json:"version"`
	TakenAt             time.Time                    `json:"taken_at"`

	index map[string]int
}

func NewChainSnapshot(contracts []ContractState) *ChainSnapshot {
	sort.Slice(contracts, func(i, j int) bool {
		return contractLess(contracts[i].Key, contracts[j].Key)
	})

	index := make(map[string]int, len(contracts))
	for i, c := range contracts {
		index[c.Key.ID()] = i
	}

	return &ChainSnapshot{
		Contracts:           contracts,
		StrikesByExpiration: make(map[ExpirationDate][]float64),
		DefaultSubset:       make(map[ExpirationDate][]float64),
		index:               index,
	}
}

func contractLess(a, b ContractKey) bool {
	if a.Expiration != b.Expiration {
		return a.Expiration.Before(b.Expiration)
	}

	if !a.Strike.Equal(b.Strike) {
		return a.Strike.LessThan(b.Strike)
	}

	return a.Type.IsCall() && !b.Type.IsCall()
}

func (s *ChainSnapshot) Lookup(key ContractKey) (ContractState, bool) {
	i, ok := s.index[key.ID()]
	if !ok {
		return ContractState{}, false
	}

	return s.Contracts[i], true
}

func (s *ChainSnapshot) ByExpiration(exp ExpirationDate) []ContractState {
	var out []ContractState
	for _, c := range s.Contracts {
		if c.Key.Expiration == exp {
			out = append(out, c)
		}
	}

	return out
}

// Strikes returns the distinct strikes of exp in ascending order, or of all
// expirations when exp is empty.
func (s *ChainSnapshot) Strikes(exp ExpirationDate) []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	for _, c := range s.Contracts {
		if exp != "" && c.Key.Expiration != exp {
			continue
		}

		k := c.Key.StrikeFloat()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}

	sort.Float64s(out)
	return out
}

func (s *ChainSnapshot) SpotPrice() (float64, bool) {
	if s.Spot == nil {
		return 0, false
	}

	return *s.Spot, true
}
