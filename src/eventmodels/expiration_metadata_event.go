package eventmodels

import (
	"fmt"
	"sort"
)

type ExpirationMetadataEvent struct {
	Expirations               []string             `json:"expirations"`
	DefaultExpiration         string               `json:"defaultExpiration"`
	StrikesByExpiration       map[string][]float64 `json:"strikesByExpiration"`
	DefaultSubsetByExpiration map[string][]float64 `json:"defaultSubsetByExpiration"`
}

type ExpirationMetadata struct {
	Expirations         []ExpirationDate             `json:"expirations"`
	DefaultExpiration   ExpirationDate               `json:"default_expiration"`
	StrikesByExpiration map[ExpirationDate][]float64 `json:"strikes_by_expiration"`
	DefaultSubset       map[ExpirationDate][]float64 `json:"default_subset"`
}

// ToModel normalises the dates of the event. Entries with a malformed date
// are skipped and reported in the returned error list.
func (e *ExpirationMetadataEvent) ToModel() (ExpirationMetadata, []error) {
	var errs []error

	out := ExpirationMetadata{
		StrikesByExpiration: make(map[ExpirationDate][]float64),
		DefaultSubset:       make(map[ExpirationDate][]float64),
	}

	for _, s := range e.Expirations {
		exp, err := NewExpirationDate(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("ExpirationMetadataEvent.ToModel: expirations: %w", err))
			continue
		}
		out.Expirations = append(out.Expirations, exp)
	}

	if e.DefaultExpiration != "" {
		exp, err := NewExpirationDate(e.DefaultExpiration)
		if err != nil {
			errs = append(errs, fmt.Errorf("ExpirationMetadataEvent.ToModel: defaultExpiration: %w", err))
		} else {
			out.DefaultExpiration = exp
		}
	}

	convert := func(src map[string][]float64, dst map[ExpirationDate][]float64, name string) {
		for s, strikes := range src {
			exp, err := NewExpirationDate(s)
			if err != nil {
				errs = append(errs, fmt.Errorf("ExpirationMetadataEvent.ToModel: %s: %w", name, err))
				continue
			}

			sorted := append([]float64(nil), strikes...)
			sort.Float64s(sorted)
			dst[exp] = sorted
		}
	}
	convert(e.StrikesByExpiration, out.StrikesByExpiration, "strikesByExpiration")
	convert(e.DefaultSubsetByExpiration, out.DefaultSubset, "defaultSubsetByExpiration")

	sort.Slice(out.Expirations, func(i, j int) bool {
		return out.Expirations[i].Before(out.Expirations[j])
	})

	return out, errs
}
