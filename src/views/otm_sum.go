package views

import (
	"fmt"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

func Classify(key eventmodels.ContractKey, spot float64) eventmodels.OptionMoneyness {
	return eventmodels.NewOptionMoneyness(key.Type, key.StrikeFloat(), spot)
}

// OTMTimeValueSum adds up the last price of every out-of-the-money contract
// of the expiration. An OTM premium is all time value. An empty expiration
// selects the near expiration of the snapshot.
func OTMTimeValueSum(snapshot *eventmodels.ChainSnapshot, expiration eventmodels.ExpirationDate) (*eventmodels.OTMSum, error) {
	spot, ok := snapshot.SpotPrice()
	if !ok {
		return nil, fmt.Errorf("OTMTimeValueSum: %w", eventmodels.ErrSpotPriceUnknown)
	}

	if expiration == "" {
		expiration = snapshot.NearExpiration
	}

	out := &eventmodels.OTMSum{
		Expiration: expiration,
		Spot:       spot,
	}

	for _, c := range snapshot.ByExpiration(expiration) {
		if c.Last == nil {
			continue
		}

		if !Classify(c.Key, spot).IsOTM() {
			continue
		}

		out.Sum += *c.Last
		out.Contracts++
	}

	return out, nil
}
