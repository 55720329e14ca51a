package views

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jiaming2012/txo-chain/src/calendar"
	"github.com/jiaming2012/txo-chain/src/eventmodels"
	"github.com/jiaming2012/txo-chain/src/pricing"
)

// AnalyticsTable solves IV and Greeks for every contract of the expiration
// in parallel. Results keep the snapshot's contract order. Contracts without
// a premium come back undefined.
func AnalyticsTable(ctx context.Context, snapshot *eventmodels.ChainSnapshot, expiration eventmodels.ExpirationDate, cal *calendar.Calendar, now time.Time, cfg Config) ([]eventmodels.AnalyticsResult, error) {
	if expiration == "" {
		expiration = snapshot.NearExpiration
	}

	spot, ok := snapshot.SpotPrice()
	if !ok {
		return nil, fmt.Errorf("AnalyticsTable: %w", eventmodels.ErrSpotPriceUnknown)
	}

	years, err := cal.YearFraction(now, expiration)
	if err != nil {
		return nil, fmt.Errorf("AnalyticsTable: %w", err)
	}

	contracts := snapshot.ByExpiration(expiration)
	results := make([]eventmodels.AnalyticsResult, len(contracts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := range contracts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = AnalyzeContract(contracts[i], spot, years, cfg.Rate)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("AnalyticsTable: %w", err)
	}

	return results, nil
}

func AnalyzeContract(contract eventmodels.ContractState, spot, years, rate float64) eventmodels.AnalyticsResult {
	premium, _ := contract.Premium()

	return pricing.Analyze(contract.Key, pricing.OptionInput{
		Type:   contract.Key.Type,
		Spot:   spot,
		Strike: contract.Key.StrikeFloat(),
		Years:  years,
		Rate:   rate,
		Price:  premium,
	})
}
