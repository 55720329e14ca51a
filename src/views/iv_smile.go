package views

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/jiaming2012/txo-chain/src/calendar"
	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

// IVSmile lists the converged implied volatilities of an expiration by
// strike, with the mean and median of each side.
func IVSmile(ctx context.Context, snapshot *eventmodels.ChainSnapshot, expiration eventmodels.ExpirationDate, cal *calendar.Calendar, now time.Time, cfg Config) (*eventmodels.IVSmile, error) {
	if expiration == "" {
		expiration = snapshot.NearExpiration
	}

	results, err := AnalyticsTable(ctx, snapshot, expiration, cal, now, cfg)
	if err != nil {
		return nil, fmt.Errorf("IVSmile: %w", err)
	}

	points := make(map[float64]*eventmodels.IVSmilePoint)
	var calls, puts stats.Float64Data
	for _, r := range results {
		if !r.Defined || !r.Converged {
			continue
		}

		strike := r.Key.StrikeFloat()
		point, ok := points[strike]
		if !ok {
			point = &eventmodels.IVSmilePoint{Strike: strike}
			points[strike] = point
		}

		iv := r.ImpliedVol
		if r.Key.Type.IsCall() {
			point.CallIV = &iv
			calls = append(calls, iv)
		} else {
			point.PutIV = &iv
			puts = append(puts, iv)
		}
	}

	out := &eventmodels.IVSmile{Expiration: expiration}
	for _, p := range points {
		out.Points = append(out.Points, *p)
	}
	sort.Slice(out.Points, func(i, j int) bool {
		return out.Points[i].Strike < out.Points[j].Strike
	})

	if len(calls) > 0 {
		out.CallIVMean, _ = stats.Mean(calls)
		out.CallIVMedian, _ = stats.Median(calls)
	}

	if len(puts) > 0 {
		out.PutIVMean, _ = stats.Mean(puts)
		out.PutIVMedian, _ = stats.Median(puts)
	}

	return out, nil
}
