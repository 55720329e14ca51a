package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/txo-chain/src/calendar"
	"github.com/jiaming2012/txo-chain/src/eventmodels"
	"github.com/jiaming2012/txo-chain/src/store"
	"github.com/jiaming2012/txo-chain/src/views"
)

type ChainReport struct {
	Expiration   eventmodels.ExpirationDate
	Spot         float64
	Clock        eventmodels.SessionClock
	Results      []eventmodels.AnalyticsResult
	OTMSum       *eventmodels.OTMSum
	Distribution *eventmodels.ProfitDistribution
}

// BuildReport loads the snapshot rows into a fresh store and derives the
// report for expiration, or for the near expiration when it is empty.
func BuildReport(ctx context.Context, rows []eventmodels.SnapshotRowDTO, spot float64, expiration eventmodels.ExpirationDate, now time.Time, config *eventmodels.ChainConfigYAML) (*ChainReport, error) {
	cal := calendar.New(config.ExchangeLocation)
	cfg := views.NewConfig(config)

	contractStore := store.NewContractStore(store.NewManualClock(now), config.FlashTTL)
	defer contractStore.Close()

	applied, errs := contractStore.ApplySnapshot(&eventmodels.SnapshotRefreshEvent{ChainRows: rows})
	for _, err := range errs {
		log.Warnf("BuildReport: skipped row: %v", err)
	}

	if applied == 0 {
		return nil, fmt.Errorf("BuildReport: no valid rows in snapshot")
	}

	if err := contractStore.ApplySpotPrice(&eventmodels.SpotPriceEvent{Ts: now.UnixMilli(), Price: eventmodels.NewFeedNumber(spot)}); err != nil {
		return nil, fmt.Errorf("BuildReport: %w", err)
	}

	if expiration == "" {
		expiration = contractStore.NearExpiration()
	}

	snapshot := contractStore.Snapshot()

	clock, err := cal.SessionClock(now, expiration)
	if err != nil {
		return nil, fmt.Errorf("BuildReport: %w", err)
	}

	results, err := views.AnalyticsTable(ctx, snapshot, expiration, cal, now, cfg)
	if err != nil {
		return nil, fmt.Errorf("BuildReport: %w", err)
	}

	otmSum, err := views.OTMTimeValueSum(snapshot, expiration)
	if err != nil {
		return nil, fmt.Errorf("BuildReport: %w", err)
	}

	return &ChainReport{
		Expiration:   expiration,
		Spot:         spot,
		Clock:        clock,
		Results:      results,
		OTMSum:       otmSum,
		Distribution: views.ProfitDistribution(snapshot, expiration, cfg),
	}, nil
}

func moneynessLabel(m eventmodels.OptionMoneyness) string {
	if m.IsOTM() {
		return "OTM"
	}

	return "ITM"
}

func (r *ChainReport) Render(w io.Writer) error {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	display.WriteString(fmt.Sprintf("Expiration %s, spot %s\n", r.Expiration, p.Sprintf("%.2f", r.Spot)))
	display.WriteString(fmt.Sprintf("Settlement in %s, tradable %s\n\n", r.Clock.SettlementCountdown, r.Clock.TradableCountdown))

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Strike", "C/P", "Price", "Moneyness", "IV", "Delta", "Gamma", "Theta", "Vega"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, res := range r.Results {
		row := []string{
			p.Sprintf("%.0f", res.Key.StrikeFloat()),
			string(res.Key.Type),
			p.Sprintf("%.2f", res.Price),
			moneynessLabel(res.Moneyness),
		}

		if res.Defined {
			iv := fmt.Sprintf("%.2f%%", res.ImpliedVol*100)
			if !res.Converged {
				iv += "*"
			}

			row = append(row,
				iv,
				fmt.Sprintf("%.3f", res.Delta),
				fmt.Sprintf("%.5f", res.Gamma),
				fmt.Sprintf("%.2f", res.Theta),
				fmt.Sprintf("%.2f", res.Vega),
			)
		} else {
			row = append(row, "-", "-", "-", "-", "-")
		}

		table.Append(row)
	}

	table.Render()

	display.WriteString("\n")
	if r.OTMSum != nil {
		display.WriteString(fmt.Sprintf("OTM sum: %s (%d contracts)\n", p.Sprintf("%.2f", r.OTMSum.Sum), r.OTMSum.Contracts))
	}

	if r.Distribution != nil && r.Distribution.Defined {
		display.WriteString(fmt.Sprintf("Max pain: %s, pain zone %s - %s\n",
			p.Sprintf("%.0f", r.Distribution.MaxPain),
			p.Sprintf("%.0f", r.Distribution.PainZoneLow),
			p.Sprintf("%.0f", r.Distribution.PainZoneHigh),
		))
	} else {
		display.WriteString("Max pain: -\n")
	}

	if _, err := io.WriteString(w, display.String()); err != nil {
		return fmt.Errorf("Render: %w", err)
	}

	return nil
}
