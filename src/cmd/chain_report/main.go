package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/txo-chain/src/calendar"
	"github.com/jiaming2012/txo-chain/src/eventmodels"
	"github.com/jiaming2012/txo-chain/src/utils"
)

const nowLayout = "2006-01-02T15:04:05"

type RunArgs struct {
	SnapshotFile string
	Spot         float64
	Expiration   string
	ConfigFile   string
	Now          string
}

func loadSnapshotRows(path string) ([]eventmodels.SnapshotRowDTO, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %v", err)
	}
	defer f.Close()

	var rows []eventmodels.SnapshotRowDTO
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal CSV: %v", err)
	}

	return rows, nil
}

func Run(ctx context.Context, args RunArgs) (*ChainReport, error) {
	config, err := utils.LoadChainConfig(args.ConfigFile)
	if err != nil {
		return nil, err
	}

	cal := calendar.New(config.ExchangeLocation)

	now := time.Now()
	if args.Now != "" {
		if now, err = time.ParseInLocation(nowLayout, args.Now, cal.Location()); err != nil {
			return nil, fmt.Errorf("failed to parse now: %v", err)
		}
	}

	var expiration eventmodels.ExpirationDate
	if args.Expiration != "" {
		if expiration, err = calendar.ParseExpiration(args.Expiration); err != nil {
			return nil, err
		}
	}

	rows, err := loadSnapshotRows(args.SnapshotFile)
	if err != nil {
		return nil, err
	}

	return BuildReport(ctx, rows, args.Spot, expiration, now, config)
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/chain_report/main.go --snapshot rows.csv --spot 18050 --expiration 2025/01/15",
	Short: "Prints the option chain with moneyness, IV and Greeks, the OTM sum, max pain and the session clock.",
	Run: func(cmd *cobra.Command, args []string) {
		snapshotFile, err := cmd.Flags().GetString("snapshot")
		if err != nil {
			log.Fatalf("error getting snapshot: %v", err)
		}

		spot, err := cmd.Flags().GetFloat64("spot")
		if err != nil {
			log.Fatalf("error getting spot: %v", err)
		}

		expiration, err := cmd.Flags().GetString("expiration")
		if err != nil {
			log.Fatalf("error getting expiration: %v", err)
		}

		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		now, err := cmd.Flags().GetString("now")
		if err != nil {
			log.Fatalf("error getting now: %v", err)
		}

		report, err := Run(cmd.Context(), RunArgs{
			SnapshotFile: snapshotFile,
			Spot:         spot,
			Expiration:   expiration,
			ConfigFile:   configFile,
			Now:          now,
		})
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		if err := report.Render(os.Stdout); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func main() {
	runCmd.PersistentFlags().String("snapshot", "", "CSV file of snapshot rows.")
	runCmd.PersistentFlags().Float64("spot", 0, "The underlying spot price.")
	runCmd.PersistentFlags().String("expiration", "", "Expiration to report, defaults to the near expiration.")
	runCmd.PersistentFlags().String("config", "", "Chain config yaml.")
	runCmd.PersistentFlags().String("now", "", "Evaluation time in the exchange location, e.g. 2025-01-15T09:00:00.")
	runCmd.MarkPersistentFlagRequired("snapshot")
	runCmd.MarkPersistentFlagRequired("spot")

	if err := runCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
