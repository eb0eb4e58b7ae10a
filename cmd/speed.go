package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/report"
)

var (
	speedMinSamples int
	speedLimit      int
)

var speedCmd = &cobra.Command{
	Use:   "speed <ref>",
	Short: "Rank players by average answer time",
	Long: `Rank players by their mean answer time over the event sheet, fastest first.
Players with fewer than --min-samples answers are left out.`,
	Args: cobra.ExactArgs(1),
	RunE: runSpeed,
}

func init() {
	speedCmd.Flags().IntVar(&speedMinSamples, "min-samples", 0, "minimum answers to qualify (default from config)")
	speedCmd.Flags().IntVarP(&speedLimit, "limit", "n", 0, "rows to show (default from config; -1 for all)")
}

func runSpeed(cmd *cobra.Command, args []string) error {
	minSamples := speedMinSamples
	if minSamples <= 0 {
		minSamples = cfg.MinSamples
	}

	ds, _, err := resolveRef(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	entries := aggregator.SpeedLeaderboard(ds.Events, minSamples, limitOrDefault(speedLimit))
	if len(entries) == 0 {
		fmt.Fprintf(os.Stdout, "No player has %d or more answers.\n", minSamples)
		return nil
	}
	report.PrintSpeedTable(os.Stdout, entries)
	return nil
}
