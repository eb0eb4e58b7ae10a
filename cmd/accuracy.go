package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/report"
)

var accuracyLimit int

var accuracyCmd = &cobra.Command{
	Use:   "accuracy <ref>",
	Short: "Rank players by accuracy with letter grades",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccuracy,
}

func init() {
	accuracyCmd.Flags().IntVarP(&accuracyLimit, "limit", "n", 0, "rows to show (default from config; -1 for all)")
}

func runAccuracy(cmd *cobra.Command, args []string) error {
	ds, _, err := resolveRef(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(ds.Summaries) == 0 {
		fmt.Fprintln(os.Stdout, "No summary rows in this export.")
		return nil
	}
	report.PrintAccuracyTable(os.Stdout, aggregator.AccuracyLeaderboard(ds.Summaries, limitOrDefault(accuracyLimit)))
	return nil
}
