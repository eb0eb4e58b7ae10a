package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/report"
)

var trendCmd = &cobra.Command{
	Use:   "trend <ref> <name>",
	Short: "Running score progression for a player, in answer order",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	ds, _, err := resolveRef(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	points := aggregator.Trend(args[1], ds.Events)
	if len(points) == 0 {
		fmt.Println("no answers found")
		return nil
	}
	report.PrintTrend(os.Stdout, points)
	return nil
}
