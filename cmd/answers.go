package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/report"
)

var answersCmd = &cobra.Command{
	Use:   "answers <ref> <name>",
	Short: "Per-question breakdown for one player",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnswers,
}

func runAnswers(cmd *cobra.Command, args []string) error {
	ds, _, err := resolveRef(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	stats := aggregator.PlayerQuestionStats(args[1], ds.Events)
	if len(stats) == 0 {
		fmt.Println("no answers found")
		return nil
	}
	report.PrintQuestionStats(os.Stdout, stats)
	return nil
}
