package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/report"
)

var difficultyLimit int

var difficultyCmd = &cobra.Command{
	Use:   "difficulty <ref>",
	Short: "Rank questions by miss rate, hardest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runDifficulty,
}

func init() {
	difficultyCmd.Flags().IntVarP(&difficultyLimit, "limit", "n", -1, "questions to show (-1 for all)")
}

func runDifficulty(cmd *cobra.Command, args []string) error {
	ds, _, err := resolveRef(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	entries := aggregator.Difficulty(ds.Events)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "No answer events in this export.")
		return nil
	}
	if n := limitOrDefault(difficultyLimit); n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	report.PrintDifficultyTable(os.Stdout, entries)
	return nil
}
