package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/report"
)

var showPlayer string

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show a stored import by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "highlight a player")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.GetImportByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query import: %w", err)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "No import found with hash prefix %q\n", prefix)
		return nil
	}
	ds, err := db.LoadDataset(rec.Hash)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	printDataset(*rec, ds, showPlayer)

	if len(ds.Events) > 0 {
		fmt.Fprintln(os.Stdout, "\nHardest questions:")
		hardest := aggregator.Difficulty(ds.Events)
		if len(hardest) > cfg.DefaultLimit {
			hardest = hardest[:cfg.DefaultLimit]
		}
		report.PrintDifficultyTable(os.Stdout, hardest)
	}
	return nil
}
