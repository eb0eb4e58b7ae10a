package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/model"
	"github.com/pable/go-quiz-metrics/internal/report"
	"github.com/pable/go-quiz-metrics/internal/storage"
	"github.com/pable/go-quiz-metrics/pkg/logger"
)

var importPlayer string

var importCmd = &cobra.Command{
	Use:   "import <file|url>",
	Short: "Load a quiz export workbook and store it",
	Long: `Load a quiz export (.xlsx, optionally .gz/.bz2/.zst compressed) from a file
or http(s) URL, store both sheets, and print the overview and leaderboard.
Re-importing the same workbook shows the cached results.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importPlayer, "player", "", "highlight a player in the leaderboard")
}

func runImport(cmd *cobra.Command, args []string) error {
	source := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Loading %s...\n", source)
	ds, info, err := loadSource(cmd.Context(), source)
	if err != nil {
		return err
	}
	if ds.Empty() {
		fmt.Fprintln(os.Stderr, "warning: neither the summary nor the event sheet produced any rows")
	}

	exists, err := db.ImportExists(info.Hash)
	if err != nil {
		return fmt.Errorf("check import: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Workbook %s already stored, showing cached results.\n", info.Hash[:12])
		return showByHash(db, info.Hash, importPlayer)
	}

	rec, err := db.InsertDataset(model.ImportSummary{
		Hash:         info.Hash,
		Source:       source,
		SummarySheet: info.SummarySheet,
		EventSheet:   info.EventSheet,
	}, ds)
	if err != nil {
		return fmt.Errorf("insert import: %w", err)
	}
	logger.Named("import").Info(cmd.Context(), "import stored",
		logger.String("hash", rec.Hash),
		logger.String("id", rec.ID),
		logger.Int("summaries", rec.SummaryCount),
		logger.Int("events", rec.EventCount),
	)

	printDataset(rec, ds, importPlayer)
	return nil
}

// showByHash prints a stored import the way `import` does.
func showByHash(db *storage.DB, hash, focus string) error {
	rec, err := db.GetImportByPrefix(hash)
	if err != nil {
		return fmt.Errorf("query import: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("import not found: %s", hash)
	}
	ds, err := db.LoadDataset(rec.Hash)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	printDataset(*rec, ds, focus)
	return nil
}

func printDataset(rec model.ImportSummary, ds model.Dataset, focus string) {
	report.PrintImportSummary(os.Stdout, rec)
	report.PrintOverview(os.Stdout, aggregator.Overview(ds))
	if len(ds.Summaries) > 0 {
		fmt.Fprintln(os.Stdout)
		rows, _ := aggregator.Rank(ds.Summaries, model.MetricTotalScore, model.Descending, cfg.DefaultLimit)
		report.PrintLeaderboard(os.Stdout, rows, model.MetricTotalScore, focus)
	}
}
