package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/model"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about every export stored in the database:
import count, date range, players seen, answers recorded and the most
active players.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetDBOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalImports == 0 {
		fmt.Fprintln(os.Stdout, "No exports stored yet. Run 'quizmetrics import <file.xlsx>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Exports stored : %d\n", ov.TotalImports)
	fmt.Fprintf(os.Stdout, "  Date range     : %s → %s\n", ov.EarliestImport, ov.LatestImport)
	fmt.Fprintf(os.Stdout, "  Players seen   : %d\n", ov.UniquePlayers)
	fmt.Fprintf(os.Stdout, "  Summary rows   : %d\n", ov.TotalSummaries)
	fmt.Fprintf(os.Stdout, "  Answers        : %d (%.1f%% correct)\n",
		ov.TotalAttempts, model.Percent(ov.TotalCorrect, ov.TotalAttempts))

	players, err := db.GetTopPlayersByImports(cfg.DefaultLimit)
	if err != nil {
		return fmt.Errorf("get top players: %w", err)
	}
	if len(players) == 0 {
		return nil
	}
	fmt.Fprintf(os.Stdout, "\n--- Most Active Players ---\n\n")
	pt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	pt.Header("PLAYER", "EXPORTS", "AVG ACC%", "GRADE", "BEST SCORE", "BEST RANK")
	for _, p := range players {
		pt.Append(
			p.Player,
			fmt.Sprintf("%d", p.Imports),
			fmt.Sprintf("%.1f%%", p.AvgAccuracy),
			string(model.GradeForAccuracy(p.AvgAccuracy)),
			fmt.Sprintf("%.0f", p.BestScore),
			fmt.Sprintf("%d", p.BestRank),
		)
	}
	pt.Render()
	return nil
}
