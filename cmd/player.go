package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/report"
	"github.com/pable/go-quiz-metrics/internal/storage"
)

var (
	playerRecent  int
	playerHistory bool
)

// playerCmd prints the profile of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <ref> <name> [<name>...]",
	Short: "Profile one or more players",
	Long: `Profile players from the event sheet: accuracy, average answer time, best
streak of consecutive correct answers, final running total and the most recent
answers. With --history, also list the player's results across every stored import.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runPlayer,
}

func init() {
	playerCmd.Flags().IntVar(&playerRecent, "recent", 0, "recent answers to show (default from config)")
	playerCmd.Flags().BoolVar(&playerHistory, "history", false, "include results from every stored import")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	recent := playerRecent
	if recent <= 0 {
		recent = cfg.RecentWindow
	}

	ds, _, err := resolveRef(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var db *storage.DB
	if playerHistory {
		if db, err = openDB(); err != nil {
			return err
		}
		defer db.Close()
	}

	found := 0
	for _, name := range args[1:] {
		profile, ok := aggregator.Profile(name, ds.Events, recent)
		if !ok {
			fmt.Fprintf(os.Stderr, "No answers found for player %q\n", name)
		} else {
			found++
			report.PrintProfile(os.Stdout, profile)
		}

		if db != nil {
			history, err := db.GetPlayerHistory(name)
			if err != nil {
				return fmt.Errorf("query history for %s: %w", name, err)
			}
			if len(history) > 0 {
				fmt.Fprintf(os.Stdout, "\nHistory for %s:\n", name)
				printPlayerHistory(history)
			}
		}
	}
	if found == 0 && db == nil {
		return fmt.Errorf("none of the players were found")
	}
	return nil
}

func printPlayerHistory(history []storage.PlayerImportStats) {
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("IMPORT", "IMPORTED", "RANK", "SCORE", "ACC%", "ANSWERS", "CORRECT", "AVG_TIME")
	for _, h := range history {
		rank := "—"
		if h.Rank > 0 {
			rank = fmt.Sprintf("%d", h.Rank)
		}
		avg := "—"
		if h.Attempts > 0 {
			avg = fmt.Sprintf("%.2fs", h.AvgTime)
		}
		table.Append(
			h.ImportHash[:min(12, len(h.ImportHash))],
			h.ImportedAt,
			rank,
			fmt.Sprintf("%.0f", h.TotalScore),
			fmt.Sprintf("%.1f%%", h.Accuracy),
			fmt.Sprintf("%d", h.Attempts),
			fmt.Sprintf("%d", h.Correct),
			avg,
		)
	}
	table.Render()
}
