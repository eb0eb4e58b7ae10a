package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/model"
	"github.com/pable/go-quiz-metrics/internal/report"
)

var (
	lbMetric string
	lbOrder  string
	lbLimit  int
	lbPlayer string
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <ref>",
	Short: "Rank players from the summary sheet",
	Long: `Rank the summary rows by a metric. <ref> is a stored hash prefix or a
workbook file/URL. Ties keep the sheet order.

Metrics: ` + metricNames(),
	Args: cobra.ExactArgs(1),
	RunE: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().StringVarP(&lbMetric, "metric", "m", model.MetricTotalScore.String(), "ranking metric")
	leaderboardCmd.Flags().StringVar(&lbOrder, "order", "desc", "sort order: desc or asc")
	leaderboardCmd.Flags().IntVarP(&lbLimit, "limit", "n", 0, "rows to show (default from config; -1 for all)")
	leaderboardCmd.Flags().StringVar(&lbPlayer, "player", "", "highlight a player")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	metric, err := aggregator.ParseMetric(lbMetric)
	if err != nil {
		return err
	}
	order, ok := model.LookupOrder(lbOrder)
	if !ok {
		return fmt.Errorf("invalid order %q (want asc or desc)", lbOrder)
	}

	ds, _, err := resolveRef(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(ds.Summaries) == 0 {
		fmt.Fprintln(os.Stdout, "No summary rows in this export.")
		return nil
	}

	rows, err := aggregator.Rank(ds.Summaries, metric, order, limitOrDefault(lbLimit))
	if err != nil {
		return err
	}
	report.PrintLeaderboard(os.Stdout, rows, metric, lbPlayer)
	return nil
}

// limitOrDefault maps the --limit flag: 0 means the configured default and a
// negative value means no limit.
func limitOrDefault(n int) int {
	switch {
	case n == 0:
		return cfg.DefaultLimit
	case n < 0:
		return 0
	}
	return n
}

func metricNames() string {
	names := make([]string, 0, len(model.Metrics()))
	for _, m := range model.Metrics() {
		names = append(names, m.String())
	}
	return strings.Join(names, ", ")
}
