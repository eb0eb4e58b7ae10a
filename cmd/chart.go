package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/chart"
	"github.com/pable/go-quiz-metrics/internal/model"
)

var (
	chartView   string
	chartOut    string
	chartLimit  int
	chartPlayer string
)

var chartCmd = &cobra.Command{
	Use:   "chart <ref>",
	Short: "Render a view as a PNG chart",
	Long: `Render one view of a dataset as a PNG bar chart.

Views: difficulty (miss rate per question), score (total score), speed
(average answer time), accuracy, and trend (running total of --player).`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVar(&chartView, "view", chart.ViewDifficulty, "difficulty, score, speed, accuracy or trend")
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "", "output PNG path (default <view>.png)")
	chartCmd.Flags().IntVarP(&chartLimit, "limit", "n", 0, "bars to draw (default from config; -1 for all)")
	chartCmd.Flags().StringVar(&chartPlayer, "player", "", "player for the trend view")
}

func runChart(cmd *cobra.Command, args []string) error {
	if chartView == "trend" && chartPlayer == "" {
		return fmt.Errorf("--player is required for the trend view")
	}

	ds, _, err := resolveRef(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	limit := limitOrDefault(chartLimit)

	var png []byte
	switch chartView {
	case chart.ViewDifficulty:
		entries := aggregator.Difficulty(ds.Events)
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		png, err = chart.Difficulty(entries, chart.DefaultPalette)
	case chart.ViewScore:
		rows, rankErr := aggregator.Rank(ds.Summaries, model.MetricTotalScore, model.Descending, limit)
		if rankErr != nil {
			return rankErr
		}
		png, err = chart.Scores(rows, chart.DefaultPalette)
	case chart.ViewSpeed:
		png, err = chart.Speed(aggregator.SpeedLeaderboard(ds.Events, cfg.MinSamples, limit), chart.DefaultPalette)
	case chart.ViewAccuracy:
		png, err = chart.Accuracy(aggregator.AccuracyLeaderboard(ds.Summaries, limit), chart.DefaultPalette)
	case "trend":
		png, err = chart.Trend(chartPlayer, aggregator.Trend(chartPlayer, ds.Events), chart.DefaultPalette)
	default:
		return fmt.Errorf("unknown view %q", chartView)
	}
	if err != nil {
		return err
	}

	out := chartOut
	if out == "" {
		out = chartView + ".png"
	}
	if err := os.WriteFile(out, png, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	return nil
}
