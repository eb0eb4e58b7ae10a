package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/model"
	"github.com/pable/go-quiz-metrics/internal/report"
)

var (
	exportFormat   string
	exportOut      string
	exportMetric   string
	exportOrder    string
	exportLimit    int
	exportPlayers  string
	exportProfiles bool
)

var exportCmd = &cobra.Command{
	Use:   "export <ref>",
	Short: "Export every view of a dataset as JSON or YAML",
	Long: `Compute the leaderboard, accuracy, speed, difficulty and overview views of one
dataset and write them as a single JSON or YAML document.

--profiles adds a profile for every player in the event sheet; --players
restricts profiles to a comma-separated list of names.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", report.FormatJSON, "output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to file instead of stdout")
	exportCmd.Flags().StringVar(&exportMetric, "metric", model.MetricTotalScore.String(), "leaderboard metric")
	exportCmd.Flags().StringVar(&exportOrder, "order", "desc", "leaderboard order: desc or asc")
	exportCmd.Flags().IntVarP(&exportLimit, "limit", "n", 0, "leaderboard rows (default from config; -1 for all)")
	exportCmd.Flags().StringVar(&exportPlayers, "players", "", "comma-separated player names to profile")
	exportCmd.Flags().BoolVar(&exportProfiles, "profiles", false, "profile every player")
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)
	if format != report.FormatJSON && format != report.FormatYAML && format != "yml" {
		return fmt.Errorf("unknown format %q (want json or yaml)", exportFormat)
	}
	metric, err := aggregator.ParseMetric(exportMetric)
	if err != nil {
		return err
	}
	order, ok := model.LookupOrder(exportOrder)
	if !ok {
		return fmt.Errorf("invalid order %q (want asc or desc)", exportOrder)
	}

	ds, rec, err := resolveRef(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	views, err := aggregator.ComputeViews(cmd.Context(), ds, aggregator.Params{
		Metric:     metric,
		Order:      order,
		Limit:      limitOrDefault(exportLimit),
		MinSamples: cfg.MinSamples,
	})
	if err != nil {
		return err
	}

	var profiles []model.PlayerProfile
	for _, name := range profileNames(ds) {
		if p, ok := aggregator.Profile(name, ds.Events, cfg.RecentWindow); ok {
			profiles = append(profiles, p)
		} else {
			fmt.Fprintf(os.Stderr, "No answers found for player %q\n", name)
		}
	}

	var buf bytes.Buffer
	if err := report.WriteDocument(&buf, format, report.NewDocument(rec, views, profiles)); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	if exportOut == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(exportOut, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}

// profileNames returns the players to profile: --players wins over --profiles.
func profileNames(ds model.Dataset) []string {
	if names := splitNames(exportPlayers); len(names) > 0 {
		return names
	}
	if exportProfiles {
		return aggregator.Players(ds.Events)
	}
	return nil
}
