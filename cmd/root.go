package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/config"
	"github.com/pable/go-quiz-metrics/pkg/logger"
	"github.com/pable/go-quiz-metrics/pkg/metrics"
)

var (
	dbPath   string
	logLevel string

	// cfg is populated before any subcommand runs.
	cfg = config.New(mustUserHome())

	// metricsManager collects load and request metrics for the whole process;
	// `serve` exposes it at /metrics.
	metricsManager = metrics.NewManager()
)

var rootCmd = &cobra.Command{
	Use:   "quizmetrics",
	Short: "Quiz export analytics tool",
	Long: `Load quiz workbook exports (a per-player summary sheet and a per-answer
event sheet), store them, and compute leaderboards, speed, accuracy,
question difficulty and player profiles.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(speedCmd)
	rootCmd.AddCommand(accuracyCmd)
	rootCmd.AddCommand(difficultyCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(answersCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// setup layers config (defaults, file, env) under the persistent flags and
// initialises the logger.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = dbPath
	} else {
		dbPath = cfg.DBPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
