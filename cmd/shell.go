package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/model"
	"github.com/pable/go-quiz-metrics/internal/report"
	"github.com/pable/go-quiz-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellSession holds the dataset the view commands operate on.
type shellSession struct {
	ctx context.Context
	db  *storage.DB
	ds  model.Dataset
	ref string
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s := &shellSession{ctx: cmd.Context(), db: db}

	cGreeting.Println("quizmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("quizmetrics")
		if s.ref != "" {
			cMuted.Printf("[%s]", s.ref)
		}
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]
		// Player names may contain spaces.
		rest := strings.TrimSpace(strings.TrimPrefix(line, name))

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			s.list()
		case "use":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: use <hash-prefix|file|url>")
				continue
			}
			s.use(rest)
		case "overview":
			if s.requireDataset() {
				report.PrintOverview(os.Stdout, aggregator.Overview(s.ds))
			}
		case "leaderboard":
			if s.requireDataset() {
				s.leaderboard(args)
			}
		case "speed":
			if s.requireDataset() {
				report.PrintSpeedTable(os.Stdout, aggregator.SpeedLeaderboard(s.ds.Events, cfg.MinSamples, cfg.DefaultLimit))
			}
		case "accuracy":
			if s.requireDataset() {
				report.PrintAccuracyTable(os.Stdout, aggregator.AccuracyLeaderboard(s.ds.Summaries, cfg.DefaultLimit))
			}
		case "difficulty":
			if s.requireDataset() {
				report.PrintDifficultyTable(os.Stdout, aggregator.Difficulty(s.ds.Events))
			}
		case "player", "answers", "trend":
			if rest == "" {
				cError.Fprintf(os.Stderr, "usage: %s <name>\n", name)
				continue
			}
			if s.requireDataset() {
				s.player(name, rest)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored exports"},
		{"use <hash-prefix|file|url>", "select the dataset for the commands below"},
		{"overview", "dataset totals and distributions"},
		{"leaderboard [metric] [asc|desc] [n]", "rank summary rows (default totalScore desc)"},
		{"speed", "fastest players by average answer time"},
		{"accuracy", "players by accuracy with grades"},
		{"difficulty", "questions by miss rate"},
		{"player <name>", "profile one player"},
		{"answers <name>", "per-question breakdown for one player"},
		{"trend <name>", "running total in answer order"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (s *shellSession) list() {
	imports, err := s.db.ListImports()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(imports) == 0 {
		cMuted.Println("No exports stored yet.")
		return
	}
	report.PrintImportList(os.Stdout, imports)
}

func (s *shellSession) use(ref string) {
	if isSource(ref) {
		ds, _, err := loadSource(s.ctx, ref)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		s.ds, s.ref = ds, ref
	} else {
		rec, err := s.db.GetImportByPrefix(ref)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		if rec == nil {
			cError.Fprintf(os.Stderr, "no import found with prefix %q\n", ref)
			return
		}
		ds, err := s.db.LoadDataset(rec.Hash)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		s.ds, s.ref = ds, rec.Hash[:min(12, len(rec.Hash))]
	}
	cHeader.Printf("using %s: %d players, %d answers\n", s.ref, len(s.ds.Summaries), len(s.ds.Events))
}

func (s *shellSession) requireDataset() bool {
	if s.ref == "" {
		cWarn.Fprintln(os.Stderr, "no dataset selected, run 'use <ref>' first")
		return false
	}
	return true
}

// leaderboard accepts its optional arguments in any order.
func (s *shellSession) leaderboard(args []string) {
	metric, order, limit := model.MetricTotalScore, model.Descending, cfg.DefaultLimit
	for _, a := range args {
		if n, err := strconv.Atoi(a); err == nil {
			limit = n
			continue
		}
		if o, ok := model.LookupOrder(a); ok {
			order = o
			continue
		}
		m, err := aggregator.ParseMetric(a)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		metric = m
	}
	rows, err := aggregator.Rank(s.ds.Summaries, metric, order, limit)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintLeaderboard(os.Stdout, rows, metric, "")
}

func (s *shellSession) player(view, name string) {
	switch view {
	case "player":
		p, ok := aggregator.Profile(name, s.ds.Events, cfg.RecentWindow)
		if !ok {
			cWarn.Fprintf(os.Stderr, "no answers found for %q\n", name)
			return
		}
		report.PrintProfile(os.Stdout, p)
	case "answers":
		report.PrintQuestionStats(os.Stdout, aggregator.PlayerQuestionStats(name, s.ds.Events))
	case "trend":
		report.PrintTrend(os.Stdout, aggregator.Trend(name, s.ds.Events))
	}
}
