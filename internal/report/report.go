package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-quiz-metrics/internal/model"
)

// PrintImportSummary prints a one-line summary header for an import.
func PrintImportSummary(w io.Writer, s model.ImportSummary) {
	fmt.Fprintf(w, "\nSource: %s  |  Players: %d  |  Answers: %d  |  Imported: %s  |  Hash: %s\n\n",
		s.Source, s.SummaryCount, s.EventCount, s.ImportedAt, shortHash(s.Hash))
}

// PrintImportList prints stored imports, newest first.
func PrintImportList(w io.Writer, imports []model.ImportSummary) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("HASH", "IMPORTED", "PLAYERS", "ANSWERS", "SUMMARY_SHEET", "EVENT_SHEET", "SOURCE")

	for _, s := range imports {
		table.Append(
			shortHash(s.Hash),
			s.ImportedAt,
			strconv.Itoa(s.SummaryCount),
			strconv.Itoa(s.EventCount),
			orDash(s.SummarySheet),
			orDash(s.EventSheet),
			s.Source,
		)
	}
	table.Render()
}

// PrintLeaderboard prints ranked summary rows. The metric column is the one
// the rows were ordered by; focus marks a player's row with ">".
func PrintLeaderboard(w io.Writer, rows []model.PlayerSummary, metric model.Metric, focus string) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header(" ", "#", "PLAYER", "RANK", "SCORE", "CORRECT", "WRONG", "GAMES", "ACC%", "GRADE", "CONSISTENCY")

	for i := range rows {
		s := &rows[i]
		marker := " "
		if focus != "" && s.Player == focus {
			marker = ">"
		}
		table.Append(
			marker,
			strconv.Itoa(i+1),
			s.Player,
			strconv.Itoa(s.Rank),
			fmt.Sprintf("%.0f", s.TotalScore),
			strconv.Itoa(s.CorrectAnswers),
			strconv.Itoa(s.IncorrectAnswers),
			strconv.Itoa(s.GamesPlayed),
			fmt.Sprintf("%.1f%%", s.Accuracy),
			string(model.GradeForAccuracy(s.Accuracy)),
			model.ConsistencyRating(s),
		)
	}
	table.Render()
	if len(rows) > 0 {
		fmt.Fprintf(w, "Ordered by %s\n", metric)
	}
}

// PrintAccuracyTable prints the accuracy leaderboard with letter grades.
func PrintAccuracyTable(w io.Writer, rows []model.PlayerSummary) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("#", "PLAYER", "ACC%", "GRADE", "CORRECT", "QUESTIONS", "CONSISTENCY")

	for i := range rows {
		s := &rows[i]
		table.Append(
			strconv.Itoa(i+1),
			s.Player,
			fmt.Sprintf("%.1f%%", s.Accuracy),
			string(model.GradeForAccuracy(s.Accuracy)),
			strconv.Itoa(s.CorrectAnswers),
			strconv.Itoa(s.Questions()),
			model.ConsistencyRating(s),
		)
	}
	table.Render()
}

// PrintSpeedTable prints the speed leaderboard, fastest first.
func PrintSpeedTable(w io.Writer, entries []model.SpeedEntry) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("#", "PLAYER", "AVG_TIME", "ANSWERS", "CORRECT", "ACC%", "SPEED_SCORE", "RATING")

	for i := range entries {
		e := &entries[i]
		score := "—"
		if v, ok := e.SpeedScore(); ok {
			score = fmt.Sprintf("%.1f", v)
		}
		table.Append(
			strconv.Itoa(i+1),
			e.Player,
			fmt.Sprintf("%.2fs", e.AvgTimeSeconds),
			strconv.Itoa(e.TotalQuestions),
			strconv.Itoa(e.CorrectQuestions),
			fmt.Sprintf("%.1f%%", e.Accuracy),
			score,
			model.SpeedRating(e.AvgTimeSeconds),
		)
	}
	table.Render()
}

// PrintDifficultyTable prints questions hardest first.
func PrintDifficultyTable(w io.Writer, entries []model.DifficultyEntry) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("Q", "QUESTION", "ATTEMPTS", "CORRECT", "MISS%", "AVG_TIME", "PLAYERS", "BAND")

	for i := range entries {
		d := &entries[i]
		table.Append(
			d.QuestionNumber,
			truncateText(d.QuestionText, 48),
			strconv.Itoa(d.TotalAttempts),
			strconv.Itoa(d.CorrectAttempts),
			fmt.Sprintf("%.1f%%", d.MissRatePercent),
			fmt.Sprintf("%.2fs", d.AvgTimeSeconds),
			strconv.Itoa(d.DistinctPlayers),
			string(d.Band()),
		)
	}
	table.Render()
}

// PrintOverview prints the dataset totals followed by the three distributions.
func PrintOverview(w io.Writer, o model.Overview) {
	fmt.Fprintf(w, "\nPlayers: %d  |  Questions: %d  |  Answers: %d  |  Avg accuracy: %.1f%%  |  Avg score: %.0f\n\n",
		o.TotalPlayers, o.TotalQuestions, o.TotalAttempts, o.AvgAccuracy, o.AvgScore)

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("ACCURACY", "N", "SCORE", "N", "AVG_TIME", "N")

	rows := max(len(o.AccuracyDistribution), len(o.ScoreDistribution), len(o.SpeedDistribution))
	for i := 0; i < rows; i++ {
		al, ac := bucketCells(o.AccuracyDistribution, i)
		sl, sc := bucketCells(o.ScoreDistribution, i)
		tl, tc := bucketCells(o.SpeedDistribution, i)
		table.Append(al, ac, sl, sc, tl, tc)
	}
	table.Render()
}

// PrintProfile prints a player's profile and their most recent answers.
func PrintProfile(w io.Writer, p model.PlayerProfile) {
	fmt.Fprintf(w, "\nPlayer: %s  |  Performance: %s  |  Speed: %s\n\n",
		p.Player, model.PerformanceRating(p.Accuracy), model.SpeedRating(p.AvgResponseTimeSeconds))

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("ANSWERS", "CORRECT", "WRONG", "ACC%", "AVG_TIME", "AVG_TIME%", "BEST_STREAK", "SCORE")
	table.Append(
		strconv.Itoa(p.TotalQuestions),
		strconv.Itoa(p.CorrectAnswers),
		strconv.Itoa(p.IncorrectAnswers),
		fmt.Sprintf("%.1f%%", p.Accuracy),
		fmt.Sprintf("%.2fs", p.AvgResponseTimeSeconds),
		fmt.Sprintf("%.0f%%", p.AvgResponseTimePercent),
		strconv.Itoa(p.BestStreak),
		fmt.Sprintf("%.0f", p.TotalScore),
	)
	table.Render()

	if len(p.RecentEvents) == 0 {
		return
	}
	fmt.Fprintf(w, "\nRecent answers (newest first):\n")
	recent := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	recent.Header("ROW", "Q", "QUESTION", "ANSWER", "KEY", "OK", "TIME", "SCORE", "TOTAL")
	for _, e := range p.RecentEvents {
		recent.Append(
			strconv.Itoa(e.Row),
			e.QuestionNumber,
			truncateText(e.QuestionText, 32),
			orDash(e.PlayerAnswer),
			orDash(e.CorrectAnswerKey),
			checkMark(e.IsCorrect),
			fmt.Sprintf("%.2fs", e.AnswerTimeSeconds),
			fmt.Sprintf("%.0f", e.Score),
			fmt.Sprintf("%.0f", e.RunningTotalScore),
		)
	}
	recent.Render()
}

// PrintQuestionStats prints one player's record per question.
func PrintQuestionStats(w io.Writer, stats []model.QuestionStat) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("Q", "QUESTION", "ATTEMPTS", "CORRECT", "ACC%", "AVG_TIME")

	for _, s := range stats {
		acc := "—"
		if s.Attempts > 0 {
			acc = fmt.Sprintf("%.0f%%", model.Percent(s.Correct, s.Attempts))
		}
		table.Append(
			s.QuestionNumber,
			truncateText(s.QuestionText, 48),
			strconv.Itoa(s.Attempts),
			strconv.Itoa(s.Correct),
			acc,
			fmt.Sprintf("%.2fs", s.AvgTimeSeconds),
		)
	}
	table.Render()
}

// PrintTrend prints a player's running total in answer order. Rows where the
// total went down are flagged with "!".
func PrintTrend(w io.Writer, points []model.TrendPoint) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("ROW", "Q", "OK", "SCORE", "TOTAL", " ")

	regressions := 0
	for _, p := range points {
		flag := " "
		if p.Regressed {
			flag = "!"
			regressions++
		}
		table.Append(
			strconv.Itoa(p.Row),
			p.QuestionNumber,
			checkMark(p.IsCorrect),
			fmt.Sprintf("%.0f", p.Score),
			fmt.Sprintf("%.0f", p.RunningTotalScore),
			flag,
		)
	}
	table.Render()
	if regressions > 0 {
		fmt.Fprintf(w, "! %d row(s) where the running total decreased; export order may not be chronological\n", regressions)
	}
}

func bucketCells(buckets []model.Bucket, i int) (label, count string) {
	if i >= len(buckets) {
		return "", ""
	}
	return buckets[i].Label, strconv.Itoa(buckets[i].Count)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func checkMark(ok bool) string {
	if ok {
		return "Y"
	}
	return "N"
}

// truncateText shortens s to at most n runes, marking the cut with "...".
func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
