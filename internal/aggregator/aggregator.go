// Package aggregator derives leaderboards and statistics from a loaded
// Dataset. Every function is a pure pass over its inputs; none retains or
// mutates the slices it is given.
package aggregator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pable/go-quiz-metrics/internal/model"
)

// Default parameters for the views.
const (
	DefaultLimit        = 10
	DefaultMinSamples   = 5
	DefaultRecentWindow = 10
)

// ErrUnsupportedMetric is returned for a ranking metric outside model.Metrics().
var ErrUnsupportedMetric = errors.New("unsupported metric")

// ParseMetric resolves a metric name at the call boundary.
func ParseMetric(name string) (model.Metric, error) {
	m, ok := model.LookupMetric(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMetric, name)
	}
	return m, nil
}

// Rank returns summaries ordered by metric, truncated to limit (limit <= 0
// keeps everything). Ties keep their input order in either direction.
func Rank(summaries []model.PlayerSummary, metric model.Metric, order model.Order, limit int) ([]model.PlayerSummary, error) {
	if !metric.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMetric, metric)
	}

	out := make([]model.PlayerSummary, len(summaries))
	copy(out, summaries)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := metric.Value(&out[i]), metric.Value(&out[j])
		if order == model.Ascending {
			return a < b
		}
		return a > b
	})
	return truncate(out, limit), nil
}

// AccuracyLeaderboard ranks summaries by accuracy, highest first.
func AccuracyLeaderboard(summaries []model.PlayerSummary, limit int) []model.PlayerSummary {
	out, _ := Rank(summaries, model.MetricAccuracy, model.Descending, limit)
	return out
}

// SpeedLeaderboard averages answer time per player and ranks fastest first.
// Players with fewer than minSamples attempts are left out. Ties keep the
// order in which players first appear in events.
func SpeedLeaderboard(events []model.AnswerEvent, minSamples, limit int) []model.SpeedEntry {
	type acc struct {
		total   float64
		count   int
		correct int
	}
	var order []string
	byPlayer := make(map[string]*acc)
	for _, e := range events {
		a, ok := byPlayer[e.Player]
		if !ok {
			a = &acc{}
			byPlayer[e.Player] = a
			order = append(order, e.Player)
		}
		a.total += e.AnswerTimeSeconds
		a.count++
		if e.IsCorrect {
			a.correct++
		}
	}

	out := make([]model.SpeedEntry, 0, len(order))
	for _, p := range order {
		a := byPlayer[p]
		if a.count < minSamples {
			continue
		}
		out = append(out, model.SpeedEntry{
			Player:           p,
			AvgTimeSeconds:   a.total / float64(a.count),
			TotalQuestions:   a.count,
			CorrectQuestions: a.correct,
			Accuracy:         model.Percent(a.correct, a.count),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgTimeSeconds < out[j].AvgTimeSeconds
	})
	return truncate(out, limit)
}

// Difficulty groups events by question number and orders the questions by
// miss rate, hardest first. Ties keep first-seen question order.
func Difficulty(events []model.AnswerEvent) []model.DifficultyEntry {
	type acc struct {
		entry   model.DifficultyEntry
		time    float64
		players map[string]struct{}
	}
	var order []string
	byQuestion := make(map[string]*acc)
	for _, e := range events {
		a, ok := byQuestion[e.QuestionNumber]
		if !ok {
			a = &acc{
				entry:   model.DifficultyEntry{QuestionNumber: e.QuestionNumber, QuestionText: e.QuestionText},
				players: make(map[string]struct{}),
			}
			byQuestion[e.QuestionNumber] = a
			order = append(order, e.QuestionNumber)
		}
		if a.entry.QuestionText == "" {
			a.entry.QuestionText = e.QuestionText
		}
		a.entry.TotalAttempts++
		if e.IsCorrect {
			a.entry.CorrectAttempts++
		}
		a.time += e.AnswerTimeSeconds
		a.players[e.Player] = struct{}{}
	}

	out := make([]model.DifficultyEntry, 0, len(order))
	for _, q := range order {
		a := byQuestion[q]
		d := a.entry
		// Every group holds at least one attempt.
		d.MissRatePercent = model.Percent(d.TotalAttempts-d.CorrectAttempts, d.TotalAttempts)
		d.AvgTimeSeconds = a.time / float64(d.TotalAttempts)
		d.DistinctPlayers = len(a.players)
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MissRatePercent > out[j].MissRatePercent
	})
	return out
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && limit < len(s) {
		return s[:limit]
	}
	return s
}
