package model

import (
	"fmt"
	"strings"
)

// Metric selects the PlayerSummary field a leaderboard ranks by.
type Metric int

const (
	MetricTotalScore Metric = iota
	MetricAccuracy
	MetricCorrectAnswers
	MetricGamesPlayed
)

var metricNames = map[Metric]string{
	MetricTotalScore:     "totalScore",
	MetricAccuracy:       "accuracy",
	MetricCorrectAnswers: "correctAnswers",
	MetricGamesPlayed:    "gamesPlayed",
}

func (m Metric) String() string {
	if name, ok := metricNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// Valid reports whether m is one of the supported metrics.
func (m Metric) Valid() bool {
	_, ok := metricNames[m]
	return ok
}

// Value returns the metric's field of s.
func (m Metric) Value(s *PlayerSummary) float64 {
	switch m {
	case MetricAccuracy:
		return s.Accuracy
	case MetricCorrectAnswers:
		return float64(s.CorrectAnswers)
	case MetricGamesPlayed:
		return float64(s.GamesPlayed)
	default:
		return s.TotalScore
	}
}

// Metrics lists the supported metrics in display order.
func Metrics() []Metric {
	return []Metric{MetricTotalScore, MetricAccuracy, MetricCorrectAnswers, MetricGamesPlayed}
}

// LookupMetric resolves a metric name, case-insensitively. Snake and kebab
// spellings ("total_score", "games-played") are accepted too.
func LookupMetric(name string) (Metric, bool) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(strings.TrimSpace(name)))
	for m, n := range metricNames {
		if strings.ToLower(n) == key {
			return m, true
		}
	}
	return 0, false
}

// Order is the direction of a leaderboard sort.
type Order int

const (
	Descending Order = iota
	Ascending
)

func (o Order) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}

// LookupOrder resolves "asc"/"desc" (and the long forms).
func LookupOrder(name string) (Order, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "desc", "descending":
		return Descending, true
	case "asc", "ascending":
		return Ascending, true
	}
	return Descending, false
}

// threshold pairs a lower bound with the label awarded at or above it.
type threshold struct {
	min   float64
	label string
}

// firstAtOrAbove walks thresholds top-down and returns the first label whose
// bound v reaches.
func firstAtOrAbove(v float64, table []threshold, fallback string) string {
	for _, t := range table {
		if v >= t.min {
			return t.label
		}
	}
	return fallback
}

// Grade is an accuracy letter grade.
type Grade string

var gradeTable = []threshold{
	{97, "S+"}, {95, "S"}, {90, "A+"}, {85, "A"},
	{80, "B+"}, {75, "B"}, {70, "C+"}, {65, "C"},
}

// GradeForAccuracy maps an accuracy percentage to its grade.
func GradeForAccuracy(accuracy float64) Grade {
	return Grade(firstAtOrAbove(accuracy, gradeTable, "D"))
}

// DifficultyBand labels a question's miss rate.
type DifficultyBand string

const (
	BandVeryHard DifficultyBand = "very-hard"
	BandHard     DifficultyBand = "hard"
	BandMedium   DifficultyBand = "medium"
	BandEasy     DifficultyBand = "easy"
	BandVeryEasy DifficultyBand = "very-easy"
)

var bandTable = []threshold{
	{80, string(BandVeryHard)}, {60, string(BandHard)}, {40, string(BandMedium)}, {20, string(BandEasy)},
}

// BandForMissRate maps a miss-rate percentage to its band.
func BandForMissRate(missRate float64) DifficultyBand {
	return DifficultyBand(firstAtOrAbove(missRate, bandTable, string(BandVeryEasy)))
}

// ConsistencyRating combines accuracy with sample size for a summary row.
func ConsistencyRating(s *PlayerSummary) string {
	q := s.Questions()
	switch {
	case q < 10:
		return "Limited Data"
	case s.Accuracy >= 90 && q >= 50:
		return "Exceptional"
	case s.Accuracy >= 85 && q >= 30:
		return "Excellent"
	case s.Accuracy >= 80 && q >= 20:
		return "Very Good"
	case s.Accuracy >= 75:
		return "Good"
	default:
		return "Needs Improvement"
	}
}

var performanceTable = []threshold{
	{95, "Exceptional"}, {90, "Excellent"}, {85, "Very Good"}, {80, "Good"}, {70, "Average"},
}

// PerformanceRating labels a profile's accuracy.
func PerformanceRating(accuracy float64) string {
	return firstAtOrAbove(accuracy, performanceTable, "Needs Improvement")
}

// SpeedRating labels an average response time in seconds. Bounds are exclusive.
func SpeedRating(avgSeconds float64) string {
	switch {
	case avgSeconds < 5:
		return "Lightning Fast"
	case avgSeconds < 10:
		return "Very Fast"
	case avgSeconds < 15:
		return "Fast"
	case avgSeconds < 20:
		return "Moderate"
	default:
		return "Slow"
	}
}
