package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeForAccuracy(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     Grade
	}{
		{100, "S+"},
		{97, "S+"},
		{96.9, "S"},
		{90, "A+"},
		{85, "A"},
		{80, "B+"},
		{75, "B"},
		{70, "C+"},
		{65, "C"},
		{64.99, "D"},
		{0, "D"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeForAccuracy(tt.accuracy), "accuracy %v", tt.accuracy)
	}
}

func TestBandForMissRate(t *testing.T) {
	assert.Equal(t, BandVeryHard, BandForMissRate(80))
	assert.Equal(t, BandHard, BandForMissRate(79.9))
	assert.Equal(t, BandMedium, BandForMissRate(40))
	assert.Equal(t, BandEasy, BandForMissRate(20))
	assert.Equal(t, BandVeryEasy, BandForMissRate(19.9))

	e := DifficultyEntry{MissRatePercent: 100}
	assert.Equal(t, BandVeryHard, e.Band())
}

func TestConsistencyRating(t *testing.T) {
	tests := []struct {
		name string
		s    PlayerSummary
		want string
	}{
		{"few questions", PlayerSummary{CorrectAnswers: 9, Accuracy: 100}, "Limited Data"},
		{"exceptional", PlayerSummary{CorrectAnswers: 45, IncorrectAnswers: 5, Accuracy: 90}, "Exceptional"},
		{"high accuracy small sample", PlayerSummary{CorrectAnswers: 19, IncorrectAnswers: 1, Accuracy: 95}, "Very Good"},
		{"excellent", PlayerSummary{CorrectAnswers: 26, IncorrectAnswers: 4, Accuracy: 86.67}, "Excellent"},
		{"good", PlayerSummary{CorrectAnswers: 8, IncorrectAnswers: 2, Accuracy: 80}, "Good"},
		{"weak", PlayerSummary{CorrectAnswers: 5, IncorrectAnswers: 5, Accuracy: 50}, "Needs Improvement"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConsistencyRating(&tt.s))
		})
	}
}

func TestPerformanceAndSpeedRatings(t *testing.T) {
	assert.Equal(t, "Exceptional", PerformanceRating(95))
	assert.Equal(t, "Average", PerformanceRating(70))
	assert.Equal(t, "Needs Improvement", PerformanceRating(69.9))

	assert.Equal(t, "Lightning Fast", SpeedRating(4.99))
	assert.Equal(t, "Very Fast", SpeedRating(5))
	assert.Equal(t, "Moderate", SpeedRating(19.99))
	assert.Equal(t, "Slow", SpeedRating(20))
}

func TestSpeedScore(t *testing.T) {
	e := SpeedEntry{AvgTimeSeconds: 4}
	score, ok := e.SpeedScore()
	require.True(t, ok)
	assert.Equal(t, 250.0, score)

	_, ok = (&SpeedEntry{}).SpeedScore()
	assert.False(t, ok)
}

func TestLookupMetric(t *testing.T) {
	for _, name := range []string{"totalScore", "TOTALSCORE", "total_score", "total-score"} {
		m, ok := LookupMetric(name)
		require.True(t, ok, name)
		assert.Equal(t, MetricTotalScore, m)
	}
	m, ok := LookupMetric("games_played")
	require.True(t, ok)
	assert.Equal(t, MetricGamesPlayed, m)

	_, ok = LookupMetric("speed")
	assert.False(t, ok)
	assert.False(t, Metric(42).Valid())
	assert.Equal(t, "Metric(42)", Metric(42).String())
}

func TestMetricValue(t *testing.T) {
	s := PlayerSummary{TotalScore: 900, Accuracy: 75, CorrectAnswers: 3, GamesPlayed: 2}
	assert.Equal(t, 900.0, MetricTotalScore.Value(&s))
	assert.Equal(t, 75.0, MetricAccuracy.Value(&s))
	assert.Equal(t, 3.0, MetricCorrectAnswers.Value(&s))
	assert.Equal(t, 2.0, MetricGamesPlayed.Value(&s))
}

func TestLookupOrder(t *testing.T) {
	o, ok := LookupOrder("")
	require.True(t, ok)
	assert.Equal(t, Descending, o)

	o, ok = LookupOrder("ASC")
	require.True(t, ok)
	assert.Equal(t, Ascending, o)
	assert.Equal(t, "asc", o.String())

	_, ok = LookupOrder("sideways")
	assert.False(t, ok)
}

func TestDatasetEmpty(t *testing.T) {
	assert.True(t, (&Dataset{}).Empty())
	assert.False(t, (&Dataset{Events: []AnswerEvent{{Player: "a"}}}).Empty())
}
