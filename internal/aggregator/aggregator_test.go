package aggregator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-quiz-metrics/internal/model"
)

// makeSummary builds a summary row with accuracy derived the way the parser does.
func makeSummary(player string, score float64, correct, incorrect int) model.PlayerSummary {
	return model.PlayerSummary{
		Player:           player,
		TotalScore:       score,
		CorrectAnswers:   correct,
		IncorrectAnswers: incorrect,
		Accuracy:         model.Percent(correct, correct+incorrect),
	}
}

// makeEvent builds one attempt; row numbers are assigned by makeEvents.
func makeEvent(player, question string, correct bool, seconds float64) model.AnswerEvent {
	return model.AnswerEvent{
		Player:            player,
		QuestionNumber:    question,
		QuestionText:      "Q" + question,
		IsCorrect:         correct,
		AnswerTimeSeconds: seconds,
	}
}

// makeEvents numbers events by position and accumulates a running total of
// 100 points per correct answer, per player.
func makeEvents(events ...model.AnswerEvent) []model.AnswerEvent {
	totals := make(map[string]float64)
	for i := range events {
		events[i].Row = i + 1
		if events[i].IsCorrect {
			events[i].Score = 100
			totals[events[i].Player] += 100
		}
		events[i].RunningTotalScore = totals[events[i].Player]
	}
	return events
}

func players(s []model.PlayerSummary) []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Player
	}
	return out
}

// ---- Rank ----

func TestRank_DescendingStable(t *testing.T) {
	in := []model.PlayerSummary{
		makeSummary("a", 100, 1, 0),
		makeSummary("b", 300, 1, 0),
		makeSummary("c", 100, 1, 0),
		makeSummary("d", 300, 1, 0),
		makeSummary("e", 200, 1, 0),
	}
	got, err := Rank(in, model.MetricTotalScore, model.Descending, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, players(got))

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].TotalScore, got[i].TotalScore)
	}
	// Input untouched.
	assert.Equal(t, "a", in[0].Player)
}

func TestRank_AscendingStable(t *testing.T) {
	in := []model.PlayerSummary{
		makeSummary("a", 100, 1, 0),
		makeSummary("b", 300, 1, 0),
		makeSummary("c", 100, 1, 0),
	}
	got, err := Rank(in, model.MetricTotalScore, model.Ascending, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, players(got))
}

func TestRank_Limit(t *testing.T) {
	in := []model.PlayerSummary{
		makeSummary("a", 1, 0, 0),
		makeSummary("b", 2, 0, 0),
		makeSummary("c", 3, 0, 0),
	}
	got, err := Rank(in, model.MetricTotalScore, model.Descending, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, players(got))

	got, err = Rank(in, model.MetricTotalScore, model.Descending, 50)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRank_EachMetric(t *testing.T) {
	in := []model.PlayerSummary{
		{Player: "score", TotalScore: 900, CorrectAnswers: 1, GamesPlayed: 1, Accuracy: 10},
		{Player: "acc", TotalScore: 1, CorrectAnswers: 2, GamesPlayed: 2, Accuracy: 99},
		{Player: "correct", TotalScore: 2, CorrectAnswers: 50, GamesPlayed: 3, Accuracy: 20},
		{Player: "games", TotalScore: 3, CorrectAnswers: 3, GamesPlayed: 40, Accuracy: 30},
	}
	want := map[model.Metric]string{
		model.MetricTotalScore:     "score",
		model.MetricAccuracy:       "acc",
		model.MetricCorrectAnswers: "correct",
		model.MetricGamesPlayed:    "games",
	}
	for metric, top := range want {
		got, err := Rank(in, metric, model.Descending, 1)
		require.NoError(t, err, metric.String())
		assert.Equal(t, top, got[0].Player, metric.String())
	}
}

func TestRank_UnsupportedMetric(t *testing.T) {
	_, err := Rank(nil, model.Metric(42), model.Descending, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedMetric))
}

func TestRank_EmptySummaries(t *testing.T) {
	got, err := Rank(nil, model.MetricTotalScore, model.Descending, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseMetric(t *testing.T) {
	for _, name := range []string{"totalScore", "TOTALSCORE", "total_score", "total-score"} {
		m, err := ParseMetric(name)
		require.NoError(t, err, name)
		assert.Equal(t, model.MetricTotalScore, m, name)
	}
	m, err := ParseMetric("games_played")
	require.NoError(t, err)
	assert.Equal(t, model.MetricGamesPlayed, m)

	_, err = ParseMetric("kills")
	assert.ErrorIs(t, err, ErrUnsupportedMetric)
	assert.Contains(t, err.Error(), `"kills"`)
}

// ---- AccuracyLeaderboard ----

func TestAccuracyLeaderboard(t *testing.T) {
	in := []model.PlayerSummary{
		makeSummary("low", 0, 1, 3),  // 25
		makeSummary("tie1", 0, 3, 1), // 75
		makeSummary("high", 0, 9, 1), // 90
		makeSummary("tie2", 0, 6, 2), // 75
	}
	got := AccuracyLeaderboard(in, 0)
	assert.Equal(t, []string{"high", "tie1", "tie2", "low"}, players(got))
	assert.Equal(t, model.Grade("A+"), model.GradeForAccuracy(got[0].Accuracy))
	assert.Equal(t, model.Grade("B"), model.GradeForAccuracy(got[1].Accuracy))
	assert.Equal(t, model.Grade("D"), model.GradeForAccuracy(got[3].Accuracy))
}

// ---- SpeedLeaderboard ----

func TestSpeedLeaderboard_MinSamples(t *testing.T) {
	cara := func(n int) []model.AnswerEvent {
		var ev []model.AnswerEvent
		for i := 0; i < n; i++ {
			ev = append(ev, makeEvent("Cara", fmt.Sprint(i+1), true, float64(4+2*(i%2))))
		}
		return makeEvents(ev...)
	}

	got := SpeedLeaderboard(cara(5), DefaultMinSamples, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "Cara", got[0].Player)
	assert.Equal(t, 5, got[0].TotalQuestions)

	assert.Empty(t, SpeedLeaderboard(cara(4), DefaultMinSamples, 0))
}

func TestSpeedLeaderboard_OrderAndFields(t *testing.T) {
	var ev []model.AnswerEvent
	for i := 0; i < 5; i++ {
		q := fmt.Sprint(i + 1)
		ev = append(ev,
			makeEvent("slow", q, i < 4, 10),
			makeEvent("tieA", q, true, 3),
			makeEvent("fast", q, i%2 == 0, 1),
			makeEvent("tieB", q, true, 3),
			makeEvent("few", q, true, 0.5),
		)
	}
	ev = ev[:len(ev)-1] // "few" has four attempts
	ev = makeEvents(ev...)

	got := SpeedLeaderboard(ev, 5, 0)
	names := make([]string, len(got))
	for i, e := range got {
		names[i] = e.Player
	}
	assert.Equal(t, []string{"fast", "tieA", "tieB", "slow"}, names)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].AvgTimeSeconds, got[i].AvgTimeSeconds)
	}

	slow := got[3]
	assert.Equal(t, 10.0, slow.AvgTimeSeconds)
	assert.Equal(t, 4, slow.CorrectQuestions)
	assert.Equal(t, 80.0, slow.Accuracy)

	assert.Len(t, SpeedLeaderboard(ev, 5, 2), 2)
}

func TestSpeedScore(t *testing.T) {
	e := model.SpeedEntry{AvgTimeSeconds: 4}
	score, ok := e.SpeedScore()
	assert.True(t, ok)
	assert.Equal(t, 250.0, score)

	zero := model.SpeedEntry{}
	_, ok = zero.SpeedScore()
	assert.False(t, ok)
}

// ---- Difficulty ----

func TestDifficulty_MissRate(t *testing.T) {
	var ev []model.AnswerEvent
	for i := 0; i < 10; i++ {
		ev = append(ev, makeEvent(fmt.Sprintf("p%d", i%4), "7", i < 3, float64(i)))
	}
	got := Difficulty(makeEvents(ev...))
	require.Len(t, got, 1)
	d := got[0]
	assert.Equal(t, "7", d.QuestionNumber)
	assert.Equal(t, "Q7", d.QuestionText)
	assert.Equal(t, 10, d.TotalAttempts)
	assert.Equal(t, 3, d.CorrectAttempts)
	assert.InDelta(t, 70.0, d.MissRatePercent, 1e-9)
	assert.InDelta(t, 4.5, d.AvgTimeSeconds, 1e-9)
	assert.Equal(t, 4, d.DistinctPlayers)
	assert.Equal(t, model.BandHard, d.Band())
}

func TestDifficulty_SortedHardestFirstStable(t *testing.T) {
	ev := makeEvents(
		makeEvent("a", "1", true, 1),
		makeEvent("a", "2", false, 1),
		makeEvent("a", "3", true, 1),
		makeEvent("b", "1", true, 1),
		makeEvent("b", "2", false, 1),
		makeEvent("b", "3", true, 1),
		makeEvent("b", "4", false, 1),
	)
	got := Difficulty(ev)
	order := make([]string, len(got))
	for i, d := range got {
		order[i] = d.QuestionNumber
	}
	assert.Equal(t, []string{"2", "4", "1", "3"}, order)
	for _, d := range got {
		assert.Positive(t, d.TotalAttempts)
	}
}

func TestDifficulty_Empty(t *testing.T) {
	assert.Empty(t, Difficulty(nil))
}

// ---- Profile ----

func TestProfile_BestStreakTrailingRun(t *testing.T) {
	pattern := []bool{true, true, false, true, true, true}
	var ev []model.AnswerEvent
	for i, ok := range pattern {
		ev = append(ev, makeEvent("Bob", fmt.Sprint(i+1), ok, 2))
	}
	p, ok := Profile("Bob", makeEvents(ev...), 0)
	require.True(t, ok)
	assert.Equal(t, 3, p.BestStreak)
	assert.Equal(t, 6, p.TotalQuestions)
	assert.Equal(t, 5, p.CorrectAnswers)
	assert.Equal(t, 1, p.IncorrectAnswers)
	assert.Equal(t, p.TotalQuestions, p.CorrectAnswers+p.IncorrectAnswers)
	assert.Equal(t, 500.0, p.TotalScore)
}

func TestProfile_NotFound(t *testing.T) {
	ev := makeEvents(makeEvent("Bob", "1", true, 2))
	_, ok := Profile("Alice", ev, 10)
	assert.False(t, ok)

	_, ok = Profile("Alice", nil, 10)
	assert.False(t, ok)
}

func TestProfile_AveragesAndRecentWindow(t *testing.T) {
	var ev []model.AnswerEvent
	for i := 0; i < 12; i++ {
		e := makeEvent("Eve", fmt.Sprint(i+1), i%3 != 0, float64(i))
		e.AnswerTimePercent = float64(10 * i)
		ev = append(ev, e, makeEvent("other", "x", true, 99))
	}
	ev = makeEvents(ev...)

	p, ok := Profile("Eve", ev, 10)
	require.True(t, ok)
	assert.InDelta(t, 5.5, p.AvgResponseTimeSeconds, 1e-9)
	assert.InDelta(t, 55.0, p.AvgResponseTimePercent, 1e-9)
	assert.InDelta(t, 8.0/12*100, p.Accuracy, 1e-9)

	require.Len(t, p.RecentEvents, 10)
	assert.Equal(t, "12", p.RecentEvents[0].QuestionNumber)
	assert.Equal(t, "3", p.RecentEvents[9].QuestionNumber)

	small, _ := Profile("Eve", ev, 3)
	assert.Len(t, small.RecentEvents, 3)
}

func TestProfile_TotalScoreFromLastEvent(t *testing.T) {
	ev := []model.AnswerEvent{
		{Player: "Zed", RunningTotalScore: 300},
		{Player: "Zed", RunningTotalScore: 50},
	}
	p, ok := Profile("Zed", ev, 10)
	require.True(t, ok)
	assert.Equal(t, 50.0, p.TotalScore)
}

func TestBestStreak(t *testing.T) {
	tests := []struct {
		pattern []bool
		want    int
	}{
		{nil, 0},
		{[]bool{false, false}, 0},
		{[]bool{true}, 1},
		{[]bool{true, true, true, false, true}, 3},
		{[]bool{false, true, true, false, true, true, true, true}, 4},
	}
	for _, tt := range tests {
		var ev []model.AnswerEvent
		for _, ok := range tt.pattern {
			ev = append(ev, model.AnswerEvent{IsCorrect: ok})
		}
		assert.Equal(t, tt.want, BestStreak(ev), "pattern %v", tt.pattern)
	}
}

func TestPlayerQuestionStats(t *testing.T) {
	ev := makeEvents(
		makeEvent("Ann", "2", false, 4),
		makeEvent("Ann", "1", true, 2),
		makeEvent("Ben", "1", false, 9),
		makeEvent("Ann", "2", true, 6),
	)
	got := PlayerQuestionStats("Ann", ev)
	want := []model.QuestionStat{
		{QuestionNumber: "2", QuestionText: "Q2", Attempts: 2, Correct: 1, AvgTimeSeconds: 5},
		{QuestionNumber: "1", QuestionText: "Q1", Attempts: 1, Correct: 1, AvgTimeSeconds: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PlayerQuestionStats mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, PlayerQuestionStats("Nobody", ev))
}

func TestTrend_FlagsRegression(t *testing.T) {
	ev := []model.AnswerEvent{
		{Row: 1, Player: "Kim", QuestionNumber: "1", RunningTotalScore: 100},
		{Row: 2, Player: "Lee", QuestionNumber: "1", RunningTotalScore: 10},
		{Row: 3, Player: "Kim", QuestionNumber: "2", RunningTotalScore: 80},
		{Row: 4, Player: "Kim", QuestionNumber: "3", RunningTotalScore: 200},
	}
	got := Trend("Kim", ev)
	require.Len(t, got, 3)
	assert.False(t, got[0].Regressed)
	assert.True(t, got[1].Regressed)
	assert.Equal(t, 3, got[1].Row)
	assert.False(t, got[2].Regressed)
}

func TestPlayers_FirstSeenOrder(t *testing.T) {
	ev := makeEvents(
		makeEvent("b", "1", true, 1),
		makeEvent("a", "1", true, 1),
		makeEvent("b", "2", true, 1),
	)
	assert.Equal(t, []string{"b", "a"}, Players(ev))
}

func TestPlayers_EmptyIsNonNil(t *testing.T) {
	got := Players(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Overview ----

func TestOverview(t *testing.T) {
	ds := model.Dataset{
		Summaries: []model.PlayerSummary{
			makeSummary("a", 1200, 19, 1), // 95%
			makeSummary("b", 600, 8, 2),   // 80%
			makeSummary("c", 50, 1, 1),    // 50%
		},
		Events: makeEvents(
			makeEvent("a", "1", true, 2),
			makeEvent("a", "2", true, 4),
			makeEvent("b", "1", false, 12),
			makeEvent("c", "3", true, 30),
		),
	}

	o := Overview(ds)
	assert.Equal(t, 3, o.TotalPlayers)
	assert.Equal(t, 3, o.TotalQuestions)
	assert.Equal(t, 4, o.TotalAttempts)
	assert.InDelta(t, 75.0, o.AvgAccuracy, 1e-9)
	assert.InDelta(t, 1850.0/3, o.AvgScore, 1e-9)

	assert.Equal(t, []model.Bucket{
		{Label: "90-100%", Count: 1}, {Label: "80-89%", Count: 1}, {Label: "70-79%", Count: 0}, {Label: "60-69%", Count: 0}, {Label: "<60%", Count: 1},
	}, o.AccuracyDistribution)
	assert.Equal(t, []model.Bucket{
		{Label: "1000+", Count: 1}, {Label: "500-999", Count: 1}, {Label: "250-499", Count: 0}, {Label: "100-249", Count: 0}, {Label: "<100", Count: 1},
	}, o.ScoreDistribution)
	assert.Equal(t, []model.Bucket{
		{Label: "<5s", Count: 1}, {Label: "5-10s", Count: 0}, {Label: "10-15s", Count: 1}, {Label: "15-20s", Count: 0}, {Label: "20s+", Count: 1},
	}, o.SpeedDistribution)
}

func TestOverview_EmptyDataset(t *testing.T) {
	o := Overview(model.Dataset{})
	assert.Zero(t, o.AvgAccuracy)
	assert.Zero(t, o.AvgScore)
	assert.Len(t, o.AccuracyDistribution, 5)
	assert.Len(t, o.SpeedDistribution, 5)
}

// ---- ComputeViews ----

// A missing summary sheet degrades to empty leaderboards while event views
// still populate.
func TestComputeViews_SummarySheetAbsent(t *testing.T) {
	var ev []model.AnswerEvent
	for i := 0; i < 5; i++ {
		ev = append(ev, makeEvent("Cara", fmt.Sprint(i+1), i != 2, 3))
	}
	ds := model.Dataset{Summaries: []model.PlayerSummary{}, Events: makeEvents(ev...)}

	v, err := ComputeViews(context.Background(), ds, DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, v.Leaderboard)
	assert.Empty(t, v.Accuracy)
	assert.Len(t, v.Difficulty, 5)
	assert.Len(t, v.Speed, 1)
}

func TestComputeViews_MatchesSequentialAndIsIdempotent(t *testing.T) {
	ds := model.Dataset{
		Summaries: []model.PlayerSummary{
			makeSummary("a", 10, 1, 1),
			makeSummary("b", 30, 3, 0),
		},
		Events: makeEvents(
			makeEvent("a", "1", true, 1),
			makeEvent("b", "1", false, 2),
		),
	}
	p := Params{Metric: model.MetricTotalScore, Limit: 5, MinSamples: 1}

	first, err := ComputeViews(context.Background(), ds, p)
	require.NoError(t, err)
	second, err := ComputeViews(context.Background(), ds, p)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("ComputeViews not idempotent (-first +second):\n%s", diff)
	}

	lb, _ := Rank(ds.Summaries, p.Metric, p.Order, p.Limit)
	if diff := cmp.Diff(lb, first.Leaderboard); diff != "" {
		t.Errorf("leaderboard differs from Rank (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Difficulty(ds.Events), first.Difficulty); diff != "" {
		t.Errorf("difficulty differs (-want +got):\n%s", diff)
	}
}

func TestComputeViews_Errors(t *testing.T) {
	_, err := ComputeViews(context.Background(), model.Dataset{}, Params{Metric: model.Metric(-1)})
	assert.ErrorIs(t, err, ErrUnsupportedMetric)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ComputeViews(ctx, model.Dataset{}, DefaultParams())
	assert.ErrorIs(t, err, context.Canceled)
}
