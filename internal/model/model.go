package model

// ---- Records produced by the parser ----

// PlayerSummary is one row of the per-player summary sheet.
type PlayerSummary struct {
	Player           string
	Rank             int
	TotalScore       float64
	CorrectAnswers   int
	IncorrectAnswers int
	GamesPlayed      int
	Accuracy         float64 // derived, never read from the sheet
}

// Questions returns the number of answered questions the summary accounts for.
func (s *PlayerSummary) Questions() int {
	return s.CorrectAnswers + s.IncorrectAnswers
}

// AnswerOptionCount is the number of answer columns an event row can carry.
const AnswerOptionCount = 6

// AnswerEvent is one recorded question attempt, kept in sheet row order.
type AnswerEvent struct {
	Row                 int // 1-based position among the event rows
	Player              string
	QuestionNumber      string
	QuestionText        string
	AnswerOptions       [AnswerOptionCount]string // "" when the column is absent
	CorrectAnswerKey    string
	PlayerAnswer        string
	IsCorrect           bool
	TimeAllottedSeconds float64
	AnswerTimeSeconds   float64
	AnswerTimePercent   float64
	Score               float64
	ScoreWithoutBonus   float64
	RunningTotalScore   float64 // cumulative score as of this event
}

// Dataset is the immutable result of one load. Callers must not mutate the slices.
type Dataset struct {
	Summaries []PlayerSummary
	Events    []AnswerEvent
}

// Empty reports whether neither sheet produced any records.
func (d *Dataset) Empty() bool {
	return len(d.Summaries) == 0 && len(d.Events) == 0
}

// ---- Derived views ----

// SpeedEntry is one row of the speed leaderboard.
type SpeedEntry struct {
	Player           string
	AvgTimeSeconds   float64
	TotalQuestions   int
	CorrectQuestions int
	Accuracy         float64
}

// SpeedScore returns 1000/AvgTimeSeconds. ok is false when the average is zero.
func (e *SpeedEntry) SpeedScore() (score float64, ok bool) {
	if e.AvgTimeSeconds == 0 {
		return 0, false
	}
	return 1000 / e.AvgTimeSeconds, true
}

// DifficultyEntry aggregates every attempt at one question.
type DifficultyEntry struct {
	QuestionNumber  string
	QuestionText    string
	TotalAttempts   int
	CorrectAttempts int
	MissRatePercent float64
	AvgTimeSeconds  float64
	DistinctPlayers int
}

// Band returns the display band for the entry's miss rate.
func (e *DifficultyEntry) Band() DifficultyBand {
	return BandForMissRate(e.MissRatePercent)
}

// PlayerProfile summarises one player's attempts.
type PlayerProfile struct {
	Player                 string
	TotalQuestions         int
	CorrectAnswers         int
	IncorrectAnswers       int
	Accuracy               float64
	AvgResponseTimeSeconds float64
	AvgResponseTimePercent float64
	BestStreak             int
	TotalScore             float64       // RunningTotalScore of the last event
	RecentEvents           []AnswerEvent // most recent first
}

// QuestionStat is one player's record on a single question.
type QuestionStat struct {
	QuestionNumber string
	QuestionText   string
	Attempts       int
	Correct        int
	AvgTimeSeconds float64
}

// TrendPoint is one step of a player's score progression.
type TrendPoint struct {
	Row               int
	QuestionNumber    string
	IsCorrect         bool
	Score             float64
	RunningTotalScore float64
	Regressed         bool // running total dropped versus the previous event
}

// Bucket is one labelled count of a distribution.
type Bucket struct {
	Label string
	Count int
}

// Overview is the dataset-wide analytics summary.
type Overview struct {
	TotalPlayers         int
	TotalQuestions       int
	TotalAttempts        int
	AvgAccuracy          float64
	AvgScore             float64
	AccuracyDistribution []Bucket
	ScoreDistribution    []Bucket
	SpeedDistribution    []Bucket
}

// ImportSummary is a lightweight record of one stored export.
type ImportSummary struct {
	Hash         string
	ID           string
	Source       string
	ImportedAt   string
	SummarySheet string
	EventSheet   string
	SummaryCount int
	EventCount   int
}

// Percent returns part/whole*100, or 0 when whole is not positive.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
