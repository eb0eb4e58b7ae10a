package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/model"
)

// ImportDoc describes the stored import a document was built from.
type ImportDoc struct {
	Hash         string `json:"hash" yaml:"hash"`
	ID           string `json:"id" yaml:"id"`
	Source       string `json:"source" yaml:"source"`
	ImportedAt   string `json:"imported_at" yaml:"imported_at"`
	SummaryCount int    `json:"summary_count" yaml:"summary_count"`
	EventCount   int    `json:"event_count" yaml:"event_count"`
}

// SummaryDoc is one summary-sheet row with its grade and consistency rating.
type SummaryDoc struct {
	Rank             int     `json:"rank" yaml:"rank"`
	Player           string  `json:"player" yaml:"player"`
	TotalScore       float64 `json:"total_score" yaml:"total_score"`
	CorrectAnswers   int     `json:"correct_answers" yaml:"correct_answers"`
	IncorrectAnswers int     `json:"incorrect_answers" yaml:"incorrect_answers"`
	GamesPlayed      int     `json:"games_played" yaml:"games_played"`
	Accuracy         float64 `json:"accuracy" yaml:"accuracy"`
	Grade            string  `json:"grade" yaml:"grade"`
	Consistency      string  `json:"consistency" yaml:"consistency"`
}

// SpeedDoc is one speed leaderboard row. SpeedScore is omitted when the
// average time is zero.
type SpeedDoc struct {
	Player           string   `json:"player" yaml:"player"`
	AvgTimeSeconds   float64  `json:"avg_time_seconds" yaml:"avg_time_seconds"`
	TotalQuestions   int      `json:"total_questions" yaml:"total_questions"`
	CorrectQuestions int      `json:"correct_questions" yaml:"correct_questions"`
	Accuracy         float64  `json:"accuracy" yaml:"accuracy"`
	SpeedScore       *float64 `json:"speed_score,omitempty" yaml:"speed_score,omitempty"`
	Rating           string   `json:"rating" yaml:"rating"`
}

// DifficultyDoc is one question's difficulty with its band.
type DifficultyDoc struct {
	QuestionNumber  string  `json:"question_number" yaml:"question_number"`
	QuestionText    string  `json:"question_text" yaml:"question_text"`
	TotalAttempts   int     `json:"total_attempts" yaml:"total_attempts"`
	CorrectAttempts int     `json:"correct_attempts" yaml:"correct_attempts"`
	MissRatePercent float64 `json:"miss_rate_percent" yaml:"miss_rate_percent"`
	AvgTimeSeconds  float64 `json:"avg_time_seconds" yaml:"avg_time_seconds"`
	DistinctPlayers int     `json:"distinct_players" yaml:"distinct_players"`
	Band            string  `json:"band" yaml:"band"`
}

// BucketDoc is one labelled bucket of a distribution.
type BucketDoc struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// OverviewDoc carries the dataset totals and distributions.
type OverviewDoc struct {
	TotalPlayers         int         `json:"total_players" yaml:"total_players"`
	TotalQuestions       int         `json:"total_questions" yaml:"total_questions"`
	TotalAttempts        int         `json:"total_attempts" yaml:"total_attempts"`
	AvgAccuracy          float64     `json:"avg_accuracy" yaml:"avg_accuracy"`
	AvgScore             float64     `json:"avg_score" yaml:"avg_score"`
	AccuracyDistribution []BucketDoc `json:"accuracy_distribution" yaml:"accuracy_distribution"`
	ScoreDistribution    []BucketDoc `json:"score_distribution" yaml:"score_distribution"`
	SpeedDistribution    []BucketDoc `json:"speed_distribution" yaml:"speed_distribution"`
}

// EventDoc is one answer in a profile's recent list.
type EventDoc struct {
	Row               int     `json:"row" yaml:"row"`
	QuestionNumber    string  `json:"question_number" yaml:"question_number"`
	QuestionText      string  `json:"question_text" yaml:"question_text"`
	PlayerAnswer      string  `json:"player_answer" yaml:"player_answer"`
	CorrectAnswer     string  `json:"correct_answer" yaml:"correct_answer"`
	IsCorrect         bool    `json:"is_correct" yaml:"is_correct"`
	AnswerTimeSeconds float64 `json:"answer_time_seconds" yaml:"answer_time_seconds"`
	Score             float64 `json:"score" yaml:"score"`
	RunningTotalScore float64 `json:"running_total_score" yaml:"running_total_score"`
}

// ProfileDoc is one player's profile, shared by `export` and `GET /players/{name}`.
type ProfileDoc struct {
	Player                 string     `json:"player" yaml:"player"`
	TotalQuestions         int        `json:"total_questions" yaml:"total_questions"`
	CorrectAnswers         int        `json:"correct_answers" yaml:"correct_answers"`
	IncorrectAnswers       int        `json:"incorrect_answers" yaml:"incorrect_answers"`
	Accuracy               float64    `json:"accuracy" yaml:"accuracy"`
	AvgResponseTimeSeconds float64    `json:"avg_response_time_seconds" yaml:"avg_response_time_seconds"`
	AvgResponseTimePercent float64    `json:"avg_response_time_percent" yaml:"avg_response_time_percent"`
	BestStreak             int        `json:"best_streak" yaml:"best_streak"`
	TotalScore             float64    `json:"total_score" yaml:"total_score"`
	Performance            string     `json:"performance" yaml:"performance"`
	Speed                  string     `json:"speed" yaml:"speed"`
	RecentEvents           []EventDoc `json:"recent_events" yaml:"recent_events"`
}

// Document is the full export of one dataset.
type Document struct {
	Import      *ImportDoc      `json:"import,omitempty" yaml:"import,omitempty"`
	Overview    OverviewDoc     `json:"overview" yaml:"overview"`
	Leaderboard []SummaryDoc    `json:"leaderboard" yaml:"leaderboard"`
	Accuracy    []SummaryDoc    `json:"accuracy" yaml:"accuracy"`
	Speed       []SpeedDoc      `json:"speed" yaml:"speed"`
	Difficulty  []DifficultyDoc `json:"difficulty" yaml:"difficulty"`
	Players     []ProfileDoc    `json:"players,omitempty" yaml:"players,omitempty"`
}

// NewDocument assembles an export from computed views. rec may be nil for a
// dataset that was never stored.
func NewDocument(rec *model.ImportSummary, v aggregator.Views, profiles []model.PlayerProfile) Document {
	doc := Document{
		Overview:    Overview(v.Overview),
		Leaderboard: Summaries(v.Leaderboard),
		Accuracy:    Summaries(v.Accuracy),
		Speed:       Speeds(v.Speed),
		Difficulty:  Difficulties(v.Difficulty),
	}
	if rec != nil {
		doc.Import = &ImportDoc{
			Hash:         rec.Hash,
			ID:           rec.ID,
			Source:       rec.Source,
			ImportedAt:   rec.ImportedAt,
			SummaryCount: rec.SummaryCount,
			EventCount:   rec.EventCount,
		}
	}
	for _, p := range profiles {
		doc.Players = append(doc.Players, Profile(p))
	}
	return doc
}

// Summaries converts summary rows, adding grade and consistency.
func Summaries(in []model.PlayerSummary) []SummaryDoc {
	out := make([]SummaryDoc, 0, len(in))
	for i := range in {
		s := &in[i]
		out = append(out, SummaryDoc{
			Rank:             s.Rank,
			Player:           s.Player,
			TotalScore:       s.TotalScore,
			CorrectAnswers:   s.CorrectAnswers,
			IncorrectAnswers: s.IncorrectAnswers,
			GamesPlayed:      s.GamesPlayed,
			Accuracy:         round2(s.Accuracy),
			Grade:            string(model.GradeForAccuracy(s.Accuracy)),
			Consistency:      model.ConsistencyRating(s),
		})
	}
	return out
}

// Speeds converts speed entries. SpeedScore is omitted when undefined.
func Speeds(in []model.SpeedEntry) []SpeedDoc {
	out := make([]SpeedDoc, 0, len(in))
	for i := range in {
		e := &in[i]
		d := SpeedDoc{
			Player:           e.Player,
			AvgTimeSeconds:   round2(e.AvgTimeSeconds),
			TotalQuestions:   e.TotalQuestions,
			CorrectQuestions: e.CorrectQuestions,
			Accuracy:         round2(e.Accuracy),
			Rating:           model.SpeedRating(e.AvgTimeSeconds),
		}
		if score, ok := e.SpeedScore(); ok {
			score = round2(score)
			d.SpeedScore = &score
		}
		out = append(out, d)
	}
	return out
}

// Difficulties converts difficulty entries, adding the band.
func Difficulties(in []model.DifficultyEntry) []DifficultyDoc {
	out := make([]DifficultyDoc, 0, len(in))
	for i := range in {
		d := &in[i]
		out = append(out, DifficultyDoc{
			QuestionNumber:  d.QuestionNumber,
			QuestionText:    d.QuestionText,
			TotalAttempts:   d.TotalAttempts,
			CorrectAttempts: d.CorrectAttempts,
			MissRatePercent: round2(d.MissRatePercent),
			AvgTimeSeconds:  round2(d.AvgTimeSeconds),
			DistinctPlayers: d.DistinctPlayers,
			Band:            string(d.Band()),
		})
	}
	return out
}

// Overview converts the dataset overview.
func Overview(o model.Overview) OverviewDoc {
	return OverviewDoc{
		TotalPlayers:         o.TotalPlayers,
		TotalQuestions:       o.TotalQuestions,
		TotalAttempts:        o.TotalAttempts,
		AvgAccuracy:          round2(o.AvgAccuracy),
		AvgScore:             round2(o.AvgScore),
		AccuracyDistribution: buckets(o.AccuracyDistribution),
		ScoreDistribution:    buckets(o.ScoreDistribution),
		SpeedDistribution:    buckets(o.SpeedDistribution),
	}
}

// Profile converts a player profile, adding its ratings.
func Profile(p model.PlayerProfile) ProfileDoc {
	d := ProfileDoc{
		Player:                 p.Player,
		TotalQuestions:         p.TotalQuestions,
		CorrectAnswers:         p.CorrectAnswers,
		IncorrectAnswers:       p.IncorrectAnswers,
		Accuracy:               round2(p.Accuracy),
		AvgResponseTimeSeconds: round2(p.AvgResponseTimeSeconds),
		AvgResponseTimePercent: round2(p.AvgResponseTimePercent),
		BestStreak:             p.BestStreak,
		TotalScore:             p.TotalScore,
		Performance:            model.PerformanceRating(p.Accuracy),
		Speed:                  model.SpeedRating(p.AvgResponseTimeSeconds),
		RecentEvents:           make([]EventDoc, 0, len(p.RecentEvents)),
	}
	for _, e := range p.RecentEvents {
		d.RecentEvents = append(d.RecentEvents, EventDoc{
			Row:               e.Row,
			QuestionNumber:    e.QuestionNumber,
			QuestionText:      e.QuestionText,
			PlayerAnswer:      e.PlayerAnswer,
			CorrectAnswer:     e.CorrectAnswerKey,
			IsCorrect:         e.IsCorrect,
			AnswerTimeSeconds: e.AnswerTimeSeconds,
			Score:             e.Score,
			RunningTotalScore: e.RunningTotalScore,
		})
	}
	return d
}

func buckets(in []model.Bucket) []BucketDoc {
	out := make([]BucketDoc, len(in))
	for i, b := range in {
		out[i] = BucketDoc{Label: b.Label, Count: b.Count}
	}
	return out
}

// Formats accepted by WriteDocument.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WriteDocument encodes v as JSON (indented) or YAML.
func WriteDocument(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want json or yaml)", format)
}
