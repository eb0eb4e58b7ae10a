package parser

import (
	"fmt"

	"github.com/pable/go-quiz-metrics/internal/model"
)

// NormalizeSummaries maps summary sheet rows to PlayerSummary records in row
// order. A nil input (sheet absent) yields an empty, non-nil slice.
func NormalizeSummaries(rows []Row) []model.PlayerSummary {
	out := make([]model.PlayerSummary, 0, len(rows))
	for i, r := range rows {
		pos := i + 1
		out = append(out, model.PlayerSummary{
			Rank:             rankOf(r, pos),
			Player:           Identity(SummaryPlayer.Get(r), fmt.Sprintf("Player %d", pos)),
			TotalScore:       Number(SummaryTotalScore.Get(r)),
			CorrectAnswers:   Count(SummaryCorrectAnswers.Get(r)),
			IncorrectAnswers: Count(SummaryIncorrectAnswers.Get(r)),
			GamesPlayed:      Count(SummaryGamesPlayed.Get(r)),
		})
	}

	// Accuracy is derived once the answer counts are settled.
	for i := range out {
		out[i].Accuracy = model.Percent(out[i].CorrectAnswers, out[i].Questions())
	}
	return out
}

// rankOf returns the sheet rank, or the 1-based position when the cell is
// missing, non-numeric or not positive.
func rankOf(r Row, pos int) int {
	v, ok := SummaryRank.Lookup(r)
	if !ok {
		return pos
	}
	if rank := Integer(v); rank > 0 {
		return rank
	}
	return pos
}
