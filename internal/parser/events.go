package parser

import "github.com/pable/go-quiz-metrics/internal/model"

// NormalizeEvents maps event sheet rows to AnswerEvent records, one per row,
// in row order. Nothing is filtered, merged or reordered.
func NormalizeEvents(rows []Row) []model.AnswerEvent {
	out := make([]model.AnswerEvent, 0, len(rows))
	for i, r := range rows {
		e := model.AnswerEvent{
			Row:                 i + 1,
			Player:              Identity(EventPlayer.Get(r), UnknownPlayer),
			QuestionNumber:      Text(EventQuestionNumber.Get(r)),
			QuestionText:        Text(EventQuestion.Get(r)),
			CorrectAnswerKey:    Text(EventCorrectAnswerKey.Get(r)),
			PlayerAnswer:        Text(EventPlayerAnswer.Get(r)),
			IsCorrect:           Correct(EventCorrectIncorrect.Get(r)),
			TimeAllottedSeconds: Duration(EventTimeAllotted.Get(r)),
			AnswerTimeSeconds:   Duration(EventAnswerTimeSeconds.Get(r)),
			AnswerTimePercent:   Number(EventAnswerTimePercent.Get(r)),
			Score:               Number(EventScore.Get(r)),
			ScoreWithoutBonus:   Number(EventScoreWithoutBonus.Get(r)),
			RunningTotalScore:   Number(EventCurrentTotalScore.Get(r)),
		}
		for j, syn := range EventAnswerOptions {
			e.AnswerOptions[j] = Text(syn.Get(r))
		}
		out = append(out, e)
	}
	return out
}
