package parser

import (
	"fmt"

	"github.com/pable/go-quiz-metrics/internal/model"
)

// Row is one decoded sheet row: column header to raw cell value. Values are
// nil, string, or a numeric type.
type Row map[string]any

// Synonyms lists the headers accepted for one logical field, highest priority
// first. The display header comes first, then the camel-case alias.
type Synonyms []string

// Lookup returns the first non-blank cell among the synonyms.
func (s Synonyms) Lookup(r Row) (any, bool) {
	for _, key := range s {
		if v, ok := r[key]; ok && !blank(v) {
			return v, true
		}
	}
	return nil, false
}

// Get is Lookup without the found flag.
func (s Synonyms) Get(r Row) any {
	v, _ := s.Lookup(r)
	return v
}

// Summary sheet columns.
var (
	SummaryRank             = Synonyms{"Rank", "rank"}
	SummaryPlayer           = Synonyms{"Player", "player"}
	SummaryTotalScore       = Synonyms{"Total Score (points)", "totalScore"}
	SummaryCorrectAnswers   = Synonyms{"Correct Answers", "correctAnswers"}
	SummaryIncorrectAnswers = Synonyms{"Incorrect Answers", "incorrectAnswers"}
	SummaryGamesPlayed      = Synonyms{"Games Played", "gamesPlayed"}
)

// Event sheet columns.
var (
	EventQuestionNumber    = Synonyms{"Quiz Question Number", "quizQuestionNumber"}
	EventQuestion          = Synonyms{"Question", "question"}
	EventCorrectAnswerKey  = Synonyms{"Correct Answers", "correctAnswers"}
	EventTimeAllotted      = Synonyms{"Time Allotted to Answer (seconds)", "timeAllotted"}
	EventPlayerAnswer      = Synonyms{"Player Answer", "playerAnswer"}
	EventCorrectIncorrect  = Synonyms{"Correct / Incorrect", "isCorrect"}
	EventScore             = Synonyms{"Score (points)", "score"}
	EventScoreWithoutBonus = Synonyms{"Score without Answer Streak Bonus (points)", "scoreWithoutBonus"}
	EventCurrentTotalScore = Synonyms{"Current Total Score (points)", "currentTotalScore"}
	EventAnswerTimePercent = Synonyms{"Answer Time (%)", "answerTimePercent"}
	EventAnswerTimeSeconds = Synonyms{"Answer Time (seconds)", "answerTimeSeconds"}
	EventPlayer            = Synonyms{"Player", "player"}
)

// EventAnswerOptions holds the "Answer 1".."Answer 6" columns in order.
var EventAnswerOptions = func() [model.AnswerOptionCount]Synonyms {
	var out [model.AnswerOptionCount]Synonyms
	for i := range out {
		out[i] = Synonyms{fmt.Sprintf("Answer %d", i+1), fmt.Sprintf("answer%d", i+1)}
	}
	return out
}()
