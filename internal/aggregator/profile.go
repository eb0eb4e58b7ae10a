package aggregator

import "github.com/pable/go-quiz-metrics/internal/model"

// Profile summarises one player's attempts. ok is false when no event
// belongs to player. recent bounds RecentEvents; recent <= 0 uses
// DefaultRecentWindow.
//
// TotalScore is the running total of the player's last event, so the result
// relies on event order being attempt order.
func Profile(player string, events []model.AnswerEvent, recent int) (model.PlayerProfile, bool) {
	if recent <= 0 {
		recent = DefaultRecentWindow
	}

	mine := playerEvents(player, events)
	if len(mine) == 0 {
		return model.PlayerProfile{}, false
	}

	p := model.PlayerProfile{Player: player, TotalQuestions: len(mine)}
	var seconds, percent float64
	for _, e := range mine {
		seconds += e.AnswerTimeSeconds
		percent += e.AnswerTimePercent
		if e.IsCorrect {
			p.CorrectAnswers++
		} else {
			p.IncorrectAnswers++
		}
	}
	n := float64(len(mine))
	p.Accuracy = model.Percent(p.CorrectAnswers, p.TotalQuestions)
	p.AvgResponseTimeSeconds = seconds / n
	p.AvgResponseTimePercent = percent / n
	p.BestStreak = BestStreak(mine)
	p.TotalScore = mine[len(mine)-1].RunningTotalScore

	window := mine
	if len(window) > recent {
		window = window[len(window)-recent:]
	}
	p.RecentEvents = make([]model.AnswerEvent, len(window))
	for i, e := range window {
		p.RecentEvents[len(window)-1-i] = e
	}
	return p, true
}

// BestStreak returns the longest run of consecutive correct events.
func BestStreak(events []model.AnswerEvent) int {
	best, run := 0, 0
	for _, e := range events {
		if !e.IsCorrect {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}

// PlayerQuestionStats returns player's record per question, in the order the
// player first attempted each question.
func PlayerQuestionStats(player string, events []model.AnswerEvent) []model.QuestionStat {
	var order []string
	byQuestion := make(map[string]*model.QuestionStat)
	times := make(map[string]float64)
	for _, e := range playerEvents(player, events) {
		s, ok := byQuestion[e.QuestionNumber]
		if !ok {
			s = &model.QuestionStat{QuestionNumber: e.QuestionNumber, QuestionText: e.QuestionText}
			byQuestion[e.QuestionNumber] = s
			order = append(order, e.QuestionNumber)
		}
		s.Attempts++
		if e.IsCorrect {
			s.Correct++
		}
		times[e.QuestionNumber] += e.AnswerTimeSeconds
	}

	out := make([]model.QuestionStat, 0, len(order))
	for _, q := range order {
		s := *byQuestion[q]
		s.AvgTimeSeconds = times[q] / float64(s.Attempts)
		out = append(out, s)
	}
	return out
}

// Trend returns player's score progression in event order. A point is marked
// Regressed when its running total is below the previous point's.
func Trend(player string, events []model.AnswerEvent) []model.TrendPoint {
	mine := playerEvents(player, events)
	out := make([]model.TrendPoint, 0, len(mine))
	for i, e := range mine {
		out = append(out, model.TrendPoint{
			Row:               e.Row,
			QuestionNumber:    e.QuestionNumber,
			IsCorrect:         e.IsCorrect,
			Score:             e.Score,
			RunningTotalScore: e.RunningTotalScore,
			Regressed:         i > 0 && e.RunningTotalScore < mine[i-1].RunningTotalScore,
		})
	}
	return out
}

// Players lists the distinct event players in first-seen order.
func Players(events []model.AnswerEvent) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, e := range events {
		if _, ok := seen[e.Player]; ok {
			continue
		}
		seen[e.Player] = struct{}{}
		out = append(out, e.Player)
	}
	return out
}

func playerEvents(player string, events []model.AnswerEvent) []model.AnswerEvent {
	var out []model.AnswerEvent
	for _, e := range events {
		if e.Player == player {
			out = append(out, e)
		}
	}
	return out
}
