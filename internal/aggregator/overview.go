package aggregator

import "github.com/pable/go-quiz-metrics/internal/model"

// band is one bucket of a distribution; values at or above min fall in it
// unless an earlier band already claimed them.
type band struct {
	label string
	min   float64
}

var (
	accuracyBands = []band{{"90-100%", 90}, {"80-89%", 80}, {"70-79%", 70}, {"60-69%", 60}, {"<60%", 0}}
	scoreBands    = []band{{"1000+", 1000}, {"500-999", 500}, {"250-499", 250}, {"100-249", 100}, {"<100", 0}}
)

// speedBands are upper-bounded: an average falls in the first band whose
// limit it is below.
var speedBands = []struct {
	label string
	below float64
}{{"<5s", 5}, {"5-10s", 10}, {"10-15s", 15}, {"15-20s", 20}}

const speedSlowest = "20s+"

// Overview computes dataset-wide totals and distributions. Buckets are always
// present, in display order, even when empty.
func Overview(ds model.Dataset) model.Overview {
	o := model.Overview{
		TotalPlayers:  len(ds.Summaries),
		TotalAttempts: len(ds.Events),
	}

	accuracy := newDistribution(bandLabels(accuracyBands))
	score := newDistribution(bandLabels(scoreBands))
	var accSum, scoreSum float64
	for _, s := range ds.Summaries {
		accSum += s.Accuracy
		scoreSum += s.TotalScore
		accuracy.add(bandFor(s.Accuracy, accuracyBands))
		score.add(bandFor(s.TotalScore, scoreBands))
	}
	if n := len(ds.Summaries); n > 0 {
		o.AvgAccuracy = accSum / float64(n)
		o.AvgScore = scoreSum / float64(n)
	}

	questions := make(map[string]struct{})
	for _, e := range ds.Events {
		questions[e.QuestionNumber] = struct{}{}
	}
	o.TotalQuestions = len(questions)

	speed := newDistribution(speedBandLabels())
	for _, entry := range SpeedLeaderboard(ds.Events, 1, 0) {
		speed.add(speedBandFor(entry.AvgTimeSeconds))
	}

	o.AccuracyDistribution = accuracy.buckets
	o.ScoreDistribution = score.buckets
	o.SpeedDistribution = speed.buckets
	return o
}

type distribution struct {
	buckets []model.Bucket
	index   map[string]int
}

func newDistribution(labels []string) *distribution {
	d := &distribution{index: make(map[string]int, len(labels))}
	for i, l := range labels {
		d.buckets = append(d.buckets, model.Bucket{Label: l})
		d.index[l] = i
	}
	return d
}

func (d *distribution) add(label string) {
	d.buckets[d.index[label]].Count++
}

func bandFor(v float64, bands []band) string {
	for _, b := range bands {
		if v >= b.min {
			return b.label
		}
	}
	// Negative values land in the lowest band.
	return bands[len(bands)-1].label
}

func speedBandFor(avg float64) string {
	for _, b := range speedBands {
		if avg < b.below {
			return b.label
		}
	}
	return speedSlowest
}

func bandLabels(bands []band) []string {
	out := make([]string, len(bands))
	for i, b := range bands {
		out[i] = b.label
	}
	return out
}

func speedBandLabels() []string {
	out := make([]string, 0, len(speedBands)+1)
	for _, b := range speedBands {
		out = append(out, b.label)
	}
	return append(out, speedSlowest)
}
