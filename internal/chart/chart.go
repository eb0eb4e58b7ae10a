// Package chart renders the derived views as PNG charts.
package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pable/go-quiz-metrics/internal/model"
)

// Views accepted by Render.
const (
	ViewDifficulty = "difficulty"
	ViewScore      = "score"
	ViewSpeed      = "speed"
	ViewAccuracy   = "accuracy"
)

// Palette is the set of colors a chart is drawn with.
type Palette struct {
	Background drawing.Color
	Bar        drawing.Color
	Accent     drawing.Color
	Text       drawing.Color
}

// DefaultPalette is a light theme.
var DefaultPalette = Palette{
	Background: drawing.ColorWhite,
	Bar:        drawing.ColorFromHex("3b6ea5"),
	Accent:     drawing.ColorFromHex("d9822b"),
	Text:       drawing.ColorFromHex("222222"),
}

const (
	minWidth = 800
	height   = 400
	barSlot  = 50
)

// Difficulty charts each question's miss rate, hardest first.
func Difficulty(entries []model.DifficultyEntry, pal Palette) ([]byte, error) {
	bars := make([]chart.Value, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		style := chart.Style{FillColor: pal.Bar, StrokeColor: pal.Bar}
		if e.Band() == model.BandVeryHard {
			style = chart.Style{FillColor: pal.Accent, StrokeColor: pal.Accent}
		}
		bars = append(bars, chart.Value{Label: "Q" + e.QuestionNumber, Value: e.MissRatePercent, Style: style})
	}
	return renderBars("Question difficulty", "Miss rate (%)", bars, pal)
}

// Scores charts total score per player in the given order.
func Scores(summaries []model.PlayerSummary, pal Palette) ([]byte, error) {
	bars := make([]chart.Value, 0, len(summaries))
	for _, s := range summaries {
		bars = append(bars, bar(s.Player, s.TotalScore, pal))
	}
	return renderBars("Total score", "Score", bars, pal)
}

// Accuracy charts accuracy per player in the given order.
func Accuracy(summaries []model.PlayerSummary, pal Palette) ([]byte, error) {
	bars := make([]chart.Value, 0, len(summaries))
	for _, s := range summaries {
		bars = append(bars, bar(s.Player, s.Accuracy, pal))
	}
	return renderBars("Accuracy", "Accuracy (%)", bars, pal)
}

// Speed charts average answer time per player, fastest first.
func Speed(entries []model.SpeedEntry, pal Palette) ([]byte, error) {
	bars := make([]chart.Value, 0, len(entries))
	for _, e := range entries {
		bars = append(bars, bar(e.Player, e.AvgTimeSeconds, pal))
	}
	return renderBars("Average answer time", "Seconds", bars, pal)
}

// Trend charts a player's running total against event row.
func Trend(player string, points []model.TrendPoint, pal Palette) ([]byte, error) {
	if len(points) == 0 {
		return renderNoData(pal, "No answers for "+player)
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Row)
		ys[i] = p.RunningTotalScore
	}

	graph := chart.Chart{
		Title:      player,
		Width:      minWidth,
		Height:     height,
		Background: chart.Style{FillColor: pal.Background},
		Canvas:     chart.Style{FillColor: pal.Background},
		XAxis: chart.XAxis{
			Name:  "Row",
			Style: chart.Style{FontColor: pal.Text},
		},
		YAxis: chart.YAxis{
			Name:  "Running total",
			Style: chart.Style{FontColor: pal.Text},
		},
		Series: []chart.Series{chart.ContinuousSeries{
			Name:    "Running total",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: pal.Bar,
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    pal.Accent,
			},
		}},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	return buf.Bytes(), nil
}

func bar(label string, v float64, pal Palette) chart.Value {
	return chart.Value{
		Label: label,
		Value: v,
		Style: chart.Style{FillColor: pal.Bar, StrokeColor: pal.Bar},
	}
}

func renderBars(title, yName string, bars []chart.Value, pal Palette) ([]byte, error) {
	if len(bars) == 0 {
		return renderNoData(pal, "No data for "+title)
	}
	// Bar charts need a non-zero range.
	allZero := true
	for _, b := range bars {
		if b.Value != 0 {
			allZero = false
			break
		}
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      max(minWidth, len(bars)*barSlot),
		Height:     height,
		BarWidth:   barSlot * 3 / 4,
		Background: chart.Style{FillColor: pal.Background, Padding: chart.Box{Top: 40}},
		Canvas:     chart.Style{FillColor: pal.Background},
		XAxis:      chart.Style{FontColor: pal.Text},
		YAxis: chart.YAxis{
			Name:  yName,
			Style: chart.Style{FontColor: pal.Text},
		},
		Bars: bars,
	}
	if allZero {
		graph.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: 1}
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", title, err)
	}
	return buf.Bytes(), nil
}

func renderNoData(pal Palette, msg string) ([]byte, error) {
	// Render needs one visible series; this one is painted transparent.
	graph := chart.Chart{
		Width:      400,
		Height:     200,
		Background: chart.Style{FillColor: pal.Background},
		Canvas:     chart.Style{FillColor: pal.Background},
		XAxis:      chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis:      chart.YAxis{Style: chart.Style{Hidden: true}},
		Series: []chart.Series{chart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 0},
		}},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(pal.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render placeholder chart: %w", err)
	}
	return buf.Bytes(), nil
}
