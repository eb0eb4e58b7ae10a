package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-quiz-metrics/internal/model"
)

func decodePNG(t *testing.T, data []byte) (w, h int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestDifficultyChart(t *testing.T) {
	data, err := Difficulty([]model.DifficultyEntry{
		{QuestionNumber: "2", MissRatePercent: 90},
		{QuestionNumber: "1", MissRatePercent: 30},
	}, DefaultPalette)
	require.NoError(t, err)
	w, h := decodePNG(t, data)
	assert.Equal(t, minWidth, w)
	assert.Equal(t, height, h)
}

func TestBarChartsWidenWithManyBars(t *testing.T) {
	summaries := make([]model.PlayerSummary, 30)
	for i := range summaries {
		summaries[i] = model.PlayerSummary{Player: string(rune('A' + i%26)), TotalScore: float64(100 * (i + 1)), Accuracy: float64(i)}
	}
	data, err := Scores(summaries, DefaultPalette)
	require.NoError(t, err)
	w, _ := decodePNG(t, data)
	assert.Equal(t, 30*barSlot, w)

	_, err = Accuracy(summaries, DefaultPalette)
	require.NoError(t, err)
}

func TestAllZeroBars(t *testing.T) {
	_, err := Speed([]model.SpeedEntry{{Player: "A"}, {Player: "B"}}, DefaultPalette)
	require.NoError(t, err)
}

func TestEmptyInputsRenderPlaceholder(t *testing.T) {
	data, err := Speed(nil, DefaultPalette)
	require.NoError(t, err)
	w, h := decodePNG(t, data)
	assert.Equal(t, 400, w)
	assert.Equal(t, 200, h)

	data, err = Trend("Alice", nil, DefaultPalette)
	require.NoError(t, err)
	decodePNG(t, data)
}

func TestEmptyViewsRenderPlaceholder(t *testing.T) {
	renders := map[string]func() ([]byte, error){
		"score":      func() ([]byte, error) { return Scores(nil, DefaultPalette) },
		"accuracy":   func() ([]byte, error) { return Accuracy(nil, DefaultPalette) },
		"difficulty": func() ([]byte, error) { return Difficulty(nil, DefaultPalette) },
	}
	for name, render := range renders {
		t.Run(name, func(t *testing.T) {
			data, err := render()
			require.NoError(t, err)
			w, h := decodePNG(t, data)
			assert.Equal(t, 400, w)
			assert.Equal(t, 200, h)
		})
	}
}

func TestTrendChart(t *testing.T) {
	data, err := Trend("Alice", []model.TrendPoint{
		{Row: 1, RunningTotalScore: 100},
		{Row: 3, RunningTotalScore: 250},
		{Row: 7, RunningTotalScore: 250},
	}, DefaultPalette)
	require.NoError(t, err)
	decodePNG(t, data)
}
