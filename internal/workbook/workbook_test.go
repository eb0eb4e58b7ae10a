package workbook

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pable/go-quiz-metrics/internal/parser"
)

var (
	summaryHeader = []any{"Rank", "Player", "Total Score (points)", "Correct Answers", "Incorrect Answers"}
	eventHeader   = []any{"Quiz Question Number", "Question", "Correct / Incorrect", "Answer Time (seconds)", "Current Total Score (points)", "Player"}
)

// buildWorkbook writes an export with the given sheets. A nil row set leaves
// the sheet out. The summary sheet carries two title rows above its header.
func buildWorkbook(t *testing.T, summaryName string, summary [][]any, eventName string, events [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	placeholderUsed := false
	if summary != nil {
		require.NoError(t, f.SetSheetName(first, summaryName))
		placeholderUsed = true
		require.NoError(t, f.SetCellValue(summaryName, "A1", "Final Scores"))
		require.NoError(t, f.SetCellValue(summaryName, "A2", "Quiz night"))
		writeRows(t, f, summaryName, 3, append([][]any{summaryHeader}, summary...))
	}
	if events != nil {
		if placeholderUsed {
			_, err := f.NewSheet(eventName)
			require.NoError(t, err)
		} else {
			require.NoError(t, f.SetSheetName(first, eventName))
			placeholderUsed = true
		}
		writeRows(t, f, eventName, 1, append([][]any{eventHeader}, events...))
	}
	if !placeholderUsed {
		require.NoError(t, f.SetSheetName(first, "Notes"))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func writeRows(t *testing.T, f *excelize.File, sheet string, startRow int, rows [][]any) {
	t.Helper()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
}

func fullWorkbook(t *testing.T) []byte {
	return buildWorkbook(t,
		"Final Scores", [][]any{
			{1, "Alice", 500, 8, 2},
			{2, "Bob", 300, 5, 5},
		},
		"RawReportData Data", [][]any{
			{1, "Capital of France?", "Correct", 4.5, 950, "Alice"},
			{1, "Capital of France?", "Incorrect", 9, 0, "Bob"},
			{2, "2+2?", "Correct", 3, 1900, "Alice"},
		},
	)
}

func TestLoadBytes_BothSheets(t *testing.T) {
	ds, info, err := LoadBytes(fullWorkbook(t), nil)
	require.NoError(t, err)

	assert.Equal(t, "Final Scores", info.SummarySheet)
	assert.Equal(t, "RawReportData Data", info.EventSheet)
	assert.Len(t, info.Hash, 64)

	require.Len(t, ds.Summaries, 2)
	assert.Equal(t, "Alice", ds.Summaries[0].Player)
	assert.Equal(t, 500.0, ds.Summaries[0].TotalScore)
	assert.Equal(t, 80.0, ds.Summaries[0].Accuracy)
	assert.Equal(t, 2, ds.Summaries[1].Rank)

	require.Len(t, ds.Events, 3)
	assert.Equal(t, "1", ds.Events[0].QuestionNumber)
	assert.True(t, ds.Events[0].IsCorrect)
	assert.Equal(t, 4.5, ds.Events[0].AnswerTimeSeconds)
	assert.Equal(t, "Bob", ds.Events[1].Player)
	assert.Equal(t, 1900.0, ds.Events[2].RunningTotalScore)
}

func TestLoadBytes_AlternateSheetNames(t *testing.T) {
	data := buildWorkbook(t,
		"FinalScores", [][]any{{1, "Alice", 10, 1, 0}},
		"Raw Report Data", [][]any{{1, "Q", "Correct", 2, 10, "Alice"}},
	)
	ds, info, err := LoadBytes(data, nil)
	require.NoError(t, err)
	assert.Equal(t, "FinalScores", info.SummarySheet)
	assert.Equal(t, "Raw Report Data", info.EventSheet)
	assert.Len(t, ds.Summaries, 1)
	assert.Len(t, ds.Events, 1)
}

func TestLoadBytes_MissingSheetsAreEmpty(t *testing.T) {
	onlyEvents := buildWorkbook(t, "", nil, "RawReportData Data", [][]any{{1, "Q", "Correct", 2, 10, "Cara"}})
	ds, info, err := LoadBytes(onlyEvents, nil)
	require.NoError(t, err)
	assert.Empty(t, info.SummarySheet)
	assert.Empty(t, ds.Summaries)
	assert.Len(t, ds.Events, 1)

	neither := buildWorkbook(t, "", nil, "", nil)
	ds, _, err = LoadBytes(neither, nil)
	require.NoError(t, err)
	assert.True(t, ds.Empty())
}

func TestLoadBytes_ForwardsDiagnostics(t *testing.T) {
	var kinds []parser.Kind
	_, _, err := LoadBytes(fullWorkbook(t), parser.ObserverFunc(func(d parser.Diagnostic) {
		kinds = append(kinds, d.Kind)
	}))
	require.NoError(t, err)
	assert.Contains(t, kinds, parser.KindSheetNormalized)
	assert.Contains(t, kinds, parser.KindPlayerJoin)
}

func TestToRows(t *testing.T) {
	grid := [][]string{
		{"title"},
		{"Player", "", "Score", "Score", "Extra"},
		{"Ann", "ignored", "10", "11"},
		{},
		{"  ", "", ""},
		{"Ben", "", "", "", "x", "beyond"},
	}
	got := toRows(grid, 1)
	require.Len(t, got, 2)
	assert.Equal(t, parser.Row{"Player": "Ann", "Score": "10", "Score_1": "11"}, got[0])
	assert.Equal(t, parser.Row{"Player": "Ben", "Extra": "x"}, got[1])

	assert.Empty(t, toRows(grid, 10))
}

func TestHeaderKeysSkipTakenSuffix(t *testing.T) {
	assert.Equal(t,
		[]string{"Score", "Score_2", "Score_1", "", "Score_3"},
		headerKeys([]string{"Score", "Score", "Score_1", " ", "Score"}))

	grid := [][]string{
		{"Score", "Score", "Score_1"},
		{"1", "2", "3"},
	}
	got := toRows(grid, 0)
	require.Len(t, got, 1)
	assert.Equal(t, parser.Row{"Score": "1", "Score_2": "2", "Score_1": "3"}, got[0])
}

func TestFindSheet(t *testing.T) {
	name, ok := findSheet([]string{"Overview", "finalscores ", "FinalScores"}, summarySheet.candidates)
	assert.True(t, ok)
	assert.Equal(t, "FinalScores", name)

	name, ok = findSheet([]string{"final scores"}, summarySheet.candidates)
	assert.True(t, ok)
	assert.Equal(t, "final scores", name)

	_, ok = findSheet([]string{"Sheet1"}, eventSheet.candidates)
	assert.False(t, ok)
}

func TestLoad_FileFormats(t *testing.T) {
	raw := fullWorkbook(t)
	dir := t.TempDir()

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	require.NoError(t, err)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	files := map[string][]byte{
		"export.xlsx":     raw,
		"export.xlsx.gz":  gz.Bytes(),
		"export.xlsx.zst": zs.Bytes(),
	}
	var hashes []string
	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))

		ds, info, err := Load(context.Background(), path)
		require.NoError(t, err, name)
		assert.Len(t, ds.Events, 3, name)
		assert.Equal(t, path, info.Source)
		hashes = append(hashes, info.Hash)
	}
	// The hash covers the decompressed workbook, so all three agree.
	assert.Equal(t, hashes[0], hashes[1])
	assert.Equal(t, hashes[1], hashes[2])
}

func TestLoad_URL(t *testing.T) {
	raw := fullWorkbook(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/export.xlsx" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	ds, _, err := Load(context.Background(), srv.URL+"/export.xlsx", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	assert.Len(t, ds.Summaries, 2)

	_, _, err = Load(context.Background(), srv.URL+"/missing.xlsx", WithHTTPClient(srv.Client()))
	var loadErr *DataLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, srv.URL+"/missing.xlsx", loadErr.Source)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestLoad_Failures(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "not-a-workbook.xlsx")
	require.NoError(t, os.WriteFile(garbage, []byte("plain text"), 0o644))

	for _, source := range []string{filepath.Join(dir, "absent.xlsx"), garbage} {
		ds, _, err := Load(context.Background(), source)
		var loadErr *DataLoadError
		require.True(t, errors.As(err, &loadErr), source)
		assert.Error(t, loadErr.Unwrap())
		assert.True(t, ds.Empty())
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/x.xlsx"))
	assert.True(t, IsURL("http://example.com/x.xlsx"))
	assert.False(t, IsURL("/tmp/x.xlsx"))
	assert.False(t, IsURL("ftp://example.com/x.xlsx"))
}
