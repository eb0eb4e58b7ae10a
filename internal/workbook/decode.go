package workbook

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pable/go-quiz-metrics/internal/parser"
)

// sheetSpec locates one logical sheet inside an export.
type sheetSpec struct {
	candidates []string
	headerRow  int // 0-based index of the header row
}

var (
	summarySheet = sheetSpec{candidates: []string{"Final Scores", "FinalScores"}, headerRow: 2}
	eventSheet   = sheetSpec{candidates: []string{"RawReportData Data", "Raw Report Data"}, headerRow: 0}
)

// decoded holds the rows of both sheets. A nil slice means the sheet was absent.
type decoded struct {
	summarySheet string
	eventSheet   string
	summaryRows  []parser.Row
	eventRows    []parser.Row
}

// decode reads both sheets of an XLSX document into header-keyed rows.
func decode(data []byte) (decoded, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return decoded{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	var out decoded

	if name, ok := findSheet(sheets, summarySheet.candidates); ok {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return decoded{}, fmt.Errorf("read sheet %q: %w", name, err)
		}
		out.summarySheet = name
		out.summaryRows = toRows(rows, summarySheet.headerRow)
	}
	if name, ok := findSheet(sheets, eventSheet.candidates); ok {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return decoded{}, fmt.Errorf("read sheet %q: %w", name, err)
		}
		out.eventSheet = name
		out.eventRows = toRows(rows, eventSheet.headerRow)
	}
	return out, nil
}

// findSheet returns the first candidate present in sheets. An exact match is
// preferred; a case-insensitive match on trimmed names is accepted next.
func findSheet(sheets, candidates []string) (string, bool) {
	for _, c := range candidates {
		for _, s := range sheets {
			if s == c {
				return s, true
			}
		}
	}
	for _, c := range candidates {
		for _, s := range sheets {
			if strings.EqualFold(strings.TrimSpace(s), c) {
				return s, true
			}
		}
	}
	return "", false
}

// toRows keys every row after headerRow by its column header. Blank header
// cells are skipped, repeated headers get a "_N" suffix, blank cells are left
// out of the row and rows with no cells at all are dropped.
func toRows(grid [][]string, headerRow int) []parser.Row {
	if headerRow >= len(grid) {
		return []parser.Row{}
	}
	headers := headerKeys(grid[headerRow])

	out := make([]parser.Row, 0, len(grid)-headerRow-1)
	for _, cells := range grid[headerRow+1:] {
		row := make(parser.Row)
		for j, cell := range cells {
			if j >= len(headers) || headers[j] == "" || strings.TrimSpace(cell) == "" {
				continue
			}
			row[headers[j]] = cell
		}
		if len(row) > 0 {
			out = append(out, row)
		}
	}
	return out
}

// headerKeys names each column by its trimmed header. Repeats get the first
// free "_N" suffix, skipping names another column already uses.
func headerKeys(cells []string) []string {
	taken := make(map[string]bool, len(cells))
	for _, c := range cells {
		if h := strings.TrimSpace(c); h != "" {
			taken[h] = true
		}
	}
	used := make(map[string]bool, len(cells))
	next := make(map[string]int, len(cells))
	keys := make([]string, len(cells))
	for i, c := range cells {
		h := strings.TrimSpace(c)
		if h == "" {
			continue
		}
		key := h
		if used[h] {
			for {
				next[h]++
				key = fmt.Sprintf("%s_%d", h, next[h])
				if !taken[key] && !used[key] {
					break
				}
			}
		}
		used[key] = true
		keys[i] = key
	}
	return keys
}
