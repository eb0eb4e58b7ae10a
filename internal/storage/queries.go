package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-quiz-metrics/internal/model"
)

// ImportExists returns true if an export with the given hash is already stored.
func (db *DB) ImportExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM imports WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertDataset stores one import and all of its rows in a single transaction.
// Re-inserting the same hash replaces the previous rows. Missing ID and
// ImportedAt are filled in; the stored record is returned.
func (db *DB) InsertDataset(rec model.ImportSummary, ds model.Dataset) (model.ImportSummary, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ImportedAt == "" {
		rec.ImportedAt = time.Now().UTC().Format(time.RFC3339)
	}
	rec.SummaryCount = len(ds.Summaries)
	rec.EventCount = len(ds.Events)

	tx, err := db.conn.Begin()
	if err != nil {
		return rec, err
	}
	defer tx.Rollback()

	for _, table := range []string{"player_summaries", "answer_events"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE import_hash = ?", rec.Hash); err != nil {
			return rec, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO imports(hash, id, source, imported_at, summary_sheet, event_sheet, summary_count, event_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Hash, rec.ID, rec.Source, rec.ImportedAt, rec.SummarySheet, rec.EventSheet,
		rec.SummaryCount, rec.EventCount,
	)
	if err != nil {
		return rec, fmt.Errorf("insert import: %w", err)
	}

	if err := insertSummaries(tx, rec.Hash, ds.Summaries); err != nil {
		return rec, err
	}
	if err := insertEvents(tx, rec.Hash, ds.Events); err != nil {
		return rec, err
	}
	return rec, tx.Commit()
}

func insertSummaries(tx *sql.Tx, hash string, summaries []model.PlayerSummary) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_summaries(
			import_hash, position, player, rank, total_score,
			correct_answers, incorrect_answers, games_played, accuracy
		) VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, s := range summaries {
		_, err = stmt.Exec(
			hash, i+1, s.Player, s.Rank, s.TotalScore,
			s.CorrectAnswers, s.IncorrectAnswers, s.GamesPlayed, s.Accuracy,
		)
		if err != nil {
			return fmt.Errorf("insert player_summaries for %s: %w", s.Player, err)
		}
	}
	return nil
}

func insertEvents(tx *sql.Tx, hash string, events []model.AnswerEvent) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO answer_events(
			import_hash, position, player, question_number, question_text,
			answer1, answer2, answer3, answer4, answer5, answer6,
			correct_answer_key, player_answer, is_correct,
			time_allotted, answer_time_seconds, answer_time_percent,
			score, score_without_bonus, running_total_score
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		o := e.AnswerOptions
		_, err = stmt.Exec(
			hash, e.Row, e.Player, e.QuestionNumber, e.QuestionText,
			o[0], o[1], o[2], o[3], o[4], o[5],
			e.CorrectAnswerKey, e.PlayerAnswer, boolInt(e.IsCorrect),
			e.TimeAllottedSeconds, e.AnswerTimeSeconds, e.AnswerTimePercent,
			e.Score, e.ScoreWithoutBonus, e.RunningTotalScore,
		)
		if err != nil {
			return fmt.Errorf("insert answer_events row %d: %w", e.Row, err)
		}
	}
	return nil
}

const importColumns = `hash, id, source, imported_at, summary_sheet, event_sheet, summary_count, event_count`

func scanImport(row interface{ Scan(...any) error }) (model.ImportSummary, error) {
	var s model.ImportSummary
	err := row.Scan(&s.Hash, &s.ID, &s.Source, &s.ImportedAt, &s.SummarySheet, &s.EventSheet,
		&s.SummaryCount, &s.EventCount)
	return s, err
}

// ListImports returns all stored imports, newest first.
func (db *DB) ListImports() ([]model.ImportSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + importColumns + ` FROM imports ORDER BY imported_at DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ImportSummary
	for rows.Next() {
		s, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetImportByPrefix returns the first import whose hash starts with prefix,
// or nil when none matches.
func (db *DB) GetImportByPrefix(prefix string) (*model.ImportSummary, error) {
	s, err := scanImport(db.conn.QueryRow(
		`SELECT `+importColumns+` FROM imports WHERE hash LIKE ? ORDER BY hash LIMIT 1`, prefix+"%"))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadDataset rebuilds the Dataset stored under hash, in original row order.
func (db *DB) LoadDataset(hash string) (model.Dataset, error) {
	ds := model.Dataset{
		Summaries: []model.PlayerSummary{},
		Events:    []model.AnswerEvent{},
	}

	rows, err := db.conn.Query(`
		SELECT player, rank, total_score, correct_answers, incorrect_answers, games_played, accuracy
		FROM player_summaries WHERE import_hash = ? ORDER BY position`, hash)
	if err != nil {
		return ds, fmt.Errorf("query player_summaries: %w", err)
	}
	for rows.Next() {
		var s model.PlayerSummary
		if err := rows.Scan(&s.Player, &s.Rank, &s.TotalScore, &s.CorrectAnswers,
			&s.IncorrectAnswers, &s.GamesPlayed, &s.Accuracy); err != nil {
			rows.Close()
			return ds, err
		}
		ds.Summaries = append(ds.Summaries, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ds, err
	}

	rows, err = db.conn.Query(`
		SELECT position, player, question_number, question_text,
			answer1, answer2, answer3, answer4, answer5, answer6,
			correct_answer_key, player_answer, is_correct,
			time_allotted, answer_time_seconds, answer_time_percent,
			score, score_without_bonus, running_total_score
		FROM answer_events WHERE import_hash = ? ORDER BY position`, hash)
	if err != nil {
		return ds, fmt.Errorf("query answer_events: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e model.AnswerEvent
		var correct int
		o := &e.AnswerOptions
		if err := rows.Scan(&e.Row, &e.Player, &e.QuestionNumber, &e.QuestionText,
			&o[0], &o[1], &o[2], &o[3], &o[4], &o[5],
			&e.CorrectAnswerKey, &e.PlayerAnswer, &correct,
			&e.TimeAllottedSeconds, &e.AnswerTimeSeconds, &e.AnswerTimePercent,
			&e.Score, &e.ScoreWithoutBonus, &e.RunningTotalScore); err != nil {
			return ds, err
		}
		e.IsCorrect = correct != 0
		ds.Events = append(ds.Events, e)
	}
	return ds, rows.Err()
}

// DeleteImport removes an import and its rows. It reports whether anything
// was deleted.
func (db *DB) DeleteImport(hash string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	for _, table := range []string{"player_summaries", "answer_events"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE import_hash = ?", hash); err != nil {
			return false, fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := tx.Exec("DELETE FROM imports WHERE hash = ?", hash)
	if err != nil {
		return false, fmt.Errorf("delete import: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

// QueryRaw runs an arbitrary query and returns its columns and rows as text.
// NULL values render as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
