package storage

import (
	"database/sql"
	"fmt"
)

// DBOverview holds aggregate counts across every stored import.
type DBOverview struct {
	TotalImports   int
	EarliestImport string
	LatestImport   string
	UniquePlayers  int
	TotalSummaries int
	TotalAttempts  int
	TotalCorrect   int
}

// GetDBOverview returns aggregate statistics about the whole database.
func (db *DB) GetDBOverview() (DBOverview, error) {
	var ov DBOverview
	var earliest, latest sql.NullString
	err := db.conn.QueryRow(`
		SELECT COUNT(*), MIN(imported_at), MAX(imported_at) FROM imports`).
		Scan(&ov.TotalImports, &earliest, &latest)
	if err != nil {
		return ov, fmt.Errorf("count imports: %w", err)
	}
	ov.EarliestImport = earliest.String
	ov.LatestImport = latest.String

	err = db.conn.QueryRow(`
		SELECT COUNT(DISTINCT player) FROM (
			SELECT player FROM player_summaries
			UNION SELECT player FROM answer_events
		)`).Scan(&ov.UniquePlayers)
	if err != nil {
		return ov, fmt.Errorf("count players: %w", err)
	}

	err = db.conn.QueryRow(`SELECT COUNT(*) FROM player_summaries`).Scan(&ov.TotalSummaries)
	if err != nil {
		return ov, fmt.Errorf("count summaries: %w", err)
	}

	err = db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(is_correct), 0) FROM answer_events`).
		Scan(&ov.TotalAttempts, &ov.TotalCorrect)
	if err != nil {
		return ov, fmt.Errorf("count attempts: %w", err)
	}
	return ov, nil
}

// PlayerActivity is one row of the most-active-players list.
type PlayerActivity struct {
	Player      string
	Imports     int
	AvgAccuracy float64
	BestScore   float64
	BestRank    int
}

// GetTopPlayersByImports returns the players appearing in the most summary
// sheets, ties broken by average accuracy.
func (db *DB) GetTopPlayersByImports(limit int) ([]PlayerActivity, error) {
	rows, err := db.conn.Query(`
		SELECT player, COUNT(DISTINCT import_hash), AVG(accuracy), MAX(total_score), MIN(rank)
		FROM player_summaries
		GROUP BY player
		ORDER BY COUNT(DISTINCT import_hash) DESC, AVG(accuracy) DESC, player
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerActivity
	for rows.Next() {
		var p PlayerActivity
		if err := rows.Scan(&p.Player, &p.Imports, &p.AvgAccuracy, &p.BestScore, &p.BestRank); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PlayerImportStats is one player's record in a single import.
type PlayerImportStats struct {
	ImportHash string
	ImportedAt string
	Rank       int
	TotalScore float64
	Accuracy   float64
	Attempts   int
	Correct    int
	AvgTime    float64
}

// GetPlayerHistory returns player's results in every import that mentions
// them, oldest first. Imports with events but no summary row report rank 0.
func (db *DB) GetPlayerHistory(player string) ([]PlayerImportStats, error) {
	rows, err := db.conn.Query(`
		SELECT i.hash, i.imported_at,
			COALESCE(s.rank, 0), COALESCE(s.total_score, 0), COALESCE(s.accuracy, 0),
			COALESCE(e.attempts, 0), COALESCE(e.correct, 0), COALESCE(e.avg_time, 0)
		FROM imports i
		LEFT JOIN (
			SELECT import_hash, MIN(rank) AS rank, MAX(total_score) AS total_score, MAX(accuracy) AS accuracy
			FROM player_summaries WHERE player = ? GROUP BY import_hash
		) s ON s.import_hash = i.hash
		LEFT JOIN (
			SELECT import_hash, COUNT(*) AS attempts, SUM(is_correct) AS correct, AVG(answer_time_seconds) AS avg_time
			FROM answer_events WHERE player = ? GROUP BY import_hash
		) e ON e.import_hash = i.hash
		WHERE s.import_hash IS NOT NULL OR e.import_hash IS NOT NULL
		ORDER BY i.imported_at, i.hash`, player, player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerImportStats
	for rows.Next() {
		var p PlayerImportStats
		if err := rows.Scan(&p.ImportHash, &p.ImportedAt, &p.Rank, &p.TotalScore, &p.Accuracy,
			&p.Attempts, &p.Correct, &p.AvgTime); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
