package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/swdee/go-trafficcount/counter"
)

const schema = `
CREATE TABLE IF NOT EXISTS counts (
	run_id  TEXT NOT NULL,
	video   TEXT NOT NULL,
	counter TEXT NOT NULL,
	seconds REAL NOT NULL,
	count   INTEGER NOT NULL,
	PRIMARY KEY (run_id, video, counter, seconds)
)`

// SQLite stores counter series in a SQLite database, one row per frame
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(path string) (*SQLite, error) {

	db, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// videos may be processed concurrently, serialise the writers
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("error executing %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Write stores the series of the counters for a video
func (s *SQLite) Write(ctx context.Context, runID, video string,
	counters []counter.Counter, fps float64) error {

	tx, err := s.db.BeginTx(ctx, nil)

	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO counts
		(run_id, video, counter, seconds, count) VALUES (?, ?, ?, ?, ?)`)

	if err != nil {
		return fmt.Errorf("error preparing insert: %w", err)
	}

	defer stmt.Close()

	for _, c := range counters {
		for secs, v := range Times(c.Series(), fps) {
			if _, err := stmt.ExecContext(ctx, runID, video, c.Name(),
				secs, v); err != nil {
				return fmt.Errorf("error inserting %s: %w", c.Name(), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing counts: %w", err)
	}

	return nil
}

// Series reads back the series of a counter as a map of elapsed seconds to
// value
func (s *SQLite) Series(ctx context.Context, runID, video,
	name string) (map[float64]int, error) {

	rows, err := s.db.QueryContext(ctx, `SELECT seconds, count FROM counts
		WHERE run_id = ? AND video = ? AND counter = ? ORDER BY seconds`,
		runID, video, name)

	if err != nil {
		return nil, fmt.Errorf("error querying counts: %w", err)
	}

	defer rows.Close()

	res := make(map[float64]int)

	for rows.Next() {

		var (
			secs  float64
			count int
		)

		if err := rows.Scan(&secs, &count); err != nil {
			return nil, fmt.Errorf("error reading counts: %w", err)
		}

		res[secs] = count
	}

	return res, rows.Err()
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
