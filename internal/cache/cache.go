package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	c := &Cache{readDB: readDB, writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			ran_at   DATETIME NOT NULL,
			city     TEXT NOT NULL,
			fetched  INTEGER NOT NULL DEFAULT 0,
			fresh    INTEGER NOT NULL DEFAULT 0,
			shown    INTEGER NOT NULL DEFAULT 0,
			status   TEXT NOT NULL,
			error    TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_runs_ran_at ON runs(ran_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// RecordRun appends a run and returns its ID.
func (c *Cache) RecordRun(r Run) (int64, error) {
	if r.RanAt.IsZero() {
		r.RanAt = time.Now()
	}
	res, err := c.writeDB.Exec(`
		INSERT INTO runs (ran_at, city, fetched, fresh, shown, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.RanAt.UTC(), r.City, r.Fetched, r.Fresh, r.Shown, r.Status, r.Error)
	if err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}
	return res.LastInsertId()
}

// Runs returns the most recent runs, newest first.
func (c *Cache) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := c.readDB.Query(`
		SELECT id, ran_at, city, fetched, fresh, shown, status, error
		FROM runs ORDER BY ran_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.RanAt, &r.City, &r.Fetched, &r.Fresh, &r.Shown, &r.Status, &r.Error); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Prune deletes runs older than the retention period.
func (c *Cache) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	res, err := c.writeDB.Exec("DELETE FROM runs WHERE ran_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		// Best effort; the rows are already gone.
		_, _ = c.writeDB.Exec("VACUUM")
	}
	return n, nil
}

// Stats returns the run count and the database file size.
func (c *Cache) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := c.readDB.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting runs: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stat cache: %w", err)
	}
	return count, info.Size(), nil
}
