// Package joblog is the durable audit trail of sync runs, kept in a
// local SQLite database next to the datasets. Unlike the in-process
// job registry, entries here survive restarts.
package joblog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Entry is one recorded sync run.
type Entry struct {
	ID          int64      `json:"id" yaml:"id"`
	Dataset     string     `json:"dataset" yaml:"dataset"`
	Status      string     `json:"status" yaml:"status"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	RowsSynced  int64      `json:"rows_synced" yaml:"rows_synced"`
	Error       string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Log writes and reads the sync_log table.
type Log struct {
	db *sql.DB
}

// Open opens the log database at the given path and configures WAL mode.
func Open(dsn string) (*Log, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "joblog: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "joblog: exec %s", pragma)
		}
	}
	return &Log{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS sync_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	dataset      TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	started_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at DATETIME,
	rows_synced  INTEGER NOT NULL DEFAULT 0,
	error        TEXT
);

CREATE INDEX IF NOT EXISTS idx_sync_log_dataset ON sync_log(dataset);
CREATE INDEX IF NOT EXISTS idx_sync_log_started_at ON sync_log(started_at);
`

func (l *Log) Migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "joblog: migrate")
}

func (l *Log) Close() error {
	return l.db.Close()
}

// Start records the beginning of a sync run and returns its ID.
func (l *Log) Start(ctx context.Context, dataset string) (int64, error) {
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO sync_log (dataset, status, started_at) VALUES (?, 'running', ?)`,
		dataset, time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrapf(err, "joblog: start sync for %s", dataset)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "joblog: last insert id")
	}
	return id, nil
}

// Complete marks a sync run as successfully completed.
func (l *Log) Complete(ctx context.Context, syncID int64, rowsSynced int64) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE sync_log SET status = 'complete', completed_at = ?, rows_synced = ? WHERE id = ?`,
		time.Now().UTC(), rowsSynced, syncID,
	)
	return eris.Wrapf(err, "joblog: complete sync %d", syncID)
}

// Fail marks a sync run as failed with an error message.
func (l *Log) Fail(ctx context.Context, syncID int64, errMsg string) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE sync_log SET status = 'failed', completed_at = ?, error = ? WHERE id = ?`,
		time.Now().UTC(), errMsg, syncID,
	)
	return eris.Wrapf(err, "joblog: fail sync %d", syncID)
}

// LastSuccess returns the started_at time of the most recent complete
// run for a dataset, or nil if it has never synced successfully.
func (l *Log) LastSuccess(ctx context.Context, dataset string) (*time.Time, error) {
	var t time.Time
	err := l.db.QueryRowContext(ctx,
		`SELECT started_at FROM sync_log
		 WHERE dataset = ? AND status = 'complete'
		 ORDER BY started_at DESC LIMIT 1`,
		dataset,
	).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "joblog: last success for %s", dataset)
	}
	return &t, nil
}

// Recent returns up to limit entries, most recent first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, dataset, status, started_at, completed_at, rows_synced, error
		 FROM sync_log ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "joblog: recent")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var completedAt *time.Time
		var errStr *string
		if err := rows.Scan(&e.ID, &e.Dataset, &e.Status, &e.StartedAt, &completedAt, &e.RowsSynced, &errStr); err != nil {
			return nil, eris.Wrap(err, "joblog: scan entry")
		}
		e.CompletedAt = completedAt
		if errStr != nil {
			e.Error = *errStr
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
