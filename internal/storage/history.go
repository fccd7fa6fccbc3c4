package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const historyFileName = "history.db"

// ErrHistoryClosed is returned by History methods after Close.
var ErrHistoryClosed = errors.New("history is closed")

// HistoryEntry is one breathing session that was started.
type HistoryEntry struct {
	ID              int64
	StartedAt       time.Time
	EndedAt         time.Time
	PhaseDuration   int
	TotalCycles     int
	CompletedCycles int
	Completed       bool
}

// Duration returns how long the session lasted.
func (entry HistoryEntry) Duration() time.Duration {
	if entry.EndedAt.Before(entry.StartedAt) {
		return 0
	}
	return entry.EndedAt.Sub(entry.StartedAt)
}

// HistoryTotals summarises every recorded session.
type HistoryTotals struct {
	Sessions          int
	CompletedSessions int
	CompletedCycles   int
}

// History stores finished and abandoned sessions in SQLite.
type History struct {
	db *sql.DB
}

// HistoryPath returns the database location inside appDir.
func HistoryPath(appDir string) string {
	return filepath.Join(appDir, historyFileName)
}

// OpenHistory opens or creates the session database at path.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}

	history := &History{db: db}
	if err := history.initTables(); err != nil {
		db.Close()
		return nil, err
	}
	return history, nil
}

func (history *History) initTables() error {
	_, err := history.db.Exec(`
        CREATE TABLE IF NOT EXISTS sessions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            started_at DATETIME NOT NULL,
            ended_at DATETIME NOT NULL,
            phase_duration INTEGER NOT NULL,
            total_cycles INTEGER NOT NULL,
            completed_cycles INTEGER NOT NULL,
            completed BOOLEAN NOT NULL
        )
    `)
	if err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	_, err = history.db.Exec(`CREATE INDEX IF NOT EXISTS sessions_started_at ON sessions(started_at)`)
	if err != nil {
		return fmt.Errorf("create sessions index: %w", err)
	}
	return nil
}

// Record inserts entry and returns it with its assigned ID.
func (history *History) Record(ctx context.Context, entry HistoryEntry) (HistoryEntry, error) {
	if history.db == nil {
		return entry, ErrHistoryClosed
	}
	result, err := history.db.ExecContext(ctx, `
        INSERT INTO sessions (started_at, ended_at, phase_duration, total_cycles, completed_cycles, completed)
        VALUES (?, ?, ?, ?, ?, ?)
    `, entry.StartedAt.UTC(), entry.EndedAt.UTC(), entry.PhaseDuration, entry.TotalCycles, entry.CompletedCycles, entry.Completed)
	if err != nil {
		return entry, fmt.Errorf("record session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return entry, fmt.Errorf("record session: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// Recent returns up to limit sessions, newest first.
func (history *History) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if history.db == nil {
		return nil, ErrHistoryClosed
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := history.db.QueryContext(ctx, `
        SELECT id, started_at, ended_at, phase_duration, total_cycles, completed_cycles, completed
        FROM sessions
        ORDER BY started_at DESC, id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.StartedAt,
			&entry.EndedAt,
			&entry.PhaseDuration,
			&entry.TotalCycles,
			&entry.CompletedCycles,
			&entry.Completed,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return entries, nil
}

// Totals returns aggregate counts across all sessions.
func (history *History) Totals(ctx context.Context) (HistoryTotals, error) {
	var totals HistoryTotals
	if history.db == nil {
		return totals, ErrHistoryClosed
	}
	err := history.db.QueryRowContext(ctx, `
        SELECT COUNT(*),
               COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(completed_cycles), 0)
        FROM sessions
    `).Scan(&totals.Sessions, &totals.CompletedSessions, &totals.CompletedCycles)
	if err != nil {
		return totals, fmt.Errorf("sum sessions: %w", err)
	}
	return totals, nil
}

// Close releases the database.
func (history *History) Close() error {
	if history.db == nil {
		return nil
	}
	err := history.db.Close()
	history.db = nil
	return err
}
