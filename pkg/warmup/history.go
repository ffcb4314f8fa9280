package warmup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fieldside-ai/fieldside/pkg/models"
)

// History persists warmup run reports in SQLite so operators can see how
// pre-population has been going between runs.
type History struct {
	db *sql.DB
}

const createWarmupRunsTable = `
CREATE TABLE IF NOT EXISTS warmup_runs (
	run_id      TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	duration_ms INTEGER NOT NULL,
	success     INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	report      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_warmup_runs_started ON warmup_runs(started_at);
`

// NewHistory opens the warmup history database and runs auto-migration.
func NewHistory(dbPath string) (*History, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open warmup history db: %w", err)
	}
	if _, err := db.Exec(createWarmupRunsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate warmup history db: %w", err)
	}
	return &History{db: db}, nil
}

// Record stores a run's report. The full report is kept as JSON next to
// the aggregate columns used for listing.
func (h *History) Record(ctx context.Context, report *models.WarmupReport) error {
	full, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode warmup report: %w", err)
	}
	_, err = h.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO warmup_runs (run_id, started_at, duration_ms, success, failed, report)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.RunID, report.StartedAt.UTC(), report.Duration.Milliseconds(),
		report.TotalSuccess(), report.TotalFailed(), string(full),
	)
	if err != nil {
		return fmt.Errorf("record warmup run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (h *History) List(ctx context.Context, limit int) ([]models.WarmupRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT run_id, started_at, duration_ms, success, failed
		 FROM warmup_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list warmup runs: %w", err)
	}
	defer rows.Close()

	var runs []models.WarmupRun
	for rows.Next() {
		var r models.WarmupRun
		var durationMs int64
		if err := rows.Scan(&r.RunID, &r.StartedAt, &durationMs, &r.Success, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan warmup run: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close releases the database connection.
func (h *History) Close() error {
	return h.db.Close()
}
