// Package roster provides a minimal view over the academy's player data,
// enough for warmup to select active players and their recent performance.
// The full relational schema lives in the web application; this package
// only reads and seeds the two tables the cache subsystem needs.
package roster

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fieldside-ai/fieldside/pkg/models"
)

// Store reads and writes player data.
type Store interface {
	// ListActivePlayers returns up to limit active players, newest first.
	ListActivePlayers(ctx context.Context, limit int) ([]models.PlayerProfile, error)
	// RecentPerformance returns up to limit performance records for a player, newest first.
	RecentPerformance(ctx context.Context, playerID string, limit int) ([]models.PerformanceRecord, error)
	// AddPlayer registers a player.
	AddPlayer(ctx context.Context, p models.PlayerProfile) error
	// RecordPerformance stores a performance measurement.
	RecordPerformance(ctx context.Context, rec models.PerformanceRecord) error
	// Close releases resources.
	Close() error
}

// SQLiteStore implements Store with a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const createPlayersTable = `
CREATE TABLE IF NOT EXISTS players (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	position   TEXT NOT NULL,
	age_group  TEXT NOT NULL,
	strengths  TEXT NOT NULL DEFAULT '',
	weaknesses TEXT NOT NULL DEFAULT '',
	active     INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const createPerformanceTable = `
CREATE TABLE IF NOT EXISTS performance_records (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id   TEXT NOT NULL,
	speed       INTEGER NOT NULL,
	stamina     INTEGER NOT NULL,
	passing     INTEGER NOT NULL,
	shooting    INTEGER NOT NULL,
	notes       TEXT NOT NULL DEFAULT '',
	recorded_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_performance_player_time ON performance_records(player_id, recorded_at);
`

// New opens the roster database and runs auto-migration.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open roster db: %w", err)
	}

	if _, err := db.Exec(createPlayersTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate players table: %w", err)
	}
	if _, err := db.Exec(createPerformanceTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate performance table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// ListActivePlayers returns up to limit active players, newest first.
func (s *SQLiteStore) ListActivePlayers(ctx context.Context, limit int) ([]models.PlayerProfile, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, position, age_group, strengths, weaknesses, active, created_at
		 FROM players WHERE active = 1 ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []models.PlayerProfile
	for rows.Next() {
		var p models.PlayerProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.AgeGroup, &p.Strengths, &p.Weaknesses, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// RecentPerformance returns up to limit records for a player, newest first.
func (s *SQLiteStore) RecentPerformance(ctx context.Context, playerID string, limit int) ([]models.PerformanceRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player_id, speed, stamina, passing, shooting, notes, recorded_at
		 FROM performance_records WHERE player_id = ? ORDER BY recorded_at DESC LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent performance: %w", err)
	}
	defer rows.Close()

	var records []models.PerformanceRecord
	for rows.Next() {
		var r models.PerformanceRecord
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.Speed, &r.Stamina, &r.Passing, &r.Shooting, &r.Notes, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan performance: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// AddPlayer registers a player.
func (s *SQLiteStore) AddPlayer(ctx context.Context, p models.PlayerProfile) error {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, name, position, age_group, strengths, weaknesses, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Position, p.AgeGroup, p.Strengths, p.Weaknesses, p.Active, createdAt,
	)
	if err != nil {
		return fmt.Errorf("add player: %w", err)
	}
	return nil
}

// RecordPerformance stores a performance measurement.
func (s *SQLiteStore) RecordPerformance(ctx context.Context, rec models.PerformanceRecord) error {
	recordedAt := rec.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO performance_records (player_id, speed, stamina, passing, shooting, notes, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.PlayerID, rec.Speed, rec.Stamina, rec.Passing, rec.Shooting, rec.Notes, recordedAt,
	)
	if err != nil {
		return fmt.Errorf("record performance: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
