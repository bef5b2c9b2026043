package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// Life is one ship's run from login to death or disconnect.
type Life struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Color          string    `json:"color"`
	AsteroidPoints int       `json:"asteroidPoints"`
	KillingPoints  int       `json:"killingPoints"`
	Cause          string    `json:"cause"`              // projectile, asteroid or disconnect
	KilledBy       string    `json:"killedBy,omitempty"` // shooter name
	StartedAt      time.Time `json:"startedAt"`
	EndedAt        time.Time `json:"endedAt"`
}

// Total is the leaderboard score of the life.
func (l Life) Total() int {
	return l.AsteroidPoints + l.KillingPoints
}

// KillEvent records one ship destroyed in the arena.
type KillEvent struct {
	Cause      string    `json:"cause"`
	KillerID   string    `json:"killerId,omitempty"`
	KillerName string    `json:"killerName,omitempty"`
	VictimID   string    `json:"victimId"`
	VictimName string    `json:"victimName"`
	At         time.Time `json:"at"`
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	Name           string    `json:"name"`
	AsteroidPoints int       `json:"asteroidPoints"`
	KillingPoints  int       `json:"killingPoints"`
	Total          int       `json:"total"`
	EndedAt        time.Time `json:"endedAt"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS lives (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		asteroid_points INTEGER NOT NULL DEFAULT 0,
		killing_points INTEGER NOT NULL DEFAULT 0,
		cause TEXT NOT NULL DEFAULT '',
		killed_by TEXT NOT NULL DEFAULT '',
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS kill_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cause TEXT NOT NULL,
		killer_id TEXT NOT NULL DEFAULT '',
		killer_name TEXT NOT NULL DEFAULT '',
		victim_id TEXT NOT NULL,
		victim_name TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_lives_total ON lives(asteroid_points + killing_points);
	CREATE INDEX IF NOT EXISTS idx_kill_events_created ON kill_events(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// RecordLife stores a finished life. Recording the same life twice keeps the
// latest values.
func (db *DB) RecordLife(l Life) error {
	return insertLife(db.conn, l)
}

func insertLife(x execer, l Life) error {
	_, err := x.Exec(`
		INSERT INTO lives (id, name, color, asteroid_points, killing_points, cause, killed_by, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			asteroid_points = excluded.asteroid_points,
			killing_points = excluded.killing_points,
			cause = excluded.cause,
			killed_by = excluded.killed_by,
			ended_at = excluded.ended_at`,
		l.ID, l.Name, l.Color, l.AsteroidPoints, l.KillingPoints, l.Cause, l.KilledBy,
		l.StartedAt.UnixMilli(), l.EndedAt.UnixMilli(),
	)
	return err
}

func insertKill(x execer, e KillEvent) error {
	_, err := x.Exec(`
		INSERT INTO kill_events (cause, killer_id, killer_name, victim_id, victim_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Cause, e.KillerID, e.KillerName, e.VictimID, e.VictimName, e.At.UnixMilli(),
	)
	return err
}

// GetLife returns a recorded life by ship ID.
func (db *DB) GetLife(id string) (*Life, error) {
	row := db.conn.QueryRow(`
		SELECT id, name, color, asteroid_points, killing_points, cause, killed_by, started_at, ended_at
		FROM lives WHERE id = ?`, id)
	var (
		l          Life
		start, end int64
	)
	err := row.Scan(&l.ID, &l.Name, &l.Color, &l.AsteroidPoints, &l.KillingPoints, &l.Cause, &l.KilledBy, &start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	l.StartedAt = time.UnixMilli(start).UTC()
	l.EndedAt = time.UnixMilli(end).UTC()
	return &l, nil
}

// TopLives returns the best lives by total points, most recent first on ties.
func (db *DB) TopLives(limit int) ([]LeaderboardEntry, error) {
	rows, err := db.conn.Query(`
		SELECT name, asteroid_points, killing_points, ended_at
		FROM lives
		ORDER BY asteroid_points + killing_points DESC, ended_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []LeaderboardEntry{}
	rank := 1
	for rows.Next() {
		var (
			e   LeaderboardEntry
			end int64
		)
		if err := rows.Scan(&e.Name, &e.AsteroidPoints, &e.KillingPoints, &end); err != nil {
			return nil, err
		}
		e.Total = e.AsteroidPoints + e.KillingPoints
		e.EndedAt = time.UnixMilli(end).UTC()
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// RecentKills returns the latest kill events, newest first.
func (db *DB) RecentKills(limit int) ([]KillEvent, error) {
	rows, err := db.conn.Query(`
		SELECT cause, killer_id, killer_name, victim_id, victim_name, created_at
		FROM kill_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []KillEvent{}
	for rows.Next() {
		var (
			e  KillEvent
			at int64
		)
		if err := rows.Scan(&e.Cause, &e.KillerID, &e.KillerName, &e.VictimID, &e.VictimName, &at); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(at).UTC()
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetSetting returns a stored setting or "" when unset.
func (db *DB) GetSetting(key string) string {
	var v string
	if err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v); err != nil {
		return ""
	}
	return v
}

// SetSetting stores or replaces a setting.
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
