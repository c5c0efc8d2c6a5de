// Package storage provides SQLite-based persistence for the climber's profile,
// run history and best-run ghost. Uses the pure-Go modernc.org/sqlite driver
// to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Profile keys in the kv table.
const (
	KeyBest   = "best"
	KeyShards = "shards"
	KeyLoops  = "loops"
	KeySkin   = "skin"
	KeyName   = "name"
	KeyGhost  = "ghost"
)

// Run modes recorded in the runs table.
const (
	ModeSolo = "solo"
	ModeCoop = "coop"
)

// FameLimit is the size of the fame board.
const FameLimit = 5

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Profile is the persisted player state read at menu time.
type Profile struct {
	Best   int // Meters
	Shards int
	Loops  int
	Skin   int
	Name   string
}

// FameEntry is one fame-board record.
type FameEntry struct {
	Meters   int
	Skin     string
	PlayedOn string // Local date, YYYY-MM-DD
}

// GhostPoint is one sample of the best run: x and y relative to score.
type GhostPoint struct {
	X int `msgpack:"x"`
	Y int `msgpack:"y"`
}

// CoopRun is the outcome of a two-player run.
type CoopRun struct {
	ID        int64
	Partner   string
	Meters    int
	Deaths    int
	Loops     int
	EndReason string // "double_death", "disconnect"
	Duration  int    // Seconds
	CreatedAt time.Time
}

// RunStats contains aggregated statistics for one mode.
type RunStats struct {
	Mode       string
	RunsCount  int
	Best       int
	AvgMeters  float64
	Total      int64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			meters INTEGER NOT NULL,
			skin TEXT NOT NULL DEFAULT '',
			partner TEXT NOT NULL DEFAULT '',
			deaths INTEGER NOT NULL DEFAULT 0,
			loops INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL DEFAULT '',
			duration_secs INTEGER NOT NULL DEFAULT 0,
			played_on TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(mode, meters DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

// get returns nil without error when the key is missing.
func (s *Store) get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) putInt(key string, v int) error {
	return s.put(key, []byte(strconv.Itoa(v)))
}

// getInt reads an integer key; missing or malformed values read as zero.
func (s *Store) getInt(key string) (int, error) {
	raw, err := s.get(key)
	if err != nil || raw == nil {
		return 0, err
	}
	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("storage: malformed %s %q: %w", key, raw, err)
	}
	return v, nil
}

// LoadProfile reads every profile key. Keys that fail to load keep their zero
// value and the first error is returned alongside the partial profile.
func (s *Store) LoadProfile() (Profile, error) {
	var p Profile
	var errs []error
	for key, dst := range map[string]*int{
		KeyBest:   &p.Best,
		KeyShards: &p.Shards,
		KeyLoops:  &p.Loops,
		KeySkin:   &p.Skin,
	} {
		v, err := s.getInt(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*dst = v
	}
	name, err := s.get(KeyName)
	if err != nil {
		errs = append(errs, err)
	}
	p.Name = string(name)
	return p, errors.Join(errs...)
}

// SaveBest records the best altitude in meters.
func (s *Store) SaveBest(meters int) error { return s.putInt(KeyBest, meters) }

// SaveShards records the currency balance.
func (s *Store) SaveShards(n int) error { return s.putInt(KeyShards, n) }

// SaveLoops records the number of defeated bosses.
func (s *Store) SaveLoops(n int) error { return s.putInt(KeyLoops, n) }

// SaveSkin records the last used skin index.
func (s *Store) SaveSkin(i int) error { return s.putInt(KeySkin, i) }

// SaveName records the display name used in co-op.
func (s *Store) SaveName(name string) error { return s.put(KeyName, []byte(name)) }

// SaveGhost replaces the stored best-run ghost trail.
func (s *Store) SaveGhost(trail []GhostPoint) error {
	data, err := EncodeGhost(trail)
	if err != nil {
		return err
	}
	return s.put(KeyGhost, data)
}

// LoadGhost returns the stored ghost trail, or nil if none was saved.
func (s *Store) LoadGhost() ([]GhostPoint, error) {
	raw, err := s.get(KeyGhost)
	if err != nil || raw == nil {
		return nil, err
	}
	return DecodeGhost(raw)
}

// EncodeGhost serializes a ghost trail.
func EncodeGhost(trail []GhostPoint) ([]byte, error) {
	data, err := msgpack.Marshal(trail)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot encode ghost: %w", err)
	}
	return data, nil
}

// DecodeGhost parses a ghost trail produced by EncodeGhost.
func DecodeGhost(data []byte) ([]GhostPoint, error) {
	var trail []GhostPoint
	if err := msgpack.Unmarshal(data, &trail); err != nil {
		return nil, fmt.Errorf("storage: cannot decode ghost: %w", err)
	}
	return trail, nil
}

// AddFame records a single-player run on the fame board.
func (s *Store) AddFame(e FameEntry) error {
	_, err := s.db.Exec(
		"INSERT INTO runs (mode, meters, skin, played_on) VALUES (?, ?, ?, ?)",
		ModeSolo, e.Meters, e.Skin, e.PlayedOn,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}
	return nil
}

// Fame returns the top single-player runs, best first.
func (s *Store) Fame() ([]FameEntry, error) {
	rows, err := s.db.Query(
		`SELECT meters, skin, played_on
		 FROM runs
		 WHERE mode = ?
		 ORDER BY meters DESC, id ASC
		 LIMIT ?`,
		ModeSolo, FameLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query fame: %w", err)
	}
	defer rows.Close()

	var entries []FameEntry
	for rows.Next() {
		var e FameEntry
		if err := rows.Scan(&e.Meters, &e.Skin, &e.PlayedOn); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// SaveCoopRun records the result of a two-player run.
// Returns the ID of the inserted record.
func (s *Store) SaveCoopRun(run CoopRun) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (mode, meters, partner, deaths, loops, end_reason, duration_secs, played_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ModeCoop, run.Meters, run.Partner, run.Deaths, run.Loops, run.EndReason, run.Duration,
		time.Now().Format(time.DateOnly),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save co-op run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentCoopRuns retrieves the most recent two-player runs.
func (s *Store) RecentCoopRuns(limit int) ([]CoopRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, partner, meters, deaths, loops, end_reason, duration_secs, created_at
		 FROM runs
		 WHERE mode = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		ModeCoop, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query co-op runs: %w", err)
	}
	defer rows.Close()

	var results []CoopRun
	for rows.Next() {
		var r CoopRun
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Partner, &r.Meters, &r.Deaths, &r.Loops, &r.EndReason, &r.Duration, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// Stats retrieves aggregated statistics for one mode.
func (s *Store) Stats(mode string) (*RunStats, error) {
	stats := &RunStats{Mode: mode}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(meters), 0), COALESCE(AVG(meters), 0), COALESCE(SUM(meters), 0), MAX(created_at)
		 FROM runs WHERE mode = ?`,
		mode,
	).Scan(&stats.RunsCount, &stats.Best, &stats.AvgMeters, &stats.Total, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.DateTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
