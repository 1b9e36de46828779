// Package sqlstore implements the domain repositories on database/sql,
// backed by PostgreSQL (lib/pq) or SQLite (modernc, no cgo).
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// sqliteTime is fixed width so that stored timestamps order lexically.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql    *sql.DB
	driver string
	loc    *time.Location
}

// Open connects, pings, and runs migrations. For SQLite dsn is a file
// path; its directory is created when missing. loc is the zone local days
// are reported in.
func Open(driver, dsn string, loc *time.Location) (*DB, error) {
	var (
		s   *sql.DB
		err error
	)
	switch driver {
	case DriverPostgres:
		s, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
		s.SetMaxOpenConns(10)
		s.SetMaxIdleConns(5)
		s.SetConnMaxLifetime(5 * time.Minute)
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		s, err = sql.Open("sqlite", dsn+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
		if err != nil {
			return nil, err
		}
		// One writer; WAL lets readers proceed alongside it.
		s.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	if loc == nil {
		loc = time.Local
	}
	d := &DB{sql: s, driver: driver, loc: loc}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Ping reports whether the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := postgresSchema
	if d.driver == DriverSQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

var postgresSchema = []string{
	"CREATE TABLE IF NOT EXISTS weight_events (id BIGSERIAL PRIMARY KEY, value DOUBLE PRECISION NOT NULL, unit TEXT NOT NULL CHECK(unit IN ('kg','lb')), created_at TIMESTAMPTZ NOT NULL);",
	"CREATE INDEX IF NOT EXISTS idx_weight_events_created_at ON weight_events(created_at);",
	"CREATE TABLE IF NOT EXISTS water_events (id BIGSERIAL PRIMARY KEY, amount_ml INTEGER NOT NULL CHECK(amount_ml >= 1), source TEXT NOT NULL, notes TEXT NOT NULL DEFAULT '', created_at TIMESTAMPTZ NOT NULL);",
	"CREATE INDEX IF NOT EXISTS idx_water_events_created_at ON water_events(created_at);",
	"CREATE TABLE IF NOT EXISTS intake_events (id BIGSERIAL PRIMARY KEY, substance TEXT NOT NULL, dose_mg DOUBLE PRECISION CHECK(dose_mg >= 0), notes TEXT NOT NULL DEFAULT '', taken_at TIMESTAMPTZ NOT NULL);",
	"CREATE INDEX IF NOT EXISTS idx_intake_events_taken_at ON intake_events(taken_at);",
	"CREATE TABLE IF NOT EXISTS health_snapshots (id BIGSERIAL PRIMARY KEY, taken_at TIMESTAMPTZ NOT NULL, heart_rate DOUBLE PRECISION, resting_hr DOUBLE PRECISION, hrv DOUBLE PRECISION, sleep_duration DOUBLE PRECISION, sleep_confidence DOUBLE PRECISION, spo2 DOUBLE PRECISION, respiratory_rate DOUBLE PRECISION, steps INTEGER, calories DOUBLE PRECISION, source TEXT NOT NULL DEFAULT '');",
	"CREATE INDEX IF NOT EXISTS idx_health_snapshots_taken_at ON health_snapshots(taken_at);",
	"CREATE TABLE IF NOT EXISTS subjective_logs (id BIGSERIAL PRIMARY KEY, logged_at TIMESTAMPTZ NOT NULL, focus INTEGER NOT NULL CHECK(focus BETWEEN 1 AND 10), mood INTEGER NOT NULL CHECK(mood BETWEEN 1 AND 10), energy INTEGER NOT NULL CHECK(energy BETWEEN 1 AND 10), appetite INTEGER, inner_unrest INTEGER, pain_severity INTEGER, aura_duration_min INTEGER, aura_type TEXT NOT NULL DEFAULT '', photophobia BOOLEAN, phonophobia BOOLEAN, tags TEXT NOT NULL DEFAULT '[]');",
	"CREATE INDEX IF NOT EXISTS idx_subjective_logs_logged_at ON subjective_logs(logged_at);",
	"CREATE TABLE IF NOT EXISTS meals (id BIGSERIAL PRIMARY KEY, meal_type TEXT NOT NULL, notes TEXT NOT NULL DEFAULT '', eaten_at TIMESTAMPTZ NOT NULL);",
	"CREATE INDEX IF NOT EXISTS idx_meals_eaten_at ON meals(eaten_at);",
	"CREATE TABLE IF NOT EXISTS water_goals (day TEXT PRIMARY KEY, goal_ml INTEGER NOT NULL, base_ml INTEGER NOT NULL, drug_modifier_ml INTEGER NOT NULL, fasting_modifier_ml INTEGER NOT NULL, activity_modifier_ml INTEGER NOT NULL, weight_kg DOUBLE PRECISION NOT NULL, is_fasting BOOLEAN NOT NULL, elvanse_active BOOLEAN NOT NULL, steps INTEGER NOT NULL, computed_at TIMESTAMPTZ NOT NULL);",
	"CREATE TABLE IF NOT EXISTS users (id BIGSERIAL PRIMARY KEY, username TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
	"CREATE TABLE IF NOT EXISTS sessions (token TEXT PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, user_agent TEXT NOT NULL DEFAULT '', expires_at TIMESTAMPTZ NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
	"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
}

var sqliteSchema = []string{
	"CREATE TABLE IF NOT EXISTS weight_events (id INTEGER PRIMARY KEY AUTOINCREMENT, value REAL NOT NULL, unit TEXT NOT NULL CHECK(unit IN ('kg','lb')), created_at TEXT NOT NULL);",
	"CREATE INDEX IF NOT EXISTS idx_weight_events_created_at ON weight_events(created_at);",
	"CREATE TABLE IF NOT EXISTS water_events (id INTEGER PRIMARY KEY AUTOINCREMENT, amount_ml INTEGER NOT NULL CHECK(amount_ml >= 1), source TEXT NOT NULL, notes TEXT NOT NULL DEFAULT '', created_at TEXT NOT NULL);",
	"CREATE INDEX IF NOT EXISTS idx_water_events_created_at ON water_events(created_at);",
	"CREATE TABLE IF NOT EXISTS intake_events (id INTEGER PRIMARY KEY AUTOINCREMENT, substance TEXT NOT NULL, dose_mg REAL CHECK(dose_mg >= 0), notes TEXT NOT NULL DEFAULT '', taken_at TEXT NOT NULL);",
	"CREATE INDEX IF NOT EXISTS idx_intake_events_taken_at ON intake_events(taken_at);",
	"CREATE TABLE IF NOT EXISTS health_snapshots (id INTEGER PRIMARY KEY AUTOINCREMENT, taken_at TEXT NOT NULL, heart_rate REAL, resting_hr REAL, hrv REAL, sleep_duration REAL, sleep_confidence REAL, spo2 REAL, respiratory_rate REAL, steps INTEGER, calories REAL, source TEXT NOT NULL DEFAULT '');",
	"CREATE INDEX IF NOT EXISTS idx_health_snapshots_taken_at ON health_snapshots(taken_at);",
	"CREATE TABLE IF NOT EXISTS subjective_logs (id INTEGER PRIMARY KEY AUTOINCREMENT, logged_at TEXT NOT NULL, focus INTEGER NOT NULL CHECK(focus BETWEEN 1 AND 10), mood INTEGER NOT NULL CHECK(mood BETWEEN 1 AND 10), energy INTEGER NOT NULL CHECK(energy BETWEEN 1 AND 10), appetite INTEGER, inner_unrest INTEGER, pain_severity INTEGER, aura_duration_min INTEGER, aura_type TEXT NOT NULL DEFAULT '', photophobia INTEGER, phonophobia INTEGER, tags TEXT NOT NULL DEFAULT '[]');",
	"CREATE INDEX IF NOT EXISTS idx_subjective_logs_logged_at ON subjective_logs(logged_at);",
	"CREATE TABLE IF NOT EXISTS meals (id INTEGER PRIMARY KEY AUTOINCREMENT, meal_type TEXT NOT NULL, notes TEXT NOT NULL DEFAULT '', eaten_at TEXT NOT NULL);",
	"CREATE INDEX IF NOT EXISTS idx_meals_eaten_at ON meals(eaten_at);",
	"CREATE TABLE IF NOT EXISTS water_goals (day TEXT PRIMARY KEY, goal_ml INTEGER NOT NULL, base_ml INTEGER NOT NULL, drug_modifier_ml INTEGER NOT NULL, fasting_modifier_ml INTEGER NOT NULL, activity_modifier_ml INTEGER NOT NULL, weight_kg REAL NOT NULL, is_fasting INTEGER NOT NULL, elvanse_active INTEGER NOT NULL, steps INTEGER NOT NULL, computed_at TEXT NOT NULL);",
	"CREATE TABLE IF NOT EXISTS users (id INTEGER PRIMARY KEY AUTOINCREMENT, username TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, created_at TEXT NOT NULL);",
	"CREATE TABLE IF NOT EXISTS sessions (token TEXT PRIMARY KEY, user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE, user_agent TEXT NOT NULL DEFAULT '', expires_at TEXT NOT NULL, created_at TEXT NOT NULL);",
	"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
}

// q rewrites ? placeholders into the driver's syntax.
func (d *DB) q(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ts converts a timestamp into its stored form. Timestamps are stored in
// UTC.
func (d *DB) ts(t time.Time) any {
	t = t.UTC()
	if d.driver == DriverSQLite {
		return t.Format(sqliteTime)
	}
	return t
}

// timeCol scans a stored timestamp from either driver.
type timeCol struct{ t *time.Time }

func (c timeCol) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*c.t = v
	case string:
		return c.parse(v)
	case []byte:
		return c.parse(string(v))
	case nil:
		*c.t = time.Time{}
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

func (c timeCol) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	*c.t = t
	return nil
}
