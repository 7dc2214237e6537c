// Package store persists per-report column preferences.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// Prefs loads and saves column preferences keyed by report.
type Prefs interface {
	// Get returns the report's preferences; unknown reports yield empty prefs.
	Get(ctx context.Context, report string) (models.ColumnPrefs, error)
	// Set replaces the report's preferences.
	Set(ctx context.Context, report string, prefs models.ColumnPrefs) error
	// Reports lists the reports with stored preferences.
	Reports(ctx context.Context) ([]string, error)
	Close() error
}

// ErrEmptyReport indicates a missing report name.
var ErrEmptyReport = errors.New("report name is empty")

const prefsSchema = `
CREATE TABLE IF NOT EXISTS column_prefs (
    report TEXT PRIMARY KEY,
    prefs TEXT NOT NULL,        -- JSON encoded ColumnPrefs
    updated_at INTEGER NOT NULL -- UnixNano
);
`

// SQLitePrefs implements Prefs on a SQLite database.
type SQLitePrefs struct {
	db  *sql.DB
	log zerolog.Logger
	mu  sync.Mutex
}

// OpenSQLite opens or creates the preference database at path.
// ":memory:" opens a private in-memory database.
func OpenSQLite(path string, log zerolog.Logger) (*SQLitePrefs, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create prefs directory: %w", err)
		}
		dsn = path +
			"?_pragma=journal_mode(WAL)" +
			"&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open prefs database: %w", err)
	}
	// An in-memory database lives on a single connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect prefs database: %w", err)
	}
	if _, err := db.Exec(prefsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create prefs schema: %w", err)
	}
	return &SQLitePrefs{db: db, log: log}, nil
}

// Get implements Prefs.
func (s *SQLitePrefs) Get(ctx context.Context, report string) (models.ColumnPrefs, error) {
	if report == "" {
		return models.ColumnPrefs{}, ErrEmptyReport
	}
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT prefs FROM column_prefs WHERE report = ?`, report).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ColumnPrefs{}, nil
	}
	if err != nil {
		return models.ColumnPrefs{}, fmt.Errorf("query prefs for %s: %w", report, err)
	}

	var prefs models.ColumnPrefs
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		s.log.Warn().Err(err).Str("report", report).Msg("corrupt column prefs; ignoring")
		return models.ColumnPrefs{}, nil
	}
	return prefs, nil
}

// Set implements Prefs. Keys are de-duplicated and sorted before storing.
func (s *SQLitePrefs) Set(ctx context.Context, report string, prefs models.ColumnPrefs) error {
	if report == "" {
		return ErrEmptyReport
	}
	prefs.Frozen = normalize(prefs.Frozen)
	prefs.TreatAsText = normalize(prefs.TreatAsText)
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO column_prefs (report, prefs, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(report) DO UPDATE SET prefs = excluded.prefs, updated_at = excluded.updated_at`,
		report, string(data), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("store prefs for %s: %w", report, err)
	}
	s.log.Debug().Str("report", report).Msg("column prefs saved")
	return nil
}

// Reports implements Prefs.
func (s *SQLitePrefs) Reports(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT report FROM column_prefs ORDER BY report`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close implements Prefs.
func (s *SQLitePrefs) Close() error {
	return s.db.Close()
}

func normalize(keys []string) []string {
	if len(keys) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
