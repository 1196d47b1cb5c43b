package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/Flyrell/redday/internal/changelog"
	"github.com/Flyrell/redday/internal/rule"
)

const schema = `
CREATE TABLE IF NOT EXISTS rules (
	region TEXT NOT NULL,
	name   TEXT NOT NULL,
	data   TEXT NOT NULL,
	PRIMARY KEY (region, name)
);

CREATE TABLE IF NOT EXISTS changes (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	id        TEXT NOT NULL UNIQUE,
	ts        INTEGER NOT NULL,
	region    TEXT NOT NULL,
	rule_name TEXT NOT NULL,
	data      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_changes_rule ON changes (region, rule_name);

CREATE TRIGGER IF NOT EXISTS changes_no_update BEFORE UPDATE ON changes
BEGIN
	SELECT RAISE(ABORT, 'change log is append-only');
END;

CREATE TRIGGER IF NOT EXISTS changes_no_delete BEFORE DELETE ON changes
BEGIN
	SELECT RAISE(ABORT, 'change log is append-only');
END;
`

// SQLite stores rules and the change log in one database file.
type SQLite struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLitePath returns the database location inside a data directory.
func SQLitePath(dir string) string {
	return filepath.Join(dir, "redday.db")
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get reads a single rule.
func (s *SQLite) Get(key rule.Key) (rule.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRow(`SELECT data FROM rules WHERE region = ? AND name = ?`, key.Region, key.Name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return rule.Record{}, notFound(key)
	}
	if err != nil {
		return rule.Record{}, err
	}

	var rec rule.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return rule.Record{}, fmt.Errorf("rule %s: %w", key, err)
	}
	return rec, nil
}

// List reads every rule, sorted by region then name.
func (s *SQLite) List() ([]rule.Record, error) {
	return s.query(`SELECT data FROM rules ORDER BY region, name`)
}

// ListByRegion reads the rules of one region ("" for global rules).
func (s *SQLite) ListByRegion(region string) ([]rule.Record, error) {
	return s.query(`SELECT data FROM rules WHERE region = ? ORDER BY name`, region)
}

func (s *SQLite) query(q string, args ...any) ([]rule.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var recs []rule.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var rec rule.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Put inserts or replaces rec.
func (s *SQLite) Put(rec rule.Record) error {
	if strings.TrimSpace(rec.Name) == "" {
		return fmt.Errorf("rule name is required")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT INTO rules (region, name, data) VALUES (?, ?, ?)
		ON CONFLICT (region, name) DO UPDATE SET data = excluded.data`,
		rec.Region, rec.Name, string(data))
	if err != nil {
		return fmt.Errorf("failed to save rule %s: %w", rec.Key(), err)
	}
	return nil
}

// Delete removes the rule with key.
func (s *SQLite) Delete(key rule.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM rules WHERE region = ? AND name = ?`, key.Region, key.Name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(key)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ChangeBackend returns a change log backend stored in the same database.
func (s *SQLite) ChangeBackend() changelog.Backend {
	return sqliteChanges{s}
}

// LastSeed implements SeedMarker.
func (s *SQLite) LastSeed() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var v string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'catalog_seed'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

// MarkSeed implements SeedMarker.
func (s *SQLite) MarkSeed(fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO meta (key, value) VALUES ('catalog_seed', ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, fingerprint)
	return err
}

type sqliteChanges struct {
	s *SQLite
}

func (c sqliteChanges) Append(e changelog.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	_, err = c.s.db.Exec(`INSERT INTO changes (id, ts, region, rule_name, data) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.UnixNano(), e.Region, e.RuleName, string(data))
	if err != nil {
		return fmt.Errorf("failed to append change: %w", err)
	}
	return nil
}

func (c sqliteChanges) Load() ([]changelog.Entry, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	rows, err := c.s.db.Query(`SELECT data FROM changes ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []changelog.Entry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var e changelog.Entry
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
