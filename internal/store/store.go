// Package store persists rule records.
package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Flyrell/redday/internal/changelog"
	"github.com/Flyrell/redday/internal/rule"
)

// ErrNotFound is returned when no record has the requested key.
var ErrNotFound = errors.New("rule not found")

// ErrKeyCollision is returned when two rule keys map to the same file.
var ErrKeyCollision = errors.New("file name collides")

// Store is keyed record storage for rules.
type Store interface {
	Get(key rule.Key) (rule.Record, error)
	List() ([]rule.Record, error)
	ListByRegion(region string) ([]rule.Record, error)
	Put(rec rule.Record) error
	Delete(key rule.Key) error
	Close() error
}

// SeedMarker remembers the fingerprint of the catalog last merged into a
// store, so the merge can be skipped while the catalog is unchanged.
type SeedMarker interface {
	LastSeed() (string, error)
	MarkSeed(fingerprint string) error
}

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Open opens the store selected by driver inside the data directory dir.
// An empty driver selects the JSON store.
func Open(driver, dir string) (Store, error) {
	switch driver {
	case "", DriverJSON:
		return NewJSONStore(dir), nil
	case DriverSQLite:
		return OpenSQLite(SQLitePath(dir))
	}
	return nil, fmt.Errorf("unknown storage driver %q (valid: %s, %s)", driver, DriverJSON, DriverSQLite)
}

// ChangeBackend returns the change log backend that belongs with s: the
// SQLite store keeps changes in its own database, other stores use a JSON
// Lines file in dir.
func ChangeBackend(s Store, dir string) changelog.Backend {
	if db, ok := s.(*SQLite); ok {
		return db.ChangeBackend()
	}
	return changelog.NewFileBackend(changelog.Path(dir))
}

func notFound(key rule.Key) error {
	return fmt.Errorf("%w: %s", ErrNotFound, key)
}

func sortRecords(recs []rule.Record) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Region != recs[j].Region {
			return recs[i].Region < recs[j].Region
		}
		return recs[i].Name < recs[j].Name
	})
}
