package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flyrell/redday/internal/changelog"
	"github.com/Flyrell/redday/internal/rule"
)

func julafton() rule.Record {
	return rule.Record{
		Region: "SE", Name: "holiday.julafton", Type: rule.KindFixed,
		Month: rule.Int(12), Day: rule.Int(24), Provenance: rule.ProvenanceSystem,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func backends(t *testing.T) map[string]func(dir string) Store {
	return map[string]func(dir string) Store{
		DriverJSON: func(dir string) Store { return NewJSONStore(dir) },
		DriverSQLite: func(dir string) Store {
			s, err := OpenSQLite(SQLitePath(dir))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t.TempDir())
			defer func() { _ = s.Close() }()

			_, err := s.Get(julafton().Key())
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put(julafton()))
			got, err := s.Get(julafton().Key())
			require.NoError(t, err)
			assert.Equal(t, julafton(), got)

			updated := julafton()
			updated.Title = "Christmas Eve"
			updated.Provenance = rule.ProvenanceUserModified
			require.NoError(t, s.Put(updated))

			got, err = s.Get(updated.Key())
			require.NoError(t, err)
			assert.Equal(t, "Christmas Eve", got.Title)
			assert.Equal(t, rule.ProvenanceUserModified, got.Provenance)

			require.NoError(t, s.Delete(updated.Key()))
			_, err = s.Get(updated.Key())
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Delete(updated.Key()), ErrNotFound)
		})
	}
}

func TestStoreListing(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t.TempDir())
			defer func() { _ = s.Close() }()

			season := rule.Record{Name: "season.winter_solstice", Type: rule.KindAstronomical, Month: rule.Int(12)}
			thanks := rule.Record{Region: "US", Name: "holiday.thanksgiving", Type: rule.KindNthWeekday,
				Month: rule.Int(11), Weekday: rule.Int(5), Ordinal: rule.Int(4)}
			nyar := rule.Record{Region: "SE", Name: "holiday.nyarsdagen", Type: rule.KindFixed, Month: rule.Int(1), Day: rule.Int(1)}

			for _, r := range []rule.Record{thanks, julafton(), season, nyar} {
				require.NoError(t, s.Put(r))
			}

			all, err := s.List()
			require.NoError(t, err)
			var keys []string
			for _, r := range all {
				keys = append(keys, r.Key().String())
			}
			assert.Equal(t, []string{
				"season.winter_solstice",
				"SE/holiday.julafton",
				"SE/holiday.nyarsdagen",
				"US/holiday.thanksgiving",
			}, keys)

			se, err := s.ListByRegion("SE")
			require.NoError(t, err)
			assert.Len(t, se, 2)

			global, err := s.ListByRegion("")
			require.NoError(t, err)
			require.Len(t, global, 1)
			assert.Equal(t, "season.winter_solstice", global[0].Name)

			none, err := s.ListByRegion("XX")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			s := open(dir)
			require.NoError(t, s.Put(julafton()))
			require.NoError(t, s.Close())

			s = open(dir)
			defer func() { _ = s.Close() }()
			got, err := s.Get(julafton().Key())
			require.NoError(t, err)
			assert.Equal(t, "holiday.julafton", got.Name)
		})
	}
}

func TestStoreRejectsEmptyName(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t.TempDir())
			defer func() { _ = s.Close() }()
			assert.Error(t, s.Put(rule.Record{Region: "SE"}))
		})
	}
}

func TestJSONStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONStore(dir)
	require.NoError(t, s.Put(julafton()))

	path := s.RecordPath(julafton().Key())
	assert.Equal(t, filepath.Join(dir, "rules", "SE"), filepath.Dir(path))
	assert.FileExists(t, path)

	global := rule.Key{Name: "season.spring_equinox"}
	assert.Equal(t, filepath.Join(dir, "rules", "global"), filepath.Dir(s.RecordPath(global)))
}

func TestJSONStoreSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONStore(dir)
	require.NoError(t, s.Put(julafton()))

	regionDir := filepath.Join(dir, "rules", "SE")
	require.NoError(t, os.WriteFile(filepath.Join(regionDir, "broken.json"), []byte("{not json"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(regionDir, "notes.txt"), []byte("hello"), 0644))

	recs, err := s.List()
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestJSONStorePutRefusesCollidingFile(t *testing.T) {
	s := NewJSONStore(t.TempDir())
	path := s.RecordPath(julafton().Key())

	// Another rule already lives at the file julafton hashes to.
	other := julafton()
	other.Name = "holiday.juldagen"
	data, err := json.Marshal(other)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))

	assert.ErrorIs(t, s.Put(julafton()), ErrKeyCollision)

	kept, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, kept)
}

func TestJSONStoreRejectsPathRegions(t *testing.T) {
	s := NewJSONStore(t.TempDir())
	rec := julafton()
	rec.Region = "../SE"
	assert.Error(t, s.Put(rec))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("", dir)
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, s)
	assert.IsType(t, &changelog.FileBackend{}, ChangeBackend(s, dir))

	s, err = Open(DriverSQLite, dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	assert.IsType(t, &SQLite{}, s)
	assert.IsType(t, sqliteChanges{}, ChangeBackend(s, dir))
	assert.FileExists(t, SQLitePath(dir))

	_, err = Open("postgres", dir)
	assert.Error(t, err)
}

func TestSQLiteChangeBackend(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenSQLite(SQLitePath(dir))
	require.NoError(t, err)

	log := changelog.New(s.ChangeBackend(), changelog.Options{})
	log.RecordCreated(julafton(), changelog.SourceSystem, "")
	log.RecordDisabled(julafton(), changelog.SourceUser)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(SQLitePath(dir))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	all, err := changelog.New(s.ChangeBackend(), changelog.Options{}).All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, changelog.ActionDisabled, all[0].Action)
	assert.Equal(t, "holiday.julafton", all[1].RuleName)
}

func TestSQLiteChangesAreAppendOnly(t *testing.T) {
	s, err := OpenSQLite(SQLitePath(t.TempDir()))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	changelog.New(s.ChangeBackend(), changelog.Options{}).RecordCreated(julafton(), changelog.SourceSystem, "")

	_, err = s.db.Exec(`UPDATE changes SET region = 'NO'`)
	assert.ErrorContains(t, err, "append-only")

	_, err = s.db.Exec(`DELETE FROM changes`)
	assert.ErrorContains(t, err, "append-only")
}

func TestSeedMarker(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			s := open(dir)
			marker, ok := s.(SeedMarker)
			require.True(t, ok)

			last, err := marker.LastSeed()
			require.NoError(t, err)
			assert.Empty(t, last)

			require.NoError(t, marker.MarkSeed("abc"))
			require.NoError(t, marker.MarkSeed("def"))
			require.NoError(t, s.Close())

			reopened := open(dir)
			defer func() { _ = reopened.Close() }()
			last, err = reopened.(SeedMarker).LastSeed()
			require.NoError(t, err)
			assert.Equal(t, "def", last)

			recs, err := reopened.List()
			require.NoError(t, err)
			assert.Empty(t, recs)
		})
	}
}
