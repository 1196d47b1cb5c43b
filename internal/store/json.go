package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Flyrell/redday/internal/hashutil"
	"github.com/Flyrell/redday/internal/rule"
)

const globalDir = "global"

// JSONStore keeps one JSON file per rule under <dir>/rules/<region>/.
type JSONStore struct {
	dir string
}

// NewJSONStore returns a store rooted at the data directory dir.
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

// RulesDir returns the directory holding every region's rule files.
func (s *JSONStore) RulesDir() string {
	return filepath.Join(s.dir, "rules")
}

func (s *JSONStore) regionDir(region string) string {
	if region == "" {
		return filepath.Join(s.RulesDir(), globalDir)
	}
	return filepath.Join(s.RulesDir(), region)
}

// RecordPath returns the file path of the rule with key.
func (s *JSONStore) RecordPath(key rule.Key) string {
	return filepath.Join(s.regionDir(key.Region), hashutil.IDFromSeed(key.String())+".json")
}

// Get reads a single rule.
func (s *JSONStore) Get(key rule.Key) (rule.Record, error) {
	data, err := os.ReadFile(s.RecordPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return rule.Record{}, notFound(key)
	}
	if err != nil {
		return rule.Record{}, err
	}

	var rec rule.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return rule.Record{}, fmt.Errorf("rule %s: %w", key, err)
	}
	// A hash collision would return another rule's file.
	if rec.Key() != key {
		return rule.Record{}, notFound(key)
	}
	return rec, nil
}

// List reads every rule, sorted by region then name.
func (s *JSONStore) List() ([]rule.Record, error) {
	dirs, err := os.ReadDir(s.RulesDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var recs []rule.Record
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		region := d.Name()
		if region == globalDir {
			region = ""
		}
		part, err := s.readRegion(region)
		if err != nil {
			return nil, err
		}
		recs = append(recs, part...)
	}
	sortRecords(recs)
	return recs, nil
}

// ListByRegion reads the rules of one region ("" for global rules).
func (s *JSONStore) ListByRegion(region string) ([]rule.Record, error) {
	recs, err := s.readRegion(region)
	if err != nil {
		return nil, err
	}
	sortRecords(recs)
	return recs, nil
}

func (s *JSONStore) readRegion(region string) ([]rule.Record, error) {
	dir := s.regionDir(region)
	files, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var recs []rule.Record
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return nil, err
		}

		// Corrupt or partial files shouldn't block reading valid rules.
		var rec rule.Record
		if err := json.Unmarshal(data, &rec); err != nil || rec.Name == "" || rec.Region != region {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Put writes rec, replacing any rule with the same key. The file is written
// to a temporary name first and renamed into place.
func (s *JSONStore) Put(rec rule.Record) error {
	if strings.TrimSpace(rec.Name) == "" {
		return fmt.Errorf("rule name is required")
	}
	if strings.ContainsAny(rec.Region, `/\.`) {
		return fmt.Errorf("invalid region %q", rec.Region)
	}

	dir := s.regionDir(rec.Region)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	path := s.RecordPath(rec.Key())
	if err := checkOwner(path, rec.Key()); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// checkOwner refuses to overwrite a file that holds a different rule.
func checkOwner(path string, key rule.Key) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var existing rule.Record
	if json.Unmarshal(data, &existing) != nil || existing.Name == "" {
		return nil
	}
	if existing.Key() != key {
		return fmt.Errorf("rule %s: %w with %s", key, ErrKeyCollision, existing.Key())
	}
	return nil
}

// Delete removes the rule with key.
func (s *JSONStore) Delete(key rule.Key) error {
	if _, err := s.Get(key); err != nil {
		return err
	}
	return os.Remove(s.RecordPath(key))
}

// Close is a no-op.
func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) seedPath() string {
	return filepath.Join(s.RulesDir(), ".seed")
}

// LastSeed implements SeedMarker.
func (s *JSONStore) LastSeed() (string, error) {
	data, err := os.ReadFile(s.seedPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// MarkSeed implements SeedMarker.
func (s *JSONStore) MarkSeed(fingerprint string) error {
	if err := os.MkdirAll(s.RulesDir(), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.seedPath(), []byte(fingerprint+"\n"), 0644)
}
