package cache

import (
	"errors"
	"fmt"

	"github.com/Flyrell/redday/internal/changelog"
	"github.com/Flyrell/redday/internal/rule"
	"github.com/Flyrell/redday/internal/store"
)

var (
	// ErrExists is returned when creating or renaming onto a taken key.
	ErrExists = errors.New("rule already exists")
	// ErrNotInCatalog is returned when resetting a rule that has no
	// built-in default.
	ErrNotInCatalog = errors.New("rule has no catalog default")
)

// CreateRule stores a new user rule. rec must validate.
func (m *Manager) CreateRule(rec rule.Record, note string) (rule.Record, error) {
	if err := rule.Validate(rec); err != nil {
		return rule.Record{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.store.Get(rec.Key()); err == nil {
		return rule.Record{}, fmt.Errorf("%w: %s", ErrExists, rec.Key())
	} else if !errors.Is(err, store.ErrNotFound) {
		return rule.Record{}, err
	}

	rec = rec.Clone()
	rec.Provenance = rule.ProvenanceUserCreated
	rec.CreatedAt = m.now().UTC()
	rec.ModifiedAt = nil

	if err := m.store.Put(rec); err != nil {
		return rule.Record{}, err
	}
	m.changes.RecordCreated(rec, changelog.SourceUser, note)
	_ = m.rebuild()
	return rec, nil
}

// UpdateRule applies fn to the stored rule and saves the result. The rule
// becomes user-owned, so later catalog merges leave it alone. fn may rename
// the rule by changing its region or name.
func (m *Manager) UpdateRule(key rule.Key, fn func(*rule.Record) error, note string) (rule.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	before, err := m.store.Get(key)
	if err != nil {
		return rule.Record{}, err
	}

	after := before.Clone()
	if err := fn(&after); err != nil {
		return rule.Record{}, err
	}
	if err := rule.Validate(after); err != nil {
		return rule.Record{}, err
	}
	if changelog.Snapshot(before) == changelog.Snapshot(after) && before.Note == after.Note {
		return before, nil
	}

	renamed := after.Key() != key
	if renamed {
		if _, err := m.store.Get(after.Key()); err == nil {
			return rule.Record{}, fmt.Errorf("%w: %s", ErrExists, after.Key())
		} else if !errors.Is(err, store.ErrNotFound) {
			return rule.Record{}, err
		}
	}

	if after.Provenance != rule.ProvenanceUserCreated {
		after.Provenance = rule.ProvenanceUserModified
	}
	now := m.now().UTC()
	after.ModifiedAt = &now

	if err := m.store.Put(after); err != nil {
		return rule.Record{}, err
	}
	if renamed {
		if err := m.store.Delete(key); err != nil {
			return rule.Record{}, err
		}
	}
	m.changes.RecordModified(before, after, changelog.SourceUser, note)
	_ = m.rebuild()
	return after, nil
}

// DeleteRule removes a rule. A deleted catalog rule comes back the next time
// the catalog is merged; disable it instead to hide it for good.
func (m *Manager) DeleteRule(key rule.Key, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.store.Get(key)
	if err != nil {
		return err
	}
	if err := m.store.Delete(key); err != nil {
		return err
	}
	m.changes.RecordDeleted(rec, changelog.SourceUser, note)
	_ = m.rebuild()
	return nil
}

// SetEnabled switches a rule on or off. It reports whether anything changed.
func (m *Manager) SetEnabled(key rule.Key, enabled bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.store.Get(key)
	if err != nil {
		return false, err
	}
	if rec.Disabled == !enabled {
		return false, nil
	}

	rec.Disabled = !enabled
	if err := m.store.Put(rec); err != nil {
		return false, err
	}
	if enabled {
		m.changes.RecordEnabled(rec, changelog.SourceUser)
	} else {
		m.changes.RecordDisabled(rec, changelog.SourceUser)
	}
	_ = m.rebuild()
	return true, nil
}

// ResetRule restores a rule to its catalog definition and system
// provenance. A deleted catalog rule is restored as well.
func (m *Manager) ResetRule(key rule.Key, note string) (rule.Record, error) {
	def, ok := m.catalog.Lookup(key)
	if !ok {
		return rule.Record{}, fmt.Errorf("%w: %s", ErrNotInCatalog, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	before, err := m.store.Get(key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		before = rule.Record{Region: key.Region, Name: key.Name}
		def.CreatedAt = m.now().UTC()
	case err != nil:
		return rule.Record{}, err
	default:
		def.CreatedAt = before.CreatedAt
	}

	if err := m.store.Put(def); err != nil {
		return rule.Record{}, err
	}
	m.changes.RecordReset(before, def, changelog.SourceUser, note)
	_ = m.rebuild()
	return def, nil
}
