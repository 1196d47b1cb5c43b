package cache

import (
	"errors"
	"strings"

	"github.com/Flyrell/redday/internal/catalog"
	"github.com/Flyrell/redday/internal/changelog"
	"github.com/Flyrell/redday/internal/rule"
	"github.com/Flyrell/redday/internal/store"
)

// Seed runs the catalog migrations and merge without rebuilding.
func (m *Manager) Seed() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seed()
}

// seed must be called with m.mu held. Storage failures skip the affected
// step and are logged.
func (m *Manager) seed() {
	for _, mig := range m.catalog.Migrations() {
		m.migrate(mig)
	}

	type counts struct{ created, updated int }
	perRegion := make(map[string]*counts)
	var order []string

	for _, def := range m.catalog.Rules() {
		c, ok := perRegion[def.Region]
		if !ok {
			c = &counts{}
			perRegion[def.Region] = c
			order = append(order, def.Region)
		}

		existing, err := m.store.Get(def.Key())
		switch {
		case errors.Is(err, store.ErrNotFound):
			def.CreatedAt = m.now().UTC()
			if err := m.store.Put(def); err != nil {
				m.logger.Error("failed to seed rule", "rule", def.Key(), "err", err)
				continue
			}
			m.changes.RecordCreated(def, changelog.SourceSystem, "")
			c.created++

		case err != nil:
			m.logger.Error("failed to read rule, skipping seed", "rule", def.Key(), "err", err)

		case existing.Provenance.UserOwned():
			// User edits always win.

		case !existing.SameDateFields(def):
			updated := existing.Clone()
			updated.CopyDateFields(def)
			if err := m.store.Put(updated); err != nil {
				m.logger.Error("failed to update rule", "rule", def.Key(), "err", err)
				continue
			}
			m.changes.RecordModified(existing, updated, changelog.SourceSystem, "catalog defaults changed")
			c.updated++
		}
	}

	for _, region := range order {
		c := perRegion[region]
		if c.created == 0 && c.updated == 0 {
			continue
		}
		m.changes.RecordDefaultsLoaded(region, c.created, c.updated, m.catalog.Version, m.catalog.Fingerprint)
		m.logger.Info("loaded catalog defaults", "region", region, "created", c.created, "updated", c.updated)
	}
}

// migrate moves a rule stored under a legacy name to its namespaced key.
// When both exist, blank display fields of the new rule are filled from the
// old one and user ownership carries over; the old rule is then removed.
func (m *Manager) migrate(mig catalog.Migration) {
	old, err := m.store.Get(mig.FromKey())
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		m.logger.Error("failed to read legacy rule", "rule", mig.FromKey(), "err", err)
		return
	}

	target, err := m.store.Get(mig.ToKey())
	merged := err == nil
	switch {
	case merged:
		target = mergeDisplay(target, old)
	case errors.Is(err, store.ErrNotFound):
		target = old.Clone()
		target.Name = mig.To
	default:
		m.logger.Error("failed to read migration target", "rule", mig.ToKey(), "err", err)
		return
	}

	if err := m.store.Put(target); err != nil {
		m.logger.Error("failed to write migrated rule", "rule", mig.ToKey(), "err", err)
		return
	}
	if err := m.store.Delete(mig.FromKey()); err != nil {
		m.logger.Error("failed to remove legacy rule", "rule", mig.FromKey(), "err", err)
	}

	m.changes.RecordMigrated(mig.FromKey(), old, target, merged)
	m.logger.Info("migrated legacy rule", "from", mig.FromKey(), "to", mig.ToKey(), "merged", merged)
}

// mergeDisplay fills blank display fields of into from from and carries
// over user ownership. Computed fields of into are left alone.
func mergeDisplay(into, from rule.Record) rule.Record {
	out := into.Clone()
	if blank(out.Title) {
		out.Title = from.Title
	}
	if blank(out.Icon) {
		out.Icon = from.Icon
	}
	if blank(out.IconColor) {
		out.IconColor = from.IconColor
	}
	if from.Provenance.UserOwned() && !out.Provenance.UserOwned() {
		out.Provenance = from.Provenance
		out.ModifiedAt = from.Clone().ModifiedAt
	}
	return out
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
