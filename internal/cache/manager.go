// Package cache evaluates stored rules over a window of years and publishes
// the result as an immutable Snapshot.
//
// A Manager has a single writer: seeding, edits and rebuilds are serialised
// by one mutex. Readers call Snapshot, which never blocks, and may keep the
// returned value for as long as they like.
package cache

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Flyrell/redday/internal/catalog"
	"github.com/Flyrell/redday/internal/changelog"
	"github.com/Flyrell/redday/internal/datecalc"
	"github.com/Flyrell/redday/internal/rule"
	"github.com/Flyrell/redday/internal/settings"
	"github.com/Flyrell/redday/internal/store"
)

// Options are the collaborators of a Manager. Store, Settings and Catalog
// are required.
type Options struct {
	Store    store.Store
	Settings settings.Source
	Catalog  *catalog.Catalog
	Changes  *changelog.Log
	Logger   *log.Logger
	Now      func() time.Time

	// Seeds, when set, lets Initialize skip the catalog merge while the
	// stored fingerprint matches the catalog.
	Seeds store.SeedMarker
}

// Manager owns the published snapshot and every write to rule storage.
type Manager struct {
	store    store.Store
	settings settings.Source
	catalog  *catalog.Catalog
	changes  *changelog.Log
	logger   *log.Logger
	now      func() time.Time
	seeds    store.SeedMarker

	mu        sync.Mutex
	focusYear *int
	current   atomic.Pointer[Snapshot]
}

// New builds a Manager with an empty snapshot. Call Initialize to seed and
// build the first real one.
func New(opts Options) (*Manager, error) {
	if opts.Store == nil || opts.Settings == nil || opts.Catalog == nil {
		return nil, errors.New("cache: store, settings and catalog are required")
	}

	m := &Manager{
		store:    opts.Store,
		settings: opts.Settings,
		catalog:  opts.Catalog,
		changes:  opts.Changes,
		logger:   opts.Logger,
		now:      opts.Now,
		seeds:    opts.Seeds,
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.changes == nil {
		m.changes = changelog.New(nopBackend{}, changelog.Options{Logger: m.logger, Now: m.now})
	}
	m.current.Store(emptySnapshot(m.now()))
	return m, nil
}

// Snapshot returns the currently published snapshot. It is never nil.
func (m *Manager) Snapshot() *Snapshot {
	return m.current.Load()
}

// Initialize merges the seed catalog into storage and rebuilds. With a seed
// marker the merge only runs when the catalog differs from the last one
// merged.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.needsSeed() {
		m.seed()
		if m.seeds != nil {
			if err := m.seeds.MarkSeed(m.catalog.Fingerprint); err != nil {
				m.logger.Error("failed to record catalog seed", "err", err)
			}
		}
	}
	return m.rebuild()
}

func (m *Manager) needsSeed() bool {
	if m.seeds == nil {
		return true
	}
	last, err := m.seeds.LastSeed()
	if err != nil {
		m.logger.Warn("failed to read catalog seed mark", "err", err)
		return true
	}
	return last != m.catalog.Fingerprint
}

// RebuildOption adjusts a single Rebuild call.
type RebuildOption func(*rebuildConfig)

type rebuildConfig struct {
	focusYear *int
}

// WithFocusYear extends the window to cover span years around year, in
// addition to the years around today.
func WithFocusYear(year int) RebuildOption {
	return func(c *rebuildConfig) {
		c.focusYear = &year
	}
}

// Rebuild evaluates every active rule and publishes a new snapshot. On
// failure the error is logged and returned, and the previous snapshot stays
// published.
func (m *Manager) Rebuild(opts ...RebuildOption) error {
	var cfg rebuildConfig
	for _, o := range opts {
		o(&cfg)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.focusYear = cfg.focusYear
	return m.rebuild()
}

// rebuild must be called with m.mu held.
func (m *Manager) rebuild() error {
	s, err := m.settings.Load()
	if err != nil {
		m.logger.Error("failed to read settings, keeping previous cache", "err", err)
		return fmt.Errorf("failed to read settings: %w", err)
	}

	if !s.HolidaysVisible() {
		m.current.Store(emptySnapshot(m.now()))
		m.logger.Debug("holidays hidden, published empty cache")
		return nil
	}

	recs, err := m.store.List()
	if err != nil {
		m.logger.Error("failed to read rules, keeping previous cache", "err", err)
		return fmt.Errorf("failed to read rules: %w", err)
	}

	regions := s.SelectedRegions()
	years := yearWindow(m.now().Year(), s.Span(), m.focusYear)
	snap := &Snapshot{
		days:    make(map[datecalc.Day][]Occurrence),
		years:   years,
		regions: regions,
		builtAt: m.now(),
	}

	for _, rec := range recs {
		if rec.Disabled || !selected(rec.Region, regions) {
			continue
		}
		r, err := rule.Parse(rec)
		if err != nil {
			m.logger.Warn("rule failed validation", "rule", rec.Key(), "err", err)
		}
		occ := Occurrence{
			Key:         r.Key,
			Region:      rec.Region,
			Name:        rec.Name,
			Title:       rec.Title,
			BankHoliday: rec.BankHoliday,
			Icon:        resolveIcon(r),
			IconColor:   rec.IconColor,
		}
		for _, year := range years {
			d, ok := datecalc.Calculate(r, year)
			if !ok {
				continue
			}
			snap.days[d] = append(snap.days[d], occ)
		}
	}

	order := newOrdering(s.Locale)
	for d := range snap.days {
		order.sort(snap.days[d])
	}

	m.current.Store(snap)
	m.logger.Debug("cache rebuilt", "regions", regions, "years", len(years), "occurrences", snap.Len())
	return nil
}

// yearWindow returns [now-span, now+span] joined with [focus-span,
// focus+span], ascending and without duplicates.
func yearWindow(now, span int, focus *int) []int {
	set := make(map[int]bool)
	for y := now - span; y <= now+span; y++ {
		set[y] = true
	}
	if focus != nil {
		for y := *focus - span; y <= *focus+span; y++ {
			set[y] = true
		}
	}

	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func selected(region string, regions []string) bool {
	if region == "" {
		return true
	}
	for _, r := range regions {
		if r == region {
			return true
		}
	}
	return false
}

// ordering sorts a bucket: bank holidays first, then display names compared
// case-insensitively under the locale's collation, then keys.
type ordering struct {
	collator *collate.Collator
}

func newOrdering(locale string) ordering {
	tag := language.Und
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	return ordering{collator: collate.New(tag, collate.IgnoreCase)}
}

func (o ordering) sort(occ []Occurrence) {
	sort.SliceStable(occ, func(i, j int) bool {
		a, b := occ[i], occ[j]
		if a.BankHoliday != b.BankHoliday {
			return a.BankHoliday
		}
		if c := o.collator.CompareString(a.DisplayName(), b.DisplayName()); c != 0 {
			return c < 0
		}
		return a.Key.String() < b.Key.String()
	})
}

type nopBackend struct{}

func (nopBackend) Append(changelog.Entry) error      { return nil }
func (nopBackend) Load() ([]changelog.Entry, error) { return nil, nil }
