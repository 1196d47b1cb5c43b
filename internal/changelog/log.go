package changelog

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Flyrell/redday/internal/rule"
)

// Backend persists entries. Implementations only ever append.
type Backend interface {
	Append(Entry) error
	Load() ([]Entry, error)
}

// Options configures a Log.
type Options struct {
	Logger *log.Logger
	Now    func() time.Time
}

// Log creates and queries change log entries.
type Log struct {
	backend Backend
	logger  *log.Logger
	now     func() time.Time

	mu   sync.Mutex
	last time.Time
}

// New returns a Log writing to backend.
func New(backend Backend, opts Options) *Log {
	l := &Log{backend: backend, logger: opts.Logger, now: opts.Now}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// RecordCreated records a new rule.
func (l *Log) RecordCreated(rec rule.Record, source Source, note string) Entry {
	return l.append(Entry{
		Action:      ActionCreated,
		Source:      source,
		After:       Snapshot(rec),
		Description: fmt.Sprintf("Created %s (%s)", rec.DisplayName(), rule.DescribeRecord(rec)),
		Note:        note,
	}, rec)
}

// RecordModified records an edit; the description lists the changed fields.
func (l *Log) RecordModified(before, after rule.Record, source Source, note string) Entry {
	return l.append(Entry{
		Action:      ActionModified,
		Source:      source,
		Before:      Snapshot(before),
		After:       Snapshot(after),
		Description: fmt.Sprintf("Modified %s: %s", before.DisplayName(), summarize(Compare(before, after))),
		Note:        note,
	}, after)
}

// RecordDeleted records a removed rule.
func (l *Log) RecordDeleted(rec rule.Record, source Source, note string) Entry {
	return l.append(Entry{
		Action:      ActionDeleted,
		Source:      source,
		Before:      Snapshot(rec),
		Description: fmt.Sprintf("Deleted %s", rec.DisplayName()),
		Note:        note,
	}, rec)
}

// RecordEnabled records a rule being switched back on.
func (l *Log) RecordEnabled(rec rule.Record, source Source) Entry {
	return l.append(Entry{
		Action:      ActionEnabled,
		Source:      source,
		After:       Snapshot(rec),
		Description: fmt.Sprintf("Enabled %s", rec.DisplayName()),
	}, rec)
}

// RecordDisabled records a rule being switched off.
func (l *Log) RecordDisabled(rec rule.Record, source Source) Entry {
	return l.append(Entry{
		Action:      ActionDisabled,
		Source:      source,
		After:       Snapshot(rec),
		Description: fmt.Sprintf("Disabled %s", rec.DisplayName()),
	}, rec)
}

// RecordReset records a rule restored to its catalog defaults.
func (l *Log) RecordReset(before, after rule.Record, source Source, note string) Entry {
	return l.append(Entry{
		Action:      ActionReset,
		Source:      source,
		Before:      Snapshot(before),
		After:       Snapshot(after),
		Description: fmt.Sprintf("Reset %s to defaults: %s", after.DisplayName(), summarize(Compare(before, after))),
		Note:        note,
	}, after)
}

// RecordMigrated records a legacy rule moved to a new key. merged is true
// when a rule already existed under the new key.
func (l *Log) RecordMigrated(from rule.Key, before, after rule.Record, merged bool) Entry {
	how := "renamed"
	if merged {
		how = "merged"
	}
	return l.append(Entry{
		Action:      ActionMigrated,
		Source:      SourceSystem,
		Before:      Snapshot(before),
		After:       Snapshot(after),
		Description: fmt.Sprintf("Migrated %s to %s (%s)", from, after.Key(), how),
	}, after)
}

// RecordDefaultsLoaded records a catalog merge for one region. It is not
// tied to a single rule.
func (l *Log) RecordDefaultsLoaded(region string, created, updated, version int, fingerprint string) Entry {
	scope := region
	if scope == "" {
		scope = "global"
	}
	return l.append(Entry{
		Action: ActionDefaultsLoaded,
		Source: SourceSystem,
		Region: region,
		Description: fmt.Sprintf("Loaded %s defaults v%d (%s): %d created, %d updated",
			scope, version, fingerprint, created, updated),
	}, rule.Record{Region: region})
}

func (l *Log) append(e Entry, rec rule.Record) Entry {
	e.Region = rec.Region
	e.RuleName = rec.Name
	if rec.Name != "" {
		e.NameSnapshot = rec.DisplayName()
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	e.ID = id.String()

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now().UTC()
	if !ts.After(l.last) {
		ts = l.last.Add(time.Nanosecond)
	}
	l.last = ts
	e.Timestamp = ts

	if err := l.backend.Append(e); err != nil {
		l.logger.Error("failed to write change log entry", "action", e.Action, "rule", e.Key(), "err", err)
	}
	return e
}

// All returns every entry, newest first.
func (l *Log) All() ([]Entry, error) {
	entries, err := l.backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read change log: %w", err)
	}

	// Later appends win ties.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// ByRegion returns the entries for one region, newest first.
func (l *Log) ByRegion(region string) ([]Entry, error) {
	return l.filter(func(e Entry) bool { return e.Region == region })
}

// ByRule returns the entries for one rule, newest first.
func (l *Log) ByRule(key rule.Key) ([]Entry, error) {
	return l.filter(func(e Entry) bool { return e.Key() == key })
}

// Recent returns at most n of the newest entries. n <= 0 returns all.
func (l *Log) Recent(n int) ([]Entry, error) {
	entries, err := l.All()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (l *Log) filter(keep func(Entry) bool) ([]Entry, error) {
	entries, err := l.All()
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}
