// Package changelog is the append-only audit trail of rule mutations.
//
// Entries are created through one method per action on Log and are never
// updated or removed. Queries return copies.
package changelog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Flyrell/redday/internal/rule"
)

// Action is the kind of mutation an entry records.
type Action string

const (
	ActionCreated        Action = "created"
	ActionModified       Action = "modified"
	ActionDeleted        Action = "deleted"
	ActionEnabled        Action = "enabled"
	ActionDisabled       Action = "disabled"
	ActionReset          Action = "reset"
	ActionMigrated       Action = "migrated"
	ActionDefaultsLoaded Action = "defaults_loaded"
)

// Source says who caused a mutation.
type Source string

const (
	SourceUser    Source = "user"
	SourceSystem  Source = "system"
	SourceSync    Source = "sync"
	SourceRestore Source = "restore"
)

// Entry is one immutable change log record.
type Entry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Action       Action    `json:"action"`
	Source       Source    `json:"source"`
	Region       string    `json:"region"`
	RuleName     string    `json:"rule_name,omitempty"`
	NameSnapshot string    `json:"name_snapshot,omitempty"`
	Before       string    `json:"before,omitempty"`
	After        string    `json:"after,omitempty"`
	Description  string    `json:"description"`
	Note         string    `json:"note,omitempty"`
}

// Key returns the identity of the rule the entry is about.
func (e Entry) Key() rule.Key {
	return rule.Key{Region: e.Region, Name: e.RuleName}
}

// snapshot is the whitelist of record fields captured in Before/After.
// Field order here is the serialised order.
type snapshot struct {
	Region        string          `json:"region"`
	Name          string          `json:"name"`
	Type          rule.Kind       `json:"type"`
	BankHoliday   bool            `json:"bank_holiday"`
	Month         *int            `json:"month,omitempty"`
	Day           *int            `json:"day,omitempty"`
	DaysOffset    *int            `json:"days_offset,omitempty"`
	Weekday       *int            `json:"weekday,omitempty"`
	Ordinal       *int            `json:"ordinal,omitempty"`
	DayRangeStart *int            `json:"day_range_start,omitempty"`
	DayRangeEnd   *int            `json:"day_range_end,omitempty"`
	Title         string          `json:"title,omitempty"`
	Icon          string          `json:"icon,omitempty"`
	IconColor     string          `json:"icon_color,omitempty"`
	Category      rule.Category   `json:"category,omitempty"`
	Provenance    rule.Provenance `json:"provenance"`
	Disabled      bool            `json:"disabled"`
}

// Snapshot serialises the tracked fields of rec deterministically, so two
// snapshots of equal records are byte-identical.
func Snapshot(rec rule.Record) string {
	s := snapshot{
		Region:        rec.Region,
		Name:          rec.Name,
		Type:          rec.Type,
		BankHoliday:   rec.BankHoliday,
		Month:         rec.Month,
		Day:           rec.Day,
		DaysOffset:    rec.DaysOffset,
		Weekday:       rec.Weekday,
		Ordinal:       rec.Ordinal,
		DayRangeStart: rec.DayRangeStart,
		DayRangeEnd:   rec.DayRangeEnd,
		Title:         rec.Title,
		Icon:          rec.Icon,
		IconColor:     rec.IconColor,
		Category:      rec.Category,
		Provenance:    rec.Provenance,
		Disabled:      rec.Disabled,
	}
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}

// ParseSnapshot restores the tracked fields from a Snapshot string.
func ParseSnapshot(s string) (rule.Record, error) {
	var snap snapshot
	if err := json.Unmarshal([]byte(s), &snap); err != nil {
		return rule.Record{}, fmt.Errorf("invalid snapshot: %w", err)
	}
	return rule.Record{
		Region:        snap.Region,
		Name:          snap.Name,
		Type:          snap.Type,
		BankHoliday:   snap.BankHoliday,
		Month:         snap.Month,
		Day:           snap.Day,
		DaysOffset:    snap.DaysOffset,
		Weekday:       snap.Weekday,
		Ordinal:       snap.Ordinal,
		DayRangeStart: snap.DayRangeStart,
		DayRangeEnd:   snap.DayRangeEnd,
		Title:         snap.Title,
		Icon:          snap.Icon,
		IconColor:     snap.IconColor,
		Category:      snap.Category,
		Provenance:    snap.Provenance,
		Disabled:      snap.Disabled,
	}, nil
}

// Tracked fields reported by Compare.
const (
	FieldName        = "name"
	FieldBankHoliday = "bank holiday"
	FieldDate        = "date"
	FieldIcon        = "icon"
)

// Change is one field-level difference between two records.
type Change struct {
	Field  string
	Before string
	After  string
}

// Compare lists the tracked fields that differ between before and after.
// Date-defining parameters are compared as one group.
func Compare(before, after rule.Record) []Change {
	var changes []Change

	if before.DisplayName() != after.DisplayName() {
		changes = append(changes, Change{FieldName, before.DisplayName(), after.DisplayName()})
	}
	if before.BankHoliday != after.BankHoliday {
		changes = append(changes, Change{FieldBankHoliday, fmt.Sprint(before.BankHoliday), fmt.Sprint(after.BankHoliday)})
	}
	if before.Type != after.Type || !before.SameDateParams(after) {
		changes = append(changes, Change{FieldDate, rule.DescribeRecord(before), rule.DescribeRecord(after)})
	}
	if before.Icon != after.Icon || before.IconColor != after.IconColor || before.Category != after.Category {
		changes = append(changes, Change{FieldIcon, iconLabel(before), iconLabel(after)})
	}
	return changes
}

func iconLabel(rec rule.Record) string {
	parts := []string{}
	for _, p := range []string{rec.Icon, rec.IconColor, string(rec.Category)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "default"
	}
	return strings.Join(parts, " ")
}

func summarize(changes []Change) string {
	if len(changes) == 0 {
		return "no tracked fields changed"
	}
	fields := make([]string, len(changes))
	for i, c := range changes {
		fields[i] = c.Field
	}
	return "changed " + strings.Join(fields, ", ")
}
