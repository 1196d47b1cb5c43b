package rule

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects the date-calculation strategy of a rule.
type Kind string

const (
	KindFixed          Kind = "fixed"
	KindEasterRelative Kind = "easter_relative"
	KindFloating       Kind = "floating"
	KindNthWeekday     Kind = "nth_weekday"
	KindLunar          Kind = "lunar"
	KindAstronomical   Kind = "astronomical"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{
	KindFixed,
	KindEasterRelative,
	KindFloating,
	KindNthWeekday,
	KindLunar,
	KindAstronomical,
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Provenance records who owns a rule's date fields.
type Provenance string

const (
	ProvenanceSystem       Provenance = "system"
	ProvenanceUserModified Provenance = "user_modified"
	ProvenanceUserCreated  Provenance = "user_created"
)

// UserOwned reports whether automated reseeding must leave the rule's
// computed fields alone.
func (p Provenance) UserOwned() bool {
	return p == ProvenanceUserModified || p == ProvenanceUserCreated
}

// Category is an explicit icon/grouping tag. Rules without one fall back to
// keyword matching on their name.
type Category string

const (
	CategoryNone        Category = ""
	CategoryNational    Category = "national"
	CategoryReligious   Category = "religious"
	CategoryChristmas   Category = "christmas"
	CategoryEaster      Category = "easter"
	CategoryNewYear     Category = "new_year"
	CategoryFamily      Category = "family"
	CategorySeason      Category = "season"
	CategoryLabor       Category = "labor"
	CategoryRemembrance Category = "remembrance"
	CategoryLunar       Category = "lunar"
)

// Key is the identity of a rule: region code plus semantic name.
type Key struct {
	Region string
	Name   string
}

// String returns "name" for global rules and "region/name" otherwise.
func (k Key) String() string {
	if k.Region == "" {
		return k.Name
	}
	return k.Region + "/" + k.Name
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Key{}, fmt.Errorf("empty rule id")
	}
	region, name, found := strings.Cut(s, "/")
	if !found {
		return Key{Name: s}, nil
	}
	if name == "" {
		return Key{}, fmt.Errorf("invalid rule id %q: missing name", s)
	}
	return Key{Region: strings.ToUpper(region), Name: name}, nil
}

// Record is the storable form of a rule: every type-specific parameter is an
// optional field and which ones matter depends on Type.
type Record struct {
	Region      string `json:"region"`
	Name        string `json:"name"`
	Type        Kind   `json:"type"`
	BankHoliday bool   `json:"bank_holiday"`

	Month         *int `json:"month,omitempty" validate:"omitnil,min=1,max=12"`
	Day           *int `json:"day,omitempty" validate:"omitnil,min=1,max=31"`
	DaysOffset    *int `json:"days_offset,omitempty"`
	Weekday       *int `json:"weekday,omitempty" validate:"omitnil,min=1,max=7"`
	Ordinal       *int `json:"ordinal,omitempty" validate:"omitnil,oneof=-1 1 2 3 4"`
	DayRangeStart *int `json:"day_range_start,omitempty" validate:"omitnil,min=1,max=31"`
	DayRangeEnd   *int `json:"day_range_end,omitempty" validate:"omitnil,min=1,max=37"`

	Title     string   `json:"title,omitempty"`
	Icon      string   `json:"icon,omitempty"`
	IconColor string   `json:"icon_color,omitempty"`
	Note      string   `json:"note,omitempty"`
	Category  Category `json:"category,omitempty"`

	Provenance Provenance `json:"provenance"`
	Disabled   bool       `json:"disabled,omitempty"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Key returns the record's identity.
func (r Record) Key() Key {
	return Key{Region: r.Region, Name: r.Name}
}

// DisplayName returns the title override if set, else the name.
func (r Record) DisplayName() string {
	if strings.TrimSpace(r.Title) != "" {
		return r.Title
	}
	return r.Name
}

// Clone returns a deep copy; the optional parameters are pointers and would
// otherwise be shared.
func (r Record) Clone() Record {
	c := r
	c.Month = cloneInt(r.Month)
	c.Day = cloneInt(r.Day)
	c.DaysOffset = cloneInt(r.DaysOffset)
	c.Weekday = cloneInt(r.Weekday)
	c.Ordinal = cloneInt(r.Ordinal)
	c.DayRangeStart = cloneInt(r.DayRangeStart)
	c.DayRangeEnd = cloneInt(r.DayRangeEnd)
	if r.ModifiedAt != nil {
		t := *r.ModifiedAt
		c.ModifiedAt = &t
	}
	return c
}

// SameDateFields reports whether two records agree on every computed field:
// type, bank-holiday flag and all date parameters.
func (r Record) SameDateFields(o Record) bool {
	return r.Type == o.Type &&
		r.BankHoliday == o.BankHoliday &&
		r.SameDateParams(o)
}

// SameDateParams compares only the date-defining parameters.
func (r Record) SameDateParams(o Record) bool {
	return equalInt(r.Month, o.Month) &&
		equalInt(r.Day, o.Day) &&
		equalInt(r.DaysOffset, o.DaysOffset) &&
		equalInt(r.Weekday, o.Weekday) &&
		equalInt(r.Ordinal, o.Ordinal) &&
		equalInt(r.DayRangeStart, o.DayRangeStart) &&
		equalInt(r.DayRangeEnd, o.DayRangeEnd)
}

// CopyDateFields overwrites r's computed fields with those of src.
func (r *Record) CopyDateFields(src Record) {
	r.Type = src.Type
	r.BankHoliday = src.BankHoliday
	r.Month = cloneInt(src.Month)
	r.Day = cloneInt(src.Day)
	r.DaysOffset = cloneInt(src.DaysOffset)
	r.Weekday = cloneInt(src.Weekday)
	r.Ordinal = cloneInt(src.Ordinal)
	r.DayRangeStart = cloneInt(src.DayRangeStart)
	r.DayRangeEnd = cloneInt(src.DayRangeEnd)
}

// Int returns a pointer to v, for building records.
func Int(v int) *int {
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
