package rule

import (
	"fmt"
	"time"
)

// DateSpec is the parsed, type-specific date definition of a rule. Each
// variant carries exactly the parameters its strategy needs.
type DateSpec interface {
	Kind() Kind
	dateSpec()
}

// Fixed is the same calendar date every year.
type Fixed struct {
	Month time.Month
	Day   int
}

// EasterRelative is Easter Sunday plus Offset days (negative for before).
type EasterRelative struct {
	Offset int
}

// Floating is the first Weekday between RangeStart and RangeEnd of Month.
type Floating struct {
	Month      time.Month
	Weekday    time.Weekday
	RangeStart int
	RangeEnd   int
}

// NthWeekday is the Ordinal-th Weekday of Month; Ordinal -1 means the last.
type NthWeekday struct {
	Month   time.Month
	Weekday time.Weekday
	Ordinal int
}

// Lunar is a month/day of the Chinese lunisolar calendar.
type Lunar struct {
	Month int
	Day   int
}

// Season identifies an equinox or solstice by the month it falls in.
type Season int

const (
	SpringEquinox  Season = 3
	SummerSolstice Season = 6
	AutumnEquinox  Season = 9
	WinterSolstice Season = 12
)

// Valid reports whether s is one of the four supported events.
func (s Season) Valid() bool {
	switch s {
	case SpringEquinox, SummerSolstice, AutumnEquinox, WinterSolstice:
		return true
	}
	return false
}

func (s Season) String() string {
	switch s {
	case SpringEquinox:
		return "spring equinox"
	case SummerSolstice:
		return "summer solstice"
	case AutumnEquinox:
		return "autumn equinox"
	case WinterSolstice:
		return "winter solstice"
	}
	return fmt.Sprintf("season(%d)", int(s))
}

// Astronomical is an approximated equinox or solstice.
type Astronomical struct {
	Event Season
}

func (Fixed) Kind() Kind          { return KindFixed }
func (EasterRelative) Kind() Kind { return KindEasterRelative }
func (Floating) Kind() Kind       { return KindFloating }
func (NthWeekday) Kind() Kind     { return KindNthWeekday }
func (Lunar) Kind() Kind          { return KindLunar }
func (Astronomical) Kind() Kind   { return KindAstronomical }

func (Fixed) dateSpec()          {}
func (EasterRelative) dateSpec() {}
func (Floating) dateSpec()       {}
func (NthWeekday) dateSpec()     {}
func (Lunar) dateSpec()          {}
func (Astronomical) dateSpec()   {}

// Rule is the parsed form of a Record. Date is nil when the record lacks the
// parameters its type requires; such a rule never produces an occurrence.
type Rule struct {
	Key         Key
	BankHoliday bool
	Date        DateSpec
	Title       string
	Icon        string
	IconColor   string
	Category    Category
	Provenance  Provenance
	Disabled    bool
}

// DisplayName returns the title override if set, else the name.
func (r Rule) DisplayName() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Key.Name
}

// Parse converts a storable record into a Rule. It always returns a usable
// Rule; the error, if any, is the advisory validation result and callers are
// expected to log it rather than drop the rule.
func Parse(rec Record) (Rule, error) {
	r := Rule{
		Key:         rec.Key(),
		BankHoliday: rec.BankHoliday,
		Title:       rec.Title,
		Icon:        rec.Icon,
		IconColor:   rec.IconColor,
		Category:    rec.Category,
		Provenance:  rec.Provenance,
		Disabled:    rec.Disabled,
	}
	if r.Provenance == "" {
		r.Provenance = ProvenanceSystem
	}

	err := Validate(rec)
	r.Date = specFromRecord(rec)
	return r, err
}

// specFromRecord builds the DateSpec variant for rec.Type, or nil when a
// required parameter is absent. Range checks are left to Validate and the
// evaluator, which reject out-of-range values by producing no occurrence.
func specFromRecord(rec Record) DateSpec {
	switch rec.Type {
	case KindFixed:
		if rec.Month == nil || rec.Day == nil {
			return nil
		}
		return Fixed{Month: time.Month(*rec.Month), Day: *rec.Day}
	case KindEasterRelative:
		if rec.DaysOffset == nil {
			return nil
		}
		return EasterRelative{Offset: *rec.DaysOffset}
	case KindFloating:
		if rec.Month == nil || rec.Weekday == nil || rec.DayRangeStart == nil || rec.DayRangeEnd == nil {
			return nil
		}
		return Floating{
			Month:      time.Month(*rec.Month),
			Weekday:    time.Weekday(*rec.Weekday - 1),
			RangeStart: *rec.DayRangeStart,
			RangeEnd:   *rec.DayRangeEnd,
		}
	case KindNthWeekday:
		if rec.Month == nil || rec.Weekday == nil || rec.Ordinal == nil {
			return nil
		}
		return NthWeekday{
			Month:   time.Month(*rec.Month),
			Weekday: time.Weekday(*rec.Weekday - 1),
			Ordinal: *rec.Ordinal,
		}
	case KindLunar:
		if rec.Month == nil || rec.Day == nil {
			return nil
		}
		return Lunar{Month: *rec.Month, Day: *rec.Day}
	case KindAstronomical:
		if rec.Month == nil {
			return nil
		}
		return Astronomical{Event: Season(*rec.Month)}
	}
	return nil
}

// ApplySpec writes spec's parameters into rec, clearing parameters the new
// type does not use.
func ApplySpec(rec *Record, spec DateSpec) {
	rec.Month, rec.Day, rec.DaysOffset = nil, nil, nil
	rec.Weekday, rec.Ordinal = nil, nil
	rec.DayRangeStart, rec.DayRangeEnd = nil, nil
	rec.Type = spec.Kind()

	switch s := spec.(type) {
	case Fixed:
		rec.Month, rec.Day = Int(int(s.Month)), Int(s.Day)
	case EasterRelative:
		rec.DaysOffset = Int(s.Offset)
	case Floating:
		rec.Month = Int(int(s.Month))
		rec.Weekday = Int(int(s.Weekday) + 1)
		rec.DayRangeStart, rec.DayRangeEnd = Int(s.RangeStart), Int(s.RangeEnd)
	case NthWeekday:
		rec.Month = Int(int(s.Month))
		rec.Weekday = Int(int(s.Weekday) + 1)
		rec.Ordinal = Int(s.Ordinal)
	case Lunar:
		rec.Month, rec.Day = Int(s.Month), Int(s.Day)
	case Astronomical:
		rec.Month = Int(int(s.Event))
	}
}
