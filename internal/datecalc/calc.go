// Package datecalc evaluates holiday rules into calendar dates. Every
// function is pure: a rule that cannot produce a date in the requested year
// reports false instead of failing.
package datecalc

import (
	"math"
	"time"

	"github.com/Flyrell/redday/internal/rule"
)

// Calculate returns the occurrence of r in year.
func Calculate(r rule.Rule, year int) (Day, bool) {
	if r.Date == nil {
		return Day{}, false
	}

	switch s := r.Date.(type) {
	case rule.Fixed:
		return Fixed(year, s)
	case rule.EasterRelative:
		return EasterRelative(year, s)
	case rule.Floating:
		return Floating(year, s)
	case rule.NthWeekday:
		return NthWeekday(year, s)
	case rule.Lunar:
		return Lunar(year, s)
	case rule.Astronomical:
		return Astronomical(year, s)
	}
	return Day{}, false
}

// CalculateRecord parses rec and evaluates it for year. Validation problems
// are ignored here; a record missing required parameters yields false.
func CalculateRecord(rec rule.Record, year int) (Day, bool) {
	r, _ := rule.Parse(rec)
	return Calculate(r, year)
}

// Fixed returns the literal date in year.
func Fixed(year int, s rule.Fixed) (Day, bool) {
	return Date(year, s.Month, s.Day)
}

// Easter returns Easter Sunday of year using the anonymous Gregorian
// (Meeus/Jones/Butcher) algorithm.
func Easter(year int) Day {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return Day{Year: year, Month: time.Month(month), Day: day}
}

// EasterRelative returns Easter Sunday shifted by the rule's offset.
func EasterRelative(year int, s rule.EasterRelative) (Day, bool) {
	if year < 1583 {
		return Day{}, false
	}
	return Easter(year).AddDays(s.Offset), true
}

// Floating scans forward from RangeStart through RangeEnd and returns the
// first day that falls on the rule's weekday. RangeEnd may run past the end
// of the month, in which case the scan continues into the next month.
func Floating(year int, s rule.Floating) (Day, bool) {
	if s.RangeStart < 1 || s.RangeStart > s.RangeEnd {
		return Day{}, false
	}
	first, ok := Date(year, s.Month, s.RangeStart)
	if !ok {
		return Day{}, false
	}

	for offset := 0; offset <= s.RangeEnd-s.RangeStart; offset++ {
		d := first.AddDays(offset)
		if d.Weekday() == s.Weekday {
			return d, true
		}
	}
	return Day{}, false
}

// NthWeekday returns the Ordinal-th matching weekday of the month, or the
// last one for Ordinal -1.
func NthWeekday(year int, s rule.NthWeekday) (Day, bool) {
	if s.Month < time.January || s.Month > time.December {
		return Day{}, false
	}
	last := daysIn(year, s.Month)

	switch {
	case s.Ordinal >= 1:
		count := 0
		for day := 1; day <= last; day++ {
			d := Day{Year: year, Month: s.Month, Day: day}
			if d.Weekday() != s.Weekday {
				continue
			}
			count++
			if count == s.Ordinal {
				return d, true
			}
		}
	case s.Ordinal == -1:
		for back := 0; back < 7; back++ {
			d := Day{Year: year, Month: s.Month, Day: last - back}
			if d.Weekday() == s.Weekday {
				return d, true
			}
		}
	}
	return Day{}, false
}

var seasonBase = map[rule.Season]float64{
	rule.SpringEquinox:  20.2088,
	rule.SummerSolstice: 20.9126,
	rule.AutumnEquinox:  22.5444,
	rule.WinterSolstice: 21.4800,
}

// Astronomical approximates the day of an equinox or solstice. The linear
// formula is good to about a day, which is enough for calendar display.
func Astronomical(year int, s rule.Astronomical) (Day, bool) {
	base, ok := seasonBase[s.Event]
	if !ok {
		return Day{}, false
	}
	y := float64(year - 2000)
	day := int(base + 0.2422*y - math.Floor(y/4))
	return Date(year, time.Month(s.Event), day)
}
