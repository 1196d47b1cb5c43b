package rule

import (
	"fmt"
	"time"
)

// Describe returns a short human-readable description of a date spec, such
// as "Dec 24" or "last Sunday of May".
func Describe(spec DateSpec) string {
	switch s := spec.(type) {
	case Fixed:
		return fmt.Sprintf("%s %d", shortMonth(s.Month), s.Day)
	case EasterRelative:
		switch {
		case s.Offset == 0:
			return "Easter Sunday"
		case s.Offset == 1:
			return "1 day after Easter"
		case s.Offset == -1:
			return "1 day before Easter"
		case s.Offset > 0:
			return fmt.Sprintf("%d days after Easter", s.Offset)
		default:
			return fmt.Sprintf("%d days before Easter", -s.Offset)
		}
	case Floating:
		return fmt.Sprintf("first %s from %s %d to %s", s.Weekday, shortMonth(s.Month), s.RangeStart, rangeEnd(s))
	case NthWeekday:
		return fmt.Sprintf("%s %s of %s", ordinalWord(s.Ordinal), s.Weekday, s.Month)
	case Lunar:
		return fmt.Sprintf("lunar %d/%d", s.Month, s.Day)
	case Astronomical:
		return s.Event.String()
	}
	return "no date"
}

// DescribeRecord describes rec's date, or "invalid" when it cannot be parsed.
func DescribeRecord(rec Record) string {
	if rec.Type == "" {
		return "none"
	}
	r, _ := Parse(rec)
	if r.Date == nil {
		return "invalid " + string(rec.Type) + " rule"
	}
	return Describe(r.Date)
}

func rangeEnd(s Floating) string {
	if s.Month < time.January || s.Month > time.December {
		return fmt.Sprintf("%d", s.RangeEnd)
	}
	// An end past the month's length continues into the next month.
	last := time.Date(2001, s.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if s.Month == time.February {
		last = 29
	}
	if s.RangeEnd <= last {
		return fmt.Sprintf("%d", s.RangeEnd)
	}
	next := s.Month%12 + 1
	return fmt.Sprintf("%s %d", shortMonth(next), s.RangeEnd-last)
}

func shortMonth(m time.Month) string {
	if m < time.January || m > time.December {
		return fmt.Sprintf("month %d", int(m))
	}
	return m.String()[:3]
}

func ordinalWord(n int) string {
	switch n {
	case -1:
		return "last"
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	}
	return fmt.Sprintf("%dth", n)
}
