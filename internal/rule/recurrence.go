package rule

import (
	"time"

	"github.com/teambition/rrule-go"
)

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

// Recurrence returns the RFC 5545 equivalent of a date spec. Only
// Gregorian month/weekday based specs can be expressed; Easter, lunar and
// astronomical rules, and floating ranges that spill into the next month,
// report false. When dtstart is non-zero it anchors the rule.
func Recurrence(spec DateSpec, dtstart time.Time) (*rrule.RRule, bool) {
	opts := rrule.ROption{
		Freq:    rrule.YEARLY,
		Dtstart: dtstart,
	}

	switch s := spec.(type) {
	case Fixed:
		opts.Bymonth = []int{int(s.Month)}
		opts.Bymonthday = []int{s.Day}
	case Floating:
		if s.RangeEnd > 31 || s.RangeStart > s.RangeEnd {
			return nil, false
		}
		days := make([]int, 0, s.RangeEnd-s.RangeStart+1)
		for d := s.RangeStart; d <= s.RangeEnd; d++ {
			days = append(days, d)
		}
		opts.Bymonth = []int{int(s.Month)}
		opts.Bymonthday = days
		opts.Byweekday = []rrule.Weekday{rruleWeekdays[s.Weekday]}
	case NthWeekday:
		if s.Ordinal == 0 {
			return nil, false
		}
		wd := rruleWeekdays[s.Weekday]
		opts.Bymonth = []int{int(s.Month)}
		opts.Byweekday = []rrule.Weekday{wd.Nth(s.Ordinal)}
	default:
		return nil, false
	}

	r, err := rrule.NewRRule(opts)
	if err != nil {
		return nil, false
	}
	return r, true
}
