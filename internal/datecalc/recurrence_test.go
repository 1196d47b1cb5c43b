package datecalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flyrell/redday/internal/rule"
)

// The scanning evaluators must agree with the equivalent RFC 5545 rule.
func TestEvaluatorsAgreeWithRRule(t *testing.T) {
	specs := []rule.DateSpec{
		rule.Fixed{Month: time.June, Day: 6},
		rule.Floating{Month: time.June, Weekday: time.Saturday, RangeStart: 20, RangeEnd: 26},
		rule.Floating{Month: time.June, Weekday: time.Friday, RangeStart: 19, RangeEnd: 25},
		rule.NthWeekday{Month: time.May, Weekday: time.Sunday, Ordinal: -1},
		rule.NthWeekday{Month: time.November, Weekday: time.Sunday, Ordinal: 2},
		rule.NthWeekday{Month: time.November, Weekday: time.Thursday, Ordinal: 4},
		rule.NthWeekday{Month: time.January, Weekday: time.Monday, Ordinal: 3},
	}

	from := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2030, time.December, 31, 0, 0, 0, 0, time.UTC)

	for _, spec := range specs {
		r, ok := rule.Recurrence(spec, from)
		require.True(t, ok, "%#v", spec)

		dates := r.Between(from, to, true)
		require.Len(t, dates, 31, "%#v", spec)

		for _, d := range dates {
			got, ok := Calculate(rule.Rule{Date: spec}, d.Year())
			require.True(t, ok)
			assert.Equal(t, DayOf(d), got, "%#v in %d", spec, d.Year())
		}
	}
}

func TestRecurrenceUnsupportedSpecs(t *testing.T) {
	for _, spec := range []rule.DateSpec{
		rule.EasterRelative{Offset: 1},
		rule.Lunar{Month: 1, Day: 1},
		rule.Astronomical{Event: rule.SummerSolstice},
		rule.Floating{Month: time.October, Weekday: time.Saturday, RangeStart: 31, RangeEnd: 37},
	} {
		_, ok := rule.Recurrence(spec, time.Time{})
		assert.False(t, ok, "%#v", spec)
	}
}

func TestRecurrenceString(t *testing.T) {
	r, ok := rule.Recurrence(rule.NthWeekday{Month: time.May, Weekday: time.Sunday, Ordinal: -1}, time.Time{})
	require.True(t, ok)

	s := r.String()
	assert.Contains(t, s, "FREQ=YEARLY")
	assert.Contains(t, s, "BYMONTH=5")
	assert.Contains(t, s, "BYDAY=-1SU")
}

func TestDayHelpers(t *testing.T) {
	d, err := ParseDay("2025-12-24")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-24", d.String())
	assert.Equal(t, time.Wednesday, d.Weekday())
	assert.Equal(t, Day{2026, time.January, 1}, d.AddDays(8))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))

	loc := time.FixedZone("UTC+9", 9*60*60)
	assert.Equal(t, d, DayOf(time.Date(2025, 12, 24, 23, 59, 0, 0, loc)))

	_, err = ParseDay("24/12/2025")
	assert.Error(t, err)

	_, ok := Date(2025, time.February, 30)
	assert.False(t, ok)
}
