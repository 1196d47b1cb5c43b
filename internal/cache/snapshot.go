package cache

import (
	"sort"
	"time"

	"github.com/Flyrell/redday/internal/datecalc"
	"github.com/Flyrell/redday/internal/rule"
)

// Occurrence is one resolved holiday on one day.
type Occurrence struct {
	Key         rule.Key
	Region      string
	Name        string
	Title       string
	BankHoliday bool
	Icon        string
	IconColor   string
}

// DisplayName returns the title override if set, else the name.
func (o Occurrence) DisplayName() string {
	if o.Title != "" {
		return o.Title
	}
	return o.Name
}

// Bucket is the ordered list of occurrences on a day.
type Bucket struct {
	Day         datecalc.Day
	Occurrences []Occurrence
}

// Snapshot is an immutable day -> occurrences index. A new Snapshot is
// built on every rebuild; existing ones are never modified.
type Snapshot struct {
	days    map[datecalc.Day][]Occurrence
	years   []int
	regions []string
	builtAt time.Time
}

func emptySnapshot(builtAt time.Time) *Snapshot {
	return &Snapshot{days: map[datecalc.Day][]Occurrence{}, builtAt: builtAt}
}

// On returns the occurrences on d, bank holidays first.
func (s *Snapshot) On(d datecalc.Day) []Occurrence {
	occ := s.days[d]
	if len(occ) == 0 {
		return nil
	}
	return append([]Occurrence(nil), occ...)
}

// Days returns every day that has at least one occurrence, in order.
func (s *Snapshot) Days() []datecalc.Day {
	days := make([]datecalc.Day, 0, len(s.days))
	for d := range s.days {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Between returns the non-empty buckets from from to to, inclusive.
func (s *Snapshot) Between(from, to datecalc.Day) []Bucket {
	var out []Bucket
	for _, d := range s.Days() {
		if d.Before(from) || to.Before(d) {
			continue
		}
		out = append(out, Bucket{Day: d, Occurrences: s.On(d)})
	}
	return out
}

// Years returns the years the snapshot was built for, ascending.
func (s *Snapshot) Years() []int {
	return append([]int(nil), s.years...)
}

// Covers reports whether year was part of the build window.
func (s *Snapshot) Covers(year int) bool {
	i := sort.SearchInts(s.years, year)
	return i < len(s.years) && s.years[i] == year
}

// Regions returns the region codes the snapshot was built for.
func (s *Snapshot) Regions() []string {
	return append([]string(nil), s.regions...)
}

// Len returns the total number of occurrences.
func (s *Snapshot) Len() int {
	n := 0
	for _, occ := range s.days {
		n += len(occ)
	}
	return n
}

// BuiltAt returns when the snapshot was published.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}
