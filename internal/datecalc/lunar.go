package datecalc

import (
	"time"

	"github.com/6tail/lunar-go/calendar"

	"github.com/Flyrell/redday/internal/rule"
)

// lunarAnchorMonth and lunarAnchorDay pick the lunar year that overlaps most
// with a Gregorian year: the one containing mid-June.
const (
	lunarAnchorMonth = 6
	lunarAnchorDay   = 15
)

// Lunar converts a Chinese lunar month/day into the Gregorian date within
// (or near) year. Leap months are not considered: month N always means the
// regular month N, so holidays that fall in a leap month are not supported.
func Lunar(year int, s rule.Lunar) (d Day, ok bool) {
	if s.Month < 1 || s.Month > 12 || s.Day < 1 || s.Day > 30 {
		return Day{}, false
	}

	// lunar-go panics on dates it cannot represent (day 30 of a 29-day
	// month, years outside its tables).
	defer func() {
		if recover() != nil {
			d, ok = Day{}, false
		}
	}()

	lunarYear := calendar.NewSolarFromYmd(year, lunarAnchorMonth, lunarAnchorDay).GetLunar().GetYear()
	solar := calendar.NewLunarFromYmd(lunarYear, s.Month, s.Day).GetSolar()

	return Date(solar.GetYear(), time.Month(solar.GetMonth()), solar.GetDay())
}
