package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flyrell/redday/internal/cache"
	"github.com/Flyrell/redday/internal/datecalc"
	"github.com/Flyrell/redday/internal/rule"
)

var stamp = func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }

func buckets() []cache.Bucket {
	return []cache.Bucket{
		{
			Day: datecalc.Day{Year: 2025, Month: time.December, Day: 24},
			Occurrences: []cache.Occurrence{{
				Key: rule.Key{Region: "SE", Name: "holiday.julafton"}, Region: "SE",
				Name: "holiday.julafton", Icon: "gift",
			}},
		},
		{
			Day: datecalc.Day{Year: 2025, Month: time.December, Day: 25},
			Occurrences: []cache.Occurrence{{
				Key: rule.Key{Region: "SE", Name: "holiday.juldagen"}, Region: "SE",
				Name: "holiday.juldagen", Title: "Christmas, Day", BankHoliday: true, Icon: "gift",
			}},
		},
	}
}

func upper(s string) string { return strings.ToUpper(s) }

func TestICSOneEventPerOccurrence(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ICS(&buf, buckets(), ICSOptions{CalendarName: "SE holidays", Label: upper, Now: stamp}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "X-WR-CALNAME:SE holidays\r\n")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20251224\r\n")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20251225\r\n")
	assert.Contains(t, out, "DTSTAMP:20250615T100000Z\r\n")
	assert.Contains(t, out, "SUMMARY:HOLIDAY.JULAFTON\r\n")
	assert.Contains(t, out, `SUMMARY:Christmas\, Day`+"\r\n")
	assert.Contains(t, out, "CATEGORIES:BANK HOLIDAY\r\n")
	assert.Contains(t, out, "CATEGORIES:OBSERVANCE\r\n")
}

func TestICSStableUIDs(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, ICS(&a, buckets(), ICSOptions{Now: stamp}))
	require.NoError(t, ICS(&b, buckets(), ICSOptions{Now: stamp}))
	assert.Equal(t, a.String(), b.String())
}

func TestRecurringICS(t *testing.T) {
	recs := []rule.Record{
		{Region: "SE", Name: "holiday.julafton", Type: rule.KindFixed, Month: rule.Int(12), Day: rule.Int(24)},
		{Region: "SE", Name: "observance.mors_dag", Type: rule.KindNthWeekday, Month: rule.Int(5), Weekday: rule.Int(1), Ordinal: rule.Int(-1)},
		{Region: "SE", Name: "holiday.paskdagen", Type: rule.KindEasterRelative, DaysOffset: rule.Int(0), BankHoliday: true},
		{Region: "SE", Name: "holiday.off", Type: rule.KindFixed, Month: rule.Int(1), Day: rule.Int(2), Disabled: true},
		{Region: "SE", Name: "holiday.broken", Type: rule.KindFixed},
	}

	var buf bytes.Buffer
	require.NoError(t, RecurringICS(&buf, recs, 2025, 2027, ICSOptions{Now: stamp}))
	out := buf.String()

	// julafton and mors dag as RRULEs, Easter expanded for three years.
	assert.Equal(t, 5, strings.Count(out, "BEGIN:VEVENT"))
	assert.Equal(t, 2, strings.Count(out, "RRULE:"))
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20251224\r\n")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250525\r\n")
	assert.Contains(t, out, "BYDAY=-1SU")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250420\r\n")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20260405\r\n")
	assert.NotContains(t, out, "holiday.off")
	assert.NotContains(t, out, "holiday.broken")

	for _, line := range strings.Split(out, "\r\n") {
		if strings.HasPrefix(line, "RRULE:") {
			assert.NotContains(t, line, "DTSTART")
		}
	}
}

func TestICSFoldsLongLines(t *testing.T) {
	title := strings.Repeat("Midsommarafton och Självständighetsdag ", 5)
	b := buckets()[:1]
	b[0].Occurrences[0].Title = title

	var buf bytes.Buffer
	require.NoError(t, ICS(&buf, b, ICSOptions{CalendarName: strings.Repeat("ä", 60), Now: stamp}))
	out := buf.String()

	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 75, line)
		assert.True(t, utf8.ValidString(line), line)
	}

	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	assert.Contains(t, unfolded, "SUMMARY:"+title+"\r\n")
	assert.Contains(t, unfolded, "X-WR-CALNAME:"+strings.Repeat("ä", 60)+"\r\n")
}

func TestRecurringICSRejectsBadRange(t *testing.T) {
	assert.Error(t, RecurringICS(&bytes.Buffer{}, nil, 2026, 2025, ICSOptions{}))
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestICSReportsWriteErrors(t *testing.T) {
	assert.EqualError(t, ICS(brokenWriter{}, buckets(), ICSOptions{}), "pipe closed")
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, buckets(), upper))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,weekday,region,key,name,bank_holiday,icon", lines[0])
	assert.Equal(t, "2025-12-24,Wednesday,SE,SE/holiday.julafton,HOLIDAY.JULAFTON,false,gift", lines[1])
	assert.Equal(t, `2025-12-25,Thursday,SE,SE/holiday.juldagen,"Christmas, Day",true,gift`, lines[2])
}

func TestCSVEmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, nil, nil))
	assert.Equal(t, "date,weekday,region,key,name,bank_holiday,icon\n", buf.String())
}
