// Package export writes cached occurrences and rules to calendar formats.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Flyrell/redday/internal/cache"
	"github.com/Flyrell/redday/internal/datecalc"
	"github.com/Flyrell/redday/internal/hashutil"
	"github.com/Flyrell/redday/internal/rule"
)

const (
	productID = "-//redday//redday calendar//EN"
	uidDomain = "redday.local"
)

// ICSOptions configures iCalendar output.
type ICSOptions struct {
	// CalendarName is written as X-WR-CALNAME when set.
	CalendarName string
	// Label turns a rule name into a summary line. Defaults to the name.
	Label func(name string) string
	// Now is used for DTSTAMP. Defaults to time.Now.
	Now func() time.Time
}

func (o ICSOptions) label(name, title string) string {
	if title != "" {
		return title
	}
	if o.Label != nil {
		return o.Label(name)
	}
	return name
}

func (o ICSOptions) stamp() string {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return now().UTC().Format("20060102T150405Z")
}

// icsWriter remembers the first write error so callers check once.
type icsWriter struct {
	w   io.Writer
	err error
}

func (iw *icsWriter) line(format string, args ...any) {
	if iw.err != nil {
		return
	}
	_, iw.err = io.WriteString(iw.w, fold(fmt.Sprintf(format, args...)))
}

const maxLineOctets = 75

// fold splits a content line into CRLF-terminated chunks of at most 75
// octets, continuation chunks starting with a space. UTF-8 sequences are
// never split.
func fold(line string) string {
	var b strings.Builder
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
	return b.String()
}

func (iw *icsWriter) begin(opts ICSOptions) {
	iw.line("BEGIN:VCALENDAR")
	iw.line("VERSION:2.0")
	iw.line("PRODID:%s", productID)
	iw.line("CALSCALE:GREGORIAN")
	iw.line("METHOD:PUBLISH")
	if opts.CalendarName != "" {
		iw.line("X-WR-CALNAME:%s", escapeText(opts.CalendarName))
	}
}

func (iw *icsWriter) event(uid, stamp string, d datecalc.Day, summary string, bank bool, extra ...string) {
	start := d.Time()
	iw.line("BEGIN:VEVENT")
	iw.line("UID:%s@%s", uid, uidDomain)
	iw.line("DTSTAMP:%s", stamp)
	iw.line("DTSTART;VALUE=DATE:%s", start.Format("20060102"))
	iw.line("DTEND;VALUE=DATE:%s", start.AddDate(0, 0, 1).Format("20060102"))
	for _, e := range extra {
		iw.line("%s", e)
	}
	iw.line("SUMMARY:%s", escapeText(summary))
	if bank {
		iw.line("CATEGORIES:BANK HOLIDAY")
	} else {
		iw.line("CATEGORIES:OBSERVANCE")
	}
	iw.line("TRANSP:TRANSPARENT")
	iw.line("END:VEVENT")
}

// ICS writes one all-day VEVENT per occurrence in buckets.
func ICS(w io.Writer, buckets []cache.Bucket, opts ICSOptions) error {
	iw := &icsWriter{w: w}
	stamp := opts.stamp()

	iw.begin(opts)
	for _, b := range buckets {
		for _, o := range b.Occurrences {
			uid := hashutil.IDFromSeed(o.Key.String()) + "-" + b.Day.Time().Format("20060102")
			iw.event(uid, stamp, b.Day, opts.label(o.Name, o.Title), o.BankHoliday)
		}
	}
	iw.line("END:VCALENDAR")
	return iw.err
}

// RecurringICS writes rules as recurring events where RFC 5545 can express
// them, starting in year from. Rules without an RRULE form (Easter, lunar,
// astronomical) are expanded to one event per year from from to to.
// Disabled rules are skipped.
func RecurringICS(w io.Writer, recs []rule.Record, from, to int, opts ICSOptions) error {
	if to < from {
		return fmt.Errorf("invalid year range %d-%d", from, to)
	}

	iw := &icsWriter{w: w}
	stamp := opts.stamp()

	iw.begin(opts)
	for _, rec := range recs {
		if rec.Disabled {
			continue
		}
		r, _ := rule.Parse(rec)
		if r.Date == nil {
			continue
		}
		uid := hashutil.IDFromSeed(rec.Key().String())
		summary := opts.label(rec.Name, rec.Title)

		if rr, ok := rule.Recurrence(r.Date, time.Time{}); ok {
			first, ok := firstOccurrence(r, from, to)
			if !ok {
				continue
			}
			iw.event(uid, stamp, first, summary, rec.BankHoliday, "RRULE:"+rruleText(rr.String()))
			continue
		}

		for year := from; year <= to; year++ {
			d, ok := datecalc.Calculate(r, year)
			if !ok {
				continue
			}
			iw.event(fmt.Sprintf("%s-%d", uid, year), stamp, d, summary, rec.BankHoliday)
		}
	}
	iw.line("END:VCALENDAR")
	return iw.err
}

func firstOccurrence(r rule.Rule, from, to int) (datecalc.Day, bool) {
	for year := from; year <= to; year++ {
		if d, ok := datecalc.Calculate(r, year); ok {
			return d, true
		}
	}
	return datecalc.Day{}, false
}

// rruleText strips a DTSTART line from rrule-go's String output.
func rruleText(s string) string {
	if i := strings.Index(s, "RRULE:"); i >= 0 {
		return s[i+len("RRULE:"):]
	}
	return s
}

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
