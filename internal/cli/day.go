package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/cache"
	"github.com/Flyrell/redday/internal/datecalc"
)

var dayCmd = LeafCommand{
	Use:   "day [DATE]",
	Short: "Show the holidays on a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	Example: `  redday day
  redday day tomorrow
  redday day 2025-12-24`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}

		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		return runDay(cmd, dir, time.Now(), arg)
	},
}.Build()

func parseDayArg(arg string, now time.Time) (datecalc.Day, error) {
	today := datecalc.DayOf(now)
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	return datecalc.ParseDay(arg)
}

func runDay(cmd *cobra.Command, dir string, now time.Time, arg string) error {
	d, err := parseDayArg(arg, now)
	if err != nil {
		return err
	}

	a, err := openApp(cmd, dir, now)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	w := cmd.OutOrStdout()
	if !a.settings.HolidaysVisible() {
		_, _ = fmt.Fprintln(w, Warning("holidays are hidden (redday config set show_holidays true)"))
		return nil
	}

	ensureYear(a, d.Year)
	snap := a.manager.Snapshot()

	_, _ = fmt.Fprintf(w, "%s\n", Info(fmt.Sprintf("%s %s", d.Weekday(), d)))
	occ := snap.On(d)
	if len(occ) == 0 {
		_, _ = fmt.Fprintln(w, Text("  no holidays"))
	}
	for _, o := range occ {
		_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", styleOccurrence(o), Silent(o.Key.String()), Silent(o.Icon))
	}

	// Next holiday within a year, looking at the days already cached.
	if upcoming := snap.Between(d.AddDays(1), d.AddDays(366)); len(upcoming) > 0 {
		b := upcoming[0]
		days := int(b.Day.Time().Sub(d.Time()).Hours() / 24)
		_, _ = fmt.Fprintf(w, "%s %s %s %s\n", Silent("next:"), Text(b.Day.String()),
			styleOccurrence(b.Occurrences[0]), Silent(fmt.Sprintf("(in %d days)", days)))
	}
	return nil
}

// writeBucket prints one line per occurrence, the date only on the first.
func writeBucket(w io.Writer, b cache.Bucket, today datecalc.Day) {
	date := fmt.Sprintf("%s %2d", b.Day.Weekday().String()[:3], b.Day.Day)
	for i, o := range b.Occurrences {
		prefix := date
		if i > 0 {
			prefix = strings.Repeat(" ", len(date))
		}
		line := fmt.Sprintf("  %s  %s  %s", Silent(prefix), styleOccurrence(o), Silent(regionLabel(o.Region)))
		if i == 0 && b.Day == today {
			line += "  " + Primary("today")
		}
		_, _ = fmt.Fprintln(w, line)
	}
}
