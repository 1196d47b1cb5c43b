package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/cache"
	"github.com/Flyrell/redday/internal/datecalc"
)

var showCmd = LeafCommand{
	Use:   "show [YEAR | YEAR-MM]",
	Short: "Show holidays for a year or month",
	Args:  cobra.MaximumNArgs(1),
	Example: `  redday show
  redday show 2026
  redday show 2025-12 --bank`,
	StrFlags: []StringFlag{
		{Name: "region", Usage: "only show one region"},
	},
	BoolFlags: []BoolFlag{
		{Name: "bank", Usage: "only show bank holidays"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}

		period := ""
		if len(args) > 0 {
			period = args[0]
		}
		region, _ := cmd.Flags().GetString("region")
		bank, _ := cmd.Flags().GetBool("bank")

		return runShow(cmd, dir, time.Now(), period, region, bank)
	},
}.Build()

// showFilter drops occurrences that don't match --region and --bank.
type showFilter struct {
	region string
	bank   bool
}

func (f showFilter) keep(o cache.Occurrence) bool {
	if f.bank && !o.BankHoliday {
		return false
	}
	if f.region != "" && o.Region != "" && !strings.EqualFold(o.Region, f.region) {
		return false
	}
	return true
}

func (f showFilter) apply(buckets []cache.Bucket) []cache.Bucket {
	var out []cache.Bucket
	for _, b := range buckets {
		var occ []cache.Occurrence
		for _, o := range b.Occurrences {
			if f.keep(o) {
				occ = append(occ, o)
			}
		}
		if len(occ) > 0 {
			out = append(out, cache.Bucket{Day: b.Day, Occurrences: occ})
		}
	}
	return out
}

// parsePeriod turns "", "2025" or "2025-12" into an inclusive day range.
func parsePeriod(period string, now time.Time) (datecalc.Day, datecalc.Day, error) {
	period = strings.TrimSpace(period)
	if period == "" {
		period = strconv.Itoa(now.Year())
	}

	if y, err := strconv.Atoi(period); err == nil {
		if y < 1 || y > 9999 {
			return datecalc.Day{}, datecalc.Day{}, fmt.Errorf("invalid year %d", y)
		}
		return datecalc.Day{Year: y, Month: time.January, Day: 1},
			datecalc.Day{Year: y, Month: time.December, Day: 31}, nil
	}

	t, err := time.Parse("2006-01", period)
	if err != nil {
		return datecalc.Day{}, datecalc.Day{}, fmt.Errorf("invalid period %q: expected YEAR or YEAR-MM", period)
	}
	first := datecalc.DayOf(t)
	last := datecalc.DayOf(t.AddDate(0, 1, -1))
	return first, last, nil
}

// ensureYear rebuilds the cache around year when it isn't covered yet.
func ensureYear(a *app, year int) {
	if a.manager.Snapshot().Covers(year) {
		return
	}
	if err := a.manager.Rebuild(cache.WithFocusYear(year)); err != nil {
		a.logger.Warn("failed to extend holiday cache", "year", year, "err", err)
	}
}

func runShow(cmd *cobra.Command, dir string, now time.Time, period, region string, bank bool) error {
	from, to, err := parsePeriod(period, now)
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
	if len(a.settings.SelectedRegions()) == 0 {
		_, _ = fmt.Fprintln(w, Warning("no regions selected (redday init --regions SE)"))
	}

	ensureYear(a, from.Year)
	buckets := showFilter{region: region, bank: bank}.apply(a.manager.Snapshot().Between(from, to))
	if len(buckets) == 0 {
		_, _ = fmt.Fprintln(w, Text("no holidays found"))
		return nil
	}

	today := datecalc.DayOf(now)
	var month time.Month
	year := 0
	for _, b := range buckets {
		if b.Day.Month != month || b.Day.Year != year {
			if year != 0 {
				_, _ = fmt.Fprintln(w)
			}
			month, year = b.Day.Month, b.Day.Year
			_, _ = fmt.Fprintf(w, "%s\n", Info(fmt.Sprintf("%s %d", month, year)))
		}
		writeBucket(w, b, today)
	}
	return nil
}
