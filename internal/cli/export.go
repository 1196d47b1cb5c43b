package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/cache"
	"github.com/Flyrell/redday/internal/datecalc"
	"github.com/Flyrell/redday/internal/export"
	"github.com/Flyrell/redday/internal/rule"
)

var exportCmd = LeafCommand{
	Use:   "export",
	Short: "Export holidays as iCalendar or CSV",
	Args:  cobra.NoArgs,
	Example: `  redday export --format ics --output holidays.ics
  redday export --format csv --from 2025 --to 2027
  redday export --recurring > holidays.ics`,
	StrFlags: []StringFlag{
		{Name: "format", Usage: "ics or csv", Default: "ics"},
		{Name: "output", Usage: "write to a file instead of stdout"},
		{Name: "region", Usage: "only export one region"},
	},
	IntFlags: []IntFlag{
		{Name: "from", Usage: "first year (default: this year)"},
		{Name: "to", Usage: "last year (default: same as --from)"},
	},
	BoolFlags: []BoolFlag{
		{Name: "recurring", Usage: "write rules as recurring events (ics only)"},
		{Name: "bank", Usage: "only bank holidays"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}

		opts := exportOptions{}
		opts.format, _ = cmd.Flags().GetString("format")
		opts.region, _ = cmd.Flags().GetString("region")
		opts.from, _ = cmd.Flags().GetInt("from")
		opts.to, _ = cmd.Flags().GetInt("to")
		opts.recurring, _ = cmd.Flags().GetBool("recurring")
		opts.bank, _ = cmd.Flags().GetBool("bank")
		output, _ := cmd.Flags().GetString("output")

		if output == "" {
			return runExport(cmd, dir, time.Now(), cmd.OutOrStdout(), opts)
		}

		f, err := os.Create(output)
		if err != nil {
			return err
		}
		if err := runExport(cmd, dir, time.Now(), f, opts); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Text("wrote"), Primary(output))
		return nil
	},
}.Build()

type exportOptions struct {
	format    string
	region    string
	from, to  int
	recurring bool
	bank      bool
}

func runExport(cmd *cobra.Command, dir string, now time.Time, w io.Writer, opts exportOptions) error {
	format := strings.ToLower(opts.format)
	if format != "ics" && format != "csv" {
		return fmt.Errorf("unknown format %q (valid: ics, csv)", opts.format)
	}
	if opts.recurring && format != "ics" {
		return fmt.Errorf("--recurring only works with --format ics")
	}
	if opts.from == 0 {
		opts.from = now.Year()
	}
	if opts.to == 0 {
		opts.to = opts.from
	}
	if opts.to < opts.from {
		return fmt.Errorf("--to (%d) is before --from (%d)", opts.to, opts.from)
	}

	a, err := openApp(cmd, dir, now)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	regions := a.settings.SelectedRegions()
	icsOpts := export.ICSOptions{
		CalendarName: "redday " + strings.Join(regions, " "),
		Label:        label,
		Now:          func() time.Time { return now },
	}

	if opts.recurring {
		recs, err := exportRecords(a, regions, opts)
		if err != nil {
			return err
		}
		return export.RecurringICS(w, recs, opts.from, opts.to, icsOpts)
	}

	if !a.settings.HolidaysVisible() {
		return fmt.Errorf("holidays are hidden (redday config set show_holidays true)")
	}
	if err := coverYears(a, opts.from, opts.to); err != nil {
		return err
	}
	from := datecalc.Day{Year: opts.from, Month: time.January, Day: 1}
	to := datecalc.Day{Year: opts.to, Month: time.December, Day: 31}
	buckets := showFilter{region: opts.region, bank: opts.bank}.apply(a.manager.Snapshot().Between(from, to))

	if format == "csv" {
		return export.CSV(w, buckets, label)
	}
	return export.ICS(w, buckets, icsOpts)
}

// coverYears makes sure the cache holds every year from from to to.
func coverYears(a *app, from, to int) error {
	covered := func() bool {
		snap := a.manager.Snapshot()
		for y := from; y <= to; y++ {
			if !snap.Covers(y) {
				return false
			}
		}
		return true
	}
	if covered() {
		return nil
	}
	if err := a.manager.Rebuild(cache.WithFocusYear((from + to) / 2)); err != nil {
		return err
	}
	if !covered() {
		return fmt.Errorf("%d-%d is wider than the cache window of %d years (raise cache_span_years)",
			from, to, 2*a.settings.Span()+1)
	}
	return nil
}

// exportRecords returns the stored rules that the cache would show.
func exportRecords(a *app, regions []string, opts exportOptions) ([]rule.Record, error) {
	all, err := a.store.List()
	if err != nil {
		return nil, err
	}

	var recs []rule.Record
	for _, rec := range all {
		if rec.Region != "" && !containsFold(regions, rec.Region) {
			continue
		}
		if opts.region != "" && rec.Region != "" && !strings.EqualFold(rec.Region, opts.region) {
			continue
		}
		if opts.bank && !rec.BankHoliday {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
