package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/datecalc"
	"github.com/Flyrell/redday/internal/rule"
)

var rulesShowCmd = LeafCommand{
	Use:   "show <rule>",
	Short: "Show a rule, its next dates and its history",
	Args:  cobra.ExactArgs(1),
	IntFlags: []IntFlag{
		{Name: "years", Usage: "number of upcoming dates to list", Default: 3},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		years, _ := cmd.Flags().GetInt("years")
		return runRulesShow(cmd, dir, time.Now(), args[0], years)
	},
}.Build()

func runRulesShow(cmd *cobra.Command, dir string, now time.Time, arg string, years int) error {
	a, err := openApp(cmd, dir, now)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	rec, err := findRule(a, arg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	field := func(name, value string) {
		_, _ = fmt.Fprintf(w, "%s %s\n", Silent(fmt.Sprintf("%-12s", name+":")), Text(value))
	}

	_, _ = fmt.Fprintf(w, "%s  %s\n", Primary(rec.Key().String()), ruleTags(rec))
	field("name", recordLabel(rec))
	field("date", rule.DescribeRecord(rec))
	field("region", regionLabel(rec.Region))
	field("bank", yesNo(rec.BankHoliday))
	if rec.Icon != "" {
		field("icon", rec.Icon)
	}
	if rec.Category != "" {
		field("category", string(rec.Category))
	}
	field("provenance", string(rec.Provenance))
	if _, ok := a.catalog.Lookup(rec.Key()); ok {
		field("catalog", fmt.Sprintf("built-in (v%d)", a.catalog.Version))
	}
	if err := rule.Validate(rec); err != nil {
		_, _ = fmt.Fprintf(w, "%s %s\n", Warning("invalid:"), Text(err.Error()))
	}

	if years > 0 && !rec.Disabled {
		_, _ = fmt.Fprintln(w, Info("next dates:"))
		today := datecalc.DayOf(now)
		found := 0
		for year := now.Year(); found < years && year <= now.Year()+years+1; year++ {
			d, ok := datecalc.CalculateRecord(rec, year)
			if !ok || d.Before(today) {
				continue
			}
			_, _ = fmt.Fprintf(w, "  %s %s\n", Silent(d.Weekday().String()[:3]), Text(d.String()))
			found++
		}
		if found == 0 {
			_, _ = fmt.Fprintln(w, Silent("  none"))
		}
	}

	entries, err := a.changes.ByRule(rec.Key())
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		_, _ = fmt.Fprintln(w, Info("history:"))
		for i, e := range entries {
			if i == 5 {
				_, _ = fmt.Fprintln(w, Silent(fmt.Sprintf("  ... %d more (redday history --rule %s)", len(entries)-5, rec.Key())))
				break
			}
			_, _ = fmt.Fprintf(w, "  %s  %s\n", Silent(e.Timestamp.Local().Format("2006-01-02 15:04")), Text(e.Description))
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
