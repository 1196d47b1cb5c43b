package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/changelog"
	"github.com/Flyrell/redday/internal/rule"
)

var historyCmd = LeafCommand{
	Use:   "history",
	Short: "Show the change log, newest first",
	Args:  cobra.NoArgs,
	StrFlags: []StringFlag{
		{Name: "region", Usage: "only changes in one region"},
		{Name: "rule", Usage: "only changes to one rule, e.g. SE/holiday.julafton"},
	},
	IntFlags: []IntFlag{
		{Name: "limit", Usage: "maximum number of entries to show (0 = all)", Default: 50},
	},
	BoolFlags: []BoolFlag{
		{Name: "verbose", Usage: "show field-level changes"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}

		region, _ := cmd.Flags().GetString("region")
		ruleArg, _ := cmd.Flags().GetString("rule")
		limit, _ := cmd.Flags().GetInt("limit")
		verbose, _ := cmd.Flags().GetBool("verbose")
		if limit < 0 {
			return fmt.Errorf("--limit must be 0 or positive")
		}

		return runHistory(cmd, dir, time.Now(), region, ruleArg, limit, verbose)
	},
}.Build()

func runHistory(cmd *cobra.Command, dir string, now time.Time, region, ruleArg string, limit int, verbose bool) error {
	a, err := openApp(cmd, dir, now)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var entries []changelog.Entry
	switch {
	case ruleArg != "":
		key, err := rule.ParseKey(ruleArg)
		if err != nil {
			return err
		}
		entries, err = a.changes.ByRule(key)
		if err != nil {
			return err
		}
	case region != "":
		entries, err = a.changes.ByRegion(strings.ToUpper(region))
	default:
		entries, err = a.changes.All()
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "no entries found")
		return nil
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
			Silent(shortID(e.ID)),
			Text(e.Timestamp.Local().Format("2006-01-02 15:04:05")),
			Info(fmt.Sprintf("%-15s", e.Action)),
			Silent(fmt.Sprintf("%-6s", e.Source)),
			Text(e.Description),
		)
		if e.Note != "" {
			_, _ = fmt.Fprintf(w, "    %s %s\n", Silent("note:"), Text(e.Note))
		}
		if verbose {
			writeEntryChanges(w, e)
		}
	}
	return nil
}

func writeEntryChanges(w io.Writer, e changelog.Entry) {
	if e.Before == "" || e.After == "" {
		return
	}
	before, err1 := changelog.ParseSnapshot(e.Before)
	after, err2 := changelog.ParseSnapshot(e.After)
	if err1 != nil || err2 != nil {
		return
	}
	for _, c := range changelog.Compare(before, after) {
		_, _ = fmt.Fprintf(w, "    %s %s %s %s\n", Silent(c.Field+":"), Error(c.Before), Silent("->"), Primary(c.After))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
