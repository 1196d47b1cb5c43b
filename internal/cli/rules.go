package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/rule"
	"github.com/Flyrell/redday/internal/store"
	"github.com/Flyrell/redday/internal/stringutil"
)

var rulesCmd = GroupCommand{
	Use:   "rules",
	Short: "List and edit holiday rules",
	Subcommands: []*cobra.Command{
		rulesListCmd,
		rulesShowCmd,
		rulesAddCmd,
		rulesEditCmd,
		rulesDeleteCmd,
		rulesEnableCmd,
		rulesDisableCmd,
		rulesResetCmd,
	},
}.Build()

var rulesListCmd = LeafCommand{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored rules",
	Args:    cobra.NoArgs,
	StrFlags: []StringFlag{
		{Name: "region", Usage: "only list one region (use \"global\" for season rules)"},
	},
	BoolFlags: []BoolFlag{
		{Name: "all", Usage: "include disabled rules"},
		{Name: "custom", Usage: "only list rules you created or changed"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}

		region, _ := cmd.Flags().GetString("region")
		all, _ := cmd.Flags().GetBool("all")
		custom, _ := cmd.Flags().GetBool("custom")

		return runRulesList(cmd, dir, time.Now(), region, all, custom)
	},
}.Build()

func runRulesList(cmd *cobra.Command, dir string, now time.Time, region string, all, custom bool) error {
	a, err := openApp(cmd, dir, now)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var recs []rule.Record
	switch strings.ToLower(region) {
	case "":
		recs, err = a.store.List()
	case "global":
		recs, err = a.store.ListByRegion("")
	default:
		recs, err = a.store.ListByRegion(strings.ToUpper(region))
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	shown := 0
	for _, rec := range recs {
		if rec.Disabled && !all {
			continue
		}
		if custom && !rec.Provenance.UserOwned() {
			continue
		}
		shown++

		line := fmt.Sprintf("%s  %s  %s",
			Primary(fmt.Sprintf("%-36s", rec.Key())),
			Text(fmt.Sprintf("%-24s", recordLabel(rec))),
			Silent(fmt.Sprintf("%-40s", rule.DescribeRecord(rec))))
		if tags := ruleTags(rec); tags != "" {
			line += "  " + tags
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	if shown == 0 {
		_, _ = fmt.Fprintln(w, Text("no rules found"))
	}
	return nil
}

func ruleTags(rec rule.Record) string {
	var tags []string
	if rec.BankHoliday {
		tags = append(tags, Bank("bank"))
	}
	switch rec.Provenance {
	case rule.ProvenanceUserModified:
		tags = append(tags, Info("modified"))
	case rule.ProvenanceUserCreated:
		tags = append(tags, Info("custom"))
	}
	if rec.Disabled {
		tags = append(tags, Warning("disabled"))
	}
	return strings.Join(tags, " ")
}

var keyNamespaces = []string{"holiday.", "observance.", "season.", "custom."}

// findRule looks up a rule by its key. A name without a namespace is tried
// under each of the usual ones, so "SE/julafton" finds "SE/holiday.julafton".
func findRule(a *app, arg string) (rule.Record, error) {
	key, err := rule.ParseKey(arg)
	if err != nil {
		return rule.Record{}, err
	}

	rec, err := a.store.Get(key)
	if err == nil || !errors.Is(err, store.ErrNotFound) || strings.Contains(key.Name, ".") {
		return rec, err
	}

	slug := stringutil.Slugify(key.Name)
	for _, ns := range keyNamespaces {
		if rec, err := a.store.Get(rule.Key{Region: key.Region, Name: ns + slug}); err == nil {
			return rec, nil
		}
	}
	return rule.Record{}, fmt.Errorf("rule '%s' not found", arg)
}
