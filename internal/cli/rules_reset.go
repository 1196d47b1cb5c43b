package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/rule"
	"github.com/Flyrell/redday/internal/stringutil"
)

var rulesResetCmd = LeafCommand{
	Use:   "reset <rule>",
	Short: "Restore a built-in rule to its catalog definition",
	Args:  cobra.ExactArgs(1),
	StrFlags: []StringFlag{
		{Name: "note", Usage: "note stored in the change log"},
	},
	BoolFlags: []BoolFlag{
		{Name: "yes", Usage: "skip confirmation prompt"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		note, _ := cmd.Flags().GetString("note")
		yes, _ := cmd.Flags().GetBool("yes")
		return runRulesReset(cmd, dir, time.Now(), args[0], note,
			ResolveConfirmFunc(yes, cmd.InOrStdin(), cmd.OutOrStdout()))
	},
}.Build()

// catalogKey resolves arg against the built-in catalog, so deleted rules
// can be reset too.
func catalogKey(a *app, arg string) (rule.Key, error) {
	key, err := rule.ParseKey(arg)
	if err != nil {
		return rule.Key{}, err
	}
	if _, ok := a.catalog.Lookup(key); ok || strings.Contains(key.Name, ".") {
		return key, nil
	}
	slug := stringutil.Slugify(key.Name)
	for _, ns := range keyNamespaces {
		k := rule.Key{Region: key.Region, Name: ns + slug}
		if _, ok := a.catalog.Lookup(k); ok {
			return k, nil
		}
	}
	return key, nil
}

func runRulesReset(cmd *cobra.Command, dir string, now time.Time, arg, note string, confirm ConfirmFunc) error {
	a, err := openApp(cmd, dir, now)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	key, err := catalogKey(a, arg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	ok, err := confirm(fmt.Sprintf("Reset %s to the built-in definition? Your changes to it are lost.", key))
	if err != nil {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintln(w, Text("reset cancelled"))
		return nil
	}

	rec, err := a.manager.ResetRule(key, note)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%s %s %s\n", Text("reset"), Primary(rec.Key().String()),
		Silent("("+rule.DescribeRecord(rec)+")"))
	return nil
}
