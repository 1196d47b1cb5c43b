package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/changelog"
	"github.com/Flyrell/redday/internal/rule"
)

var rulesEditCmd = LeafCommand{
	Use:   "edit <rule>",
	Short: "Change a rule; edited rules are kept when the built-in catalog changes",
	Args:  cobra.ExactArgs(1),
	Example: `  redday rules edit SE/holiday.julafton --bank
  redday rules edit SE/custom.fika --rename SE/custom.fikadag --title "Fikans dag"`,
	StrFlags:  append([]StringFlag{{Name: "rename", Usage: "move the rule to a new key"}}, ruleStrFlags...),
	IntFlags:  ruleIntFlags,
	BoolFlags: ruleBoolFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		rename, _ := cmd.Flags().GetString("rename")
		note, _ := cmd.Flags().GetString("note")
		return runRulesEdit(cmd, dir, time.Now(), args[0], rename, readRuleInput(cmd), note)
	},
}.Build()

func runRulesEdit(cmd *cobra.Command, dir string, now time.Time, arg, rename string, in ruleInput, note string) error {
	if in.empty() && rename == "" {
		return fmt.Errorf("nothing to change: pass at least one flag")
	}

	var newKey *rule.Key
	if rename != "" {
		k, err := rule.ParseKey(rename)
		if err != nil {
			return err
		}
		newKey = &k
	}

	a, err := openApp(cmd, dir, now)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	before, err := findRule(a, arg)
	if err != nil {
		return err
	}

	after, err := a.manager.UpdateRule(before.Key(), func(rec *rule.Record) error {
		if newKey != nil {
			rec.Region, rec.Name = newKey.Region, newKey.Name
		}
		return in.apply(rec)
	}, note)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	changes := changelog.Compare(before, after)
	if len(changes) == 0 && before.Key() == after.Key() {
		_, _ = fmt.Fprintf(w, "%s %s\n", Primary(after.Key().String()), Text("is unchanged"))
		return nil
	}

	var fields []string
	for _, c := range changes {
		fields = append(fields, c.Field)
	}
	if before.Key() != after.Key() {
		fields = append(fields, "key "+before.Key().String()+" -> "+after.Key().String())
	}
	_, _ = fmt.Fprintf(w, "%s %s %s\n", Text("updated"), Primary(after.Key().String()),
		Silent("("+strings.Join(fields, ", ")+")"))
	return nil
}
