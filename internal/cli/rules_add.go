package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/rule"
)

var rulesAddCmd = LeafCommand{
	Use:   "add <rule>",
	Short: "Create a custom rule",
	Args:  cobra.ExactArgs(1),
	Example: `  redday rules add "SE/Kanelbullens dag" --type fixed --month oct --day 4
  redday rules add SE/custom.skartorsdagen --type easter_relative --offset=-3
  redday rules add NO/custom.hyttetur --type floating --month feb --weekday fri --range 20-26`,
	StrFlags:  ruleStrFlags,
	IntFlags:  ruleIntFlags,
	BoolFlags: ruleBoolFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		note, _ := cmd.Flags().GetString("note")
		return runRulesAdd(cmd, dir, time.Now(), args[0], readRuleInput(cmd), note)
	},
}.Build()

func runRulesAdd(cmd *cobra.Command, dir string, now time.Time, arg string, in ruleInput, note string) error {
	key, title, err := parseNewKey(arg)
	if err != nil {
		return err
	}
	if in.Type == nil {
		return fmt.Errorf("--type is required")
	}

	rec := rule.Record{Region: key.Region, Name: key.Name, Title: title}
	if err := in.apply(&rec); err != nil {
		return err
	}

	a, err := openApp(cmd, dir, now)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	created, err := a.manager.CreateRule(rec, note)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
		Text("created"), Primary(created.Key().String()), Silent("("+rule.DescribeRecord(created)+")"))
	return nil
}
