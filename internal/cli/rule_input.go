package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/rule"
	"github.com/Flyrell/redday/internal/stringutil"
)

// Flags shared by "rules add" and "rules edit".
var ruleStrFlags = []StringFlag{
	{Name: "type", Usage: "fixed, easter_relative, floating, nth_weekday, lunar or astronomical"},
	{Name: "month", Usage: "month number or name"},
	{Name: "weekday", Usage: "weekday name or number (1 = Sunday)"},
	{Name: "ordinal", Usage: "first, second, third, fourth or last"},
	{Name: "range", Usage: "day range for floating rules, e.g. 20-26"},
	{Name: "season", Usage: "spring, summer, autumn or winter (astronomical rules)"},
	{Name: "title", Usage: "display title"},
	{Name: "icon", Usage: "icon name"},
	{Name: "color", Usage: "icon color"},
	{Name: "category", Usage: "category tag, e.g. national or christmas"},
	{Name: "note", Usage: "note stored in the change log"},
}

var ruleIntFlags = []IntFlag{
	{Name: "day", Usage: "day of month"},
	{Name: "offset", Usage: "days relative to Easter Sunday (use --offset=-2 for before)"},
}

var ruleBoolFlags = []BoolFlag{
	{Name: "bank", Usage: "mark as a bank holiday"},
}

// ruleInput holds the rule fields given on the command line. Nil means the
// flag was not set.
type ruleInput struct {
	Type     *string
	Month    *string
	Day      *int
	Offset   *int
	Weekday  *string
	Ordinal  *string
	Range    *string
	Season   *string
	Bank     *bool
	Title    *string
	Icon     *string
	Color    *string
	Category *string
}

func readRuleInput(cmd *cobra.Command) ruleInput {
	var in ruleInput
	f := cmd.Flags()
	str := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}
	num := func(name string) *int {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetInt(name)
		return &v
	}

	in.Type = str("type")
	in.Month = str("month")
	in.Day = num("day")
	in.Offset = num("offset")
	in.Weekday = str("weekday")
	in.Ordinal = str("ordinal")
	in.Range = str("range")
	in.Season = str("season")
	in.Title = str("title")
	in.Icon = str("icon")
	in.Color = str("color")
	in.Category = str("category")
	if f.Changed("bank") {
		v, _ := f.GetBool("bank")
		in.Bank = &v
	}
	return in
}

func (in ruleInput) empty() bool {
	return in == ruleInput{}
}

// apply writes the given fields into rec. Changing the type clears the
// parameters of the previous type.
func (in ruleInput) apply(rec *rule.Record) error {
	if in.Type != nil {
		kind := rule.Kind(strings.ToLower(strings.TrimSpace(*in.Type)))
		if !kind.Valid() {
			return fmt.Errorf("unknown rule type %q", *in.Type)
		}
		if kind != rec.Type {
			rec.Month, rec.Day, rec.DaysOffset = nil, nil, nil
			rec.Weekday, rec.Ordinal = nil, nil
			rec.DayRangeStart, rec.DayRangeEnd = nil, nil
		}
		rec.Type = kind
	}

	if in.Month != nil {
		m, err := parseMonth(*in.Month)
		if err != nil {
			return err
		}
		rec.Month = rule.Int(m)
	}
	if in.Season != nil {
		m, err := parseSeason(*in.Season)
		if err != nil {
			return err
		}
		rec.Month = rule.Int(m)
	}
	if in.Day != nil {
		rec.Day = rule.Int(*in.Day)
	}
	if in.Offset != nil {
		rec.DaysOffset = rule.Int(*in.Offset)
	}
	if in.Weekday != nil {
		wd, err := parseWeekday(*in.Weekday)
		if err != nil {
			return err
		}
		rec.Weekday = rule.Int(wd)
	}
	if in.Ordinal != nil {
		n, err := parseOrdinal(*in.Ordinal)
		if err != nil {
			return err
		}
		rec.Ordinal = rule.Int(n)
	}
	if in.Range != nil {
		start, end, err := parseRange(*in.Range)
		if err != nil {
			return err
		}
		rec.DayRangeStart, rec.DayRangeEnd = rule.Int(start), rule.Int(end)
	}

	if in.Bank != nil {
		rec.BankHoliday = *in.Bank
	}
	if in.Title != nil {
		rec.Title = strings.TrimSpace(*in.Title)
	}
	if in.Icon != nil {
		rec.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.Color != nil {
		rec.IconColor = strings.TrimSpace(*in.Color)
	}
	if in.Category != nil {
		rec.Category = rule.Category(strings.ToLower(strings.TrimSpace(*in.Category)))
	}
	return nil
}

// parseNewKey reads the key of a rule being created. A plain name such as
// "Kanelbullens dag" becomes "custom.kanelbullens_dag" and is returned as the
// suggested title.
func parseNewKey(s string) (rule.Key, string, error) {
	key, err := rule.ParseKey(s)
	if err != nil {
		return rule.Key{}, "", err
	}
	if strings.Contains(key.Name, ".") && !strings.ContainsAny(key.Name, " ") {
		return key, "", nil
	}

	slug := stringutil.Slugify(key.Name)
	if slug == "" {
		return rule.Key{}, "", fmt.Errorf("invalid rule name %q", key.Name)
	}
	title := strings.TrimSpace(key.Name)
	key.Name = "custom." + slug
	return key, title, nil
}

func parseMonth(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month must be between 1 and 12")
		}
		return n, nil
	}
	if len(s) >= 3 {
		for m := time.January; m <= time.December; m++ {
			if strings.HasPrefix(strings.ToLower(m.String()), s) {
				return int(m), nil
			}
		}
	}
	return 0, fmt.Errorf("unknown month %q", s)
}

// parseWeekday returns 1 for Sunday through 7 for Saturday.
func parseWeekday(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 7 {
			return 0, fmt.Errorf("weekday must be between 1 (Sunday) and 7 (Saturday)")
		}
		return n, nil
	}
	if len(s) >= 2 {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if strings.HasPrefix(strings.ToLower(wd.String()), s) {
				return int(wd) + 1, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

var ordinalWords = map[string]int{
	"first": 1, "1st": 1,
	"second": 2, "2nd": 2,
	"third": 3, "3rd": 3,
	"fourth": 4, "4th": 4,
	"last": -1,
}

func parseOrdinal(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, ok := ordinalWords[s]; ok {
		return n, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || (n != -1 && (n < 1 || n > 4)) {
		return 0, fmt.Errorf("ordinal must be first, second, third, fourth or last")
	}
	return n, nil
}

func parseRange(s string) (int, int, error) {
	a, b, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return 0, 0, fmt.Errorf("range must look like 20-26")
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(a))
	end, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("range must look like 20-26")
	}
	return start, end, nil
}

var seasons = map[string]rule.Season{
	"spring": rule.SpringEquinox,
	"summer": rule.SummerSolstice,
	"autumn": rule.AutumnEquinox,
	"fall":   rule.AutumnEquinox,
	"winter": rule.WinterSolstice,
}

func parseSeason(s string) (int, error) {
	season, ok := seasons[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("season must be spring, summer, autumn or winter")
	}
	return int(season), nil
}
