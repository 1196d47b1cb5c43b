// Package catalog holds the built-in holiday rules shipped with redday.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Flyrell/redday/internal/hashutil"
	"github.com/Flyrell/redday/internal/rule"
)

//go:embed catalog.yaml
var builtin []byte

// Migration renames a rule stored under a legacy literal name to its
// namespaced key.
type Migration struct {
	Region string `yaml:"region"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
}

// FromKey returns the identity of the legacy rule.
func (m Migration) FromKey() rule.Key {
	return rule.Key{Region: m.Region, Name: m.From}
}

// ToKey returns the identity the rule is migrated to.
func (m Migration) ToKey() rule.Key {
	return rule.Key{Region: m.Region, Name: m.To}
}

// Catalog is a versioned, read-only set of default rules.
type Catalog struct {
	Version     int
	Fingerprint string

	rules      []rule.Record
	index      map[rule.Key]int
	migrations []Migration
}

type ruleYAML struct {
	Name          string        `yaml:"name"`
	Type          rule.Kind     `yaml:"type"`
	BankHoliday   bool          `yaml:"bank_holiday"`
	Month         *int          `yaml:"month"`
	Day           *int          `yaml:"day"`
	DaysOffset    *int          `yaml:"days_offset"`
	Weekday       *int          `yaml:"weekday"`
	Ordinal       *int          `yaml:"ordinal"`
	DayRangeStart *int          `yaml:"day_range_start"`
	DayRangeEnd   *int          `yaml:"day_range_end"`
	Title         string        `yaml:"title"`
	Icon          string        `yaml:"icon"`
	IconColor     string        `yaml:"icon_color"`
	Category      rule.Category `yaml:"category"`
}

type fileYAML struct {
	Version    int                   `yaml:"version"`
	Global     []ruleYAML            `yaml:"global"`
	Regions    map[string][]ruleYAML `yaml:"regions"`
	Migrations []Migration           `yaml:"migrations"`
}

func (r ruleYAML) record(region string) rule.Record {
	return rule.Record{
		Region:        region,
		Name:          r.Name,
		Type:          r.Type,
		BankHoliday:   r.BankHoliday,
		Month:         r.Month,
		Day:           r.Day,
		DaysOffset:    r.DaysOffset,
		Weekday:       r.Weekday,
		Ordinal:       r.Ordinal,
		DayRangeStart: r.DayRangeStart,
		DayRangeEnd:   r.DayRangeEnd,
		Title:         r.Title,
		Icon:          r.Icon,
		IconColor:     r.IconColor,
		Category:      r.Category,
		Provenance:    rule.ProvenanceSystem,
	}
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog. It panics if the embedded file is
// broken, which the package tests rule out.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(builtin)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Parse decodes a catalog document. Every rule must validate and keys must
// be unique.
func Parse(data []byte) (*Catalog, error) {
	var f fileYAML
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		Version:     f.Version,
		Fingerprint: hashutil.Fingerprint(data),
		index:       make(map[rule.Key]int),
		migrations:  f.Migrations,
	}

	add := func(region string, entries []ruleYAML) error {
		for _, e := range entries {
			rec := e.record(region)
			if err := rule.Validate(rec); err != nil {
				return fmt.Errorf("catalog rule %s: %w", rec.Key(), err)
			}
			if _, dup := c.index[rec.Key()]; dup {
				return fmt.Errorf("catalog rule %s defined twice", rec.Key())
			}
			c.index[rec.Key()] = len(c.rules)
			c.rules = append(c.rules, rec)
		}
		return nil
	}

	if err := add("", f.Global); err != nil {
		return nil, err
	}

	regions := make([]string, 0, len(f.Regions))
	for code := range f.Regions {
		regions = append(regions, code)
	}
	sort.Strings(regions)
	for _, code := range regions {
		if code != strings.ToUpper(code) || code == "" {
			return nil, fmt.Errorf("catalog region %q must be an upper-case code", code)
		}
		if err := add(code, f.Regions[code]); err != nil {
			return nil, err
		}
	}

	for _, m := range f.Migrations {
		if m.From == "" || m.To == "" {
			return nil, fmt.Errorf("catalog migration %q -> %q is incomplete", m.From, m.To)
		}
		if _, ok := c.index[m.ToKey()]; !ok {
			return nil, fmt.Errorf("catalog migration target %s not in catalog", m.ToKey())
		}
	}

	return c, nil
}

// Rules returns copies of every rule in the catalog.
func (c *Catalog) Rules() []rule.Record {
	out := make([]rule.Record, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.Clone()
	}
	return out
}

// ForRegion returns copies of the rules of one region ("" for global rules).
func (c *Catalog) ForRegion(region string) []rule.Record {
	var out []rule.Record
	for _, r := range c.rules {
		if r.Region == region {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Lookup returns the default definition of key.
func (c *Catalog) Lookup(key rule.Key) (rule.Record, bool) {
	i, ok := c.index[key]
	if !ok {
		return rule.Record{}, false
	}
	return c.rules[i].Clone(), true
}

// Regions returns the region codes the catalog has rules for, sorted.
func (c *Catalog) Regions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range c.rules {
		if r.Region != "" && !seen[r.Region] {
			seen[r.Region] = true
			out = append(out, r.Region)
		}
	}
	sort.Strings(out)
	return out
}

// HasRegion reports whether the catalog knows the region code.
func (c *Catalog) HasRegion(code string) bool {
	for _, r := range c.Regions() {
		if r == code {
			return true
		}
	}
	return false
}

// Migrations returns the legacy-name renames in declaration order.
func (c *Catalog) Migrations() []Migration {
	return append([]Migration(nil), c.migrations...)
}
