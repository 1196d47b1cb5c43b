package cache

import (
	"strings"

	"github.com/Flyrell/redday/internal/rule"
)

const (
	iconBankHoliday = "flag"
	iconObservance  = "star"
)

var categoryIcons = map[rule.Category]string{
	rule.CategoryNational:    "flag",
	rule.CategoryReligious:   "church",
	rule.CategoryChristmas:   "gift",
	rule.CategoryEaster:      "egg",
	rule.CategoryNewYear:     "sparkles",
	rule.CategoryFamily:      "heart",
	rule.CategorySeason:      "sun",
	rule.CategoryLabor:       "hammer",
	rule.CategoryRemembrance: "candle",
	rule.CategoryLunar:       "moon",
}

// keywordIcons is checked in order against the lower-cased name and title
// of rules that have neither an icon nor a category.
var keywordIcons = []struct {
	keyword string
	icon    string
}{
	{"christmas", "gift"},
	{"xmas", "gift"},
	{"jul", "gift"},
	{"easter", "egg"},
	{"pask", "egg"},
	{"midsommar", "sun"},
	{"midsummer", "sun"},
	{"solstice", "sun"},
	{"equinox", "leaf"},
	{"new_year", "sparkles"},
	{"new year", "sparkles"},
	{"nyar", "sparkles"},
	{"halloween", "moon"},
	{"mother", "heart"},
	{"father", "heart"},
	{"mors_dag", "heart"},
	{"fars_dag", "heart"},
	{"valentin", "heart"},
	{"national", "flag"},
}

// resolveIcon picks the icon for r: the explicit icon, then the category
// table, then the keyword table, then a flag or star.
func resolveIcon(r rule.Rule) string {
	if r.Icon != "" {
		return r.Icon
	}
	if icon, ok := categoryIcons[r.Category]; ok {
		return icon
	}

	text := strings.ToLower(r.Key.Name + " " + r.Title)
	for _, k := range keywordIcons {
		if strings.Contains(text, k.keyword) {
			return k.icon
		}
	}

	if r.BankHoliday {
		return iconBankHoliday
	}
	return iconObservance
}
