package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Keys lists the settings accepted by Get and Set.
var Keys = []string{
	"show_holidays",
	"regions",
	"cache_span_years",
	"locale",
	"storage",
	"log_level",
}

// Get returns the effective value of key as text.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case "show_holidays":
		return strconv.FormatBool(s.HolidaysVisible()), nil
	case "regions":
		return strings.Join(s.SelectedRegions(), ","), nil
	case "cache_span_years":
		return strconv.Itoa(s.Span()), nil
	case "locale":
		return s.Locale, nil
	case "storage":
		if s.Storage == "" {
			return StorageJSON, nil
		}
		return s.Storage, nil
	case "log_level":
		if s.LogLevel == "" {
			return "warn", nil
		}
		return s.LogLevel, nil
	}
	return "", fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys, ", "))
}

// Set parses value into key and validates the result.
func (s *Settings) Set(key, value string) error {
	next := *s
	value = strings.TrimSpace(value)

	switch key {
	case "show_holidays":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("show_holidays must be true or false")
		}
		next.ShowHolidays = &b
	case "regions":
		codes := splitList(strings.ToUpper(value))
		if len(codes) > MaxRegions {
			return fmt.Errorf("at most %d regions can be selected", MaxRegions)
		}
		next.Regions = codes
		next.Region = ""
	case "cache_span_years":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cache_span_years must be a number")
		}
		next.CacheSpanYears = &n
	case "locale":
		next.Locale = value
	case "storage":
		next.Storage = strings.ToLower(value)
	case "log_level":
		next.LogLevel = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys, ", "))
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}
