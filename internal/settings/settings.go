// Package settings reads and writes the redday configuration file and
// applies environment overrides on top of it.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	// DefaultSpan is the number of years cached on each side of the current year.
	DefaultSpan = 2
	// MaxRegions is how many regions can be selected at once.
	MaxRegions = 2

	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Environment variables that override the config file.
const (
	EnvHome         = "REDDAY_HOME"
	EnvStorage      = "REDDAY_STORAGE"
	EnvLogLevel     = "REDDAY_LOG_LEVEL"
	EnvRegions      = "REDDAY_REGIONS"
	EnvShowHolidays = "REDDAY_SHOW_HOLIDAYS"
	EnvCacheSpan    = "REDDAY_CACHE_SPAN"
)

// Settings is the content of config.json.
type Settings struct {
	ShowHolidays   *bool    `json:"show_holidays,omitempty"`
	Regions        []string `json:"regions,omitempty" validate:"max=2,dive,alpha"`
	CacheSpanYears *int     `json:"cache_span_years,omitempty" validate:"omitnil,min=0,max=50"`
	Locale         string   `json:"locale,omitempty"`
	Storage        string   `json:"storage,omitempty" validate:"omitempty,oneof=json sqlite"`
	LogLevel       string   `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`

	// Region is the single-region setting written by older versions.
	Region string `json:"region,omitempty"`
}

// Source supplies the current settings.
type Source interface {
	Load() (Settings, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (Settings, error)

// Load calls f.
func (f SourceFunc) Load() (Settings, error) {
	return f()
}

// Static returns a Source that always yields s.
func Static(s Settings) Source {
	return SourceFunc(func() (Settings, error) { return s, nil })
}

// HolidaysVisible reports whether occurrences should be shown at all.
func (s Settings) HolidaysVisible() bool {
	return s.ShowHolidays == nil || *s.ShowHolidays
}

// Span returns the cache span in years.
func (s Settings) Span() int {
	if s.CacheSpanYears == nil || *s.CacheSpanYears < 0 {
		return DefaultSpan
	}
	return *s.CacheSpanYears
}

// SelectedRegions returns the upper-cased, de-duplicated region codes,
// falling back to the legacy single region and capped at MaxRegions.
func (s Settings) SelectedRegions() []string {
	codes := s.Regions
	if len(codes) == 0 && s.Region != "" {
		codes = []string{s.Region}
	}

	seen := make(map[string]bool)
	var out []string
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
		if len(out) == MaxRegions {
			break
		}
	}
	return out
}

// Normalize moves the legacy region field into Regions.
func (s *Settings) Normalize() {
	s.Regions = s.SelectedRegions()
	s.Region = ""
}

// Validate checks field ranges.
func (s Settings) Validate() error {
	err := validator.New().Struct(s)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %v", fe.Namespace(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Dir returns the redday data directory: $REDDAY_HOME or ~/.redday.
func Dir(homeDir string) string {
	if d := os.Getenv(EnvHome); d != "" {
		return d
	}
	return filepath.Join(homeDir, ".redday")
}

// Path returns the path of config.json inside dir.
func Path(dir string) string {
	return filepath.Join(dir, "config.json")
}

// ReadFile reads config.json without environment overrides.
// A missing file yields zero settings.
func ReadFile(dir string) (Settings, error) {
	data, err := os.ReadFile(Path(dir))
	if errors.Is(err, os.ErrNotExist) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse %s: %w", Path(dir), err)
	}
	return s, nil
}

// WriteFile writes s to config.json, creating dir if needed.
func WriteFile(dir string, s Settings) error {
	s.Normalize()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(dir), data, 0644)
}

// Load reads config.json and applies overrides from the process environment
// and from dir/.env, in that order of precedence.
func Load(dir string) (Settings, error) {
	s, err := ReadFile(dir)
	if err != nil {
		return Settings{}, err
	}

	dotenv, err := godotenv.Read(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Settings{}, fmt.Errorf("failed to read .env: %w", err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := s.applyEnv(lookup); err != nil {
		return Settings{}, err
	}
	s.Normalize()
	return s, nil
}

func (s *Settings) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvStorage); ok && v != "" {
		s.Storage = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		s.LogLevel = v
	}
	if v, ok := lookup(EnvRegions); ok {
		s.Regions = splitList(v)
		s.Region = ""
	}
	if v, ok := lookup(EnvShowHolidays); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvShowHolidays, err)
		}
		s.ShowHolidays = &b
	}
	if v, ok := lookup(EnvCacheSpan); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheSpan, err)
		}
		s.CacheSpanYears = &n
	}
	return nil
}

// File is a Source backed by a data directory.
type File struct {
	Dir string
}

// Load implements Source.
func (f File) Load() (Settings, error) {
	return Load(f.Dir)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
		out = append(out, part)
	}
	return out
}
