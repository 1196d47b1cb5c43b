package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/cache"
	"github.com/Flyrell/redday/internal/catalog"
	"github.com/Flyrell/redday/internal/changelog"
	"github.com/Flyrell/redday/internal/rule"
	"github.com/Flyrell/redday/internal/settings"
	"github.com/Flyrell/redday/internal/store"
	"github.com/Flyrell/redday/internal/stringutil"
)

// app holds the collaborators a command needs for one invocation.
type app struct {
	dir      string
	settings settings.Settings
	logger   *log.Logger
	store    store.Store
	changes  *changelog.Log
	catalog  *catalog.Catalog
	manager  *cache.Manager
}

// dataDir resolves the redday data directory for the current user.
func dataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return settings.Dir(homeDir), nil
}

// openApp loads settings from dir, opens storage and builds the holiday
// cache as of now. Callers must Close the result.
func openApp(cmd *cobra.Command, dir string, now time.Time) (*app, error) {
	s, err := settings.Load(dir)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	logger := newLogger(cmd, s.LogLevel)
	clock := func() time.Time { return now }

	st, err := store.Open(s.Storage, dir)
	if err != nil {
		return nil, err
	}

	changes := changelog.New(store.ChangeBackend(st, dir), changelog.Options{Logger: logger})
	cat := catalog.Default()

	var seeds store.SeedMarker
	if sm, ok := st.(store.SeedMarker); ok {
		seeds = sm
	}

	manager, err := cache.New(cache.Options{
		Store:    st,
		Settings: settings.File{Dir: dir},
		Catalog:  cat,
		Changes:  changes,
		Logger:   logger,
		Now:      clock,
		Seeds:    seeds,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	if err := manager.Initialize(); err != nil {
		_ = st.Close()
		return nil, err
	}

	logger.Debug("cache ready", "dir", dir, "storage", s.Storage, "days", manager.Snapshot().Len())

	return &app{
		dir:      dir,
		settings: s,
		logger:   logger,
		store:    st,
		changes:  changes,
		catalog:  cat,
		manager:  manager,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func newLogger(cmd *cobra.Command, level string) *log.Logger {
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "redday"})
	lvl, err := log.ParseLevel(level)
	if err != nil || level == "" {
		lvl = log.WarnLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// label turns a rule name into the text shown to users.
func label(name string) string {
	return stringutil.Humanize(name)
}

func recordLabel(rec rule.Record) string {
	if strings.TrimSpace(rec.Title) != "" {
		return rec.Title
	}
	return label(rec.Name)
}

func occurrenceLabel(o cache.Occurrence) string {
	if o.Title != "" {
		return o.Title
	}
	return label(o.Name)
}

func styleOccurrence(o cache.Occurrence) string {
	if o.BankHoliday {
		return Bank(occurrenceLabel(o))
	}
	return Text(occurrenceLabel(o))
}

func regionLabel(region string) string {
	if region == "" {
		return "global"
	}
	return region
}
