package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate checks the configuration and fills derived fields.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case "memory", "sqlite":
	case "postgres":
		if c.Store.PostgresURL == "" {
			errs = append(errs, errors.New("store.postgres_url (DATABASE_URL) is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be memory, sqlite or postgres, got %q", c.Store.Driver))
	}
	if c.Store.Driver == "sqlite" && c.Store.SQLitePath == "" {
		errs = append(errs, errors.New("store.sqlite_path is required for the sqlite driver"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}

	at, err := time.Parse("15:04", c.DayClose.At)
	if err != nil {
		errs = append(errs, fmt.Errorf("dayclose.at must be HH:MM, got %q", c.DayClose.At))
	} else {
		c.DayClose.Hour, c.DayClose.Minute = at.Hour(), at.Minute()
	}
	if c.DayClose.Interval <= 0 {
		errs = append(errs, errors.New("dayclose.interval must be positive"))
	}
	loc, err := time.LoadLocation(c.DayClose.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("dayclose.timezone: %w", err))
	} else {
		c.DayClose.Location = loc
	}

	switch c.Catalog.IDStrategy {
	case "sequential", "random":
	default:
		errs = append(errs, fmt.Errorf("catalog.id_strategy must be sequential or random, got %q", c.Catalog.IDStrategy))
	}

	if c.History.RecentDays <= 0 {
		errs = append(errs, errors.New("history.recent_days must be positive"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}

	return errors.Join(errs...)
}
