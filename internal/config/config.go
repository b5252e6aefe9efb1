// Package config loads application settings from YAML and the environment.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	Log        LogConfig        `yaml:"log"`
	DayClose   DayCloseConfig   `yaml:"dayclose"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Categories CategoriesConfig `yaml:"categories"`
	History    HistoryConfig    `yaml:"history"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"ADDR"                    env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	WSPingInterval  time.Duration `yaml:"ws_ping_interval" env:"SERVER_WS_PING_INTERVAL" env-default:"25s"`
}

// StoreConfig selects and tunes the key-value store backend.
type StoreConfig struct {
	Driver          string        `yaml:"driver"            env:"STORE_DRIVER"            env-default:"sqlite"`
	SQLitePath      string        `yaml:"sqlite_path"       env:"STORE_SQLITE_PATH"       env-default:"mealtrack.db"`
	PostgresURL     string        `yaml:"postgres_url"      env:"DATABASE_URL"`
	MaxOpenConns    int           `yaml:"max_open_conns"    env:"STORE_MAX_OPEN_CONNS"    env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns"    env:"STORE_MAX_IDLE_CONNS"    env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"STORE_CONN_MAX_LIFETIME" env-default:"5m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// DayCloseConfig controls the background job that closes the day.
type DayCloseConfig struct {
	Disabled bool          `yaml:"disabled" env:"DAYCLOSE_DISABLED"`
	At       string        `yaml:"at"       env:"DAYCLOSE_AT"       env-default:"23:50"`
	Interval time.Duration `yaml:"interval" env:"DAYCLOSE_INTERVAL" env-default:"30s"`
	Timezone string        `yaml:"timezone" env:"DAYCLOSE_TZ"       env-default:"Local"`

	// Hour and Minute are parsed from At during validation.
	Hour   int `yaml:"-"`
	Minute int `yaml:"-"`
	// Location is loaded from Timezone during validation.
	Location *time.Location `yaml:"-"`
}

// CatalogConfig holds meal catalog settings.
type CatalogConfig struct {
	// IDStrategy is "sequential" (persisted counter) or "random"
	// (collision-checked ids below 10000, matching older clients).
	IDStrategy string `yaml:"id_strategy" env:"CATALOG_ID_STRATEGY" env-default:"sequential"`
}

// CategoriesConfig holds category list settings.
type CategoriesConfig struct {
	// Snapshot shows category entries exactly as they were copied at
	// assignment time instead of resolving them against the live catalog.
	Snapshot bool `yaml:"snapshot" env:"CATEGORIES_SNAPSHOT"`
}

// HistoryConfig holds history display settings.
type HistoryConfig struct {
	RecentDays int `yaml:"recent_days" env:"HISTORY_RECENT_DAYS" env-default:"7"`
}
