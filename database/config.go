package database

import (
	"strings"

	"github.com/kbukum/modeloptions/validation"
)

// DriverSQLite is the only driver with a built-in dialector. Other drivers
// are supplied through Component.WithDriver.
const DriverSQLite = "sqlite"

// Config is the database section. Durations are strings like "5m".
type Config struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Name    string `yaml:"name" mapstructure:"name"`     // label in logs and health reports
	Driver  string `yaml:"driver" mapstructure:"driver"` // picks dialector and migration driver
	DSN     string `yaml:"dsn" mapstructure:"dsn"`

	MaxOpenConns    int    `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime string `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
	MaxRetries      int    `yaml:"max_retries" mapstructure:"max_retries"` // connect attempts

	// AutoMigrate creates the options table with GORM on startup;
	// RunMigrations applies the versioned SQL migrations instead.
	AutoMigrate   bool `yaml:"auto_migrate" mapstructure:"auto_migrate"`
	RunMigrations bool `yaml:"run_migrations" mapstructure:"run_migrations"`

	SlowQueryThreshold string `yaml:"slow_query_threshold" mapstructure:"slow_query_threshold"`
	LogLevel           string `yaml:"log_level" mapstructure:"log_level"` // silent, error, warn or info
}

var configDefaults = Config{
	Name:               "database",
	Driver:             DriverSQLite,
	MaxOpenConns:       25,
	MaxIdleConns:       5,
	ConnMaxLifetime:    "1h",
	ConnMaxIdleTime:    "5m",
	MaxRetries:         5,
	SlowQueryThreshold: "200ms",
	LogLevel:           "warn",
}

// ApplyDefaults fills empty strings and non-positive numbers from
// configDefaults.
func (c *Config) ApplyDefaults() {
	d := configDefaults
	fill(&c.Name, d.Name)
	fill(&c.Driver, d.Driver)
	fill(&c.ConnMaxLifetime, d.ConnMaxLifetime)
	fill(&c.ConnMaxIdleTime, d.ConnMaxIdleTime)
	fill(&c.SlowQueryThreshold, d.SlowQueryThreshold)
	fill(&c.LogLevel, d.LogLevel)
	fillPositive(&c.MaxOpenConns, d.MaxOpenConns)
	fillPositive(&c.MaxIdleConns, d.MaxIdleConns)
	fillPositive(&c.MaxRetries, d.MaxRetries)
}

func fill(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func fillPositive(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

// Validate checks that required fields are present and parseable.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	v := validation.New()
	v.Required("database.dsn", c.DSN)
	v.Required("database.driver", c.Driver)
	v.Min("database.max_open_conns", c.MaxOpenConns, 1)
	v.Min("database.max_idle_conns", c.MaxIdleConns, 1)
	v.Custom(c.MaxIdleConns <= c.MaxOpenConns, "database.max_idle_conns", "must be <= max_open_conns")
	v.Min("database.max_retries", c.MaxRetries, 1)
	v.OneOf("database.log_level", strings.ToLower(c.LogLevel), []string{"silent", "error", "warn", "info"})
	v.Duration("database.conn_max_lifetime", c.ConnMaxLifetime, true)
	v.Duration("database.conn_max_idle_time", c.ConnMaxIdleTime, false)
	v.Duration("database.slow_query_threshold", c.SlowQueryThreshold, true)
	return v.Err()
}

// InMemory reports whether the DSN points at a private in-memory sqlite
// database, which only survives on a single connection.
func (c *Config) InMemory() bool {
	return c.Driver == DriverSQLite && strings.Contains(c.DSN, ":memory:")
}
