package bootstrap

import (
	"time"

	"github.com/kbukum/modeloptions/config"
	"github.com/kbukum/modeloptions/database"
	"github.com/kbukum/modeloptions/observability"
	"github.com/kbukum/modeloptions/redis"
	"github.com/kbukum/modeloptions/validation"
)

// Cache backends accepted by CacheConfig.Backend.
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

// Config is the full configuration of an options service. It is loaded with
// config.Load:
//
//	var cfg bootstrap.Config
//	if err := config.Load("modeloptions", &cfg); err != nil { ... }
//	app, err := bootstrap.NewApp(&cfg)
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Database  database.Config      `yaml:"database" mapstructure:"database"`
	Redis     redis.Config         `yaml:"redis" mapstructure:"redis"`
	Cache     CacheConfig          `yaml:"cache" mapstructure:"cache"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// CacheConfig selects where cached options live.
type CacheConfig struct {
	// Backend is "redis" or "memory". Defaults to redis when redis is
	// enabled, memory otherwise.
	Backend string `yaml:"backend" mapstructure:"backend"`

	// TTL expires in-memory slots (e.g. "10m"). The redis backend uses
	// redis.option_ttl instead.
	TTL string `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()

	if c.Cache.Backend == "" {
		if c.Redis.Enabled {
			c.Cache.Backend = CacheRedis
		} else {
			c.Cache.Backend = CacheMemory
		}
	}
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section. The first failing section is reported.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}

	v := validation.New()
	v.OneOf("cache.backend", c.Cache.Backend, []string{CacheRedis, CacheMemory})
	v.Custom(c.Cache.Backend != CacheRedis || c.Redis.Enabled, "cache.backend", "redis backend requires redis.enabled")
	v.Duration("cache.ttl", c.Cache.TTL, false)
	v.Between("telemetry.sample_rate", c.Telemetry.SampleRate, 0, 1)
	return v.Err()
}

// MemoryTTL returns the parsed Cache.TTL, zero when unset.
func (c *Config) MemoryTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.TTL)
	return d
}
