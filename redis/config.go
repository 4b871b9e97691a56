package redis

import (
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cast"

	"github.com/kbukum/modeloptions/validation"
)

// Config is the redis section. Durations are strings like "3s" or "24h".
type Config struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Name     string `yaml:"name" mapstructure:"name"` // label in logs and health reports
	Addr     string `yaml:"addr" mapstructure:"addr"` // host:port
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`

	// KeyPrefix namespaces option slots as "<prefix>:<type>-<key>". Empty
	// leaves slot keys bare.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
	// OptionTTL expires option slots. Empty or "0" keeps them until deleted
	// or evicted.
	OptionTTL string `yaml:"option_ttl" mapstructure:"option_ttl"`

	PoolSize        int    `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns    int    `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	PoolTimeout     string `yaml:"pool_timeout" mapstructure:"pool_timeout"`
	ConnMaxIdleTime string `yaml:"idle_timeout" mapstructure:"idle_timeout"`

	MaxRetries      int    `yaml:"max_retries" mapstructure:"max_retries"`
	MinRetryBackoff string `yaml:"min_retry_backoff" mapstructure:"min_retry_backoff"`
	MaxRetryBackoff string `yaml:"max_retry_backoff" mapstructure:"max_retry_backoff"`

	DialTimeout  string `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  string `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout" mapstructure:"write_timeout"`
}

func (c *Config) ApplyDefaults() {
	setDefault(&c.Name, "redis")
	setDefault(&c.MinRetryBackoff, "8ms")
	setDefault(&c.MaxRetryBackoff, "512ms")
	setDefault(&c.DialTimeout, "5s")
	setDefault(&c.ReadTimeout, "3s")
	setDefault(&c.WriteTimeout, "3s")
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 2
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks an enabled section. A disabled one always passes.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	v := validation.New()
	v.Required("redis.addr", c.Addr)
	v.Min("redis.pool_size", c.PoolSize, 1)
	v.Min("redis.db", c.DB, 0)
	v.Duration("redis.dial_timeout", c.DialTimeout, false)
	v.Duration("redis.read_timeout", c.ReadTimeout, false)
	v.Duration("redis.write_timeout", c.WriteTimeout, false)
	v.Duration("redis.min_retry_backoff", c.MinRetryBackoff, false)
	v.Duration("redis.max_retry_backoff", c.MaxRetryBackoff, false)
	v.Duration("redis.idle_timeout", c.ConnMaxIdleTime, false)
	v.Duration("redis.pool_timeout", c.PoolTimeout, false)
	v.Duration("redis.option_ttl", c.OptionTTL, false)
	return v.Err()
}

// TTL returns the parsed OptionTTL, zero when unset.
func (c *Config) TTL() time.Duration { return cast.ToDuration(c.OptionTTL) }

// options translates c for go-redis. Unset durations stay zero so go-redis
// applies its own defaults.
func (c *Config) options() *goredis.Options {
	return &goredis.Options{
		Addr:            c.Addr,
		Password:        c.Password,
		DB:              c.DB,
		PoolSize:        c.PoolSize,
		MinIdleConns:    c.MinIdleConns,
		PoolTimeout:     cast.ToDuration(c.PoolTimeout),
		ConnMaxIdleTime: cast.ToDuration(c.ConnMaxIdleTime),
		MaxRetries:      c.MaxRetries,
		MinRetryBackoff: cast.ToDuration(c.MinRetryBackoff),
		MaxRetryBackoff: cast.ToDuration(c.MaxRetryBackoff),
		DialTimeout:     cast.ToDuration(c.DialTimeout),
		ReadTimeout:     cast.ToDuration(c.ReadTimeout),
		WriteTimeout:    cast.ToDuration(c.WriteTimeout),
	}
}
