package redis

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/modeloptions/logger"
)

// Client is the go-redis client the option cache talks through.
type Client struct {
	rdb    *goredis.Client
	log    *logger.Logger
	cfg    Config
	closed atomic.Bool
	once   sync.Once
}

// New builds a client for an enabled cfg. It does not dial; Ping does.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if !cfg.Enabled {
		return nil, fmt.Errorf("redis is disabled")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	log.Info("Redis client created", logger.Fields("addr", cfg.Addr, "db", cfg.DB, "pool_size", cfg.PoolSize))
	return &Client{rdb: goredis.NewClient(cfg.options()), log: log, cfg: cfg}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// IsAvailable reports whether the client is open and answers a ping.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return !c.closed.Load() && c.Ping(ctx) == nil
}

// Get returns goredis.Nil for a missing key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

// Set writes key. A zero ttl keeps it until deleted.
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Del ignores missing keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// Exists counts how many of keys are present.
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	return c.rdb.Exists(ctx, keys...).Result()
}

// Close releases the pool. Calls after the first return nil.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	var err error
	c.once.Do(func() {
		c.log.Info("Closing Redis connection")
		c.closed.Store(true)
		err = c.rdb.Close()
	})
	return err
}
