package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/modeloptions/component"
	"github.com/kbukum/modeloptions/logger"
	"github.com/kbukum/modeloptions/observability"
	"github.com/kbukum/modeloptions/options"
)

// Component owns the redis connection and the cached store built on it.
type Component struct {
	client  *Client
	cache   *OptionCache
	store   *options.CachedStore
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics
}

// NewComponent applies cfg's defaults. Nothing connects before Start.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Component{cfg: cfg, log: log.WithComponent(cfg.Name)}
}

// WithMetrics records cached store metrics on m.
func (c *Component) WithMetrics(m *observability.Metrics) *Component {
	c.metrics = m
	return c
}

// Client returns the underlying *Client, or nil if not started.
func (c *Component) Client() *Client { return c.client }

// OptionCache returns the Redis-backed slot cache, or nil if not started.
func (c *Component) OptionCache() *OptionCache { return c.cache }

// CachedStore returns the cached option store, or nil if not started.
func (c *Component) CachedStore() *options.CachedStore { return c.store }

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Name returns the component name.
func (c *Component) Name() string { return c.cfg.Name }

// Start creates the client, checks connectivity and builds the cached store.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("redis start: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis start: %w", err)
	}

	c.client = client
	c.cache = NewOptionCache(client, c.cfg.KeyPrefix, c.cfg.TTL())
	c.store = options.NewCachedStore(c.cache).WithMetrics(c.metrics)
	return nil
}

// Stop closes the connection. The cached store fails from then on.
func (c *Component) Stop(_ context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Health pings Redis.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusUnhealthy}
	switch {
	case c.client == nil:
		h.Message = "redis not initialized"
	case c.client.closed.Load():
		h.Message = "redis connection closed"
	default:
		if err := c.client.Ping(ctx); err != nil {
			h.Message = err.Error()
		} else {
			h.Status = component.StatusHealthy
		}
	}
	return h
}

// Describe returns a startup summary of the connection.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s db=%d pool=%d", c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize)
	if ttl := c.cfg.TTL(); ttl > 0 {
		details += " ttl=" + ttl.String()
	}
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: details,
	}
}
