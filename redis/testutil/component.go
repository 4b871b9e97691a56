package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/modeloptions/component"
	"github.com/kbukum/modeloptions/logger"
	"github.com/kbukum/modeloptions/options"
	"github.com/kbukum/modeloptions/redis"
	roottestutil "github.com/kbukum/modeloptions/testutil"
)

// Component runs redis.Component against an in-process miniredis server.
type Component struct {
	mini    *miniredis.Miniredis
	inner   *redis.Component
	cfg     redis.Config
	started bool
	mu      sync.RWMutex
}

var (
	_ component.Component        = (*Component)(nil)
	_ roottestutil.TestComponent = (*Component)(nil)
)

// Snapshot maps each Redis key to its value and remaining TTL.
type Snapshot map[string]Entry

// Entry is one snapshotted key. A zero TTL never expires.
type Entry struct {
	Value string
	TTL   time.Duration
}

// NewComponent creates a test component with no key prefix and no TTL.
func NewComponent() *Component {
	return &Component{cfg: redis.Config{Enabled: true, Name: "redis-test"}}
}

// WithOptionTTL sets the slot TTL, e.g. "1h". Use FastForward to expire.
func (c *Component) WithOptionTTL(ttl string) *Component {
	c.cfg.OptionTTL = ttl
	return c
}

// WithKeyPrefix namespaces slot keys.
func (c *Component) WithKeyPrefix(prefix string) *Component {
	c.cfg.KeyPrefix = prefix
	return c
}

// Name returns the component name.
func (c *Component) Name() string { return c.cfg.Name }

// Addr returns the miniredis address, or "" if not started.
func (c *Component) Addr() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.mini == nil {
		return ""
	}
	return c.mini.Addr()
}

// Client returns the started client, or nil.
func (c *Component) Client() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.inner == nil {
		return nil
	}
	return c.inner.Client()
}

// CachedStore returns the cached option store, or nil if not started.
func (c *Component) CachedStore() *options.CachedStore {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.inner == nil {
		return nil
	}
	return c.inner.CachedStore()
}

// Start launches miniredis and connects the wrapped component to it.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return fmt.Errorf("component already started")
	}
	mini, err := miniredis.Run()
	if err != nil {
		return fmt.Errorf("failed to start miniredis: %w", err)
	}

	cfg := c.cfg
	cfg.Addr = mini.Addr()
	inner := redis.NewComponent(cfg, logger.NewNop())
	if err := inner.Start(ctx); err != nil {
		mini.Close()
		return err
	}
	c.mini, c.inner, c.started = mini, inner, true
	return nil
}

// Stop closes the client and the server. All keys are lost.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}
	err := c.inner.Stop(ctx)
	c.mini.Close()
	c.started = false
	return err
}

// Health reports the wrapped component's health.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "not started",
		}
	}
	h := c.inner.Health(ctx)
	h.Name = c.Name()
	return h
}

// FastForward advances miniredis time so keys with a TTL expire.
func (c *Component) FastForward(d time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.mini != nil {
		c.mini.FastForward(d)
	}
}

// Reset flushes every key.
func (c *Component) Reset(_ context.Context) error {
	mini, err := c.server()
	if err != nil {
		return err
	}
	mini.FlushAll()
	return nil
}

// Snapshot captures every string key with its TTL.
func (c *Component) Snapshot(_ context.Context) (interface{}, error) {
	mini, err := c.server()
	if err != nil {
		return nil, err
	}
	snap := make(Snapshot)
	for _, key := range mini.Keys() {
		val, err := mini.Get(key)
		if err != nil {
			continue
		}
		snap[key] = Entry{Value: val, TTL: mini.TTL(key)}
	}
	return snap, nil
}

// Restore flushes Redis and writes back a Snapshot.
func (c *Component) Restore(_ context.Context, snap interface{}) error {
	entries, ok := snap.(Snapshot)
	if !ok {
		return fmt.Errorf("invalid snapshot type: expected testutil.Snapshot, got %T", snap)
	}
	mini, err := c.server()
	if err != nil {
		return err
	}
	mini.FlushAll()
	for key, e := range entries {
		if err := mini.Set(key, e.Value); err != nil {
			return fmt.Errorf("failed to restore key %q: %w", key, err)
		}
		if e.TTL > 0 {
			mini.SetTTL(key, e.TTL)
		}
	}
	return nil
}

func (c *Component) server() (*miniredis.Miniredis, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.started {
		return nil, fmt.Errorf("component not started")
	}
	return c.mini, nil
}
