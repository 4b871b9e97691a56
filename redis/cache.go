package redis

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"math"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/modeloptions/errors"
	"github.com/kbukum/modeloptions/options"
	"github.com/kbukum/modeloptions/sniff"
)

// OptionCache stores option slots as JSON strings in Redis. It implements
// options.Cache.
type OptionCache struct {
	client    *Client
	keyPrefix string
	ttl       time.Duration
}

// NewOptionCache creates an OptionCache. Slot keys are prefixed with
// keyPrefix and a colon when keyPrefix is set. A zero ttl never expires.
func NewOptionCache(client *Client, keyPrefix string, ttl time.Duration) *OptionCache {
	return &OptionCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Key returns the Redis key of a slot.
func (c *OptionCache) Key(slot string) string {
	if c.keyPrefix == "" {
		return slot
	}
	return c.keyPrefix + ":" + slot
}

// Get decodes the slot. Numbers written with a fraction or exponent come
// back as float64; others as int when in range, float64 otherwise. A value that is not JSON is returned as the raw
// string.
func (c *OptionCache) Get(ctx context.Context, slot string) (any, bool, error) {
	raw, err := c.client.Get(ctx, c.Key(slot))
	if stderrors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return decode(raw), true, nil
}

// Set encodes value as JSON and writes the slot with the configured TTL.
// Integral floats keep a ".0" so they are not read back as ints.
func (c *OptionCache) Set(ctx context.Context, slot string, value any) error {
	data, err := encode(value)
	if err != nil {
		return errors.InvalidInput("value", "cannot be cached: "+err.Error()).WithCause(err)
	}
	return c.client.Set(ctx, c.Key(slot), data, c.ttl)
}

// Delete removes the slot. A missing slot is not an error.
func (c *OptionCache) Delete(ctx context.Context, slot string) error {
	return c.client.Del(ctx, c.Key(slot))
}

func encode(value any) ([]byte, error) {
	switch f := value.(type) {
	case float64:
		if !math.IsInf(f, 0) && !math.IsNaN(f) {
			return []byte(sniff.FormatFloat(f, 64)), nil
		}
	case float32:
		if g := float64(f); !math.IsInf(g, 0) && !math.IsNaN(g) {
			return []byte(sniff.FormatFloat(g, 32)), nil
		}
	}
	return json.Marshal(value)
}

func decode(raw string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return normalize(v)
}

func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if strings.ContainsAny(string(t), ".eE") {
			f, _ := t.Float64()
			return f
		}
		if i, err := t.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = normalize(t[k])
		}
		return t
	default:
		return v
	}
}

var _ options.Cache = (*OptionCache)(nil)
