package options

import (
	"context"

	"github.com/kbukum/modeloptions/errors"
	"github.com/kbukum/modeloptions/logger"
	"github.com/kbukum/modeloptions/observability"
	"github.com/kbukum/modeloptions/owner"
	"github.com/kbukum/modeloptions/sniff"
	"github.com/kbukum/modeloptions/validation"
)

// StoreCached labels spans and metrics of CachedStore.
const StoreCached = "cached"

// CacheKeyPrefixer lets an owner replace its type tag in cache keys.
type CacheKeyPrefixer interface {
	CacheKeyPrefix() string
}

// Discriminator returns the cache scope of o: CacheKeyPrefix when o
// implements CacheKeyPrefixer, otherwise its owner type.
func Discriminator(o owner.Owner) string {
	if p, ok := o.(CacheKeyPrefixer); ok {
		return p.CacheKeyPrefix()
	}
	return o.OwnerType()
}

// CacheKey returns the slot key for key under o's discriminator.
func CacheKey(o owner.Owner, key string) string {
	return Discriminator(o) + "-" + key
}

// CachedStore keeps options in a Cache, scoped by owner type rather than
// owner instance. Absent, evicted and falsy slots are indistinguishable.
type CachedStore struct {
	cache   Cache
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewCachedStore creates a CachedStore over cache.
func NewCachedStore(cache Cache) *CachedStore {
	return &CachedStore{
		cache: cache,
		log:   logger.Get("options"),
	}
}

// WithMetrics records operation metrics on m.
func (s *CachedStore) WithMetrics(m *observability.Metrics) *CachedStore {
	s.metrics = m
	return s
}

// SetOption overwrites the slot for key.
func (s *CachedStore) SetOption(ctx context.Context, o owner.Owner, key string, value any) (err error) {
	scope, err := s.scope(o)
	if err != nil {
		return err
	}
	ctx, op := observability.StartOperation(ctx, s.metrics, StoreCached, observability.SpanSetOption, scope, key)
	defer func() { op.End(ctx, err) }()

	ck := scope + "-" + key
	if err := s.cache.Set(ctx, ck, value); err != nil {
		return s.fail(ctx, "set_option", ck, err)
	}
	return nil
}

// GetOption returns the sniffed slot value, or def when the slot is absent
// or holds a falsy value.
func (s *CachedStore) GetOption(ctx context.Context, o owner.Owner, key string, def any) (_ any, err error) {
	scope, err := s.scope(o)
	if err != nil {
		return nil, err
	}
	ctx, op := observability.StartOperation(ctx, s.metrics, StoreCached, observability.SpanGetOption, scope, key)
	defer func() { op.End(ctx, err) }()

	ck := scope + "-" + key
	v, found, err := s.cache.Get(ctx, ck)
	if err != nil {
		return nil, s.fail(ctx, "get_option", ck, err)
	}
	if !found || !Truthy(v) {
		op.SetOutcome(observability.OutcomeMiss)
		return def, nil
	}
	op.SetOutcome(observability.OutcomeHit)
	return sniff.Detect(v), nil
}

// HasOption applies the same presence test as GetOption.
func (s *CachedStore) HasOption(ctx context.Context, o owner.Owner, key string) (_ bool, err error) {
	scope, err := s.scope(o)
	if err != nil {
		return false, err
	}
	ctx, op := observability.StartOperation(ctx, s.metrics, StoreCached, observability.SpanHasOption, scope, key)
	defer func() { op.End(ctx, err) }()

	ck := scope + "-" + key
	v, found, err := s.cache.Get(ctx, ck)
	if err != nil {
		return false, s.fail(ctx, "has_option", ck, err)
	}
	present := found && Truthy(v)
	if present {
		op.SetOutcome(observability.OutcomeHit)
	} else {
		op.SetOutcome(observability.OutcomeMiss)
	}
	return present, nil
}

// DeleteOption removes the slot. Removing an absent slot succeeds.
func (s *CachedStore) DeleteOption(ctx context.Context, o owner.Owner, key string) (err error) {
	scope, err := s.scope(o)
	if err != nil {
		return err
	}
	ctx, op := observability.StartOperation(ctx, s.metrics, StoreCached, observability.SpanDeleteOption, scope, key)
	defer func() { op.End(ctx, err) }()

	ck := scope + "-" + key
	if err := s.cache.Delete(ctx, ck); err != nil {
		return s.fail(ctx, "delete_option", ck, err)
	}
	return nil
}

func (s *CachedStore) scope(o owner.Owner) (string, error) {
	if o == nil {
		return "", errors.InvalidInput("owner", "must not be nil")
	}
	d := Discriminator(o)
	if err := validation.Var("owner_type", d, "required"); err != nil {
		return "", err
	}
	return d, nil
}

func (s *CachedStore) fail(ctx context.Context, op, cacheKey string, err error) error {
	s.log.WithContext(ctx).Error("cache operation failed", logger.MergeWithError(map[string]interface{}{
		logger.FieldOperation: op,
		logger.FieldCacheKey:  cacheKey,
	}, err))
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	return errors.ExternalServiceError("cache", err)
}

var _ Store = (*CachedStore)(nil)
