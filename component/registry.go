package component

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/modeloptions/errors"
	"github.com/kbukum/modeloptions/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

// Registry owns the lifecycle of the registered components. StartAll runs in
// registration order and StopAll in reverse, so dependencies register first.
type Registry struct {
	mu          sync.RWMutex
	order       []Component
	started     map[string]bool
	stopTimeout time.Duration
	log         *logger.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		started:     make(map[string]bool),
		stopTimeout: DefaultStopTimeout,
		log:         logger.GetGlobalLogger(),
	}
}

// WithLogger replaces the global logger used for lifecycle events.
func (r *Registry) WithLogger(l *logger.Logger) *Registry {
	if l != nil {
		r.log = l
	}
	return r
}

// WithStopTimeout replaces DefaultStopTimeout. Non-positive values are ignored.
func (r *Registry) WithStopTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.stopTimeout = d
	}
	return r
}

// Register appends c. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if r.indexOf(name) >= 0 {
		return errors.AlreadyExists("component").WithDetail("component", name)
	}
	r.order = append(r.order, c)
	r.log.Debug("Component registered", logger.Fields(logger.FieldComponent, name))
	return nil
}

// StartAll starts every component not yet started. On the first failure the
// components started so far are stopped again and the error is returned.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Info("Starting components", logger.Fields("count", len(r.order)))
	for _, c := range r.order {
		name := c.Name()
		if r.started[name] {
			continue
		}
		if err := c.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.MergeWithError(logger.Fields(logger.FieldComponent, name), err))
			if stopErr := r.stopLocked(ctx); stopErr != nil {
				err = stderrors.Join(err, stopErr)
			}
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		r.started[name] = true

		desc := Describe(c)
		r.log.Info("Component started", logger.Fields(
			logger.FieldComponent, name,
			"type", desc.Type,
			"details", desc.Details,
		))
	}
	return nil
}

// StopAll stops the started components in reverse registration order and
// joins their errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopLocked(ctx)
}

func (r *Registry) stopLocked(ctx context.Context) error {
	var errs []error
	for _, c := range slices.Backward(r.order) {
		name := c.Name()
		if !r.started[name] {
			continue
		}
		if err := r.stopOne(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			r.log.Error("Component stop failed", logger.MergeWithError(logger.Fields(logger.FieldComponent, name), err))
		} else {
			r.log.Debug("Component stopped", logger.Fields(logger.FieldComponent, name))
		}
		delete(r.started, name)
	}
	return stderrors.Join(errs...)
}

func (r *Registry) stopOne(ctx context.Context, c Component) error {
	ctx, cancel := context.WithTimeout(ctx, r.stopTimeout)
	defer cancel()
	return c.Stop(ctx)
}

// HealthAll probes every registered component in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, len(r.order))
	for i, c := range r.order {
		out[i] = c.Health(ctx)
	}
	return out
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(name); i >= 0 {
		return r.order[i]
	}
	return nil
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

func (r *Registry) indexOf(name string) int {
	return slices.IndexFunc(r.order, func(c Component) bool { return c.Name() == name })
}
