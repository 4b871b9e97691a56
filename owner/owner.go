// Package owner defines the entities options can be attached to.
//
// An Owner is anything with a stable type identity and a stable instance
// identity. Ref is the persisted form of that pair and Registry turns a Ref
// back into a live owner.
package owner

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/modeloptions/errors"
)

// Owner is an entity that can carry options.
type Owner interface {
	// OwnerType returns the type tag shared by all instances of the entity.
	OwnerType() string
	// OwnerID returns the identity of this instance within its type.
	OwnerID() string
}

// Ref is a polymorphic reference to an owner instance.
type Ref struct {
	Type string `json:"owner_type" validate:"required,max=255"`
	ID   string `json:"owner_id" validate:"required,max=255"`
}

// RefOf returns the reference for o.
func RefOf(o Owner) Ref {
	return Ref{Type: o.OwnerType(), ID: o.OwnerID()}
}

// OwnerType implements Owner so a bare reference can be used wherever an
// owner is expected.
func (r Ref) OwnerType() string { return r.Type }

// OwnerID implements Owner.
func (r Ref) OwnerID() string { return r.ID }

func (r Ref) String() string {
	return fmt.Sprintf("%s:%s", r.Type, r.ID)
}

// Resolver loads the owner instance with the given id.
type Resolver func(ctx context.Context, id string) (Owner, error)

// Registry maps owner type tags to resolvers.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// Register binds ownerType to r. Each type can be registered once.
func (reg *Registry) Register(ownerType string, r Resolver) error {
	if ownerType == "" {
		return errors.InvalidInput("owner_type", "must not be empty")
	}
	if r == nil {
		return errors.InvalidInput("resolver", "must not be nil")
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.resolvers[ownerType]; exists {
		return errors.AlreadyExists("owner type").WithDetail("owner_type", ownerType)
	}
	reg.resolvers[ownerType] = r
	return nil
}

// Resolve loads the owner ref points to.
func (reg *Registry) Resolve(ctx context.Context, ref Ref) (Owner, error) {
	reg.mu.RLock()
	r, ok := reg.resolvers[ref.Type]
	reg.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("owner type", ref.Type)
	}
	return r(ctx, ref.ID)
}

// Types returns the registered type tags.
func (reg *Registry) Types() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]string, 0, len(reg.resolvers))
	for t := range reg.resolvers {
		out = append(out, t)
	}
	return out
}
