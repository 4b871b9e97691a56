package options

import (
	"context"

	"github.com/kbukum/modeloptions/errors"
	"github.com/kbukum/modeloptions/owner"
	"github.com/kbukum/modeloptions/validation"
)

// MaxFieldLength bounds owner type, owner id, key and stored value text.
const MaxFieldLength = 255

// Store is the option contract implemented by every backend.
type Store interface {
	// SetOption stores value under key for o, overwriting any previous value.
	SetOption(ctx context.Context, o owner.Owner, key string, value any) error
	// GetOption returns the sniffed value stored under key, or def when the
	// key is absent. def is returned as-is.
	GetOption(ctx context.Context, o owner.Owner, key string, def any) (any, error)
	// HasOption reports whether key is present for o.
	HasOption(ctx context.Context, o owner.Owner, key string) (bool, error)
	// DeleteOption removes key for o.
	DeleteOption(ctx context.Context, o owner.Owner, key string) error
}

// Request identifies one option of one owner instance.
type Request struct {
	OwnerType string `json:"owner_type" validate:"required,max=255"`
	OwnerID   string `json:"owner_id" validate:"required,max=255"`
	Key       string `json:"key" validate:"max=255"`
}

// NewRequest validates o and key into a Request.
func NewRequest(o owner.Owner, key string) (Request, error) {
	if o == nil {
		return Request{}, errors.InvalidInput("owner", "must not be nil")
	}
	req := Request{OwnerType: o.OwnerType(), OwnerID: o.OwnerID(), Key: key}
	if err := validation.Validate(req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Ref returns the owner reference of the request.
func (r Request) Ref() owner.Ref {
	return owner.Ref{Type: r.OwnerType, ID: r.OwnerID}
}

// Options is a Store bound to one owner.
type Options struct {
	store Store
	owner owner.Owner
}

// For binds store to o.
func For(store Store, o owner.Owner) *Options {
	return &Options{store: store, owner: o}
}

// Owner returns the bound owner.
func (h *Options) Owner() owner.Owner { return h.owner }

// Set stores value under key.
func (h *Options) Set(ctx context.Context, key string, value any) error {
	return h.store.SetOption(ctx, h.owner, key, value)
}

// Enable stores true under key.
func (h *Options) Enable(ctx context.Context, key string) error {
	return h.store.SetOption(ctx, h.owner, key, true)
}

// Get returns the value under key, or def when absent.
func (h *Options) Get(ctx context.Context, key string, def any) (any, error) {
	return h.store.GetOption(ctx, h.owner, key, def)
}

// Value returns the value under key, or nil when absent.
func (h *Options) Value(ctx context.Context, key string) (any, error) {
	return h.store.GetOption(ctx, h.owner, key, nil)
}

// Has reports whether key is present.
func (h *Options) Has(ctx context.Context, key string) (bool, error) {
	return h.store.HasOption(ctx, h.owner, key)
}

// Delete removes key.
func (h *Options) Delete(ctx context.Context, key string) error {
	return h.store.DeleteOption(ctx, h.owner, key)
}
