package owner

import (
	"context"
	"testing"

	"github.com/kbukum/modeloptions/errors"
)

type widget struct{ id string }

func (w widget) OwnerType() string { return "widget" }
func (w widget) OwnerID() string   { return w.id }

func TestRefOf(t *testing.T) {
	ref := RefOf(widget{id: "42"})
	if ref.Type != "widget" || ref.ID != "42" {
		t.Errorf("unexpected ref %+v", ref)
	}
	if ref.String() != "widget:42" {
		t.Errorf("unexpected string %q", ref.String())
	}

	var o Owner = ref
	if o.OwnerType() != "widget" || o.OwnerID() != "42" {
		t.Error("Ref should satisfy Owner with its own fields")
	}
}

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register("widget", func(_ context.Context, id string) (Owner, error) {
		return widget{id: id}, nil
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	o, err := reg.Resolve(context.Background(), Ref{Type: "widget", ID: "7"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if w, ok := o.(widget); !ok || w.id != "7" {
		t.Errorf("unexpected owner %#v", o)
	}
}

func TestRegistry_UnknownType(t *testing.T) {
	_, err := NewRegistry().Resolve(context.Background(), Ref{Type: "gadget", ID: "1"})
	if !errors.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRegistry_RegisterErrors(t *testing.T) {
	reg := NewRegistry()
	noop := func(context.Context, string) (Owner, error) { return nil, nil }

	if err := reg.Register("widget", noop); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := reg.Register("widget", noop); !errors.IsCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
	if err := reg.Register("", noop); !errors.IsInvalidInput(err) {
		t.Errorf("expected INVALID_INPUT for empty type, got %v", err)
	}
	if err := reg.Register("gadget", nil); !errors.IsInvalidInput(err) {
		t.Errorf("expected INVALID_INPUT for nil resolver, got %v", err)
	}
	if types := reg.Types(); len(types) != 1 || types[0] != "widget" {
		t.Errorf("unexpected types %v", types)
	}
}
