// Package optionstest holds owner fixtures and the behavioral suite shared by
// every options.Store implementation.
package optionstest

// Widget is an owner fixture of type "widget".
type Widget struct {
	ID string
}

func (w Widget) OwnerType() string { return "widget" }
func (w Widget) OwnerID() string   { return w.ID }

// Gadget is a second owner type used to check type isolation.
type Gadget struct {
	ID string
}

func (g Gadget) OwnerType() string { return "gadget" }
func (g Gadget) OwnerID() string   { return g.ID }

// PrefixedWidget is a widget that overrides its cache key prefix.
type PrefixedWidget struct {
	Widget
	Prefix string
}

func (p PrefixedWidget) CacheKeyPrefix() string { return p.Prefix }
