package testutil

import (
	"context"

	"github.com/kbukum/modeloptions/component"
)

// TestComponent is a component whose state a test can clear, capture and
// roll back while it keeps running. Snapshot values are opaque and only
// meaningful to the Restore of the same component.
type TestComponent interface {
	component.Component
	Reset(ctx context.Context) error
	Snapshot(ctx context.Context) (interface{}, error)
	Restore(ctx context.Context, snapshot interface{}) error
}
