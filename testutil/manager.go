package testutil

import (
	"context"
	"fmt"

	"github.com/kbukum/modeloptions/component"
	"github.com/kbukum/modeloptions/logger"
)

// Manager runs a group of test components through a component.Registry, so
// start order, rollback on a failed start and reverse stop order match the
// application. It adds group-wide reset, snapshot and restore.
type Manager struct {
	ctx        context.Context
	registry   *component.Registry
	components []TestComponent
	addErr     error
}

// NewManager passes ctx to every lifecycle call.
func NewManager(ctx context.Context) *Manager {
	return &Manager{
		ctx:      ctx,
		registry: component.NewRegistry().WithLogger(logger.NewNop()),
	}
}

// Add registers components in start order. A duplicate name is reported by
// the next StartAll.
func (m *Manager) Add(components ...TestComponent) *Manager {
	for _, c := range components {
		if err := m.registry.Register(c); err != nil {
			if m.addErr == nil {
				m.addErr = err
			}
			continue
		}
		m.components = append(m.components, c)
	}
	return m
}

// Get returns the component registered under name, or nil.
func (m *Manager) Get(name string) TestComponent {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func (m *Manager) StartAll() error {
	if m.addErr != nil {
		return m.addErr
	}
	return m.registry.StartAll(m.ctx)
}

func (m *Manager) StopAll() error { return m.registry.StopAll(m.ctx) }

// ResetAll resets every component, stopping at the first failure.
func (m *Manager) ResetAll() error {
	for _, c := range m.components {
		if err := c.Reset(m.ctx); err != nil {
			return fmt.Errorf("failed to reset component %s: %w", c.Name(), err)
		}
	}
	return nil
}

// SnapshotAll captures every component, keyed by name.
func (m *Manager) SnapshotAll() (map[string]interface{}, error) {
	snaps := make(map[string]interface{}, len(m.components))
	for _, c := range m.components {
		snap, err := c.Snapshot(m.ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot component %s: %w", c.Name(), err)
		}
		snaps[c.Name()] = snap
	}
	return snaps, nil
}

// RestoreAll restores the components present in snaps.
func (m *Manager) RestoreAll(snaps map[string]interface{}) error {
	for _, c := range m.components {
		snap, ok := snaps[c.Name()]
		if !ok {
			continue
		}
		if err := c.Restore(m.ctx, snap); err != nil {
			return fmt.Errorf("failed to restore component %s: %w", c.Name(), err)
		}
	}
	return nil
}
