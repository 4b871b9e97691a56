package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
)

// Hook is a callback run at one point of the App lifecycle.
type Hook func(ctx context.Context) error

type phase string

const (
	phaseStart phase = "onStart"
	phaseReady phase = "onReady"
	phaseStop  phase = "onStop"
)

// OnStart hooks run once the components are started, before OnConfigure
// callbacks.
func (a *App) OnStart(hooks ...Hook) { a.addHooks(phaseStart, hooks) }

// OnReady hooks run after the ready check.
func (a *App) OnReady(hooks ...Hook) { a.addHooks(phaseReady, hooks) }

// OnStop hooks run on shutdown while the components are still up.
func (a *App) OnStop(hooks ...Hook) { a.addHooks(phaseStop, hooks) }

func (a *App) addHooks(p phase, hooks []Hook) {
	if a.hooks == nil {
		a.hooks = make(map[phase][]Hook)
	}
	a.hooks[p] = append(a.hooks[p], hooks...)
}

// runHooks runs the hooks of p in registration order. Start and ready hooks
// stop at the first failure; stop hooks all run and their errors are joined.
func (a *App) runHooks(ctx context.Context, p phase) error {
	var errs []error
	for i, h := range a.hooks[p] {
		if err := h(ctx); err != nil {
			err = fmt.Errorf("%s hook %d failed: %w", p, i, err)
			if p != phaseStop {
				return err
			}
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
