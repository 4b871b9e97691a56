package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/modeloptions/component"
	"github.com/kbukum/modeloptions/database"
	"github.com/kbukum/modeloptions/logger"
	"github.com/kbukum/modeloptions/observability"
	"github.com/kbukum/modeloptions/options"
	"github.com/kbukum/modeloptions/redis"
	"github.com/kbukum/modeloptions/version"
)

const meterName = "github.com/kbukum/modeloptions"

// App wires the option stores of one service and runs their lifecycle.
//
//	app, err := bootstrap.NewApp(&cfg)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return app.Persisted().SetOption(ctx, user, "theme", "dark")
//	})
type App struct {
	Name       string
	Version    string
	Cfg        *Config
	Components *component.Registry
	Logger     *logger.Logger
	Metrics    *observability.Metrics
	Summary    *Summary

	database *database.Component
	redis    *redis.Component
	memory   *options.MemoryCache
	cached   *options.CachedStore

	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App) error
	shutdowns       []func(ctx context.Context) error

	hooks map[phase][]Hook
}

// NewApp applies defaults, validates cfg, initializes the logger and
// registers the components the config enables: the database first, then
// redis. An empty cfg.Version is taken from the build info.
func NewApp(cfg *Config, opts ...Option) (*App, error) {
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	app := &App{
		Name:            cfg.Name,
		Version:         cfg.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}

	o := collect(opts)
	if o.grace > 0 {
		app.gracefulTimeout = o.grace
	}
	if o.log != nil {
		app.Logger = o.log
	} else {
		logger.Init(&cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	app.Components = component.NewRegistry().
		WithLogger(app.Logger.WithComponent("registry")).
		WithStopTimeout(app.gracefulTimeout)

	metrics, err := observability.NewMetrics(observability.Meter(meterName))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	app.Metrics = metrics

	if cfg.Database.Enabled {
		app.database = database.NewComponent(cfg.Database, app.Logger).
			WithMetrics(metrics).
			WithAutoMigrate(o.models...)
		if o.dialector != nil {
			app.database.WithDriver(o.dialector)
		}
		if err := app.RegisterComponent(app.database); err != nil {
			return nil, err
		}
	}

	if cfg.Redis.Enabled {
		app.redis = redis.NewComponent(cfg.Redis, app.Logger).WithMetrics(metrics)
		if err := app.RegisterComponent(app.redis); err != nil {
			return nil, err
		}
	}

	if cfg.Cache.Backend == CacheMemory {
		app.memory = options.NewMemoryCache(cfg.MemoryTTL())
		app.cached = options.NewCachedStore(app.memory).WithMetrics(metrics)
	}

	app.Summary = NewSummary(cfg.Name, cfg.Version)
	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback that runs after the components are
// started. The stores are usable from here on.
func (a *App) OnConfigure(fn func(ctx context.Context, app *App) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// Persisted returns the database-backed option store. It is nil until the
// app has started, and always nil when the database is disabled.
func (a *App) Persisted() *database.OptionStore {
	if a.database == nil {
		return nil
	}
	return a.database.OptionStore()
}

// Cached returns the cached option store on the configured backend. With
// the redis backend it is nil until the app has started.
func (a *App) Cached() *options.CachedStore {
	if a.cached != nil {
		return a.cached
	}
	if a.redis == nil {
		return nil
	}
	return a.redis.CachedStore()
}

// Store returns the persisted store when persisted is true and the cached
// store otherwise, as an options.Store.
func (a *App) Store(persisted bool) options.Store {
	if persisted {
		if s := a.Persisted(); s != nil {
			return s
		}
		return nil
	}
	if s := a.Cached(); s != nil {
		return s
	}
	return nil
}

// Health rolls up the health of every registered component.
func (a *App) Health(ctx context.Context) *observability.ServiceHealth {
	return observability.NewServiceHealth(a.Name, a.Version, a.Components.HealthAll(ctx)...)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run starts the app, blocks until SIGINT, SIGTERM or ctx is done, and then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask starts the app, runs task, and shuts down when the task returns.
// The task context is canceled on SIGINT or SIGTERM. The task error wins
// over a shutdown error.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

func (a *App) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
		"cache":   a.Cfg.Cache.Backend,
	})

	if err := a.initTelemetry(ctx); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	if err := a.Components.StartAll(ctx); err != nil {
		a.shutdownTelemetry(context.Background())
		return fmt.Errorf("initialization failed: %w", err)
	}

	if err := a.runHooks(ctx, phaseStart); err != nil {
		return a.abort(err)
	}

	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return a.abort(fmt.Errorf("configuration failed: %w", err))
		}
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := a.runHooks(ctx, phaseReady); err != nil {
		return a.abort(err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.Summary.Collect(a.Components, a.Cfg.Cache.Backend)
	a.Summary.Log(ctx, a.Components, a.Logger)
	return nil
}

// abort stops the started components after a failed startup step. OnStop
// hooks do not run.
func (a *App) abort(err error) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()
	if stopErr := a.Components.StopAll(ctx); stopErr != nil {
		a.Logger.Error("Stopping components after failed startup", map[string]interface{}{
			"error": stopErr.Error(),
		})
	}
	a.shutdownTelemetry(ctx)
	return err
}

func (a *App) initTelemetry(ctx context.Context) error {
	shutdown, err := observability.Setup(ctx, a.Cfg.Telemetry, observability.Resource{
		ServiceName:    a.Name,
		ServiceVersion: a.Version,
		Environment:    a.Cfg.Environment,
	})
	if err != nil {
		return err
	}
	a.shutdowns = append(a.shutdowns, shutdown)
	return nil
}

func (a *App) shutdownTelemetry(ctx context.Context) {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		if err := a.shutdowns[i](ctx); err != nil {
			a.Logger.Warn("Telemetry shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	a.shutdowns = nil
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App) Shutdown(_ context.Context) error {
	return a.stop()
}

func (a *App) stop() error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	hookErr := a.runHooks(ctx, phaseStop)
	if hookErr != nil {
		a.Logger.Error("OnStop hook error", map[string]interface{}{
			"error": hookErr.Error(),
		})
	}
	stopErr := a.Components.StopAll(ctx)
	if stopErr != nil {
		a.Logger.Error("Shutdown completed with errors", map[string]interface{}{
			"error": stopErr.Error(),
		})
	}

	if a.memory != nil {
		a.memory.Flush()
	}
	a.shutdownTelemetry(ctx)

	a.Logger.Info("Application shutdown complete")
	return stderrors.Join(hookErr, stopErr)
}
