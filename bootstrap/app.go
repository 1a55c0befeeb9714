package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/locator/di"
	"github.com/kbukum/locator/logger"
)

// App hosts a container with uniform lifecycle management.
// The type parameter C is the config type, which must satisfy Config.
//
// Example:
//
//	app, err := bootstrap.NewApp(&myConfig)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*MyConfig]) error {
//	    // a.Cfg is *MyConfig, fully typed
//	    return di.RegisterSingle[Weapon](a.Container, NewKatana)
//	})
//	app.Run(context.Background())
type App[C Config] struct {
	Name      string
	Version   string
	Cfg       C
	Container *di.Container
	Logger    *logger.Logger
	Summary   *Summary

	gracefulTimeout time.Duration
	summaryOut      io.Writer
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook

	telemetry *telemetry
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, initializes the logger and
// creates the container.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
		summaryOut:      os.Stdout,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.summaryOut != nil {
		app.summaryOut = o.summaryOut
	}

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		app.Logger = logger.New(&base.Logging, base.Name)
		logger.SetGlobalLogger(app.Logger)
	}

	if o.container != nil {
		app.Container = o.container
	} else {
		containerOpts := append([]di.Option{
			di.WithLogger(app.Logger),
			di.WithValidationMode(di.ValidationMode(base.Container.ValidationMode)),
		}, o.containerOpts...)
		app.Container = di.New(containerOpts...)
	}

	app.Summary = NewSummary(base.Name, base.Version)
	return app, nil
}

// OnConfigure registers a callback to run during the configure phase.
// Registrations belong here: the container is locked right after.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// Run executes the full lifecycle for long-running services:
// telemetry, OnStart hooks, configure, validate or lock, OnReady hooks,
// block on signal, then graceful shutdown.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask executes a finite task with the full bootstrap lifecycle.
// Unlike Run it does not block on shutdown signals: it runs the task and
// shuts down when the task completes or the context is canceled (e.g. via
// SIGINT/SIGTERM).
//
// Example:
//
//	app, _ := bootstrap.NewApp(&cfg)
//	app.RunTask(ctx, func(ctx context.Context) error {
//	    return di.MustResolve[*Dojo](app.Container).Train(ctx)
//	})
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		if stopErr := a.stop(); stopErr != nil {
			a.Logger.Warn("Shutdown after failed startup reported errors", logger.ErrorFields("stop", stopErr))
		}
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

// startup performs the initialization sequence shared by Run and RunTask.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	base := a.Cfg.GetServiceConfig()

	a.Logger.Info("Starting application", map[string]interface{}{
		"name":         a.Name,
		"version":      a.Version,
		"container_id": a.Container.ID(),
	})

	tel, err := initTelemetry(ctx, base)
	if err != nil {
		return fmt.Errorf("telemetry initialization failed: %w", err)
	}
	a.telemetry = tel

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	validated := false
	if base.Container.ValidateOnStart {
		if err := a.Container.ValidateContext(ctx); err != nil {
			return fmt.Errorf("container validation failed: %w", err)
		}
		validated = true
	} else {
		a.Container.Lock()
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.Summary.SetValidated(validated)
	a.DisplaySummary()

	return nil
}

// configure runs registered configuration callbacks.
func (a *App[C]) configure(ctx context.Context) error {
	if len(a.onConfigure) == 0 {
		return nil
	}

	a.Logger.Info("Running configuration callbacks", map[string]interface{}{
		"count": len(a.onConfigure),
	})

	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}

	a.Logger.Info("Configuration complete", map[string]interface{}{
		"registrations": len(a.Container.Registrations()),
		"collections":   len(a.Container.Collections()),
	})
	return nil
}

// DisplaySummary prints the startup summary with the container's registrations.
func (a *App[C]) DisplaySummary() {
	a.Summary.Render(a.summaryOut, a.Container.Registrations(), a.Container.Collections())
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.stop()
}

// stop runs OnStop hooks, closes the container and flushes telemetry within
// the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error

	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("stop", err))
		shutdownErr = err
	}

	if a.Cfg.GetServiceConfig().Container.CloseOnShutdown {
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("Container close error", logger.ErrorFields("close", err))
			if shutdownErr == nil {
				shutdownErr = err
			}
		}
	}

	if a.telemetry != nil {
		if err := a.telemetry.shutdown(ctx); err != nil {
			a.Logger.Error("Telemetry shutdown error", logger.ErrorFields("telemetry", err))
			if shutdownErr == nil {
				shutdownErr = err
			}
		}
		a.telemetry = nil
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
