package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/locator/config"
	"github.com/kbukum/locator/di"
	"github.com/kbukum/locator/errors"
	"github.com/kbukum/locator/logger"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

type dojo struct {
	closed bool
}

func (d *dojo) Train() string { return "training" }

func (d *dojo) Close() error {
	d.closed = true
	return nil
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
			Container: config.ContainerConfig{
				ValidateOnStart: true,
				CloseOnShutdown: true,
			},
		},
	}
}

func newTestApp(t *testing.T, cfg *testConfig, out *bytes.Buffer) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(cfg,
		WithLogger(logger.NewNop()),
		WithSummaryOutput(out),
		WithGracefulTimeout(time.Second),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	cfg := newTestConfig("test-svc", "1.0.0")
	app := newTestApp(t, cfg, &bytes.Buffer{})

	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Container == nil {
		t.Fatal("expected non-nil container")
	}
	if app.Container.State() != di.Configuring {
		t.Errorf("expected configuring container, got %s", app.Container.State())
	}
	if app.Logger == nil {
		t.Error("expected non-nil logger")
	}
	// Config is typed
	if app.Cfg.Name != "test-svc" {
		t.Errorf("expected cfg.Name 'test-svc', got %q", app.Cfg.Name)
	}
	// Defaults applied
	if app.Cfg.Container.ValidationMode != config.ValidationAggregate {
		t.Errorf("expected aggregate validation mode, got %q", app.Cfg.Container.ValidationMode)
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*testConfig)
	}{
		{"missing name", func(c *testConfig) { c.Name = "" }},
		{"bad environment", func(c *testConfig) { c.Environment = "moon" }},
		{"bad validation mode", func(c *testConfig) { c.Container.ValidationMode = "lazy" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig("svc", "1.0.0")
			tt.mutate(cfg)
			_, err := NewApp(cfg, WithLogger(logger.NewNop()))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "config validation") {
				t.Errorf("expected config validation error, got %v", err)
			}
			if errors.CodeOf(err) != errors.ErrCodeInvalidConfig {
				t.Errorf("expected %s, got %s", errors.ErrCodeInvalidConfig, errors.CodeOf(err))
			}
		})
	}
}

func TestNewApp_WithContainer(t *testing.T) {
	c := di.New(di.WithLogger(logger.NewNop()))
	app, err := NewApp(newTestConfig("svc", "1.0.0"), WithContainer(c), WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Container != c {
		t.Error("expected the provided container")
	}
}

func TestRunTask_Lifecycle(t *testing.T) {
	out := &bytes.Buffer{}
	app := newTestApp(t, newTestConfig("svc", "1.2.3"), out)

	var order []string
	app.OnStart(func(ctx context.Context) error {
		order = append(order, "start")
		return nil
	})
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		order = append(order, "configure")
		if a.Cfg.Name != "svc" {
			return fmt.Errorf("unexpected config %q", a.Cfg.Name)
		}
		return di.RegisterSingle(a.Container, func() (*dojo, error) { return &dojo{}, nil })
	})
	app.OnReady(func(ctx context.Context) error {
		order = append(order, "ready")
		if !app.Container.Locked() {
			return fmt.Errorf("container not locked when ready")
		}
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		order = append(order, "stop")
		return nil
	})

	var d *dojo
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		var err error
		d, err = di.Resolve[*dojo](app.Container)
		return err
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	want := "start,configure,ready,task,stop"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("expected order %q, got %q", want, got)
	}
	if d == nil || !d.closed {
		t.Error("expected materialized singleton to be closed on shutdown")
	}

	summary := out.String()
	for _, s := range []string{"svc v1.2.3", "Registrations (1)", "*bootstrap.dojo (singleton, factory)", "All registrations validated (1/1)"} {
		if !strings.Contains(summary, s) {
			t.Errorf("expected summary to contain %q, got:\n%s", s, summary)
		}
	}
}

func TestRunTask_ValidationFailure(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc", "1.0.0"), &bytes.Buffer{})
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		return di.RegisterSingle(a.Container, func() (*dojo, error) { return nil, fmt.Errorf("no tatami") })
	})

	ran := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if ran {
		t.Error("task must not run after failed validation")
	}
	if !errors.HasCode(err, errors.ErrCodeValidationFailed) {
		t.Errorf("expected validation failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "no tatami") {
		t.Errorf("expected cause in error, got %v", err)
	}
}

func TestRunTask_LockWithoutValidation(t *testing.T) {
	out := &bytes.Buffer{}
	cfg := newTestConfig("svc", "1.0.0")
	cfg.Container.ValidateOnStart = false
	cfg.Container.CloseOnShutdown = false
	app := newTestApp(t, cfg, out)

	built := 0
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		return di.RegisterSingle(a.Container, func() (*dojo, error) {
			built++
			return &dojo{}, nil
		})
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		if !app.Container.Locked() {
			return fmt.Errorf("expected locked container")
		}
		if built != 0 {
			return fmt.Errorf("expected no eager construction, got %d", built)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if !strings.Contains(out.String(), "Locked without validation (0 singletons materialized)") {
		t.Errorf("unexpected summary:\n%s", out.String())
	}
}

func TestRunTask_LockRejectsLateRegistration(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc", "1.0.0"), &bytes.Buffer{})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		return di.RegisterSingle(app.Container, func() (*dojo, error) { return &dojo{}, nil })
	})
	if errors.CodeOf(err) != errors.ErrCodeContainerLocked {
		t.Errorf("expected %s, got %v", errors.ErrCodeContainerLocked, err)
	}
}

func TestRunTask_TaskError(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc", "1.0.0"), &bytes.Buffer{})
	stopped := false
	app.OnStop(func(ctx context.Context) error {
		stopped = true
		return nil
	})

	taskErr := fmt.Errorf("task failed")
	err := app.RunTask(context.Background(), func(ctx context.Context) error { return taskErr })
	if err != taskErr {
		t.Errorf("expected task error, got %v", err)
	}
	if !stopped {
		t.Error("expected OnStop hooks to run after task error")
	}
}

func TestRunTask_HookErrors(t *testing.T) {
	tests := []struct {
		name    string
		install func(a *App[*testConfig])
		want    string
	}{
		{
			name: "start",
			install: func(a *App[*testConfig]) {
				a.OnStart(func(ctx context.Context) error { return fmt.Errorf("boom") })
			},
			want: "onStart hook failed",
		},
		{
			name: "configure",
			install: func(a *App[*testConfig]) {
				a.OnConfigure(func(ctx context.Context, _ *App[*testConfig]) error { return fmt.Errorf("boom") })
			},
			want: "configuration failed",
		},
		{
			name: "ready",
			install: func(a *App[*testConfig]) {
				a.OnReady(func(ctx context.Context) error { return fmt.Errorf("boom") })
			},
			want: "onReady hook failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, newTestConfig("svc", "1.0.0"), &bytes.Buffer{})
			tt.install(app)
			err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRun_ContextCanceled(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc", "1.0.0"), &bytes.Buffer{})
	stopped := false
	app.OnStop(func(ctx context.Context) error {
		stopped = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !stopped {
		t.Error("expected shutdown after context cancellation")
	}
}

func TestShutdown_StopHookError(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc", "1.0.0"), &bytes.Buffer{})
	app.OnStop(func(ctx context.Context) error { return fmt.Errorf("flush failed") })

	err := app.Shutdown(context.Background())
	if err == nil || !strings.Contains(err.Error(), "flush failed") {
		t.Errorf("expected stop hook error, got %v", err)
	}
}

func TestSummaryRender(t *testing.T) {
	s := NewSummary("dojo", "2.0.0")
	s.SetStartupDuration(1500 * time.Millisecond)

	var buf bytes.Buffer
	s.Render(&buf,
		[]di.RegistrationInfo{
			{Service: "main.Weapon", Key: "katana", Lifestyle: "singleton", Kind: "factory", Materialized: true},
			{Service: "*main.Samurai", Lifestyle: "transient", Kind: "concrete"},
		},
		[]di.CollectionInfo{{Service: "main.Weapon", Count: 3}},
	)

	out := buf.String()
	for _, want := range []string{
		"dojo v2.0.0 started in 1.50s",
		"├── ✅ main.Weapon[key=katana] (singleton, factory)",
		"└── 🔁 *main.Samurai (transient, concrete)",
		"Collections (1)",
		"└── main.Weapon [3]",
		"Locked without validation (1 singletons materialized)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in summary, got:\n%s", want, out)
		}
	}
}

func TestSummaryRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewSummary("svc", "1.0.0").Render(&buf, nil, nil)
	if !strings.Contains(buf.String(), "No services registered") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}
}
