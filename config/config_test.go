package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbukum/locator/errors"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "svc"}
	cfg.ApplyDefaults()

	if cfg.Environment != "development" {
		t.Errorf("expected 'development', got %q", cfg.Environment)
	}
	if cfg.Container.ValidationMode != ValidationAggregate {
		t.Errorf("expected aggregate mode, got %q", cfg.Container.ValidationMode)
	}
	if cfg.Telemetry.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.Telemetry.Interval)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging defaults, got %+v", cfg.Logging)
	}
}

func TestServiceConfigValidate(t *testing.T) {
	valid := func() ServiceConfig {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*ServiceConfig)
		wantErr bool
	}{
		{"valid", func(*ServiceConfig) {}, false},
		{"missing name", func(c *ServiceConfig) { c.Name = "" }, true},
		{"bad environment", func(c *ServiceConfig) { c.Environment = "qa" }, true},
		{"bad validation mode", func(c *ServiceConfig) { c.Container.ValidationMode = "lazy" }, true},
		{"telemetry without endpoint", func(c *ServiceConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = ""
		}, true},
		{"sample rate out of range", func(c *ServiceConfig) { c.Telemetry.SampleRate = 1.5 }, true},
		{"bad logging level", func(c *ServiceConfig) { c.Logging.Level = "loud" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, errors.ErrInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: dojo
environment: staging
container:
  validate_on_start: false
  validation_mode: fail_fast
telemetry:
  interval: 5s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg ServiceConfig
	err := LoadConfig("dojo", &cfg, WithConfigFile(configPath), WithDefaults(DefaultValues()))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "dojo" || cfg.Environment != "staging" {
		t.Errorf("unexpected base config: %+v", cfg)
	}
	if cfg.Container.ValidateOnStart {
		t.Error("expected validate_on_start=false from file")
	}
	if cfg.Container.ValidationMode != ValidationFailFast {
		t.Errorf("expected fail_fast, got %q", cfg.Container.ValidationMode)
	}
	if !cfg.Container.CloseOnShutdown {
		t.Error("expected close_on_shutdown default true")
	}
	if cfg.Telemetry.Interval != 5*time.Second {
		t.Errorf("expected 5s interval, got %v", cfg.Telemetry.Interval)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("LOCATOR_CONTAINER_VALIDATION_MODE", "fail_fast")
	t.Setenv("LOCATOR_NAME", "from-env")

	var cfg ServiceConfig
	err := LoadConfig("nonexistent-service", &cfg,
		WithFileSystem(&mockFS{files: map[string]bool{}}),
		WithDefaults(DefaultValues()),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("expected env name, got %q", cfg.Name)
	}
	if cfg.Container.ValidationMode != ValidationFailFast {
		t.Errorf("expected env override, got %q", cfg.Container.ValidationMode)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg ServiceConfig
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigSearchesCmdDir(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./cmd/dojo/config.yml": true}}
	if got := findFile(fs, configSearchPaths("dojo")); got != "./cmd/dojo/config.yml" {
		t.Errorf("expected cmd config path, got %q", got)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	fs := &mockFS{files: map[string]bool{".env": true}}
	var cfg ServiceConfig
	if err := LoadConfig("svc", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(fs.loaded) != 1 || fs.loaded[0] != ".env" {
		t.Errorf("expected .env to be loaded, got %v", fs.loaded)
	}
}

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}
