package config

import (
	"fmt"
	"time"

	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/validation"
)

// Validation modes for the container's eager validation pass.
const (
	ValidationFailFast  = "fail_fast"
	ValidationAggregate = "aggregate"
)

// ServiceConfig contains the configuration of a process hosting a container.
// Projects extend this by embedding it in their own config structs.
//
// Example:
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Dojo DojoConfig `yaml:"dojo" mapstructure:"dojo"`
//	}
type ServiceConfig struct {
	Name        string          `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string          `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string          `yaml:"version" mapstructure:"version"`
	Logging     logger.Config   `yaml:"logging" mapstructure:"logging"`
	Container   ContainerConfig `yaml:"container" mapstructure:"container"`
	Telemetry   TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// ContainerConfig controls how the host drives the container lifecycle.
type ContainerConfig struct {
	// ValidateOnStart runs the eager validation pass before the host does
	// any work, which also locks the container.
	ValidateOnStart bool `yaml:"validate_on_start" mapstructure:"validate_on_start"`
	// ValidationMode is fail_fast (stop at the first failing registration)
	// or aggregate (resolve everything and report all failures).
	ValidationMode string `yaml:"validation_mode" mapstructure:"validation_mode" validate:"oneof=fail_fast aggregate"`
	// CloseOnShutdown closes materialized singletons implementing io.Closer.
	CloseOnShutdown bool `yaml:"close_on_shutdown" mapstructure:"close_on_shutdown"`
}

// TelemetryConfig configures OTLP export of registry metrics and traces.
type TelemetryConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// DefaultValues returns the viper defaults for ServiceConfig keys.
func DefaultValues() map[string]any {
	return map[string]any{
		"name":                        "locator",
		"environment":                 "development",
		"version":                     "dev",
		"logging.level":               "info",
		"logging.format":              "console",
		"logging.output":              "stdout",
		"container.validate_on_start": true,
		"container.validation_mode":   ValidationAggregate,
		"container.close_on_shutdown": true,
		"telemetry.enabled":           false,
		"telemetry.endpoint":          "localhost:4318",
		"telemetry.insecure":          true,
		"telemetry.interval":          "15s",
		"telemetry.sample_rate":       1.0,
	}
}

// GetServiceConfig returns the base ServiceConfig.
// When embedded in a larger config struct, this method is promoted
// so the embedding struct automatically satisfies bootstrap.Config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults fills zero-valued string and duration fields.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Container.ValidationMode == "" {
		c.Container.ValidationMode = ValidationAggregate
	}
	if c.Telemetry.Interval == 0 {
		c.Telemetry.Interval = 15 * time.Second
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the configuration using struct tags and the logging
// config's own rules.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return validation.Invalid(fmt.Sprintf("logging: %v", err))
	}
	return nil
}
