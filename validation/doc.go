// Package validation validates configuration structs with struct tags using
// go-playground/validator. Failures are reported as INVALID_CONFIG errors
// whose details list every offending field by its mapstructure key.
//
//	type TelemetryConfig struct {
//	    Endpoint   string  `mapstructure:"endpoint" validate:"required_if=Enabled true"`
//	    SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
//	}
//	err := validation.Validate(cfg)
package validation
