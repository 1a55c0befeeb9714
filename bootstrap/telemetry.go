package bootstrap

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/locator/config"
	"github.com/kbukum/locator/observability"
)

// telemetry holds the providers started from config so stop can flush them.
type telemetry struct {
	shutdowns []func(context.Context) error
}

// initTelemetry starts OTLP trace and metric export when enabled. The
// container's instruments come from the global providers, so nothing else
// needs rewiring.
func initTelemetry(ctx context.Context, cfg *config.ServiceConfig) (*telemetry, error) {
	if !cfg.Telemetry.Enabled {
		return nil, nil
	}

	tc := observability.DefaultTracerConfig(cfg.Name)
	tc.ServiceVersion = cfg.Version
	tc.Environment = cfg.Environment
	tc.Endpoint = cfg.Telemetry.Endpoint
	tc.Insecure = cfg.Telemetry.Insecure
	tc.SampleRate = cfg.Telemetry.SampleRate

	tp, err := observability.InitTracer(ctx, tc)
	if err != nil {
		return nil, err
	}

	mc := observability.DefaultMeterConfig(cfg.Name)
	mc.ServiceVersion = cfg.Version
	mc.Environment = cfg.Environment
	mc.Endpoint = cfg.Telemetry.Endpoint
	mc.Insecure = cfg.Telemetry.Insecure
	mc.Interval = cfg.Telemetry.Interval

	mp, err := observability.InitMeter(ctx, mc)
	if err != nil {
		return nil, stderrors.Join(err, tp.Shutdown(ctx))
	}

	return &telemetry{shutdowns: []func(context.Context) error{mp.Shutdown, tp.Shutdown}}, nil
}

func (t *telemetry) shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range t.shutdowns {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
