package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/locator/logger"
)

// InstrumentationName is the meter and tracer name used by the registry.
const InstrumentationName = "github.com/kbukum/locator"

// Resolution outcomes recorded on locator.resolve.total.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// RegistryMetrics holds the instruments a container records into.
type RegistryMetrics struct {
	registrationTotal    metric.Int64Counter
	resolveTotal         metric.Int64Counter
	resolveDuration      metric.Float64Histogram
	materializedTotal    metric.Int64Counter
	validationTotal      metric.Int64Counter
	validationFailures   metric.Int64Counter
	constructionFailures metric.Int64Counter
}

// NewRegistryMetrics creates the registry instruments on the given meter.
func NewRegistryMetrics(meter metric.Meter) (*RegistryMetrics, error) {
	registrationTotal, err := meter.Int64Counter("locator.registration.total",
		metric.WithDescription("Registrations accepted by the container"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating locator.registration.total counter: %w", err)
	}

	resolveTotal, err := meter.Int64Counter("locator.resolve.total",
		metric.WithDescription("Resolve calls by lifestyle and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating locator.resolve.total counter: %w", err)
	}

	resolveDuration, err := meter.Float64Histogram("locator.resolve.duration",
		metric.WithDescription("Duration of resolve calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating locator.resolve.duration histogram: %w", err)
	}

	materializedTotal, err := meter.Int64Counter("locator.singleton.materialized",
		metric.WithDescription("Singleton instances built"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating locator.singleton.materialized counter: %w", err)
	}

	validationTotal, err := meter.Int64Counter("locator.validation.total",
		metric.WithDescription("Validation passes run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating locator.validation.total counter: %w", err)
	}

	validationFailures, err := meter.Int64Counter("locator.validation.failures",
		metric.WithDescription("Registrations that failed validation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating locator.validation.failures counter: %w", err)
	}

	constructionFailures, err := meter.Int64Counter("locator.construction.failures",
		metric.WithDescription("Producer or initializer failures"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating locator.construction.failures counter: %w", err)
	}

	return &RegistryMetrics{
		registrationTotal:    registrationTotal,
		resolveTotal:         resolveTotal,
		resolveDuration:      resolveDuration,
		materializedTotal:    materializedTotal,
		validationTotal:      validationTotal,
		validationFailures:   validationFailures,
		constructionFailures: constructionFailures,
	}, nil
}

// NewNopRegistryMetrics returns instruments that record nothing.
func NewNopRegistryMetrics() *RegistryMetrics {
	m, _ := NewRegistryMetrics(noop.NewMeterProvider().Meter(InstrumentationName))
	return m
}

// RecordRegistration counts an accepted registration.
func (m *RegistryMetrics) RecordRegistration(ctx context.Context, kind, lifestyle string) {
	m.registrationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("lifestyle", lifestyle),
	))
}

// RecordResolve records a completed resolve call. service is the type name
// only; keys stay out of attributes since key functions accept any key.
func (m *RegistryMetrics) RecordResolve(ctx context.Context, service string, keyed bool, lifestyle, status string, duration time.Duration) {
	m.resolveTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.Bool("keyed", keyed),
		attribute.String("lifestyle", lifestyle),
		attribute.String("status", status),
	))
	m.resolveDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("lifestyle", lifestyle),
	))
}

// RecordMaterialized counts a singleton slot being filled.
func (m *RegistryMetrics) RecordMaterialized(ctx context.Context, service string, keyed bool) {
	m.materializedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.Bool("keyed", keyed),
	))
}

// RecordConstructionFailure counts a failed producer or initializer.
func (m *RegistryMetrics) RecordConstructionFailure(ctx context.Context, service string, keyed bool) {
	m.constructionFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.Bool("keyed", keyed),
	))
}

// RecordValidation records one validation pass and how many registrations failed it.
func (m *RegistryMetrics) RecordValidation(ctx context.Context, mode string, failures int) {
	status := StatusOK
	if failures > 0 {
		status = StatusError
	}
	m.validationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status),
	))
	if failures > 0 {
		m.validationFailures.Add(ctx, int64(failures), metric.WithAttributes(
			attribute.String("mode", mode),
		))
	}
}
