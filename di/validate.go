package di

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/locator/errors"
	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/observability"
)

// ValidationMode controls how many failures Validate collects.
type ValidationMode string

const (
	// ValidationAggregate resolves every registration and joins all failures.
	ValidationAggregate ValidationMode = "aggregate"
	// ValidationFailFast stops at the first failure.
	ValidationFailFast ValidationMode = "fail_fast"
)

// Validate locks the container and resolves every scalar registration once,
// in registration order. Singletons built here stay cached. Keyed factories
// are skipped since their keys are open-ended.
func (c *Container) Validate() error {
	return c.ValidateContext(context.Background())
}

// ValidateContext is Validate with a context for trace propagation.
func (c *Container) ValidateContext(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanValidate, trace.WithAttributes(
		attribute.String(observability.AttrContainerID, c.id),
		attribute.String(observability.AttrValidateMode, string(c.mode)),
	))
	defer span.End()

	start := time.Now()
	c.Lock()
	regs, _, _ := c.ledger.snapshot()

	var failures []error
	for _, reg := range regs {
		if _, err := c.Resolve(reg.Identity); err != nil {
			failures = append(failures, err)
			if c.mode == ValidationFailFast {
				break
			}
		}
	}

	span.SetAttributes(
		attribute.Int(observability.AttrRegistered, len(regs)),
		attribute.Int(observability.AttrFailures, len(failures)),
	)
	c.metrics.RecordValidation(ctx, string(c.mode), len(failures))

	fields := logger.DurationFields("validate", time.Since(start))
	fields["registrations"] = len(regs)
	fields["failures"] = len(failures)

	if len(failures) == 0 {
		c.log.WithContext(ctx).Info("container validated", fields)
		return nil
	}

	err := errors.ValidationFailed(len(failures), stderrors.Join(failures...))
	observability.SetSpanError(ctx, err)
	c.log.WithContext(ctx).Warn("container validation failed", fields)
	return err
}
