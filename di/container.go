package di

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/locator/errors"
	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/observability"
)

// Resolver resolves services by identity. *Container implements it; it is
// also what an AutoWirer receives to look up dependencies.
type Resolver interface {
	Resolve(id Identity) (any, error)
	ResolveAll(t reflect.Type) ([]any, error)
}

// Container is the registry: a ledger of registrations plus the lifecycle
// that locks it on first use.
type Container struct {
	id      string
	ledger  *ledger
	wirer   AutoWirer
	log     *logger.Logger
	metrics *observability.RegistryMetrics
	mode    ValidationMode
	closed  atomic.Bool
}

// Option configures a Container.
type Option func(*Container)

// WithAutoWirer sets the collaborator used to build concrete types.
func WithAutoWirer(w AutoWirer) Option {
	return func(c *Container) {
		if w != nil {
			c.wirer = w
		}
	}
}

// WithLogger sets the logger. The container logs under component "di".
func WithLogger(l *logger.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics sets the instruments the container records into.
func WithMetrics(m *observability.RegistryMetrics) Option {
	return func(c *Container) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithValidationMode sets how Validate reports failures.
func WithValidationMode(mode ValidationMode) Option {
	return func(c *Container) {
		if mode != "" {
			c.mode = mode
		}
	}
}

// New creates an empty container in the Configuring state.
func New(opts ...Option) *Container {
	c := &Container{
		id:     uuid.NewString(),
		ledger: newLedger(),
		mode:   ValidationAggregate,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.wirer == nil {
		c.wirer = NewReflectWirer()
	}
	if c.log == nil {
		c.log = logger.GetGlobalLogger()
	}
	c.log = c.log.WithComponent("di").WithFields(logger.Fields(logger.FieldContainerID, c.id))
	if c.metrics == nil {
		m, err := observability.NewRegistryMetrics(observability.Meter(observability.InstrumentationName))
		if err != nil {
			c.log.Warn("falling back to no-op metrics", logger.ErrorFields("metrics", err))
			m = observability.NewNopRegistryMetrics()
		}
		c.metrics = m
	}
	return c
}

// ID returns the container's unique ID.
func (c *Container) ID() string { return c.id }

// State returns the lifecycle state.
func (c *Container) State() State { return c.ledger.state.current() }

// Locked reports whether the container rejects registrations.
func (c *Container) Locked() bool { return c.State() == Locked }

// Lock freezes the configuration. It is idempotent.
func (c *Container) Lock() {
	if !c.ledger.lock() {
		return
	}
	regs, kfs, cols := c.ledger.snapshot()
	c.log.Info("container locked", logger.Fields(
		"registrations", len(regs),
		"key_funcs", len(kfs),
		"collections", len(cols),
	))
}

// Resolve returns an instance for id, locking the container first.
func (c *Container) Resolve(id Identity) (any, error) {
	start := time.Now()
	v, lifestyle, err := c.resolve(id)

	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError
	}
	c.metrics.RecordResolve(context.Background(), typeName(id.Type), id.Keyed(), lifestyle, status, time.Since(start))
	return v, err
}

func (c *Container) resolve(id Identity) (any, string, error) {
	if id.Type == nil {
		return nil, "none", errors.NullArgument("service")
	}
	c.Lock()

	if reg, ok := c.ledger.find(id); ok {
		v, err := reg.strategy.produce()
		if err != nil {
			return nil, reg.Lifestyle.String(), c.constructionFailed(id, reg.Lifestyle, reg.Source, err)
		}
		return v, reg.Lifestyle.String(), nil
	}

	if id.Keyed() {
		if kf, ok := c.ledger.findKeyFunc(id.Type); ok {
			v, err := c.produceKeyed(kf, id)
			if err != nil {
				return nil, kf.lifestyle.String(), c.constructionFailed(id, kf.lifestyle, kf.source, err)
			}
			return v, kf.lifestyle.String(), nil
		}
	}

	return nil, "none", errors.UnregisteredType(id.String())
}

// ResolveAll returns a copy of the collection registered for t.
func (c *Container) ResolveAll(t reflect.Type) ([]any, error) {
	if t == nil {
		return nil, errors.NullArgument("service")
	}
	c.Lock()

	items, ok := c.ledger.findCollection(t)
	if !ok {
		return nil, errors.UnregisteredType(typeName(t)).WithDetail("kind", string(KindCollection))
	}
	return items, nil
}

func (c *Container) produceKeyed(kf *keyedFactory, id Identity) (any, error) {
	key := id.Key
	producer := func() (any, error) {
		return nonNil(func() (any, error) { return kf.produce(key) })
	}
	if kf.lifestyle == Transient {
		return build(producer)
	}
	s := kf.acquire(key)
	defer kf.release(key, s)
	return s.GetOrCreate(c.singletonFactory(id, producer, nil))
}

// singletonFactory wraps producer with the initializer and the
// materialization bookkeeping. It runs inside a Slot.
func (c *Container) singletonFactory(id Identity, producer Producer, init Initializer) Producer {
	return func() (any, error) {
		v, err := nonNil(producer)
		if err != nil {
			return nil, err
		}
		if init != nil {
			if err := init(v); err != nil {
				return nil, fmt.Errorf("initializer: %w", err)
			}
		}
		c.log.Debug("singleton materialized", serviceFields(id, Singleton))
		c.metrics.RecordMaterialized(context.Background(), typeName(id.Type), id.Keyed())
		return v, nil
	}
}

func (c *Container) constructionFailed(id Identity, lifestyle Lifestyle, source Source, cause error) error {
	fields := serviceFields(id, lifestyle)
	fields[logger.FieldSource] = source.String()
	fields[logger.FieldError] = cause.Error()
	c.log.Warn("construction failed", fields)
	c.metrics.RecordConstructionFailure(context.Background(), typeName(id.Type), id.Keyed())

	err := errors.ConstructionFailed(id.String(), cause).WithDetails(map[string]any{
		"lifestyle": lifestyle.String(),
		"source":    source.String(),
	})
	if id.Keyed() {
		err.WithDetail("key", id.Key)
	}
	return err
}

// nonNil runs producer and rejects a nil result, typed or untyped.
func nonNil(producer Producer) (any, error) {
	v, err := producer()
	if err != nil {
		return nil, err
	}
	if isNil(v) {
		return nil, fmt.Errorf("producer returned nil")
	}
	return v, nil
}

func serviceFields(id Identity, lifestyle Lifestyle) map[string]interface{} {
	fields := logger.Fields(
		logger.FieldService, typeName(id.Type),
		logger.FieldLifestyle, lifestyle.String(),
	)
	if id.Keyed() {
		fields[logger.FieldKey] = id.Key
	}
	return fields
}
