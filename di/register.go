package di

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kbukum/locator/errors"
	"github.com/kbukum/locator/logger"
)

// RegisterTransient registers producer to build a new instance of id on
// every resolve.
func (c *Container) RegisterTransient(id Identity, producer Producer) error {
	return c.addFactory(callerSource("RegisterTransient"), id, Transient, producer)
}

// RegisterSingleton registers producer to build id once, on first resolve.
func (c *Container) RegisterSingleton(id Identity, producer Producer) error {
	return c.addFactory(callerSource("RegisterSingleton"), id, Singleton, producer)
}

// RegisterInstance registers a prebuilt instance as the singleton for id.
// id must be a concrete type.
func (c *Container) RegisterInstance(id Identity, instance any) error {
	return c.addInstance(callerSource("RegisterInstance"), id, instance)
}

// RegisterInitializer registers id as a singleton built by the AutoWirer,
// with init run once on the fresh instance. id must be a concrete type.
func (c *Container) RegisterInitializer(id Identity, init Initializer) error {
	return c.addInitializer(callerSource("RegisterInitializer"), id, init)
}

// RegisterConcrete registers id to be built by the AutoWirer.
func (c *Container) RegisterConcrete(id Identity, lifestyle Lifestyle) error {
	return c.addConcrete(callerSource("RegisterConcrete"), id, lifestyle)
}

// RegisterKeyedFactory registers factory to serve every key of t that has
// no explicit keyed registration.
func (c *Container) RegisterKeyedFactory(t reflect.Type, lifestyle Lifestyle, factory func(key string) (any, error)) error {
	return c.addKeyFunc(callerSource("RegisterKeyedFactory"), t, lifestyle, factory)
}

// RegisterCollection registers an ordered sequence of instances for t.
func (c *Container) RegisterCollection(t reflect.Type, items []any) error {
	return c.addCollection(callerSource("RegisterCollection"), t, items)
}

func (c *Container) addFactory(source Source, id Identity, lifestyle Lifestyle, producer Producer) error {
	if id.Type == nil {
		return errors.NullArgument("service")
	}
	if producer == nil {
		return errors.NullArgument("producer")
	}
	var s strategy
	if lifestyle == Singleton {
		s = &singletonStrategy{factory: c.singletonFactory(id, producer, nil)}
	} else {
		s = &transientStrategy{producer: func() (any, error) { return nonNil(producer) }}
	}
	return c.addScalar(id, KindFactory, source, s)
}

func (c *Container) addInstance(source Source, id Identity, instance any) error {
	if id.Type == nil {
		return errors.NullArgument("service")
	}
	if isNil(instance) {
		return errors.NullArgument("instance")
	}
	if isAbstract(id.Type) {
		return errors.AbstractType(id.String(), source.Operation)
	}
	if got := reflect.TypeOf(instance); !got.AssignableTo(id.Type) {
		return errors.TypeMismatch(id.String(), got.String())
	}
	s := &singletonStrategy{
		factory:  c.singletonFactory(id, func() (any, error) { return instance, nil }, nil),
		prebuilt: instance,
	}
	return c.addScalar(id, KindInstance, source, s)
}

func (c *Container) addInitializer(source Source, id Identity, init Initializer) error {
	if id.Type == nil {
		return errors.NullArgument("service")
	}
	if init == nil {
		return errors.NullArgument("initializer")
	}
	if isAbstract(id.Type) {
		return errors.AbstractType(id.String(), source.Operation)
	}
	wired := &wiredProducer{wirer: c.wirer, resolver: c, id: id}
	s := &singletonStrategy{factory: c.singletonFactory(id, wired.produce, init)}
	return c.addScalar(id, KindInitializer, source, s)
}

func (c *Container) addConcrete(source Source, id Identity, lifestyle Lifestyle) error {
	if id.Type == nil {
		return errors.NullArgument("service")
	}
	if isAbstract(id.Type) {
		return errors.AbstractType(id.String(), source.Operation)
	}
	wired := &wiredProducer{wirer: c.wirer, resolver: c, id: id}
	var s strategy
	if lifestyle == Singleton {
		s = &singletonStrategy{factory: c.singletonFactory(id, wired.produce, nil)}
	} else {
		s = &transientStrategy{producer: func() (any, error) { return nonNil(wired.produce) }}
	}
	return c.addScalar(id, KindConcrete, source, s)
}

func (c *Container) addScalar(id Identity, kind Kind, source Source, s strategy) error {
	reg := newRegistration(id, kind, source, s)
	if err := c.ledger.insert(reg); err != nil {
		return err
	}

	fields := serviceFields(id, reg.Lifestyle)
	fields["kind"] = string(kind)
	fields[logger.FieldSource] = source.String()
	c.log.Debug("registered", fields)
	c.metrics.RecordRegistration(context.Background(), string(kind), reg.Lifestyle.String())
	return nil
}

func (c *Container) addKeyFunc(source Source, t reflect.Type, lifestyle Lifestyle, factory func(key string) (any, error)) error {
	if t == nil {
		return errors.NullArgument("service")
	}
	if factory == nil {
		return errors.NullArgument("factory")
	}
	kf := &keyedFactory{
		id:        newID(),
		typ:       t,
		lifestyle: lifestyle,
		produce:   factory,
		source:    source,
		slots:     make(map[string]*keySlot),
	}
	if err := c.ledger.insertKeyFunc(kf); err != nil {
		return err
	}

	c.log.Debug("registered", logger.Fields(
		logger.FieldService, typeName(t),
		logger.FieldLifestyle, lifestyle.String(),
		"kind", string(KindKeyFunc),
		logger.FieldSource, source.String(),
	))
	c.metrics.RecordRegistration(context.Background(), string(KindKeyFunc), lifestyle.String())
	return nil
}

func (c *Container) addCollection(source Source, t reflect.Type, items []any) error {
	if t == nil {
		return errors.NullArgument("service")
	}
	if items == nil {
		return errors.NullArgument("items")
	}
	for i, item := range items {
		if isNil(item) {
			return errors.NullArgument(fmt.Sprintf("items[%d]", i))
		}
		if got := reflect.TypeOf(item); !got.AssignableTo(t) {
			return errors.TypeMismatch(typeName(t), got.String()).WithDetail("index", i)
		}
	}
	col := &collection{id: newID(), typ: t, items: items, source: source}
	if err := c.ledger.insertCollection(col); err != nil {
		return err
	}

	c.log.Debug("registered", logger.Fields(
		logger.FieldService, typeName(t),
		"kind", string(KindCollection),
		"count", len(items),
		logger.FieldSource, source.String(),
	))
	c.metrics.RecordRegistration(context.Background(), string(KindCollection), Singleton.String())
	return nil
}

// --- Typed registration helpers ---

// Register registers factory as a transient producer of T.
func Register[T any](c *Container, factory func() (T, error)) error {
	if factory == nil {
		return errors.NullArgument("factory")
	}
	return c.addFactory(callerSource("Register"), IdentityOf[T](), Transient, erase(factory))
}

// RegisterKeyed registers factory as a transient producer of T under key.
func RegisterKeyed[T any](c *Container, key string, factory func() (T, error)) error {
	if key == "" {
		return errors.NullArgument("key")
	}
	if factory == nil {
		return errors.NullArgument("factory")
	}
	return c.addFactory(callerSource("RegisterKeyed"), KeyedIdentityOf[T](key), Transient, erase(factory))
}

// RegisterSingle registers factory as the singleton producer of T.
func RegisterSingle[T any](c *Container, factory func() (T, error)) error {
	if factory == nil {
		return errors.NullArgument("factory")
	}
	return c.addFactory(callerSource("RegisterSingle"), IdentityOf[T](), Singleton, erase(factory))
}

// RegisterSingleKeyed registers factory as the singleton producer of T under key.
func RegisterSingleKeyed[T any](c *Container, key string, factory func() (T, error)) error {
	if key == "" {
		return errors.NullArgument("key")
	}
	if factory == nil {
		return errors.NullArgument("factory")
	}
	return c.addFactory(callerSource("RegisterSingleKeyed"), KeyedIdentityOf[T](key), Singleton, erase(factory))
}

// RegisterInstance registers instance as the singleton T. T must be concrete.
func RegisterInstance[T any](c *Container, instance T) error {
	return c.addInstance(callerSource("RegisterInstance"), IdentityOf[T](), instance)
}

// RegisterInstanceKeyed registers instance as the singleton T under key.
func RegisterInstanceKeyed[T any](c *Container, key string, instance T) error {
	if key == "" {
		return errors.NullArgument("key")
	}
	return c.addInstance(callerSource("RegisterInstanceKeyed"), KeyedIdentityOf[T](key), instance)
}

// RegisterInitializer registers T as an auto-wired singleton, running init
// once on the fresh instance.
func RegisterInitializer[T any](c *Container, init func(T)) error {
	if init == nil {
		return errors.NullArgument("initializer")
	}
	id := IdentityOf[T]()
	return c.addInitializer(callerSource("RegisterInitializer"), id, typedInitializer(id, init))
}

// RegisterInitializerKeyed is RegisterInitializer under key.
func RegisterInitializerKeyed[T any](c *Container, key string, init func(T)) error {
	if key == "" {
		return errors.NullArgument("key")
	}
	if init == nil {
		return errors.NullArgument("initializer")
	}
	id := KeyedIdentityOf[T](key)
	return c.addInitializer(callerSource("RegisterInitializerKeyed"), id, typedInitializer(id, init))
}

// RegisterConcrete registers T as transient, built by the AutoWirer.
func RegisterConcrete[T any](c *Container) error {
	return c.addConcrete(callerSource("RegisterConcrete"), IdentityOf[T](), Transient)
}

// RegisterSingleConcrete registers T as a singleton built by the AutoWirer.
func RegisterSingleConcrete[T any](c *Container) error {
	return c.addConcrete(callerSource("RegisterSingleConcrete"), IdentityOf[T](), Singleton)
}

// RegisterKeyFunc registers factory to build a new T for any key.
func RegisterKeyFunc[T any](c *Container, factory func(key string) (T, error)) error {
	if factory == nil {
		return errors.NullArgument("factory")
	}
	return c.addKeyFunc(callerSource("RegisterKeyFunc"), reflect.TypeFor[T](), Transient, eraseKeyed(factory))
}

// RegisterSingleKeyFunc registers factory to build one T per key.
func RegisterSingleKeyFunc[T any](c *Container, factory func(key string) (T, error)) error {
	if factory == nil {
		return errors.NullArgument("factory")
	}
	return c.addKeyFunc(callerSource("RegisterSingleKeyFunc"), reflect.TypeFor[T](), Singleton, eraseKeyed(factory))
}

// RegisterAll registers items, in order, as the collection of T.
func RegisterAll[T any](c *Container, items []T) error {
	if items == nil {
		return errors.NullArgument("items")
	}
	erased := make([]any, len(items))
	for i, item := range items {
		erased[i] = item
	}
	return c.addCollection(callerSource("RegisterAll"), reflect.TypeFor[T](), erased)
}

func erase[T any](factory func() (T, error)) Producer {
	return func() (any, error) {
		v, err := factory()
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func eraseKeyed[T any](factory func(key string) (T, error)) func(string) (any, error) {
	return func(key string) (any, error) {
		v, err := factory(key)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func typedInitializer[T any](id Identity, init func(T)) Initializer {
	return func(v any) error {
		typed, ok := v.(T)
		if !ok {
			return errors.TypeMismatch(id.String(), fmt.Sprintf("%T", v))
		}
		init(typed)
		return nil
	}
}
