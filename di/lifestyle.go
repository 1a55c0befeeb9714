package di

import "sync"

// Lifestyle determines how often a registration's producer runs.
type Lifestyle int

const (
	// Transient builds a new instance on every resolve.
	Transient Lifestyle = iota
	// Singleton builds one instance per container, on first resolve.
	Singleton
)

func (l Lifestyle) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// Producer builds one instance of a service.
type Producer func() (any, error)

// Initializer runs once on a freshly built singleton.
type Initializer func(any) error

// strategy produces instances for a registration.
type strategy interface {
	produce() (any, error)
	lifestyle() Lifestyle
	// instance returns the cached value of a materialized singleton.
	instance() (any, bool)
	// owned returns the value Close is responsible for: the materialized
	// singleton, or the registered instance even if never resolved.
	owned() (any, bool)
}

type transientStrategy struct {
	producer Producer
}

func (s *transientStrategy) produce() (any, error) { return build(s.producer) }

func (s *transientStrategy) lifestyle() Lifestyle { return Transient }

func (s *transientStrategy) instance() (any, bool) { return nil, false }

func (s *transientStrategy) owned() (any, bool) { return nil, false }

type singletonStrategy struct {
	slot     Slot
	factory  Producer
	prebuilt any
}

func (s *singletonStrategy) produce() (any, error) { return s.slot.GetOrCreate(s.factory) }

func (s *singletonStrategy) lifestyle() Lifestyle { return Singleton }

func (s *singletonStrategy) instance() (any, bool) { return s.slot.Value() }

func (s *singletonStrategy) owned() (any, bool) {
	if v, ok := s.slot.Value(); ok {
		return v, true
	}
	return s.prebuilt, s.prebuilt != nil
}

// wiredProducer asks the AutoWirer for a producer on first use and keeps it
// once built.
type wiredProducer struct {
	wirer    AutoWirer
	resolver Resolver
	id       Identity

	mu    sync.Mutex
	built Producer
}

func (w *wiredProducer) produce() (any, error) {
	w.mu.Lock()
	p := w.built
	if p == nil {
		var err error
		p, err = w.wirer.BuildProducer(w.id.Type, w.resolver)
		if err != nil {
			w.mu.Unlock()
			return nil, err
		}
		w.built = p
	}
	w.mu.Unlock()
	return p()
}
