package di

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Slot caches at most one instance. Once filled it is never replaced.
type Slot struct {
	mu    sync.Mutex
	done  atomic.Bool
	value any
}

// GetOrCreate returns the cached instance, running factory to build it if
// the slot is empty. Concurrent callers block until the first caller's
// factory returns; factory runs at most once per successful fill. If
// factory fails or panics the slot stays empty and the next call retries.
// A factory that resolves its own slot deadlocks.
func (s *Slot) GetOrCreate(factory Producer) (any, error) {
	if s.done.Load() {
		return s.value, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check pattern
	if s.done.Load() {
		return s.value, nil
	}

	v, err := build(factory)
	if err != nil {
		return nil, err
	}
	s.value = v
	s.done.Store(true)
	return v, nil
}

// Value returns the cached instance, if any.
func (s *Slot) Value() (any, bool) {
	if !s.done.Load() {
		return nil, false
	}
	return s.value, true
}

// Materialized reports whether the slot holds an instance.
func (s *Slot) Materialized() bool { return s.done.Load() }

// build runs factory, turning a panic into an error.
func build(factory Producer) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return factory()
}
