package di

import (
	"sync/atomic"

	"github.com/kbukum/locator/errors"
)

// State is the container lifecycle state. It only moves forward.
type State int32

const (
	// Configuring accepts registrations.
	Configuring State = iota
	// Locked rejects registrations and serves resolves.
	Locked
)

func (s State) String() string {
	if s == Locked {
		return "locked"
	}
	return "configuring"
}

// lifecycle is the single guard every ledger mutation goes through.
type lifecycle struct {
	state atomic.Int32
}

func (l *lifecycle) current() State { return State(l.state.Load()) }

// guard fails with CONTAINER_LOCKED once locked.
func (l *lifecycle) guard(operation string) error {
	if l.current() == Locked {
		return errors.ContainerLocked(operation)
	}
	return nil
}

// lock reports whether this call performed the transition.
func (l *lifecycle) lock() bool {
	return l.state.CompareAndSwap(int32(Configuring), int32(Locked))
}
