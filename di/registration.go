package di

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/google/uuid"
)

// Kind records which registration form produced a Registration.
type Kind string

const (
	KindFactory     Kind = "factory"
	KindInstance    Kind = "instance"
	KindInitializer Kind = "initializer"
	KindConcrete    Kind = "concrete"
	KindKeyFunc     Kind = "key_func"
	KindCollection  Kind = "collection"
)

// Source records where a registration was made.
type Source struct {
	Operation string `json:"operation"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
}

func (s Source) String() string {
	if s.File == "" {
		return s.Operation
	}
	return fmt.Sprintf("%s at %s:%d", s.Operation, s.File, s.Line)
}

// callerSource captures the first caller outside this package.
func callerSource(operation string) Source {
	src := Source{Operation: operation}
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isPackageFrame(frame.Function) {
			src.File = frame.File
			src.Line = frame.Line
			return src
		}
		if !more {
			return src
		}
	}
}

var packagePath = reflect.TypeFor[Identity]().PkgPath()

func isPackageFrame(function string) bool {
	if len(function) <= len(packagePath) || function[:len(packagePath)] != packagePath {
		return false
	}
	// Exclude _test packages and sub-packages sharing the prefix.
	return function[len(packagePath)] == '.'
}

// Registration is one entry of the ledger. It is immutable once stored.
type Registration struct {
	ID        string
	Identity  Identity
	Lifestyle Lifestyle
	Kind      Kind
	Source    Source

	seq      int
	strategy strategy
}

func newRegistration(id Identity, kind Kind, source Source, s strategy) *Registration {
	return &Registration{
		ID:        newID(),
		Identity:  id,
		Lifestyle: s.lifestyle(),
		Kind:      kind,
		Source:    source,
		strategy:  s,
	}
}

func newID() string { return uuid.NewString() }

// collection is an ordered, unkeyed sequence of instances for one type.
type collection struct {
	id     string
	typ    reflect.Type
	items  []any
	source Source
}

// keyedFactory serves every key of one type that has no explicit keyed
// registration. Singleton factories cache one slot per key.
type keyedFactory struct {
	id        string
	typ       reflect.Type
	lifestyle Lifestyle
	produce   func(key string) (any, error)
	source    Source
	seq       int

	mu    sync.Mutex
	slots map[string]*keySlot
	keys  []string
}

// keySlot counts the resolves holding a slot so an empty one can be
// dropped once nobody is using it.
type keySlot struct {
	Slot
	users int
}

func (k *keyedFactory) acquire(key string) *keySlot {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, ok := k.slots[key]
	if !ok {
		s = &keySlot{}
		k.slots[key] = s
		k.keys = append(k.keys, key)
	}
	s.users++
	return s
}

// release drops the slot for key if its build failed and no other resolve
// holds it, so failed keys do not accumulate.
func (k *keyedFactory) release(key string, s *keySlot) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s.users--
	if s.users > 0 || s.Materialized() || k.slots[key] != s {
		return
	}
	delete(k.slots, key)
	for i, existing := range k.keys {
		if existing == key {
			k.keys = append(k.keys[:i], k.keys[i+1:]...)
			break
		}
	}
}

func (k *keyedFactory) slotCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.slots)
}

// materialized returns the built singleton instances in key creation order.
func (k *keyedFactory) materialized() []any {
	k.mu.Lock()
	defer k.mu.Unlock()
	var out []any
	for _, key := range k.keys {
		if v, ok := k.slots[key].Value(); ok {
			out = append(out, v)
		}
	}
	return out
}
