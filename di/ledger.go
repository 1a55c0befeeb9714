package di

import (
	"reflect"
	"sync"

	"github.com/kbukum/locator/errors"
)

// ledger stores registrations. Reads take the read lock; writes are only
// possible while the lifecycle is Configuring.
type ledger struct {
	mu    sync.RWMutex
	state lifecycle
	// seq orders scalar registrations and keyed factories together.
	seq int

	scalars map[Identity]*Registration
	order   []Identity
	// keyedTypes counts explicit keyed registrations per type.
	keyedTypes map[reflect.Type]int

	collections     map[reflect.Type]*collection
	collectionOrder []reflect.Type

	keyFuncs     map[reflect.Type]*keyedFactory
	keyFuncOrder []reflect.Type
}

func newLedger() *ledger {
	return &ledger{
		scalars:     make(map[Identity]*Registration),
		keyedTypes:  make(map[reflect.Type]int),
		collections: make(map[reflect.Type]*collection),
		keyFuncs:    make(map[reflect.Type]*keyedFactory),
	}
}

// insert stores reg. An explicit keyed registration conflicts with a keyed
// factory for the same type.
func (l *ledger) insert(reg *Registration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.state.guard(reg.Source.Operation); err != nil {
		return err
	}
	id := reg.Identity
	if _, exists := l.scalars[id]; exists {
		return errors.DuplicateRegistration(id.String())
	}
	if id.Keyed() {
		if _, exists := l.keyFuncs[id.Type]; exists {
			return errors.DuplicateRegistration(id.String()).WithDetail("conflict", string(KindKeyFunc))
		}
		l.keyedTypes[id.Type]++
	}
	l.seq++
	reg.seq = l.seq
	l.scalars[id] = reg
	l.order = append(l.order, id)
	return nil
}

func (l *ledger) find(id Identity) (*Registration, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	reg, ok := l.scalars[id]
	return reg, ok
}

// insertKeyFunc stores a keyed factory for kf.typ.
func (l *ledger) insertKeyFunc(kf *keyedFactory) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.state.guard(kf.source.Operation); err != nil {
		return err
	}
	service := typeName(kf.typ)
	if _, exists := l.keyFuncs[kf.typ]; exists {
		return errors.DuplicateRegistration(service).WithDetail("kind", string(KindKeyFunc))
	}
	if l.keyedTypes[kf.typ] > 0 {
		return errors.DuplicateRegistration(service).WithDetail("conflict", "keyed registration")
	}
	l.seq++
	kf.seq = l.seq
	l.keyFuncs[kf.typ] = kf
	l.keyFuncOrder = append(l.keyFuncOrder, kf.typ)
	return nil
}

func (l *ledger) findKeyFunc(t reflect.Type) (*keyedFactory, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	kf, ok := l.keyFuncs[t]
	return kf, ok
}

// insertCollection stores a copy of items. Collections never conflict with
// scalar registrations of the same type.
func (l *ledger) insertCollection(col *collection) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.state.guard(col.source.Operation); err != nil {
		return err
	}
	if _, exists := l.collections[col.typ]; exists {
		return errors.DuplicateRegistration(typeName(col.typ)).WithDetail("kind", string(KindCollection))
	}
	stored := *col
	stored.items = append([]any(nil), col.items...)
	l.collections[col.typ] = &stored
	l.collectionOrder = append(l.collectionOrder, col.typ)
	return nil
}

// findCollection returns a copy of the stored sequence.
func (l *ledger) findCollection(t reflect.Type) ([]any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	col, ok := l.collections[t]
	if !ok {
		return nil, false
	}
	return append([]any(nil), col.items...), true
}

// lock moves the ledger to Locked under the write lock, so no reader sees
// Locked with a registration still being inserted. It reports whether this
// call performed the transition.
func (l *ledger) lock() bool {
	if l.state.current() == Locked {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.lock()
}

// snapshot returns scalar registrations, keyed factories and collections in
// insertion order.
func (l *ledger) snapshot() ([]*Registration, []*keyedFactory, []*collection) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	regs := make([]*Registration, 0, len(l.order))
	for _, id := range l.order {
		regs = append(regs, l.scalars[id])
	}
	kfs := make([]*keyedFactory, 0, len(l.keyFuncOrder))
	for _, t := range l.keyFuncOrder {
		kfs = append(kfs, l.keyFuncs[t])
	}
	cols := make([]*collection, 0, len(l.collectionOrder))
	for _, t := range l.collectionOrder {
		cols = append(cols, l.collections[t])
	}
	return regs, kfs, cols
}
