package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/kbukum/locator/errors"
)

// AutoWirer builds a producer for a concrete type. The container asks for a
// producer the first time a concrete or initializer registration resolves.
type AutoWirer interface {
	BuildProducer(t reflect.Type, r Resolver) (Producer, error)
}

var (
	contextType  = reflect.TypeFor[context.Context]()
	resolverType = reflect.TypeFor[Resolver]()
	errorType    = reflect.TypeFor[error]()
)

// ReflectWirer is the default AutoWirer. A type is built by its provided
// constructor if there is one; otherwise a struct (or pointer to struct) is
// allocated and its `inject`-tagged fields are resolved:
//
//	type Samurai struct {
//	    Weapon Weapon `inject:""`       // unkeyed Weapon
//	    Backup Weapon `inject:"shuriken"` // Weapon under key "shuriken"
//	}
type ReflectWirer struct {
	mu           sync.RWMutex
	constructors map[reflect.Type]reflect.Value
}

// NewReflectWirer creates a wirer with no constructors.
func NewReflectWirer() *ReflectWirer {
	return &ReflectWirer{constructors: make(map[reflect.Type]reflect.Value)}
}

// Provide registers constructor as the way to build its first result type.
// Accepted shapes are func(...) T and func(...) (T, error); parameters of
// type context.Context receive context.Background(), a Resolver parameter
// receives the resolving container, and any other parameter is resolved
// as an unkeyed service.
func (w *ReflectWirer) Provide(constructor any) error {
	fn := reflect.ValueOf(constructor)
	if !fn.IsValid() || (fn.Kind() == reflect.Func && fn.IsNil()) {
		return errors.NullArgument("constructor")
	}
	if fn.Kind() != reflect.Func {
		return fmt.Errorf("constructor must be a function, got %s", fn.Type())
	}
	ft := fn.Type()
	if ft.NumOut() < 1 || ft.NumOut() > 2 || (ft.NumOut() == 2 && ft.Out(1) != errorType) {
		return fmt.Errorf("constructor must return either (instance) or (instance, error), got %s", ft)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.constructors[ft.Out(0)]; exists {
		return errors.DuplicateRegistration(ft.Out(0).String()).WithDetail("kind", "constructor")
	}
	w.constructors[ft.Out(0)] = fn
	return nil
}

// BuildProducer implements AutoWirer.
func (w *ReflectWirer) BuildProducer(t reflect.Type, r Resolver) (Producer, error) {
	if isAbstract(t) {
		return nil, errors.AbstractType(typeName(t), "auto-wiring")
	}

	w.mu.RLock()
	fn, ok := w.constructors[t]
	w.mu.RUnlock()
	if ok {
		return func() (any, error) { return callConstructor(fn, r) }, nil
	}

	st, ptr := t, false
	if t.Kind() == reflect.Ptr {
		st, ptr = t.Elem(), true
	}
	if st.Kind() != reflect.Struct {
		return nil, fmt.Errorf("no constructor provided for %s", t)
	}
	fields, err := injectableFields(st)
	if err != nil {
		return nil, err
	}

	return func() (any, error) {
		v := reflect.New(st)
		for _, f := range fields {
			dep, err := r.Resolve(f.id)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.name, err)
			}
			dv := reflect.ValueOf(dep)
			if !dv.Type().AssignableTo(f.id.Type) {
				return nil, errors.TypeMismatch(f.id.String(), dv.Type().String())
			}
			v.Elem().Field(f.index).Set(dv)
		}
		if ptr {
			return v.Interface(), nil
		}
		return v.Elem().Interface(), nil
	}, nil
}

type injectField struct {
	name  string
	index int
	id    Identity
}

// injectableFields lists the `inject`-tagged fields of st. The tag value is
// the key; "-" skips the field.
func injectableFields(st reflect.Type) ([]injectField, error) {
	var fields []injectField
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		key, ok := f.Tag.Lookup("inject")
		if !ok || key == "-" {
			continue
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("field %s.%s is tagged inject but unexported", st, f.Name)
		}
		fields = append(fields, injectField{
			name:  f.Name,
			index: i,
			id:    Identity{Type: f.Type, Key: key},
		})
	}
	return fields, nil
}

func callConstructor(fn reflect.Value, r Resolver) (any, error) {
	ft := fn.Type()
	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		in := ft.In(i)
		switch in {
		case contextType:
			args[i] = reflect.ValueOf(context.Background())
		case resolverType:
			args[i] = reflect.ValueOf(r)
		default:
			id := Identity{Type: in}
			dep, err := r.Resolve(id)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			dv := reflect.ValueOf(dep)
			if !dv.Type().AssignableTo(in) {
				return nil, errors.TypeMismatch(id.String(), dv.Type().String())
			}
			args[i] = dv
		}
	}

	results := fn.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}
