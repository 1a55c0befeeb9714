package di

import (
	"fmt"

	"github.com/kbukum/locator/errors"
)

// Resolve resolves the unkeyed T.
//
// Example:
//
//	samurai, err := di.Resolve[*Samurai](c)
//	if err != nil {
//	    return fmt.Errorf("resolving samurai: %w", err)
//	}
func Resolve[T any](r Resolver) (T, error) {
	return resolveAs[T](r, IdentityOf[T]())
}

// ResolveKeyed resolves T registered under key.
func ResolveKeyed[T any](r Resolver, key string) (T, error) {
	if key == "" {
		var zero T
		return zero, errors.NullArgument("key")
	}
	return resolveAs[T](r, KeyedIdentityOf[T](key))
}

// ResolveAll resolves the collection registered for T, in registration order.
func ResolveAll[T any](r Resolver) ([]T, error) {
	id := IdentityOf[T]()
	items, err := r.ResolveAll(id.Type)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(items))
	for i, item := range items {
		typed, ok := item.(T)
		if !ok {
			return nil, errors.TypeMismatch(id.String(), fmt.Sprintf("%T", item)).WithDetail("index", i)
		}
		out[i] = typed
	}
	return out, nil
}

// MustResolve resolves T, panicking on error. Use it in composition roots
// where a missing service is a programming error.
//
//	dojo := di.MustResolve[*Dojo](c)
func MustResolve[T any](r Resolver) T {
	v, err := Resolve[T](r)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", IdentityOf[T](), err))
	}
	return v
}

// TryResolve resolves T, returning false if it cannot be resolved.
// Use this when a dependency is optional.
func TryResolve[T any](r Resolver) (T, bool) {
	v, err := Resolve[T](r)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

func resolveAs[T any](r Resolver, id Identity) (T, error) {
	var zero T
	v, err := r.Resolve(id)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.TypeMismatch(id.String(), fmt.Sprintf("%T", v))
	}
	return typed, nil
}
