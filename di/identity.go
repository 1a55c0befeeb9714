package di

import "reflect"

// Identity names a service: the requested type plus an optional key.
// The zero key is the unkeyed identity. Keyed and unkeyed identities of
// the same type are distinct services.
type Identity struct {
	Type reflect.Type
	Key  string
}

// IdentityOf returns the unkeyed identity of T.
func IdentityOf[T any]() Identity {
	return Identity{Type: reflect.TypeFor[T]()}
}

// KeyedIdentityOf returns the identity of T under key.
func KeyedIdentityOf[T any](key string) Identity {
	return Identity{Type: reflect.TypeFor[T](), Key: key}
}

// Keyed reports whether the identity carries a key.
func (id Identity) Keyed() bool { return id.Key != "" }

func (id Identity) String() string {
	name := typeName(id.Type)
	if id.Key != "" {
		return name + "[key=" + id.Key + "]"
	}
	return name
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// isAbstract reports whether t cannot be constructed without a factory.
func isAbstract(t reflect.Type) bool {
	return t == nil || t.Kind() == reflect.Interface
}

// isNil reports whether v is nil or a typed nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
