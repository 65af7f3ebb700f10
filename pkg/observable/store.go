package observable

import (
	"fmt"
	"reflect"
)

// Store is an Object whose property values live in a name-keyed backing store.
type Store struct {
	Object
	values map[string]any
	order  []string
}

// TypeMismatchError reports a read of a stored value as the wrong type.
type TypeMismatchError struct {
	Property  string
	Stored    reflect.Type
	Requested reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("property %q holds %v, requested as %v", e.Property, e.Stored, e.Requested)
}

// Value returns the raw stored value of name.
func (s *Store) Value(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Names returns the names written so far, in first-write order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Store) put(name string, v any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[name]; !ok {
		s.order = append(s.order, name)
	}
	s.values[name] = v
}

// Lookup returns the value stored under name, or T's zero value when nothing
// was stored. A value of another type is reported as *TypeMismatchError.
func Lookup[T any](s *Store, name string) (T, error) {
	var zero T
	raw, ok := s.values[name]
	if !ok || raw == nil {
		return zero, nil
	}
	v, ok := raw.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Property:  name,
			Stored:    reflect.TypeOf(raw),
			Requested: reflect.TypeOf((*T)(nil)).Elem(),
		}
	}
	return v, nil
}

// Get is Lookup for callers that treat a type mismatch as a programming error:
// it panics with *TypeMismatchError.
func Get[T any](s *Store, name string) T {
	v, err := Lookup[T](s, name)
	if err != nil {
		panic(err)
	}
	return v
}

// UncomparableValueError reports a Set whose value cannot be compared with ==.
// It happens when T is an interface, or holds one, and the dynamic value is a
// slice, map or func. Use SetFunc for such values.
type UncomparableValueError struct {
	Property string
	Type     reflect.Type
}

func (e *UncomparableValueError) Error() string {
	return fmt.Sprintf("property %q: value of type %v is not comparable, use SetFunc", e.Property, e.Type)
}

// Set stores v under name and notifies it when v differs from the current value.
// It panics with *UncomparableValueError when either value's dynamic type is
// not comparable.
func Set[T comparable](s *Store, name string, v T) bool {
	current := Get[T](s, name)
	if mayHoldInterface(reflect.TypeFor[T]()) {
		mustCompare(name, current)
		mustCompare(name, v)
	}
	if current == v {
		return false
	}
	s.put(name, v)
	s.Notify(name)
	return true
}

func mayHoldInterface(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Struct, reflect.Array:
		return true
	}
	return false
}

func mustCompare(name string, v any) {
	if v == nil {
		return
	}
	if rv := reflect.ValueOf(v); !rv.Comparable() {
		panic(&UncomparableValueError{Property: name, Type: rv.Type()})
	}
}

// SetFunc is Set with a caller-supplied equality.
func SetFunc[T any](s *Store, name string, v T, eq func(a, b T) bool) bool {
	if eq(Get[T](s, name), v) {
		return false
	}
	s.put(name, v)
	s.Notify(name)
	return true
}
