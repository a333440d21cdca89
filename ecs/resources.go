package ecs

import "reflect"

// SetResource stores a world-wide singleton keyed by its type.
func SetResource[T any](w *World, value *T) {
	w.resources[reflect.TypeFor[T]()] = value
}

// Resource returns the singleton of type T, if one was set.
func Resource[T any](w *World) (*T, bool) {
	if w == nil {
		return nil, false
	}
	v, ok := w.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// MustResource is Resource for singletons the caller cannot run without.
func MustResource[T any](w *World) *T {
	v, ok := Resource[T](w)
	if !ok {
		panic("ecs: missing resource " + reflect.TypeFor[T]().String())
	}
	return v
}
