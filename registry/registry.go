// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package registry provides an ordered, assignability aware mapping from Go types to values.
package registry

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// TypeRequiredError is returned when a nil [reflect.Type] is used as a
// registry key or query.
type TypeRequiredError struct{}

func (TypeRequiredError) Error() string {
	return "registry: a non-nil reflect.Type is required"
}

// NotRegisteredError is returned when no registered entry matches the
// queried type.
type NotRegisteredError struct {
	Key reflect.Type
}

func (e NotRegisteredError) Error() string {
	return fmt.Sprintf("registry: no entry registered for %s", e.Key)
}

type entry[V any] struct {
	key   reflect.Type
	value V
}

// Registry maps [reflect.Type] keys to values while respecting type
// specificity. Interface keys act as base types: any type implementing
// the interface matches the entry. Entries are kept ordered so that a
// more specific key always precedes the entries it is assignable to,
// and lookup returns the value of the first entry the queried type is
// assignable to. Lookups are cached per queried type until the registry
// is mutated.
//
// Registry is safe for concurrent use.
type Registry[V any] struct {
	init func(*Registry[V])

	mu      sync.RWMutex
	entries []entry[V]
	cache   map[reflect.Type]V
	gen     uint64
}

// New constructs a [Registry] and populates it by calling init, then
// primes the lookup cache for every registered key so that missing
// defaults surface at construction time instead of at lookup time.
func New[V any](init func(*Registry[V])) *Registry[V] {
	r := &Registry[V]{
		init:  init,
		cache: make(map[reflect.Type]V),
	}
	if init != nil {
		init(r)
	}
	r.populateCache()
	return r
}

// Set registers value under key. The new entry is inserted before the
// first existing entry that key is assignable to; re-registering an
// already present key therefore shadows the older entry instead of
// replacing it, and [Registry.Delete] resurfaces the shadowed one.
func (r *Registry[V]) Set(key reflect.Type, value V) error {
	if key == nil {
		return TypeRequiredError{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.cache)

	idx := len(r.entries)
	for i, e := range r.entries {
		if key.AssignableTo(e.key) {
			idx = i
			break
		}
	}
	r.entries = slices.Insert(r.entries, idx, entry[V]{key: key, value: value})
	r.cache[key] = value
	r.gen++
	return nil
}

// MustSet is a [Registry.Set] which panics instead of returning an error.
func (r *Registry[V]) MustSet(key reflect.Type, value V) {
	err := r.Set(key, value)
	if err != nil {
		panic(err)
	}
}

// Get returns the value registered for the first entry which key is
// assignable to. It returns a [NotRegisteredError] if no entry matches
// and a [TypeRequiredError] if key is nil.
func (r *Registry[V]) Get(key reflect.Type) (V, error) {
	var zero V
	if key == nil {
		return zero, TypeRequiredError{}
	}

	r.mu.RLock()
	v, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return v, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookupLocked(key)
}

func (r *Registry[V]) lookupLocked(key reflect.Type) (V, error) {
	if v, ok := r.cache[key]; ok {
		return v, nil
	}
	for _, e := range r.entries {
		if key.AssignableTo(e.key) {
			r.cache[key] = e.value
			return e.value, nil
		}
	}
	var zero V
	return zero, NotRegisteredError{Key: key}
}

// Lookup is the two-value variant of [Registry.Get].
func (r *Registry[V]) Lookup(key reflect.Type) (V, bool) {
	v, err := r.Get(key)
	return v, err == nil
}

// Delete removes the first entry whose key exactly matches key. Unlike
// lookup, assignability does not apply here.
func (r *Registry[V]) Delete(key reflect.Type) error {
	if key == nil {
		return TypeRequiredError{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.key == key {
			r.entries = slices.Delete(r.entries, i, i+1)
			clear(r.cache)
			r.gen++
			return nil
		}
	}
	return NotRegisteredError{Key: key}
}

// Rebuild discards all entries and cached lookups, reruns the init
// callback given to [New], and reprimes the cache. The generation
// counter keeps increasing across rebuilds.
func (r *Registry[V]) Rebuild() {
	r.mu.Lock()
	r.entries = nil
	clear(r.cache)
	r.gen++
	r.mu.Unlock()

	if r.init != nil {
		r.init(r)
	}
	r.populateCache()
}

func (r *Registry[V]) populateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		_, _ = r.lookupLocked(e.key)
	}
}

// Generation returns a counter which increases with every mutation.
// Dependent caches can compare generations to notice staleness.
func (r *Registry[V]) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gen
}

// Len returns the number of registered entries, shadowed ones included.
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Keys returns the registered keys in priority order.
func (r *Registry[V]) Keys() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]reflect.Type, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.key
	}
	return keys
}
