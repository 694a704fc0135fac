// Package registry provides a name-keyed registry that remembers insertion
// order and rejects conflicting re-registrations.
//
// A Registry is the storage behind the schema and security scheme sections of
// an assembled document. Registering the same name twice is idempotent when
// the two values are equal under the registry's equality function, and an
// error produced by the registry's conflict function otherwise. The first
// value always stays registered.
//
// Concurrency: a Registry is not safe for concurrent use. Build it on one
// goroutine, then share it read-only.
package registry

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Order selects the iteration order of registries and operation tables.
type Order string

const (
	// Insertion iterates in the order names were first registered.
	Insertion Order = "insertion"
	// Lexicographic iterates sorted by name.
	Lexicographic Order = "lexicographic"
)

// ValidOrders returns all valid order strings.
func ValidOrders() []string {
	return []string{string(Insertion), string(Lexicographic)}
}

// ParseOrder converts a user-supplied string into an Order.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case Insertion, "":
		return Insertion, nil
	case Lexicographic, "lex", "sorted":
		return Lexicographic, nil
	default:
		return "", fmt.Errorf("unknown order %q (valid: %s)", s, strings.Join(ValidOrders(), ", "))
	}
}

// EqualFunc reports whether two registered values are structurally equal.
type EqualFunc[V any] func(a, b V) bool

// ConflictFunc builds the error returned when name is registered with a value
// that differs from the one already stored.
type ConflictFunc[V any] func(name string, first, second V) error

type element[V any] struct {
	name  string
	value V
}

// Registry maps names to values, preserving first-registration order.
type Registry[V any] struct {
	m        map[string]*element[V]
	l        []*element[V]
	equal    EqualFunc[V]
	conflict ConflictFunc[V]
}

// New creates an empty registry. A nil conflict function produces a generic error.
func New[V any](equal EqualFunc[V], conflict ConflictFunc[V]) *Registry[V] {
	if conflict == nil {
		conflict = func(name string, _, _ V) error {
			return fmt.Errorf("registry: %q already registered with a different value", name)
		}
	}
	return &Registry[V]{
		m:        make(map[string]*element[V]),
		equal:    equal,
		conflict: conflict,
	}
}

// Register stores value under name.
// Re-registering an equal value is a no-op; a different value returns the
// conflict error and leaves the registry unchanged.
func (r *Registry[V]) Register(name string, value V) error {
	if existing, ok := r.m[name]; ok {
		if r.equal(existing.value, value) {
			return nil
		}
		return r.conflict(name, existing.value, value)
	}
	e := &element[V]{name: name, value: value}
	r.m[name] = e
	r.l = append(r.l, e)
	return nil
}

// Replace stores value under name, overwriting any previous value while
// keeping the original insertion position.
func (r *Registry[V]) Replace(name string, value V) {
	if existing, ok := r.m[name]; ok {
		existing.value = value
		return
	}
	e := &element[V]{name: name, value: value}
	r.m[name] = e
	r.l = append(r.l, e)
}

// Resolve returns the value registered under name.
func (r *Registry[V]) Resolve(name string) (V, bool) {
	if r == nil {
		var zero V
		return zero, false
	}
	e, ok := r.m[name]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Has reports whether name is registered.
func (r *Registry[V]) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.m[name]
	return ok
}

// Len returns the number of registered names. nil safe.
func (r *Registry[V]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.l)
}

// All returns a lazy iterator over (name, value) pairs in the requested order.
// The sequence is finite and may be ranged over any number of times.
func (r *Registry[V]) All(order Order) iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if r == nil {
			return
		}
		elems := r.l
		if order == Lexicographic {
			elems = slices.Clone(r.l)
			slices.SortFunc(elems, func(a, b *element[V]) int {
				return strings.Compare(a.name, b.name)
			})
		}
		for _, e := range elems {
			if !yield(e.name, e.value) {
				return
			}
		}
	}
}

// Names returns the registered names in the requested order.
func (r *Registry[V]) Names(order Order) []string {
	names := make([]string, 0, r.Len())
	for name := range r.All(order) {
		names = append(names, name)
	}
	return names
}

// Clone returns an independent registry with the same equality and conflict
// functions. copyValue is applied to every value; nil copies values as-is.
// Cloning a nil registry returns nil.
func (r *Registry[V]) Clone(copyValue func(V) V) *Registry[V] {
	if r == nil {
		return nil
	}
	c := &Registry[V]{
		m:        make(map[string]*element[V], len(r.m)),
		l:        make([]*element[V], 0, len(r.l)),
		equal:    r.equal,
		conflict: r.conflict,
	}
	for _, e := range r.l {
		v := e.value
		if copyValue != nil {
			v = copyValue(v)
		}
		ce := &element[V]{name: e.name, value: v}
		c.m[e.name] = ce
		c.l = append(c.l, ce)
	}
	return c
}
