// Package ordmap provides a map that iterates its entries in ascending key order.
package ordmap

import (
	"cmp"
	"iter"
	"slices"
)

// Map associates ordered keys with values and keeps keys sorted ascending.
// Lookup is O(1); inserting or deleting a key is O(n) in the number of keys.
// A Map must be created with [New]. It is not safe for concurrent use.
type Map[K cmp.Ordered, V any] struct {
	keys   []K
	values map[K]V
}

func New[K cmp.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{values: map[K]V{}}
}

func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.values[key]
	return ok
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	val, ok := m.values[key]
	return val, ok
}

// Set stores the value under the key, inserting the key in sorted position if
// it is new.
func (m *Map[K, V]) Set(key K, val V) {
	if _, ok := m.values[key]; !ok {
		idx, _ := slices.BinarySearch(m.keys, key)
		m.keys = slices.Insert(m.keys, idx, key)
	}
	m.values[key] = val
}

// Delete removes the key and its value, reporting whether the key was present.
func (m *Map[K, V]) Delete(key K) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	idx, _ := slices.BinarySearch(m.keys, key)
	m.keys = slices.Delete(m.keys, idx, idx+1)
	return true
}

// Clear removes every entry, keeping allocations for reuse.
func (m *Map[K, V]) Clear() {
	m.keys = m.keys[:0]
	clear(m.values)
}

// Keys returns a copy of the keys in ascending order.
// The copy stays valid while the Map is mutated during iteration.
func (m *Map[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}

// All iterates entries in ascending key order.
// Entries deleted mid-iteration are skipped; values set mid-iteration for
// not-yet-visited keys are observed.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, key := range m.Keys() {
			val, ok := m.values[key]
			if !ok {
				continue
			}
			if !yield(key, val) {
				return
			}
		}
	}
}
