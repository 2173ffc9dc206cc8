// Package orderedmap provides a small generic map that remembers
// insertion order. Namespace declarations and serializer scopes need
// deterministic iteration, which a plain Go map cannot give.
package orderedmap

import "iter"

type Map[K comparable, V any] struct {
	entries []K
	values  map[K]V
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		values: make(map[K]V),
	}
}

// Put stores the value under key. Re-putting an existing key replaces
// the value but keeps the key's original position.
func (m *Map[K, V]) Put(key K, value V) {
	if _, exists := m.values[key]; !exists {
		m.entries = append(m.entries, key)
	}
	m.values[key] = value
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Map[K, V]) Len() int {
	return len(m.entries)
}

// Range iterates entries in insertion order.
func (m *Map[K, V]) Range() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.entries {
			if !yield(k, m.values[k]) {
				break
			}
		}
	}
}
