// Package store provides the keyed collections the registry keeps its
// entities in.
package store

import "sync"

// Cloner is implemented by entity types that can produce a deep copy of
// themselves.  Stores clone on the way in and out so callers never alias
// stored state.
type Cloner[V any] interface {
	Clone() V
}

// Store is a keyed collection of one entity kind.
type Store[K comparable, V any] interface {
	// Insert adds v at key, replacing any previous value.
	Insert(key K, v V)
	// Get returns a copy of the value at key.
	Get(key K) (V, bool)
	// Remove deletes the value at key and returns it.
	Remove(key K) (V, bool)
	// List returns every value in unspecified order.
	List() []V
	// Len returns the number of stored values.
	Len() int
}

// MemoryStore is a Store backed by a map.  Every method holds the store's
// lock for its whole duration, so no caller can observe a half-applied
// insert or remove.
type MemoryStore[K comparable, V Cloner[V]] struct {
	mu    sync.RWMutex
	items map[K]V
}

// NewMemoryStore returns an empty store.
func NewMemoryStore[K comparable, V Cloner[V]]() *MemoryStore[K, V] {
	return &MemoryStore[K, V]{items: make(map[K]V)}
}

func (s *MemoryStore[K, V]) Insert(key K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = v.Clone()
}

func (s *MemoryStore[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return v.Clone(), true
}

func (s *MemoryStore[K, V]) Remove(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	return v, ok
}

func (s *MemoryStore[K, V]) List() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]V, 0, len(s.items))
	for _, v := range s.items {
		out = append(out, v.Clone())
	}
	return out
}

func (s *MemoryStore[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Replace swaps the whole content of the store for items, keyed by keyOf.
// It is used when restoring a snapshot.
func (s *MemoryStore[K, V]) Replace(items []V, keyOf func(V) K) {
	next := make(map[K]V, len(items))
	for _, v := range items {
		next[keyOf(v)] = v.Clone()
	}
	s.mu.Lock()
	s.items = next
	s.mu.Unlock()
}
