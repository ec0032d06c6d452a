// Package idalloc issues the numeric identifiers used as keys for courses,
// videos and hackathons.
package idalloc

import (
	"sync"

	"github.com/iliyamo/learning-hub/internal/model"
)

// Allocator keeps one counter per kind.  Counters start at 1 and only move
// forward, so an identifier is never handed out twice, even after the entity
// it named has been deleted.
type Allocator struct {
	mu   sync.Mutex
	next map[model.Kind]uint64
}

// New returns an allocator whose counters all start at 1.
func New() *Allocator {
	return &Allocator{next: make(map[model.Kind]uint64)}
}

// Next returns a fresh identifier for kind and advances its counter.
func (a *Allocator) Next(kind model.Kind) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.peek(kind)
	a.next[kind] = id + 1
	return id
}

func (a *Allocator) peek(kind model.Kind) uint64 {
	if n, ok := a.next[kind]; ok {
		return n
	}
	return 1
}

// Counters returns the next value of every kind that has been used.
func (a *Allocator) Counters() map[model.Kind]uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[model.Kind]uint64, len(a.next))
	for k, v := range a.next {
		out[k] = v
	}
	return out
}

// Restore loads counters taken from a snapshot.  A counter is only ever
// raised; values at or below the current one are ignored.
func (a *Allocator) Restore(counters map[model.Kind]uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for k, v := range counters {
		if v > a.peek(k) {
			a.next[k] = v
		}
	}
}
