// Package sessionstore keeps short-lived per-conversation state in memory.
//
// Entries expire after a fixed idle period (every Put restarts it) and the
// least recently used entry is evicted once capacity is reached. Callers that
// read-modify-write an entry serialize on Lock for that key.
package sessionstore

import (
	"hash/maphash"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const lockStripes = 64

// Store is a capacity- and TTL-bounded map with per-key locking.
type Store[K comparable, V any] struct {
	entries *expirable.LRU[K, V]
	seed    maphash.Seed
	locks   [lockStripes]sync.Mutex
}

// New creates a store. capacity <= 0 means unbounded, ttl <= 0 means entries never expire.
func New[K comparable, V any](capacity int, ttl time.Duration) *Store[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Store[K, V]{
		entries: expirable.NewLRU[K, V](capacity, nil, ttl),
		seed:    maphash.MakeSeed(),
	}
}

// Get returns the live value for key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	return s.entries.Get(key)
}

// Put stores value under key and restarts its expiry.
func (s *Store[K, V]) Put(key K, value V) {
	s.entries.Add(key, value)
}

// Delete removes key. It reports whether a live entry was removed.
func (s *Store[K, V]) Delete(key K) bool {
	return s.entries.Remove(key)
}

// Len is the number of entries, including ones that expired but were not purged yet.
func (s *Store[K, V]) Len() int {
	return s.entries.Len()
}

// Lock acquires the lock guarding key and returns its release func.
// Distinct keys may share a stripe; holding two locks at once is not supported.
func (s *Store[K, V]) Lock(key K) (unlock func()) {
	mu := &s.locks[maphash.Comparable(s.seed, key)%lockStripes]
	mu.Lock()
	return mu.Unlock
}
