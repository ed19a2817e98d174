// Package store provides keyed persistence for computed rectangle counts.
//
// The counting core consults a Store before computing and updates it after,
// and never depends on the implementation: Memory is a map for tests and
// one-shot runs, Badger a persistent badgerhold-backed store for long-lived
// deployments. A nil Store in the core disables caching entirely.
package store

import (
	"fmt"
	"sync"

	latinerrors "github.com/tamirms/latincount/errors"
)

// Result is a persisted sign-classified count for one (r, n) pair.
type Result struct {
	Positive uint64
	Negative uint64
}

// Difference returns Positive - Negative as a signed value.
func (r Result) Difference() int64 {
	return int64(r.Positive) - int64(r.Negative)
}

// Store is a keyed (r, n) -> Result map. Implementations must be safe for
// concurrent use. Get returns ok == false on a miss, reserving the error for
// actual store failures.
type Store interface {
	Get(r, n int) (res Result, ok bool, err error)
	Put(r, n int, res Result) error
	Close() error
}

// Memory is an in-process Store backed by a map.
type Memory struct {
	mu     sync.RWMutex
	m      map[string]Result
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]Result)}
}

func memKey(r, n int) string {
	return fmt.Sprintf("%d:%d", r, n)
}

// Get returns the cached result for (r, n), if any.
func (s *Memory) Get(r, n int) (Result, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Result{}, false, latinerrors.ErrStoreClosed
	}
	res, ok := s.m[memKey(r, n)]
	return res, ok, nil
}

// Put stores the result for (r, n), overwriting any previous value.
func (s *Memory) Put(r, n int, res Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return latinerrors.ErrStoreClosed
	}
	s.m[memKey(r, n)] = res
	return nil
}

// Close marks the store closed; subsequent operations fail with
// ErrStoreClosed.
func (s *Memory) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
