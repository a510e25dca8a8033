// Package userlock provides per-user mutual exclusion so order creation and
// cancellation for the same user never interleave within a process.
package userlock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Set hands out one mutex per user id. Entries are dropped once the last
// holder releases, so the set stays bounded by concurrent users.
type Set struct {
	mu    sync.Mutex
	locks map[int64]*entry
}

// NewSet constructs an empty lock set.
func NewSet() *Set {
	return &Set{locks: make(map[int64]*entry)}
}

// Lock acquires the mutex for the given user and returns its release
// function.
func (s *Set) Lock(userID int64) func() {
	s.mu.Lock()
	e, ok := s.locks[userID]
	if !ok {
		e = &entry{}
		s.locks[userID] = e
	}
	e.refs++
	s.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		s.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}
