// SPDX-License-Identifier: MPL-2.0

package catalog

import "sync"

// Store shares one Catalog snapshot between concurrent readers.
//
// Readers never block each other. Swap replaces the whole snapshot under the
// write lock, so a reader sees either the old Catalog or the new one and never
// a partially rebuilt language group.
type Store struct {
	mu      sync.RWMutex
	current *Catalog
}

// NewStore creates a Store holding c. A nil c is replaced by an empty Catalog.
func NewStore(c *Catalog) *Store {
	if c == nil {
		c = Build(nil, Filter{})
	}
	return &Store{current: c}
}

// Load returns the current snapshot.
func (s *Store) Load() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Swap installs c as the current snapshot and returns the previous one.
// A nil c is ignored and the current snapshot is returned unchanged.
func (s *Store) Swap(c *Catalog) *Catalog {
	if c == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = c
	return prev
}
