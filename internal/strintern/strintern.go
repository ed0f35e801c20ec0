// Package strintern is the interned-string store shared by every other
// package: identifiers, package/attribute names, and scenario variable
// values all flow through a single Table so that equality becomes an
// integer comparison instead of a string compare.
package strintern

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ID is a handle into a Table. The zero value denotes the empty string and
// is never returned by Intern for a non-empty input.
type ID uint32

// Empty is the handle for "".
const Empty ID = 0

// Table is safe for concurrent use; discovery and scanning intern
// identifiers from multiple goroutines while the single-threaded evaluator
// reads them back.
type Table struct {
	mu      sync.RWMutex
	strings []string
	byHash  map[uint64][]ID
}

// New returns an empty Table, already seeded with the Empty handle.
func New() *Table {
	return &Table{
		strings: []string{""},
		byHash:  make(map[uint64][]ID),
	}
}

// Intern returns the ID for s, allocating one on first sight.
func (t *Table) Intern(s string) ID {
	if s == "" {
		return Empty
	}
	h := xxhash.Sum64String(s)

	t.mu.RLock()
	for _, id := range t.byHash[h] {
		if t.strings[id] == s {
			t.mu.RUnlock()
			return id
		}
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range t.byHash[h] {
		if t.strings[id] == s {
			return id
		}
	}
	id := ID(len(t.strings))
	t.strings = append(t.strings, s)
	t.byHash[h] = append(t.byHash[h], id)
	return id
}

// Lookup returns the string for id, or "" if id is out of range.
func (t *Table) Lookup(id ID) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.strings) {
		return ""
	}
	return t.strings[id]
}

// Len returns the number of distinct non-empty strings interned so far.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.strings) - 1
}
