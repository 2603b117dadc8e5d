// Package history implements the bounded command history of the shell.
package history

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
)

// DefaultCapacity is the number of entries retained when no capacity is
// configured.
const DefaultCapacity = 10

var (
	// ErrEmptyHistory is returned when the most recent entry is requested but
	// nothing has been recorded yet.
	ErrEmptyHistory = errors.New("history is empty")

	// ErrInvalidSelector is returned when a selector isn't a number.
	ErrInvalidSelector = errors.New("invalid history selector")

	// ErrOutOfRange is returned when a numeric selector doesn't refer to a
	// retained entry.
	ErrOutOfRange = errors.New("history selector out of range")
)

// SelectorError records a failed lookup and the selector that caused it.
type SelectorError struct {
	Selector string
	Err      error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("%q: %v", e.Selector, e.Err)
}

func (e *SelectorError) Unwrap() error {
	return e.Err
}

// Store is an in-memory, capacity bounded log of command lines. Once the
// store is full, recording a new line evicts the oldest one.
//
// Positions are 1-based and always relative to the entries currently
// retained, so after an eviction position 1 refers to a different line than
// it did before.
//
// Store is not safe for concurrent use.
type Store struct {
	capacity int
	entries  []string
}

// New creates an empty store. Non-positive capacities use DefaultCapacity.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Store{
		capacity: capacity,
		entries:  make([]string, 0, capacity),
	}
}

// Capacity returns the maximum number of retained entries.
func (s *Store) Capacity() int {
	return s.capacity
}

// Len returns the number of retained entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Record appends line verbatim, evicting the oldest entry if the store is
// full.
func (s *Store) Record(line string) {
	if len(s.entries) == s.capacity {
		copy(s.entries, s.entries[1:])
		s.entries = s.entries[:len(s.entries)-1]
	}
	s.entries = append(s.entries, line)
}

// List yields (position, line) pairs from oldest to newest.
func (s *Store) List() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, line := range s.entries {
			if !yield(i+1, line) {
				return
			}
		}
	}
}

// Entries returns a copy of the retained lines, oldest first.
func (s *Store) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Resolve finds the entry a recall selector refers to.
//
// An empty selector means the most recent entry. Anything else must be a
// base 10 integer between 1 and Len(). Failures wrap ErrEmptyHistory,
// ErrInvalidSelector or ErrOutOfRange in a *SelectorError.
func (s *Store) Resolve(selector string) (string, error) {
	if selector == "" {
		if len(s.entries) == 0 {
			return "", &SelectorError{Selector: selector, Err: ErrEmptyHistory}
		}
		return s.entries[len(s.entries)-1], nil
	}

	n, err := strconv.Atoi(selector)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return "", &SelectorError{Selector: selector, Err: ErrOutOfRange}
	case err != nil:
		return "", &SelectorError{Selector: selector, Err: ErrInvalidSelector}
	case n < 1 || n > len(s.entries):
		return "", &SelectorError{Selector: selector, Err: ErrOutOfRange}
	}

	return s.entries[n-1], nil
}
