// Package entity defines the core domain entities and validation logic for the application.
// It contains the diary Entry, the closed set of browsing conditions, the Page result
// with its adjacency pointers, and the domain-specific errors.
package entity

import "time"

// Entry represents a single diary entry.
// Entries are totally ordered by CreatedAt with ID as the tiebreaker.
type Entry struct {
	ID        int64
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Before reports whether e sorts before other in (CreatedAt, ID) order.
func (e *Entry) Before(other *Entry) bool {
	if e.CreatedAt.Equal(other.CreatedAt) {
		return e.ID < other.ID
	}
	return e.CreatedAt.Before(other.CreatedAt)
}
