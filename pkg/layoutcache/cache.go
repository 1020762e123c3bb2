// Package layoutcache persists computed layouts keyed by graph identity and
// layout parameters, so the force-directed computation can be skipped when
// nothing changed.
package layoutcache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when no entry exists for a key
var ErrMiss = errors.New("layout cache miss")

// Placement is one node's position
type Placement struct {
	Node string  `json:"node"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Entry is a persisted layout
type Entry struct {
	Key        string      `json:"key"`
	Graph      string      `json:"graph"`
	CreatedAt  time.Time   `json:"created_at"`
	Placements []Placement `json:"placements"`
}

// Fresh reports whether the entry is younger than maxAge at now.
// A non-positive maxAge never expires.
func (e *Entry) Fresh(maxAge time.Duration, now time.Time) bool {
	if maxAge <= 0 {
		return true
	}
	return now.Sub(e.CreatedAt) < maxAge
}

// Cache is a key-value store for layouts. Put replaces any existing entry
// under the same key; the caller decides whether replacing is wanted.
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, entry *Entry) error
	Close() error
}
