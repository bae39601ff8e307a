// Package ledger tracks which activities a student has completed.
//
// The ledger is the idempotency guard for every reward in the course: a
// reward may only be granted right after MarkComplete returns true, so
// repeating a request can never pay out twice.
package ledger

import (
	"sort"
	"time"
)

// Ledger is the CompletionSet of one session. The zero value is ready to use.
type Ledger struct {
	// Completed maps an activity key to the time it was first completed.
	Completed map[string]time.Time `json:"completed"`
}

// New creates an empty ledger.
func New() Ledger {
	return Ledger{Completed: make(map[string]time.Time)}
}

// MarkComplete records key and returns true the first time it is called for
// that key. Every later call returns false and changes nothing.
func (l *Ledger) MarkComplete(key string, at time.Time) bool {
	if l.Completed == nil {
		l.Completed = make(map[string]time.Time)
	}
	if _, done := l.Completed[key]; done {
		return false
	}
	l.Completed[key] = at
	return true
}

// IsComplete reports whether key has been completed.
func (l Ledger) IsComplete(key string) bool {
	_, done := l.Completed[key]
	return done
}

// AllComplete reports whether every key has been completed.
func (l Ledger) AllComplete(keys ...string) bool {
	for _, k := range keys {
		if !l.IsComplete(k) {
			return false
		}
	}
	return true
}

// Len returns the number of completed activities.
func (l Ledger) Len() int { return len(l.Completed) }

// Keys returns the completed keys in completion order (ties by key).
func (l Ledger) Keys() []string {
	keys := make([]string, 0, len(l.Completed))
	for k := range l.Completed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ti, tj := l.Completed[keys[i]], l.Completed[keys[j]]
		if ti.Equal(tj) {
			return keys[i] < keys[j]
		}
		return ti.Before(tj)
	})
	return keys
}
