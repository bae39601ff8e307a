// Package memory keeps visitor sessions in process memory. States are held
// as JSON so every caller works on its own copy.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/grimes-money/money-adventure/internal/domain/session"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
	"github.com/grimes-money/money-adventure/pkg/timeutil"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// SessionStore is a session.Store with a sliding TTL. One mutex serializes
// every update pass.
type SessionStore struct {
	mu      sync.Mutex
	entries map[shared.SessionID]entry
	ttl     time.Duration
	clock   timeutil.Clock
}

var (
	_ session.Store   = (*SessionStore)(nil)
	_ session.Sweeper = (*SessionStore)(nil)
)

// NewSessionStore creates a store whose sessions expire ttl after last use.
func NewSessionStore(ttl time.Duration, clock timeutil.Clock) *SessionStore {
	if clock == nil {
		clock = timeutil.SystemClock()
	}
	return &SessionStore{
		entries: make(map[shared.SessionID]entry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Create implements session.Store.
func (s *SessionStore) Create(ctx context.Context, st *session.State) error {
	data, err := encode(st)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if e, ok := s.entries[st.ID]; ok && now.Before(e.expiresAt) {
		return shared.NewDomainError("session", "Create", shared.ErrAlreadyExists, "session already exists")
	}
	s.entries[st.ID] = entry{data: data, expiresAt: now.Add(s.ttl)}
	return nil
}

// Get implements session.Store.
func (s *SessionStore) Get(ctx context.Context, id shared.SessionID) (*session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.live(id)
	if err != nil {
		return nil, err
	}
	return decode(e.data)
}

// Update implements session.Store.
func (s *SessionStore) Update(ctx context.Context, id shared.SessionID, fn session.UpdateFunc) (*session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.live(id)
	if err != nil {
		return nil, err
	}
	st, err := decode(e.data)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	data, err := encode(st)
	if err != nil {
		return nil, err
	}
	s.entries[id] = entry{data: data, expiresAt: s.clock.Now().Add(s.ttl)}
	return st, nil
}

// Delete implements session.Store.
func (s *SessionStore) Delete(ctx context.Context, id shared.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Count implements session.Store.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	n := 0
	for _, e := range s.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n, nil
}

// Ping implements session.Store.
func (s *SessionStore) Ping(ctx context.Context) error { return nil }

// Sweep drops sessions that expired before now.
func (s *SessionStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}

// live returns the entry for id and slides its expiry. Caller holds mu.
func (s *SessionStore) live(id shared.SessionID) (entry, error) {
	now := s.clock.Now()
	e, ok := s.entries[id]
	if !ok || !now.Before(e.expiresAt) {
		return entry{}, shared.ErrSessionNotFound
	}
	e.expiresAt = now.Add(s.ttl)
	s.entries[id] = e
	return e, nil
}

func encode(st *session.State) ([]byte, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*session.State, error) {
	var st session.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &st, nil
}
