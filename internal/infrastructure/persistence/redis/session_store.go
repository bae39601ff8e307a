// Package redis stores visitor sessions in Redis so several API instances
// can share them. Each session is one JSON string key with a sliding TTL;
// updates run as WATCH/MULTI optimistic transactions.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grimes-money/money-adventure/config"
	"github.com/grimes-money/money-adventure/internal/domain/session"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
	"github.com/grimes-money/money-adventure/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONNECTION
// ══════════════════════════════════════════════════════════════════════════════

// NewClient opens a Redis client from the application settings and checks
// it is reachable.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return client, nil
}

// ErrConnection is returned when Redis cannot be reached at startup.
var ErrConnection = errors.New("redis: connection failed")

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE
// ══════════════════════════════════════════════════════════════════════════════

// SessionStore is a session.Store backed by Redis.
type SessionStore struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	retrier *retry.Retrier
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore creates a store. Keys are "<prefix>session:<id>".
// maxAttempts bounds the optimistic transaction retries of Update.
func NewSessionStore(client redis.UniversalClient, prefix string, ttl time.Duration, maxAttempts int) *SessionStore {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &SessionStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		retrier: retry.SessionStoreRetrier(maxAttempts, func(err error) bool {
			return errors.Is(err, shared.ErrConcurrentModification)
		}),
	}
}

func (s *SessionStore) key(id shared.SessionID) string {
	return s.prefix + "session:" + id.String()
}

// Create implements session.Store.
func (s *SessionStore) Create(ctx context.Context, st *session.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.key(st.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return shared.NewDomainError("session", "Create", shared.ErrAlreadyExists, "session already exists")
	}
	return nil
}

// Get implements session.Store. Reading a session slides its TTL.
func (s *SessionStore) Get(ctx context.Context, id shared.SessionID) (*session.State, error) {
	data, err := s.client.GetEx(ctx, s.key(id), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return decode(data)
}

// Update implements session.Store. fn may run more than once when another
// writer commits first; each run starts from a fresh copy.
func (s *SessionStore) Update(ctx context.Context, id shared.SessionID, fn session.UpdateFunc) (*session.State, error) {
	key := s.key(id)
	var committed *session.State

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return retry.Permanent(shared.ErrSessionNotFound)
		}
		if err != nil {
			return err
		}
		st, err := decode(data)
		if err != nil {
			return retry.Permanent(err)
		}
		if err := fn(st); err != nil {
			return retry.Permanent(err)
		}
		out, err := json.Marshal(st)
		if err != nil {
			return retry.Permanent(fmt.Errorf("encode session: %w", err))
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		if errors.Is(err, redis.TxFailedErr) {
			return shared.ErrConcurrentModification
		}
		if err != nil {
			return err
		}
		committed = st
		return nil
	}

	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		return s.client.Watch(ctx, txf, key)
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// Delete implements session.Store.
func (s *SessionStore) Delete(ctx context.Context, id shared.SessionID) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Count implements session.Store by scanning the session keyspace.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"session:*", 500).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// Ping implements session.Store.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func decode(data []byte) (*session.State, error) {
	var st session.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &st, nil
}
