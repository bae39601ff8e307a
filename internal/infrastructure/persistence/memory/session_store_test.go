package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimes-money/money-adventure/internal/domain/curriculum"
	"github.com/grimes-money/money-adventure/internal/domain/session"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
	"github.com/grimes-money/money-adventure/pkg/timeutil"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var _ timeutil.Clock = (*testClock)(nil)

func newStore(t *testing.T) (*SessionStore, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
	s := NewSessionStore(time.Hour, clock)
	require.NoError(t, s.Create(context.Background(), session.New("a", clock.Now())))
	return s, clock
}

func TestSessionStore_CreateDuplicate(t *testing.T) {
	s, clock := newStore(t)
	err := s.Create(context.Background(), session.New("a", clock.Now()))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestSessionStore_UpdateCommitsOnlyOnSuccess(t *testing.T) {
	s, clock := newStore(t)
	ctx := context.Background()

	got, err := s.Update(ctx, "a", func(st *session.State) error {
		st.Begin(clock.Now())
		_, err := st.CompleteActivity(curriculum.FamilyMembers)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, got.Notifications(), 1)

	boom := errors.New("boom")
	_, err = s.Update(ctx, "a", func(st *session.State) error {
		st.Wallet.Coins = 1000
		return boom
	})
	assert.ErrorIs(t, err, boom)

	st, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Wallet.Coins)
	assert.Nil(t, st.Notifications())
}

func TestSessionStore_GetReturnsCopy(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	st, err := s.Get(ctx, "a")
	require.NoError(t, err)
	st.Wallet.Coins = 99

	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, again.Wallet.Coins)
}

func TestSessionStore_SlidingTTLAndSweep(t *testing.T) {
	s, clock := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, session.New("b", clock.Now())))

	clock.Advance(50 * time.Minute)
	_, err := s.Get(ctx, "a")
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Get(ctx, "b")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	removed, err := s.Sweep(ctx, clock.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestSessionStore_ConcurrentUpdatesDoNotInterleave(t *testing.T) {
	s, clock := newStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "a", func(st *session.State) error {
				st.Begin(clock.Now())
				_, err := st.CompleteActivity(curriculum.CareerQuiz)
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, curriculum.CareerQuiz.Coins, st.Wallet.Coins)
	assert.Len(t, st.Wallet.Achievements, 1)
}

func TestSessionStore_DeleteMissing(t *testing.T) {
	s, _ := newStore(t)
	assert.NoError(t, s.Delete(context.Background(), "nope"))
	assert.NoError(t, s.Delete(context.Background(), "a"))
	_, err := s.Get(context.Background(), "a")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
