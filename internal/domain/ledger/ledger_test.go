package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarkComplete_FirstCallWins(t *testing.T) {
	keys := []string{"session1_q1", "needs_wants_game", "", "explored_job_police-officer"}

	for _, k := range keys {
		t.Run(k, func(t *testing.T) {
			var l Ledger
			now := time.Now()

			first := l.MarkComplete(k, now)
			second := l.MarkComplete(k, now.Add(time.Minute))

			assert.True(t, first)
			assert.False(t, second)
			assert.True(t, l.IsComplete(k))
			assert.Equal(t, now, l.Completed[k], "second call must not overwrite the timestamp")
		})
	}
}

func TestIsComplete_DoesNotMutate(t *testing.T) {
	l := New()

	assert.False(t, l.IsComplete("session2_q1"))
	assert.Equal(t, 0, l.Len())
}

func TestAllComplete(t *testing.T) {
	l := New()
	now := time.Now()
	l.MarkComplete("a", now)
	l.MarkComplete("b", now)

	assert.True(t, l.AllComplete("a", "b"))
	assert.False(t, l.AllComplete("a", "b", "c"))
	assert.True(t, l.AllComplete())
}

func TestKeys_CompletionOrder(t *testing.T) {
	l := New()
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	l.MarkComplete("second", base.Add(time.Second))
	l.MarkComplete("first", base)
	l.MarkComplete("also_second", base.Add(time.Second))

	assert.Equal(t, []string{"first", "also_second", "second"}, l.Keys())
}
