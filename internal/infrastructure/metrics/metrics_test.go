package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

func TestHandleEvent(t *testing.T) {
	m := New()

	for _, e := range []shared.Event{
		shared.NewActivityCompletedEvent("s", "career_quiz", "session4"),
		shared.NewCoinsAwardedEvent("s", 10, "quiz", 10),
		shared.NewCoinsAwardedEvent("s", 5, "quiz", 15),
		shared.NewAchievementUnlockedEvent("s", "🔮", "Future Planner"),
		shared.NewSessionStartedEvent("s"),
	} {
		require.NoError(t, m.HandleEvent(e))
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.activities.WithLabelValues("session4")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.coins))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.achievements.WithLabelValues("Future Planner")))
}

func TestGaugesAndHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/v1/session", http.MethodGet, 200, 20*time.Millisecond)
	m.ObserveGeneration("names", "fallback")
	m.SetActiveSessions(3)
	m.AddSwept(2)
	m.SetBreakerOpen(true)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeSessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.breakerState))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("names", "fallback")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `money_adventure_http_requests_total{method="GET",route="/api/v1/session",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "money_adventure_sessions_swept_total 2")
}
