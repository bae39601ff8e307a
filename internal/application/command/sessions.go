package command

import (
	"context"

	"github.com/grimes-money/money-adventure/internal/domain/session"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
	"github.com/grimes-money/money-adventure/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Session end reasons.
const (
	EndReasonUser = "ended_by_user"
)

// StartSession creates an empty session with a fresh ID.
func (s *Service) StartSession(ctx context.Context) (session.Snapshot, error) {
	st := session.New(shared.NewSessionID(), s.clock.Now())
	if err := s.store.Create(ctx, st); err != nil {
		return session.Snapshot{}, err
	}

	log := s.logger.With(logger.SessionID(st.ID.String()))
	s.publish(log, []shared.Event{shared.NewSessionStartedEvent(st.ID.String())})
	log.Info("session started")
	return st.Snapshot(), nil
}

// ResolveSession returns raw as a session ID if it names a live session.
// Otherwise a new session is started and created reports true.
func (s *Service) ResolveSession(ctx context.Context, raw string) (id shared.SessionID, created bool, err error) {
	if parsed, perr := shared.ParseSessionID(raw); perr == nil {
		_, gerr := s.store.Get(ctx, parsed)
		if gerr == nil {
			return parsed, false, nil
		}
		if !shared.IsNotFound(gerr) {
			return "", false, gerr
		}
	}

	snap, err := s.StartSession(ctx)
	if err != nil {
		return "", false, err
	}
	return snap.ID, true, nil
}

// EndSession deletes the session. Ending a missing session is not an error.
func (s *Service) EndSession(ctx context.Context, id shared.SessionID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	log := s.logger.With(logger.SessionID(id.String()))
	s.publish(log, []shared.Event{shared.NewSessionEndedEvent(id.String(), EndReasonUser)})
	log.Info("session ended")
	return nil
}
