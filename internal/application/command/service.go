// Package command contains write operations (CQRS - Commands).
//
// Every action is one update pass: the session is loaded, the action runs
// against a private copy, and the copy is committed only if the action
// succeeded. Domain events produced by the pass are published after commit.
// Calls to the text generation service happen before the pass, never inside
// it, and their results are applied with a stale-input guard.
package command

import (
	"context"
	"time"

	"github.com/grimes-money/money-adventure/internal/application/generator"
	"github.com/grimes-money/money-adventure/internal/domain/business"
	"github.com/grimes-money/money-adventure/internal/domain/reward"
	"github.com/grimes-money/money-adventure/internal/domain/session"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
	"github.com/grimes-money/money-adventure/pkg/logger"
	"github.com/grimes-money/money-adventure/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Publisher receives the domain events of committed passes.
type Publisher interface {
	Publish(events ...shared.Event) error
}

// Config contains the dependencies of the Service.
type Config struct {
	Store     session.Store
	Publisher Publisher

	Names *generator.NameGenerator
	Ads   *generator.AdContentGenerator
	Ideas *generator.IdeaGenerator

	// Rand samples fallback ideas.
	Rand   business.Rand
	Clock  timeutil.Clock
	Logger *logger.Logger
}

// Service runs every write action of the app.
type Service struct {
	store     session.Store
	publisher Publisher
	names     *generator.NameGenerator
	ads       *generator.AdContentGenerator
	ideas     *generator.IdeaGenerator
	rand      business.Rand
	clock     timeutil.Clock
	logger    *logger.Logger
}

// NewService creates a Service. Missing generators fall back to local
// generation only.
func NewService(cfg Config) *Service {
	if cfg.Clock == nil {
		cfg.Clock = timeutil.SystemClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Rand == nil {
		cfg.Rand = generator.NewRand(0)
	}
	opts := generator.Options{Logger: cfg.Logger}
	if cfg.Names == nil {
		cfg.Names = generator.NewNameGenerator(opts)
	}
	if cfg.Ads == nil {
		cfg.Ads = generator.NewAdContentGenerator(opts)
	}
	if cfg.Ideas == nil {
		cfg.Ideas = generator.NewIdeaGenerator(opts)
	}

	return &Service{
		store:     cfg.Store,
		publisher: cfg.Publisher,
		names:     cfg.Names,
		ads:       cfg.Ads,
		ideas:     cfg.Ideas,
		rand:      cfg.Rand,
		clock:     cfg.Clock,
		logger:    cfg.Logger.With(logger.Component("command")),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// RESULT
// ══════════════════════════════════════════════════════════════════════════════

// ActionResult is what every action returns to the presentation layer.
type ActionResult struct {
	// Result is the action-specific payload.
	Result interface{} `json:"result"`

	// Notifications are the coin and achievement messages of this pass.
	Notifications []reward.Notification `json:"notifications"`

	// Snapshot is the session after commit.
	Snapshot session.Snapshot `json:"snapshot"`
}

// action is the body of one update pass.
type action func(st *session.State) (interface{}, error)

// apply runs fn as one pass over session id.
func (s *Service) apply(ctx context.Context, id shared.SessionID, op string, fn action) (*ActionResult, error) {
	start := time.Now()
	log := s.logger.With(logger.SessionID(id.String()), logger.Operation(op))

	var result interface{}
	st, err := s.store.Update(ctx, id, func(st *session.State) error {
		st.Begin(s.clock.Now())
		r, err := fn(st)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		log.Debug("action rejected", logger.Err(err))
		return nil, err
	}

	s.publish(log, st.Events())

	notifications := st.Notifications()
	if notifications == nil {
		notifications = []reward.Notification{}
	}
	log.Debug("action applied",
		logger.Int("notifications", len(notifications)),
		logger.Coins(st.Wallet.Coins),
		logger.Latency(time.Since(start)),
	)

	return &ActionResult{
		Result:        result,
		Notifications: notifications,
		Snapshot:      st.Snapshot(),
	}, nil
}

// read returns a copy of the session for work done outside a pass.
func (s *Service) read(ctx context.Context, id shared.SessionID) (*session.State, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) publish(log *logger.Logger, events []shared.Event) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(events...); err != nil {
		log.Warn("failed to publish events", logger.Int("events", len(events)), logger.Err(err))
	}
}
