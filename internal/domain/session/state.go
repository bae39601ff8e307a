// Package session owns the per-visitor state: the activity ledger, wallet,
// module progress, the business draft and transient game state.
//
// A State is mutated only inside a Store.Update pass. Rewards are granted
// through CompleteActivity, which applies the ledger's first-call-wins
// guard before any coins, progress or achievements change.
package session

import (
	"time"

	"github.com/grimes-money/money-adventure/internal/domain/business"
	"github.com/grimes-money/money-adventure/internal/domain/curriculum"
	"github.com/grimes-money/money-adventure/internal/domain/ledger"
	"github.com/grimes-money/money-adventure/internal/domain/progress"
	"github.com/grimes-money/money-adventure/internal/domain/reward"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATE
// ══════════════════════════════════════════════════════════════════════════════

// State is everything one visitor has done. It is stored as JSON.
type State struct {
	ID        shared.SessionID `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	Ledger   ledger.Ledger    `json:"ledger"`
	Wallet   reward.Wallet    `json:"wallet"`
	Progress progress.Tracker `json:"progress"`
	Draft    business.Draft   `json:"draft"`
	Games    Games            `json:"games"`

	pass *passOutput
}

// Games is transient UI state of the session 1 to 4 activities.
type Games struct {
	FamilyMembers    string                       `json:"family_members,omitempty"`
	Budget           *curriculum.BudgetPlan       `json:"budget,omitempty"`
	Sorts            map[string]map[string]string `json:"sorts,omitempty"`
	Cart             []string                     `json:"cart,omitempty"`
	Checkout         *curriculum.Checkout         `json:"checkout,omitempty"`
	SelectedBusiness *int                         `json:"selected_business,omitempty"`
	Careers          []curriculum.Recommendation  `json:"careers,omitempty"`
	Skills           []string                     `json:"skills,omitempty"`
}

// passOutput collects what one update pass produced. It is never stored.
type passOutput struct {
	now    time.Time
	inbox  reward.Inbox
	events []shared.Event
}

// New creates an empty session.
func New(id shared.SessionID, now time.Time) *State {
	return &State{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Ledger:    ledger.New(),
		Progress:  progress.New(),
	}
}

// Begin starts an update pass at now, discarding output of any earlier pass.
func (s *State) Begin(now time.Time) {
	s.pass = &passOutput{now: now}
	s.UpdatedAt = now
}

func (s *State) out() *passOutput {
	if s.pass == nil {
		s.Begin(time.Now())
	}
	return s.pass
}

// Now is the time of the current pass.
func (s *State) Now() time.Time { return s.out().now }

// Notifications returns the notifications produced in the current pass.
func (s *State) Notifications() []reward.Notification {
	if s.pass == nil {
		return nil
	}
	return s.pass.inbox
}

// Events returns the domain events produced in the current pass.
func (s *State) Events() []shared.Event {
	if s.pass == nil {
		return nil
	}
	return s.pass.events
}

// Emit records a domain event for publication after commit.
func (s *State) Emit(e shared.Event) {
	o := s.out()
	o.events = append(o.events, e)
}

func (s *State) engine() *reward.Engine {
	o := s.out()
	return reward.NewEngine(&s.Wallet, &o.inbox, func() time.Time { return o.now })
}

// ══════════════════════════════════════════════════════════════════════════════
// GUARD-THEN-ACT
// ══════════════════════════════════════════════════════════════════════════════

// CompleteActivity marks a.Key in the ledger and, only if this is the first
// time, pays the coins, adds progress and checks achievement rules.
// It reports whether the activity was newly completed.
func (s *State) CompleteActivity(a curriculum.Activity) (bool, error) {
	if !a.Module.IsValid() {
		return false, shared.ErrInvalidModule
	}
	o := s.out()
	if !s.Ledger.MarkComplete(a.Key, o.now) {
		return false, nil
	}
	id := s.ID.String()
	s.Emit(shared.NewActivityCompletedEvent(id, a.Key, a.Module.String()))

	if a.Coins > 0 {
		e := s.engine()
		e.AwardCoins(a.Coins, a.Reason)
		s.Emit(shared.NewCoinsAwardedEvent(id, a.Coins, a.Reason, e.Balance()))
	}

	if err := s.addProgress(a.Module, a.Progress); err != nil {
		return false, err
	}
	if keys, ok := curriculum.ModuleCompletion[a.Module]; ok && s.Ledger.AllComplete(keys...) {
		prev, cur, err := s.Progress.Complete(a.Module)
		if err != nil {
			return false, err
		}
		s.emitProgress(a.Module, prev, cur)
	}

	s.evaluateRules()
	return true, nil
}

// AwardAchievement grants a score-based achievement outside the rule table.
func (s *State) AwardAchievement(t curriculum.AchievementTemplate) bool {
	if !s.engine().AwardAchievement(t.Icon, t.Title, t.Description) {
		return false
	}
	s.Emit(shared.NewAchievementUnlockedEvent(s.ID.String(), t.Icon, t.Title))
	return true
}

func (s *State) addProgress(m shared.ModuleKey, delta int) error {
	prev, cur, err := s.Progress.Update(m, delta)
	if err != nil {
		return err
	}
	s.emitProgress(m, prev, cur)
	return nil
}

func (s *State) emitProgress(m shared.ModuleKey, prev, cur int) {
	if cur != prev {
		s.Emit(shared.NewProgressUpdatedEvent(s.ID.String(), m.String(), prev, cur))
	}
}

func (s *State) evaluateRules() {
	for _, r := range curriculum.AchievementRules {
		if s.Wallet.HasAchievement(r.Title) {
			continue
		}
		if r.Satisfied(s.Ledger.IsComplete) {
			s.AwardAchievement(r.AchievementTemplate)
		}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// WIZARD
// ══════════════════════════════════════════════════════════════════════════════

// Wizard runs fn against the business draft and emits a step change event
// when the derived step moved.
func (s *State) Wizard(fn func(d *business.Draft) error) error {
	from := s.Draft.Step()
	if err := fn(&s.Draft); err != nil {
		return err
	}
	if to := s.Draft.Step(); to != from {
		s.Emit(shared.NewWizardStepChangedEvent(s.ID.String(), string(from), string(to)))
	}
	return nil
}
