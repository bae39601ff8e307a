package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Events are published only after the session update
// that produced them has been committed.
const (
	// Session events
	EventSessionStarted EventType = "session.started"
	EventSessionEnded   EventType = "session.ended"

	// Progress events
	EventActivityCompleted EventType = "progress.activity_completed"
	EventProgressUpdated   EventType = "progress.updated"

	// Reward events
	EventCoinsAwarded        EventType = "reward.coins_awarded"
	EventAchievementUnlocked EventType = "reward.achievement_unlocked"

	// Wizard events
	EventWizardStepChanged EventType = "wizard.step_changed"

	// Generation events
	EventGenerationCompleted EventType = "generation.completed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the session that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType { return e.Type }

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string { return e.AggregateId }

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Session Events
// ═══════════════════════════════════════════════════════════════════════════

// SessionStartedEvent is emitted when a visitor session is created.
type SessionStartedEvent struct {
	BaseEvent
}

func (e SessionStartedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"session_id": e.AggregateId}
}

// NewSessionStartedEvent creates a SessionStartedEvent.
func NewSessionStartedEvent(sessionID string) SessionStartedEvent {
	return SessionStartedEvent{BaseEvent: NewBaseEvent(EventSessionStarted, sessionID)}
}

// SessionEndedEvent is emitted when a session ends or expires.
type SessionEndedEvent struct {
	BaseEvent
	Reason string `json:"reason"` // "ended" or "expired"
}

func (e SessionEndedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"session_id": e.AggregateId, "reason": e.Reason}
}

// NewSessionEndedEvent creates a SessionEndedEvent.
func NewSessionEndedEvent(sessionID, reason string) SessionEndedEvent {
	return SessionEndedEvent{BaseEvent: NewBaseEvent(EventSessionEnded, sessionID), Reason: reason}
}

// ═══════════════════════════════════════════════════════════════════════════
// Progress Events
// ═══════════════════════════════════════════════════════════════════════════

// ActivityCompletedEvent is emitted the first time an activity key is completed.
type ActivityCompletedEvent struct {
	BaseEvent
	ActivityKey string `json:"activity_key"`
	Module      string `json:"module"`
}

func (e ActivityCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":   e.AggregateId,
		"activity_key": e.ActivityKey,
		"module":       e.Module,
	}
}

// NewActivityCompletedEvent creates an ActivityCompletedEvent.
func NewActivityCompletedEvent(sessionID, key, module string) ActivityCompletedEvent {
	return ActivityCompletedEvent{
		BaseEvent:   NewBaseEvent(EventActivityCompleted, sessionID),
		ActivityKey: key,
		Module:      module,
	}
}

// ProgressUpdatedEvent is emitted when a module percentage changes.
type ProgressUpdatedEvent struct {
	BaseEvent
	Module   string `json:"module"`
	Previous int    `json:"previous"`
	Current  int    `json:"current"`
}

func (e ProgressUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id": e.AggregateId,
		"module":     e.Module,
		"previous":   e.Previous,
		"current":    e.Current,
	}
}

// NewProgressUpdatedEvent creates a ProgressUpdatedEvent.
func NewProgressUpdatedEvent(sessionID, module string, previous, current int) ProgressUpdatedEvent {
	return ProgressUpdatedEvent{
		BaseEvent: NewBaseEvent(EventProgressUpdated, sessionID),
		Module:    module,
		Previous:  previous,
		Current:   current,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Reward Events
// ═══════════════════════════════════════════════════════════════════════════

// CoinsAwardedEvent is emitted for every coin award.
type CoinsAwardedEvent struct {
	BaseEvent
	Amount  int    `json:"amount"`
	Reason  string `json:"reason"`
	Balance int    `json:"balance"`
}

func (e CoinsAwardedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id": e.AggregateId,
		"amount":     e.Amount,
		"reason":     e.Reason,
		"balance":    e.Balance,
	}
}

// NewCoinsAwardedEvent creates a CoinsAwardedEvent.
func NewCoinsAwardedEvent(sessionID string, amount int, reason string, balance int) CoinsAwardedEvent {
	return CoinsAwardedEvent{
		BaseEvent: NewBaseEvent(EventCoinsAwarded, sessionID),
		Amount:    amount,
		Reason:    reason,
		Balance:   balance,
	}
}

// AchievementUnlockedEvent is emitted when a new achievement title is awarded.
type AchievementUnlockedEvent struct {
	BaseEvent
	Icon  string `json:"icon"`
	Title string `json:"title"`
}

func (e AchievementUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id": e.AggregateId,
		"icon":       e.Icon,
		"title":      e.Title,
	}
}

// NewAchievementUnlockedEvent creates an AchievementUnlockedEvent.
func NewAchievementUnlockedEvent(sessionID, icon, title string) AchievementUnlockedEvent {
	return AchievementUnlockedEvent{
		BaseEvent: NewBaseEvent(EventAchievementUnlocked, sessionID),
		Icon:      icon,
		Title:     title,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Wizard and Generation Events
// ═══════════════════════════════════════════════════════════════════════════

// WizardStepChangedEvent is emitted when the business wizard moves to another step.
type WizardStepChangedEvent struct {
	BaseEvent
	From string `json:"from"`
	To   string `json:"to"`
}

func (e WizardStepChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"session_id": e.AggregateId, "from": e.From, "to": e.To}
}

// NewWizardStepChangedEvent creates a WizardStepChangedEvent.
func NewWizardStepChangedEvent(sessionID, from, to string) WizardStepChangedEvent {
	return WizardStepChangedEvent{
		BaseEvent: NewBaseEvent(EventWizardStepChanged, sessionID),
		From:      from,
		To:        to,
	}
}

// GenerationCompletedEvent records which path produced a generated result.
type GenerationCompletedEvent struct {
	BaseEvent
	Kind   string `json:"kind"`   // names, ad_content, ideas
	Source string `json:"source"` // service, partial, fallback
}

func (e GenerationCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"session_id": e.AggregateId, "kind": e.Kind, "source": e.Source}
}

// NewGenerationCompletedEvent creates a GenerationCompletedEvent.
func NewGenerationCompletedEvent(sessionID, kind, source string) GenerationCompletedEvent {
	return GenerationCompletedEvent{
		BaseEvent: NewBaseEvent(EventGenerationCompleted, sessionID),
		Kind:      kind,
		Source:    source,
	}
}
