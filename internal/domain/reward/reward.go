// Package reward awards coins and achievement badges.
package reward

import (
	"fmt"
	"time"
)

// Achievement is a badge. Titles are unique within a wallet.
type Achievement struct {
	Icon        string    `json:"icon"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// Wallet holds the coin balance and the achievement list of one session.
// Achievements are kept in award order.
type Wallet struct {
	Coins        int           `json:"coins"`
	Achievements []Achievement `json:"achievements"`
}

// HasAchievement reports whether title has been awarded.
func (w Wallet) HasAchievement(title string) bool {
	for _, a := range w.Achievements {
		if a.Title == title {
			return true
		}
	}
	return false
}

// NotificationKind distinguishes the two celebratory messages.
type NotificationKind string

const (
	KindCoins       NotificationKind = "coins"
	KindAchievement NotificationKind = "achievement"
)

// Notification is a user-visible message produced by an award.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Message     string           `json:"message"`
	Amount      int              `json:"amount,omitempty"`
	Reason      string           `json:"reason,omitempty"`
	Icon        string           `json:"icon,omitempty"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
}

// Notifier receives notifications as they are produced.
type Notifier interface {
	Notify(n Notification)
}

// Inbox collects notifications for the current request.
type Inbox []Notification

// Notify implements Notifier.
func (i *Inbox) Notify(n Notification) { *i = append(*i, n) }

// Engine applies awards to a wallet and reports them to a notifier.
type Engine struct {
	wallet   *Wallet
	notifier Notifier
	now      func() time.Time
}

// NewEngine binds an engine to wallet. A nil notifier drops notifications.
func NewEngine(wallet *Wallet, notifier Notifier, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{wallet: wallet, notifier: notifier, now: now}
}

// AwardCoins adds amount to the balance and emits a notification.
// Negative amounts are not rejected; callers only pass positive rewards.
func (e *Engine) AwardCoins(amount int, reason string) {
	e.wallet.Coins += amount
	e.notify(Notification{
		Kind:    KindCoins,
		Message: fmt.Sprintf("🎉 You earned %d coins: %s", amount, reason),
		Amount:  amount,
		Reason:  reason,
	})
}

// AwardAchievement appends a new achievement and returns true. If the title
// was already awarded nothing changes, the first award is kept, and it
// returns false.
func (e *Engine) AwardAchievement(icon, title, description string) bool {
	if e.wallet.HasAchievement(title) {
		return false
	}
	e.wallet.Achievements = append(e.wallet.Achievements, Achievement{
		Icon:        icon,
		Title:       title,
		Description: description,
		AwardedAt:   e.now(),
	})
	e.notify(Notification{
		Kind:        KindAchievement,
		Message:     fmt.Sprintf("🏆 New Achievement: %s", title),
		Icon:        icon,
		Title:       title,
		Description: description,
	})
	return true
}

// Balance returns the current coin balance.
func (e *Engine) Balance() int { return e.wallet.Coins }

func (e *Engine) notify(n Notification) {
	if e.notifier != nil {
		e.notifier.Notify(n)
	}
}
