package session

import (
	"time"

	"github.com/grimes-money/money-adventure/internal/domain/business"
	"github.com/grimes-money/money-adventure/internal/domain/curriculum"
	"github.com/grimes-money/money-adventure/internal/domain/reward"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// Snapshot is the read-only view of a session handed to the presentation
// layer.
type Snapshot struct {
	ID           shared.SessionID         `json:"id"`
	CreatedAt    time.Time                `json:"created_at"`
	Coins        int                      `json:"coins"`
	Achievements []reward.Achievement     `json:"achievements"`
	Progress     map[shared.ModuleKey]int `json:"progress"`
	Overall      int                      `json:"overall"`
	Completed    []string                 `json:"completed"`
	Wizard       WizardView               `json:"wizard"`
	Games        GamesView                `json:"games"`
}

// WizardView is the business draft plus its derived step and prefills.
type WizardView struct {
	Step             business.Step  `json:"step"`
	Draft            business.Draft `json:"draft"`
	IdeaIcons        IdeaIcons      `json:"idea_icons,omitempty"`
	SuggestedTagline string         `json:"suggested_tagline"`
	SuggestedContact string         `json:"suggested_contact"`
	DefaultColor     string         `json:"default_color"`
}

// IdeaIcons maps each generated idea to its card icon.
type IdeaIcons struct {
	Now    map[string]string `json:"now,omitempty"`
	Future map[string]string `json:"future,omitempty"`
}

// GamesView adds derived numbers to the stored game state.
type GamesView struct {
	Games
	Remaining int `json:"shop_remaining"`
}

// Snapshot builds the view of s.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		Coins:        s.Wallet.Coins,
		Achievements: append([]reward.Achievement{}, s.Wallet.Achievements...),
		Progress:     make(map[shared.ModuleKey]int, len(shared.AllModules)),
		Overall:      s.Progress.Overall(),
		Completed:    s.Ledger.Keys(),
		Wizard: WizardView{
			Step:             s.Draft.Step(),
			Draft:            s.Draft,
			SuggestedTagline: s.Draft.SuggestedTagline(),
			SuggestedContact: s.Draft.SuggestedContact(),
			DefaultColor:     business.DefaultColor,
		},
		Games: GamesView{Games: s.Games, Remaining: curriculum.Remaining(s.Cart())},
	}
	for _, m := range shared.AllModules {
		snap.Progress[m] = s.Progress.Get(m)
	}
	if ideas := s.Draft.Ideas; ideas != nil {
		snap.Wizard.IdeaIcons = IdeaIcons{
			Now:    iconsFor(ideas.Now, shared.TimeframeNow),
			Future: iconsFor(ideas.Future, shared.TimeframeFuture),
		}
	}
	return snap
}

// Cart resolves the stored cart item names.
func (s *State) Cart() []curriculum.ShopItem {
	cart := make([]curriculum.ShopItem, 0, len(s.Games.Cart))
	for _, name := range s.Games.Cart {
		if it, err := curriculum.FindShopItem(name); err == nil {
			cart = append(cart, it)
		}
	}
	return cart
}

func iconsFor(ideas []string, tf shared.Timeframe) map[string]string {
	out := make(map[string]string, len(ideas))
	for _, idea := range ideas {
		out[idea] = business.IdeaIcon(idea, tf)
	}
	return out
}
