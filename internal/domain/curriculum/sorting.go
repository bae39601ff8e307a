package curriculum

import (
	"fmt"

	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// SortItem is one card in a two-bucket sorting game.
type SortItem struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Answer string `json:"-"`
}

// SortGame is a two-category sorting game such as needs vs. wants.
type SortGame struct {
	ID         string           `json:"id"`
	Key        string           `json:"-"`
	Module     shared.ModuleKey `json:"module"`
	Title      string           `json:"title"`
	Categories [2]string        `json:"categories"`
	Items      []SortItem       `json:"items"`

	CoinsPerCorrect int    `json:"-"`
	Progress        int    `json:"-"`
	ReasonFormat    string `json:"-"`

	// Mastery is awarded when the first scored round reaches Threshold.
	Threshold int                 `json:"-"`
	Mastery   AchievementTemplate `json:"-"`
}

// AchievementTemplate is the icon, title and description of an achievement
// before it is awarded.
type AchievementTemplate struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var NeedsWants = SortGame{
	ID:         "needs-wants",
	Key:        KeyNeedsWantsGame,
	Module:     shared.ModuleNeedsWants,
	Title:      "Needs vs. Wants",
	Categories: [2]string{"Need", "Want"},
	Items: []SortItem{
		{Name: "Apple", Icon: "🍎", Answer: "Need"},
		{Name: "Bicycle", Icon: "🚲", Answer: "Want"},
		{Name: "House", Icon: "🏠", Answer: "Need"},
		{Name: "Video Game", Icon: "🎮", Answer: "Want"},
		{Name: "Winter Coat", Icon: "🧥", Answer: "Need"},
		{Name: "Toy Car", Icon: "🚗", Answer: "Want"},
		{Name: "Water", Icon: "💧", Answer: "Need"},
		{Name: "Chocolate", Icon: "🍫", Answer: "Want"},
		{Name: "School Books", Icon: "📚", Answer: "Need"},
		{Name: "Medicine", Icon: "💊", Answer: "Need"},
	},
	CoinsPerCorrect: 2,
	Progress:        40,
	ReasonFormat:    "Getting %d answers correct in the Needs vs. Wants game",
	Threshold:       8,
	Mastery: AchievementTemplate{
		Icon: "🛒", Title: "Smart Shopper",
		Description: "You know the difference between needs and wants!",
	},
}

var GoodsServices = SortGame{
	ID:         "goods-services",
	Key:        KeyGoodsServices,
	Module:     shared.ModuleBusinesses,
	Title:      "Goods vs. Services",
	Categories: [2]string{"Good", "Service"},
	Items: []SortItem{
		{Name: "Haircut", Icon: "✂️", Answer: "Service"},
		{Name: "Pizza", Icon: "🍕", Answer: "Good"},
		{Name: "Car Wash", Icon: "🚗", Answer: "Service"},
		{Name: "Book", Icon: "📕", Answer: "Good"},
		{Name: "Doctor Visit", Icon: "👨‍⚕️", Answer: "Service"},
		{Name: "Toy", Icon: "🧸", Answer: "Good"},
		{Name: "Music Lesson", Icon: "🎵", Answer: "Service"},
		{Name: "Ice Cream Cone", Icon: "🍦", Answer: "Good"},
	},
	CoinsPerCorrect: 2,
	Progress:        40,
	ReasonFormat:    "Getting %d answers correct in the Goods vs. Services game",
	Threshold:       6,
	Mastery: AchievementTemplate{
		Icon: "🛍️", Title: "Business Basics Pro",
		Description: "You know the difference between goods and services!",
	},
}

// SortGames indexes the games by ID.
var SortGames = map[string]SortGame{
	NeedsWants.ID:    NeedsWants,
	GoodsServices.ID: GoodsServices,
}

// FindSortGame looks up a game by ID.
func FindSortGame(id string) (SortGame, error) {
	g, ok := SortGames[id]
	if !ok {
		return SortGame{}, shared.NewDomainError("curriculum", "FindSortGame", shared.ErrInvalidInput, "unknown game")
	}
	return g, nil
}

// Item returns the item with the given name.
func (g SortGame) Item(name string) (SortItem, bool) {
	for _, it := range g.Items {
		if it.Name == name {
			return it, true
		}
	}
	return SortItem{}, false
}

// ValidatePlacement checks that item exists and category is one of the two
// buckets.
func (g SortGame) ValidatePlacement(item, category string) error {
	if _, ok := g.Item(item); !ok {
		return shared.NewDomainError("curriculum", "ValidatePlacement", shared.ErrInvalidInput, "unknown item")
	}
	if category != g.Categories[0] && category != g.Categories[1] {
		return shared.NewDomainError("curriculum", "ValidatePlacement", shared.ErrInvalidInput, "unknown category")
	}
	return nil
}

// Score counts correct placements. Every item must be placed first.
func (g SortGame) Score(answers map[string]string) (int, error) {
	correct := 0
	for _, it := range g.Items {
		got, ok := answers[it.Name]
		if !ok || got == "" {
			return 0, shared.Incomplete("curriculum", "Score", "Sort all the items first!")
		}
		if got == it.Answer {
			correct++
		}
	}
	return correct, nil
}

// Activity returns the rewardable activity for a round with correct answers.
func (g SortGame) Activity(correct int) Activity {
	return Activity{
		Key:      g.Key,
		Module:   g.Module,
		Coins:    correct * g.CoinsPerCorrect,
		Reason:   fmt.Sprintf(g.ReasonFormat, correct),
		Progress: g.Progress,
	}
}
