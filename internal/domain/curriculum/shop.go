package curriculum

import (
	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// ShopBudget is the pretend cash every shopper starts with.
const ShopBudget = 20

// ShopItem is a product in the pretend store.
type ShopItem struct {
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
}

var ShopItems = []ShopItem{
	{Name: "Sandwich", Price: 5, Category: "Need", Icon: "🥪"},
	{Name: "Toy Car", Price: 8, Category: "Want", Icon: "🚗"},
	{Name: "Water Bottle", Price: 3, Category: "Need", Icon: "🍶"},
	{Name: "Stickers", Price: 2, Category: "Want", Icon: "🏷️"},
	{Name: "Mittens", Price: 7, Category: "Need", Icon: "🧤"},
	{Name: "Candy Bar", Price: 1, Category: "Want", Icon: "🍫"},
	{Name: "Book", Price: 9, Category: "Need", Icon: "📘"},
	{Name: "Bouncy Ball", Price: 3, Category: "Want", Icon: "⚽"},
}

// FindShopItem looks up an item by name.
func FindShopItem(name string) (ShopItem, error) {
	for _, it := range ShopItems {
		if it.Name == name {
			return it, nil
		}
	}
	return ShopItem{}, shared.NewDomainError("curriculum", "FindShopItem", shared.ErrInvalidInput, "unknown item")
}

// Remaining returns the budget left after buying cart.
func Remaining(cart []ShopItem) int {
	spent := 0
	for _, it := range cart {
		spent += it.Price
	}
	return ShopBudget - spent
}

// CanAfford reports whether item fits in what is left of the budget.
func CanAfford(cart []ShopItem, item ShopItem) bool {
	return item.Price <= Remaining(cart)
}

// Checkout is the graded result of a shopping trip.
type Checkout struct {
	Needs    int      `json:"needs"`
	Wants    int      `json:"wants"`
	Message  string   `json:"message"`
	Activity Activity `json:"-"`
}

// GradeCart scores a non-empty cart. Buying more needs than wants pays the
// most; a tie pays less; favouring wants pays least.
func GradeCart(cart []ShopItem) (Checkout, error) {
	if len(cart) == 0 {
		return Checkout{}, shared.Incomplete("curriculum", "GradeCart", "Add something to your cart first!")
	}

	var c Checkout
	for _, it := range cart {
		if it.Category == "Need" {
			c.Needs++
		} else {
			c.Wants++
		}
	}

	a := Activity{Key: KeyShopping, Module: shared.ModuleNeedsWants}
	switch {
	case c.Needs > c.Wants:
		a.Coins, a.Progress, a.Reason = 10, 30, "Making smart shopping choices"
		c.Message = "Great job! You prioritized needs over wants. That's smart money management!"
	case c.Needs == c.Wants:
		a.Coins, a.Progress, a.Reason = 5, 20, "Completing the shopping activity"
		c.Message = "You balanced needs and wants. Remember that needs should usually come first!"
	default:
		a.Coins, a.Progress, a.Reason = 3, 10, "Completing the shopping activity"
		c.Message = "You spent more on wants than needs. Remember to take care of needs first!"
	}
	c.Activity = a
	return c, nil
}
