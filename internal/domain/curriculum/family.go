package curriculum

import (
	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// Family budget bounds, in dollars.
const (
	BudgetMinEarned  = 10
	BudgetMaxEarned  = 100
	BudgetEarnedStep = 5
)

// BudgetInput is what a student allocates from a pretend paycheck.
type BudgetInput struct {
	Earned    int `json:"earned"`
	Home      int `json:"home"`
	Food      int `json:"food"`
	Transport int `json:"transport"`
	Fun       int `json:"fun"`
}

// BudgetLine is one category of a computed plan.
type BudgetLine struct {
	Category string `json:"category"`
	Amount   int    `json:"amount"`
	Percent  int    `json:"percent"`
}

// BudgetPlan is the result of a family budget. Savings are whatever is left.
type BudgetPlan struct {
	Earned  int          `json:"earned"`
	Savings int          `json:"savings"`
	Lines   []BudgetLine `json:"lines"`
	Message string       `json:"message"`
}

const budgetMessage = "Great job planning your family budget! Notice how families need to spend money on needs first, then wants, and also save some money for later."

// PlanBudget validates in and computes the savings remainder and the
// truncated percentage of each category.
func PlanBudget(in BudgetInput) (BudgetPlan, error) {
	if in.Earned < BudgetMinEarned || in.Earned > BudgetMaxEarned || in.Earned%BudgetEarnedStep != 0 {
		return BudgetPlan{}, shared.NewDomainError("curriculum", "PlanBudget", shared.ErrInvalidInput, "earned must be 10 to 100 in steps of 5")
	}
	if in.Home < 0 || in.Food < 0 || in.Transport < 0 || in.Fun < 0 {
		return BudgetPlan{}, shared.NewDomainError("curriculum", "PlanBudget", shared.ErrInvalidInput, "amounts cannot be negative")
	}

	// Each amount is checked against what is left so the remainder never wraps.
	savings := in.Earned
	for _, amount := range []int{in.Home, in.Food, in.Transport, in.Fun} {
		if amount > savings {
			return BudgetPlan{}, shared.Incomplete("curriculum", "PlanBudget", "Oops! You spent more money than your family earned.")
		}
		savings -= amount
	}

	plan := BudgetPlan{Earned: in.Earned, Savings: savings, Message: budgetMessage}
	for _, l := range []struct {
		name   string
		amount int
	}{
		{"Home", in.Home},
		{"Food", in.Food},
		{"Transportation", in.Transport},
		{"Fun", in.Fun},
		{"Savings", savings},
	} {
		plan.Lines = append(plan.Lines, BudgetLine{
			Category: l.name,
			Amount:   l.amount,
			Percent:  l.amount * 100 / in.Earned,
		})
	}
	return plan, nil
}
