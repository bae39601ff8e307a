package curriculum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

func TestQuizzes_AnswerIsAnOption(t *testing.T) {
	ids := make(map[string]bool)
	for _, q := range Quizzes {
		assert.True(t, q.HasOption(q.Answer), q.ID)
		assert.False(t, ids[q.ID], "duplicate quiz %s", q.ID)
		ids[q.ID] = true

		m, ok := shared.ModuleOf(q.ID)
		require.True(t, ok)
		assert.Equal(t, q.Module, m)
	}
	assert.Len(t, Quizzes, 10)
}

func TestQuiz_Check(t *testing.T) {
	q, err := FindQuiz("session2_q2")
	require.NoError(t, err)

	ok, msg := q.Check("Water")
	assert.True(t, ok)
	assert.Equal(t, "Correct! Water is something people need to live.", msg)

	ok, _ = q.Check("Candy")
	assert.False(t, ok)

	_, err = FindQuiz("session9_q1")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestQuizzesFor_Session5RequireCertificate(t *testing.T) {
	qs := QuizzesFor(shared.ModuleCreate)
	require.Len(t, qs, 2)
	for _, q := range qs {
		assert.True(t, q.RequiresCertificate)
	}
	for _, q := range QuizzesFor(shared.ModuleFamilies) {
		assert.False(t, q.RequiresCertificate)
	}
}

func TestSortGame_Score(t *testing.T) {
	answers := make(map[string]string)
	for _, it := range NeedsWants.Items {
		answers[it.Name] = it.Answer
	}

	correct, err := NeedsWants.Score(answers)
	require.NoError(t, err)
	assert.Equal(t, 10, correct)

	answers["Apple"] = "Want"
	answers["Bicycle"] = "Need"
	correct, err = NeedsWants.Score(answers)
	require.NoError(t, err)
	assert.Equal(t, 8, correct)

	a := NeedsWants.Activity(correct)
	assert.Equal(t, 16, a.Coins)
	assert.Equal(t, "Getting 8 answers correct in the Needs vs. Wants game", a.Reason)
	assert.Equal(t, 40, a.Progress)
}

func TestSortGame_ScoreRequiresEveryItem(t *testing.T) {
	_, err := GoodsServices.Score(map[string]string{"Haircut": "Service"})
	assert.True(t, shared.IsIncomplete(err))
}

func TestSortGame_ValidatePlacement(t *testing.T) {
	g, err := FindSortGame("goods-services")
	require.NoError(t, err)

	assert.NoError(t, g.ValidatePlacement("Pizza", "Good"))
	assert.ErrorIs(t, g.ValidatePlacement("Pizza", "Want"), shared.ErrInvalidInput)
	assert.ErrorIs(t, g.ValidatePlacement("Spaceship", "Good"), shared.ErrInvalidInput)

	_, err = FindSortGame("chess")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestShop_Budget(t *testing.T) {
	book, _ := FindShopItem("Book")
	toy, _ := FindShopItem("Toy Car")
	mittens, _ := FindShopItem("Mittens")

	cart := []ShopItem{book, toy}
	assert.Equal(t, 3, Remaining(cart))
	assert.False(t, CanAfford(cart, mittens))

	water, _ := FindShopItem("Water Bottle")
	assert.True(t, CanAfford(cart, water))
}

func TestGradeCart(t *testing.T) {
	item := func(name string) ShopItem {
		it, err := FindShopItem(name)
		require.NoError(t, err)
		return it
	}

	tests := []struct {
		name     string
		cart     []ShopItem
		coins    int
		progress int
	}{
		{"needs first", []ShopItem{item("Sandwich"), item("Mittens"), item("Candy Bar")}, 10, 30},
		{"balanced", []ShopItem{item("Sandwich"), item("Stickers")}, 5, 20},
		{"wants first", []ShopItem{item("Toy Car"), item("Stickers"), item("Book")}, 3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := GradeCart(tt.cart)
			require.NoError(t, err)
			assert.Equal(t, KeyShopping, c.Activity.Key)
			assert.Equal(t, tt.coins, c.Activity.Coins)
			assert.Equal(t, tt.progress, c.Activity.Progress)
			assert.NotEmpty(t, c.Message)
		})
	}

	_, err := GradeCart(nil)
	assert.True(t, shared.IsIncomplete(err))
}

func TestPlanBudget(t *testing.T) {
	plan, err := PlanBudget(BudgetInput{Earned: 50, Home: 20, Food: 10, Transport: 5, Fun: 3})
	require.NoError(t, err)
	assert.Equal(t, 12, plan.Savings)
	require.Len(t, plan.Lines, 5)
	assert.Equal(t, 40, plan.Lines[0].Percent)
	assert.Equal(t, "Savings", plan.Lines[4].Category)
	assert.Equal(t, 24, plan.Lines[4].Percent)

	// 7/15 = 46.6% truncates.
	plan, err = PlanBudget(BudgetInput{Earned: 15, Home: 7})
	require.NoError(t, err)
	assert.Equal(t, 46, plan.Lines[0].Percent)
}

func TestPlanBudget_Rejects(t *testing.T) {
	_, err := PlanBudget(BudgetInput{Earned: 12})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = PlanBudget(BudgetInput{Earned: 105})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = PlanBudget(BudgetInput{Earned: 20, Home: -1})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = PlanBudget(BudgetInput{Earned: 20, Home: 15, Food: 10})
	assert.True(t, shared.IsIncomplete(err))

	// Amounts large enough to wrap the remainder are still overspending.
	_, err = PlanBudget(BudgetInput{Earned: 100, Home: math.MaxInt64, Food: math.MaxInt64})
	assert.True(t, shared.IsIncomplete(err))

	_, err = PlanBudget(BudgetInput{Earned: 100, Fun: math.MaxInt64})
	assert.True(t, shared.IsIncomplete(err))
}

func TestRecommendCareers_TopThreeFirstSeenTiebreak(t *testing.T) {
	recs, err := RecommendCareers([]string{"Help people", "At a school", "Reading"})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "Teacher", recs[0].Job)
	assert.Equal(t, "Doctor", recs[1].Job)
	assert.Equal(t, "Nurse", recs[2].Job)
	assert.Equal(t, "👨‍🏫", recs[0].Icon)
}

func TestRecommendCareers_CountBeatsOrder(t *testing.T) {
	// Engineer and Chef each appear twice; the rest once.
	recs, err := RecommendCareers([]string{"Make or build things", "In a restaurant or store", "Math"})
	require.NoError(t, err)

	jobs := []string{recs[0].Job, recs[1].Job, recs[2].Job}
	assert.Equal(t, []string{"Engineer", "Chef", "Construction Worker"}, jobs)
	assert.Equal(t, "💼", recs[0].Icon)
}

func TestRecommendCareers_Invalid(t *testing.T) {
	_, err := RecommendCareers([]string{"Help people"})
	assert.True(t, shared.IsIncomplete(err))

	_, err = RecommendCareers([]string{"Help people", "On the moon", "Math"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNormalizeSkills(t *testing.T) {
	got, err := NormalizeSkills([]string{"Drawing", "Running", "Drawing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Drawing", "Running"}, got)

	_, err = NormalizeSkills([]string{"Flying"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestExploredJobActivity_UsesSlug(t *testing.T) {
	a, err := ExploredJobActivity("Police Officer")
	require.NoError(t, err)
	assert.Equal(t, "explored_job_police-officer", a.Key)
	assert.Equal(t, "Learning about what Police Officers do", a.Reason)
	assert.Equal(t, shared.ModuleJobs, a.Module)

	_, err = ExploredJobActivity("Astronaut")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestEntrepreneurActivity(t *testing.T) {
	a, err := EntrepreneurActivity(1)
	require.NoError(t, err)
	assert.Equal(t, "entrepreneur_1", a.Key)
	assert.Equal(t, "Learning about Mr. Rodriguez's business journey", a.Reason)

	_, err = EntrepreneurActivity(2)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestAchievementRules(t *testing.T) {
	done := map[string]bool{KeyIdeasGenerated: true, KeyBusinessNamed: true}
	isComplete := func(k string) bool { return done[k] }

	byTitle := make(map[string]AchievementRule)
	for _, r := range AchievementRules {
		byTitle[r.Title] = r
	}

	assert.False(t, byTitle["Young Entrepreneur"].Satisfied(isComplete))
	done[KeyAdDesigned] = true
	assert.True(t, byTitle["Young Entrepreneur"].Satisfied(isComplete))
	assert.False(t, byTitle["Financial Literacy Master"].Satisfied(isComplete))

	done["session5_q1"] = true
	done["session5_q2"] = true
	assert.True(t, byTitle["Financial Literacy Master"].Satisfied(isComplete))
}

func TestModules_MatchModuleKeys(t *testing.T) {
	require.Len(t, Modules, len(shared.AllModules))
	for i, m := range Modules {
		assert.Equal(t, shared.AllModules[i], m.Key)
	}
}
