package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimes-money/money-adventure/internal/application/generator"
	"github.com/grimes-money/money-adventure/internal/domain/business"
	"github.com/grimes-money/money-adventure/internal/domain/curriculum"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
	"github.com/grimes-money/money-adventure/internal/infrastructure/persistence/memory"
	"github.com/grimes-money/money-adventure/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *recordingPublisher) Publish(events ...shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type completerFunc func(ctx context.Context, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string, _ int, _ float64) (string, error) {
	return f(ctx, prompt)
}

var testNow = time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, cfg Config) (*Service, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	clock := timeutil.FixedClock(testNow)
	cfg.Store = memory.NewSessionStore(time.Hour, clock)
	cfg.Publisher = pub
	cfg.Clock = clock
	if cfg.Rand == nil {
		cfg.Rand = generator.NewRand(42)
	}
	return NewService(cfg), pub
}

func startSession(t *testing.T, svc *Service) shared.SessionID {
	t.Helper()
	snap, err := svc.StartSession(context.Background())
	require.NoError(t, err)
	return snap.ID
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSIONS
// ══════════════════════════════════════════════════════════════════════════════

func TestResolveSession(t *testing.T) {
	svc, pub := newTestService(t, Config{})
	ctx := context.Background()

	id, created, err := svc.ResolveSession(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.ResolveSession(ctx, id.String())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)

	require.NoError(t, svc.EndSession(ctx, id))
	replaced, created, err := svc.ResolveSession(ctx, id.String())
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, id, replaced)

	assert.Equal(t, []shared.EventType{
		shared.EventSessionStarted, shared.EventSessionEnded, shared.EventSessionStarted,
	}, pub.types())
}

func TestActionOnMissingSession(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	_, err := svc.ShareFamily(context.Background(), shared.NewSessionID(), "Mom and me")
	assert.True(t, shared.IsNotFound(err))
}

// ══════════════════════════════════════════════════════════════════════════════
// LESSONS
// ══════════════════════════════════════════════════════════════════════════════

func TestAnswerQuiz_RewardsOnce(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	id := startSession(t, svc)

	q, err := curriculum.FindQuiz("session1_q1")
	require.NoError(t, err)

	wrong := q.Options[0]
	require.NotEqual(t, q.Answer, wrong)
	res, err := svc.AnswerQuiz(ctx, id, q.ID, wrong)
	require.NoError(t, err)
	assert.False(t, res.Result.(QuizResult).Correct)
	assert.Empty(t, res.Notifications)
	assert.Equal(t, 0, res.Snapshot.Coins)

	res, err = svc.AnswerQuiz(ctx, id, q.ID, q.Answer)
	require.NoError(t, err)
	assert.True(t, res.Result.(QuizResult).Correct)
	assert.Equal(t, q.CorrectMessage, res.Result.(QuizResult).Message)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, 5, res.Snapshot.Coins)

	res, err = svc.AnswerQuiz(ctx, id, q.ID, q.Answer)
	require.NoError(t, err)
	assert.True(t, res.Result.(QuizResult).Correct)
	assert.Empty(t, res.Notifications)
	assert.Equal(t, 5, res.Snapshot.Coins)

	_, err = svc.AnswerQuiz(ctx, id, q.ID, "Something else")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = svc.AnswerQuiz(ctx, id, "session9_q1", q.Answer)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestFamilies_CompletesModule(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	id := startSession(t, svc)

	_, err := svc.ShareFamily(ctx, id, "   ")
	assert.True(t, shared.IsIncomplete(err))

	_, err = svc.ShareFamily(ctx, id, "Mom, Dad and my sister")
	require.NoError(t, err)

	res, err := svc.PlanBudget(ctx, id, curriculum.BudgetInput{Earned: 50, Home: 20, Food: 10, Transport: 5, Fun: 5})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Result.(curriculum.BudgetPlan).Savings)

	_, err = svc.PlanBudget(ctx, id, curriculum.BudgetInput{Earned: 50, Home: 60})
	assert.True(t, shared.IsIncomplete(err))

	for _, qid := range []string{"session1_q1", "session1_q2"} {
		q, err := curriculum.FindQuiz(qid)
		require.NoError(t, err)
		res, err = svc.AnswerQuiz(ctx, id, qid, q.Answer)
		require.NoError(t, err)
	}

	assert.Equal(t, 100, res.Snapshot.Progress[shared.ModuleFamilies])
	assert.Equal(t, 2+5+5+5, res.Snapshot.Coins)
	require.Len(t, res.Snapshot.Achievements, 1)
	assert.Equal(t, "Family Expert", res.Snapshot.Achievements[0].Title)
}

func TestSortGame_FirstRoundPaysAndMasters(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	id := startSession(t, svc)
	g := curriculum.NeedsWants

	_, err := svc.CheckSort(ctx, id, g.ID)
	assert.True(t, shared.IsIncomplete(err))

	_, err = svc.PlaceItem(ctx, id, g.ID, "Apple", "Maybe")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	for _, it := range g.Items {
		_, err := svc.PlaceItem(ctx, id, g.ID, it.Name, it.Answer)
		require.NoError(t, err)
	}

	res, err := svc.CheckSort(ctx, id, g.ID)
	require.NoError(t, err)
	assert.Equal(t, SortResult{Correct: 10, Total: 10, Mastered: true}, res.Result)
	assert.Equal(t, 20, res.Snapshot.Coins)
	assert.Equal(t, "Smart Shopper", res.Snapshot.Achievements[0].Title)

	res, err = svc.ResetSort(ctx, id, g.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Snapshot.Games.Sorts[g.ID])

	for _, it := range g.Items {
		_, err := svc.PlaceItem(ctx, id, g.ID, it.Name, it.Answer)
		require.NoError(t, err)
	}
	res, err = svc.CheckSort(ctx, id, g.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Notifications)
	assert.Equal(t, 20, res.Snapshot.Coins)
}

func TestSortGame_LowFirstRoundNeverMasters(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	id := startSession(t, svc)
	g := curriculum.GoodsServices

	place := func(correct bool) {
		for _, it := range g.Items {
			cat := it.Answer
			if !correct {
				cat = g.Categories[0]
				if it.Answer == g.Categories[0] {
					cat = g.Categories[1]
				}
			}
			_, err := svc.PlaceItem(ctx, id, g.ID, it.Name, cat)
			require.NoError(t, err)
		}
	}

	place(false)
	res, err := svc.CheckSort(ctx, id, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Result.(SortResult).Correct)
	assert.False(t, res.Result.(SortResult).Mastered)
	assert.Equal(t, 0, res.Snapshot.Coins)

	place(true)
	res, err = svc.CheckSort(ctx, id, g.ID)
	require.NoError(t, err)
	assert.False(t, res.Result.(SortResult).Mastered)
	assert.Empty(t, res.Snapshot.Achievements)
}

func TestShop(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	id := startSession(t, svc)

	for _, item := range []string{"Book", "Toy Car"} {
		_, err := svc.AddToCart(ctx, id, item)
		require.NoError(t, err)
	}

	_, err := svc.AddToCart(ctx, id, "Mittens")
	assert.True(t, shared.IsIncomplete(err))
	_, err = svc.AddToCart(ctx, id, "Spaceship")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	res, err := svc.AddToCart(ctx, id, "Water Bottle")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Snapshot.Games.Remaining)

	res, err = svc.Checkout(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Result.(curriculum.Checkout).Needs)
	assert.Equal(t, 10, res.Snapshot.Coins)
	assert.Equal(t, 30, res.Snapshot.Progress[shared.ModuleNeedsWants])

	_, err = svc.AddToCart(ctx, id, "Candy Bar")
	assert.True(t, shared.IsIncomplete(err))

	res, err = svc.ResetShop(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, res.Snapshot.Games.Cart)
	assert.Equal(t, curriculum.ShopBudget, res.Snapshot.Games.Remaining)

	_, err = svc.AddToCart(ctx, id, "Candy Bar")
	require.NoError(t, err)
	res, err = svc.RemoveFromCart(ctx, id, "Candy Bar")
	require.NoError(t, err)
	assert.Empty(t, res.Snapshot.Games.Cart)
	_, err = svc.RemoveFromCart(ctx, id, "Candy Bar")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Checkout(ctx, id)
	assert.True(t, shared.IsIncomplete(err))
}

func TestDirectoryAndJobs(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	id := startSession(t, svc)

	res, err := svc.ExploreBusiness(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, curriculum.Directory[1], res.Result)
	require.NotNil(t, res.Snapshot.Games.SelectedBusiness)

	res, err = svc.BackToDirectory(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, res.Snapshot.Games.SelectedBusiness)

	_, err = svc.ExploreBusiness(ctx, id, len(curriculum.Directory))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.LearnEntrepreneur(ctx, id, 0)
	require.NoError(t, err)

	res, err = svc.ExploreJob(ctx, id, "Police Officer")
	require.NoError(t, err)
	assert.Contains(t, res.Snapshot.Completed, "explored_job_police-officer")

	answers := make([]string, len(curriculum.CareerQuestions))
	for i, q := range curriculum.CareerQuestions {
		answers[i] = q.Options[0].Label
	}
	res, err = svc.TakeCareerQuiz(ctx, id, answers)
	require.NoError(t, err)
	assert.Len(t, res.Result, curriculum.RecommendationCount)
	assert.Equal(t, "Future Planner", res.Snapshot.Achievements[0].Title)

	_, err = svc.CreateSkillsCertificate(ctx, id)
	assert.True(t, shared.IsIncomplete(err))

	_, err = svc.SetSkills(ctx, id, []string{"Drawing", "Reading", "Drawing"})
	require.NoError(t, err)
	res, err = svc.CreateSkillsCertificate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, SkillsCertificate{Skills: []string{"Drawing", "Reading"}}, res.Result)

	assert.Equal(t, 2+3+5+10+10, res.Snapshot.Coins)
}

// ══════════════════════════════════════════════════════════════════════════════
// WIZARD
// ══════════════════════════════════════════════════════════════════════════════

func TestWizard_FullRun(t *testing.T) {
	svc, pub := newTestService(t, Config{})
	ctx := context.Background()
	id := startSession(t, svc)

	_, err := svc.GenerateIdeas(ctx, id)
	assert.True(t, shared.IsIncomplete(err))

	res, err := svc.SetProfile(ctx, id, ProfileInput{
		Name: " Sam ", City: "Grimes", Interests: []string{"Sports and games", "Reading books"},
	})
	require.NoError(t, err)
	assert.Equal(t, ProfileResult{Changed: true}, res.Result)
	assert.Equal(t, business.StepIdea, res.Snapshot.Wizard.Step)

	res, err = svc.GenerateIdeas(ctx, id)
	require.NoError(t, err)
	ideas := res.Result.(business.Ideas)
	require.NotEmpty(t, ideas.Now)
	assert.Equal(t, 5, res.Snapshot.Coins)

	idea := ideas.Now[0]
	_, err = svc.SelectIdea(ctx, id, SelectIdeaInput{Idea: idea, Timeframe: shared.TimeframeNow})
	require.NoError(t, err)

	res, err = svc.GenerateNames(ctx, id, 3)
	require.NoError(t, err)
	names := res.Result.([]string)
	require.Len(t, names, generator.DefaultNameCount)
	assert.Equal(t, "Sam's "+idea, names[0])

	res, err = svc.SelectName(ctx, id, names[0])
	require.NoError(t, err)
	assert.Equal(t, 15, res.Snapshot.Coins)

	res, err = svc.SuggestAd(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, generator.SourceFallback, res.Result.(business.AdCopy).Source)

	q, err := curriculum.FindQuiz("session5_q1")
	require.NoError(t, err)
	_, err = svc.AnswerQuiz(ctx, id, q.ID, q.Answer)
	assert.True(t, shared.IsIncomplete(err))

	res, err = svc.PreviewAd(ctx, id, business.AdInput{
		Colors: [2]string{"Blue", "#FFEB3B"}, Symbol: "⭐",
		Tagline: res.Snapshot.Wizard.SuggestedTagline, Contact: res.Snapshot.Wizard.SuggestedContact,
	})
	require.NoError(t, err)
	assert.Equal(t, business.StepCertificate, res.Snapshot.Wizard.Step)
	assert.Equal(t, "Ask for Sam", res.Result.(business.Advertisement).Contact)
	assert.Equal(t, 25, res.Snapshot.Coins)
	assert.Equal(t, "Young Entrepreneur", res.Snapshot.Achievements[0].Title)

	for _, qid := range []string{"session5_q1", "session5_q2"} {
		q, err := curriculum.FindQuiz(qid)
		require.NoError(t, err)
		res, err = svc.AnswerQuiz(ctx, id, qid, q.Answer)
		require.NoError(t, err)
	}
	require.Len(t, res.Snapshot.Achievements, 2)
	assert.Equal(t, "Financial Literacy Master", res.Snapshot.Achievements[1].Title)

	res, err = svc.RestartWizard(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, business.StepProfile, res.Snapshot.Wizard.Step)
	assert.Equal(t, 35, res.Snapshot.Coins)
	assert.Len(t, res.Snapshot.Achievements, 2)

	assert.Contains(t, pub.types(), shared.EventGenerationCompleted)
	assert.Contains(t, pub.types(), shared.EventWizardStepChanged)
}

func TestWizard_NamesForReplacedIdeaAreRejected(t *testing.T) {
	ctx := context.Background()
	var (
		svc   *Service
		id    shared.SessionID
		other string
	)
	fc := completerFunc(func(context.Context, string) (string, error) {
		// The student picks another idea while names are being generated.
		_, err := svc.SelectIdea(ctx, id, SelectIdeaInput{Idea: other, Timeframe: shared.TimeframeNow})
		require.NoError(t, err)
		return "Quick Names\nFast Names", nil
	})
	svc, _ = newTestService(t, Config{
		Names: generator.NewNameGenerator(generator.Options{Completer: fc}),
	})
	id = startSession(t, svc)

	_, err := svc.SetProfile(ctx, id, ProfileInput{Name: "Ana", City: "Dallas Center", Interests: []string{"Drawing and art", "Animals and pets"}})
	require.NoError(t, err)
	res, err := svc.GenerateIdeas(ctx, id)
	require.NoError(t, err)
	ideas := res.Result.(business.Ideas).Now
	require.GreaterOrEqual(t, len(ideas), 2)
	other = ideas[1]

	_, err = svc.SelectIdea(ctx, id, SelectIdeaInput{Idea: ideas[0], Timeframe: shared.TimeframeNow})
	require.NoError(t, err)

	_, err = svc.GenerateNames(ctx, id, 2)
	assert.True(t, shared.IsConflict(err))

	snap, err := svc.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, other, snap.Draft.SelectedIdea)
	assert.Empty(t, snap.Draft.Names)
}

func TestWizard_ServiceNames(t *testing.T) {
	ctx := context.Background()
	fc := completerFunc(func(context.Context, string) (string, error) {
		return "1. Sunny Paws\n2. Happy Tails", nil
	})
	svc, _ := newTestService(t, Config{
		Names: generator.NewNameGenerator(generator.Options{Completer: fc}),
	})
	id := startSession(t, svc)

	_, err := svc.GenerateNames(ctx, id, 3)
	assert.True(t, shared.IsIncomplete(err))

	_, err = svc.SetProfile(ctx, id, ProfileInput{Name: "Ana", City: "Grimes", Interests: []string{"Animals and pets", "Helping others"}})
	require.NoError(t, err)
	res, err := svc.GenerateIdeas(ctx, id)
	require.NoError(t, err)
	idea := res.Result.(business.Ideas).Future[0]
	_, err = svc.SelectIdea(ctx, id, SelectIdeaInput{Idea: idea, Timeframe: shared.TimeframeFuture})
	require.NoError(t, err)

	res, err = svc.GenerateNames(ctx, id, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sunny Paws", "Happy Tails"}, res.Result)
	assert.Equal(t, []string{"Sunny Paws", "Happy Tails"}, res.Snapshot.Wizard.Draft.Names)
}
