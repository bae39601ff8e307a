package business

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

func newRand() *rand.Rand { return rand.New(rand.NewSource(7)) }

func samDraft(t *testing.T) *Draft {
	t.Helper()
	d := &Draft{}
	changed, err := d.SetProfile("Sam", "Grimes", []string{"Animals and pets", "Drawing and art"})
	require.NoError(t, err)
	require.True(t, changed)
	return d
}

func TestBuildIdeas_SamScenario(t *testing.T) {
	d := samDraft(t)
	require.NoError(t, d.GenerateIdeas(newRand(), Ideas{}))

	allowed := make(map[string]bool)
	for _, interest := range []string{"Animals and pets", "Drawing and art"} {
		for _, idea := range LookupIdeas(interest, "Grimes", shared.TimeframeNow) {
			allowed[idea] = true
		}
	}

	now := d.Ideas.Now
	assert.LessOrEqual(t, len(now), MaxIdeas)
	assert.Contains(t, now, "Pet Walking Helper")
	assert.Contains(t, now, "Sidewalk Chalk Artist")
	for _, idea := range now {
		assert.True(t, allowed[idea], idea)
	}
	assert.Equal(t, []string{"Pet Walking Helper", "Sidewalk Chalk Artist", "Pet Sitting Helper", "Window Decorator"}, now)
	assert.Equal(t, []string{"Veterinarian", "Professional Artist", "Pet Store Owner", "Graphic Designer"}, d.Ideas.Future)
	assert.Equal(t, StepIdea, d.Step())
}

func TestBuildIdeas_DedupesAndAppendsExtras(t *testing.T) {
	got := BuildIdeas("Grimes", []string{"Reading books"}, Ideas{
		Now:    []string{"Reading Buddy Service", "Story Time Reader"},
		Future: []string{"Librarian", "Poet"},
	}, newRand())

	assert.Equal(t, []string{"Book Organization Helper", "Story Time Reader", "Book Recommender", "Reading Buddy Service"}, got.Now)
	assert.Len(t, got.Future, MaxIdeas)
	assert.NotContains(t, got.Future, "Poet")

	got = BuildIdeas("Grimes", []string{"Cooking and food"}, Ideas{Now: []string{"Cookie Stand"}}, newRand())
	assert.Equal(t, []string{"Cookie Stand"}, got.Now)
}

func TestBuildIdeas_FallbackSamplesWithoutReplacement(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		got := BuildIdeas("Dallas Center", []string{"Music and dancing", "Helping others"}, Ideas{}, rand.New(rand.NewSource(seed)))

		for tf, list := range map[shared.Timeframe][]string{shared.TimeframeNow: got.Now, shared.TimeframeFuture: got.Future} {
			require.Len(t, list, MaxIdeas)
			seen := make(map[string]bool)
			for _, idea := range list {
				assert.Contains(t, FallbackIdeas[tf], idea)
				assert.False(t, seen[idea], "duplicate %q", idea)
				seen[idea] = true
			}
		}
	}
}

func TestSetProfile_Validation(t *testing.T) {
	tests := []struct {
		name      string
		student   string
		city      string
		interests []string
		kind      error
	}{
		{"empty name", "  ", "Grimes", []string{"Reading books", "Drawing and art"}, shared.ErrValidation},
		{"unknown city", "Sam", "Ankeny", []string{"Reading books", "Drawing and art"}, shared.ErrValidation},
		{"one interest", "Sam", "Grimes", []string{"Reading books"}, shared.ErrValidation},
		{"duplicate interest", "Sam", "Grimes", []string{"Reading books", "Reading books"}, shared.ErrValidation},
		{"unknown interest", "Sam", "Grimes", []string{"Reading books", "Skydiving"}, shared.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Draft{}
			_, err := d.SetProfile(tt.student, tt.city, tt.interests)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, StepProfile, d.Step())

			msg, ok := shared.UserMessage(err)
			assert.True(t, ok)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestSetProfile_ChangeClearsIdeas(t *testing.T) {
	d := samDraft(t)
	require.NoError(t, d.GenerateIdeas(newRand(), Ideas{}))
	require.NoError(t, d.SelectIdea("Pet Walking Helper", shared.TimeframeNow))

	changed, err := d.SetProfile("Sam", "Grimes", []string{"Animals and pets", "Drawing and art"})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "Pet Walking Helper", d.SelectedIdea)

	changed, err = d.SetProfile("Sam", "Dallas Center", []string{"Animals and pets", "Drawing and art"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, d.Ideas)
	assert.Empty(t, d.SelectedIdea)
	assert.Equal(t, StepIdea, d.Step())
}

func TestGenerateIdeas_RequiresProfile(t *testing.T) {
	d := &Draft{}
	err := d.GenerateIdeas(newRand(), Ideas{})
	assert.True(t, shared.IsIncomplete(err))
	assert.Nil(t, d.Ideas)
}

func TestSelectIdea_ClearsStaleNames(t *testing.T) {
	d := samDraft(t)
	require.NoError(t, d.GenerateIdeas(newRand(), Ideas{}))
	require.NoError(t, d.SelectIdea("Pet Walking Helper", shared.TimeframeNow))
	require.NoError(t, d.SetNames([]string{"Sam's Pet Walking Helper"}, "Pet Walking Helper"))
	require.NoError(t, d.SelectName("Sam's Pet Walking Helper"))

	require.NoError(t, d.SelectIdea("Veterinarian", shared.TimeframeFuture))
	assert.Empty(t, d.Names)
	assert.Empty(t, d.SelectedName)
	assert.Equal(t, shared.TimeframeFuture, d.Timeframe)
	assert.Equal(t, StepName, d.Step())
}

func TestSelectIdea_Rejects(t *testing.T) {
	d := samDraft(t)
	assert.True(t, shared.IsIncomplete(d.SelectIdea("Pet Walking Helper", shared.TimeframeNow)))

	require.NoError(t, d.GenerateIdeas(newRand(), Ideas{}))
	assert.ErrorIs(t, d.SelectIdea("Astronaut", shared.TimeframeNow), shared.ErrInvalidInput)
	assert.ErrorIs(t, d.SelectIdea("Veterinarian", shared.TimeframeNow), shared.ErrInvalidInput)
	assert.ErrorIs(t, d.SelectIdea("Veterinarian", "someday"), shared.ErrInvalidInput)
}

func TestSetNames_StaleGenerationRejected(t *testing.T) {
	d := samDraft(t)
	require.NoError(t, d.GenerateIdeas(newRand(), Ideas{}))
	require.NoError(t, d.SelectIdea("Pet Walking Helper", shared.TimeframeNow))

	// The student switched ideas while names were being generated.
	require.NoError(t, d.SelectIdea("Window Decorator", shared.TimeframeNow))
	err := d.SetNames([]string{"Sam's Pet Walking Helper"}, "Pet Walking Helper")
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.Empty(t, d.Names)
}

func TestWizard_CertificateUnreachableUntilAllStepsDone(t *testing.T) {
	d := &Draft{}
	at := time.Date(2025, 3, 7, 15, 0, 0, 0, time.UTC)
	ad := AdInput{Colors: [2]string{"Red", "#448AFF"}, Symbol: "⭐", Tagline: "Happy dogs!", Contact: "Ask for Sam"}

	_, err := d.Certificate(at)
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.True(t, shared.IsIncomplete(d.PreviewAd(ad)))

	d = samDraft(t)
	require.NoError(t, d.GenerateIdeas(newRand(), Ideas{}))
	require.NoError(t, d.SelectIdea("Pet Walking Helper", shared.TimeframeNow))
	assert.True(t, shared.IsIncomplete(d.PreviewAd(ad)))

	require.NoError(t, d.SetNames([]string{"Sam's Pet Walking Helper", "Sam's Super Pet Walking Helper"}, "Pet Walking Helper"))
	assert.True(t, shared.IsIncomplete(d.PreviewAd(ad)))
	assert.ErrorIs(t, d.SelectName("Someone Else's Shop"), shared.ErrInvalidInput)

	require.NoError(t, d.SelectName("Sam's Super Pet Walking Helper"))
	assert.Equal(t, StepAdDesign, d.Step())
	_, err = d.Certificate(at)
	assert.Error(t, err)

	require.NoError(t, d.PreviewAd(ad))
	assert.Equal(t, StepCertificate, d.Step())

	cert, err := d.Certificate(at)
	require.NoError(t, err)
	assert.Equal(t, "Sam", cert.StudentName)
	assert.Equal(t, "Sam's Super Pet Walking Helper", cert.BusinessName)
	assert.Equal(t, "Pet Walking Helper", cert.Idea)
	assert.Equal(t, "Grimes", cert.City)
	assert.Equal(t, "March 7, 2025", cert.Date)
	assert.Contains(t, cert.Slug, "super-pet-walking-helper")
	assert.Equal(t, "Red", cert.Ad.Primary.Name)
	assert.Equal(t, "Blue", cert.Ad.Secondary.Name)
}

func TestPreviewAd_Validation(t *testing.T) {
	d := samDraft(t)
	require.NoError(t, d.GenerateIdeas(newRand(), Ideas{}))
	require.NoError(t, d.SelectIdea("Pet Walking Helper", shared.TimeframeNow))
	require.NoError(t, d.SetNames([]string{"Sam's Pet Walking Helper"}, "Pet Walking Helper"))
	require.NoError(t, d.SelectName("Sam's Pet Walking Helper"))

	base := AdInput{Colors: [2]string{"Teal", "Lime"}, Symbol: "Handshake", Tagline: "x", Contact: "y"}

	bad := base
	bad.Colors[1] = "Magenta"
	assert.ErrorIs(t, d.PreviewAd(bad), shared.ErrInvalidInput)

	bad = base
	bad.Symbol = "🦄"
	assert.ErrorIs(t, d.PreviewAd(bad), shared.ErrInvalidInput)

	bad = base
	bad.Tagline = "   "
	assert.True(t, shared.IsIncomplete(d.PreviewAd(bad)))

	bad = base
	bad.Contact = ""
	assert.True(t, shared.IsIncomplete(d.PreviewAd(bad)))

	assert.Nil(t, d.Ad)
	require.NoError(t, d.PreviewAd(base))
	assert.Equal(t, "🤝", d.Ad.Symbol.Emoji)
}

func TestSuggestions(t *testing.T) {
	d := samDraft(t)
	assert.Equal(t, "The best service in town!", d.SuggestedTagline())
	assert.Equal(t, "Ask for Sam", d.SuggestedContact())

	require.NoError(t, d.GenerateIdeas(newRand(), Ideas{}))
	require.NoError(t, d.SelectIdea("Pet Walking Helper", shared.TimeframeNow))
	require.NoError(t, d.SetNames([]string{"Sam's Pet Walking Helper"}, "Pet Walking Helper"))

	assert.ErrorIs(t, d.SetSuggestion(AdCopy{Tagline: "Walks!"}, "Sam's Pet Walking Helper"), shared.ErrConflict)

	require.NoError(t, d.SelectName("Sam's Pet Walking Helper"))
	require.NoError(t, d.SetSuggestion(AdCopy{Tagline: "Happy dogs, happy homes!", Description: "I walk dogs."}, "Sam's Pet Walking Helper"))
	assert.Equal(t, "Happy dogs, happy homes!", d.SuggestedTagline())

	require.NoError(t, d.PreviewAd(AdInput{Colors: [2]string{"Red", "Red"}, Symbol: "⭐", Tagline: "t", Contact: "c"}))
	assert.Equal(t, "I walk dogs.", d.Ad.Description)
}

func TestRestart_ClearsDraftOnly(t *testing.T) {
	d := samDraft(t)
	require.NoError(t, d.GenerateIdeas(newRand(), Ideas{}))
	d.Restart()

	assert.Equal(t, Draft{}, *d)
	assert.Equal(t, StepProfile, d.Step())
}

func TestIdeaIcon_Stable(t *testing.T) {
	a := IdeaIcon("Pet Walking Helper", shared.TimeframeNow)
	assert.Equal(t, a, IdeaIcon("Pet Walking Helper", shared.TimeframeNow))
	assert.Contains(t, ideaIcons[shared.TimeframeNow], a)
}

func TestStepOrder(t *testing.T) {
	steps := []Step{StepProfile, StepIdea, StepName, StepAdDesign, StepCertificate}
	for i, s := range steps {
		assert.Equal(t, i, s.Order())
	}
}
