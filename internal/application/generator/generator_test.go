package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimes-money/money-adventure/config"
)

type fakeCompleter struct {
	replies []string
	err     error
	block   bool

	prompts      []string
	maxTokens    []int
	temperatures []float64
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.maxTokens = append(f.maxTokens, maxTokens)
	f.temperatures = append(f.temperatures, temperature)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

type outcomes []string

func (o *outcomes) record(kind, source string) { *o = append(*o, kind+":"+source) }

func TestNameGenerator_FallbackEmily(t *testing.T) {
	tests := []struct {
		business string
		keywords []string
	}{
		{"Dog Walking Service", []string{"Dog", "Walking", "Service"}},
		{"Pet Walking", []string{"Pet", "Walking"}},
	}

	for _, tt := range tests {
		t.Run(tt.business, func(t *testing.T) {
			g := NewNameGenerator(Options{Rand: NewRand(42)})

			names := g.Generate(context.Background(), NameRequest{
				BusinessType: tt.business,
				StudentName:  "Emily",
				Creativity:   3,
				Count:        5,
			})

			require.Len(t, names, 5)
			assert.Equal(t, "Emily's "+tt.business, names[0])
			assert.True(t, strings.HasPrefix(names[1], "Emily's "))
			assert.True(t, strings.HasSuffix(names[1], " "+tt.business))
			assert.Contains(t, adjectiveTiers[3], strings.TrimSuffix(strings.TrimPrefix(names[1], "Emily's "), " "+tt.business))

			for _, n := range names[2:] {
				rest := strings.TrimPrefix(n, "Emily's ")
				require.NotEqual(t, n, rest)

				var adj string
				for _, a := range adjectiveTiers[3] {
					if strings.HasPrefix(rest, a+" ") {
						adj = a
					}
				}
				require.NotEmpty(t, adj, n)
				rest = strings.TrimPrefix(rest, adj+" ")

				parts := strings.SplitN(rest, " ", 2)
				require.Len(t, parts, 2, n)
				assert.Contains(t, tt.keywords, parts[0])
				assert.Contains(t, suffixTiers[3], parts[1])
			}
		})
	}
}

func TestNameGenerator_Guarantees(t *testing.T) {
	g := NewNameGenerator(Options{Rand: NewRand(1)})
	ctx := context.Background()

	assert.Empty(t, g.Generate(ctx, NameRequest{BusinessType: "Baking", StudentName: "  "}))
	assert.Empty(t, g.Generate(ctx, NameRequest{BusinessType: "", StudentName: "Sam"}))
	assert.Len(t, g.Generate(ctx, NameRequest{BusinessType: "Baking", StudentName: "Sam"}), DefaultNameCount)
	assert.Equal(t, []string{"Sam's Baking"}, g.Generate(ctx, NameRequest{BusinessType: "Baking", StudentName: "Sam", Count: 1}))

	names := g.Generate(ctx, NameRequest{BusinessType: "Baking", StudentName: "Sam", Creativity: 99, Count: 3})
	require.Len(t, names, 3)
	assert.Contains(t, suffixTiers[5], names[2][strings.Index(names[2], "Baking ")+len("Baking "):])
}

func TestNameGenerator_SeededIsReproducible(t *testing.T) {
	req := NameRequest{BusinessType: "Lemonade Stand", StudentName: "Ava", Creativity: 2, Count: 5}
	a := NewNameGenerator(Options{Rand: NewRand(9)}).Generate(context.Background(), req)
	b := NewNameGenerator(Options{Rand: NewRand(9)}).Generate(context.Background(), req)
	assert.Equal(t, a, b)
}

func TestNameGenerator_Service(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"1. Emily's Pawsome Walks\n- Happy Tails\n\n• Puppy Pals.\n* Leash Stars\n5. Walk Wizards\n6. Extra"}}
	var got outcomes
	g := NewNameGenerator(Options{Completer: fc, OnOutcome: got.record})

	names := g.Generate(context.Background(), NameRequest{BusinessType: "Pet Walking", StudentName: "Emily", Creativity: 3, Count: 5})

	assert.Equal(t, []string{"Emily's Pawsome Walks", "Happy Tails", "Puppy Pals", "Leash Stars", "Walk Wizards"}, names)
	require.Len(t, fc.prompts, 1)
	assert.Contains(t, fc.prompts[0], "Create 5 business names for a Pet Walking business run by a 1st grade student named Emily.")
	assert.Contains(t, fc.prompts[0], "Creativity level: 3/5")
	assert.Equal(t, 200, fc.maxTokens[0])
	assert.InDelta(t, 1.0, fc.temperatures[0], 1e-9)
	assert.Equal(t, outcomes{"names:service"}, got)
}

func TestNameGenerator_ServiceFailureFallsBack(t *testing.T) {
	for name, fc := range map[string]*fakeCompleter{
		"error":   {err: errors.New("boom")},
		"empty":   {replies: []string{"\n - \n"}},
		"timeout": {block: true},
	} {
		t.Run(name, func(t *testing.T) {
			var got outcomes
			g := NewNameGenerator(Options{Completer: fc, Timeout: 10 * time.Millisecond, OnOutcome: got.record})
			names := g.Generate(context.Background(), NameRequest{BusinessType: "Baking", StudentName: "Sam", Count: 2})
			require.Len(t, names, 2)
			assert.Equal(t, "Sam's Baking", names[0])
			assert.Equal(t, outcomes{"names:fallback"}, got)
		})
	}
}

func TestNameGenerator_FeatureFlagOff(t *testing.T) {
	flags := config.LoadFeatureFlags()
	require.NoError(t, flags.SetRolloutPercent(config.FeatureAINames, 0))
	fc := &fakeCompleter{replies: []string{"Never Used"}}

	names := NewNameGenerator(Options{Completer: fc, Features: flags}).
		Generate(context.Background(), NameRequest{BusinessType: "Baking", StudentName: "Sam", Count: 1})

	assert.Equal(t, []string{"Sam's Baking"}, names)
	assert.Empty(t, fc.prompts)
}

func TestAdContentGenerator(t *testing.T) {
	req := AdRequest{BusinessName: "Sam's Super Baking", BusinessType: "Baking", StudentName: "Sam"}

	tests := []struct {
		name   string
		reply  string
		err    error
		source string
		tag    string
		cta    string
	}{
		{
			name:   "full object",
			reply:  `{"tagline":"Yummy treats made with love","description":"Cookies for you.","call_to_action":"Call Sam today!"}`,
			source: SourceService,
			tag:    "Yummy treats made with love",
			cta:    "Call Sam today!",
		},
		{
			name:   "fenced with chatter",
			reply:  "```json\nHere you go: {\"tagline\":\"Best cookies\",\"description\":\"Fresh.\",\"call_to_action\":\"Ask!\"}\n```",
			source: SourceService,
			tag:    "Best cookies",
			cta:    "Ask!",
		},
		{
			name:   "missing call to action",
			reply:  `{"tagline":"Best cookies","description":"Fresh."}`,
			source: SourcePartial,
			tag:    "Best cookies",
			cta:    "Ask for Sam!",
		},
		{
			name:   "wrong field type",
			reply:  `{"tagline":7,"description":"Fresh.","call_to_action":"  "}`,
			source: SourcePartial,
			tag:    "Quality Baking from Sam!",
			cta:    "Ask for Sam!",
		},
		{
			name:   "not json",
			reply:  "tagline: cookies",
			source: SourceFallback,
			tag:    "Quality Baking from Sam!",
			cta:    "Ask for Sam!",
		},
		{
			name:   "service error",
			err:    errors.New("down"),
			source: SourceFallback,
			tag:    "Quality Baking from Sam!",
			cta:    "Ask for Sam!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCompleter{replies: []string{tt.reply}, err: tt.err}
			ad := NewAdContentGenerator(Options{Completer: fc}).Generate(context.Background(), req)

			assert.Equal(t, tt.source, ad.Source)
			assert.Equal(t, tt.tag, ad.Tagline)
			assert.Equal(t, tt.cta, ad.CallToAction)
			assert.NotEmpty(t, ad.Description)
			require.Len(t, fc.prompts, 1)
			assert.Contains(t, fc.prompts[0], `starting a business called "Sam's Super Baking" that provides Baking services`)
			assert.Equal(t, 200, fc.maxTokens[0])
		})
	}
}

func TestAdContentGenerator_NoCompleter(t *testing.T) {
	ad := NewAdContentGenerator(Options{}).Generate(context.Background(), AdRequest{BusinessType: "Baking", StudentName: "Sam"})
	assert.Equal(t, FallbackAd(AdRequest{BusinessType: "Baking", StudentName: "Sam"}), ad)
	assert.Equal(t, "I provide Baking services with a smile!", ad.Description)
}

func TestIdeaGenerator_Extra(t *testing.T) {
	fc := &fakeCompleter{replies: []string{
		"1. Cookie Stand\n2. " + strings.Repeat("x", 50) + "\n",
		"- Zookeeper\n- Vet.\n",
	}}
	ideas := NewIdeaGenerator(Options{Completer: fc}).Extra(context.Background(), IdeaRequest{
		StudentName: "Sam",
		Interests:   []string{"Animals and pets", "Cooking and baking"},
	})

	assert.Equal(t, []string{"Cookie Stand"}, ideas.Now)
	assert.Equal(t, []string{"Zookeeper", "Vet"}, ideas.Future)
	require.Len(t, fc.prompts, 2)
	assert.Contains(t, fc.prompts[0], "who likes Animals and pets, Cooking and baking.")
	assert.Equal(t, []int{100, 100}, fc.maxTokens)
}

func TestIdeaGenerator_SkipsWithoutName(t *testing.T) {
	fc := &fakeCompleter{}
	ideas := NewIdeaGenerator(Options{Completer: fc}).Extra(context.Background(), IdeaRequest{Interests: []string{"Reading"}})
	assert.Empty(t, ideas.Now)
	assert.Empty(t, fc.prompts)
}

func TestRand_Intn(t *testing.T) {
	r := NewRand(3)
	for i := 0; i < 100; i++ {
		n := r.Intn(5)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 5)
	}
}
