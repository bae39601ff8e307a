package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/grimes-money/money-adventure/config"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
	"github.com/grimes-money/money-adventure/pkg/logger"
)

// DefaultNameCount is used when a caller asks for zero names.
const DefaultNameCount = 5

const namePrompt = `Create %d business names for a %s business run by a 1st grade student named %s.

Creativity level: %d/5 (where 1 is simple, 5 is super creative and fun)

Guidelines:
- Include "%s's" in some of the names
- Keep names simple enough for a 1st grader to read and understand
- Make names fun, positive, and kid-appropriate
- The higher the creativity level, the more playful and imaginative the names should be
- Avoid any negative or scary themes

Format as a simple list with just the business names (no numbering or explanations).
`

// nameTrim is stripped from both ends of every returned line.
const nameTrim = " \t\r*-•123456789."

var adjectiveTiers = map[shared.Creativity][]string{
	1: {"Super", "Great", "Good", "Smart", "Helpful"},
	2: {"Amazing", "Awesome", "Fantastic", "Brilliant", "Wonderful"},
	3: {"Spectacular", "Terrific", "Magnificent", "Marvelous", "Extraordinary"},
	4: {"Stupendous", "Colossal", "Phenomenal", "Mind-Blowing", "Ultra"},
	5: {"Absolutely Incredible", "Totally Outrageous", "Ridiculously Amazing", "Extraordinarily Fantastic", "Unbelievably Awesome"},
}

var suffixTiers = map[shared.Creativity][]string{
	1: {"Service", "Helper", "Company", "Business", "Team"},
	2: {"Experts", "Specialists", "Pros", "Stars", "Champions"},
	3: {"Wizards", "Heroes", "Masters", "Legends", "Squad"},
	4: {"Extraordinaires", "Superstars", "Dynamos", "Sensations", "Wonders"},
	5: {"Magnificent Marvels", "Spectacular Specialists", "Dynamic Dynamos", "Fantastic Phenoms", "Tremendous Titans"},
}

// NameRequest describes one batch of business names.
type NameRequest struct {
	SessionID    string
	BusinessType string
	StudentName  string
	Creativity   shared.Creativity
	Count        int
}

// NameGenerator suggests business names.
type NameGenerator struct {
	opts Options
}

// NewNameGenerator creates a NameGenerator.
func NewNameGenerator(opts Options) *NameGenerator {
	return &NameGenerator{opts: opts.withDefaults()}
}

// Generate never fails. It returns at most req.Count names, and none when
// the student name or business type is blank.
func (g *NameGenerator) Generate(ctx context.Context, req NameRequest) []string {
	names, _ := g.Suggest(ctx, req)
	return names
}

// Suggest is Generate that also reports where the names came from.
func (g *NameGenerator) Suggest(ctx context.Context, req NameRequest) ([]string, string) {
	req.BusinessType = strings.TrimSpace(req.BusinessType)
	req.StudentName = strings.TrimSpace(req.StudentName)
	if req.BusinessType == "" || req.StudentName == "" {
		return nil, SourceFallback
	}
	req.Creativity = req.Creativity.Clamp()
	if req.Count <= 0 {
		req.Count = DefaultNameCount
	}

	if g.opts.useService(config.FeatureAINames, req.SessionID) {
		if names := g.fromService(ctx, req); len(names) > 0 {
			g.opts.OnOutcome("names", SourceService)
			return names, SourceService
		}
	}
	g.opts.OnOutcome("names", SourceFallback)
	return g.Fallback(req), SourceFallback
}

func (g *NameGenerator) fromService(ctx context.Context, req NameRequest) []string {
	prompt := fmt.Sprintf(namePrompt, req.Count, req.BusinessType, req.StudentName, req.Creativity, req.StudentName)
	temperature := 0.7 + 0.1*float64(req.Creativity)

	text, err := g.opts.complete(ctx, "names", prompt, 200, temperature)
	if err != nil {
		return nil
	}
	names := ParseNames(text, req.Count)
	if len(names) == 0 {
		g.opts.Logger.Warn("generation returned no names", logger.SessionID(req.SessionID))
	}
	return names
}

// ParseNames reads one name per line, dropping list markers and blanks.
func ParseNames(text string, count int) []string {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		name := strings.TrimSpace(strings.Trim(line, nameTrim))
		if name == "" {
			continue
		}
		names = append(names, name)
		if len(names) == count {
			break
		}
	}
	return names
}

// Fallback builds names from the creativity tier word lists.
func (g *NameGenerator) Fallback(req NameRequest) []string {
	level := req.Creativity.Clamp()
	adjectives, suffixes := adjectiveTiers[level], suffixTiers[level]
	keywords := strings.Fields(strings.ToLower(req.BusinessType))

	names := []string{fmt.Sprintf("%s's %s", req.StudentName, req.BusinessType)}
	if req.Count > 1 {
		names = append(names, fmt.Sprintf("%s's %s %s", req.StudentName, g.opts.Rand.pick(adjectives), req.BusinessType))
	}
	for i := 2; i < req.Count; i++ {
		adj := g.opts.Rand.pick(adjectives)
		keyword := req.BusinessType
		if len(keywords) > 0 {
			keyword = capitalize(g.opts.Rand.pick(keywords))
		}
		suffix := g.opts.Rand.pick(suffixes)
		names = append(names, fmt.Sprintf("%s's %s %s %s", req.StudentName, adj, keyword, suffix))
	}
	return names
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
