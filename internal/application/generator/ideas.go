package generator

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/grimes-money/money-adventure/config"
	"github.com/grimes-money/money-adventure/internal/domain/business"
)

const (
	nowIdeasPrompt    = "Generate 2 simple business ideas for a 1st grader named %s who likes %s. These should be things a 1st grader could actually do now with adult supervision. Format as a simple list of just the business names. Keep names very short and simple."
	futureIdeasPrompt = "Generate 2 career ideas for when a 1st grader named %s grows up, based on their interests in %s. Format as a simple list of just the job titles. Keep names very short and simple."

	ideaTrim       = " \t\r.-*123456789"
	maxIdeaRunes   = 50
	ideaTokenLimit = 100
)

// IdeaRequest describes the student the extra ideas are for.
type IdeaRequest struct {
	SessionID   string
	StudentName string
	Interests   []string
}

// IdeaGenerator asks the service for ideas beyond the built-in table.
type IdeaGenerator struct {
	opts Options
}

// NewIdeaGenerator creates an IdeaGenerator.
func NewIdeaGenerator(opts Options) *IdeaGenerator {
	return &IdeaGenerator{opts: opts.withDefaults()}
}

// Extra returns service ideas for both timeframes. It returns empty Ideas
// when the service is off, the student has no name or no interests, or
// every call failed.
func (g *IdeaGenerator) Extra(ctx context.Context, req IdeaRequest) business.Ideas {
	name := strings.TrimSpace(req.StudentName)
	if name == "" || len(req.Interests) == 0 || !g.opts.useService(config.FeatureAIIdeas, req.SessionID) {
		return business.Ideas{}
	}
	interests := strings.Join(req.Interests, ", ")

	var out business.Ideas
	if text, err := g.opts.complete(ctx, "ideas_now", fmt.Sprintf(nowIdeasPrompt, name, interests), ideaTokenLimit, 0.7); err == nil {
		out.Now = ParseIdeas(text)
	}
	if text, err := g.opts.complete(ctx, "ideas_future", fmt.Sprintf(futureIdeasPrompt, name, interests), ideaTokenLimit, 0.7); err == nil {
		out.Future = ParseIdeas(text)
	}

	source := SourceService
	if len(out.Now) == 0 && len(out.Future) == 0 {
		source = SourceFallback
	}
	g.opts.OnOutcome("ideas", source)
	return out
}

// ParseIdeas keeps non-empty lines shorter than 50 characters.
func ParseIdeas(text string) []string {
	var ideas []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		idea := strings.TrimSpace(strings.Trim(line, ideaTrim))
		if idea == "" || utf8.RuneCountInString(idea) >= maxIdeaRunes {
			continue
		}
		ideas = append(ideas, idea)
	}
	return ideas
}
