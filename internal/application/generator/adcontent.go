package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grimes-money/money-adventure/config"
	"github.com/grimes-money/money-adventure/internal/domain/business"
)

const adPrompt = `Create a short advertisement for a 1st grade student named %s who is starting a business called "%s" that provides %s services.

Please generate:
1. A catchy tagline (5-7 words)
2. A short description (1-2 sentences) about what the business offers
3. A simple "call to action" to contact them

Make everything simple enough for a 1st grader to read and understand. Keep the language cheerful and kid-friendly.

Format as a JSON object with keys: "tagline", "description", "call_to_action".`

// AdRequest describes the business an advertisement is written for.
type AdRequest struct {
	SessionID    string
	BusinessName string
	BusinessType string
	StudentName  string
}

// AdContentGenerator writes advertisement copy.
type AdContentGenerator struct {
	opts Options
}

// NewAdContentGenerator creates an AdContentGenerator.
func NewAdContentGenerator(opts Options) *AdContentGenerator {
	return &AdContentGenerator{opts: opts.withDefaults()}
}

// Generate never fails. Fields the service did not deliver are filled from
// FallbackAd, and Source says how much of the copy came from the service.
func (g *AdContentGenerator) Generate(ctx context.Context, req AdRequest) business.AdCopy {
	fallback := FallbackAd(req)
	if !g.opts.useService(config.FeatureAIAdContent, req.SessionID) {
		g.opts.OnOutcome("ad_content", SourceFallback)
		return fallback
	}

	prompt := fmt.Sprintf(adPrompt, req.StudentName, req.BusinessName, req.BusinessType)
	text, err := g.opts.complete(ctx, "ad_content", prompt, 200, 0.7)
	if err != nil {
		g.opts.OnOutcome("ad_content", SourceFallback)
		return fallback
	}

	ad := ParseAdCopy(text, fallback)
	g.opts.OnOutcome("ad_content", ad.Source)
	return ad
}

// FallbackAd is the copy used when the service cannot help.
func FallbackAd(req AdRequest) business.AdCopy {
	return business.AdCopy{
		Tagline:      fmt.Sprintf("Quality %s from %s!", req.BusinessType, req.StudentName),
		Description:  fmt.Sprintf("I provide %s services with a smile!", req.BusinessType),
		CallToAction: fmt.Sprintf("Ask for %s!", req.StudentName),
		Source:       SourceFallback,
	}
}

// ParseAdCopy extracts the JSON object from a completion. Each of the three
// fields is decoded on its own; a missing or non-string field keeps the
// value from fallback.
func ParseAdCopy(text string, fallback business.AdCopy) business.AdCopy {
	out := fallback
	out.Source = SourceFallback

	obj := outermostObject(stripFences(text))
	if obj == "" {
		return out
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return out
	}

	targets := []struct {
		key string
		dst *string
	}{
		{"tagline", &out.Tagline},
		{"description", &out.Description},
		{"call_to_action", &out.CallToAction},
	}
	found := 0
	for _, t := range targets {
		var v string
		if err := json.Unmarshal(fields[t.key], &v); err != nil {
			continue
		}
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		*t.dst = v
		found++
	}

	switch found {
	case len(targets):
		out.Source = SourceService
	case 0:
		out.Source = SourceFallback
	default:
		out.Source = SourcePartial
	}
	return out
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(text), "```")
}

func outermostObject(text string) string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
