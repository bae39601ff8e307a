package command

import (
	"context"

	"github.com/grimes-money/money-adventure/internal/application/generator"
	"github.com/grimes-money/money-adventure/internal/domain/business"
	"github.com/grimes-money/money-adventure/internal/domain/curriculum"
	"github.com/grimes-money/money-adventure/internal/domain/session"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BUSINESS WIZARD
// Steps that call the generation service read the draft first, generate
// outside the pass, and apply the result only if the draft still matches.
// ══════════════════════════════════════════════════════════════════════════════

// ProfileInput is the first wizard step.
type ProfileInput struct {
	Name      string   `json:"name"`
	City      string   `json:"city"`
	Interests []string `json:"interests"`
}

// ProfileResult reports whether the profile changed.
type ProfileResult struct {
	Changed bool `json:"changed"`
}

// SetProfile records the student's name, city and interests.
func (s *Service) SetProfile(ctx context.Context, id shared.SessionID, in ProfileInput) (*ActionResult, error) {
	return s.apply(ctx, id, "wizard_profile", func(st *session.State) (interface{}, error) {
		var changed bool
		err := st.Wizard(func(d *business.Draft) error {
			var err error
			changed, err = d.SetProfile(in.Name, in.City, in.Interests)
			return err
		})
		if err != nil {
			return nil, err
		}
		return ProfileResult{Changed: changed}, nil
	})
}

// GenerateIdeas builds the idea lists for the current profile.
func (s *Service) GenerateIdeas(ctx context.Context, id shared.SessionID) (*ActionResult, error) {
	st, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.Draft.Step() == business.StepProfile {
		// Surface the profile prompt without calling the service.
		return nil, st.Draft.GenerateIdeas(s.rand, business.Ideas{})
	}

	profile := st.Draft
	extra := s.ideas.Extra(ctx, generator.IdeaRequest{
		SessionID:   id.String(),
		StudentName: profile.StudentName,
		Interests:   profile.Interests,
	})
	source := generator.SourceService
	if len(extra.Now) == 0 && len(extra.Future) == 0 {
		source = generator.SourceFallback
	}

	return s.apply(ctx, id, "wizard_ideas", func(st *session.State) (interface{}, error) {
		use := extra
		if !sameProfile(st.Draft, profile) {
			use = business.Ideas{}
		}
		if err := st.Wizard(func(d *business.Draft) error { return d.GenerateIdeas(s.rand, use) }); err != nil {
			return nil, err
		}
		if _, err := st.CompleteActivity(curriculum.IdeasGenerated); err != nil {
			return nil, err
		}
		st.Emit(shared.NewGenerationCompletedEvent(id.String(), "ideas", source))
		return *st.Draft.Ideas, nil
	})
}

// SelectIdeaInput picks an idea from one timeframe.
type SelectIdeaInput struct {
	Idea      string           `json:"idea"`
	Timeframe shared.Timeframe `json:"timeframe"`
}

// SelectIdea picks one of the generated ideas.
func (s *Service) SelectIdea(ctx context.Context, id shared.SessionID, in SelectIdeaInput) (*ActionResult, error) {
	return s.apply(ctx, id, "wizard_select_idea", func(st *session.State) (interface{}, error) {
		if err := st.Wizard(func(d *business.Draft) error { return d.SelectIdea(in.Idea, in.Timeframe) }); err != nil {
			return nil, err
		}
		return in, nil
	})
}

// GenerateNames suggests names for the selected idea.
func (s *Service) GenerateNames(ctx context.Context, id shared.SessionID, creativity shared.Creativity) (*ActionResult, error) {
	st, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}
	idea := st.Draft.SelectedIdea
	if idea == "" {
		return nil, shared.Incomplete("wizard", "GenerateNames", "Pick a business idea first!")
	}

	names, source := s.names.Suggest(ctx, generator.NameRequest{
		SessionID:    id.String(),
		BusinessType: idea,
		StudentName:  st.Draft.StudentName,
		Creativity:   creativity,
	})

	return s.apply(ctx, id, "wizard_names", func(st *session.State) (interface{}, error) {
		if err := st.Wizard(func(d *business.Draft) error { return d.SetNames(names, idea) }); err != nil {
			return nil, err
		}
		st.Emit(shared.NewGenerationCompletedEvent(id.String(), "names", source))
		return names, nil
	})
}

// SelectName picks one of the generated names.
func (s *Service) SelectName(ctx context.Context, id shared.SessionID, name string) (*ActionResult, error) {
	return s.apply(ctx, id, "wizard_select_name", func(st *session.State) (interface{}, error) {
		if err := st.Wizard(func(d *business.Draft) error { return d.SelectName(name) }); err != nil {
			return nil, err
		}
		if _, err := st.CompleteActivity(curriculum.BusinessNamed); err != nil {
			return nil, err
		}
		return name, nil
	})
}

// SuggestAd generates ad copy for the selected name.
func (s *Service) SuggestAd(ctx context.Context, id shared.SessionID) (*ActionResult, error) {
	st, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}
	name := st.Draft.SelectedName
	if name == "" {
		return nil, shared.Incomplete("wizard", "SuggestAd", "Pick a business name first!")
	}

	suggestion := s.ads.Generate(ctx, generator.AdRequest{
		SessionID:    id.String(),
		BusinessName: name,
		BusinessType: st.Draft.SelectedIdea,
		StudentName:  st.Draft.StudentName,
	})

	return s.apply(ctx, id, "wizard_ad_suggestion", func(st *session.State) (interface{}, error) {
		if err := st.Wizard(func(d *business.Draft) error { return d.SetSuggestion(suggestion, name) }); err != nil {
			return nil, err
		}
		st.Emit(shared.NewGenerationCompletedEvent(id.String(), "ad_content", suggestion.Source))
		return suggestion, nil
	})
}

// PreviewAd freezes the advertisement and unlocks the certificate.
func (s *Service) PreviewAd(ctx context.Context, id shared.SessionID, in business.AdInput) (*ActionResult, error) {
	return s.apply(ctx, id, "wizard_preview_ad", func(st *session.State) (interface{}, error) {
		if err := st.Wizard(func(d *business.Draft) error { return d.PreviewAd(in) }); err != nil {
			return nil, err
		}
		if _, err := st.CompleteActivity(curriculum.AdDesigned); err != nil {
			return nil, err
		}
		return *st.Draft.Ad, nil
	})
}

// RestartWizard discards the draft. Earned rewards are kept.
func (s *Service) RestartWizard(ctx context.Context, id shared.SessionID) (*ActionResult, error) {
	return s.apply(ctx, id, "wizard_restart", func(st *session.State) (interface{}, error) {
		err := st.Wizard(func(d *business.Draft) error {
			d.Restart()
			return nil
		})
		return nil, err
	})
}

func sameProfile(a, b business.Draft) bool {
	if a.StudentName != b.StudentName || a.City != b.City || len(a.Interests) != len(b.Interests) {
		return false
	}
	for i := range a.Interests {
		if a.Interests[i] != b.Interests[i] {
			return false
		}
	}
	return true
}
