package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/grimes-money/money-adventure/config"
	"github.com/grimes-money/money-adventure/internal/application/command"
	"github.com/grimes-money/money-adventure/internal/domain/business"
	"github.com/grimes-money/money-adventure/internal/domain/curriculum"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.deps.Health.Check(r.Context())
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, status)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := s.deps.Health.Check(r.Context())
	if !status.Ready {
		writeJSONError(w, r, http.StatusServiceUnavailable, "not_ready", status.Message)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Commands.StartSession(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.setSessionCookie(w, snap.ID)
	writeJSON(w, r, http.StatusCreated, snap)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Queries.GetSnapshot(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Commands.EndSession(r.Context(), sessionFromContext(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.deps.Features.ClearSessionOverrides(sessionFromContext(r.Context()).String())
	s.clearSessionCookie(w)
	writeJSON(w, r, http.StatusOK, map[string]bool{"ended": true})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.deps.Queries.GetCatalog())
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Queries.GetAdminStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

type rolloutRequest struct {
	RolloutPercent *int `json:"rollout_percent"`
}

type overrideRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) handleListFeatures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.deps.Features.GetAllFeatures())
}

func (s *Server) handleSetFeatureRollout(w http.ResponseWriter, r *http.Request) {
	var in rolloutRequest
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if in.RolloutPercent == nil {
		s.writeError(w, r, shared.NewDomainError("http", "SetRollout", shared.ErrInvalidInput, "rollout_percent is required"))
		return
	}
	if err := s.features().SetRolloutPercent(pathParam(r, "feature"), *in.RolloutPercent); err != nil {
		s.writeError(w, r, featureError("SetRollout", err))
		return
	}
	writeJSON(w, r, http.StatusOK, s.deps.Features.GetAllFeatures())
}

func (s *Server) handleSetFeatureOverride(w http.ResponseWriter, r *http.Request) {
	var in overrideRequest
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if in.Enabled == nil {
		s.writeError(w, r, shared.NewDomainError("http", "SetOverride", shared.ErrInvalidInput, "enabled is required"))
		return
	}
	id, err := shared.ParseSessionID(pathParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	feature := pathParam(r, "feature")
	if err := s.features().SetSessionOverride(id.String(), feature, *in.Enabled); err != nil {
		s.writeError(w, r, featureError("SetOverride", err))
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"feature":    feature,
		"enabled":    *in.Enabled,
	})
}

// features returns the configured flags, or an empty set that knows no features.
func (s *Server) features() *config.FeatureFlags {
	if s.deps.Features == nil {
		return &config.FeatureFlags{}
	}
	return s.deps.Features
}

func featureError(op string, err error) error {
	switch {
	case errors.Is(err, config.ErrFeatureNotFound):
		return shared.NewDomainError("http", op, shared.ErrNotFound, "unknown feature")
	case errors.Is(err, config.ErrInvalidRolloutPercent):
		return shared.NewDomainError("http", op, shared.ErrValueOutOfRange, err.Error())
	}
	return err
}

// ══════════════════════════════════════════════════════════════════════════════
// ACTION PLUMBING
// ══════════════════════════════════════════════════════════════════════════════

// respond writes the outcome of a command.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, res *command.ActionResult, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// withBody decodes the request body into a fresh T and runs fn.
func withBody[T any](s *Server, fn func(r *http.Request, id shared.SessionID, in T) (*command.ActionResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in T
		if err := decode(r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		res, err := fn(r, sessionFromContext(r.Context()), in)
		s.respond(w, r, res, err)
	}
}

func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func indexParam(r *http.Request) (int, error) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, shared.NewDomainError("http", "index", shared.ErrInvalidInput, "index must be a number")
	}
	return i, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LESSON HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type answerRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) handleAnswerQuiz(w http.ResponseWriter, r *http.Request) {
	withBody(s, func(r *http.Request, id shared.SessionID, in answerRequest) (*command.ActionResult, error) {
		return s.deps.Commands.AnswerQuiz(r.Context(), id, pathParam(r, "quizID"), in.Answer)
	})(w, r)
}

type familyRequest struct {
	Members string `json:"members"`
}

func (s *Server) handleShareFamily(w http.ResponseWriter, r *http.Request) {
	withBody(s, func(r *http.Request, id shared.SessionID, in familyRequest) (*command.ActionResult, error) {
		return s.deps.Commands.ShareFamily(r.Context(), id, in.Members)
	})(w, r)
}

func (s *Server) handlePlanBudget(w http.ResponseWriter, r *http.Request) {
	withBody(s, func(r *http.Request, id shared.SessionID, in curriculum.BudgetInput) (*command.ActionResult, error) {
		return s.deps.Commands.PlanBudget(r.Context(), id, in)
	})(w, r)
}

type placeRequest struct {
	Category string `json:"category"`
}

func (s *Server) handlePlaceItem(w http.ResponseWriter, r *http.Request) {
	withBody(s, func(r *http.Request, id shared.SessionID, in placeRequest) (*command.ActionResult, error) {
		return s.deps.Commands.PlaceItem(r.Context(), id, pathParam(r, "game"), pathParam(r, "item"), in.Category)
	})(w, r)
}

func (s *Server) handleCheckSort(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Commands.CheckSort(r.Context(), sessionFromContext(r.Context()), pathParam(r, "game"))
	s.respond(w, r, res, err)
}

func (s *Server) handleResetSort(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Commands.ResetSort(r.Context(), sessionFromContext(r.Context()), pathParam(r, "game"))
	s.respond(w, r, res, err)
}

type cartRequest struct {
	Item string `json:"item"`
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	withBody(s, func(r *http.Request, id shared.SessionID, in cartRequest) (*command.ActionResult, error) {
		return s.deps.Commands.AddToCart(r.Context(), id, in.Item)
	})(w, r)
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Commands.RemoveFromCart(r.Context(), sessionFromContext(r.Context()), pathParam(r, "item"))
	s.respond(w, r, res, err)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Commands.Checkout(r.Context(), sessionFromContext(r.Context()))
	s.respond(w, r, res, err)
}

func (s *Server) handleResetShop(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Commands.ResetShop(r.Context(), sessionFromContext(r.Context()))
	s.respond(w, r, res, err)
}

func (s *Server) handleExploreBusiness(w http.ResponseWriter, r *http.Request) {
	i, err := indexParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.deps.Commands.ExploreBusiness(r.Context(), sessionFromContext(r.Context()), i)
	s.respond(w, r, res, err)
}

func (s *Server) handleBackToDirectory(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Commands.BackToDirectory(r.Context(), sessionFromContext(r.Context()))
	s.respond(w, r, res, err)
}

func (s *Server) handleLearnEntrepreneur(w http.ResponseWriter, r *http.Request) {
	i, err := indexParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.deps.Commands.LearnEntrepreneur(r.Context(), sessionFromContext(r.Context()), i)
	s.respond(w, r, res, err)
}

func (s *Server) handleExploreJob(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Commands.ExploreJob(r.Context(), sessionFromContext(r.Context()), pathParam(r, "job"))
	s.respond(w, r, res, err)
}

type careerQuizRequest struct {
	Answers []string `json:"answers"`
}

func (s *Server) handleCareerQuiz(w http.ResponseWriter, r *http.Request) {
	withBody(s, func(r *http.Request, id shared.SessionID, in careerQuizRequest) (*command.ActionResult, error) {
		return s.deps.Commands.TakeCareerQuiz(r.Context(), id, in.Answers)
	})(w, r)
}

type skillsRequest struct {
	Skills []string `json:"skills"`
}

func (s *Server) handleSetSkills(w http.ResponseWriter, r *http.Request) {
	withBody(s, func(r *http.Request, id shared.SessionID, in skillsRequest) (*command.ActionResult, error) {
		return s.deps.Commands.SetSkills(r.Context(), id, in.Skills)
	})(w, r)
}

func (s *Server) handleSkillsCertificate(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Commands.CreateSkillsCertificate(r.Context(), sessionFromContext(r.Context()))
	s.respond(w, r, res, err)
}

// ══════════════════════════════════════════════════════════════════════════════
// WIZARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleWizardProfile(w http.ResponseWriter, r *http.Request) {
	withBody(s, func(r *http.Request, id shared.SessionID, in command.ProfileInput) (*command.ActionResult, error) {
		return s.deps.Commands.SetProfile(r.Context(), id, in)
	})(w, r)
}

func (s *Server) handleWizardIdeas(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Commands.GenerateIdeas(r.Context(), sessionFromContext(r.Context()))
	s.respond(w, r, res, err)
}

func (s *Server) handleWizardSelectIdea(w http.ResponseWriter, r *http.Request) {
	withBody(s, func(r *http.Request, id shared.SessionID, in command.SelectIdeaInput) (*command.ActionResult, error) {
		return s.deps.Commands.SelectIdea(r.Context(), id, in)
	})(w, r)
}

type namesRequest struct {
	Creativity shared.Creativity `json:"creativity"`
}

func (s *Server) handleWizardNames(w http.ResponseWriter, r *http.Request) {
	withBody(s, func(r *http.Request, id shared.SessionID, in namesRequest) (*command.ActionResult, error) {
		if in.Creativity == 0 {
			in.Creativity = shared.DefaultCreativity
		}
		return s.deps.Commands.GenerateNames(r.Context(), id, in.Creativity.Clamp())
	})(w, r)
}

type nameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleWizardSelectName(w http.ResponseWriter, r *http.Request) {
	withBody(s, func(r *http.Request, id shared.SessionID, in nameRequest) (*command.ActionResult, error) {
		return s.deps.Commands.SelectName(r.Context(), id, in.Name)
	})(w, r)
}

func (s *Server) handleWizardAdSuggestion(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Commands.SuggestAd(r.Context(), sessionFromContext(r.Context()))
	s.respond(w, r, res, err)
}

func (s *Server) handleWizardPreviewAd(w http.ResponseWriter, r *http.Request) {
	withBody(s, func(r *http.Request, id shared.SessionID, in business.AdInput) (*command.ActionResult, error) {
		return s.deps.Commands.PreviewAd(r.Context(), id, in)
	})(w, r)
}

func (s *Server) handleWizardCertificate(w http.ResponseWriter, r *http.Request) {
	cert, err := s.deps.Queries.GetCertificate(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cert)
}

func (s *Server) handleWizardRestart(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Commands.RestartWizard(r.Context(), sessionFromContext(r.Context()))
	s.respond(w, r, res, err)
}
