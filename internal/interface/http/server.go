// Package http exposes the course over a JSON REST API. Every visitor is
// identified by a session cookie and every action answers with the reward
// notifications it produced and a fresh snapshot of the session.
package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/grimes-money/money-adventure/config"
	"github.com/grimes-money/money-adventure/internal/application/command"
	"github.com/grimes-money/money-adventure/internal/application/query"
	"github.com/grimes-money/money-adventure/internal/interface/http/handlers"
	"github.com/grimes-money/money-adventure/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// RequestObserver records one finished request. metrics.Metrics satisfies it.
type RequestObserver interface {
	ObserveRequest(route, method string, status int, d time.Duration)
}

// Dependencies contains everything the handlers need.
type Dependencies struct {
	Commands *command.Service
	Queries  *query.Service

	// Health drives /health and /ready. Nil means always healthy.
	Health handlers.HealthChecker

	// Features backs the admin feature routes. Optional.
	Features *config.FeatureFlags

	// Metrics observes requests; MetricsHandler serves /metrics. Both optional.
	Metrics        RequestObserver
	MetricsHandler http.Handler

	Logger  *logger.Logger
	Version string
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server represents the HTTP server.
type Server struct {
	config     config.HTTPConfig
	deps       Dependencies
	httpServer *http.Server
	router     chi.Router
	logger     *logger.Logger
	limiter    *handlers.RateLimiter
	trusted    []*net.IPNet

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a new HTTP server with the given configuration and dependencies.
func NewServer(cfg config.HTTPConfig, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Health == nil {
		deps.Health = handlers.NewCompositeHealthChecker(deps.Version)
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "gma_session"
	}

	s := &Server{
		config: cfg,
		deps:   deps,
		router: chi.NewRouter(),
		logger: deps.Logger.With(logger.Component("http")),
	}
	trusted, err := cfg.TrustedProxyNets()
	if err != nil {
		s.logger.Warn("ignoring trusted proxies", logger.Err(err))
	}
	s.trusted = trusted
	if cfg.RateLimit > 0 {
		s.limiter = handlers.NewRateLimiter(cfg.RateLimit, cfg.RateLimitBurst, s.trusted)
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

// Handler returns the routed handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(s.requestIDMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(handlers.SecurityHeadersMiddleware)
	if s.limiter != nil {
		r.Use(s.limiter.Middleware(rejectJSON))
	}
	r.Use(handlers.RequestSizeLimitMiddleware(s.config.MaxBodyBytes, rejectJSON))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, r, http.StatusNotFound, "not_found", "Nothing lives at this address.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "That action is not allowed here.")
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status Endpoints
	// ─────────────────────────────────────────────────────────────────────────
	r.Get("/health", s.handleHealth)
	r.Get("/healthz", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/live", s.handleLive)
	if s.deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.MetricsHandler)
	}
	if s.config.EnableProfiling {
		r.HandleFunc("/debug/pprof/*", pprof.Index)
		r.HandleFunc("/debug/pprof/profile", pprof.Profile)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if s.config.RequestTimeout > 0 {
			r.Use(timeoutMiddleware(s.config.RequestTimeout))
		}

		r.Post("/sessions", s.handleStartSession)
		r.Get("/catalog", s.handleCatalog)

		r.Route("/admin", func(r chi.Router) {
			r.Use(handlers.AdminKeyAuth(s.config.AdminKeyHash, rejectJSON))
			r.Get("/stats", s.handleAdminStats)
			r.Get("/features", s.handleListFeatures)
			r.Put("/features/{feature}", s.handleSetFeatureRollout)
			r.Put("/features/{feature}/sessions/{sessionID}", s.handleSetFeatureOverride)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.sessionMiddleware)

			r.Get("/session", s.handleGetSession)
			r.Delete("/session", s.handleEndSession)

			r.Post("/quizzes/{quizID}/answer", s.handleAnswerQuiz)

			r.Post("/family/members", s.handleShareFamily)
			r.Post("/family/budget", s.handlePlanBudget)

			r.Put("/games/{game}/items/{item}", s.handlePlaceItem)
			r.Post("/games/{game}/check", s.handleCheckSort)
			r.Post("/games/{game}/reset", s.handleResetSort)

			r.Post("/shop/cart", s.handleAddToCart)
			r.Delete("/shop/cart/{item}", s.handleRemoveFromCart)
			r.Post("/shop/checkout", s.handleCheckout)
			r.Post("/shop/reset", s.handleResetShop)

			r.Post("/directory/{index}/explore", s.handleExploreBusiness)
			r.Post("/directory/back", s.handleBackToDirectory)
			r.Post("/entrepreneurs/{index}/learn", s.handleLearnEntrepreneur)

			r.Post("/jobs/{job}/explore", s.handleExploreJob)
			r.Post("/career-quiz", s.handleCareerQuiz)
			r.Put("/skills", s.handleSetSkills)
			r.Post("/skills/certificate", s.handleSkillsCertificate)

			r.Route("/wizard", func(r chi.Router) {
				r.Put("/profile", s.handleWizardProfile)
				r.Post("/ideas", s.handleWizardIdeas)
				r.Post("/idea", s.handleWizardSelectIdea)
				r.Post("/names", s.handleWizardNames)
				r.Post("/name", s.handleWizardSelectName)
				r.Post("/ad-suggestion", s.handleWizardAdSuggestion)
				r.Post("/ad/preview", s.handleWizardPreviewAd)
				r.Get("/certificate", s.handleWizardCertificate)
				r.Post("/restart", s.handleWizardRestart)
			})
		})
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Uptime returns the server uptime.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}

// Address returns the server address.
func (s *Server) Address() string {
	return s.config.Address()
}
