// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"time"

	"github.com/grimes-money/money-adventure/internal/domain/business"
	"github.com/grimes-money/money-adventure/internal/domain/curriculum"
	"github.com/grimes-money/money-adventure/internal/domain/session"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
	"github.com/grimes-money/money-adventure/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// StatsSources supply the optional parts of the admin stats. Any may be nil.
type StatsSources struct {
	Events  func() interface{}
	Jobs    func() interface{}
	Breaker func() string
}

// Config contains the dependencies of the Service.
type Config struct {
	Store    session.Store
	Clock    timeutil.Clock
	Location *time.Location
	Stats    StatsSources
}

// Service answers read-only questions about sessions and the course.
type Service struct {
	store    session.Store
	clock    timeutil.Clock
	location *time.Location
	stats    StatsSources
	catalog  Catalog
}

// NewService creates a Service.
func NewService(cfg Config) *Service {
	if cfg.Clock == nil {
		cfg.Clock = timeutil.SystemClock()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		store:    cfg.Store,
		clock:    cfg.Clock,
		location: cfg.Location,
		stats:    cfg.Stats,
		catalog:  buildCatalog(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION
// ══════════════════════════════════════════════════════════════════════════════

// GetSnapshot returns the current view of a session.
func (s *Service) GetSnapshot(ctx context.Context, id shared.SessionID) (session.Snapshot, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return st.Snapshot(), nil
}

// GetCertificate renders the business certificate dated in the configured
// timezone. It fails until the advertisement is designed.
func (s *Service) GetCertificate(ctx context.Context, id shared.SessionID) (business.Certificate, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return business.Certificate{}, err
	}
	return st.Draft.Certificate(timeutil.In(s.clock.Now(), s.location))
}

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// ShopCatalog is the pretend store.
type ShopCatalog struct {
	Budget int                   `json:"budget"`
	Items  []curriculum.ShopItem `json:"items"`
}

// Catalog is every static table a client needs to render the course.
// Answers are never included.
type Catalog struct {
	Modules         []curriculum.Module             `json:"modules"`
	Cities          []string                        `json:"cities"`
	Interests       []string                        `json:"interests"`
	Colors          []business.Color                `json:"colors"`
	DefaultColor    string                          `json:"default_color"`
	Symbols         []business.Symbol               `json:"symbols"`
	Quizzes         []curriculum.Quiz               `json:"quizzes"`
	SortGames       []curriculum.SortGame           `json:"sort_games"`
	Shop            ShopCatalog                     `json:"shop"`
	Directory       []curriculum.Business           `json:"directory"`
	Entrepreneurs   []curriculum.Entrepreneur       `json:"entrepreneurs"`
	JobCategories   []curriculum.JobCategory        `json:"job_categories"`
	JobDetails      map[string]curriculum.JobDetail `json:"job_details"`
	CareerQuestions []CareerQuestion                `json:"career_questions"`
	SkillCategories []curriculum.SkillCategory      `json:"skill_categories"`
}

// CareerQuestion hides the jobs behind each option.
type CareerQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// GetCatalog returns the course tables.
func (s *Service) GetCatalog() Catalog {
	return s.catalog
}

func buildCatalog() Catalog {
	questions := make([]CareerQuestion, len(curriculum.CareerQuestions))
	for i, q := range curriculum.CareerQuestions {
		questions[i].Question = q.Question
		for _, o := range q.Options {
			questions[i].Options = append(questions[i].Options, o.Label)
		}
	}
	return Catalog{
		Modules:         curriculum.Modules,
		Cities:          business.Cities,
		Interests:       business.Interests,
		Colors:          business.Colors,
		DefaultColor:    business.DefaultColor,
		Symbols:         business.Symbols,
		Quizzes:         curriculum.Quizzes,
		SortGames:       []curriculum.SortGame{curriculum.NeedsWants, curriculum.GoodsServices},
		Shop:            ShopCatalog{Budget: curriculum.ShopBudget, Items: curriculum.ShopItems},
		Directory:       curriculum.Directory,
		Entrepreneurs:   curriculum.Entrepreneurs,
		JobCategories:   curriculum.JobCategories,
		JobDetails:      curriculum.JobDetails,
		CareerQuestions: questions,
		SkillCategories: curriculum.SkillCategories,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN
// ══════════════════════════════════════════════════════════════════════════════

// AdminStats is the operator view of the service.
type AdminStats struct {
	ActiveSessions int         `json:"active_sessions"`
	Events         interface{} `json:"events,omitempty"`
	Jobs           interface{} `json:"jobs,omitempty"`
	BreakerState   string      `json:"generation_breaker,omitempty"`
	GeneratedAt    time.Time   `json:"generated_at"`
}

// GetAdminStats collects the live session count and the optional sources.
func (s *Service) GetAdminStats(ctx context.Context) (AdminStats, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	stats := AdminStats{ActiveSessions: n, GeneratedAt: s.clock.Now()}
	if s.stats.Events != nil {
		stats.Events = s.stats.Events()
	}
	if s.stats.Jobs != nil {
		stats.Jobs = s.stats.Jobs()
	}
	if s.stats.Breaker != nil {
		stats.BreakerState = s.stats.Breaker()
	}
	return stats, nil
}
