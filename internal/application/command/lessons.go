package command

import (
	"context"
	"strings"

	"github.com/grimes-money/money-adventure/internal/domain/business"
	"github.com/grimes-money/money-adventure/internal/domain/curriculum"
	"github.com/grimes-money/money-adventure/internal/domain/session"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// QUIZZES
// ══════════════════════════════════════════════════════════════════════════════

// QuizResult is the feedback for one answer.
type QuizResult struct {
	Correct bool   `json:"correct"`
	Message string `json:"message"`
}

// AnswerQuiz checks answer. A correct answer is rewarded only the first time.
func (s *Service) AnswerQuiz(ctx context.Context, id shared.SessionID, quizID, answer string) (*ActionResult, error) {
	q, err := curriculum.FindQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if !q.HasOption(answer) {
		return nil, shared.NewDomainError("quiz", "Answer", shared.ErrInvalidInput, "unknown answer")
	}

	return s.apply(ctx, id, "answer_quiz", func(st *session.State) (interface{}, error) {
		if q.RequiresCertificate && st.Draft.Step() != business.StepCertificate {
			return nil, shared.Incomplete("quiz", "Answer", "Finish creating your business to answer this question!")
		}
		correct, msg := q.Check(answer)
		if correct {
			if _, err := st.CompleteActivity(q.Activity()); err != nil {
				return nil, err
			}
		}
		return QuizResult{Correct: correct, Message: msg}, nil
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION 1: FAMILIES
// ══════════════════════════════════════════════════════════════════════════════

// ShareFamily records who is in the student's family.
func (s *Service) ShareFamily(ctx context.Context, id shared.SessionID, members string) (*ActionResult, error) {
	members = strings.TrimSpace(members)
	if members == "" {
		return nil, shared.Incomplete("family", "Share", "Tell us who is in your family first!")
	}
	return s.apply(ctx, id, "share_family", func(st *session.State) (interface{}, error) {
		st.Games.FamilyMembers = members
		if _, err := st.CompleteActivity(curriculum.FamilyMembers); err != nil {
			return nil, err
		}
		return members, nil
	})
}

// PlanBudget computes a family budget and rewards the first plan.
func (s *Service) PlanBudget(ctx context.Context, id shared.SessionID, in curriculum.BudgetInput) (*ActionResult, error) {
	plan, err := curriculum.PlanBudget(in)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, "plan_budget", func(st *session.State) (interface{}, error) {
		st.Games.Budget = &plan
		if _, err := st.CompleteActivity(curriculum.FamilyBudget); err != nil {
			return nil, err
		}
		return plan, nil
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SORTING GAMES
// ══════════════════════════════════════════════════════════════════════════════

// SortResult is the score of a checked round.
type SortResult struct {
	Correct  int  `json:"correct"`
	Total    int  `json:"total"`
	Mastered bool `json:"mastered"`
}

// PlaceItem puts item into one of the game's two buckets.
func (s *Service) PlaceItem(ctx context.Context, id shared.SessionID, gameID, item, category string) (*ActionResult, error) {
	g, err := curriculum.FindSortGame(gameID)
	if err != nil {
		return nil, err
	}
	if err := g.ValidatePlacement(item, category); err != nil {
		return nil, err
	}
	return s.apply(ctx, id, "place_item", func(st *session.State) (interface{}, error) {
		if st.Games.Sorts == nil {
			st.Games.Sorts = make(map[string]map[string]string)
		}
		if st.Games.Sorts[g.ID] == nil {
			st.Games.Sorts[g.ID] = make(map[string]string, len(g.Items))
		}
		st.Games.Sorts[g.ID][item] = category
		return st.Games.Sorts[g.ID], nil
	})
}

// CheckSort scores the current round. Coins are paid for the first scored
// round only, and the mastery badge needs that round to reach the threshold.
func (s *Service) CheckSort(ctx context.Context, id shared.SessionID, gameID string) (*ActionResult, error) {
	g, err := curriculum.FindSortGame(gameID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, "check_sort", func(st *session.State) (interface{}, error) {
		correct, err := g.Score(st.Games.Sorts[g.ID])
		if err != nil {
			return nil, err
		}
		first, err := st.CompleteActivity(g.Activity(correct))
		if err != nil {
			return nil, err
		}
		res := SortResult{Correct: correct, Total: len(g.Items)}
		if first && correct >= g.Threshold {
			res.Mastered = st.AwardAchievement(g.Mastery)
		}
		return res, nil
	})
}

// ResetSort clears the answers of a game so it can be played again.
func (s *Service) ResetSort(ctx context.Context, id shared.SessionID, gameID string) (*ActionResult, error) {
	g, err := curriculum.FindSortGame(gameID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, "reset_sort", func(st *session.State) (interface{}, error) {
		delete(st.Games.Sorts, g.ID)
		return nil, nil
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION 2: SHOPPING
// ══════════════════════════════════════════════════════════════════════════════

// AddToCart buys item if it fits in the remaining budget.
func (s *Service) AddToCart(ctx context.Context, id shared.SessionID, name string) (*ActionResult, error) {
	item, err := curriculum.FindShopItem(name)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, "add_to_cart", func(st *session.State) (interface{}, error) {
		if st.Games.Checkout != nil {
			return nil, shared.Incomplete("shop", "Add", "You already checked out. Click Shop Again to start over!")
		}
		if !curriculum.CanAfford(st.Cart(), item) {
			return nil, shared.Incomplete("shop", "Add", "You don't have enough money for that!")
		}
		st.Games.Cart = append(st.Games.Cart, item.Name)
		return st.Cart(), nil
	})
}

// RemoveFromCart takes one item out of the cart.
func (s *Service) RemoveFromCart(ctx context.Context, id shared.SessionID, name string) (*ActionResult, error) {
	return s.apply(ctx, id, "remove_from_cart", func(st *session.State) (interface{}, error) {
		if st.Games.Checkout != nil {
			return nil, shared.Incomplete("shop", "Remove", "You already checked out. Click Shop Again to start over!")
		}
		for i, n := range st.Games.Cart {
			if n == name {
				st.Games.Cart = append(st.Games.Cart[:i], st.Games.Cart[i+1:]...)
				return st.Cart(), nil
			}
		}
		return nil, shared.NewDomainError("shop", "Remove", shared.ErrInvalidInput, "item is not in your cart")
	})
}

// Checkout grades the cart. Only the first checkout pays.
func (s *Service) Checkout(ctx context.Context, id shared.SessionID) (*ActionResult, error) {
	return s.apply(ctx, id, "checkout", func(st *session.State) (interface{}, error) {
		if st.Games.Checkout != nil {
			return *st.Games.Checkout, nil
		}
		c, err := curriculum.GradeCart(st.Cart())
		if err != nil {
			return nil, err
		}
		st.Games.Checkout = &c
		if _, err := st.CompleteActivity(c.Activity); err != nil {
			return nil, err
		}
		return c, nil
	})
}

// ResetShop empties the cart for another trip.
func (s *Service) ResetShop(ctx context.Context, id shared.SessionID) (*ActionResult, error) {
	return s.apply(ctx, id, "reset_shop", func(st *session.State) (interface{}, error) {
		st.Games.Cart = nil
		st.Games.Checkout = nil
		return nil, nil
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION 3: BUSINESSES
// ══════════════════════════════════════════════════════════════════════════════

// ExploreBusiness opens a directory card.
func (s *Service) ExploreBusiness(ctx context.Context, id shared.SessionID, index int) (*ActionResult, error) {
	if index < 0 || index >= len(curriculum.Directory) {
		return nil, shared.NewDomainError("directory", "Explore", shared.ErrInvalidInput, "unknown business")
	}
	return s.apply(ctx, id, "explore_business", func(st *session.State) (interface{}, error) {
		i := index
		st.Games.SelectedBusiness = &i
		if _, err := st.CompleteActivity(curriculum.ExploredBusiness); err != nil {
			return nil, err
		}
		return curriculum.Directory[index], nil
	})
}

// BackToDirectory closes the open card.
func (s *Service) BackToDirectory(ctx context.Context, id shared.SessionID) (*ActionResult, error) {
	return s.apply(ctx, id, "back_to_directory", func(st *session.State) (interface{}, error) {
		st.Games.SelectedBusiness = nil
		return nil, nil
	})
}

// LearnEntrepreneur reads an entrepreneur spotlight.
func (s *Service) LearnEntrepreneur(ctx context.Context, id shared.SessionID, index int) (*ActionResult, error) {
	a, err := curriculum.EntrepreneurActivity(index)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, "learn_entrepreneur", func(st *session.State) (interface{}, error) {
		if _, err := st.CompleteActivity(a); err != nil {
			return nil, err
		}
		return curriculum.Entrepreneurs[index], nil
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION 4: JOBS
// ══════════════════════════════════════════════════════════════════════════════

// ExploreJob reads a job's detail card.
func (s *Service) ExploreJob(ctx context.Context, id shared.SessionID, job string) (*ActionResult, error) {
	a, err := curriculum.ExploredJobActivity(job)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, "explore_job", func(st *session.State) (interface{}, error) {
		if _, err := st.CompleteActivity(a); err != nil {
			return nil, err
		}
		return curriculum.JobDetails[job], nil
	})
}

// TakeCareerQuiz recommends jobs for the three answers.
func (s *Service) TakeCareerQuiz(ctx context.Context, id shared.SessionID, answers []string) (*ActionResult, error) {
	recs, err := curriculum.RecommendCareers(answers)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, "career_quiz", func(st *session.State) (interface{}, error) {
		st.Games.Careers = recs
		if _, err := st.CompleteActivity(curriculum.CareerQuiz); err != nil {
			return nil, err
		}
		return recs, nil
	})
}

// SetSkills replaces the checked skills.
func (s *Service) SetSkills(ctx context.Context, id shared.SessionID, skills []string) (*ActionResult, error) {
	clean, err := curriculum.NormalizeSkills(skills)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, "set_skills", func(st *session.State) (interface{}, error) {
		st.Games.Skills = clean
		return clean, nil
	})
}

// SkillsCertificate is the certificate listing a student's skills.
type SkillsCertificate struct {
	Skills []string `json:"skills"`
}

// CreateSkillsCertificate rewards the first certificate.
func (s *Service) CreateSkillsCertificate(ctx context.Context, id shared.SessionID) (*ActionResult, error) {
	return s.apply(ctx, id, "skills_certificate", func(st *session.State) (interface{}, error) {
		if len(st.Games.Skills) == 0 {
			return nil, shared.Incomplete("skills", "Certificate", "Check at least one skill you already have!")
		}
		if _, err := st.CompleteActivity(curriculum.SkillsCertificate); err != nil {
			return nil, err
		}
		return SkillsCertificate{Skills: append([]string(nil), st.Games.Skills...)}, nil
	})
}
