// Package curriculum holds the static lesson tables of the five sessions:
// quizzes, sorting games, the shop, the business directory, careers, and the
// rules that turn completed activities into achievements.
//
// Everything here is read-only data plus pure scoring functions. Session
// state lives in package session.
package curriculum

import (
	"fmt"

	"github.com/gosimple/slug"

	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// Activity is one rewardable action: the ledger key that guards it, the
// coins it pays, and the progress it adds to its module.
type Activity struct {
	Key      string           `json:"key"`
	Module   shared.ModuleKey `json:"module"`
	Coins    int              `json:"coins"`
	Reason   string           `json:"reason"`
	Progress int              `json:"progress"`
}

// Fixed activity keys.
const (
	KeyFamilyMembers    = "family_members_input"
	KeyFamilyBudget     = "family_budget_activity"
	KeyNeedsWantsGame   = "needs_wants_game"
	KeyShopping         = "shopping_activity"
	KeyExploredBusiness = "explored_business"
	KeyGoodsServices    = "goods_services_game"
	KeyCareerQuiz       = "career_quiz"
	KeySkillsCert       = "skills_certificate"
	KeyIdeasGenerated   = "business_ideas_generated"
	KeyBusinessNamed    = "business_named"
	KeyAdDesigned       = "business_ad_designed"
)

var (
	FamilyMembers = Activity{
		Key: KeyFamilyMembers, Module: shared.ModuleFamilies,
		Coins: 2, Reason: "Sharing about your family", Progress: 10,
	}
	FamilyBudget = Activity{
		Key: KeyFamilyBudget, Module: shared.ModuleFamilies,
		Coins: 5, Reason: "Creating your family budget", Progress: 30,
	}
	ExploredBusiness = Activity{
		Key: KeyExploredBusiness, Module: shared.ModuleBusinesses,
		Coins: 2, Reason: "Learning about a local business", Progress: 10,
	}
	CareerQuiz = Activity{
		Key: KeyCareerQuiz, Module: shared.ModuleJobs,
		Coins: 10, Reason: "Discovering jobs that match your interests", Progress: 40,
	}
	SkillsCertificate = Activity{
		Key: KeySkillsCert, Module: shared.ModuleJobs,
		Coins: 10, Reason: "Creating your skills certificate", Progress: 30,
	}
	IdeasGenerated = Activity{
		Key: KeyIdeasGenerated, Module: shared.ModuleCreate,
		Coins: 5, Reason: "Generating awesome business ideas", Progress: 20,
	}
	BusinessNamed = Activity{
		Key: KeyBusinessNamed, Module: shared.ModuleCreate,
		Coins: 10, Reason: "Creating a perfect business name", Progress: 20,
	}
	AdDesigned = Activity{
		Key: KeyAdDesigned, Module: shared.ModuleCreate,
		Coins: 10, Reason: "Designing your business advertisement", Progress: 20,
	}
)

// EntrepreneurActivity is the spotlight activity for entrepreneur i.
func EntrepreneurActivity(i int) (Activity, error) {
	if i < 0 || i >= len(Entrepreneurs) {
		return Activity{}, shared.NewDomainError("curriculum", "EntrepreneurActivity", shared.ErrInvalidInput, "unknown entrepreneur")
	}
	e := Entrepreneurs[i]
	return Activity{
		Key:      fmt.Sprintf("entrepreneur_%d", i),
		Module:   shared.ModuleBusinesses,
		Coins:    3,
		Reason:   fmt.Sprintf("Learning about %s's business journey", e.Name),
		Progress: 5,
	}, nil
}

// ExploredJobActivity is the activity for reading a job's detail card.
// The key uses a URL slug of the job title, e.g. "explored_job_police-officer".
func ExploredJobActivity(job string) (Activity, error) {
	if _, ok := JobDetails[job]; !ok {
		return Activity{}, shared.NewDomainError("curriculum", "ExploredJobActivity", shared.ErrInvalidInput, "unknown job")
	}
	return Activity{
		Key:      "explored_job_" + slug.Make(job),
		Module:   shared.ModuleJobs,
		Coins:    5,
		Reason:   fmt.Sprintf("Learning about what %ss do", job),
		Progress: 15,
	}, nil
}

// ModuleCompletion lists, per module, the activities whose completion sets
// the module straight to 100%.
var ModuleCompletion = map[shared.ModuleKey][]string{
	shared.ModuleFamilies: {KeyFamilyMembers, KeyFamilyBudget, "session1_q1", "session1_q2"},
}
