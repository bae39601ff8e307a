package curriculum

import (
	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// Quiz is a single multiple-choice comprehension check.
type Quiz struct {
	ID               string           `json:"id"`
	Module           shared.ModuleKey `json:"module"`
	Question         string           `json:"question"`
	Options          []string         `json:"options"`
	Answer           string           `json:"-"`
	CorrectMessage   string           `json:"-"`
	IncorrectMessage string           `json:"-"`
	Coins            int              `json:"coins"`
	Reason           string           `json:"-"`
	Progress         int              `json:"-"`

	// RequiresCertificate limits the quiz to students who finished the
	// business wizard.
	RequiresCertificate bool `json:"requires_certificate,omitempty"`
}

// Activity returns the rewardable activity guarded by this quiz's ID.
func (q Quiz) Activity() Activity {
	return Activity{Key: q.ID, Module: q.Module, Coins: q.Coins, Reason: q.Reason, Progress: q.Progress}
}

// Check reports whether answer is correct and returns the feedback message.
func (q Quiz) Check(answer string) (bool, string) {
	if answer == q.Answer {
		return true, q.CorrectMessage
	}
	return false, q.IncorrectMessage
}

// HasOption reports whether answer is one of the offered options.
func (q Quiz) HasOption(answer string) bool {
	for _, o := range q.Options {
		if o == answer {
			return true
		}
	}
	return false
}

// Quizzes lists every comprehension check in course order.
var Quizzes = []Quiz{
	{
		ID:               "session1_q1",
		Module:           shared.ModuleFamilies,
		Question:         "What is one way families help the economy?",
		Options:          []string{"They play games together", "They work at jobs and earn money", "They ride bikes", "They sleep at night"},
		Answer:           "They work at jobs and earn money",
		CorrectMessage:   "Correct! When family members work at jobs, they earn money that they can use to buy things they need and want.",
		IncorrectMessage: "Not quite. Think about how families get money to buy things.",
		Coins:            5,
		Reason:           "Answering correctly about families and the economy",
		Progress:         25,
	},
	{
		ID:               "session1_q2",
		Module:           shared.ModuleFamilies,
		Question:         "How do families in Grimes help the community?",
		Options:          []string{"By sleeping all day", "By moving to a different city", "By shopping at local stores and working at local jobs", "By never leaving their homes"},
		Answer:           "By shopping at local stores and working at local jobs",
		CorrectMessage:   "Correct! When families shop and work locally, they help the Grimes community thrive.",
		IncorrectMessage: "Not quite. Think about what makes a community stronger.",
		Coins:            5,
		Reason:           "Answering correctly about families in the community",
		Progress:         25,
	},
	{
		ID:               "session2_q1",
		Module:           shared.ModuleNeedsWants,
		Question:         "Why do families need to earn money?",
		Options:          []string{"To buy toys only", "To buy things they need and want", "To make other families sad", "Money isn't important"},
		Answer:           "To buy things they need and want",
		CorrectMessage:   "Correct! Families earn money so they can buy the things they need to live and some things they want.",
		IncorrectMessage: "That's not quite right. Think about what families use money for.",
		Coins:            5,
		Reason:           "Understanding why families need money",
		Progress:         20,
	},
	{
		ID:               "session2_q2",
		Module:           shared.ModuleNeedsWants,
		Question:         "Which of these is a need?",
		Options:          []string{"Video game", "Toy robot", "Water", "Candy"},
		Answer:           "Water",
		CorrectMessage:   "Correct! Water is something people need to live.",
		IncorrectMessage: "That's not quite right. Which one do people need to live?",
		Coins:            5,
		Reason:           "Identifying needs correctly",
		Progress:         10,
	},
	{
		ID:               "session3_q1",
		Module:           shared.ModuleBusinesses,
		Question:         "What is an entrepreneur?",
		Options:          []string{"Someone who rides a bus", "Someone who starts a business", "Someone who reads books", "Someone who plays sports"},
		Answer:           "Someone who starts a business",
		CorrectMessage:   "Correct! An entrepreneur is someone who starts a business.",
		IncorrectMessage: "That's not quite right. Think about the people who start businesses.",
		Coins:            5,
		Reason:           "Understanding what an entrepreneur is",
		Progress:         20,
	},
	{
		ID:               "session3_q2",
		Module:           shared.ModuleBusinesses,
		Question:         "Which of these is an example of a service?",
		Options:          []string{"A toy", "A sandwich", "A shoe", "A haircut"},
		Answer:           "A haircut",
		CorrectMessage:   "Correct! A haircut is a service because someone is doing work for you.",
		IncorrectMessage: "That's not quite right. A service is work someone does for you.",
		Coins:            5,
		Reason:           "Identifying services correctly",
		Progress:         20,
	},
	{
		ID:               "session4_q1",
		Module:           shared.ModuleJobs,
		Question:         "Why are jobs important?",
		Options:          []string{"They help people earn money and provide goods and services", "They are only for adults", "They are only important in big cities", "Jobs are not important"},
		Answer:           "They help people earn money and provide goods and services",
		CorrectMessage:   "Correct! Jobs help people earn money for their families and provide important goods and services for the community.",
		IncorrectMessage: "That's not quite right. Think about how jobs help families and communities.",
		Coins:            5,
		Reason:           "Understanding why jobs are important",
		Progress:         15,
	},
	{
		ID:               "session4_q2",
		Module:           shared.ModuleJobs,
		Question:         "What are skills?",
		Options:          []string{"Things you have to buy", "Things you're good at", "Only things adults can do", "Things that aren't important"},
		Answer:           "Things you're good at",
		CorrectMessage:   "Correct! Skills are things you're good at, and everyone has different skills.",
		IncorrectMessage: "That's not quite right. Think about what makes you special and helpful.",
		Coins:            5,
		Reason:           "Understanding what skills are",
		Progress:         15,
	},
	{
		ID:                  "session5_q1",
		Module:              shared.ModuleCreate,
		Question:            "What is an entrepreneur?",
		Options:             []string{"Someone who plays sports", "Someone who starts a business", "Someone who teaches school", "Someone who drives a bus"},
		Answer:              "Someone who starts a business",
		CorrectMessage:      "Correct! An entrepreneur is someone who starts and runs their own business.",
		IncorrectMessage:    "That's not quite right. Think about what we just did in this session!",
		Coins:               5,
		Reason:              "Understanding entrepreneurs",
		Progress:            10,
		RequiresCertificate: true,
	},
	{
		ID:                  "session5_q2",
		Module:              shared.ModuleCreate,
		Question:            "Why is it important to think about what you like to do when creating a business?",
		Options:             []string{"It doesn't matter what you like", "So you can copy someone else's business", "So your business will be fun for you and use your skills", "So you can make a million dollars"},
		Answer:              "So your business will be fun for you and use your skills",
		CorrectMessage:      "Correct! When you build a business around things you enjoy and are good at, you'll have more fun and do a better job!",
		IncorrectMessage:    "That's not quite right. Think about why we started with your interests!",
		Coins:               5,
		Reason:              "Understanding business planning",
		Progress:            10,
		RequiresCertificate: true,
	},
}

// FindQuiz looks up a quiz by ID.
func FindQuiz(id string) (Quiz, error) {
	for _, q := range Quizzes {
		if q.ID == id {
			return q, nil
		}
	}
	return Quiz{}, shared.NewDomainError("curriculum", "FindQuiz", shared.ErrInvalidInput, "unknown quiz")
}

// QuizzesFor returns the quizzes of one module.
func QuizzesFor(module shared.ModuleKey) []Quiz {
	var out []Quiz
	for _, q := range Quizzes {
		if q.Module == module {
			out = append(out, q)
		}
	}
	return out
}
