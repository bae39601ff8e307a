package curriculum

import (
	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// JobCategory groups community jobs for the explorer.
type JobCategory struct {
	Name string   `json:"name"`
	Jobs []string `json:"jobs"`
}

var JobCategories = []JobCategory{
	{Name: "Healthcare", Jobs: []string{"Doctor", "Nurse", "Dentist", "Pharmacist", "Veterinarian"}},
	{Name: "Education", Jobs: []string{"Teacher", "Principal", "Librarian", "School Counselor", "Coach"}},
	{Name: "Business", Jobs: []string{"Store Owner", "Manager", "Bank Teller", "Accountant", "Salesperson"}},
	{Name: "Food Service", Jobs: []string{"Chef", "Baker", "Server", "Grocery Store Worker", "Farmer"}},
	{Name: "Public Service", Jobs: []string{"Police Officer", "Firefighter", "Mail Carrier", "Mayor", "Park Ranger"}},
	{Name: "Building & Fixing", Jobs: []string{"Construction Worker", "Electrician", "Plumber", "Car Mechanic", "Carpenter"}},
}

const defaultJobIcon = "💼"

var jobIcons = map[string]string{
	"Doctor": "👨‍⚕️", "Nurse": "👩‍⚕️", "Dentist": "🦷", "Pharmacist": "💊", "Veterinarian": "🐶",
	"Teacher": "👨‍🏫", "Principal": "👩‍💼", "Librarian": "📚", "School Counselor": "🧠", "Coach": "🏆",
	"Store Owner": "🏪", "Manager": "📋", "Bank Teller": "🏦", "Accountant": "🧮", "Salesperson": "🛍️",
	"Chef": "👨‍🍳", "Baker": "🍞", "Server": "🍽️", "Grocery Store Worker": "🛒", "Farmer": "🚜",
	"Police Officer": "👮‍♀️", "Firefighter": "👨‍🚒", "Mail Carrier": "📬", "Mayor": "🏛️", "Park Ranger": "🌲",
	"Construction Worker": "👷‍♂️", "Electrician": "⚡", "Plumber": "🔧", "Car Mechanic": "🔧", "Carpenter": "🪚",
}

// JobIcon returns the icon for job, or a briefcase for unknown jobs.
func JobIcon(job string) string {
	if icon, ok := jobIcons[job]; ok {
		return icon
	}
	return defaultJobIcon
}

// JobDetail is the explorer card for a job.
type JobDetail struct {
	WhatTheyDo    string   `json:"what_they_do"`
	SkillsNeeded  []string `json:"skills_needed"`
	ToolsUsed     []string `json:"tools_used"`
	WhereTheyWork []string `json:"where_they_work"`
	HowTheyHelp   string   `json:"how_they_help"`
	Icon          string   `json:"icon"`
}

var JobDetails = map[string]JobDetail{
	"Teacher": {
		WhatTheyDo:    "Teachers help students learn important subjects like reading, math, science, and more. They plan lessons, grade assignments, and help students understand new things.",
		SkillsNeeded:  []string{"Patience", "Communication", "Knowledge", "Organization", "Creativity"},
		ToolsUsed:     []string{"Books", "Computers", "Whiteboards", "Art Supplies", "Educational Games"},
		WhereTheyWork: []string{"Schools", "Classrooms", "Sometimes outdoors for activities"},
		HowTheyHelp:   "Teachers help children learn the skills they need for their future. They inspire students and help them discover their talents and interests.",
		Icon:          "👨‍🏫",
	},
	"Doctor": {
		WhatTheyDo:    "Doctors help people stay healthy and treat them when they're sick or injured. They examine patients, diagnose problems, and prescribe medicine.",
		SkillsNeeded:  []string{"Medical Knowledge", "Problem Solving", "Communication", "Attention to Detail", "Compassion"},
		ToolsUsed:     []string{"Stethoscope", "Medical Equipment", "Computers", "Medicine", "X-ray Machines"},
		WhereTheyWork: []string{"Hospitals", "Clinics", "Doctor's Offices"},
		HowTheyHelp:   "Doctors keep people healthy and save lives. They help people feel better when they're sick and teach them how to stay healthy.",
		Icon:          "👨‍⚕️",
	},
	"Firefighter": {
		WhatTheyDo:    "Firefighters protect people, animals, and buildings from fires. They also help during emergencies like car accidents or natural disasters.",
		SkillsNeeded:  []string{"Bravery", "Physical Strength", "Quick Thinking", "Teamwork", "First Aid Knowledge"},
		ToolsUsed:     []string{"Fire Trucks", "Water Hoses", "Ladders", "Protective Gear", "Rescue Equipment"},
		WhereTheyWork: []string{"Fire Stations", "Emergency Scenes", "In the community for education"},
		HowTheyHelp:   "Firefighters save lives and protect property. They also teach people about fire safety to prevent fires from happening.",
		Icon:          "👨‍🚒",
	},
	"Chef": {
		WhatTheyDo:    "Chefs create and cook delicious meals for people. They plan menus, prepare ingredients, cook food, and make sure everything tastes good.",
		SkillsNeeded:  []string{"Cooking Knowledge", "Creativity", "Time Management", "Cleanliness", "Tasting Ability"},
		ToolsUsed:     []string{"Knives", "Pots & Pans", "Ovens", "Recipe Books", "Measuring Tools"},
		WhereTheyWork: []string{"Restaurants", "Hotels", "Schools", "Hospitals", "Catering Companies"},
		HowTheyHelp:   "Chefs feed people and make special moments more enjoyable with delicious food. They create recipes and introduce people to new flavors.",
		Icon:          "👨‍🍳",
	},
	"Police Officer": {
		WhatTheyDo:    "Police officers keep people safe and enforce laws. They patrol areas, respond to emergencies, investigate crimes, and help people in trouble.",
		SkillsNeeded:  []string{"Bravery", "Communication", "Problem Solving", "Fairness", "Physical Fitness"},
		ToolsUsed:     []string{"Police Car", "Radio", "Computer", "Uniform", "Safety Equipment"},
		WhereTheyWork: []string{"Police Stations", "In patrol cars", "Throughout the community"},
		HowTheyHelp:   "Police officers protect people and make sure everyone follows the rules. They help when there are emergencies and teach people about safety.",
		Icon:          "👮‍♀️",
	},
}

// CareerOption is one answer to a career-quiz question and the jobs it
// points to.
type CareerOption struct {
	Label string   `json:"label"`
	Jobs  []string `json:"-"`
}

// CareerQuestion is one of the three "what do you like" questions.
type CareerQuestion struct {
	Question string         `json:"question"`
	Options  []CareerOption `json:"options"`
}

var CareerQuestions = []CareerQuestion{
	{
		Question: "What do you like to do most?",
		Options: []CareerOption{
			{Label: "Help people", Jobs: []string{"Doctor", "Nurse", "Teacher", "Police Officer"}},
			{Label: "Make or build things", Jobs: []string{"Construction Worker", "Engineer", "Carpenter", "Chef"}},
			{Label: "Solve problems", Jobs: []string{"Scientist", "Detective", "Computer Programmer", "Engineer"}},
			{Label: "Create art or stories", Jobs: []string{"Artist", "Writer", "Musician", "Graphic Designer"}},
			{Label: "Work with animals", Jobs: []string{"Veterinarian", "Zookeeper", "Marine Biologist", "Pet Groomer"}},
		},
	},
	{
		Question: "Where would you like to work?",
		Options: []CareerOption{
			{Label: "Inside a building", Jobs: []string{"Teacher", "Office Worker", "Librarian", "Chef"}},
			{Label: "Outside in nature", Jobs: []string{"Park Ranger", "Landscaper", "Farmer", "Environmental Scientist"}},
			{Label: "In different places each day", Jobs: []string{"Delivery Driver", "Travel Writer", "Construction Worker", "Sales Representative"}},
			{Label: "At a school", Jobs: []string{"Teacher", "Principal", "School Counselor", "Coach"}},
			{Label: "In a restaurant or store", Jobs: []string{"Chef", "Server", "Store Manager", "Baker"}},
		},
	},
	{
		Question: "What school subject do you like best?",
		Options: []CareerOption{
			{Label: "Math", Jobs: []string{"Accountant", "Engineer", "Banker", "Mathematician"}},
			{Label: "Science", Jobs: []string{"Scientist", "Doctor", "Veterinarian", "Chemist"}},
			{Label: "Reading", Jobs: []string{"Writer", "Lawyer", "Librarian", "Teacher"}},
			{Label: "Art", Jobs: []string{"Artist", "Designer", "Architect", "Photographer"}},
			{Label: "Physical Education", Jobs: []string{"Athlete", "Fitness Trainer", "Coach", "Physical Therapist"}},
		},
	},
}

// RecommendationCount is how many jobs the career quiz suggests.
const RecommendationCount = 3

// Recommendation is a suggested job with its icon.
type Recommendation struct {
	Job  string `json:"job"`
	Icon string `json:"icon"`
}

// RecommendCareers tallies the jobs behind each answer and returns the three
// most frequent. Ties keep the order in which jobs were first seen.
func RecommendCareers(answers []string) ([]Recommendation, error) {
	if len(answers) != len(CareerQuestions) {
		return nil, shared.Incomplete("curriculum", "RecommendCareers", "Answer all three questions first!")
	}

	counts := make(map[string]int)
	var order []string
	for i, q := range CareerQuestions {
		opt, ok := findCareerOption(q, answers[i])
		if !ok {
			return nil, shared.NewDomainError("curriculum", "RecommendCareers", shared.ErrInvalidInput, "unknown answer")
		}
		for _, job := range opt.Jobs {
			if counts[job] == 0 {
				order = append(order, job)
			}
			counts[job]++
		}
	}

	// Stable selection: a later job only overtakes on a strictly higher count.
	top := make([]string, 0, RecommendationCount)
	used := make(map[string]bool)
	for len(top) < RecommendationCount && len(top) < len(order) {
		best := ""
		for _, job := range order {
			if used[job] {
				continue
			}
			if best == "" || counts[job] > counts[best] {
				best = job
			}
		}
		used[best] = true
		top = append(top, best)
	}

	out := make([]Recommendation, len(top))
	for i, job := range top {
		out[i] = Recommendation{Job: job, Icon: JobIcon(job)}
	}
	return out, nil
}

func findCareerOption(q CareerQuestion, label string) (CareerOption, bool) {
	for _, o := range q.Options {
		if o.Label == label {
			return o, true
		}
	}
	return CareerOption{}, false
}

// SkillCategory groups things a first grader may already be good at.
type SkillCategory struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

var SkillCategories = []SkillCategory{
	{Name: "Helping Skills", Skills: []string{"Being kind", "Listening", "Sharing", "Helping friends", "Taking care of pets"}},
	{Name: "Creative Skills", Skills: []string{"Drawing", "Singing", "Dancing", "Building with blocks", "Making up stories"}},
	{Name: "Learning Skills", Skills: []string{"Reading", "Counting", "Remembering things", "Asking questions", "Learning new games"}},
	{Name: "Physical Skills", Skills: []string{"Running", "Jumping", "Throwing", "Catching", "Balancing"}},
	{Name: "Social Skills", Skills: []string{"Making friends", "Taking turns", "Working in a group", "Following rules", "Leading activities"}},
}

// NormalizeSkills drops duplicates and rejects unknown skills. Order follows
// the input.
func NormalizeSkills(skills []string) ([]string, error) {
	known := make(map[string]bool)
	for _, c := range SkillCategories {
		for _, s := range c.Skills {
			known[s] = true
		}
	}

	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if !known[s] {
			return nil, shared.NewDomainError("curriculum", "NormalizeSkills", shared.ErrInvalidInput, "unknown skill")
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}
