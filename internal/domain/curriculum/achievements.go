package curriculum

// AchievementRule awards an achievement once every required activity is in
// the ledger. Rules are checked after each new completion.
type AchievementRule struct {
	AchievementTemplate
	Requires []string
}

// Score-based achievements (Smart Shopper, Business Basics Pro) are not rules:
// they depend on the round's score, see SortGame.Mastery.
var AchievementRules = []AchievementRule{
	{
		AchievementTemplate: AchievementTemplate{
			Icon: "👪", Title: "Family Expert",
			Description: "You understand how families work together and help the community!",
		},
		Requires: []string{"session1_q1", "session1_q2"},
	},
	{
		AchievementTemplate: AchievementTemplate{
			Icon: "💵", Title: "Money Maven",
			Description: "You understand needs, wants, and why families need money!",
		},
		Requires: []string{"session2_q1", "session2_q2", KeyNeedsWantsGame},
	},
	{
		AchievementTemplate: AchievementTemplate{
			Icon: "🏪", Title: "Business Expert",
			Description: "You understand businesses, goods, services, and entrepreneurs!",
		},
		Requires: []string{"session3_q1", "session3_q2", KeyGoodsServices},
	},
	{
		AchievementTemplate: AchievementTemplate{
			Icon: "🔮", Title: "Future Planner",
			Description: "You're exploring careers that match your interests!",
		},
		Requires: []string{KeyCareerQuiz},
	},
	{
		AchievementTemplate: AchievementTemplate{
			Icon: "👩‍🏫", Title: "Job Explorer",
			Description: "You understand jobs, skills, and career options!",
		},
		Requires: []string{"session4_q1", "session4_q2", KeyCareerQuiz},
	},
	{
		AchievementTemplate: AchievementTemplate{
			Icon: "🚀", Title: "Young Entrepreneur",
			Description: "You created your very own business!",
		},
		Requires: []string{KeyIdeasGenerated, KeyBusinessNamed, KeyAdDesigned},
	},
	{
		AchievementTemplate: AchievementTemplate{
			Icon: "🌟", Title: "Financial Literacy Master",
			Description: "You've completed all activities and learned how to create your own business!",
		},
		Requires: []string{KeyIdeasGenerated, KeyBusinessNamed, KeyAdDesigned, "session5_q1", "session5_q2"},
	},
}

// Satisfied reports whether isComplete holds for every required key.
func (r AchievementRule) Satisfied(isComplete func(string) bool) bool {
	for _, k := range r.Requires {
		if !isComplete(k) {
			return false
		}
	}
	return true
}
