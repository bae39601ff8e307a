package curriculum

import "github.com/grimes-money/money-adventure/internal/domain/shared"

// Module is a lesson unit as shown on the home page.
type Module struct {
	Key   shared.ModuleKey `json:"key"`
	Title string           `json:"title"`
	Icon  string           `json:"icon"`
}

var Modules = []Module{
	{Key: shared.ModuleFamilies, Title: "All Kinds of Families", Icon: "👪"},
	{Key: shared.ModuleNeedsWants, Title: "Money for Needs and Wants", Icon: "🛒"},
	{Key: shared.ModuleBusinesses, Title: "Businesses Around Grimes", Icon: "🏪"},
	{Key: shared.ModuleJobs, Title: "Jobs in Our Community", Icon: "👩‍🏫"},
	{Key: shared.ModuleCreate, Title: "Create Your Own Business", Icon: "🚀"},
}
