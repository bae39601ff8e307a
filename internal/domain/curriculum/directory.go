package curriculum

// Business is a real business in or near Grimes.
type Business struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Icon        string `json:"icon"`
}

var Directory = []Business{
	{
		Name: "Fareway", Type: "Grocery Store", Category: "Goods",
		Description: "A grocery store that sells food, drinks, and household items to families in Grimes.",
		Location:    "351 Gateway Dr, Grimes, IA", Icon: "🛒",
	},
	{
		Name: "Awakening Coffee", Type: "Coffee Shop", Category: "Goods & Services",
		Description: "A coffee shop that serves coffee drinks, tea, and pastries. People can relax and meet friends there.",
		Location:    "310 SE Main St, Grimes, IA", Icon: "☕",
	},
	{
		Name: "Mustang Sports Cards", Type: "Sports Cards & Collectibles", Category: "Goods",
		Description: "A store that sells sports cards, collectibles, and memorabilia to sports fans of all ages.",
		Location:    "1461 SE Meadowlark Cir #1, Grimes, IA", Icon: "🏀",
	},
	{
		Name: "Al's Dairy Freeze", Type: "Ice Cream Shop", Category: "Goods",
		Description: "An ice cream shop that serves ice cream cones, sundaes, and other frozen treats to the community.",
		Location:    "500 S Gear St, West Burlington, IA", Icon: "🍦",
	},
	{
		Name: "The Grimes Public Library", Type: "Library", Category: "Services",
		Description: "A place where people can borrow books, use computers, and join fun activities for children and adults.",
		Location:    "Grimes Public Library, Grimes, IA", Icon: "📚",
	},
	{
		Name: "Dallas Center-Grimes Schools", Type: "School", Category: "Services",
		Description: "Schools where children learn important subjects, make friends, and prepare for their future.",
		Location:    "2405 W 1st St, Grimes, IA", Icon: "🏫",
	},
	{
		Name: "Edward Jones - Financial Advisor", Type: "Financial Services", Category: "Services",
		Description: "A business that helps people save money, plan for retirement, and manage their finances.",
		Location:    "102 SE Jacob St, Grimes, IA", Icon: "💰",
	},
	{
		Name: "Waterfront Seafood Market", Type: "Seafood Market & Restaurant", Category: "Goods & Services",
		Description: "A place where people can buy fresh seafood or eat seafood dishes in the restaurant.",
		Location:    "2414 SE Grimes Blvd, Grimes, IA", Icon: "🐟",
	},
}

// Entrepreneur is a spotlight story about a local business owner.
type Entrepreneur struct {
	Name     string `json:"name"`
	Business string `json:"business"`
	Story    string `json:"story"`
}

var Entrepreneurs = []Entrepreneur{
	{
		Name:     "Ms. Johnson",
		Business: "Awakening Coffee",
		Story:    "Ms. Johnson loved making coffee for her friends. She started Awakening Coffee so everyone in Grimes could enjoy her delicious drinks!",
	},
	{
		Name:     "Mr. Rodriguez",
		Business: "Mustang Sports Cards",
		Story:    "Mr. Rodriguez collected sports cards as a kid. Now he runs a shop where people can find rare cards and share their love of sports!",
	},
}
