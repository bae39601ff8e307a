package business

import (
	"hash/fnv"

	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// Cities a student's business can be located in.
var Cities = []string{"Grimes", "Dallas Center"}

// Interests offered in the profile step.
var Interests = []string{
	"Sports and games",
	"Reading books",
	"Drawing and art",
	"Music and dancing",
	"Animals and pets",
	"Helping others",
	"Building things",
	"Math and numbers",
	"Computers and technology",
	"Playing outside",
	"Making new friends",
	"Cooking and food",
}

type ideaKey struct {
	interest string
	city     string
}

// ideaTable maps (interest, city) to ideas per timeframe. Interests without
// an entry contribute nothing.
var ideaTable = map[ideaKey]map[shared.Timeframe][]string{
	{"Sports and games", "Grimes"}: {
		shared.TimeframeNow:    {"Sports Equipment Organization Service", "Neighborhood Game Organizer", "Game Rules Explainer", "Sports Card Trading Helper", "Backyard Games Setup"},
		shared.TimeframeFuture: {"Sports Coach or Trainer", "Recreation Center Manager", "Sports Equipment Designer", "Professional Athlete", "Game Developer"},
	},
	{"Sports and games", "Dallas Center"}: {
		shared.TimeframeNow:    {"Farm Field Games Organizer", "Outdoor Games Helper", "Sports Equipment Cleaner", "Score Keeper", "Game Setup Helper"},
		shared.TimeframeFuture: {"Rural Sports League Manager", "Farm-based Recreation Coordinator", "Sports Equipment Engineer", "Sports Broadcaster", "Team Manager"},
	},
	{"Reading books", "Grimes"}: {
		shared.TimeframeNow:    {"Book Organization Helper", "Story Time Reader", "Book Recommender", "Reading Buddy Service", "Bookmark Creator"},
		shared.TimeframeFuture: {"Librarian", "Author or Writer", "Book Editor", "Reading Teacher", "Book Store Owner"},
	},
	{"Reading books", "Dallas Center"}: {
		shared.TimeframeNow:    {"Farm Story Reader", "Book Delivery Helper", "Reading Corner Organizer", "Book Swap Organizer", "Library Helper"},
		shared.TimeframeFuture: {"Rural Library Manager", "Country Book Store Owner", "Farm Story Writer", "Book Publisher", "Literature Professor"},
	},
	{"Drawing and art", "Grimes"}: {
		shared.TimeframeNow:    {"Sidewalk Chalk Artist", "Window Decorator", "Birthday Card Creator", "Art Supply Organizer", "Coloring Partner"},
		shared.TimeframeFuture: {"Professional Artist", "Graphic Designer", "Art Teacher", "Museum Curator", "Animator"},
	},
	{"Drawing and art", "Dallas Center"}: {
		shared.TimeframeNow:    {"Nature Art Collector", "Farm Scene Sketcher", "Countryside Photographer Helper", "Barn Art Decorator", "Country Craft Maker"},
		shared.TimeframeFuture: {"Rural Landscape Artist", "Farm Photographer", "Agricultural Illustrator", "Country Crafts Business Owner", "Art Conservator"},
	},
	{"Animals and pets", "Grimes"}: {
		shared.TimeframeNow:    {"Pet Walking Helper", "Pet Sitting Helper", "Homemade Pet Toy Maker", "Pet Photo Helper", "Pet Treat Baker"},
		shared.TimeframeFuture: {"Veterinarian", "Pet Store Owner", "Animal Trainer", "Wildlife Conservationist", "Animal Nutritionist"},
	},
	{"Animals and pets", "Dallas Center"}: {
		shared.TimeframeNow:    {"Farm Animal Helper", "Barn Cat Caretaker", "Egg Collector", "Animal Brush Assistant", "Pet Food Helper"},
		shared.TimeframeFuture: {"Farm Veterinarian", "Animal Scientist", "Ranch Manager", "Livestock Specialist", "Agricultural Researcher"},
	},
}

// FallbackIdeas are sampled when the table yields nothing for a timeframe.
var FallbackIdeas = map[shared.Timeframe][]string{
	shared.TimeframeNow:    {"Lemonade Stand", "Pet Helper Service", "Art Stand", "Helpful Neighbor Service", "Reading Buddy Service", "Craft Creator"},
	shared.TimeframeFuture: {"Store Owner", "Veterinarian", "Artist", "Teacher", "Chef", "Computer Programmer"},
}

// LookupIdeas returns the table entry for one interest, city and timeframe.
func LookupIdeas(interest, city string, tf shared.Timeframe) []string {
	return ideaTable[ideaKey{interest, city}][tf]
}

var ideaIcons = map[shared.Timeframe][]string{
	shared.TimeframeNow:    {"🚀", "🎯", "🎨", "🐾", "📚", "🎵", "🏆", "🌟", "🔧", "🎁"},
	shared.TimeframeFuture: {"🚀", "🔬", "🏥", "🎓", "🏛️", "💻", "🔧", "🛠️", "📱", "🌍"},
}

// IdeaIcon picks a stable icon for an idea card.
func IdeaIcon(idea string, tf shared.Timeframe) string {
	icons, ok := ideaIcons[tf]
	if !ok {
		icons = ideaIcons[shared.TimeframeNow]
	}
	h := fnv.New32a()
	h.Write([]byte(idea))
	return icons[h.Sum32()%uint32(len(icons))]
}

// Color is one of the ten advertisement colors.
type Color struct {
	Name  string `json:"name"`
	Hex   string `json:"hex"`
	Emoji string `json:"emoji"`
}

var Colors = []Color{
	{Name: "Red", Hex: "#FF5252", Emoji: "🔴"},
	{Name: "Blue", Hex: "#448AFF", Emoji: "🔵"},
	{Name: "Green", Hex: "#4CAF50", Emoji: "🟢"},
	{Name: "Yellow", Hex: "#FFEB3B", Emoji: "🟡"},
	{Name: "Purple", Hex: "#9C27B0", Emoji: "🟣"},
	{Name: "Pink", Hex: "#FF80AB", Emoji: "💗"},
	{Name: "Orange", Hex: "#FF9800", Emoji: "🟠"},
	{Name: "Teal", Hex: "#009688", Emoji: "🌊"},
	{Name: "Light Blue", Hex: "#03A9F4", Emoji: "💧"},
	{Name: "Lime", Hex: "#CDDC39", Emoji: "🍏"},
}

// DefaultColor is preselected in both color pickers.
const DefaultColor = "Blue"

// FindColor matches a color by name or hex code.
func FindColor(v string) (Color, bool) {
	for _, c := range Colors {
		if c.Name == v || c.Hex == v {
			return c, true
		}
	}
	return Color{}, false
}

// Symbol is an emoji a student can put on their advertisement.
type Symbol struct {
	Emoji   string `json:"emoji"`
	Label   string `json:"label"`
	Meaning string `json:"meaning"`
}

var Symbols = []Symbol{
	{Emoji: "⭐", Label: "Star", Meaning: "for special quality"},
	{Emoji: "🌟", Label: "Sparkle", Meaning: "for something amazing"},
	{Emoji: "🔆", Label: "Bright", Meaning: "for happiness"},
	{Emoji: "🎯", Label: "Target", Meaning: "for goals"},
	{Emoji: "🏆", Label: "Trophy", Meaning: "for being the best"},
	{Emoji: "👍", Label: "Thumbs Up", Meaning: "for good service"},
	{Emoji: "🌈", Label: "Rainbow", Meaning: "for variety"},
	{Emoji: "🌱", Label: "Seedling", Meaning: "for growth"},
	{Emoji: "🛠️", Label: "Tools", Meaning: "for building/fixing"},
	{Emoji: "🤝", Label: "Handshake", Meaning: "for helping"},
	{Emoji: "🎨", Label: "Art", Meaning: "for creativity"},
	{Emoji: "📚", Label: "Books", Meaning: "for knowledge"},
	{Emoji: "🧩", Label: "Puzzle", Meaning: "for problem solving"},
	{Emoji: "🔑", Label: "Key", Meaning: "for solutions"},
	{Emoji: "🎁", Label: "Gift", Meaning: "for special offers"},
}

// FindSymbol matches a symbol by emoji or label.
func FindSymbol(v string) (Symbol, bool) {
	for _, s := range Symbols {
		if s.Emoji == v || s.Label == v {
			return s, true
		}
	}
	return Symbol{}, false
}

func isCity(city string) bool {
	for _, c := range Cities {
		if c == city {
			return true
		}
	}
	return false
}

func isInterest(interest string) bool {
	for _, i := range Interests {
		if i == interest {
			return true
		}
	}
	return false
}
