package content

import (
	"context"
	"hash/fnv"
	"strings"
)

type eventKind string

const (
	kindBirthday  eventKind = "birthday"
	kindWedding   eventKind = "wedding"
	kindCorporate eventKind = "corporate"
	kindCasual    eventKind = "casual"
)

var titleTemplates = map[eventKind][]string{
	kindBirthday: {
		"{theme} Birthday Celebration",
		"{theme} Birthday Bash",
		"A {theme} Birthday Experience",
		"{theme} Birthday Party",
	},
	kindWedding: {
		"{theme} Wedding Celebration",
		"{theme} Wedding Ceremony",
		"A {theme} Wedding",
	},
	kindCorporate: {
		"{theme} Corporate Event",
		"{theme} Business Gathering",
		"{theme} Team Event",
	},
	kindCasual: {
		"{theme} Get-Together",
		"{theme} Social Event",
		"{theme} Gathering",
		"A {theme} Evening",
	},
}

var descriptionTemplates = map[eventKind]string{
	kindBirthday:  "Join us for an unforgettable {theme} birthday celebration! We're bringing together friends and family for a special day filled with joy, laughter, and memories. This event promises to be a unique experience that reflects the personality and style of our guest of honor.",
	kindWedding:   "You're invited to celebrate the union of two hearts in a {theme} wedding ceremony. Join us for this special day as we embark on a new journey together, surrounded by love, joy, and the people who matter most.",
	kindCorporate: "Join us for a {theme} corporate event designed to bring our team together. This gathering will provide an excellent opportunity for networking, collaboration, and team building in a professional yet relaxed atmosphere.",
	kindCasual:    "Come join us for a {theme} gathering! This casual event is all about good vibes, great company, and making memories. Whether you're looking to catch up with old friends or make new ones, this is the perfect occasion.",
}

var itineraryTemplates = map[string][]string{
	"formal": {
		"6:00 PM - Arrival and Welcome Reception",
		"7:00 PM - Main Event Begins",
		"8:00 PM - Dinner Service",
		"9:00 PM - Entertainment and Activities",
		"11:00 PM - Event Concludes",
	},
	"casual": {
		"Doors open - Arrive anytime!",
		"Food and drinks available throughout",
		"Activities and entertainment",
		"Socializing and mingling",
		"Event wraps up around closing time",
	},
	"party": {
		"7:00 PM - Doors Open",
		"7:30 PM - Welcome and Introductions",
		"8:00 PM - Games and Activities Begin",
		"9:00 PM - Cake/Food Service",
		"10:00 PM - Dancing and Music",
		"12:00 AM - Event Ends",
	},
}

var themeStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "my": true,
	"for": true, "to": true, "in": true, "on": true, "at": true,
}

// TemplateGenerator produces deterministic event and venue copy from
// canned templates. It never fails, which makes it the fallback behind
// the generative client.
type TemplateGenerator struct{}

// GenerateEvent builds event copy from the idea text. The title template
// is chosen by hashing the idea, so the same idea always renders the
// same suggestion.
func (TemplateGenerator) GenerateEvent(ctx context.Context, idea, location, datetime string) (EventSuggestion, error) {
	lower := strings.ToLower(idea)
	kind := classifyEvent(lower)

	theme := extractTheme(idea)
	titles := titleTemplates[kind]
	title := strings.ReplaceAll(titles[hashIndex(idea, len(titles))], "{theme}", theme)
	description := strings.ReplaceAll(descriptionTemplates[kind], "{theme}", strings.ToLower(theme))

	itinerary := itineraryTemplates[itineraryType(lower)]
	out := make([]string, len(itinerary))
	copy(out, itinerary)

	return EventSuggestion{Title: title, Description: description, Itinerary: out}, nil
}

// GenerateVenues suggests two venues matched to the idea's tone.
func (TemplateGenerator) GenerateVenues(ctx context.Context, idea, location string) ([]VenueSuggestion, error) {
	lower := strings.ToLower(idea)
	switch {
	case containsAny(lower, "gothic", "dark", "alternative"):
		return []VenueSuggestion{
			{
				Name:        "The Victorian Room - " + location,
				Address:     "123 Gothic Ave, " + location,
				Type:        "Event Space",
				Description: "Dark, moody event space with vintage Victorian decor, perfect for gothic-themed celebrations",
			},
			{
				Name:        "Underground Lounge - " + location,
				Address:     "456 Shadow St, " + location,
				Type:        "Bar/Lounge",
				Description: "Alternative venue with industrial vibes and dim lighting for unique celebrations",
			},
		}, nil
	case containsAny(lower, "elegant", "formal", "wedding"):
		return []VenueSuggestion{
			{
				Name:        "The Grand Ballroom - " + location,
				Address:     "789 Elegance Blvd, " + location,
				Type:        "Ballroom",
				Description: "Sophisticated venue with crystal chandeliers and elegant decor",
			},
			{
				Name:        "Garden Estate - " + location,
				Address:     "321 Garden Way, " + location,
				Type:        "Outdoor Venue",
				Description: "Beautiful garden setting with indoor/outdoor options",
			},
		}, nil
	case containsAny(lower, "casual", "fun", "party"):
		return []VenueSuggestion{
			{
				Name:        "The Social Hub - " + location,
				Address:     "555 Party Lane, " + location,
				Type:        "Event Space",
				Description: "Modern, casual venue perfect for social gatherings and parties",
			},
			{
				Name:        "Rooftop Terrace - " + location,
				Address:     "888 Sky View Dr, " + location,
				Type:        "Rooftop Venue",
				Description: "Open-air rooftop space with city views and relaxed atmosphere",
			},
		}, nil
	default:
		return []VenueSuggestion{
			{
				Name:        "The Event Space - " + location,
				Address:     "100 Main St, " + location,
				Type:        "Multi-Purpose Venue",
				Description: "Versatile event space suitable for various occasions",
			},
			{
				Name:        "Community Center - " + location,
				Address:     "200 Center Dr, " + location,
				Type:        "Community Space",
				Description: "Affordable, flexible space perfect for community gatherings",
			},
		}, nil
	}
}

func classifyEvent(lowerIdea string) eventKind {
	switch {
	case containsAny(lowerIdea, "birthday", "bday"):
		return kindBirthday
	case containsAny(lowerIdea, "wedding", "marriage"):
		return kindWedding
	case containsAny(lowerIdea, "corporate", "business", "work"):
		return kindCorporate
	default:
		return kindCasual
	}
}

func itineraryType(lowerIdea string) string {
	switch {
	case containsAny(lowerIdea, "formal", "elegant", "gala"):
		return "formal"
	case containsAny(lowerIdea, "party", "celebration", "bash"):
		return "party"
	default:
		return "casual"
	}
}

// extractTheme keeps the meaningful words of the idea, capitalized, at
// most three of them.
func extractTheme(idea string) string {
	var words []string
	for _, word := range strings.Fields(idea) {
		if themeStopWords[strings.ToLower(word)] {
			continue
		}
		words = append(words, strings.ToUpper(word[:1])+word[1:])
		if len(words) == 3 {
			break
		}
	}
	if len(words) == 0 {
		return "Special"
	}
	return strings.Join(words, " ")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hashIndex(s string, n int) int {
	if n <= 0 {
		return 0
	}
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(s))
	return int(hasher.Sum32() % uint32(n))
}
