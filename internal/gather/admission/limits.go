package admission

import (
	"errors"
	"time"
)

// EndpointClass names a rate-limited endpoint family.
type EndpointClass string

const (
	// ClassMutation covers event creation and RSVP submission, keyed by IP.
	ClassMutation EndpointClass = "mutation"
	// ClassSuggestion covers the content-generation endpoints, keyed by IP.
	ClassSuggestion EndpointClass = "suggestion"
	// ClassPlaces covers the metered venue search, keyed by subject.
	ClassPlaces EndpointClass = "places"
	// ClassGiphy covers the metered GIF search, keyed by subject.
	ClassGiphy EndpointClass = "giphy"
)

// Rule is an immutable per-class rate limit configuration.
type Rule struct {
	Class       EndpointClass
	MaxRequests int
	Window      time.Duration
	Message     string
}

// Validate checks rule parameters.
func (r Rule) Validate() error {
	if r.Class == "" {
		return errors.New("rule class is required")
	}
	if r.MaxRequests <= 0 {
		return errors.New("rule max requests must be positive")
	}
	if r.Window <= 0 {
		return errors.New("rule window must be positive")
	}
	return nil
}

// DefaultRules returns the process-wide rule set.
func DefaultRules() map[EndpointClass]Rule {
	return map[EndpointClass]Rule{
		ClassMutation: {
			Class:       ClassMutation,
			MaxRequests: 5,
			Window:      time.Minute,
			Message:     "Too many requests. Please slow down.",
		},
		ClassSuggestion: {
			Class:       ClassSuggestion,
			MaxRequests: 10,
			Window:      time.Minute,
			Message:     "Too many suggestion requests. Please slow down.",
		},
		ClassPlaces: {
			Class:       ClassPlaces,
			MaxRequests: 10,
			Window:      24 * time.Hour,
			Message:     "Daily venue search limit reached. Please try again tomorrow.",
		},
		ClassGiphy: {
			Class:       ClassGiphy,
			MaxRequests: 20,
			Window:      time.Hour,
			Message:     "Image search limit reached. Please try again in an hour.",
		},
	}
}

// ValidateRules checks a full rule set at startup.
func ValidateRules(rules map[EndpointClass]Rule) error {
	if len(rules) == 0 {
		return errors.New("at least one rate limit rule is required")
	}
	for class, rule := range rules {
		if rule.Class != class {
			return errors.New("rule class does not match its key")
		}
		if err := rule.Validate(); err != nil {
			return err
		}
	}
	return nil
}
