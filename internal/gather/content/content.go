// Package content produces event titles, descriptions, itineraries,
// venue suggestions and imagery, via external generative and search APIs
// with a deterministic template fallback.
package content

import "context"

// EventSuggestion is generated event copy.
type EventSuggestion struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Itinerary   []string `json:"itinerary"`
}

// VenueSuggestion is a generated or searched venue.
type VenueSuggestion struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	PlaceID     string  `json:"placeId,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	PhotoURL    string  `json:"photoUrl,omitempty"`
}

// GifImage is a search result from the GIF provider.
type GifImage struct {
	ID     string    `json:"id"`
	URL    string    `json:"url"`
	Title  string    `json:"title"`
	Images GifImgSet `json:"images"`
}

// GifImgSet carries the rendition URLs clients embed.
type GifImgSet struct {
	Original  GifRendition `json:"original"`
	Downsized GifRendition `json:"downsized"`
}

// GifRendition is a single image URL.
type GifRendition struct {
	URL string `json:"url"`
}

// EventGenerator produces event copy from an idea.
type EventGenerator interface {
	GenerateEvent(ctx context.Context, idea, location, datetime string) (EventSuggestion, error)
}

// VenueGenerator produces venue ideas from an event concept.
type VenueGenerator interface {
	GenerateVenues(ctx context.Context, idea, location string) ([]VenueSuggestion, error)
}
