package content

import (
	"context"

	"gather/internal/gather/logging"
)

// Service fronts the generative client with the template fallback. A
// transient generation failure degrades to deterministic copy instead of
// failing the request.
type Service struct {
	generative interface {
		EventGenerator
		VenueGenerator
	}
	fallback TemplateGenerator
	logger   logging.Logger
}

// NewService constructs the content service. generative may be nil, in
// which case every request takes the template path.
func NewService(gemini *GeminiClient, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	svc := &Service{logger: logger}
	if gemini != nil && gemini.APIKey != "" {
		svc.generative = gemini
	}
	return svc
}

// GenerateEvent elaborates an event idea.
func (s *Service) GenerateEvent(ctx context.Context, idea, location, datetime string) (EventSuggestion, error) {
	if s.generative != nil {
		suggestion, err := s.generative.GenerateEvent(ctx, idea, location, datetime)
		if err == nil {
			return suggestion, nil
		}
		s.logger.Warn("AI", "generation failed, using template fallback", map[string]any{
			"error": err.Error(),
		})
	}
	return s.fallback.GenerateEvent(ctx, idea, location, datetime)
}

// GenerateVenues suggests venues for an event idea.
func (s *Service) GenerateVenues(ctx context.Context, idea, location string) ([]VenueSuggestion, error) {
	if s.generative != nil {
		venues, err := s.generative.GenerateVenues(ctx, idea, location)
		if err == nil {
			return venues, nil
		}
		s.logger.Warn("AI", "venue generation failed, using template fallback", map[string]any{
			"error": err.Error(),
		})
	}
	return s.fallback.GenerateVenues(ctx, idea, location)
}
