package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gather/internal/gather/validate"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const geminiModel = "gemini-2.5-flash"

// GeminiClient calls the generative API to elaborate event ideas. User
// text is sanitized before it reaches the prompt.
type GeminiClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewGeminiClient constructs a client. The zero HTTPClient falls back to
// http.DefaultClient.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{APIKey: apiKey}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateEvent asks the model for a title, description and itinerary.
func (c *GeminiClient) GenerateEvent(ctx context.Context, idea, location, datetime string) (EventSuggestion, error) {
	prompt := fmt.Sprintf(`Generate event details for the following event:

Event Idea: %s
Location: %s
Date/Time: %s

Please provide:
1. A catchy, creative event title (max 60 characters)
2. An engaging event description (2-3 sentences)
3. A suggested itinerary with 3-5 time-based activities

Format your response as JSON:
{
  "title": "...",
  "description": "...",
  "itinerary": [
    { "time": "...", "activity": "..." },
    ...
  ]
}`,
		validate.SanitizeForAI(idea),
		validate.SanitizeForAI(location),
		validate.SanitizeForAI(datetime))

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return EventSuggestion{}, err
	}

	var parsed struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Itinerary   []struct {
			Time     string `json:"time"`
			Activity string `json:"activity"`
		} `json:"itinerary"`
	}
	if err := json.Unmarshal(extractJSON(text), &parsed); err != nil {
		return EventSuggestion{}, fmt.Errorf("parse generated event: %w", err)
	}
	if parsed.Title == "" || parsed.Description == "" {
		return EventSuggestion{}, fmt.Errorf("generated event is incomplete")
	}
	itinerary := make([]string, 0, len(parsed.Itinerary))
	for _, item := range parsed.Itinerary {
		itinerary = append(itinerary, item.Time+" - "+item.Activity)
	}
	return EventSuggestion{
		Title:       parsed.Title,
		Description: parsed.Description,
		Itinerary:   itinerary,
	}, nil
}

// GenerateVenues asks the model for two venue ideas.
func (c *GeminiClient) GenerateVenues(ctx context.Context, idea, location string) ([]VenueSuggestion, error) {
	safeLocation := validate.SanitizeForAI(location)
	prompt := fmt.Sprintf(`Suggest 2 suitable venues for this event:

Event Type: %s
Location: %s

For each venue suggestion, provide:
1. Venue name (can be general like "Community Park" or "Downtown Restaurant")
2. Venue type (e.g., "park", "restaurant", "event space")
3. Brief reason why it's suitable (1 sentence)

Format as JSON:
{
  "venues": [
    { "name": "...", "type": "...", "reason": "..." },
    { "name": "...", "type": "...", "reason": "..." }
  ]
}`,
		validate.SanitizeForAI(idea), safeLocation)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Venues []struct {
			Name   string `json:"name"`
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"venues"`
	}
	if err := json.Unmarshal(extractJSON(text), &parsed); err != nil {
		return nil, fmt.Errorf("parse generated venues: %w", err)
	}
	if len(parsed.Venues) == 0 {
		return nil, fmt.Errorf("no venues generated")
	}
	venues := make([]VenueSuggestion, 0, len(parsed.Venues))
	for _, venue := range parsed.Venues {
		venues = append(venues, VenueSuggestion{
			Name:        venue.Name,
			Address:     safeLocation,
			Type:        venue.Type,
			Description: venue.Reason,
		})
	}
	return venues, nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.APIKey == "" {
		return "", fmt.Errorf("gemini api key is not configured")
	}
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", baseURL, geminiModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini api status %d", resp.StatusCode)
	}
	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty gemini response")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

// extractJSON pulls the outermost JSON object out of model text that may
// wrap it in prose or code fences.
func extractJSON(text string) []byte {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return []byte(text)
	}
	return []byte(text[start : end+1])
}
