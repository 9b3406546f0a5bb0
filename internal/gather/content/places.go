package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultPlacesBaseURL = "https://places.googleapis.com/v1"

const placesFieldMask = "places.displayName,places.formattedAddress,places.types,places.rating,places.photos,places.id"

// PlacesClient proxies venue text search and photo fetches. Every search
// is a metered call; the caller charges the quota only after success.
type PlacesClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewPlacesClient constructs a client.
func NewPlacesClient(apiKey string) *PlacesClient {
	return &PlacesClient{APIKey: apiKey}
}

type placesSearchResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress string   `json:"formattedAddress"`
		Types            []string `json:"types"`
		Rating           float64  `json:"rating"`
		Photos           []struct {
			Name string `json:"name"`
		} `json:"photos"`
	} `json:"places"`
}

// SearchText runs a text search, optionally scoped to a location, and
// returns up to three venues.
func (c *PlacesClient) SearchText(ctx context.Context, query, location string) ([]VenueSuggestion, error) {
	if c == nil || c.APIKey == "" {
		return nil, fmt.Errorf("maps api key is not configured")
	}
	searchQuery := query
	if location != "" {
		searchQuery = query + " in " + location
	}
	body, err := json.Marshal(map[string]any{
		"textQuery":      searchQuery,
		"maxResultCount": 3,
	})
	if err != nil {
		return nil, err
	}
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = defaultPlacesBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.APIKey)
	req.Header.Set("X-Goog-FieldMask", placesFieldMask)

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places api status %d", resp.StatusCode)
	}
	var decoded placesSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	venues := make([]VenueSuggestion, 0, len(decoded.Places))
	for _, place := range decoded.Places {
		name := place.DisplayName.Text
		if name == "" {
			name = "Unknown venue"
		}
		address := place.FormattedAddress
		if address == "" {
			address = "Address not available"
		}
		venueType := "venue"
		if len(place.Types) > 0 {
			venueType = strings.ReplaceAll(place.Types[0], "_", " ")
		}
		photoURL := ""
		if len(place.Photos) > 0 {
			// Photo fetches route through our proxy so the key stays
			// server-side.
			photoURL = "/api/places/photo?photoName=" + url.QueryEscape(place.Photos[0].Name)
		}
		venues = append(venues, VenueSuggestion{
			Name:        name,
			Address:     address,
			Type:        venueType,
			Description: name + " - " + address,
			PlaceID:     place.ID,
			Rating:      place.Rating,
			PhotoURL:    photoURL,
		})
	}
	return venues, nil
}

// FetchPhoto downloads a place photo rendition. Returns the image bytes
// and content type.
func (c *PlacesClient) FetchPhoto(ctx context.Context, photoName, maxWidth string) ([]byte, string, error) {
	if c == nil || c.APIKey == "" {
		return nil, "", fmt.Errorf("maps api key is not configured")
	}
	if maxWidth == "" {
		maxWidth = "400"
	}
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = defaultPlacesBaseURL
	}
	photoURL := fmt.Sprintf("%s/%s/media?key=%s&maxWidthPx=%s", baseURL, photoName, url.QueryEscape(c.APIKey), url.QueryEscape(maxWidth))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return nil, "", err
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("photo fetch status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}
