package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const defaultGiphyBaseURL = "https://api.giphy.com/v1"

// GiphyClient searches the GIF provider. Results are G-rated.
type GiphyClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewGiphyClient constructs a client.
func NewGiphyClient(apiKey string) *GiphyClient {
	return &GiphyClient{APIKey: apiKey}
}

type giphySearchResponse struct {
	Data []struct {
		ID     string `json:"id"`
		URL    string `json:"url"`
		Title  string `json:"title"`
		Images struct {
			Original struct {
				URL string `json:"url"`
			} `json:"original"`
			Downsized struct {
				URL string `json:"url"`
			} `json:"downsized"`
		} `json:"images"`
	} `json:"data"`
}

// Search returns up to limit results starting at offset.
func (c *GiphyClient) Search(ctx context.Context, query string, limit, offset int) ([]GifImage, error) {
	if c == nil || c.APIKey == "" {
		return nil, fmt.Errorf("giphy api key is not configured")
	}
	if limit <= 0 {
		limit = 12
	}
	if offset < 0 {
		offset = 0
	}
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = defaultGiphyBaseURL
	}
	searchURL := baseURL + "/gifs/search?api_key=" + url.QueryEscape(c.APIKey) +
		"&q=" + url.QueryEscape(query) +
		"&limit=" + strconv.Itoa(limit) +
		"&offset=" + strconv.Itoa(offset) +
		"&rating=g"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
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
		return nil, fmt.Errorf("giphy api status %d", resp.StatusCode)
	}
	var decoded giphySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	images := make([]GifImage, 0, len(decoded.Data))
	for _, gif := range decoded.Data {
		images = append(images, GifImage{
			ID:    gif.ID,
			URL:   gif.URL,
			Title: gif.Title,
			Images: GifImgSet{
				Original:  GifRendition{URL: gif.Images.Original.URL},
				Downsized: GifRendition{URL: gif.Images.Downsized.URL},
			},
		})
	}
	return images, nil
}

// MockGifImages is returned when no GIF provider key is configured so
// the flow stays usable in development.
func MockGifImages() []GifImage {
	u := "https://media.giphy.com/media/l0MYt5jPR6QX5pnqM/giphy.gif"
	return []GifImage{
		{
			ID:    "mock1",
			URL:   u,
			Title: "Party celebration",
			Images: GifImgSet{
				Original:  GifRendition{URL: u},
				Downsized: GifRendition{URL: u},
			},
		},
	}
}
