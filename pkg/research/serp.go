package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SearchResult is one organic web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// SerpClient wraps the SERP API. Without an API key it returns stubbed
// results so the rest of the system stays usable in development.
type SerpClient struct {
	APIKey     string
	HTTPClient *http.Client
}

func NewSerpClient(apiKey string) *SerpClient {
	return &SerpClient{
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *SerpClient) Search(ctx context.Context, query string, numResults int) ([]SearchResult, error) {
	if numResults <= 0 {
		numResults = 5
	}

	if c.APIKey == "" {
		results := make([]SearchResult, 0, numResults)
		for i := 0; i < numResults; i++ {
			results = append(results, SearchResult{
				Title:   fmt.Sprintf("Stub result %d for '%s'", i+1, query),
				Link:    fmt.Sprintf("https://example.com/%d", i+1),
				Snippet: "Configure SERPAPI_API_KEY to fetch real-time search results.",
			})
		}
		return results, nil
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("num", strconv.Itoa(numResults))
	params.Set("api_key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://serpapi.com/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serp api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serp api status: %d", resp.StatusCode)
	}

	var payload struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
			Summary string `json:"summary"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode serp response: %w", err)
	}

	organic := payload.OrganicResults
	if len(organic) > numResults {
		organic = organic[:numResults]
	}

	results := make([]SearchResult, 0, len(organic))
	for _, item := range organic {
		snippet := item.Snippet
		if snippet == "" {
			snippet = item.Summary
		}
		results = append(results, SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: snippet,
		})
	}
	return results, nil
}
