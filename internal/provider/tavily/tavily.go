package tavily

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/http"
)

const (
	Endpoint           = "https://api.tavily.com"
	SearchDefaultLimit = 5
)

type searchResponse struct {
	Query        string          `json:"query"`
	Answer       string          `json:"answer"`
	Results      []*searchResult `json:"results"`
	ResponseTime float32         `json:"response_time"`
}

type searchResult struct {
	Title   string  `json:"title"`
	Url     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Raw     string  `json:"raw_content"`
}

// Provider is the fallback page discovery backend, used when no Azure
// OpenAI deployment is configured. Result contents are snippets only.
type Provider struct {
	client http.Client
}

func New(apiKey string) *Provider {
	c := http.NewClient(
		Endpoint,
		http.WithMaxRetries(3),
		http.WithApiKey(apiKey),
	)
	return &Provider{
		client: c,
	}
}

func (p Provider) Search(ctx context.Context, req api.WebSearchRequest) (*api.WebSearchResponse, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	limit := SearchDefaultLimit
	if req.Limit != 0 {
		limit = req.Limit
	}

	requestData := map[string]any{
		"query":                      req.Query,
		"topic":                      "general",
		"search":                     "basic",
		"max_results":                limit,
		"include_answer":             false,
		"include_raw_content":        false,
		"include_images":             false,
		"include_image_descriptions": false,
	}

	resp, err := p.client.Request(ctx, http.MethodPost, "/search", requestData)
	if err != nil {
		return nil, fmt.Errorf("web search request failed: %w", err)
	}

	jsonData, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize web search response: %w", err)
	}

	var sr searchResponse
	err = json.Unmarshal(jsonData, &sr)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize web search response: %w", err)
	}

	docs := make([]*api.ScoredDocument, 0, len(sr.Results))
	for _, result := range sr.Results {
		docs = append(docs, &api.ScoredDocument{
			Content: result.Content,
			Score:   result.Score,
			Title:   result.Title,
			Url:     result.Url,
		})
	}

	return &api.WebSearchResponse{
		Query:   sr.Query,
		Results: docs,
	}, nil
}
