package learn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/http"
)

const (
	Endpoint           = "https://learn.microsoft.com"
	SearchDefaultLimit = 3

	descriptionMaxChars = 200
)

type searchResponse struct {
	Results []struct {
		Title       string `json:"title"`
		Url         string `json:"url"`
		Description string `json:"description"`
	} `json:"results"`
}

// Provider queries the Microsoft Learn documentation search API. It is
// the retrieval tool handed to the question generator; it requires no
// credentials.
type Provider struct {
	endpoint string
	client   http.Client
}

func New() *Provider {
	return NewWithEndpoint(Endpoint)
}

func NewWithEndpoint(endpoint string) *Provider {
	c := http.NewClient(
		endpoint,
		http.WithTimeout(5*time.Second),
	)
	return &Provider{
		endpoint: endpoint,
		client:   c,
	}
}

func (p Provider) SearchDocs(ctx context.Context, topic string, limit int) ([]*api.ScoredDocument, error) {
	if topic == "" {
		return nil, fmt.Errorf("topic must not be empty")
	}
	if limit <= 0 {
		limit = SearchDefaultLimit
	}

	query := url.Values{
		"search": []string{topic},
		"locale": []string{"en-us"},
	}
	body, err := p.client.Get(ctx, p.endpoint+"/api/search?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("docs search request failed: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to deserialize docs search response: %w", err)
	}

	docs := make([]*api.ScoredDocument, 0, limit)
	for _, result := range sr.Results {
		if result.Title == "" {
			continue
		}

		description := result.Description
		if len(description) > descriptionMaxChars {
			description = description[:descriptionMaxChars]
		}

		docs = append(docs, &api.ScoredDocument{
			Title:   result.Title,
			Content: description,
			Url:     result.Url,
		})

		if len(docs) >= limit {
			break
		}
	}

	return docs, nil
}
