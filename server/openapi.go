package server

import (
	"net/http"

	"github.com/solenecodes/web-search-agent/internal/api"
)

// handleOpenAPISpec serves the tool definition an orchestrating agent
// registers to call this service.
func (s *Server) handleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	requestSchema := &api.Schema{
		Type:     api.TypeObject,
		Required: []string{"query"},
		Properties: map[string]*api.Schema{
			"query": {
				Type:        api.TypeString,
				Description: "The question or topic to search for",
			},
			"max_pages": {
				Type:        api.TypeInteger,
				Default:     5,
				Description: "Maximum number of pages to fetch",
			},
			"max_chars_per_page": {
				Type:        api.TypeInteger,
				Default:     10000,
				Description: "Maximum characters per page",
			},
		},
	}

	responseSchema := &api.Schema{
		Type: api.TypeObject,
		Properties: map[string]*api.Schema{
			"query": {Type: api.TypeString},
			"pages": {
				Type:        api.TypeArray,
				Description: "List of pages with their content",
				Items: &api.Schema{
					Type: api.TypeObject,
					Properties: map[string]*api.Schema{
						"url":     {Type: api.TypeString},
						"content": {Type: api.TypeString, Description: "Text content of the page"},
						"success": {Type: api.TypeBoolean},
						"error":   {Type: api.TypeString},
					},
				},
			},
			"total_found":   {Type: api.TypeInteger},
			"total_fetched": {Type: api.TypeInteger},
		},
	}

	spec := map[string]any{
		"openapi": "3.0.0",
		"info": map[string]any{
			"title":       "Web Search + Fetch Agent",
			"description": "Hosted agent performing web search and full page content fetch, returning the raw JSON",
			"version":     "1.0.0",
		},
		"servers": []map[string]any{
			{"url": s.config.PublicURL},
		},
		"paths": map[string]any{
			"/search": map[string]any{
				"post": map[string]any{
					"operationId": "searchAndFetch",
					"summary":     "Web search and page content fetch",
					"description": "Discovers pages via web search, then fetches the full content of each. Returns the raw JSON with all page contents.",
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{
								"schema": requestSchema,
							},
						},
					},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "Fetched page contents",
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": responseSchema,
								},
							},
						},
					},
				},
			},
		},
	}

	writeJSON(w, http.StatusOK, spec)
}
