package api

type WebSearchRequest struct {
	// Required
	Query string

	// Optional
	Limit int
}

type WebSearchResponse struct {
	Query   string
	Results []*ScoredDocument
}

// SearchRequest is the body of a POST /search call.
type SearchRequest struct {
	Query           string `json:"query"`
	MaxPages        *int   `json:"max_pages,omitempty"`
	MaxCharsPerPage *int   `json:"max_chars_per_page,omitempty"`
}

// PageContent holds the extracted text of a single fetched page.
// Content is the full page text, not a snippet.
type PageContent struct {
	Url     string `json:"url"`
	Content string `json:"content"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SearchResponse is the raw search-and-fetch result returned to the
// orchestrating agent. Pages preserve the discovery order of their URLs.
type SearchResponse struct {
	Query        string         `json:"query"`
	Pages        []*PageContent `json:"pages"`
	TotalFound   int            `json:"total_found"`
	TotalFetched int            `json:"total_fetched"`
}

// RunRequest is the agent-service envelope accepted by POST /run.
// The query is resolved from Query, then Input, then the content of
// the last message, in that order.
type RunRequest struct {
	Query           string        `json:"query,omitempty"`
	Input           string        `json:"input,omitempty"`
	Messages        []*RunMessage `json:"messages,omitempty"`
	MaxPages        *int          `json:"max_pages,omitempty"`
	MaxCharsPerPage *int          `json:"max_chars_per_page,omitempty"`
}

type RunMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResolveQuery returns the effective query of a run request,
// or an empty string if none was provided.
func (r RunRequest) ResolveQuery() string {
	if r.Query != "" {
		return r.Query
	}
	if r.Input != "" {
		return r.Input
	}
	if len(r.Messages) > 0 {
		return r.Messages[len(r.Messages)-1].Content
	}
	return ""
}

// ResearchResponse is the synthesized answer produced by the research
// workflow, together with the sources its analysis was grounded on.
type ResearchResponse struct {
	Query    string         `json:"query"`
	Analysis string         `json:"analysis"`
	Sources  []*PageContent `json:"sources"`
}
