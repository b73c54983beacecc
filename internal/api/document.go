package api

// ScoredDocument is one unit of retrieved context: a fetched web page,
// a documentation search hit or a vector store match. Score carries the
// source's own relevance measure and is not comparable across sources.
type ScoredDocument struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`

	Title string `json:"title,omitempty"`
	Url   string `json:"url,omitempty"`
}
