package api

// RerankScoreThreshold is the relevance score below which reranked
// context documents are dropped, unless the request overrides it.
const RerankScoreThreshold = 0.5

// RerankRequest reorders candidate context texts by their relevance to
// the query before they reach a generation step.
type RerankRequest struct {
	Query     string
	Documents []string

	// Limit caps the surviving documents; zero keeps the provider
	// default.
	Limit     int
	ModelName string
	Threshold *float64
}

// EffectiveThreshold resolves the score cutoff for this request.
func (r RerankRequest) EffectiveThreshold() float64 {
	if r.Threshold != nil {
		return *r.Threshold
	}
	return RerankScoreThreshold
}

// RerankResponse carries the surviving documents ordered best first.
type RerankResponse struct {
	Query     string
	Documents []*ScoredDocument

	ModelName string
}
