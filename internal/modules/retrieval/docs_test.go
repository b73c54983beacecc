package retrieval_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/executor"
	"github.com/solenecodes/web-search-agent/internal/modules/retrieval"
)

type stubDocsSearcher struct {
	docs     []*api.ScoredDocument
	err      error
	gotLimit int
}

func (s *stubDocsSearcher) SearchDocs(ctx context.Context, topic string, limit int) ([]*api.ScoredDocument, error) {
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.docs, nil
}

// stubRetriever stands in for the dense retrieval fallback.
type stubRetriever struct {
	values      map[string]any
	err         error
	called      bool
	gotOperator string
}

func (s *stubRetriever) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	s.called = true
	s.gotOperator = p.Operator
	return &executor.ExecutorResult{
		Name:     "stub",
		Operator: p.Operator,
		Err:      s.err,
		Values:   s.values,
	}
}

func TestDocsSearchReturnsServiceHits(t *testing.T) {
	searcher := &stubDocsSearcher{docs: []*api.ScoredDocument{
		{Title: "Service limits", Content: "limits doc", Url: "https://learn.microsoft.com/limits"},
	}}
	fallback := &stubRetriever{}

	exec := retrieval.NewDocsExecutor(searcher, fallback)
	res := exec.Execute(context.Background(), executor.NewExecutorParams("t1", "service limits",
		executor.WithOperator("search"),
		executor.WithArgs(map[string]any{"top_n": 3})))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	if searcher.gotLimit != 3 {
		t.Errorf("got limit %d, expected top_n arg 3", searcher.gotLimit)
	}
	if fallback.called {
		t.Error("fallback must not run when the docs service answers")
	}

	docs, ok := executor.GetTypedResult[[]*api.ScoredDocument](res, "context_docs")
	if !ok || len(docs) != 1 {
		t.Fatalf("got %d context docs, expected 1", len(docs))
	}
}

func TestDocsSearchFallsBackToVectorStore(t *testing.T) {
	searcher := &stubDocsSearcher{err: fmt.Errorf("docs service unavailable")}
	fallback := &stubRetriever{values: map[string]any{
		"context_docs": []*api.ScoredDocument{
			{Content: "indexed chunk one", Score: 0.9},
			{Content: "indexed chunk two", Score: 0.7},
		},
	}}

	exec := retrieval.NewDocsExecutor(searcher, fallback)
	res := exec.Execute(context.Background(), executor.NewExecutorParams("t1", "service limits",
		executor.WithOperator("search")))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	if !fallback.called {
		t.Fatal("expected the fallback retriever to run")
	}
	if fallback.gotOperator != "dense" {
		t.Errorf("got fallback operator '%s', expected 'dense'", fallback.gotOperator)
	}

	docs, _ := executor.GetTypedResult[[]*api.ScoredDocument](res, "context_docs")
	if len(docs) != 2 {
		t.Fatalf("got %d context docs, expected the fallback results", len(docs))
	}

	if _, degraded := res.Get("docs_degraded"); degraded {
		t.Error("fallback success must not mark the context degraded")
	}
}

func TestDocsSearchDegradesWhenFallbackFails(t *testing.T) {
	searcher := &stubDocsSearcher{err: fmt.Errorf("docs service unavailable")}
	fallback := &stubRetriever{err: fmt.Errorf("collection not found")}

	exec := retrieval.NewDocsExecutor(searcher, fallback)
	res := exec.Execute(context.Background(), executor.NewExecutorParams("t1", "service limits",
		executor.WithOperator("search")))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	docs, _ := executor.GetTypedResult[[]*api.ScoredDocument](res, "context_docs")
	if len(docs) != 0 {
		t.Errorf("got %d context docs, expected none", len(docs))
	}

	degraded, _ := executor.GetTypedResult[bool](res, "docs_degraded")
	if !degraded {
		t.Error("expected the degraded marker when docs and fallback both fail")
	}
}

func TestDocsSearchDegradesWithoutFallback(t *testing.T) {
	searcher := &stubDocsSearcher{err: fmt.Errorf("docs service unavailable")}

	exec := retrieval.NewDocsExecutor(searcher, nil)
	res := exec.Execute(context.Background(), executor.NewExecutorParams("t1", "service limits",
		executor.WithOperator("search")))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	degraded, _ := executor.GetTypedResult[bool](res, "docs_degraded")
	if !degraded {
		t.Error("expected the degraded marker without a fallback")
	}
}
