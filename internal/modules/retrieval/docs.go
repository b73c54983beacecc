package retrieval

import (
	"context"
	"log/slog"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/executor"
	"github.com/solenecodes/web-search-agent/internal/provider"
)

var docsRetrieverExecutorDescriptor = "retrieval.Docs"

type DocsExecutor struct {
	searcher  provider.DocsSearcher
	fallback  executor.Executor
	operators map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error)
}

// NewDocsExecutor builds the docs retriever. The optional fallback,
// typically the dense retriever over previously indexed documentation,
// is consulted when the docs service fails; pass nil to disable.
func NewDocsExecutor(searcher provider.DocsSearcher, fallback executor.Executor) *DocsExecutor {
	e := &DocsExecutor{
		searcher: searcher,
		fallback: fallback,
	}
	e.operators = map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error){
		"search": e.docsSearch,
	}
	return e
}

func (e *DocsExecutor) Descriptor() string {
	return docsRetrieverExecutorDescriptor
}

func (e *DocsExecutor) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	if p.Operator == "" {
		p.Operator = "search"
	}
	slog.Info("executing", "name", docsRetrieverExecutorDescriptor, "op", p.Operator, "query", p.GetQuery(), "id", p.GetTaskID())

	opFunc, exists := e.operators[p.Operator]
	if !exists {
		return &executor.ExecutorResult{
			Name:     docsRetrieverExecutorDescriptor,
			Operator: p.Operator,
			Err: executor.ErrOperatorNotFound{
				ExecutorName: docsRetrieverExecutorDescriptor,
				OperatorName: p.Operator,
			},
			Values: nil,
		}
	}

	vals, err := opFunc(ctx, p)

	return &executor.ExecutorResult{
		Name:     docsRetrieverExecutorDescriptor,
		Operator: p.Operator,
		Err:      err,
		Values:   vals,
	}
}

// docsSearch retrieves documentation references for the query. The docs
// service is a best-effort source: on failure the vector store fallback
// is tried, and failing that too the context degrades to empty instead
// of failing the workflow.
func (e *DocsExecutor) docsSearch(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	limit := 0
	if v, err := executor.GetIntArg(p, "top_n"); err == nil && v > 0 {
		limit = v
	}

	docs, err := e.searcher.SearchDocs(ctx, p.GetQuery(), limit)
	if err != nil {
		slog.Warn("docs search failed", "query", p.GetQuery(), "error", err)

		if docs := e.fallbackDocs(ctx, p); len(docs) > 0 {
			return map[string]any{
				"context_docs": docs,
			}, nil
		}

		return map[string]any{
			"context_docs":  []*api.ScoredDocument{},
			"docs_degraded": true,
		}, nil
	}

	return map[string]any{
		"context_docs": docs,
	}, nil
}

// fallbackDocs runs the dense retrieval fallback, returning nil when no
// fallback is configured or it cannot produce context.
func (e *DocsExecutor) fallbackDocs(ctx context.Context, p *executor.ExecutorParams) []*api.ScoredDocument {
	if e.fallback == nil {
		return nil
	}

	fp := p.Copy()
	fp.Operator = "dense"

	res := e.fallback.Execute(ctx, fp)
	if res.Err != nil {
		slog.Warn("docs fallback retrieval failed", "query", p.GetQuery(), "error", res.Err)
		return nil
	}

	docs, ok := executor.GetTypedResult[[]*api.ScoredDocument](res, "context_docs")
	if !ok {
		return nil
	}
	return docs
}
