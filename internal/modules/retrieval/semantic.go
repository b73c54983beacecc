package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/executor"
	"github.com/solenecodes/web-search-agent/internal/provider"
	"github.com/solenecodes/web-search-agent/internal/vector"
)

var semanticExecutorDescriptor = "retrieval.Semantic"

type SemanticExecutor struct {
	embedder  provider.Embedder
	operators map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error)
}

func NewSemanticExecutor(embedder provider.Embedder) *SemanticExecutor {
	e := &SemanticExecutor{
		embedder: embedder,
	}
	e.operators = map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error){
		"dense": e.denseRetrieval,
	}
	return e
}

func (e *SemanticExecutor) Descriptor() string {
	return semanticExecutorDescriptor
}

func (e *SemanticExecutor) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	if p.Operator == "" {
		p.Operator = "dense"
	}
	slog.Info("executing", "name", semanticExecutorDescriptor, "op", p.Operator, "query", p.GetQuery(), "id", p.GetTaskID())

	opFunc, exists := e.operators[p.Operator]
	if !exists {
		return e.buildResult(p.Operator, executor.ErrOperatorNotFound{
			ExecutorName: semanticExecutorDescriptor, OperatorName: p.Operator}, nil)
	}

	vals, err := opFunc(ctx, p)

	return e.buildResult(p.Operator, err, vals)
}

func (e *SemanticExecutor) denseRetrieval(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	// 'dense' requires following parameter args:
	// collection_name - name of the collection to use for the vector store
	collectionName, err := executor.GetTypedArg[string](p, "collection_name")
	if err != nil {
		return nil, err
	}

	if p.VectorStore == nil {
		return nil, fmt.Errorf("operator failed: vector store is not initialized")
	}

	vec, err := e.embedder.EmbedQuery(ctx, p.GetQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to embed query '%s': %w", p.GetQuery(), err)
	}

	limit := uint(25)
	if v, err := executor.GetIntArg(p, "top_n"); err == nil && v > 0 {
		limit = uint(v)
	}

	queryParams := vector.NewQueryParams(
		collectionName,
		vec,
		vector.WithPayload(true),
		vector.WithLimit(limit),
	)

	points, err := p.VectorStore.Query(ctx, queryParams)
	if err != nil {
		return nil, fmt.Errorf("failed to get results for query '%s': %w", p.GetQuery(), err)
	}

	scoredDocs := make([]*api.ScoredDocument, 0, len(points))
	for _, point := range points {
		if _, ok := point.Payload[vector.PayloadKeyText]; !ok {
			slog.Warn("malformed retrieved context point: missing 'text' field in payload", "id", point.ID, "payload", point.Payload)
			continue
		}
		scoredDocs = append(scoredDocs, point.Document())
	}

	return map[string]any{
		"context_points": points,
		"context_docs":   scoredDocs,
	}, nil
}

func (e *SemanticExecutor) buildResult(operator string, err error, values map[string]any) *executor.ExecutorResult {
	return &executor.ExecutorResult{
		Name:     semanticExecutorDescriptor,
		Operator: operator,
		Err:      err,
		Values:   values,
	}
}
