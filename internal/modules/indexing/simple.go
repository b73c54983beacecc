// Copyright 2025 solenecodes
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the
// Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package indexing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/executor"
	"github.com/solenecodes/web-search-agent/internal/provider"
	"github.com/solenecodes/web-search-agent/internal/vector"
)

var simpleExecutorDescriptor = "indexing.Simple"

const defaultChunkSize = 1500

type SimpleExecutor struct {
	embedder  provider.Embedder
	operators map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error)
}

func NewSimpleExecutor(embedder provider.Embedder) *SimpleExecutor {
	e := &SimpleExecutor{
		embedder: embedder,
	}
	e.operators = map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error){
		"index_pages": e.indexPages,
	}
	return e
}

func (e *SimpleExecutor) Descriptor() string {
	return simpleExecutorDescriptor
}

func (e *SimpleExecutor) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	if p.Operator == "" {
		p.Operator = "index_pages"
	}
	slog.Info("executing", "name", simpleExecutorDescriptor, "op", p.Operator, "query", p.GetQuery(), "id", p.GetTaskID())

	opFunc, exists := e.operators[p.Operator]
	if !exists {
		return e.buildResult(p.Operator, executor.ErrOperatorNotFound{
			ExecutorName: simpleExecutorDescriptor, OperatorName: p.Operator}, nil)
	}

	vals, err := opFunc(ctx, p)
	if err == nil {
		slog.Info("indexing results", "values", vals)
	}

	return e.buildResult(p.Operator, err, vals)
}

// indexPages chunks fetched page contents, embeds the chunks and
// upserts them into the vector store. The collection is created on
// first use with the embedder's dimensions.
func (e *SimpleExecutor) indexPages(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	// 'index_pages' requires following parameter args:
	// pages - fetched page contents to index
	// collection_name - name of the collection to use for the vector store
	pages, err := executor.GetTypedArg[[]*api.PageContent](p, "pages")
	if err != nil {
		return nil, err
	}

	collectionName, err := executor.GetTypedArg[string](p, "collection_name")
	if err != nil {
		return nil, err
	}

	if p.VectorStore == nil {
		return nil, fmt.Errorf("operator failed: vector store is not initialized")
	}

	chunkSize := defaultChunkSize
	if v, err := executor.GetIntArg(p, "chunk_size"); err == nil && v > 0 {
		chunkSize = v
	}

	if exists, err := p.VectorStore.CollectionExists(ctx, collectionName); err == nil {
		if !exists {
			slog.Info("requested collection not found", "name", collectionName)

			err := p.VectorStore.CreateCollection(ctx, vector.Collection{
				Name:       collectionName,
				Dimensions: e.embedder.GetDimensions(),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create collection: %w", err)
			}

			slog.Info("successfully created collection", "name", collectionName)
		}
	} else {
		return nil, fmt.Errorf("failed to communicate with vector store: %w", err)
	}

	docRequests := make([]*api.EmbedDocumentRequest, 0, len(pages))
	for _, page := range pages {
		if !page.Success {
			continue
		}

		chunks := ChunkText(page.Content, chunkSize)
		if len(chunks) == 0 {
			continue
		}

		docRequests = append(docRequests, &api.EmbedDocumentRequest{
			Title:  page.Url,
			Source: page.Url,
			Chunks: chunks,
		})
	}

	if len(docRequests) == 0 {
		return nil, fmt.Errorf("failed to index pages: no page content available")
	}

	embeddings, err := e.embedder.EmbedDocuments(ctx, docRequests)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d documents: %w", len(docRequests), err)
	}

	points := vector.CreatePoints(embeddings)
	err = p.VectorStore.Upsert(ctx, collectionName, points)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert points to vector store: %w", err)
	}

	return map[string]any{
		"points_indexed": len(points),
	}, nil
}

// ChunkText splits text into chunks of at most chunkSize characters,
// preferring paragraph boundaries. Empty chunks are dropped.
func ChunkText(text string, chunkSize int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder

	for _, paragraph := range strings.Split(text, "\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+len(paragraph)+1 > chunkSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}

		// paragraph longer than a whole chunk, split it hard
		for len(paragraph) > chunkSize {
			chunks = append(chunks, paragraph[:chunkSize])
			paragraph = paragraph[chunkSize:]
		}

		if paragraph == "" {
			continue
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(paragraph)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func (e *SimpleExecutor) buildResult(operator string, err error, values map[string]any) *executor.ExecutorResult {
	return &executor.ExecutorResult{
		Name:     simpleExecutorDescriptor,
		Operator: operator,
		Err:      err,
		Values:   values,
	}
}
