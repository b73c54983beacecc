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

package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/executor"
	"github.com/solenecodes/web-search-agent/internal/fetch"
	"github.com/solenecodes/web-search-agent/internal/provider"
)

var webRetrieverExecutorDescriptor = "retrieval.Web"

type WebExecutor struct {
	searcher  provider.WebSearcher
	fetcher   *fetch.Fetcher
	operators map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error)
}

func NewWebExecutor(searcher provider.WebSearcher, fetcher *fetch.Fetcher) *WebExecutor {
	e := &WebExecutor{
		searcher: searcher,
		fetcher:  fetcher,
	}
	e.operators = map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error){
		"search":   e.webSearch,
		"discover": e.discover,
	}
	return e
}

func (e *WebExecutor) Descriptor() string {
	return webRetrieverExecutorDescriptor
}

func (e *WebExecutor) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	if p.Operator == "" {
		p.Operator = "search"
	}
	slog.Info("executing", "name", webRetrieverExecutorDescriptor, "op", p.Operator, "query", p.GetQuery(), "id", p.GetTaskID())

	opFunc, exists := e.operators[p.Operator]
	if !exists {
		return &executor.ExecutorResult{
			Name:     webRetrieverExecutorDescriptor,
			Operator: p.Operator,
			Err: executor.ErrOperatorNotFound{
				ExecutorName: webRetrieverExecutorDescriptor,
				OperatorName: p.Operator,
			},
			Values: nil,
		}
	}

	vals, err := opFunc(ctx, p)

	return &executor.ExecutorResult{
		Name:     webRetrieverExecutorDescriptor,
		Operator: p.Operator,
		Err:      err,
		Values:   vals,
	}
}

// webSearch discovers page URLs for the query and fetches the full text
// of each one. Without a max_pages arg every discovered page is fetched;
// max_pages only caps the fetch, never the discovery, so total_found
// always reflects the full result set. Returned pages keep the discovery
// order; pages that fail to fetch stay in place with their error recorded.
func (e *WebExecutor) webSearch(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	maxPages := 0
	if v, err := executor.GetIntArg(p, "max_pages"); err == nil && v > 0 {
		maxPages = v
	}

	maxChars := fetch.DefaultMaxChars
	if v, err := executor.GetIntArg(p, "max_chars_per_page"); err == nil && v > 0 {
		maxChars = v
	}

	resp, err := e.searcher.Search(ctx, api.WebSearchRequest{
		Query: p.GetQuery(),
	})
	if err != nil {
		return nil, fmt.Errorf("url discovery failed: %w", err)
	}

	urls := make([]string, 0, len(resp.Results))
	seen := make(map[string]bool)
	for _, doc := range resp.Results {
		if doc.Url == "" || seen[doc.Url] {
			continue
		}
		seen[doc.Url] = true
		urls = append(urls, doc.Url)
	}

	totalFound := len(urls)

	fetchUrls := urls
	if maxPages > 0 && len(fetchUrls) > maxPages {
		fetchUrls = fetchUrls[:maxPages]
	}

	pages := e.fetcher.Pages(ctx, fetchUrls, maxChars)

	totalFetched := 0
	contextDocs := make([]*api.ScoredDocument, 0, len(pages))
	for _, page := range pages {
		if !page.Success {
			continue
		}
		totalFetched += 1
		contextDocs = append(contextDocs, &api.ScoredDocument{
			Content: page.Content,
			Url:     page.Url,
		})
	}

	return map[string]any{
		"pages":         pages,
		"total_found":   totalFound,
		"total_fetched": totalFetched,
		"context_docs":  contextDocs,
	}, nil
}

// discover returns search result snippets without fetching the pages.
func (e *WebExecutor) discover(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	req := api.WebSearchRequest{
		Query: p.GetQuery(),
	}

	if v, err := executor.GetIntArg(p, "max_pages"); err == nil && v > 0 {
		req.Limit = v
	}

	resp, err := e.searcher.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"context_docs": resp.Results,
	}, nil
}
