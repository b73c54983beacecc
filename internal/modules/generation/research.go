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

package generation

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/executor"
	"github.com/solenecodes/web-search-agent/internal/provider"
	"github.com/solenecodes/web-search-agent/internal/transport"
)

var researchExecutorDescriptor = "generation.Research"

const (
	promptResearchSystem = `You are a research analyst.
You have access to the FULL CONTENT of web pages (not just snippets).
Provide a comprehensive analysis based on all the information available.`

	promptResearchUser = `Based on the FULL CONTENT of these pages:

{{.Context}}

Question: {{.Query}}

Provide a detailed answer using all the information from the full pages.
Include specific details, quotes, and data that go beyond simple snippets.`

	pageSeparator = "\n\n---PAGE SEPARATOR---\n\n"
)

type ResearchExecutor struct {
	lm provider.LMProvider

	operators map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error)

	templateResearchUser template.Template
}

func NewResearchExecutor(lm provider.LMProvider) *ResearchExecutor {
	templ := template.Must(template.New("promptResearchUser").Parse(promptResearchUser))

	e := &ResearchExecutor{
		lm:                   lm,
		templateResearchUser: *templ,
	}
	e.operators = map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error){
		"synthesize": e.synthesize,
	}
	return e
}

func (e *ResearchExecutor) Descriptor() string {
	return researchExecutorDescriptor
}

func (e *ResearchExecutor) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	if p.Operator == "" {
		p.Operator = "synthesize"
	}
	slog.Info("executing", "name", researchExecutorDescriptor, "op", p.Operator, "query", p.GetQuery(), "id", p.GetTaskID())

	opFunc, exists := e.operators[p.Operator]
	if !exists {
		return &executor.ExecutorResult{
			Name:     researchExecutorDescriptor,
			Operator: p.Operator,
			Err: executor.ErrOperatorNotFound{
				ExecutorName: researchExecutorDescriptor,
				OperatorName: p.Operator,
			},
			Values: nil,
		}
	}

	vals, err := opFunc(ctx, p)

	return &executor.ExecutorResult{
		Name:     researchExecutorDescriptor,
		Operator: p.Operator,
		Err:      err,
		Values:   vals,
	}
}

// synthesize produces a grounded analysis of the query from the fetched
// page contents, streaming the answer over the task's message stream.
func (e *ResearchExecutor) synthesize(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	// 'synthesize' requires following parameter args:
	// pages - fetched page contents to be used as grounding context
	pages, err := executor.GetTypedArg[[]*api.PageContent](p, "pages")
	if err != nil {
		return nil, err
	}

	sections := make([]string, 0, len(pages))
	for _, page := range pages {
		if !page.Success {
			continue
		}
		sections = append(sections, fmt.Sprintf("SOURCE: %s\n\nFULL CONTENT:\n%s", page.Url, page.Content))
	}

	if len(sections) == 0 {
		return nil, fmt.Errorf("no page content available for synthesis")
	}

	type templatePayload struct {
		Context string
		Query   string
	}
	tp := templatePayload{
		Context: strings.Join(sections, pageSeparator),
		Query:   p.GetQuery(),
	}

	var buf bytes.Buffer
	if err := e.templateResearchUser.Execute(&buf, tp); err != nil {
		return nil, fmt.Errorf("failed to parse prompt template for query '%s': %w", p.GetQuery(), err)
	}

	msgStream, err := p.Transport.GetMessageStream(p.GetTaskID())
	if err != nil {
		slog.Warn("failed to create message stream", "id", p.GetTaskID())
		return nil, err
	}

	stream, err := e.lm.Chat(ctx, api.ChatRequest{
		Query:        buf.String(),
		SystemPrompt: promptResearchSystem,
	})
	if err != nil {
		slog.Warn("error creating chat completion stream, cancelling task")
		msgStream.Send(ctx, transport.MessageStreamPayload{
			Content: "something went wrong",
			Status:  transport.StatusErr,
		})
		return nil, err
	}
	defer stream.Close()

	output, err := transport.ProcessCompletionStream(ctx, msgStream, stream)
	if err != nil {
		return nil, fmt.Errorf("failed to process completion stream: %w", err)
	}

	return map[string]any{
		"analysis": output,
		"pages":    pages,
	}, nil
}
