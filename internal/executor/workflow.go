package executor

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/solenecodes/web-search-agent/internal/api"
)

type WorkflowNode struct {
	executor Executor
	operator string
	args     map[string]any
}

func NewWorkflowNode(executor Executor, operator string, args map[string]any) WorkflowNode {
	node := WorkflowNode{
		executor: executor,
		operator: operator,
		args:     args,
	}
	return node
}

func (n *WorkflowNode) Execute(ctx context.Context, params *ExecutorParams) *ExecutorResult {
	return n.executor.Execute(ctx, params)
}

type Workflow struct {
	identifier  string
	description string

	nodes []WorkflowNode
}

func NewWorkflow(identifier string, description string, nodes []WorkflowNode) *Workflow {
	workflow := &Workflow{
		identifier:  identifier,
		description: description,
		nodes:       nodes,
	}
	return workflow
}

func (w *Workflow) ID() string {
	return w.identifier
}

func (w *Workflow) Description() string {
	return w.description
}

// Execute runs the workflow nodes in order. Each node result may feed
// the next: a "query_transformed" value rewrites the active query, and
// "context_docs" values accumulate (or replace, when the node sets
// "replace_context") in the shared args. The final result carries the
// accumulated values so the caller can read workflow outputs.
func (w *Workflow) Execute(ctx context.Context, params *ExecutorParams) *ExecutorResult {
	slog.Info("executing workflow", "workflowId", w.identifier, "query", params.GetQuery(), "id", params.GetTaskID())

	accValues := make(map[string]any)

	for _, node := range w.nodes {
		nodeParams := params.Copy()
		nodeParams.Operator = node.operator
		maps.Copy(nodeParams.Args, node.args)

		result := node.executor.Execute(ctx, nodeParams)

		if result.Err != nil {
			slog.Error("failed to execute node", "workflowId", w.identifier,
				"executor", result.Name, "error", fmt.Sprintf("(%T): %v", result.Err, result.Err))
			return result
		}

		maps.Copy(accValues, result.Values)

		if queryTransformed, ok := result.Values["query_transformed"].(string); ok {
			// node executor returned a new transformed query,
			// set it as new query in params
			params = params.WithQuery(queryTransformed)
		}

		if pages, ok := result.Values["pages"].([]*api.PageContent); ok {
			// fetched pages feed downstream synthesis and indexing nodes
			params.Args["pages"] = pages
		}

		if newContext, ok := result.Values["context_docs"].([]*api.ScoredDocument); ok {
			if replace, _ := result.Values["replace_context"].(bool); replace {
				params.Args["context_docs"] = newContext
				continue
			}

			existing, ok := params.Args["context_docs"]
			if !ok {
				params.Args["context_docs"] = newContext
				continue
			}

			existingTyped, ok := existing.([]*api.ScoredDocument)
			if !ok {
				slog.Error("workflow error", "msg", "invalid type of context docs in params")
				continue
			}
			params.Args["context_docs"] = append(existingTyped, newContext...)
		}
	}

	return &ExecutorResult{
		Name:   w.identifier,
		Err:    nil,
		Values: accValues,
	}
}
