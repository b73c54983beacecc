package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/solenecodes/web-search-agent/internal/executor"
	"github.com/solenecodes/web-search-agent/internal/registry"
)

var (
	ErrNodeMissingChildren = errors.New("workflow must contain at least one node")
	ErrInvalidExecutor     = errors.New("invalid executor")
)

func ReadConfig(path string) (WorkflowConfig, error) {
	var wc WorkflowConfig

	file, err := os.ReadFile(path)
	if err != nil {
		return wc, fmt.Errorf("failed to read workflow config: %w", err)
	}

	if err := yaml.Unmarshal(file, &wc); err != nil {
		return wc, fmt.Errorf("failed to parse workflow config: %w", err)
	}

	return wc, nil
}

func ParseWorkflows(conf WorkflowConfig) (map[string]*executor.Workflow, error) {
	workflows := make(map[string]*executor.Workflow)

	for _, cw := range conf.Workflows {
		nodes, err := parseWorkflowNodes(cw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse node on '%s' workflow (%v)", cw.Identifier, err)
		}

		workflow := executor.NewWorkflow(
			cw.Identifier,
			cw.Description,
			nodes,
		)

		workflows[cw.Identifier] = workflow
	}

	return workflows, nil
}

func parseWorkflowNodes(cw Workflow) ([]executor.WorkflowNode, error) {
	if len(cw.Nodes) == 0 {
		return nil, ErrNodeMissingChildren
	}

	collectionName := cw.CollectionName
	if collectionName == "" {
		collectionName = "default"
	}

	execNodes := make([]executor.WorkflowNode, 0, len(cw.Nodes))
	for _, cnode := range cw.Nodes {
		exec, err := registry.GetExecutor(cnode.Module)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExecutor, err)
		}

		args := make(map[string]any, len(cnode.Args)+1)
		for k, v := range cnode.Args {
			args[k] = v
		}
		if _, ok := args["collection_name"]; !ok {
			args["collection_name"] = collectionName
		}

		execNodes = append(execNodes, executor.NewWorkflowNode(exec, cnode.Operator, args))
	}

	return execNodes, nil
}
