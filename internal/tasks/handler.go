package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/executor"
	"github.com/solenecodes/web-search-agent/internal/registry"
	"github.com/solenecodes/web-search-agent/internal/transport"
	"github.com/solenecodes/web-search-agent/internal/vector"
)

type TaskHandler struct {
	transport   transport.Transport
	vectorStore vector.Store
}

func NewTaskHandler(transport transport.Transport, vectorStore vector.Store) *TaskHandler {
	return &TaskHandler{
		transport:   transport,
		vectorStore: vectorStore,
	}
}

func (h TaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var query, workflowId, user string
	args := make(map[string]any)

	switch t.Type() {
	case TypeSearch, TypeResearch, TypeIndex:
		var p searchTaskPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return err
		}
		slog.Info("received task", "type", t.Type(), "user", p.User, "query", p.Query)

		for k, v := range p.Args {
			args[k] = v
		}
		query = p.Query
		user = p.User

		switch t.Type() {
		case TypeSearch:
			workflowId = DefaultWorkflowSearch
		case TypeResearch:
			workflowId = DefaultWorkflowResearch
		case TypeIndex:
			workflowId = DefaultWorkflowIndex
		}

	case TypeQuiz:
		var p quizTaskPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return err
		}
		slog.Info("received quiz task", "user", p.User, "topic", p.Topic, "numQuestions", p.NumQuestions)

		for k, v := range p.Args {
			args[k] = v
		}
		if p.NumQuestions > 0 {
			args["num_questions"] = p.NumQuestions
		}
		query = p.Topic
		user = p.User
		workflowId = DefaultWorkflowQuiz

	default:
		return fmt.Errorf("unrecognized task type (%w)", asynq.SkipRetry)
	}

	id := t.ResultWriter().TaskID()
	slog.Info("task id", "id", id)
	ms, err := h.transport.GetMessageStream(id)
	if err != nil {
		slog.Error("failed to initialize message stream", "err", err)
		return fmt.Errorf("failed to initialize message stream: %v (%w)", err, asynq.SkipRetry)
	}

	trace := &transport.RequestTrace{
		ID:          id,
		Status:      transport.TraceStatusRunning,
		StartedAt:   time.Now().UnixNano(),
		CompletedAt: 0,
		Query:       query,
		User:        user,
	}
	err = h.transport.SetTrace(ctx, trace)
	if err != nil {
		slog.Error("failed to set trace", "id", id, "err", err)
	}

	workflow, err := registry.GetWorkflow(workflowId)
	if err != nil {
		errf := fmt.Errorf("workflow not found: %v (%w)", err, asynq.SkipRetry)
		slog.Error(fmt.Sprintf("%v", errf))
		ms.Send(ctx, transport.MessageStreamPayload{
			Content: "workflow not found",
			Status:  transport.StatusErr,
		})

		h.completeTrace(ctx, trace, transport.TraceStatusFailed)
		return errf
	}

	params := executor.NewExecutorParams(
		id,
		query,
		executor.WithTransport(h.transport),
		executor.WithVectorStore(h.vectorStore),
		executor.WithArgs(args),
	)

	res := workflow.Execute(ctx, params)
	if res.Err != nil {
		ms.Send(ctx, transport.MessageStreamPayload{
			Content: "workflow execution failed",
			Status:  transport.StatusErr,
		})

		h.completeTrace(ctx, trace, transport.TraceStatusFailed)
		return fmt.Errorf("workflow execution failed: %v (%w)", res.Err, asynq.SkipRetry)
	}

	result, err := buildResult(t.Type(), query, res)
	if err != nil {
		slog.Error("failed to build task result", "id", id, "err", err)
		ms.Send(ctx, transport.MessageStreamPayload{
			Content: "failed to build task result",
			Status:  transport.StatusErr,
		})

		h.completeTrace(ctx, trace, transport.TraceStatusFailed)
		return fmt.Errorf("failed to build task result: %v (%w)", err, asynq.SkipRetry)
	}

	// final payload carries the serialized workflow result
	err = ms.Send(ctx, transport.MessageStreamPayload{
		Content: result,
		Status:  transport.StatusDone,
	})
	if err != nil {
		slog.Warn("failed to write DONE message to stream", "id", id)
	}

	h.completeTrace(ctx, trace, transport.TraceStatusCompleted)
	return nil
}

func (h TaskHandler) completeTrace(ctx context.Context, trace *transport.RequestTrace, status int) {
	trace.CompletedAt = time.Now().UnixNano()
	trace.Status = status
	if err := h.transport.SetTrace(ctx, trace); err != nil {
		slog.Error("failed to set trace", "id", trace.ID, "err", err)
	}
}

// buildResult serializes the workflow output values into the response
// document for the given task type.
func buildResult(taskType string, query string, res *executor.ExecutorResult) (string, error) {
	var result any

	switch taskType {
	case TypeSearch:
		pages, _ := executor.GetTypedResult[[]*api.PageContent](res, "pages")
		totalFound, _ := executor.GetTypedResult[int](res, "total_found")
		totalFetched, _ := executor.GetTypedResult[int](res, "total_fetched")
		if pages == nil {
			pages = []*api.PageContent{}
		}
		result = &api.SearchResponse{
			Query:        query,
			Pages:        pages,
			TotalFound:   totalFound,
			TotalFetched: totalFetched,
		}

	case TypeResearch:
		analysis, ok := executor.GetTypedResult[string](res, "analysis")
		if !ok {
			return "", fmt.Errorf("workflow produced no analysis")
		}
		pages, _ := executor.GetTypedResult[[]*api.PageContent](res, "pages")
		result = &api.ResearchResponse{
			Query:    query,
			Analysis: analysis,
			Sources:  pages,
		}

	case TypeQuiz:
		questions, ok := executor.GetTypedResult[[]*api.QuizQuestion](res, "questions")
		if !ok {
			return "", fmt.Errorf("workflow produced no questions")
		}
		topic, _ := executor.GetTypedResult[string](res, "topic")
		result = &api.QuizGenerationResult{
			Topic:     topic,
			Questions: questions,
		}

	case TypeIndex:
		pointsIndexed, _ := executor.GetTypedResult[int](res, "points_indexed")
		result = map[string]any{
			"points_indexed": pointsIndexed,
		}

	default:
		return "", fmt.Errorf("unrecognized task type '%s'", taskType)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
