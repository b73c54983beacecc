package generation_test

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/executor"
	"github.com/solenecodes/web-search-agent/internal/modules/generation"
)

// chunkStream replays canned chunks as a completion stream.
type chunkStream struct {
	chunks []string
	cursor int
}

func (s *chunkStream) Recv() (string, error) {
	if s.cursor >= len(s.chunks) {
		return "", io.EOF
	}
	chunk := s.chunks[s.cursor]
	s.cursor += 1
	return chunk, nil
}

func (s *chunkStream) Close() error {
	return nil
}

type stubLM struct {
	chunks  []string
	chatErr error
}

func (s *stubLM) Generate(ctx context.Context, req api.GenerationRequest) (api.CompletionStream, error) {
	return &chunkStream{chunks: s.chunks}, nil
}

func (s *stubLM) Chat(ctx context.Context, req api.ChatRequest) (api.CompletionStream, error) {
	if s.chatErr != nil {
		return nil, s.chatErr
	}
	return &chunkStream{chunks: s.chunks}, nil
}

func TestQuizExecutorGeneratesQuestions(t *testing.T) {
	lm := &stubLM{chunks: []string{
		`[{"type": "tf", "question": `,
		`"Is it managed?", "correct": "true", "explanation": "it is"}]`,
	}}
	e := generation.NewQuizExecutor(lm)

	p := executor.NewExecutorParams("task-1", "Azure OpenAI quotas",
		executor.WithOperator("questions"),
		executor.WithArgs(map[string]any{"num_questions": 1}),
	)
	res := e.Execute(context.Background(), p)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	questions, ok := executor.GetTypedResult[[]*api.QuizQuestion](res, "questions")
	if !ok {
		t.Fatal("result missing questions")
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, expected 1", len(questions))
	}
	if questions[0].Type != api.QuestionTypeTrueFalse {
		t.Errorf("got type '%s', expected 'tf'", questions[0].Type)
	}

	topic, ok := executor.GetTypedResult[string](res, "topic")
	if !ok || topic != "Azure OpenAI quotas" {
		t.Errorf("got topic '%s', expected the query topic", topic)
	}
}

func TestQuizExecutorFallsBackOnModelFailure(t *testing.T) {
	lm := &stubLM{chatErr: fmt.Errorf("model unreachable")}
	e := generation.NewQuizExecutor(lm)

	p := executor.NewExecutorParams("task-1", "",
		executor.WithOperator("questions"),
		executor.WithArgs(map[string]any{"num_questions": 3}),
	)
	res := e.Execute(context.Background(), p)
	if res.Err != nil {
		t.Fatalf("expected fallback instead of error, got: %v", res.Err)
	}

	questions, ok := executor.GetTypedResult[[]*api.QuizQuestion](res, "questions")
	if !ok {
		t.Fatal("result missing questions")
	}
	if len(questions) != 3 {
		t.Errorf("got %d questions, expected 3 from fallback pool", len(questions))
	}

	topic, ok := executor.GetTypedResult[string](res, "topic")
	if !ok || topic == "" {
		t.Error("expected a default topic to be drawn for an empty query")
	}
}

func TestQuizExecutorClampsQuestionCount(t *testing.T) {
	lm := &stubLM{chatErr: fmt.Errorf("model unreachable")}
	e := generation.NewQuizExecutor(lm)

	p := executor.NewExecutorParams("task-1", "topic",
		executor.WithOperator("questions"),
		executor.WithArgs(map[string]any{"num_questions": 500}),
	)
	res := e.Execute(context.Background(), p)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	questions, _ := executor.GetTypedResult[[]*api.QuizQuestion](res, "questions")
	if len(questions) != generation.QuizMaxQuestions {
		t.Errorf("got %d questions, expected clamp to %d", len(questions), generation.QuizMaxQuestions)
	}
}

func TestFallbackQuestions(t *testing.T) {
	few := generation.FallbackQuestions(4)
	if len(few) != 4 {
		t.Fatalf("got %d questions, expected 4", len(few))
	}

	seen := make(map[string]bool)
	for _, q := range few {
		if seen[q.Question] {
			t.Errorf("question repeated before pool exhaustion: '%s'", q.Question)
		}
		seen[q.Question] = true
	}

	many := generation.FallbackQuestions(30)
	if len(many) != 30 {
		t.Errorf("got %d questions, expected 30 with repetition", len(many))
	}
}
