package quiz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/quiz"
)

func newTestSession() *quiz.Session {
	return quiz.NewSession("Test Topic", []*api.QuizQuestion{
		{
			Type:        api.QuestionTypeTrueFalse,
			Question:    "First?",
			Correct:     "true",
			Explanation: "it is",
		},
		{
			Type:     api.QuestionTypeShortAnswer,
			Question: "Second?",
			Correct:  "answer",
		},
	})
}

func TestSessionAnswerFlow(t *testing.T) {
	s := newTestSession()

	if s.ID == "" {
		t.Error("expected session to get an id")
	}
	if s.Done() {
		t.Fatal("fresh session must not be done")
	}

	res, err := s.Answer("TRUE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Correct {
		t.Error("expected case-insensitive answer to be correct")
	}
	if res.Score != 1 {
		t.Errorf("got score %d, expected 1", res.Score)
	}
	if res.Done {
		t.Error("session must not be done after first answer")
	}
	if res.Explanation != "it is" {
		t.Errorf("got explanation '%s', expected 'it is'", res.Explanation)
	}

	res, err = s.Answer("wrong")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Correct {
		t.Error("expected wrong answer to be incorrect")
	}
	if res.Score != 1 {
		t.Errorf("got score %d, expected score to stay at 1", res.Score)
	}
	if res.CorrectAnswer != "answer" {
		t.Errorf("got correct answer '%s', expected 'answer'", res.CorrectAnswer)
	}
	if res.Explanation != "No explanation available." {
		t.Errorf("got explanation '%s', expected fallback text", res.Explanation)
	}
	if !res.Done {
		t.Error("expected session to be done after last answer")
	}
	if res.Total != 2 {
		t.Errorf("got total %d, expected 2", res.Total)
	}

	if _, err := s.Answer("anything"); !errors.Is(err, quiz.ErrSessionDone) {
		t.Errorf("got error %v, expected ErrSessionDone", err)
	}
}

func TestSessionCurrent(t *testing.T) {
	s := newTestSession()

	if q := s.Current(); q == nil || q.Question != "First?" {
		t.Errorf("got current question %+v, expected 'First?'", q)
	}

	s.Answer("true")
	if q := s.Current(); q == nil || q.Question != "Second?" {
		t.Errorf("got current question %+v, expected 'Second?'", q)
	}

	s.Answer("answer")
	if q := s.Current(); q != nil {
		t.Errorf("expected nil current question on finished session, got %+v", q)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := quiz.NewMemoryStore()
	s := newTestSession()

	if err := store.Set(ctx, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Topic != "Test Topic" {
		t.Errorf("got topic '%s', expected 'Test Topic'", loaded.Topic)
	}

	if _, err := store.Get(ctx, "unknown"); !errors.Is(err, quiz.ErrSessionNotFound) {
		t.Errorf("got error %v, expected ErrSessionNotFound", err)
	}
}
