package api_test

import (
	"testing"

	"github.com/solenecodes/web-search-agent/internal/api"
)

func TestParseQuizQuestions(t *testing.T) {
	content := `[
		{"type": "multi", "question": "Pick one", "options": ["A) a", "B) b"], "correct": "A) a", "explanation": "because"},
		{"type": "tf", "question": "True or false?", "correct": "true", "explanation": "it is"}
	]`

	questions, err := api.ParseQuizQuestions(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, expected 2", len(questions))
	}
	if questions[0].Type != api.QuestionTypeMultiChoice {
		t.Errorf("got type '%s', expected 'multi'", questions[0].Type)
	}
	if len(questions[0].Options) != 2 {
		t.Errorf("got %d options, expected 2", len(questions[0].Options))
	}
}

func TestParseQuizQuestionsStripsFences(t *testing.T) {
	fenced := "```json\n[{\"type\": \"short\", \"question\": \"Name it\", \"correct\": \"CLU\", \"explanation\": \"acronym\"}]\n```"

	questions, err := api.ParseQuizQuestions(fenced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, expected 1", len(questions))
	}
	if questions[0].Correct != "CLU" {
		t.Errorf("got correct answer '%s', expected 'CLU'", questions[0].Correct)
	}

	bare := "```\n[{\"type\": \"tf\", \"question\": \"Yes?\", \"correct\": \"true\", \"explanation\": \"yes\"}]\n```"
	questions, err = api.ParseQuizQuestions(bare)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, expected 1", len(questions))
	}
}

func TestParseQuizQuestionsRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"not json":       "this is not json",
		"empty list":     "[]",
		"missing fields": `[{"type": "tf", "question": "", "correct": ""}]`,
	}

	for name, content := range cases {
		if _, err := api.ParseQuizQuestions(content); err == nil {
			t.Errorf("%s: expected error, got none", name)
		}
	}
}

func TestCheckAnswer(t *testing.T) {
	q := api.QuizQuestion{
		Type:    api.QuestionTypeMultiChoice,
		Correct: "B) 120,000 TPM",
	}

	cases := []struct {
		answer string
		want   bool
	}{
		{"B) 120,000 TPM", true},
		{"b) 120,000 tpm", true},
		{"  B) 120,000 TPM  ", true},
		{"A) 1,000 TPM", false},
		{"", false},
	}

	for _, c := range cases {
		if got := q.CheckAnswer(c.answer); got != c.want {
			t.Errorf("CheckAnswer(%q) = %v, expected %v", c.answer, got, c.want)
		}
	}
}
