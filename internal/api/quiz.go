package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

type QuestionType string

const (
	QuestionTypeMultiChoice QuestionType = "multi"
	QuestionTypeTrueFalse   QuestionType = "tf"
	QuestionTypeShortAnswer QuestionType = "short"
)

// QuizQuestion is a single generated question. Options is set for
// multiple-choice questions only.
type QuizQuestion struct {
	Type        QuestionType `json:"type"`
	Question    string       `json:"question"`
	Options     []string     `json:"options,omitempty"`
	Correct     string       `json:"correct"`
	Explanation string       `json:"explanation"`
}

// CheckAnswer reports whether the given answer matches the correct one.
// Comparison is case-insensitive on trimmed input.
func (q QuizQuestion) CheckAnswer(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.Correct))
}

// QuizGenerationResult is the outcome of a quiz generation workflow.
type QuizGenerationResult struct {
	Topic     string          `json:"topic"`
	Questions []*QuizQuestion `json:"questions"`
}

// AnswerResult is the response to a submitted quiz answer.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	Score         int    `json:"score"`
	Total         int    `json:"total"`
	Done          bool   `json:"done"`
}

// ParseQuizQuestions deserializes a model-generated question array,
// stripping markdown code fences if the model wrapped its output.
func ParseQuizQuestions(content string) ([]*QuizQuestion, error) {
	content = strings.TrimSpace(content)
	if after, found := strings.CutPrefix(content, "```json"); found {
		content, _, _ = strings.Cut(after, "```")
	} else if after, found := strings.CutPrefix(content, "```"); found {
		content, _, _ = strings.Cut(after, "```")
	}
	content = strings.TrimSpace(content)

	var questions []*QuizQuestion
	if err := json.Unmarshal([]byte(content), &questions); err != nil {
		return nil, fmt.Errorf("failed to deserialize generated questions: %w", err)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("generated question list is empty")
	}

	for i, q := range questions {
		if q.Question == "" || q.Correct == "" {
			return nil, fmt.Errorf("generated question %d is missing required fields", i)
		}
	}

	return questions, nil
}
