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

package quiz

import (
	"errors"

	"github.com/google/uuid"
	"github.com/solenecodes/web-search-agent/internal/api"
)

var (
	ErrSessionNotFound = errors.New("quiz session not found")
	ErrSessionDone     = errors.New("quiz session is already finished")
)

// Session tracks a player's progress through a generated question set.
// Correct answers are never sent to the client; answers are checked
// server-side against the stored questions.
type Session struct {
	ID        string              `json:"id"`
	Topic     string              `json:"topic"`
	Questions []*api.QuizQuestion `json:"questions"`
	Cursor    int                 `json:"cursor"`
	Score     int                 `json:"score"`
}

func NewSession(topic string, questions []*api.QuizQuestion) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Topic:     topic,
		Questions: questions,
	}
}

// Current returns the question the session is waiting an answer for,
// or nil when the quiz is finished.
func (s *Session) Current() *api.QuizQuestion {
	if s.Done() {
		return nil
	}
	return s.Questions[s.Cursor]
}

func (s *Session) Done() bool {
	return s.Cursor >= len(s.Questions)
}

// Answer checks the given answer against the current question, advances
// the cursor and updates the score.
func (s *Session) Answer(answer string) (*api.AnswerResult, error) {
	q := s.Current()
	if q == nil {
		return nil, ErrSessionDone
	}

	correct := q.CheckAnswer(answer)
	if correct {
		s.Score += 1
	}
	s.Cursor += 1

	explanation := q.Explanation
	if explanation == "" {
		explanation = "No explanation available."
	}

	return &api.AnswerResult{
		Correct:       correct,
		CorrectAnswer: q.Correct,
		Explanation:   explanation,
		Score:         s.Score,
		Total:         len(s.Questions),
		Done:          s.Done(),
	}, nil
}
