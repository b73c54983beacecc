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

package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeSearch   = "agent:search"
	TypeResearch = "agent:research"
	TypeQuiz     = "agent:quiz"
	TypeIndex    = "agent:index"
)

const (
	DefaultWorkflowSearch   = "search"
	DefaultWorkflowResearch = "research"
	DefaultWorkflowQuiz     = "quiz"
	DefaultWorkflowIndex    = "index"
)

type searchTaskPayload struct {
	Query string
	User  string
	Args  map[string]any
}

type quizTaskPayload struct {
	Topic        string
	NumQuestions int
	User         string
	Args         map[string]any
}

func NewSearchTask(query string, user string, args map[string]any) (*asynq.Task, error) {
	tp := searchTaskPayload{
		Query: query,
		User:  user,
		Args:  args,
	}
	payload, err := json.Marshal(tp)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSearch, payload), nil
}

func NewResearchTask(query string, user string, args map[string]any) (*asynq.Task, error) {
	tp := searchTaskPayload{
		Query: query,
		User:  user,
		Args:  args,
	}
	payload, err := json.Marshal(tp)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeResearch, payload), nil
}

func NewQuizTask(topic string, numQuestions int, user string) (*asynq.Task, error) {
	tp := quizTaskPayload{
		Topic:        topic,
		NumQuestions: numQuestions,
		User:         user,
	}
	payload, err := json.Marshal(tp)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeQuiz, payload), nil
}

func NewIndexTask(query string, user string, args map[string]any) (*asynq.Task, error) {
	tp := searchTaskPayload{
		Query: query,
		User:  user,
		Args:  args,
	}
	payload, err := json.Marshal(tp)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeIndex, payload), nil
}
