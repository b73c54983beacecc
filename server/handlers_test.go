package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/quiz"
	"github.com/solenecodes/web-search-agent/internal/transport"
)

func newTestServer() *Server {
	return &Server{
		config:   DefaultConfig(),
		sessions: quiz.NewMemoryStore(),
	}
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer()

	w := doRequest(t, s, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, expected 200", w.Code)
	}

	var body map[string]string
	decodeBody(t, w, &body)
	if body["status"] != "healthy" {
		t.Errorf("got status '%s', expected 'healthy'", body["status"])
	}
	if body["service"] == "" {
		t.Error("expected service name in health response")
	}
}

func TestHandlersRejectEmptyQuery(t *testing.T) {
	s := newTestServer()

	cases := map[string]string{
		"/search":   `{"query": ""}`,
		"/run":      `{}`,
		"/research": `{"query": ""}`,
		"/index":    `{"query": ""}`,
	}

	for path, body := range cases {
		w := doRequest(t, s, http.MethodPost, path, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: got status %d, expected 400", path, w.Code)
			continue
		}

		var resp map[string]string
		decodeBody(t, w, &resp)
		if resp["detail"] != "No query provided" {
			t.Errorf("%s: got detail '%s', expected 'No query provided'", path, resp["detail"])
		}
	}
}

func TestHandlersRejectMalformedBody(t *testing.T) {
	s := newTestServer()

	for _, path := range []string{"/search", "/run", "/research", "/index", "/quiz"} {
		w := doRequest(t, s, http.MethodPost, path, "not json")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: got status %d, expected 400", path, w.Code)
		}
	}
}

func TestHandleOpenAPISpec(t *testing.T) {
	s := newTestServer()

	w := doRequest(t, s, http.MethodGet, "/openapi.json", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, expected 200", w.Code)
	}

	var spec map[string]any
	decodeBody(t, w, &spec)

	if spec["openapi"] != "3.0.0" {
		t.Errorf("got openapi version %v, expected '3.0.0'", spec["openapi"])
	}

	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		t.Fatal("spec missing paths")
	}
	if _, ok := paths["/search"]; !ok {
		t.Error("spec missing /search path")
	}
}

func storedSession(t *testing.T, s *Server) *quiz.Session {
	t.Helper()

	session := quiz.NewSession("Azure AI services", []*api.QuizQuestion{
		{
			Type:        api.QuestionTypeMultiChoice,
			Question:    "Pick the right tier",
			Options:     []string{"A) Free", "B) Standard"},
			Correct:     "B) Standard",
			Explanation: "standard it is",
		},
		{
			Type:     api.QuestionTypeTrueFalse,
			Question: "Is it managed?",
			Correct:  "true",
		},
	})
	if err := s.sessions.Set(context.Background(), session); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return session
}

func TestHandleQuizGet(t *testing.T) {
	s := newTestServer()
	session := storedSession(t, s)

	w := doRequest(t, s, http.MethodGet, "/quiz/"+session.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, expected 200", w.Code)
	}

	raw := w.Body.String()
	for _, leaked := range []string{"standard it is", "correct_answer", "explanation"} {
		if strings.Contains(raw, leaked) {
			t.Errorf("response leaks answer data: found '%s' in %s", leaked, raw)
		}
	}

	var resp quizSessionResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.SessionID != session.ID {
		t.Errorf("got session id '%s', expected '%s'", resp.SessionID, session.ID)
	}
	if resp.Total != 2 {
		t.Errorf("got total %d, expected 2", resp.Total)
	}
	if resp.Question == nil {
		t.Fatal("expected a current question")
	}
	if resp.Question.Index != 1 {
		t.Errorf("got question index %d, expected 1", resp.Question.Index)
	}
	if len(resp.Question.Options) != 2 {
		t.Errorf("got %d options, expected 2", len(resp.Question.Options))
	}
}

func TestHandleQuizGetUnknown(t *testing.T) {
	s := newTestServer()

	w := doRequest(t, s, http.MethodGet, "/quiz/nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("got status %d, expected 404", w.Code)
	}
}

func TestHandleQuizAnswer(t *testing.T) {
	s := newTestServer()
	session := storedSession(t, s)
	answerPath := fmt.Sprintf("/quiz/%s/answer", session.ID)

	w := doRequest(t, s, http.MethodPost, answerPath, `{"answer": "b) standard"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, expected 200", w.Code)
	}

	var first quizAnswerResponse
	decodeBody(t, w, &first)
	if !first.Correct {
		t.Error("expected case-insensitive answer to be correct")
	}
	if first.Score != 1 {
		t.Errorf("got score %d, expected 1", first.Score)
	}
	if first.Question == nil || first.Question.Index != 2 {
		t.Errorf("expected next question with index 2, got %+v", first.Question)
	}

	w = doRequest(t, s, http.MethodPost, answerPath, `{"answer": "false"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, expected 200", w.Code)
	}

	var second quizAnswerResponse
	decodeBody(t, w, &second)
	if second.Correct {
		t.Error("expected wrong answer to be incorrect")
	}
	if !second.Done {
		t.Error("expected quiz to be done after last answer")
	}
	if second.Question != nil {
		t.Errorf("expected no next question, got %+v", second.Question)
	}

	w = doRequest(t, s, http.MethodPost, answerPath, `{"answer": "true"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("got status %d, expected 409 on finished session", w.Code)
	}
}

// stubStream feeds canned payloads to awaitResult.
type stubStream struct {
	payloads []transport.MessageStreamPayload
	cursor   int
}

func (s *stubStream) Send(ctx context.Context, payload transport.MessageStreamPayload) error {
	return nil
}

func (s *stubStream) Recv(ctx context.Context) (*transport.MessageStreamPayload, error) {
	if s.cursor >= len(s.payloads) {
		return nil, fmt.Errorf("no more payloads")
	}
	p := s.payloads[s.cursor]
	s.cursor += 1
	return &p, nil
}

func (s *stubStream) Text(ctx context.Context) (string, error) {
	return "", nil
}

func (s *stubStream) GetID() string {
	return "stub"
}

func TestAwaitResult(t *testing.T) {
	stream := &stubStream{payloads: []transport.MessageStreamPayload{
		{Status: transport.StatusOK, Type: transport.MessageTypeContent, Content: "partial"},
		{Status: transport.StatusDone, Content: `{"query": "q"}`},
	}}

	result, err := awaitResult(context.Background(), "task-1", stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != `{"query": "q"}` {
		t.Errorf("got result '%s', expected terminal payload content", result)
	}
}

func TestAwaitResultError(t *testing.T) {
	stream := &stubStream{payloads: []transport.MessageStreamPayload{
		{Status: transport.StatusErr, Content: "workflow blew up"},
	}}

	if _, err := awaitResult(context.Background(), "task-1", stream); err == nil {
		t.Error("expected error from ERR payload, got none")
	}
}

func TestAwaitResultContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stream := &stubStream{}
	if _, err := awaitResult(ctx, "task-1", stream); err == nil {
		t.Error("expected error on cancelled context, got none")
	}
}
