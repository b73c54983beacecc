package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/quiz"
	"github.com/solenecodes/web-search-agent/internal/tasks"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "web-search-fetch-agent",
	})
}

// handleSearch runs the search-and-fetch workflow: URL discovery via
// web search, then a full-content fetch of every page found.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req api.SearchRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	}

	args := make(map[string]any)
	if req.MaxPages != nil {
		args["max_pages"] = *req.MaxPages
	}
	if req.MaxCharsPerPage != nil {
		args["max_chars_per_page"] = *req.MaxCharsPerPage
	}

	t, err := tasks.NewSearchTask(req.Query, "", args)
	if err != nil {
		slog.Error(err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result, err := s.dispatch(r.Context(), t)
	if err != nil {
		slog.Error("search task failed", "query", req.Query, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var resp api.SearchResponse
	if err := json.Unmarshal([]byte(result), &resp); err != nil {
		slog.Error("failed to deserialize search result", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, &resp)
}

// handleRun accepts the agent-service envelope and returns the same raw
// document as /search.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req api.RunRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := req.ResolveQuery()
	if query == "" {
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	}

	args := make(map[string]any)
	if req.MaxPages != nil {
		args["max_pages"] = *req.MaxPages
	}
	if req.MaxCharsPerPage != nil {
		args["max_chars_per_page"] = *req.MaxCharsPerPage
	}

	t, err := tasks.NewSearchTask(query, "", args)
	if err != nil {
		slog.Error(err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result, err := s.dispatch(r.Context(), t)
	if err != nil {
		slog.Error("run task failed", "query", query, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var resp api.SearchResponse
	if err := json.Unmarshal([]byte(result), &resp); err != nil {
		slog.Error("failed to deserialize search result", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, &resp)
}

// handleResearch runs search-and-fetch and synthesizes an analysis of
// the fetched content.
func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req api.SearchRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	}

	args := make(map[string]any)
	if req.MaxPages != nil {
		args["max_pages"] = *req.MaxPages
	}
	if req.MaxCharsPerPage != nil {
		args["max_chars_per_page"] = *req.MaxCharsPerPage
	}

	t, err := tasks.NewResearchTask(req.Query, "", args)
	if err != nil {
		slog.Error(err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result, err := s.dispatch(r.Context(), t)
	if err != nil {
		slog.Error("research task failed", "query", req.Query, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var resp api.ResearchResponse
	if err := json.Unmarshal([]byte(result), &resp); err != nil {
		slog.Error("failed to deserialize research result", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, &resp)
}

type indexRequest struct {
	Query      string `json:"query"`
	Collection string `json:"collection,omitempty"`
	MaxPages   *int   `json:"max_pages,omitempty"`
}

// handleIndex fetches pages for the query and indexes their contents
// into the vector store for later semantic retrieval.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	}

	args := make(map[string]any)
	if req.Collection != "" {
		args["collection_name"] = req.Collection
	}
	if req.MaxPages != nil {
		args["max_pages"] = *req.MaxPages
	}

	t, err := tasks.NewIndexTask(req.Query, "", args)
	if err != nil {
		slog.Error(err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result, err := s.dispatch(r.Context(), t)
	if err != nil {
		slog.Error("index task failed", "query", req.Query, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var resp map[string]any
	if err := json.Unmarshal([]byte(result), &resp); err != nil {
		slog.Error("failed to deserialize index result", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type quizCreateRequest struct {
	Topic        string `json:"topic,omitempty"`
	NumQuestions int    `json:"num_questions,omitempty"`
}

// questionView is a quiz question as shown to the player. Correct
// answers and explanations stay server-side until an answer is in.
type questionView struct {
	Index    int              `json:"index"`
	Total    int              `json:"total"`
	Type     api.QuestionType `json:"type"`
	Question string           `json:"question"`
	Options  []string         `json:"options,omitempty"`
}

type quizSessionResponse struct {
	SessionID string        `json:"session_id"`
	Topic     string        `json:"topic"`
	Total     int           `json:"total"`
	Score     int           `json:"score"`
	Done      bool          `json:"done"`
	Question  *questionView `json:"question,omitempty"`
}

func sessionResponse(session *quiz.Session) *quizSessionResponse {
	resp := &quizSessionResponse{
		SessionID: session.ID,
		Topic:     session.Topic,
		Total:     len(session.Questions),
		Score:     session.Score,
		Done:      session.Done(),
	}

	if q := session.Current(); q != nil {
		resp.Question = &questionView{
			Index:    session.Cursor + 1,
			Total:    len(session.Questions),
			Type:     q.Type,
			Question: q.Question,
			Options:  q.Options,
		}
	}
	return resp
}

func (s *Server) handleQuizCreate(w http.ResponseWriter, r *http.Request) {
	var req quizCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	numQuestions := req.NumQuestions
	if numQuestions == 0 {
		numQuestions = 5
	}
	numQuestions = max(1, min(20, numQuestions))

	t, err := tasks.NewQuizTask(req.Topic, numQuestions, "")
	if err != nil {
		slog.Error(err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result, err := s.dispatch(r.Context(), t)
	if err != nil {
		slog.Error("quiz task failed", "topic", req.Topic, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var gen api.QuizGenerationResult
	if err := json.Unmarshal([]byte(result), &gen); err != nil {
		slog.Error("failed to deserialize quiz result", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	session := quiz.NewSession(gen.Topic, gen.Questions)
	if err := s.sessions.Set(r.Context(), session); err != nil {
		slog.Error("failed to store quiz session", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(session))
}

func (s *Server) handleQuizGet(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, quiz.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "quiz session not found")
			return
		}
		slog.Error("failed to load quiz session", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(session))
}

type quizAnswerRequest struct {
	Answer string `json:"answer"`
}

type quizAnswerResponse struct {
	*api.AnswerResult
	Question *questionView `json:"question,omitempty"`
}

func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	var req quizAnswerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, quiz.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "quiz session not found")
			return
		}
		slog.Error("failed to load quiz session", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result, err := session.Answer(req.Answer)
	if err != nil {
		if errors.Is(err, quiz.ErrSessionDone) {
			writeError(w, http.StatusConflict, "quiz session is already finished")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := s.sessions.Set(r.Context(), session); err != nil {
		slog.Error("failed to store quiz session", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := &quizAnswerResponse{AnswerResult: result}
	if view := sessionResponse(session); view.Question != nil {
		resp.Question = view.Question
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	trace, err := s.transport.GetTrace(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "trace with given id does not exist")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"trace_id":     trace.ID,
		"status":       trace.Status,
		"started_at":   trace.StartedAt,
		"completed_at": trace.CompletedAt,
		"query":        trace.Query,
		"user":         trace.User,
	})
}
