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

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/solenecodes/web-search-agent/internal/transport"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// dispatch enqueues the task and waits for its serialized result on the
// task's message stream. Intermediate content payloads are drained; the
// terminal payload carries the result document.
func (s *Server) dispatch(ctx context.Context, t *asynq.Task) (string, error) {
	info, err := s.asynqClient.Enqueue(t)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}
	slog.Info("enqueued task successfully", "id", info.ID)

	tstream, err := s.transport.GetMessageStream(info.ID)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve stream '%s': %w", info.ID, err)
	}

	return awaitResult(ctx, info.ID, tstream)
}

func awaitResult(ctx context.Context, traceID string, tstream transport.MessageStream) (string, error) {
	readFails := 0
	for {
		msg, err := tstream.Recv(ctx)

		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}

			slog.Warn("failed to read from stream", "stream", traceID)
			readFails += 1
			if readFails >= 10 {
				slog.Error("exceeded stream read attempts, failed", "id", traceID)
				return "", fmt.Errorf("exceeded stream read attempts")
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		readFails = 0

		switch msg.Status {
		case transport.StatusErr:
			return "", fmt.Errorf("task failed: %s", msg.Content)
		case transport.StatusDone:
			slog.Debug("message stream done", "trace", traceID)
			return msg.Content, nil
		}
	}
}
