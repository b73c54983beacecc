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
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/solenecodes/web-search-agent/internal/quiz"
	"github.com/solenecodes/web-search-agent/internal/transport"
)

type ServerConfig struct {
	ListenHost string
	ListenPort int

	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int

	// PublicURL is advertised in the OpenAPI tool spec served at
	// /openapi.json.
	PublicURL string
}

func DefaultConfig() ServerConfig {
	return ServerConfig{
		ListenPort: 8000,
		RedisAddr:  "localhost:6379",
		PublicURL:  "http://localhost:8000",
	}
}

// Server exposes the search-and-fetch agent service over HTTP.
type Server struct {
	config ServerConfig

	rdb *redis.Client

	transport   transport.Transport
	asynqClient *asynq.Client
	sessions    quiz.Store
}

func New(config ServerConfig) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Serve(ctx context.Context) error {
	lisAddr := fmt.Sprintf("%s:%d", s.config.ListenHost, s.config.ListenPort)

	rdb := redis.NewClient(&redis.Options{
		Addr:     s.config.RedisAddr,
		Username: s.config.RedisUsername,
		Password: s.config.RedisPassword,
		DB:       s.config.RedisDB,
	})
	defer rdb.Close()
	s.rdb = rdb

	s.transport = transport.NewRedisTransport(rdb)
	s.sessions = quiz.NewRedisStore(rdb)

	client := asynq.NewClientFromRedisClient(rdb)
	defer client.Close()
	s.asynqClient = client

	httpServer := &http.Server{
		Addr:              lisAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "listener", lisAddr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("failed to serve", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPISpec)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /run", s.handleRun)
	mux.HandleFunc("POST /research", s.handleResearch)
	mux.HandleFunc("POST /index", s.handleIndex)

	mux.HandleFunc("POST /quiz", s.handleQuizCreate)
	mux.HandleFunc("GET /quiz/{id}", s.handleQuizGet)
	mux.HandleFunc("POST /quiz/{id}/answer", s.handleQuizAnswer)

	mux.HandleFunc("GET /trace/{id}", s.handleTrace)

	return mux
}
