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

package worker

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/solenecodes/web-search-agent/internal/config"
	"github.com/solenecodes/web-search-agent/internal/executor"
	"github.com/solenecodes/web-search-agent/internal/fetch"
	"github.com/solenecodes/web-search-agent/internal/modules/generation"
	"github.com/solenecodes/web-search-agent/internal/modules/indexing"
	"github.com/solenecodes/web-search-agent/internal/modules/postretrieval"
	"github.com/solenecodes/web-search-agent/internal/modules/retrieval"
	"github.com/solenecodes/web-search-agent/internal/provider"
	"github.com/solenecodes/web-search-agent/internal/registry"
	"github.com/solenecodes/web-search-agent/internal/tasks"
	"github.com/solenecodes/web-search-agent/internal/transport"
	"github.com/solenecodes/web-search-agent/internal/vector"
)

type WorkerConfig struct {
	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int

	QdrantHost string
	QdrantPort int

	WorkflowsPath string
	Concurrency   int

	Credentials provider.Credentials
}

func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		RedisAddr:   "localhost:6379",
		QdrantHost:  "localhost",
		QdrantPort:  6334,
		Concurrency: 10,
	}
}

type Worker struct {
	config WorkerConfig

	rdb         *redis.Client
	asynqServer *asynq.Server

	transport   transport.Transport
	vectorStore vector.Store
}

func New(config WorkerConfig) *Worker {
	return &Worker{
		config: config,
	}
}

// RegisterModules constructs the executor modules from the configured
// credentials and registers them. A module whose provider cannot be
// initialized is skipped; workflows referencing it will fail to parse.
func (w *Worker) RegisterModules() {
	creds := w.config.Credentials
	fetcher := fetch.New()

	searcherType := provider.WebSearcherTypeAzureOpenAI
	if creds.AzureOpenAIEndpoint == "" {
		searcherType = provider.WebSearcherTypeTavily
	}
	if searcher, err := provider.NewWebSearcher(searcherType, creds); err != nil {
		slog.Error("failed to initialize executor", "name", "retrieval.Web", "err", err)
	} else if err := registry.RegisterExecutor("retrieval.Web", retrieval.NewWebExecutor(searcher, fetcher)); err != nil {
		slog.Error("failed to register executor", "name", "retrieval.Web", "err", err)
	}

	var semantic executor.Executor

	embedderType := provider.EmbedderTypeAzureOpenAI
	if creds.AzureOpenAIEndpoint == "" {
		embedderType = provider.EmbedderTypeGemini
	}
	if embedder, err := provider.NewEmbedder(embedderType, creds); err != nil {
		slog.Error("failed to initialize executor", "name", "indexing.Simple", "err", err)
	} else {
		if err := registry.RegisterExecutor("indexing.Simple", indexing.NewSimpleExecutor(embedder)); err != nil {
			slog.Error("failed to register executor", "name", "indexing.Simple", "err", err)
		}
		se := retrieval.NewSemanticExecutor(embedder)
		if err := registry.RegisterExecutor("retrieval.Semantic", se); err != nil {
			slog.Error("failed to register executor", "name", "retrieval.Semantic", "err", err)
		}
		semantic = se
	}

	if err := registry.RegisterExecutor("retrieval.Docs", retrieval.NewDocsExecutor(provider.NewDocsSearcher(), semantic)); err != nil {
		slog.Error("failed to register executor", "name", "retrieval.Docs", "err", err)
	}

	lmType := provider.LMProviderTypeAzureOpenAI
	if creds.AzureOpenAIEndpoint == "" {
		lmType = provider.LMProviderTypeGemini
	}
	if lm, err := provider.NewLMProvider(lmType, creds); err != nil {
		slog.Error("failed to initialize executor", "name", "generation.Research", "err", err)
	} else {
		if err := registry.RegisterExecutor("generation.Research", generation.NewResearchExecutor(lm)); err != nil {
			slog.Error("failed to register executor", "name", "generation.Research", "err", err)
		}
		if err := registry.RegisterExecutor("generation.Quiz", generation.NewQuizExecutor(lm)); err != nil {
			slog.Error("failed to register executor", "name", "generation.Quiz", "err", err)
		}
	}

	if reranker, err := provider.NewReranker(provider.RerankerTypeCohere, creds); err != nil {
		slog.Error("failed to initialize executor", "name", "post.Rerank", "err", err)
	} else if err := registry.RegisterExecutor("post.Rerank", postretrieval.NewRerankExecutor(reranker)); err != nil {
		slog.Error("failed to register executor", "name", "post.Rerank", "err", err)
	}
}

// RegisterWorkflows loads workflow definitions from the configured YAML
// file, falling back to the built-in defaults when no file is present.
func (w *Worker) RegisterWorkflows() error {
	path := w.config.WorkflowsPath
	if path == "" {
		path = "workflows.yaml"
	}

	if _, err := os.Stat(path); err != nil {
		slog.Info("no workflow config found, using default workflows", "path", path)
		return registry.BatchRegisterWorkflows(defaultWorkflows())
	}

	wc, err := config.ReadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to read workflows config: %v", err)
	}

	workflows, err := config.ParseWorkflows(wc)
	if err != nil {
		return fmt.Errorf("failed to parse workflows config: %v", err)
	}

	err = registry.BatchRegisterWorkflows(workflows)
	if err != nil {
		return fmt.Errorf("failed to register workflows: %v", err)
	}
	return nil
}

func defaultWorkflows() map[string]*executor.Workflow {
	type nodeSpec struct {
		module   string
		operator string
		args     map[string]any
	}

	workflows := make(map[string]*executor.Workflow)

	build := func(id, description string, specs []nodeSpec) {
		nodes := make([]executor.WorkflowNode, 0, len(specs))
		for _, spec := range specs {
			exec, err := registry.GetExecutor(spec.module)
			if err != nil {
				slog.Error("default workflow unavailable", "workflow", id, "module", spec.module, "err", err)
				return
			}
			args := spec.args
			if args == nil {
				args = map[string]any{}
			}
			nodes = append(nodes, executor.NewWorkflowNode(exec, spec.operator, args))
		}
		workflows[id] = executor.NewWorkflow(id, description, nodes)
	}

	build(tasks.DefaultWorkflowSearch, "web search with full page content fetch", []nodeSpec{
		{module: "retrieval.Web", operator: "search"},
	})

	build(tasks.DefaultWorkflowResearch, "web search, fetch and synthesized analysis", []nodeSpec{
		{module: "retrieval.Web", operator: "search"},
		{module: "generation.Research", operator: "synthesize"},
	})

	build(tasks.DefaultWorkflowQuiz, "docs-grounded quiz question generation", []nodeSpec{
		{module: "retrieval.Docs", operator: "search", args: map[string]any{"collection_name": "default"}},
		{module: "generation.Quiz", operator: "questions"},
	})

	build(tasks.DefaultWorkflowIndex, "web search, fetch and vector store indexing", []nodeSpec{
		{module: "retrieval.Web", operator: "search"},
		{module: "indexing.Simple", operator: "index_pages", args: map[string]any{"collection_name": "default"}},
	})

	return workflows
}

func (w *Worker) Start() error {
	w.rdb = redis.NewClient(&redis.Options{
		Addr:     w.config.RedisAddr,
		Username: w.config.RedisUsername,
		Password: w.config.RedisPassword,
		DB:       w.config.RedisDB,
	})
	defer w.rdb.Close()

	concurrency := w.config.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	w.asynqServer = asynq.NewServerFromRedisClient(
		w.rdb,
		asynq.Config{
			Concurrency: concurrency,
		},
	)

	w.transport = transport.NewRedisTransport(w.rdb)

	vs, err := vector.NewQdrantStore(w.config.QdrantHost, w.config.QdrantPort)
	if err != nil {
		return fmt.Errorf("failed to initialize vector store: %w", err)
	}
	w.vectorStore = vs
	defer w.vectorStore.Close()

	w.RegisterModules()
	if err := w.RegisterWorkflows(); err != nil {
		return err
	}

	handler := tasks.NewTaskHandler(w.transport, w.vectorStore)

	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeSearch, handler)
	mux.Handle(tasks.TypeResearch, handler)
	mux.Handle(tasks.TypeQuiz, handler)
	mux.Handle(tasks.TypeIndex, handler)

	if err := w.asynqServer.Run(mux); err != nil {
		return err
	}
	return nil
}
