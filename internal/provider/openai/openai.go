package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sashabaranov/go-openai"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/http"
)

const (
	apiVersion         = "2025-03-01-preview"
	embedMaxDocsLength = 2048
)

// Config carries the Azure OpenAI deployment coordinates.
type Config struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

type Provider struct {
	client *openai.Client

	// responses calls the Azure responses API, which the chat client
	// library does not cover
	responses  http.Client
	deployment string
	vectorDims int
}

func New(cfg Config) *Provider {
	azureConfig := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	c := openai.NewClientWithConfig(azureConfig)

	rc := http.NewClient(
		cfg.Endpoint,
		http.WithApiKey(cfg.APIKey),
		http.WithAuthHeader("api-key"),
		http.WithMaxRetries(3),
		http.WithQuery(url.Values{"api-version": []string{apiVersion}}),
	)

	return &Provider{
		client:     c,
		responses:  rc,
		deployment: cfg.Deployment,
		vectorDims: 1024,
	}
}

func (p Provider) Generate(ctx context.Context, req api.GenerationRequest) (api.CompletionStream, error) {
	openaiReq := openai.ChatCompletionRequest{
		Model:       p.deployment,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		Stream: true,
	}

	if req.ModelName != "" {
		openaiReq.Model = req.ModelName
	}

	s, err := p.client.CreateChatCompletionStream(ctx, openaiReq)
	if err != nil {
		return nil, err
	}

	return &ChatStream{stream: s}, nil
}

func (p Provider) Chat(ctx context.Context, req api.ChatRequest) (api.CompletionStream, error) {
	messages := make([]openai.ChatCompletionMessage, 0)

	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Query,
	})

	openaiReq := openai.ChatCompletionRequest{
		Model:    p.deployment,
		Messages: messages,
		Stream:   true,
	}

	if req.ModelName != "" {
		openaiReq.Model = req.ModelName
	}

	s, err := p.client.CreateChatCompletionStream(ctx, openaiReq)
	if err != nil {
		return nil, err
	}

	return &ChatStream{stream: s}, nil
}

func (p Provider) EmbedQuery(ctx context.Context, q string) ([]float32, error) {
	openaiReq := &openai.EmbeddingRequestStrings{
		Input:          []string{q},
		Model:          "text-embedding-3-small",
		EncodingFormat: "float",
		Dimensions:     p.vectorDims,
	}

	res, err := p.client.CreateEmbeddings(ctx, openaiReq)
	if err != nil {
		return nil, err
	}

	return res.Data[0].Embedding, nil
}

func (p Provider) EmbedDocuments(ctx context.Context, docs []*api.EmbedDocumentRequest) ([]*api.DocumentEmbedding, error) {
	docEmbeddings := make([]*api.DocumentEmbedding, 0, len(docs))

	for _, doc := range docs {
		if len(doc.Chunks) > embedMaxDocsLength {
			return nil, fmt.Errorf("length of chunks exceeds limit: accepts '%d', received '%d'", embedMaxDocsLength, len(doc.Chunks))
		}

		openaiReq := &openai.EmbeddingRequestStrings{
			Input:          doc.Chunks,
			Model:          "text-embedding-3-small",
			EncodingFormat: "float",
			Dimensions:     p.vectorDims,
		}

		res, err := p.client.CreateEmbeddings(ctx, openaiReq)
		if err != nil {
			return nil, fmt.Errorf("failed to create embeddings for document '%s': %w", doc.Title, err)
		}

		vals := make([][]float32, 0, len(res.Data))
		for _, e := range res.Data {
			vals = append(vals, e.Embedding)
		}

		docEmbeddings = append(docEmbeddings, &api.DocumentEmbedding{
			Title:  doc.Title,
			Source: doc.Source,
			Chunks: doc.Chunks,
			Values: vals,
		})
	}

	return docEmbeddings, nil
}

func (p Provider) GetDimensions() uint {
	return uint(p.vectorDims)
}

type responsesOutput struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type        string `json:"type"`
			Annotations []struct {
				Type string `json:"type"`
				Url  string `json:"url"`
			} `json:"annotations"`
		} `json:"content"`
	} `json:"output"`
}

// Search discovers page URLs for a query through the responses API
// web_search_preview tool. URLs come from the url_citation annotations
// of the message output, deduplicated in citation order. The returned
// documents carry URLs only.
func (p Provider) Search(ctx context.Context, req api.WebSearchRequest) (*api.WebSearchResponse, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	requestData := map[string]any{
		"model": p.deployment,
		"tools": []map[string]any{
			{"type": "web_search_preview"},
		},
		"input": req.Query,
	}

	resp, err := p.responses.Request(ctx, http.MethodPost, "/openai/responses", requestData)
	if err != nil {
		return nil, fmt.Errorf("web search request failed: %w", err)
	}

	jsonData, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize web search response: %w", err)
	}

	var searchResponse responsesOutput
	err = json.Unmarshal(jsonData, &searchResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize web search response: %w", err)
	}

	seen := make(map[string]bool)
	docs := make([]*api.ScoredDocument, 0)
	for _, item := range searchResponse.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			for _, annotation := range content.Annotations {
				if annotation.Type != "url_citation" || seen[annotation.Url] {
					continue
				}
				seen[annotation.Url] = true
				docs = append(docs, &api.ScoredDocument{Url: annotation.Url})
			}
		}
	}

	if req.Limit > 0 && len(docs) > req.Limit {
		docs = docs[:req.Limit]
	}

	return &api.WebSearchResponse{
		Query:   req.Query,
		Results: docs,
	}, nil
}

type ChatStream struct {
	stream *openai.ChatCompletionStream
}

func (s ChatStream) Recv() (string, error) {
	res, err := s.stream.Recv()
	if err != nil {
		return "", err
	}

	return res.Choices[0].Delta.Content, nil
}

func (s ChatStream) Close() error {
	return s.stream.Close()
}
