package provider

import (
	"context"
	"errors"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/provider/cohere"
	"github.com/solenecodes/web-search-agent/internal/provider/gemini"
	"github.com/solenecodes/web-search-agent/internal/provider/learn"
	"github.com/solenecodes/web-search-agent/internal/provider/openai"
	"github.com/solenecodes/web-search-agent/internal/provider/tavily"
)

var (
	ErrInvalidLMProviderType  = errors.New("no lmprovider found for given type")
	ErrInvalidEmbedderType    = errors.New("no embeddings provider found for given type")
	ErrInvalidWebSearcherType = errors.New("no web searcher found for given type")
	ErrInvalidRerankerType    = errors.New("no reranker found for given type")
	ErrMissingCredentials     = errors.New("provider credentials are not configured")
)

const (
	LMProviderTypeAzureOpenAI LMProviderType = iota
	LMProviderTypeGemini
)

const (
	EmbedderTypeAzureOpenAI EmbedderType = iota
	EmbedderTypeGemini
)

const (
	WebSearcherTypeAzureOpenAI WebSearcherType = iota
	WebSearcherTypeTavily
)

const (
	RerankerTypeCohere RerankerType = iota
)

type LMProviderType int
type EmbedderType int
type WebSearcherType int
type RerankerType int

// Credentials hold the provider secrets and endpoints resolved once at
// process start. Providers never read the environment themselves.
type Credentials struct {
	AzureOpenAIEndpoint   string
	AzureOpenAIKey        string
	AzureOpenAIDeployment string

	TavilyKey string
	CohereKey string
	GeminiKey string
}

func (c Credentials) azure() openai.Config {
	return openai.Config{
		Endpoint:   c.AzureOpenAIEndpoint,
		APIKey:     c.AzureOpenAIKey,
		Deployment: c.AzureOpenAIDeployment,
	}
}

type LMProvider interface {
	Generate(ctx context.Context, req api.GenerationRequest) (api.CompletionStream, error)
	Chat(ctx context.Context, req api.ChatRequest) (api.CompletionStream, error)
}

func NewLMProvider(t LMProviderType, creds Credentials) (LMProvider, error) {
	switch t {
	case LMProviderTypeAzureOpenAI:
		if creds.AzureOpenAIEndpoint == "" || creds.AzureOpenAIKey == "" {
			return nil, ErrMissingCredentials
		}
		return openai.New(creds.azure()), nil
	case LMProviderTypeGemini:
		if creds.GeminiKey == "" {
			return nil, ErrMissingCredentials
		}
		return gemini.New(creds.GeminiKey), nil
	default:
		return nil, ErrInvalidLMProviderType
	}
}

type Embedder interface {
	EmbedQuery(ctx context.Context, q string) ([]float32, error)
	EmbedDocuments(ctx context.Context, docs []*api.EmbedDocumentRequest) ([]*api.DocumentEmbedding, error)
	GetDimensions() uint
}

func NewEmbedder(t EmbedderType, creds Credentials) (Embedder, error) {
	switch t {
	case EmbedderTypeAzureOpenAI:
		if creds.AzureOpenAIEndpoint == "" || creds.AzureOpenAIKey == "" {
			return nil, ErrMissingCredentials
		}
		return openai.New(creds.azure()), nil
	case EmbedderTypeGemini:
		if creds.GeminiKey == "" {
			return nil, ErrMissingCredentials
		}
		return gemini.New(creds.GeminiKey), nil
	default:
		return nil, ErrInvalidEmbedderType
	}
}

// WebSearcher discovers pages relevant to a query. Result documents
// always carry a URL; content may be a snippet or empty, full page
// text is the fetcher's job.
type WebSearcher interface {
	Search(ctx context.Context, req api.WebSearchRequest) (*api.WebSearchResponse, error)
}

func NewWebSearcher(t WebSearcherType, creds Credentials) (WebSearcher, error) {
	switch t {
	case WebSearcherTypeAzureOpenAI:
		if creds.AzureOpenAIEndpoint == "" || creds.AzureOpenAIKey == "" {
			return nil, ErrMissingCredentials
		}
		return openai.New(creds.azure()), nil
	case WebSearcherTypeTavily:
		if creds.TavilyKey == "" {
			return nil, ErrMissingCredentials
		}
		return tavily.New(creds.TavilyKey), nil
	default:
		return nil, ErrInvalidWebSearcherType
	}
}

type Reranker interface {
	Rerank(ctx context.Context, req api.RerankRequest) (*api.RerankResponse, error)
}

func NewReranker(t RerankerType, creds Credentials) (Reranker, error) {
	switch t {
	case RerankerTypeCohere:
		if creds.CohereKey == "" {
			return nil, ErrMissingCredentials
		}
		return cohere.New(creds.CohereKey), nil
	default:
		return nil, ErrInvalidRerankerType
	}
}

// DocsSearcher queries a documentation index, e.g. Microsoft Learn.
type DocsSearcher interface {
	SearchDocs(ctx context.Context, topic string, limit int) ([]*api.ScoredDocument, error)
}

func NewDocsSearcher() DocsSearcher {
	return learn.New()
}
