package generation

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"text/template"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/executor"
	"github.com/solenecodes/web-search-agent/internal/provider"
)

var quizExecutorDescriptor = "generation.Quiz"

const (
	QuizMinQuestions = 1
	QuizMaxQuestions = 20

	promptQuizSystem = `You are an expert AI-102 certification quiz generator.

Your role:
1. Generate challenging, exam-level questions on Azure AI services
2. Focus on: SDK implementation (Python/C#), quotas/limits, specs, edge cases, best practices
3. Use the provided documentation context to fetch current information
4. Create varied question types: multiple-choice (4 options A-D), true/false, short answer
5. Ensure questions are SPECIFIC with real values (e.g., "What is the default TPM limit for GPT-3.5-turbo?")
6. Always provide detailed explanations with references

CRITICAL: Generate NEW random questions each time. Never repeat. Focus on deep technical details.`

	promptQuizUser = `Generate exactly {{.NumQuestions}} NEW random AI-102 certification questions on this topic:
"{{.Topic}}"

Context from Microsoft Learn:
{{.DocsContext}}

Requirements:
- Mix of types: multiple-choice (4 options), true/false, short answer
- Deep technical: SDK code examples, specific limits (e.g., "1000 TPM"), quotas, edge cases
- Each question must be exam-level difficulty
- Return ONLY valid JSON array, no markdown formatting

Format:
[{"type": "multi", "question": "...", "options": ["A) ...", "B) ...", "C) ...", "D) ..."], "correct": "B) ...", "explanation": "..."},
 {"type": "tf", "question": "...", "correct": "true", "explanation": "..."},
 {"type": "short", "question": "...", "correct": "exact answer", "explanation": "..."}]`
)

// defaultTopics are drawn for quiz generation when the request does not
// name one.
var defaultTopics = []string{
	"Azure OpenAI Service SDK authentication methods quotas and TPM limits",
	"Azure AI Vision Custom Vision model training limits and SDK Python integration",
	"Azure Cognitive Search indexing limits skillsets and Python SDK",
	"Azure Bot Service channels configuration quotas and SDK integration",
	"Azure AI Language CLU intent recognition limits and best practices",
	"Azure AI Document Intelligence prebuilt layout model specifications",
	"Azure AI Foundry Prompt Flow SDK agent orchestration and limits",
	"Azure Content Safety text moderation API limits and SDK Python",
	"Azure Speech Service real-time transcription quotas and SDK",
	"Azure Translator Service character limits and custom models",
}

// fallbackQuestionPool serves quizzes when the model is unreachable or
// returns unparseable output.
var fallbackQuestionPool = []*api.QuizQuestion{
	{
		Type:        api.QuestionTypeMultiChoice,
		Question:    "What is the default token-per-minute (TPM) limit for Azure OpenAI GPT-3.5-turbo in Standard deployment?",
		Options:     []string{"A) 1,000 TPM", "B) 10,000 TPM", "C) 120,000 TPM", "D) 240,000 TPM"},
		Correct:     "C) 120,000 TPM",
		Explanation: "Azure OpenAI Standard deployment for GPT-3.5-turbo has a default quota of 120K tokens per minute.",
	},
	{
		Type:        api.QuestionTypeMultiChoice,
		Question:    "Which Python package is used to interact with Azure OpenAI Service?",
		Options:     []string{"A) azure-ai-openai", "B) openai", "C) azure-openai-sdk", "D) azureopenai"},
		Correct:     "B) openai",
		Explanation: "The 'openai' package is used with Azure OpenAI by configuring azure_endpoint and api_version parameters.",
	},
	{
		Type:        api.QuestionTypeTrueFalse,
		Question:    "Azure Custom Vision supports training models with less than 5 images per tag.",
		Correct:     "false",
		Explanation: "False. Azure Custom Vision requires a minimum of 5 images per tag for model training to ensure adequate learning.",
	},
	{
		Type:        api.QuestionTypeShortAnswer,
		Question:    "In Azure Cognitive Search, what is the maximum number of indexes allowed in a Basic tier?",
		Correct:     "15",
		Explanation: "Basic tier allows up to 15 indexes. Standard tier allows 50, while Free tier allows 3.",
	},
	{
		Type:        api.QuestionTypeMultiChoice,
		Question:    "Which skillset in Azure Cognitive Search extracts key phrases from text?",
		Options:     []string{"A) EntityRecognitionSkill", "B) KeyPhraseExtractionSkill", "C) LanguageDetectionSkill", "D) SentimentSkill"},
		Correct:     "B) KeyPhraseExtractionSkill",
		Explanation: "KeyPhraseExtractionSkill identifies and extracts key phrases from text content during indexing.",
	},
	{
		Type:        api.QuestionTypeTrueFalse,
		Question:    "Azure AI Document Intelligence prebuilt invoice model can extract line items from invoices.",
		Correct:     "true",
		Explanation: "True. The prebuilt invoice model extracts invoice fields including line items, totals, and vendor information.",
	},
	{
		Type:        api.QuestionTypeShortAnswer,
		Question:    "Which protocol does Azure Bot Service use for communication?",
		Correct:     "HTTP",
		Explanation: "Azure Bot Service uses HTTP/HTTPS for the Bot Framework Protocol communication.",
	},
	{
		Type:        api.QuestionTypeMultiChoice,
		Question:    "In Azure AI Language, what is the maximum number of characters per document for sentiment analysis?",
		Options:     []string{"A) 1,000", "B) 5,120", "C) 10,000", "D) 125,000"},
		Correct:     "B) 5,120",
		Explanation: "Azure AI Language Service has a limit of 5,120 characters per document for sentiment analysis.",
	},
	{
		Type:        api.QuestionTypeShortAnswer,
		Question:    "What is the acronym for the Azure service that handles conversational language understanding?",
		Correct:     "CLU",
		Explanation: "CLU stands for Conversational Language Understanding, part of Azure AI Language.",
	},
	{
		Type:        api.QuestionTypeMultiChoice,
		Question:    "Azure Content Safety API returns severity scores on what scale?",
		Options:     []string{"A) 0-10", "B) 0-100", "C) 0-6", "D) 1-5"},
		Correct:     "C) 0-6",
		Explanation: "Azure Content Safety returns severity scores from 0 (safe) to 6 (high severity) for each category.",
	},
	{
		Type:        api.QuestionTypeShortAnswer,
		Question:    "How many characters can be translated in a single request to Azure Translator?",
		Correct:     "50000",
		Explanation: "Azure Translator allows up to 50,000 characters per request across all text elements.",
	},
}

type QuizExecutor struct {
	lm provider.LMProvider

	operators map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error)

	templateQuizUser template.Template
}

func NewQuizExecutor(lm provider.LMProvider) *QuizExecutor {
	templ := template.Must(template.New("promptQuizUser").Parse(promptQuizUser))

	e := &QuizExecutor{
		lm:               lm,
		templateQuizUser: *templ,
	}
	e.operators = map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error){
		"questions": e.generateQuestions,
	}
	return e
}

func (e *QuizExecutor) Descriptor() string {
	return quizExecutorDescriptor
}

func (e *QuizExecutor) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	if p.Operator == "" {
		p.Operator = "questions"
	}
	slog.Info("executing", "name", quizExecutorDescriptor, "op", p.Operator, "query", p.GetQuery(), "id", p.GetTaskID())

	opFunc, exists := e.operators[p.Operator]
	if !exists {
		return &executor.ExecutorResult{
			Name:     quizExecutorDescriptor,
			Operator: p.Operator,
			Err: executor.ErrOperatorNotFound{
				ExecutorName: quizExecutorDescriptor,
				OperatorName: p.Operator,
			},
			Values: nil,
		}
	}

	vals, err := opFunc(ctx, p)

	return &executor.ExecutorResult{
		Name:     quizExecutorDescriptor,
		Operator: p.Operator,
		Err:      err,
		Values:   vals,
	}
}

// generateQuestions produces a question set for the requested topic. The
// query carries the topic; a random default is drawn when it is empty.
// Model failures fall back to the built-in question pool.
func (e *QuizExecutor) generateQuestions(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	numQuestions := 5
	if v, err := executor.GetIntArg(p, "num_questions"); err == nil {
		numQuestions = v
	}
	numQuestions = max(QuizMinQuestions, min(QuizMaxQuestions, numQuestions))

	topic := strings.TrimSpace(p.GetQuery())
	if topic == "" {
		topic = defaultTopics[rand.IntN(len(defaultTopics))]
	}

	docsContext := "No specific docs found."
	if docs, err := executor.GetTypedArg[[]*api.ScoredDocument](p, "context_docs"); err == nil && len(docs) > 0 {
		lines := make([]string, 0, len(docs))
		for _, doc := range docs {
			lines = append(lines, fmt.Sprintf("- %s: %s", doc.Title, doc.Content))
		}
		docsContext = strings.Join(lines, "\n")
	}

	type templatePayload struct {
		NumQuestions int
		Topic        string
		DocsContext  string
	}
	tp := templatePayload{
		NumQuestions: numQuestions,
		Topic:        topic,
		DocsContext:  docsContext,
	}

	var buf bytes.Buffer
	if err := e.templateQuizUser.Execute(&buf, tp); err != nil {
		return nil, fmt.Errorf("failed to parse prompt template for topic '%s': %w", topic, err)
	}

	questions, err := e.generateWithModel(ctx, buf.String())
	if err != nil {
		slog.Warn("question generation degraded to fallback pool", "topic", topic, "error", err)
		questions = FallbackQuestions(numQuestions)
	}

	if len(questions) > numQuestions {
		questions = questions[:numQuestions]
	}

	return map[string]any{
		"questions": questions,
		"topic":     topic,
	}, nil
}

func (e *QuizExecutor) generateWithModel(ctx context.Context, prompt string) ([]*api.QuizQuestion, error) {
	stream, err := e.lm.Chat(ctx, api.ChatRequest{
		Query:        prompt,
		SystemPrompt: promptQuizSystem,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion stream: %w", err)
	}

	content, err := api.StreamReadAll(ctx, stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read completion stream: %w", err)
	}

	return api.ParseQuizQuestions(content)
}

// FallbackQuestions draws n questions from the built-in pool, without
// replacement until the pool is exhausted.
func FallbackQuestions(n int) []*api.QuizQuestion {
	selected := make([]*api.QuizQuestion, 0, n)

	perm := rand.Perm(len(fallbackQuestionPool))
	for _, idx := range perm {
		if len(selected) == n {
			return selected
		}
		selected = append(selected, fallbackQuestionPool[idx])
	}

	for len(selected) < n {
		selected = append(selected, fallbackQuestionPool[rand.IntN(len(fallbackQuestionPool))])
	}
	return selected
}
