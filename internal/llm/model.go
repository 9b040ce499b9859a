// Package llm provides inference and embedding services using langchaingo.
package llm

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/bedrock"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/complyward/advisor-go/internal/config"
	"github.com/complyward/advisor-go/internal/metrics"
)

// DefaultTimeout bounds every inference call. On expiry the call fails hard
// with no retry and no fallback model.
const DefaultTimeout = 120 * time.Second

// ChatMessage is one message in a completion request.
type ChatMessage struct {
	Role    string // "system", "user", or "assistant"
	Content string
}

// CompleteRequest describes a single inference call.
type CompleteRequest struct {
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
	JSONOutput  bool          // request structured (object) output
	Timeout     time.Duration // zero means DefaultTimeout
	Op          string        // metrics operation label, e.g. metrics.OpLLMDecision
}

// Completion is the result of an inference call.
type Completion struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Client abstracts the inference endpoint so orchestration code can be
// tested with a fake.
type Client interface {
	Complete(ctx context.Context, req CompleteRequest) (*Completion, error)
}

// Model wraps a langchaingo LLM for text generation.
type Model struct {
	llm       llms.Model
	modelName string
	timeout   time.Duration
	metrics   *metrics.Collector
}

var _ Client = (*Model)(nil)

// NewModel creates an LLM model based on configuration.
func NewModel(ctx context.Context, cfg config.Config, mc *metrics.Collector) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderBedrock:
		awsCfg, awsErr := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.BedrockRegion))
		if awsErr != nil {
			return nil, fmt.Errorf("load aws config: %w", awsErr)
		}
		runtime := bedrockruntime.NewFromConfig(awsCfg)
		model, err = bedrock.New(
			bedrock.WithModel(cfg.LLMModel),
			bedrock.WithClient(runtime),
		)
		if err != nil {
			return nil, fmt.Errorf("create bedrock model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	timeout := cfg.LLMTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
		timeout:   timeout,
		metrics:   mc,
	}, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}

// Complete runs one inference call with an explicit timeout.
func (m *Model) Complete(ctx context.Context, req CompleteRequest) (*Completion, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = m.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	messages := make([]llms.MessageContent, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, llms.TextParts(chatMessageType(msg.Role), msg.Content))
	}

	opts := []llms.CallOption{
		llms.WithTemperature(req.Temperature),
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.JSONOutput {
		opts = append(opts, llms.WithJSONMode())
	}

	op := req.Op
	if op == "" {
		op = metrics.OpLLMRespond
	}

	start := time.Now()
	response, err := m.llm.GenerateContent(ctx, messages, opts...)
	duration := time.Since(start)

	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordError(op)
		}
		return nil, fmt.Errorf("generate: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no response choices")
	}

	choice := response.Choices[0]
	completion := &Completion{
		Text:         choice.Content,
		InputTokens:  usageTokens(choice.GenerationInfo, "PromptTokens", "input_tokens"),
		OutputTokens: usageTokens(choice.GenerationInfo, "CompletionTokens", "output_tokens"),
	}

	if m.metrics != nil {
		m.metrics.RecordLLMUsage(op, duration, completion.InputTokens, completion.OutputTokens)
	}

	return completion, nil
}

func chatMessageType(role string) llms.ChatMessageType {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem
	case "assistant":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// usageTokens pulls a token count out of provider-specific generation info.
// Providers disagree on key names, so a list of candidates is tried.
func usageTokens(info map[string]any, keys ...string) int64 {
	for _, key := range keys {
		if v, ok := info[key]; ok {
			switch n := v.(type) {
			case int:
				return int64(n)
			case int64:
				return n
			case float64:
				return int64(n)
			}
		}
	}
	return 0
}
