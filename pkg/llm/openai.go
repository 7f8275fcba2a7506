package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	defaultModel   = openai.GPT4oMini
	defaultTimeout = 30 * time.Second
)

// OpenAIConfig configures the OpenAI-backed client.
type OpenAIConfig struct {
	// APIKey authenticates against the API. Required.
	APIKey string
	// BaseURL overrides the API endpoint (for proxies and compatible servers).
	BaseURL string
	// Model is the default model when a request does not name one.
	Model string
	// RequestTimeout bounds each completion call (default 30s).
	RequestTimeout time.Duration
	// RequestsPerMinute throttles outgoing requests (0 = unlimited).
	RequestsPerMinute int
}

// OpenAIClient implements Client on the OpenAI chat completions API.
type OpenAIClient struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewOpenAIClient creates a client from config.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	return &OpenAIClient{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   model,
		timeout: timeout,
		limiter: limiter,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string, opts ...Option) (string, error) {
	o := applyOptions(opts)
	model := o.Model
	if model == "" {
		model = c.model
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("llm rate limit: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if o.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: o.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   o.MaxTokens,
		Temperature: o.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("llm completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Close() error { return nil }
