package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/transcript-digest/internal/errs"
)

// OpenAIConfig configures an OpenAI-compatible chat endpoint.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // optional, for compatible servers
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type implOpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI returns a Completer backed by the chat completions API.
func NewOpenAI(cfg OpenAIConfig) (Completer, error) {
	if cfg.APIKey == "" {
		return nil, errs.Invalid("missing OpenAI API key")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT3Dot5Turbo
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	} else {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 90 * time.Second
		}
		config.HTTPClient = &http.Client{Timeout: timeout}
	}

	return &implOpenAI{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}, nil
}

func (o *implOpenAI) Complete(ctx context.Context, req Request) (Completion, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
	})
	if err != nil {
		return Completion{}, wrapKind("openai", classifyOpenAI(ctx, err), err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, fmt.Errorf("openai: empty response")
	}

	return Completion{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func classifyOpenAI(ctx context.Context, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if kind := classifyStatus(apiErr.HTTPStatusCode); kind != nil {
			return kind
		}
		if code, ok := apiErr.Code.(string); ok && strings.Contains(code, "rate_limit") {
			return errs.ErrRateLimited
		}
		return nil
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if kind := classifyStatus(reqErr.HTTPStatusCode); kind != nil {
			return kind
		}
	}

	return classifyTransport(ctx, err)
}
