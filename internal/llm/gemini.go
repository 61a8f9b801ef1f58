package llm

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/transcript-digest/internal/errs"
	"github.com/nguyentantai21042004/transcript-digest/internal/logger"
)

const defaultGeminiModel = "gemini-2.5-flash"

type implGemini struct {
	apiKeys []string
	model   string
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int
}

// NewGemini returns a Completer that rotates through apiKeys when a key is
// rate limited. It reports ErrRateLimited only once every key was rejected.
func NewGemini(apiKeys []string, model string, log logger.Logger) (Completer, error) {
	if len(apiKeys) == 0 {
		return nil, errs.Invalid("missing Gemini API keys")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &implGemini{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
	}, nil
}

func (g *implGemini) Complete(ctx context.Context, req Request) (Completion, error) {
	var lastErr error

	for range len(g.apiKeys) {
		idx, key := g.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return Completion{}, fmt.Errorf("gemini: create client: %w", err)
		}

		config := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.SystemPrompt, genai.RoleUser),
		}
		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.UserPrompt), config)
		if err != nil {
			kind := classifyMessage(err.Error())
			if kind == nil {
				kind = classifyTransport(ctx, err)
			}
			if kind == errs.ErrRateLimited {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey(idx)
				lastErr = err
				continue
			}
			return Completion{}, wrapKind("gemini", kind, err)
		}

		return geminiCompletion(result)
	}

	return Completion{}, wrapKind("gemini: all API keys exhausted", errs.ErrRateLimited, lastErr)
}

func geminiCompletion(result *genai.GenerateContentResponse) (Completion, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return Completion{}, fmt.Errorf("gemini: empty response")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	c := Completion{Text: text}
	if u := result.UsageMetadata; u != nil {
		c.Usage = Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
		}
	}
	return c, nil
}

func (g *implGemini) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.apiKeys[g.currentKey]
}

// rotateKey advances past from unless another call already did.
func (g *implGemini) rotateKey(from int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == from {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}
