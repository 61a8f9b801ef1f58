package llm

import "context"

// Request is one system + user prompt pair.
type Request struct {
	SystemPrompt string
	UserPrompt   string
}

// Usage is token accounting reported by the provider, when available.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Completion is the generated text for one Request.
type Completion struct {
	Text  string
	Usage Usage
}

// Completer is the remote summarization capability. Transient failures are
// reported as errs.ErrRateLimited or errs.ErrTimeout.
type Completer interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (Completion, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (Completion, error) {
	return f(ctx, req)
}
