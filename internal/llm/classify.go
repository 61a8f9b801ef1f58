package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/nguyentantai21042004/transcript-digest/internal/errs"
)

// classifyStatus maps an HTTP status to a transient kind, or nil.
func classifyStatus(code int) error {
	switch code {
	case http.StatusTooManyRequests:
		return errs.ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return errs.ErrTimeout
	default:
		return nil
	}
}

// classifyMessage matches provider error text. Gemini reports quota
// exhaustion as RESOURCE_EXHAUSTED.
func classifyMessage(msg string) error {
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "RESOURCE_EXHAUSTED"),
		strings.Contains(strings.ToLower(msg), "quota"),
		strings.Contains(strings.ToLower(msg), "rate limit"):
		return errs.ErrRateLimited
	case strings.Contains(msg, "DEADLINE_EXCEEDED"),
		strings.Contains(msg, "504"):
		return errs.ErrTimeout
	default:
		return nil
	}
}

// classifyTransport catches client-side timeouts that never got a status.
// A cancelled parent context is not transient.
func classifyTransport(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errs.ErrTimeout
	}
	return nil
}

func wrapKind(provider string, kind, err error) error {
	if kind == nil {
		return fmt.Errorf("%s: %w", provider, err)
	}
	return fmt.Errorf("%s: %w: %w", provider, kind, err)
}
