package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/transcript-digest/internal/errs"
	"github.com/nguyentantai21042004/transcript-digest/internal/logger"
)

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want error
	}{
		{"Error 429, Message: Resource has been exhausted", errs.ErrRateLimited},
		{"RESOURCE_EXHAUSTED", errs.ErrRateLimited},
		{"You exceeded your current quota", errs.ErrRateLimited},
		{"DEADLINE_EXCEEDED", errs.ErrTimeout},
		{"Error 504 gateway", errs.ErrTimeout},
		{"Error 400, Message: API key not valid", nil},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := classifyMessage(tt.msg); got != tt.want {
				t.Errorf("classifyMessage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyTransportIgnoresCancelledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := classifyTransport(ctx, context.DeadlineExceeded); got != nil {
		t.Errorf("classifyTransport() = %v, want nil for a cancelled parent", got)
	}
	if got := classifyTransport(context.Background(), context.DeadlineExceeded); got != errs.ErrTimeout {
		t.Errorf("classifyTransport() = %v, want ErrTimeout", got)
	}
}

func newOpenAIServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestOpenAIComplete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "gpt-3.5-turbo",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": "short version"},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
		})
	})

	c, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}

	out, err := c.Complete(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "text\n\ntl;dr:"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out.Text != "short version" {
		t.Errorf("Text = %q", out.Text)
	}
	if out.Usage.PromptTokens != 12 || out.Usage.CompletionTokens != 3 {
		t.Errorf("Usage = %+v", out.Usage)
	}

	if got.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q, want default gpt-3.5-turbo", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "text\n\ntl;dr:" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestOpenAIErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, "rate_limit_exceeded", errs.ErrRateLimited},
		{"gateway timeout", http.StatusGatewayTimeout, "", errs.ErrTimeout},
		{"unauthorized", http.StatusUnauthorized, "invalid_api_key", nil},
		{"bad request", http.StatusBadRequest, "context_length_exceeded", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]any{
					"error": map[string]any{"message": tt.name, "type": "test", "code": tt.code},
				})
			})

			c, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
			if err != nil {
				t.Fatalf("NewOpenAI() error = %v", err)
			}

			_, err = c.Complete(context.Background(), Request{SystemPrompt: "s", UserPrompt: "u"})
			if err == nil {
				t.Fatal("Complete() should fail")
			}
			if tt.want == nil {
				if errs.IsTransient(err) {
					t.Errorf("error %v classified as transient", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOpenAIClientTimeout(t *testing.T) {
	srv := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	c, err := NewOpenAI(OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1",
		Timeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}

	_, err = c.Complete(context.Background(), Request{SystemPrompt: "s", UserPrompt: "u"})
	if !errors.Is(err, errs.ErrTimeout) {
		t.Errorf("Complete() error = %v, want ErrTimeout", err)
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI(OpenAIConfig{}); !errors.Is(err, errs.ErrInvalidConfiguration) {
		t.Errorf("NewOpenAI() error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestNewGemini(t *testing.T) {
	if _, err := NewGemini(nil, "", logger.NewNop()); !errors.Is(err, errs.ErrInvalidConfiguration) {
		t.Errorf("NewGemini(nil) error = %v, want ErrInvalidConfiguration", err)
	}

	c, err := NewGemini([]string{"k1"}, "", logger.NewNop())
	if err != nil {
		t.Fatalf("NewGemini() error = %v", err)
	}
	if m := c.(*implGemini).model; m != defaultGeminiModel {
		t.Errorf("model = %q, want %q", m, defaultGeminiModel)
	}
}

func TestGeminiRotateKey(t *testing.T) {
	g := &implGemini{apiKeys: []string{"a", "b", "c"}}

	g.rotateKey(0)
	if idx, key := g.key(); idx != 1 || key != "b" {
		t.Errorf("key() = %d %q, want 1 b", idx, key)
	}

	// A stale rotation from a concurrent caller must not skip a key.
	g.rotateKey(0)
	if idx, _ := g.key(); idx != 1 {
		t.Errorf("stale rotateKey moved to %d", idx)
	}

	g.rotateKey(1)
	g.rotateKey(2)
	if idx, _ := g.key(); idx != 0 {
		t.Errorf("rotation should wrap, got %d", idx)
	}
}

func TestGeminiCompletion(t *testing.T) {
	if _, err := geminiCompletion(nil); err == nil {
		t.Error("geminiCompletion(nil) should fail")
	}

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "part one, "}, {Text: "part two"}}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     40,
			CandidatesTokenCount: 8,
		},
	}

	c, err := geminiCompletion(resp)
	if err != nil {
		t.Fatalf("geminiCompletion() error = %v", err)
	}
	if c.Text != "part one, part two" {
		t.Errorf("Text = %q", c.Text)
	}
	if c.Usage.PromptTokens != 40 || c.Usage.CompletionTokens != 8 {
		t.Errorf("Usage = %+v", c.Usage)
	}
}
