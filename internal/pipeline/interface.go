package pipeline

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/transcript-digest/internal/summarizer"
)

// Options is the per-run configuration.
type Options struct {
	MaxTokensPerChunk int
	SystemPrompt      string
}

// Result holds the ordered partial summaries of one run.
type Result struct {
	Summaries   []summarizer.PartialSummary
	TotalTokens int
}

// Summary concatenates the partial summaries in chunk order.
func (r Result) Summary() string {
	var sb strings.Builder
	for _, s := range r.Summaries {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Pipeline turns a transcript into ordered partial summaries.
type Pipeline interface {
	Run(ctx context.Context, transcript string, opts Options) (Result, error)
}
