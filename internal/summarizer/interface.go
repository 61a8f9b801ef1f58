package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/transcript-digest/internal/llm"
	"github.com/nguyentantai21042004/transcript-digest/internal/splitter"
)

// PartialSummary is the model output for exactly one chunk.
type PartialSummary struct {
	Index    int
	Text     string
	Attempts int
	Usage    llm.Usage
}

// Summarizer summarizes chunks one call per chunk, preserving chunk order.
type Summarizer interface {
	// Summarize returns one PartialSummary per chunk, or an
	// *errs.SummarizationError for the first chunk that could not be summarized.
	Summarize(ctx context.Context, chunks []splitter.Chunk, systemPrompt string) ([]PartialSummary, error)
}
