package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/transcript-digest/internal/errs"
)

// Run splits transcript under the token budget and summarizes every chunk.
// It either returns all partial summaries in order or fails as a whole.
func (p *implPipeline) Run(ctx context.Context, transcript string, opts Options) (Result, error) {
	if opts.MaxTokensPerChunk <= 0 {
		return Result{}, errs.Invalid("max tokens per chunk must be positive, got %d", opts.MaxTokensPerChunk)
	}
	if opts.SystemPrompt == "" {
		return Result{}, errs.Invalid("system prompt is required")
	}

	startTime := time.Now()

	plan, err := p.splitter.Plan(transcript, opts.MaxTokensPerChunk)
	if err != nil {
		return Result{}, fmt.Errorf("split transcript: %w", err)
	}
	p.logger.Info(ctx, "Transcript has %d tokens, split into %d chunks (budget %d)",
		plan.TotalTokens, len(plan.Chunks), opts.MaxTokensPerChunk)

	summaries, err := p.summarizer.Summarize(ctx, plan.Chunks, opts.SystemPrompt)
	if err != nil {
		return Result{}, fmt.Errorf("summarize chunks: %w", err)
	}

	p.logger.Info(ctx, "Pipeline completed in %s", time.Since(startTime))
	return Result{
		Summaries:   summaries,
		TotalTokens: plan.TotalTokens,
	}, nil
}
