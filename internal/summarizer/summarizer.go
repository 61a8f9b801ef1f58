package summarizer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/transcript-digest/internal/errs"
	"github.com/nguyentantai21042004/transcript-digest/internal/llm"
	"github.com/nguyentantai21042004/transcript-digest/internal/retry"
	"github.com/nguyentantai21042004/transcript-digest/internal/splitter"
)

// BuildPrompt appends the trailing cue to a chunk.
func BuildPrompt(text, cue string) string {
	return text + "\n\n" + cue
}

func (s *implSummarizer) Summarize(ctx context.Context, chunks []splitter.Chunk, systemPrompt string) ([]PartialSummary, error) {
	if systemPrompt == "" {
		return nil, errs.Invalid("system prompt is required")
	}
	if len(chunks) == 0 {
		return []PartialSummary{}, nil
	}

	s.logger.Info(ctx, "Summarizing %d chunks (max concurrent: %d)", len(chunks), s.opts.MaxConcurrent)

	if s.opts.MaxConcurrent == 1 || len(chunks) == 1 {
		return s.summarizeSequential(ctx, chunks, systemPrompt)
	}
	return s.summarizeConcurrent(ctx, chunks, systemPrompt)
}

func (s *implSummarizer) summarizeSequential(ctx context.Context, chunks []splitter.Chunk, systemPrompt string) ([]PartialSummary, error) {
	results := make([]PartialSummary, 0, len(chunks))
	for i, chunk := range chunks {
		ps, err := s.summarizeChunk(ctx, i, chunk, systemPrompt, len(chunks))
		if err != nil {
			return nil, err
		}
		results = append(results, ps)
	}
	return results, nil
}

// summarizeConcurrent fans chunks out with at most MaxConcurrent calls in
// flight. The first failure cancels the group context; chunks that fail only
// because of that cancellation are not reported.
func (s *implSummarizer) summarizeConcurrent(ctx context.Context, chunks []splitter.Chunk, systemPrompt string) ([]PartialSummary, error) {
	results := make([]PartialSummary, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrent)

	for i, chunk := range chunks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ps, err := s.summarizeChunk(gctx, i, chunk, systemPrompt, len(chunks))
			if err != nil {
				return err
			}
			results[i] = ps
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Parent cancelled before any chunk was started.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *implSummarizer) summarizeChunk(ctx context.Context, index int, chunk splitter.Chunk, systemPrompt string, total int) (PartialSummary, error) {
	s.logger.Info(ctx, "[%d/%d] Summarizing chunk (%d words)", index+1, total, chunk.Words)

	req := llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   BuildPrompt(chunk.Text, s.opts.Cue),
	}

	policy := s.opts.Retry
	policy.Notify = func(e retry.Event) {
		switch e.State {
		case retry.Waiting:
			s.logger.Warn(ctx, "[%d/%d] Attempt %d failed (%v), retrying in %s", index+1, total, e.Attempt, e.Err, e.Wait)
		case retry.Exhausted:
			s.logger.Error(ctx, "[%d/%d] Giving up after %d attempts", index+1, total, e.Attempt)
		}
		if s.opts.Retry.Notify != nil {
			s.opts.Retry.Notify(e)
		}
	}

	var out llm.Completion
	attempts, err := policy.Do(ctx, func(ctx context.Context) error {
		c, err := s.completer.Complete(ctx, req)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return PartialSummary{}, &errs.SummarizationError{ChunkIndex: index, Attempts: attempts, Cause: err}
	}

	ps := PartialSummary{
		Index:    index,
		Text:     out.Text,
		Attempts: attempts,
		Usage:    out.Usage,
	}
	s.logger.Info(ctx, "[DONE] chunk %d/%d after %d attempt(s)", index+1, total, attempts)
	if s.opts.OnChunkDone != nil {
		s.opts.OnChunkDone(ps, total)
	}
	return ps, nil
}
