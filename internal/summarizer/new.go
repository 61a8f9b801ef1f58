package summarizer

import (
	"github.com/nguyentantai21042004/transcript-digest/internal/errs"
	"github.com/nguyentantai21042004/transcript-digest/internal/llm"
	"github.com/nguyentantai21042004/transcript-digest/internal/logger"
	"github.com/nguyentantai21042004/transcript-digest/internal/retry"
)

// DefaultCue is appended to every chunk prompt.
const DefaultCue = "tl;dr:"

// Options tunes a Summarizer.
type Options struct {
	Cue           string
	MaxConcurrent int // 1 or less means sequential
	Retry         retry.Policy

	// OnChunkDone is called after each chunk succeeds. It may be called from
	// several goroutines when MaxConcurrent > 1.
	OnChunkDone func(done PartialSummary, total int)
}

type implSummarizer struct {
	completer llm.Completer
	opts      Options
	logger    logger.Logger
}

// New creates a Summarizer calling completer once per chunk.
func New(completer llm.Completer, opts Options, log logger.Logger) (Summarizer, error) {
	if completer == nil {
		return nil, errs.Invalid("summarizer needs a completer")
	}
	if opts.Cue == "" {
		return nil, errs.Invalid("summary cue is required")
	}
	if err := opts.Retry.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}

	return &implSummarizer{
		completer: completer,
		opts:      opts,
		logger:    log,
	}, nil
}
