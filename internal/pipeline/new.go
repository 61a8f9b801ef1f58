package pipeline

import (
	"github.com/nguyentantai21042004/transcript-digest/internal/logger"
	"github.com/nguyentantai21042004/transcript-digest/internal/splitter"
	"github.com/nguyentantai21042004/transcript-digest/internal/summarizer"
)

type implPipeline struct {
	splitter   splitter.Splitter
	summarizer summarizer.Summarizer
	logger     logger.Logger
}

// New wires a splitter and a summarizer into a Pipeline.
func New(sp splitter.Splitter, sum summarizer.Summarizer, log logger.Logger) Pipeline {
	return &implPipeline{
		splitter:   sp,
		summarizer: sum,
		logger:     log,
	}
}
