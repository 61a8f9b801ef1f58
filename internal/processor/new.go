package processor

import (
	"github.com/nguyentantai21042004/transcript-digest/internal/config"
	"github.com/nguyentantai21042004/transcript-digest/internal/history"
	"github.com/nguyentantai21042004/transcript-digest/internal/logger"
	"github.com/nguyentantai21042004/transcript-digest/internal/output"
	"github.com/nguyentantai21042004/transcript-digest/internal/pipeline"
)

type implProcessor struct {
	cfg      *config.Config
	pipeline pipeline.Pipeline
	writer   *output.Writer
	history  *history.Store
	logger   logger.Logger
}

// New creates a Processor. store may be nil to skip run history.
func New(cfg *config.Config, pipe pipeline.Pipeline, writer *output.Writer, store *history.Store, log logger.Logger) Processor {
	return &implProcessor{
		cfg:      cfg,
		pipeline: pipe,
		writer:   writer,
		history:  store,
		logger:   log,
	}
}
