package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/transcript-digest/internal/history"
	"github.com/nguyentantai21042004/transcript-digest/internal/output"
	"github.com/nguyentantai21042004/transcript-digest/internal/pipeline"
	"github.com/nguyentantai21042004/transcript-digest/internal/transcript"
)

// Process orchestrates load, summarize, write and archive for one file.
func (p *implProcessor) Process(ctx context.Context, transcriptPath string) error {
	startTime := time.Now()
	record := history.NewRecord(filepath.Base(transcriptPath), startTime)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting transcript digest: %s (run %s)", transcriptPath, record.ID)
	p.logger.Info(ctx, "========================================")

	paths, err := p.process(ctx, transcriptPath, &record)
	record.Duration = time.Since(startTime)
	record.Outputs = paths
	if err != nil {
		record.Status = history.StatusFailed
		record.Error = err.Error()
		p.saveRecord(ctx, record)
		return err
	}
	record.Status = history.StatusSucceeded
	p.saveRecord(ctx, record)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Digest completed successfully!")
	for _, path := range paths {
		p.logger.Info(ctx, "Output: %s", path)
	}
	p.logger.Info(ctx, "Tokens: %d, chunks: %d, calls: %d", record.TotalTokens, record.Chunks, record.Attempts)
	p.logger.Info(ctx, "Processing time: %s", record.Duration)
	p.logger.Info(ctx, "========================================")

	return nil
}

func (p *implProcessor) process(ctx context.Context, transcriptPath string, record *history.Record) ([]string, error) {
	// Step 1: Load transcript
	tr, err := transcript.Load(transcriptPath)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	// Step 2: Split and summarize
	result, err := p.pipeline.Run(ctx, tr.Text, pipeline.Options{
		MaxTokensPerChunk: p.cfg.Summary.MaxPromptTokens,
		SystemPrompt:      p.cfg.Summary.SystemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("digest %s: %w", tr.Name, err)
	}

	record.TotalTokens = result.TotalTokens
	record.Chunks = len(result.Summaries)
	parts := make([]string, len(result.Summaries))
	for i, s := range result.Summaries {
		record.Attempts += s.Attempts
		parts[i] = s.Text
	}

	// Step 3: Persist transcript and summary
	paths, err := p.writer.Write(output.Digest{
		Transcript:  tr,
		Summary:     result.Summary(),
		Parts:       parts,
		TotalTokens: result.TotalTokens,
	})
	if err != nil {
		return paths, fmt.Errorf("write: %w", err)
	}

	// Step 4: Move input out of the watched folder
	if p.inInputDir(transcriptPath) {
		if err := p.moveToArchived(ctx, transcriptPath); err != nil {
			p.logger.Warn(ctx, "Failed to move transcript to archived folder: %v", err)
		}
	}

	return paths, nil
}

func (p *implProcessor) saveRecord(ctx context.Context, record history.Record) {
	if p.history == nil {
		return
	}
	if err := p.history.Put(record); err != nil {
		p.logger.Warn(ctx, "Failed to record run %s: %v", record.ID, err)
	}
}
