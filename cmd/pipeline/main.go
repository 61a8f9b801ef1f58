package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/transcript-digest/internal/config"
	"github.com/nguyentantai21042004/transcript-digest/internal/history"
	"github.com/nguyentantai21042004/transcript-digest/internal/llm"
	"github.com/nguyentantai21042004/transcript-digest/internal/logger"
	"github.com/nguyentantai21042004/transcript-digest/internal/output"
	"github.com/nguyentantai21042004/transcript-digest/internal/pipeline"
	"github.com/nguyentantai21042004/transcript-digest/internal/processor"
	"github.com/nguyentantai21042004/transcript-digest/internal/retry"
	"github.com/nguyentantai21042004/transcript-digest/internal/splitter"
	"github.com/nguyentantai21042004/transcript-digest/internal/summarizer"
	"github.com/nguyentantai21042004/transcript-digest/internal/tokenizer"
	"github.com/nguyentantai21042004/transcript-digest/internal/watcher"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	file := flag.String("file", "", "Digest a single transcript and exit instead of watching paths.input")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Transcript Digest Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Provider: %s", cfg.Summary.Provider)
	log.Info(ctx, "Token budget per chunk: %d (%s)", cfg.Summary.MaxPromptTokens, cfg.Summary.TokenizerModel)
	log.Info(ctx, "Retry: base %s, ceiling %s", cfg.Retry.BaseDelay, cfg.Retry.MaxElapsed)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	// Initialize dependencies
	proc, store, err := buildProcessor(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize pipeline: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *file != "" {
		if err := proc.Process(ctx, *file); err != nil {
			log.Error(ctx, "Digest failed: %v", err)
			store.Close()
			os.Exit(1)
		}
		return
	}

	w, err := watcher.New(cfg.Paths.Input, proc.Process, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Digest pipeline is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Concurrent: %d transcripts, %d chunks each", cfg.Performance.MaxConcurrent, cfg.Performance.MaxConcurrentChunks)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "Watcher error: %v", err)
	}

	log.Info(ctx, "Digest pipeline stopped")
}

func buildProcessor(cfg *config.Config, log logger.Logger) (processor.Processor, *history.Store, error) {
	tok, err := tokenizer.New(cfg.Summary.TokenizerModel, cfg.Summary.Encoding)
	if err != nil {
		return nil, nil, err
	}

	completer, err := newCompleter(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	sum, err := summarizer.New(completer, summarizer.Options{
		Cue:           cfg.Summary.Cue,
		MaxConcurrent: cfg.Performance.MaxConcurrentChunks,
		Retry: retry.Policy{
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
			MaxElapsed:  cfg.Retry.MaxElapsed,
			MaxAttempts: cfg.Retry.MaxAttempts,
			Jitter:      cfg.Retry.Jitter,
		},
	}, log)
	if err != nil {
		return nil, nil, err
	}

	writer, err := output.NewWriter(cfg.Paths.Output, cfg.Output.Docx)
	if err != nil {
		return nil, nil, err
	}

	store, err := history.Open(cfg.Paths.History)
	if err != nil {
		return nil, nil, err
	}

	pipe := pipeline.New(splitter.New(tok), sum, log)
	return processor.New(cfg, pipe, writer, store, log), store, nil
}

func newCompleter(cfg *config.Config, log logger.Logger) (llm.Completer, error) {
	switch cfg.Summary.Provider {
	case config.ProviderGemini:
		return llm.NewGemini(cfg.Secrets.GeminiAPIKeys, cfg.Gemini.Model, log)
	default:
		return llm.NewOpenAI(llm.OpenAIConfig{
			APIKey:  cfg.Secrets.OpenAIAPIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
			Timeout: cfg.OpenAI.Timeout,
		})
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
