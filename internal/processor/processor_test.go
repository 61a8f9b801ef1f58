package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/transcript-digest/internal/config"
	"github.com/nguyentantai21042004/transcript-digest/internal/errs"
	"github.com/nguyentantai21042004/transcript-digest/internal/history"
	"github.com/nguyentantai21042004/transcript-digest/internal/logger"
	"github.com/nguyentantai21042004/transcript-digest/internal/output"
	"github.com/nguyentantai21042004/transcript-digest/internal/pipeline"
	"github.com/nguyentantai21042004/transcript-digest/internal/summarizer"
)

type fakePipeline struct {
	gotText string
	gotOpts pipeline.Options
	result  pipeline.Result
	err     error
}

func (f *fakePipeline) Run(_ context.Context, transcript string, opts pipeline.Options) (pipeline.Result, error) {
	f.gotText = transcript
	f.gotOpts = opts
	return f.result, f.err
}

type env struct {
	cfg     *config.Config
	store   *history.Store
	writer  *output.Writer
	input   string
	outDir  string
	archive string
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()

	cfg := &config.Config{
		Paths: config.PathsConfig{
			Input:    filepath.Join(root, "input"),
			Output:   filepath.Join(root, "output"),
			Archived: filepath.Join(root, "archived"),
		},
		Summary: config.SummaryConfig{MaxPromptTokens: 3000, SystemPrompt: "You are a helpful assistant."},
	}
	if err := os.MkdirAll(cfg.Paths.Input, 0755); err != nil {
		t.Fatal(err)
	}

	writer, err := output.NewWriter(cfg.Paths.Output, false)
	if err != nil {
		t.Fatal(err)
	}
	store, err := history.Open(filepath.Join(root, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return env{cfg: cfg, store: store, writer: writer, input: cfg.Paths.Input, outDir: cfg.Paths.Output, archive: cfg.Paths.Archived}
}

func (e env) writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.input, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcess(t *testing.T) {
	e := newEnv(t)
	path := e.writeInput(t, "talk.txt", "Video URL: https://youtu.be/abc\n\nsome spoken words")

	pipe := &fakePipeline{result: pipeline.Result{
		Summaries: []summarizer.PartialSummary{
			{Index: 0, Text: "First half. ", Attempts: 1},
			{Index: 1, Text: "Second half.", Attempts: 3},
		},
		TotalTokens: 6400,
	}}

	p := New(e.cfg, pipe, e.writer, e.store, logger.NewNop())
	if err := p.Process(context.Background(), path); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if pipe.gotText != "some spoken words" {
		t.Errorf("pipeline got text %q", pipe.gotText)
	}
	if pipe.gotOpts.MaxTokensPerChunk != 3000 || pipe.gotOpts.SystemPrompt != "You are a helpful assistant." {
		t.Errorf("pipeline got options %+v", pipe.gotOpts)
	}

	out, err := os.ReadFile(filepath.Join(e.outDir, "talk.txt.txt"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{
		"Video URL: https://youtu.be/abc",
		"Number of tokens in transcript: 6400",
		"First half. Second half.",
	} {
		if !strings.Contains(string(out), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("input should have been archived, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(e.archive, "talk.txt")); err != nil {
		t.Errorf("archived copy missing: %v", err)
	}

	records, err := e.store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d history records, want 1", len(records))
	}
	r := records[0]
	if r.Status != history.StatusSucceeded || r.Chunks != 2 || r.Attempts != 4 || r.TotalTokens != 6400 {
		t.Errorf("record = %+v", r)
	}
}

func TestProcessPipelineFailure(t *testing.T) {
	e := newEnv(t)
	path := e.writeInput(t, "broken.txt", "words")

	cause := &errs.SummarizationError{ChunkIndex: 0, Attempts: 7, Cause: errs.ErrRateLimited}
	p := New(e.cfg, &fakePipeline{err: cause}, e.writer, e.store, logger.NewNop())

	err := p.Process(context.Background(), path)
	if !errors.Is(err, errs.ErrSummarizationFailed) {
		t.Fatalf("Process() error = %v, want summarization failure", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("failed input should stay in place: %v", err)
	}
	if _, err := os.Stat(filepath.Join(e.outDir, "broken.txt.txt")); !os.IsNotExist(err) {
		t.Errorf("no output expected on failure, stat err = %v", err)
	}

	records, _ := e.store.List()
	if len(records) != 1 || records[0].Status != history.StatusFailed || records[0].Error == "" {
		t.Errorf("records = %+v", records)
	}
}

func TestProcessWithoutHistory(t *testing.T) {
	e := newEnv(t)
	path := e.writeInput(t, "clip.txt", "a b c")

	p := New(e.cfg, &fakePipeline{}, e.writer, nil, logger.NewNop())
	if err := p.Process(context.Background(), path); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
}

func TestProcessOutsideInputDirIsNotArchived(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "elsewhere.txt")
	if err := os.WriteFile(path, []byte("a b c"), 0644); err != nil {
		t.Fatal(err)
	}

	p := New(e.cfg, &fakePipeline{}, e.writer, nil, logger.NewNop())
	if err := p.Process(context.Background(), path); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file outside the input dir should stay in place: %v", err)
	}
}
