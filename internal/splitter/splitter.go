package splitter

import (
	"errors"
	"strings"

	"github.com/nguyentantai21042004/transcript-digest/internal/errs"
)

// wordSep is the only boundary chunks are cut on. Runs of spaces produce
// empty words, which keeps the join exact.
const wordSep = " "

// Split tokenizes the whole transcript once and distributes its words evenly
// over the minimum number of chunks. Balance is by word count, so a single
// chunk may still exceed the budget when token density is uneven.
func (s *implSplitter) Split(transcript string, maxTokensPerChunk int) ([]Chunk, error) {
	plan, err := s.Plan(transcript, maxTokensPerChunk)
	if err != nil {
		return nil, err
	}
	return plan.Chunks, nil
}

func (s *implSplitter) Plan(transcript string, maxTokensPerChunk int) (Plan, error) {
	if maxTokensPerChunk <= 0 {
		return Plan{}, errs.Invalid("max tokens per chunk must be positive, got %d", maxTokensPerChunk)
	}
	if transcript == "" {
		return Plan{Chunks: []Chunk{}}, nil
	}

	totalTokens, err := s.tokenizer.Count(transcript)
	if err != nil {
		var te *errs.TokenizationError
		if errors.As(err, &te) {
			return Plan{}, err
		}
		return Plan{}, &errs.TokenizationError{Cause: err}
	}

	words := strings.Split(transcript, wordSep)
	return Plan{
		Chunks:      partition(words, chunkCount(totalTokens, maxTokensPerChunk)),
		TotalTokens: totalTokens,
	}, nil
}

// chunkCount is ceil(total/budget), never less than one.
func chunkCount(totalTokens, budget int) int {
	n := (totalTokens + budget - 1) / budget
	if n < 1 {
		return 1
	}
	return n
}

// partition splits words into n contiguous groups. The first len(words)%n
// groups get one extra word. When n exceeds len(words) the tail groups are empty.
func partition(words []string, n int) []Chunk {
	base, extra := len(words)/n, len(words)%n

	chunks := make([]Chunk, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		group := words[start : start+size]
		chunks = append(chunks, Chunk{
			Index: i,
			Text:  strings.Join(group, wordSep),
			Words: size,
		})
		start += size
	}
	return chunks
}
