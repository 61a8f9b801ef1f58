package splitter

// Chunk is a contiguous run of transcript words.
type Chunk struct {
	Index int
	Text  string
	Words int
}

// Plan is the result of splitting: the chunks and the token count of the
// whole transcript.
type Plan struct {
	Chunks      []Chunk
	TotalTokens int
}

// Splitter partitions a transcript into token-budgeted chunks.
type Splitter interface {
	// Split returns ceil(tokens/maxTokensPerChunk) chunks (at least one) whose
	// word counts differ by at most one. An empty transcript yields no chunks.
	Split(transcript string, maxTokensPerChunk int) ([]Chunk, error)

	// Plan is Split plus the transcript token count.
	Plan(transcript string, maxTokensPerChunk int) (Plan, error)
}
