package splitter

import (
	"github.com/nguyentantai21042004/transcript-digest/internal/tokenizer"
)

type implSplitter struct {
	tokenizer tokenizer.Tokenizer
}

// New creates a Splitter that counts tokens with tok.
func New(tok tokenizer.Tokenizer) Splitter {
	return &implSplitter{tokenizer: tok}
}
