package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/nguyentantai21042004/transcript-digest/internal/errs"
)

// BPE ranks ship with the binary; nothing is downloaded at runtime.
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// EncodingWords selects the Words tokenizer instead of a BPE encoding.
const EncodingWords = "words"

type implTiktoken struct {
	model string
	enc   *tiktoken.Tiktoken
}

// New returns a tokenizer for model. A non-empty encoding (e.g. "cl100k_base")
// overrides the model lookup; EncodingWords returns Words.
func New(model, encoding string) (Tokenizer, error) {
	if strings.EqualFold(encoding, EncodingWords) {
		return Words{}, nil
	}

	var (
		enc *tiktoken.Tiktoken
		err error
	)
	if encoding != "" {
		enc, err = tiktoken.GetEncoding(encoding)
	} else {
		enc, err = tiktoken.EncodingForModel(model)
	}
	if err != nil {
		return nil, &errs.TokenizationError{Model: model, Cause: fmt.Errorf("load encoding: %w", err)}
	}

	return &implTiktoken{model: model, enc: enc}, nil
}

// Count encodes text with special tokens treated as plain text.
func (t *implTiktoken) Count(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return len(t.enc.Encode(text, nil, nil)), nil
}
