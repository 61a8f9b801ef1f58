package tokenizer

// Tokenizer counts the tokens a model assigns to a text.
// Implementations must be deterministic for a fixed model.
type Tokenizer interface {
	Count(text string) (int, error)
}
