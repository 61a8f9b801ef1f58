// Package errs holds the error kinds shared by the digest pipeline.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned for a non-positive token budget,
	// a missing prompt or unusable retry settings.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrRateLimited marks a transient rejection by the remote model.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout marks a remote call that did not answer in time.
	ErrTimeout = errors.New("timeout")

	ErrSummarizationFailed = errors.New("summarization failed")
	ErrTokenizationFailed  = errors.New("tokenization failed")
)

// Invalid wraps ErrInvalidConfiguration with a description of the bad field.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}

// SummarizationError aborts a run. ChunkIndex is zero-based.
type SummarizationError struct {
	ChunkIndex int
	Attempts   int
	Cause      error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarize chunk %d (%d attempts): %v", e.ChunkIndex, e.Attempts, e.Cause)
}

func (e *SummarizationError) Unwrap() error { return e.Cause }

func (e *SummarizationError) Is(target error) bool { return target == ErrSummarizationFailed }

// TokenizationError is returned when the tokenizer cannot count a text.
type TokenizationError struct {
	Model string
	Cause error
}

func (e *TokenizationError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("tokenize: %v", e.Cause)
	}
	return fmt.Sprintf("tokenize for model %s: %v", e.Model, e.Cause)
}

func (e *TokenizationError) Unwrap() error { return e.Cause }

func (e *TokenizationError) Is(target error) bool { return target == ErrTokenizationFailed }
