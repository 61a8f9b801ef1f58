package config

import (
	"strings"
	"time"

	"github.com/nguyentantai21042004/transcript-digest/internal/errs"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Summary     SummaryConfig     `yaml:"summary"`
	Retry       RetryConfig       `yaml:"retry"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`

	// Secrets come from the environment only.
	Secrets SecretsConfig `yaml:"-"`
}

type SummaryConfig struct {
	Provider        string `yaml:"provider"`
	TokenizerModel  string `yaml:"tokenizer_model"`
	Encoding        string `yaml:"encoding"`
	SystemPrompt    string `yaml:"system_prompt"`
	Cue             string `yaml:"cue"`
	MaxPromptTokens int    `yaml:"max_prompt_tokens"`
}

type RetryConfig struct {
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
	MaxElapsed  time.Duration `yaml:"max_elapsed"`
	MaxAttempts int           `yaml:"max_attempts"`
	Jitter      bool          `yaml:"jitter"`
}

type OpenAIConfig struct {
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type GeminiConfig struct {
	Model string `yaml:"model"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	History  string `yaml:"history"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent       int `yaml:"max_concurrent"`
	MaxConcurrentChunks int `yaml:"max_concurrent_chunks"`
}

type OutputConfig struct {
	Docx bool `yaml:"docx"`
}

type SecretsConfig struct {
	OpenAIAPIKey  string   `env:"OPENAI_API_KEY"`
	GeminiAPIKeys []string `env:"GEMINI_API_KEYS" envSeparator:","`
}

// Validate rejects missing required fields and fills defaults for the rest.
func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return errs.Invalid("paths.input is required")
	}
	if c.Paths.Output == "" {
		return errs.Invalid("paths.output is required")
	}
	if c.Summary.MaxPromptTokens < 0 {
		return errs.Invalid("summary.max_prompt_tokens must be positive")
	}
	if c.Retry.BaseDelay < 0 || c.Retry.MaxDelay < 0 || c.Retry.MaxElapsed < 0 || c.Retry.MaxAttempts < 0 {
		return errs.Invalid("retry settings must not be negative")
	}

	c.Summary.Provider = strings.ToLower(c.Summary.Provider)
	if c.Summary.Provider == "" {
		c.Summary.Provider = ProviderOpenAI
	}
	switch c.Summary.Provider {
	case ProviderOpenAI:
		if c.Secrets.OpenAIAPIKey == "" {
			return errs.Invalid("OPENAI_API_KEY is required for provider %s", ProviderOpenAI)
		}
	case ProviderGemini:
		if len(c.Secrets.GeminiAPIKeys) == 0 {
			return errs.Invalid("GEMINI_API_KEYS is required for provider %s", ProviderGemini)
		}
	default:
		return errs.Invalid("unknown summary.provider %q", c.Summary.Provider)
	}

	if c.Summary.MaxPromptTokens == 0 {
		c.Summary.MaxPromptTokens = 3000
	}
	if c.Summary.SystemPrompt == "" {
		c.Summary.SystemPrompt = "You are a helpful assistant."
	}
	if c.Summary.Cue == "" {
		c.Summary.Cue = "tl;dr:"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-3.5-turbo"
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 90 * time.Second
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Summary.TokenizerModel == "" {
		c.Summary.TokenizerModel = c.OpenAI.Model
	}

	if c.Retry.BaseDelay == 0 {
		c.Retry.BaseDelay = time.Second
	}
	if c.Retry.MaxElapsed == 0 {
		c.Retry.MaxElapsed = 60 * time.Second
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.History == "" {
		c.Paths.History = "data/history.db"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Performance.MaxConcurrentChunks == 0 {
		c.Performance.MaxConcurrentChunks = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}
