package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 30s.
	Timeout time.Duration
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. Gemini is the
// default provider, matching the original product.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ApplyEnv overlays environment variables onto the config. Called after
// the TOML config file is read, so env wins.
func (c *Config) ApplyEnv() {
	if p := os.Getenv("LEETTRACK_LLM_PROVIDER"); p != "" {
		c.Provider = p
	}

	if k := os.Getenv("LEETTRACK_GEMINI_API_KEY"); k != "" {
		c.Gemini.APIKey = k
	}
	if m := os.Getenv("LEETTRACK_GEMINI_MODEL"); m != "" {
		c.Gemini.Model = m
	}

	if k := os.Getenv("LEETTRACK_OPENAI_API_KEY"); k != "" {
		c.OpenAI.APIKey = k
	}
	if m := os.Getenv("LEETTRACK_OPENAI_MODEL"); m != "" {
		c.OpenAI.Model = m
	}
	if u := os.Getenv("LEETTRACK_OPENAI_BASE_URL"); u != "" {
		c.OpenAI.BaseURL = u
	}

	if k := os.Getenv("LEETTRACK_ANTHROPIC_API_KEY"); k != "" {
		c.Anthropic.APIKey = k
	}
	if m := os.Getenv("LEETTRACK_ANTHROPIC_MODEL"); m != "" {
		c.Anthropic.Model = m
	}

	if k := os.Getenv("LEETTRACK_OPENROUTER_API_KEY"); k != "" {
		c.OpenRouter.APIKey = k
	}
	if m := os.Getenv("LEETTRACK_OPENROUTER_MODEL"); m != "" {
		c.OpenRouter.Model = m
	}
}

// Discover probes the standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and fills in the key for
// the first provider found, when the selected provider has no key yet.
// Returns true if a key was discovered.
func (c *Config) Discover() bool {
	if c.selectedKey() != "" {
		return true
	}

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		c.Provider = "gemini"
		c.Gemini.APIKey = k
		return true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		c.Provider = "openai"
		c.OpenAI.APIKey = k
		return true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		c.Provider = "anthropic"
		c.Anthropic.APIKey = k
		return true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		c.Provider = "openrouter"
		c.OpenRouter.APIKey = k
		return true
	}

	return false
}

func (c *Config) selectedKey() string {
	switch c.Provider {
	case "gemini":
		return c.Gemini.APIKey
	case "openai":
		return c.OpenAI.APIKey
	case "anthropic":
		return c.Anthropic.APIKey
	case "openrouter":
		return c.OpenRouter.APIKey
	case "mock":
		return "mock"
	}
	return ""
}

// Validate checks that the selected provider has its required API key set.
// A missing key is reported as ErrMissingCredential so callers can
// pattern-match it against the other failure kinds.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "openai", "anthropic", "openrouter":
		if c.selectedKey() == "" {
			return &ErrMissingCredential{Provider: c.Provider}
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
