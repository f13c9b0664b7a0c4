// Package config loads the application configuration: a TOML file under
// the XDG config home, overlaid with environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"leettrack/internal/llm"
	"leettrack/internal/remote"
	"leettrack/internal/room"
	"leettrack/internal/store"
)

// Config is the fully resolved application configuration.
type Config struct {
	LLM      llm.Config
	Remote   remote.Config
	Identity room.Identity
	DBPath   string
}

// fileConfig is the TOML file shape. Pointer fields distinguish "unset"
// from zero values so the file only overrides what it mentions.
type fileConfig struct {
	DBPath *string `toml:"db-path"`

	LLM struct {
		Provider   *string        `toml:"provider"`
		Timeout    *duration      `toml:"timeout"`
		Gemini     providerTable  `toml:"gemini"`
		OpenAI     providerTable  `toml:"openai"`
		Anthropic  providerTable  `toml:"anthropic"`
		OpenRouter providerTable  `toml:"openrouter"`
	} `toml:"llm"`

	Remote struct {
		BaseURL *string `toml:"base-url"`
		APIKey  *string `toml:"api-key"`
	} `toml:"remote"`

	Identity struct {
		UserID *string `toml:"user-id"`
		Email  *string `toml:"email"`
	} `toml:"identity"`
}

type providerTable struct {
	APIKey  *string `toml:"api-key"`
	Model   *string `toml:"model"`
	BaseURL *string `toml:"base-url"`
}

// duration lets TOML carry Go duration strings like "45s".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Load resolves the configuration: defaults, then the TOML file at path
// (missing file is fine), then environment variables. An empty path uses
// DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Config{LLM: llm.DefaultConfig()}

	fc, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	applyFile(&cfg, fc)

	cfg.LLM.ApplyEnv()
	cfg.LLM.Discover()
	applyRemoteEnv(&cfg)

	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = p
	}
	return cfg, nil
}

// readFile parses the TOML file. A missing file yields an empty config.
func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fc, fmt.Errorf("decode config %s: %w", path, err)
	}
	return fc, nil
}

func applyFile(cfg *Config, fc fileConfig) {
	setString(&cfg.DBPath, fc.DBPath)
	setString(&cfg.LLM.Provider, fc.LLM.Provider)
	if fc.LLM.Timeout != nil {
		cfg.LLM.Timeout = time.Duration(*fc.LLM.Timeout)
	}

	setString(&cfg.LLM.Gemini.APIKey, fc.LLM.Gemini.APIKey)
	setString(&cfg.LLM.Gemini.Model, fc.LLM.Gemini.Model)
	setString(&cfg.LLM.OpenAI.APIKey, fc.LLM.OpenAI.APIKey)
	setString(&cfg.LLM.OpenAI.Model, fc.LLM.OpenAI.Model)
	setString(&cfg.LLM.OpenAI.BaseURL, fc.LLM.OpenAI.BaseURL)
	setString(&cfg.LLM.Anthropic.APIKey, fc.LLM.Anthropic.APIKey)
	setString(&cfg.LLM.Anthropic.Model, fc.LLM.Anthropic.Model)
	setString(&cfg.LLM.OpenRouter.APIKey, fc.LLM.OpenRouter.APIKey)
	setString(&cfg.LLM.OpenRouter.Model, fc.LLM.OpenRouter.Model)
	setString(&cfg.LLM.OpenRouter.BaseURL, fc.LLM.OpenRouter.BaseURL)

	setString(&cfg.Remote.BaseURL, fc.Remote.BaseURL)
	setString(&cfg.Remote.APIKey, fc.Remote.APIKey)
	setString(&cfg.Identity.UserID, fc.Identity.UserID)
	setString(&cfg.Identity.Email, fc.Identity.Email)
}

func applyRemoteEnv(cfg *Config) {
	if v := os.Getenv("LEETTRACK_REMOTE_URL"); v != "" {
		cfg.Remote.BaseURL = v
	}
	if v := os.Getenv("LEETTRACK_REMOTE_KEY"); v != "" {
		cfg.Remote.APIKey = v
	}
	if v := os.Getenv("LEETTRACK_USER_ID"); v != "" {
		cfg.Identity.UserID = v
	}
	if v := os.Getenv("LEETTRACK_EMAIL"); v != "" {
		cfg.Identity.Email = v
	}
	if v := os.Getenv("LEETTRACK_DB"); v != "" {
		cfg.DBPath = v
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
