package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"LEETTRACK_LLM_PROVIDER", "LEETTRACK_GEMINI_API_KEY",
		"LEETTRACK_REMOTE_URL", "LEETTRACK_REMOTE_KEY",
		"LEETTRACK_USER_ID", "LEETTRACK_EMAIL", "LEETTRACK_DB",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(v, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEETTRACK_DB", filepath.Join(t.TempDir(), "x.db"))

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.False(t, cfg.Remote.Enabled())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
db-path = "/tmp/custom.db"

[llm]
provider = "openai"
timeout = "45s"

[llm.openai]
api-key = "sk-file"
model = "gpt-4o"

[remote]
base-url = "https://proj.example.co"
api-key = "service-key"

[identity]
user-id = "u1"
email = "u1@example.com"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "sk-file", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.OpenAI.Model)
	// Unmentioned settings keep their defaults.
	assert.Equal(t, "gemini-flash", cfg.LLM.Gemini.Model)

	assert.True(t, cfg.Remote.Enabled())
	assert.Equal(t, "u1", cfg.Identity.UserID)
	assert.Equal(t, "u1@example.com", cfg.Identity.Email)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[llm]
provider = "openai"

[llm.openai]
api-key = "sk-file"

[remote]
base-url = "https://file.example.co"
api-key = "file-key"
`)
	t.Setenv("LEETTRACK_LLM_PROVIDER", "gemini")
	t.Setenv("LEETTRACK_GEMINI_API_KEY", "g-env")
	t.Setenv("LEETTRACK_REMOTE_URL", "https://env.example.co")
	t.Setenv("LEETTRACK_DB", "/tmp/env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "g-env", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, "https://env.example.co", cfg.Remote.BaseURL)
	assert.Equal(t, "file-key", cfg.Remote.APIKey)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "this is not toml = = =")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/leettrack/config.toml", DefaultConfigPath())
}
