package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable applyEnvOverrides reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_API_KEY", "GEMINI_API_KEY", "AGENT_LLM_MODEL", "MURF_API_KEY",
		"DEEPGRAM_API_KEY", "AGENT_DATA_DIR", "AGENT_FRAUD_BACKEND", "REDIS_ADDR",
		"AGENT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "shared-data", cfg.DataDir)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, "Physics Wallah", cfg.Company("tutor"))
	assert.Equal(t, "Zepto", cfg.Company("shop"))
	assert.Equal(t, "nova-3", cfg.Voice.STT.Model)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "agent.yaml")
	cfg := DefaultConfig()
	cfg.DataDir = "/srv/agent-data"
	cfg.LLM.Model = "gemini-2.5-pro"
	cfg.Store.FraudBackend = "redis"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/agent-data", loaded.DataDir)
	assert.Equal(t, "gemini-2.5-pro", loaded.LLM.Model)
	assert.Equal(t, "redis", loaded.Store.FraudBackend)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().DataDir, cfg.DataDir)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GEMINI_API_KEY wins over GOOGLE_API_KEY", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "google-key")
		t.Setenv("GEMINI_API_KEY", "gemini-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini-key", cfg.LLM.APIKey)
		assert.True(t, cfg.LLM.Enabled())
	})

	t.Run("voice keys and store settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MURF_API_KEY", "murf")
		t.Setenv("DEEPGRAM_API_KEY", "dg")
		t.Setenv("AGENT_FRAUD_BACKEND", "REDIS")
		t.Setenv("REDIS_ADDR", "redis:6380")
		t.Setenv("AGENT_DATA_DIR", "/tmp/data")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "murf", cfg.Voice.TTS.APIKey)
		assert.Equal(t, "dg", cfg.Voice.STT.APIKey)
		assert.Equal(t, "redis", cfg.Store.FraudBackend)
		assert.Equal(t, "redis:6380", cfg.Store.RedisAddr)
		assert.Equal(t, "/tmp/data", cfg.DataDir)
	})

	t.Run("empty env leaves config untouched", func(t *testing.T) {
		clearEnv(t)
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.False(t, cfg.LLM.Enabled())
		assert.Equal(t, "sqlite", cfg.Store.FraudBackend)
	})
}

func TestLoad_ReadsEnvLocalNextToConfig(t *testing.T) {
	clearEnv(t)
	const key = "AGENT_LLM_MODEL"
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte(key+"=gemini-from-dotenv\n"), 0644))

	cfg, err := Load(filepath.Join(dir, "agent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini-from-dotenv", cfg.LLM.Model)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "zai" }},
		{"zero tool rounds", func(c *Config) { c.LLM.MaxToolRounds = 0 }},
		{"unknown backend", func(c *Config) { c.Store.FraudBackend = "mongo" }},
		{"vad threshold", func(c *Config) { c.Voice.VAD.ActivationThreshold = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()
	assert.NotZero(t, cfg.GetLLMTimeout())
	assert.Equal(t, filepath.Join("shared-data", "orders.json"), cfg.DataPath("orders.json"))
	assert.Equal(t, "/abs/orders.json", cfg.DataPath("/abs/orders.json"))
	assert.Equal(t, "unknown", cfg.Company("unknown"))

	cfg.LLM.Timeout = "garbage"
	assert.Equal(t, 60.0, cfg.GetLLMTimeout().Seconds())
	assert.Equal(t, int64(550), VADConfig{MinSilence: "bad"}.GetMinSilence().Milliseconds())

	opts := cfg.LoggingOptions()
	assert.Equal(t, filepath.Join("shared-data", "logs"), opts.Dir)
}
