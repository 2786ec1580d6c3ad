package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MEALWISE_JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "mealwise.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4", cfg.LLM.OpenAIModel)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, SinkFile, cfg.Export.Sink)
	assert.False(t, cfg.LLMEnabled(), "no api key set")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MEALWISE_JWT_SECRET", testSecret)
	t.Setenv("MEALWISE_PORT", "9090")
	t.Setenv("MEALWISE_LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("MEALWISE_LLM_TIMEOUT", "15s")
	t.Setenv("MEALWISE_EXPORT_SINK", "s3")
	t.Setenv("MEALWISE_S3_BUCKET", "lists")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "lists", cfg.Export.S3Bucket)
	assert.True(t, cfg.LLMEnabled())
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("MEALWISE_JWT_SECRET", "short")

	_, err := Load()
	assert.ErrorContains(t, err, "MEALWISE_JWT_SECRET")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:      8080,
			DBPath:    "x.db",
			JWTSecret: testSecret,
			TokenTTL:  time.Hour,
			LLM:       LLMConfig{Provider: ProviderNone, Timeout: time.Second, RateLimit: 1, RateWindow: time.Minute},
			Export:    ExportConfig{Sink: SinkFile, Dir: "exports"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = 0 }, "port 0 out of range"},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "claude" }, `unknown llm provider "claude"`},
		{"s3 without bucket", func(c *Config) { c.Export.Sink = SinkS3 }, "MEALWISE_S3_BUCKET"},
		{"unknown sink", func(c *Config) { c.Export.Sink = "ftp" }, `unknown export sink "ftp"`},
		{"zero timeout", func(c *Config) { c.LLM.Timeout = 0 }, "llm timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDecodeSkipsValidation(t *testing.T) {
	t.Setenv("MEALWISE_DB_PATH", "other.db")

	cfg, err := Decode()
	require.NoError(t, err)
	assert.Equal(t, "other.db", cfg.DBPath)
	assert.Error(t, cfg.Validate(), "secret is missing")
}
