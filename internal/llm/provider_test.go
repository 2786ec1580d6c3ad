package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/mealwise/internal/config"
)

func TestNewDisabled(t *testing.T) {
	for _, cfg := range []config.LLMConfig{
		{Provider: config.ProviderNone},
		{Provider: config.ProviderOpenAI},
		{Provider: config.ProviderGemini},
	} {
		gen, err := New(context.Background(), cfg)
		require.NoError(t, err)
		assert.Nil(t, gen, "provider %q without key", cfg.Provider)
	}
}

func TestNewOpenAI(t *testing.T) {
	gen, err := New(context.Background(), config.LLMConfig{Provider: config.ProviderOpenAI, OpenAIAPIKey: "k", OpenAIModel: "gpt-4o"})
	require.NoError(t, err)
	require.NotNil(t, gen)
	assert.Equal(t, "openai", gen.Name())
	assert.Equal(t, "gpt-4o", gen.(*OpenAIClient).model)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.LLMConfig{Provider: "llama"})
	assert.ErrorContains(t, err, `unknown llm provider "llama"`)
}

func TestUpstreamErrorMessage(t *testing.T) {
	assert.Equal(t, "openai api error: status=500 body=boom", (&UpstreamError{Provider: "openai", StatusCode: 500, Body: "boom"}).Error())
	assert.Equal(t, "gemini api error: quota", (&UpstreamError{Provider: "gemini", Body: "quota"}).Error())
}
