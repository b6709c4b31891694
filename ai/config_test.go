package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled())
	assert.Equal(t, 8000, cfg.EmbedInputLimit)
	assert.Equal(t, 4000, cfg.PromptContentLimit)
	assert.NotEmpty(t, cfg.ChatModel)
	assert.NotEmpty(t, cfg.EmbeddingModel)
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://localhost:11434"),
		WithAPIKey("sk-test"),
		WithChatModel("gpt-4o-mini"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithEmbedInputLimit(2000),
	)

	assert.True(t, cfg.Enabled())
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, 2000, cfg.EmbedInputLimit)
}

func TestConfig_Normalize(t *testing.T) {
	t.Run("appends /v1 suffix", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("trims trailing slash before appending", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("leaves /v1 suffix alone", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/v1"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("leaves empty host alone", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Normalize()
		assert.Empty(t, cfg.Host)
	})

	t.Run("restores default limits", func(t *testing.T) {
		cfg := NewConfig(WithEmbedInputLimit(-1))
		cfg.Normalize()
		assert.Equal(t, 8000, cfg.EmbedInputLimit)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("disabled config is valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("enabled config requires models", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("sk-test"))
		cfg.ChatModel = ""
		assert.Error(t, cfg.Validate())

		cfg = NewConfig(WithAPIKey("sk-test"))
		cfg.EmbeddingModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("complete enabled config is valid", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})
}
