// Copyright 2025 Brightpool Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Host is the base URL for the OpenAI-compatible API used for chat,
	// vision, and embeddings.
	// Example: "http://localhost:11434/v1" for a local server.
	Host string

	// APIKey authenticates against the provider. May be empty for local
	// OpenAI-compatible servers that don't require authentication, but then
	// Host must be set explicitly; with neither, the config is disabled and
	// every AI capability becomes a no-op.
	APIKey string

	// ChatModel is the model identifier used for tag, summary, and image
	// analysis generation.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	ChatModel string

	// EmbeddingModel is the model identifier used for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// EmbedInputLimit is the maximum number of characters passed to the
	// embedding model; longer input is truncated.
	// Default: 8000
	EmbedInputLimit int

	// PromptContentLimit is the maximum number of characters of asset
	// content included in tag/summary prompts.
	// Default: 4000
	PromptContentLimit int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the provider base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithChatModel sets the chat/vision model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbedInputLimit sets the embedding input truncation bound.
func WithEmbedInputLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.EmbedInputLimit = limit
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible server. Note the default config has no host or key set,
// so it is disabled until one of them is provided.
func DefaultConfig() *Config {
	return &Config{
		ChatModel:          "qwen2.5:3b",
		EmbeddingModel:     "embeddinggemma",
		EmbedInputLimit:    8000,
		PromptContentLimit: 4000,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Enabled reports whether the config points at a usable provider. A config
// with neither a host nor an API key is a deliberate no-op: enrichment and
// semantic search degrade to empty results instead of erroring.
func (c *Config) Enabled() bool {
	return c.Host != "" || c.APIKey != ""
}

// Normalize ensures the configuration is in a canonical form. It adds the
// /v1 suffix to the host if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
	if c.EmbedInputLimit <= 0 {
		c.EmbedInputLimit = 8000
	}
	if c.PromptContentLimit <= 0 {
		c.PromptContentLimit = 4000
	}
}

// Validate checks that an enabled configuration is complete. It normalizes
// the configuration before validation. Disabled configs are always valid.
func (c *Config) Validate() error {
	c.Normalize()

	if !c.Enabled() {
		return nil
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	return nil
}
