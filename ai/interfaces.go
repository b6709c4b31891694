package ai

import (
	"context"

	"github.com/brightpool/assetvault/core"
)

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Empty or whitespace-only input returns (nil, nil) without invoking
	// the provider. Input is truncated to the model context limit.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Analyzer produces tags, summaries, and image descriptions for asset
// content. Every capability is individually optional: a provider without a
// configured credential returns empty results, not errors.
// Implementations must be thread-safe for concurrent use.
type Analyzer interface {
	// GenerateTags produces 3-7 short, lowercase, specific tags for the
	// content. Malformed model output yields an empty slice, not an error.
	GenerateTags(ctx context.Context, content string, fileType core.FileType) ([]string, error)

	// GenerateSummary produces a 1-2 sentence description suitable for
	// quick browsing. Returns "" when no summary could be produced.
	GenerateSummary(ctx context.Context, content string, fileType core.FileType) (string, error)

	// AnalyzeImage runs one combined visual analysis pass producing a
	// description, tags, and a summary together. Failures degrade to an
	// empty analysis.
	AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*ImageAnalysis, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and Analyzer
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Analyzer returns the content analysis service.
	// The returned Analyzer is safe for concurrent use.
	Analyzer() Analyzer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
