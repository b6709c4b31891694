package ai

import (
	"context"
	"log/slog"
	"sync"

	"github.com/brightpool/assetvault/core"
)

// Disabled returns a Provider whose capabilities are all no-ops: embeddings
// return nil vectors, tags return empty slices, summaries and analyses come
// back empty, and nothing ever errors. It is the provider used when no AI
// credential is configured, so ingestion and search keep working with
// enrichment degraded.
func Disabled() Provider {
	return &disabledProvider{logger: slog.Default().With("component", "ai")}
}

type disabledProvider struct {
	logger *slog.Logger
	once   sync.Once
}

var _ Provider = (*disabledProvider)(nil)

func (p *disabledProvider) warn() {
	p.once.Do(func() {
		p.logger.Warn("no AI provider configured, enrichment and semantic search are disabled")
	})
}

func (p *disabledProvider) Embedder() Embedder { return (*disabledService)(p) }
func (p *disabledProvider) Analyzer() Analyzer { return (*disabledService)(p) }
func (p *disabledProvider) Close() error       { return nil }

type disabledService disabledProvider

func (s *disabledService) EmbedText(ctx context.Context, text string) ([]float32, error) {
	(*disabledProvider)(s).warn()
	return nil, nil
}

func (s *disabledService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	(*disabledProvider)(s).warn()
	return make([][]float32, len(texts)), nil
}

func (s *disabledService) GenerateTags(ctx context.Context, content string, fileType core.FileType) ([]string, error) {
	(*disabledProvider)(s).warn()
	return []string{}, nil
}

func (s *disabledService) GenerateSummary(ctx context.Context, content string, fileType core.FileType) (string, error) {
	(*disabledProvider)(s).warn()
	return "", nil
}

func (s *disabledService) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*ImageAnalysis, error) {
	(*disabledProvider)(s).warn()
	return &ImageAnalysis{}, nil
}
