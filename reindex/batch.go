package reindex

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brightpool/assetvault/ai"
	"github.com/brightpool/assetvault/core"
	"github.com/brightpool/assetvault/storage"
)

// BatchProcessor handles embedding generation for batches of assets.
type BatchProcessor struct {
	repo           storage.AssetRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.AssetRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of assets and updates them in the database.
// Vectors are normalized after embedding to ensure compatibility with cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, assets []*core.Asset) error {
	if len(assets) == 0 {
		return nil
	}

	// Build the embedding input for each asset. Assets with nothing to
	// embed are skipped.
	candidates := make([]*core.Asset, 0, len(assets))
	texts := make([]string, 0, len(assets))
	for _, asset := range assets {
		input := embeddingInput(asset)
		if input == "" {
			continue
		}
		candidates = append(candidates, asset)
		texts = append(texts, input)
	}
	if len(candidates) == 0 {
		return nil
	}
	assets = candidates

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(assets) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(assets), len(embeddings))
	}

	// Normalize vectors and assign to assets
	for i := range assets {
		assets[i].Vector = normalizeVector(embeddings[i])
	}

	// Update assets in database
	_, err = bp.repo.UpdateAssets(ctx, assets...)
	if err != nil {
		return fmt.Errorf("failed to update assets: %w", err)
	}

	return nil
}

// normalizeVector scales v to unit length so reindexed vectors compare
// cleanly under cosine similarity. A zero or empty vector is returned
// unchanged in value.
func normalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	magnitude := float32(math.Sqrt(sum))

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}

// embeddingInput builds the text to embed for an asset, combining its
// filename, summary, extracted text, and tags. Blank parts are skipped.
func embeddingInput(asset *core.Asset) string {
	parts := make([]string, 0, 3+len(asset.AITags)+len(asset.UserTags))
	for _, part := range []string{asset.Filename, asset.AISummary, asset.ExtractedText} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	for _, tags := range [][]string{asset.AITags, asset.UserTags} {
		for _, tag := range tags {
			if strings.TrimSpace(tag) != "" {
				parts = append(parts, tag)
			}
		}
	}
	return strings.Join(parts, " ")
}
