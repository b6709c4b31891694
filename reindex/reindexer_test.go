package reindex

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpool/assetvault/ai/mock"
	"github.com/brightpool/assetvault/core"
	"github.com/brightpool/assetvault/storage"
	"github.com/brightpool/assetvault/storage/badger"
)

func setupTestRepo(t *testing.T) storage.AssetRepository {
	t.Helper()

	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func addTestAssets(t *testing.T, repo storage.AssetRepository, count int) {
	t.Helper()

	ctx := context.Background()
	assets := make([]*core.Asset, count)
	for i := 0; i < count; i++ {
		assets[i] = &core.Asset{
			Filename: "report.pdf",
			FileType: core.FileTypePDF,
			Status:   core.StatusComplete,
		}
	}
	added, err := repo.AddAssets(ctx, assets...)
	require.NoError(t, err)
	require.Len(t, added, count)
}

func TestReindexer_Run(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	addTestAssets(t, repo, 10)

	var buf bytes.Buffer
	embedder := mock.NewMockEmbedder()
	config := &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}

	reindexer := NewReindexer(repo, embedder, config, &buf)
	err := reindexer.Run(ctx)
	require.NoError(t, err)

	// Verify all assets have normalized embeddings
	count := 0
	err = repo.ScanAssets(ctx, func(asset *core.Asset) error {
		count++
		require.NotEmpty(t, asset.Vector, "asset %d should have embedding", asset.Id)
		var magnitude float32
		for _, v := range asset.Vector {
			magnitude += v * v
		}
		assert.InDelta(t, 1.0, magnitude, 0.01, "vector should be normalized")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, count)

	// Check progress output
	output := buf.String()
	assert.Contains(t, output, "10/10", "should show completion")
}

func TestReindexer_EmptyLibrary(t *testing.T) {
	repo := setupTestRepo(t)

	var buf bytes.Buffer
	embedder := mock.NewMockEmbedder()

	reindexer := NewReindexer(repo, embedder, DefaultConfig(), &buf)
	err := reindexer.Run(context.Background())
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "0 assets", "should report zero assets")
}

func TestReindexer_ContextCancellation(t *testing.T) {
	repo := setupTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addTestAssets(t, repo, 10)

	// Cancel after the second batch
	callCount := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		callCount++
		if callCount == 2 {
			cancel()
		}
		result := make([][]float32, len(texts))
		for i := range result {
			result[i] = []float32{1.0, 0.0, 0.0}
		}
		return result, nil
	}

	var buf bytes.Buffer
	config := &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}

	reindexer := NewReindexer(repo, embedder, config, &buf)
	err := reindexer.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, callCount, 3, "should stop shortly after cancellation")
}

func TestReindexer_EmbedderFailure(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	addTestAssets(t, repo, 3)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("provider unavailable")
	}

	var buf bytes.Buffer
	config := &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}

	reindexer := NewReindexer(repo, embedder, config, &buf)
	err := reindexer.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

