package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brightpool/assetvault/ai/mock"
	"github.com/brightpool/assetvault/core"
	"github.com/brightpool/assetvault/storage"
	"github.com/brightpool/assetvault/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.AssetRepository {
	t.Helper()
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestNewSearcher(t *testing.T) {
	repo := newTestRepo(t)
	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(repo, provider)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(repo, provider, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewSearcher(nil, provider)
		assert.Equal(t, ErrAssetRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewSearcher(repo, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestSearchEmptyQuery(t *testing.T) {
	repo := newTestRepo(t)
	searcher, err := NewSearcher(repo, mock.NewMockProvider())
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "   ")
	assert.Equal(t, ErrEmptyQuery, err)
}

func TestSearchEmptyCatalog(t *testing.T) {
	repo := newTestRepo(t)
	searcher, err := NewSearcher(repo, mock.NewMockProvider())
	require.NoError(t, err)

	response, err := searcher.Search(context.Background(), "dashboard")
	require.NoError(t, err)
	assert.Empty(t, response.Assets)
	assert.Equal(t, 0, response.Total)
	assert.Equal(t, "dashboard", response.Query)
}

func TestSearchKeywordByFilename(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset := &core.Asset{
		Filename: "dashboard-mockup.png",
		FileType: core.FileTypeImage,
		AITags:   []string{"dashboard", "ui"},
		Status:   core.StatusComplete,
	}
	_, err := repo.AddAssets(ctx, asset)
	require.NoError(t, err)

	// Embedder that never matches anything keeps this keyword-only
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockAnalyzer())

	searcher, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	response, err := searcher.Search(ctx, "dashboard")
	require.NoError(t, err)
	require.Len(t, response.Assets, 1)
	assert.Equal(t, 80, response.Assets[0].Score)
	assert.Equal(t, core.MatchKeyword, response.Assets[0].Match)
}

func TestSearchKeywordByUserTag(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset := &core.Asset{
		Filename: "IMG_9912.png",
		FileType: core.FileTypeImage,
		UserTags: []string{"campaign"},
		Status:   core.StatusComplete,
	}
	_, err := repo.AddAssets(ctx, asset)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockAnalyzer())

	searcher, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	response, err := searcher.Search(ctx, "campaign")
	require.NoError(t, err)
	require.Len(t, response.Assets, 1)
	assert.Equal(t, asset.Id, response.Assets[0].Asset.Id)
}

func TestSearchSemanticMatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset := &core.Asset{
		Filename: "unrelated-name.png",
		FileType: core.FileTypeImage,
		Status:   core.StatusComplete,
		Vector:   []float32{1, 0, 0},
	}
	_, err := repo.AddAssets(ctx, asset)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockAnalyzer())

	searcher, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	response, err := searcher.Search(ctx, "product shot")
	require.NoError(t, err)
	require.Len(t, response.Assets, 1)
	assert.Equal(t, core.MatchSemantic, response.Assets[0].Match)
	assert.Equal(t, scoreSimilarityHigh, response.Assets[0].Score)
}

func TestSearchDegradesOnEmbedderFailure(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset := &core.Asset{
		Filename: "dashboard.png",
		FileType: core.FileTypeImage,
		Status:   core.StatusComplete,
	}
	_, err := repo.AddAssets(ctx, asset)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("provider unreachable")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockAnalyzer())

	searcher, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	// Keyword results still come back despite the dead semantic path
	response, err := searcher.Search(ctx, "dashboard")
	require.NoError(t, err)
	require.Len(t, response.Assets, 1)
	assert.Equal(t, core.MatchKeyword, response.Assets[0].Match)
}

func TestSearchDegradesOnSlowEmbedder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset := &core.Asset{
		Filename: "dashboard.png",
		FileType: core.FileTypeImage,
		Status:   core.StatusComplete,
	}
	_, err := repo.AddAssets(ctx, asset)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return []float32{1, 0, 0}, nil
		}
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockAnalyzer())

	searcher, err := NewSearcher(repo, provider, WithSemanticTimeout(50*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	response, err := searcher.Search(ctx, "dashboard")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, response.Assets, 1)
}

func TestSearchMergesBothPaths(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset := &core.Asset{
		Filename: "dashboard-mockup.png",
		FileType: core.FileTypeImage,
		AITags:   []string{"dashboard"},
		Status:   core.StatusComplete,
		Vector:   []float32{1, 0, 0},
	}
	_, err := repo.AddAssets(ctx, asset)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockAnalyzer())

	searcher, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	response, err := searcher.Search(ctx, "dashboard")
	require.NoError(t, err)
	require.Len(t, response.Assets, 1, "duplicate candidate must merge into one row")

	// +50 filename substring, +30 tag, +20 similarity > 0.8
	assert.Equal(t, 100, response.Assets[0].Score)
	assert.Equal(t, core.MatchKeyword, response.Assets[0].Match)
	assert.Greater(t, response.Assets[0].Similarity, float32(0.8))
}

func TestSearchMonitorCallbacks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset := &core.Asset{
		Filename: "dashboard.png",
		FileType: core.FileTypeImage,
		Status:   core.StatusComplete,
	}
	_, err := repo.AddAssets(ctx, asset)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockAnalyzer())

	searcher, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	_, err = searcher.SearchWithMonitor(ctx, "dashboard", monitor)
	require.NoError(t, err)

	assert.Equal(t, "dashboard", monitor.query)
	assert.Len(t, monitor.keywordIDs, 1)
	assert.Empty(t, monitor.semanticIDs)
	assert.Equal(t, 1, monitor.keywordHits)
	assert.True(t, monitor.finished)
}

type recordingMonitor struct {
	query       string
	keywordIDs  []uint64
	semanticIDs []uint64
	keywordHits int
	finished    bool
}

func (m *recordingMonitor) Start(query string)                  { m.query = query }
func (m *recordingMonitor) AfterKeywordSearch(ids []uint64)     { m.keywordIDs = ids }
func (m *recordingMonitor) AfterSemanticSearch(ids []uint64)    { m.semanticIDs = ids }
func (m *recordingMonitor) KeywordAndSemanticHit(_ *core.Asset) {}
func (m *recordingMonitor) KeywordHit(_ *core.Asset)            { m.keywordHits++ }
func (m *recordingMonitor) SemanticHit(_ *core.Asset)           {}
func (m *recordingMonitor) Finish(_ []*core.RankedAsset)        { m.finished = true }
