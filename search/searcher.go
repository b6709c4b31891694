package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/brightpool/assetvault/ai"
	"github.com/brightpool/assetvault/core"
	"github.com/brightpool/assetvault/storage"
)

const (
	// keywordLimit caps each lexical match source (filename, per-token tags).
	keywordLimit = 25

	// semanticLimit caps the vector similarity result set.
	semanticLimit = 50

	// semanticThreshold is the minimum cosine similarity for a semantic
	// candidate to be admitted.
	semanticThreshold = 0.5

	// defaultSemanticTimeout bounds the embedding call plus the similarity
	// scan. The keyword path is not bounded beyond the caller's context.
	defaultSemanticTimeout = 10 * time.Second
)

// Searcher provides hybrid keyword and semantic search over the asset
// catalog. The two match paths run concurrently; the semantic path degrades
// to an empty result set on provider errors or timeouts rather than failing
// the search.
type Searcher struct {
	assets          storage.AssetRepository
	embedder        ai.Embedder
	semanticTimeout time.Duration
	logger          *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithSemanticTimeout bounds the semantic match path. Zero or negative
// restores the default.
func WithSemanticTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		if timeout <= 0 {
			timeout = defaultSemanticTimeout
		}
		s.semanticTimeout = timeout
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(assets storage.AssetRepository, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if assets == nil {
		return nil, ErrAssetRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		assets:          assets,
		embedder:        provider.Embedder(),
		semanticTimeout: defaultSemanticTimeout,
		logger:          slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs both match paths for the query and returns the fused, ranked
// result set.
func (s *Searcher) Search(ctx context.Context, query string) (*core.SearchResponse, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor runs a search with monitoring. The monitor receives
// callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) (*core.SearchResponse, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	monitor.Start(query)

	// The matchers are independent; fan out and join.
	var (
		wg       sync.WaitGroup
		keyword  []*core.Asset
		semantic []*core.SimilarityMatch
		kwErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		keyword, kwErr = s.matchKeywords(ctx, query)
	}()
	go func() {
		defer wg.Done()
		semantic = s.matchSemantic(ctx, query)
	}()
	wg.Wait()

	if kwErr != nil {
		s.logger.Error("keyword search failed", "query", query, "err", kwErr)
		return nil, kwErr
	}

	monitor.AfterKeywordSearch(assetIDs(keyword))
	monitor.AfterSemanticSearch(matchIDs(semantic))

	results := Rank(keyword, semantic, query)
	s.reportHits(results, monitor)

	monitor.Finish(results)

	return &core.SearchResponse{
		Assets: results,
		Total:  len(results),
		Query:  query,
	}, nil
}

// matchKeywords finds lexical candidates: filename substring matches on the
// raw query, plus exact tag token matches for each whitespace-separated
// token. The union is deduplicated keeping the first occurrence.
func (s *Searcher) matchKeywords(ctx context.Context, query string) ([]*core.Asset, error) {
	seen := make(map[core.ID]bool)
	var results []*core.Asset

	byFilename, err := s.assets.FindByFilenameSubstring(ctx, query, keywordLimit)
	if err != nil {
		return nil, err
	}
	for _, asset := range byFilename {
		if !seen[asset.Id] {
			seen[asset.Id] = true
			results = append(results, asset)
		}
	}

	for _, token := range strings.Fields(strings.ToLower(query)) {
		byTag, err := s.assets.FindByTag(ctx, token, keywordLimit)
		if err != nil {
			return nil, err
		}
		for _, asset := range byTag {
			if !seen[asset.Id] {
				seen[asset.Id] = true
				results = append(results, asset)
			}
		}
	}

	return results, nil
}

// matchSemantic finds vector similarity candidates. Any failure on this path
// degrades to an empty result set: a missing provider, an embedding error, a
// timeout, or a similarity scan failure must not abort the whole search.
func (s *Searcher) matchSemantic(ctx context.Context, query string) []*core.SimilarityMatch {
	ctx, cancel := context.WithTimeout(ctx, s.semanticTimeout)
	defer cancel()

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Warn("semantic search degraded: embedding failed", "query", query, "err", err)
		return nil
	}
	if len(vector) == 0 {
		// No provider configured
		return nil
	}

	matches, err := s.assets.FindSimilar(ctx, vector, semanticThreshold, semanticLimit)
	if err != nil {
		s.logger.Warn("semantic search degraded: similarity scan failed", "query", query, "err", err)
		return nil
	}

	return matches
}

func (s *Searcher) reportHits(results []*core.RankedAsset, monitor SearchMonitor) {
	for _, result := range results {
		switch {
		case result.Match == core.MatchKeyword && result.Similarity > 0:
			monitor.KeywordAndSemanticHit(result.Asset)
		case result.Match == core.MatchKeyword:
			monitor.KeywordHit(result.Asset)
		default:
			monitor.SemanticHit(result.Asset)
		}
	}
}

func assetIDs(assets []*core.Asset) []uint64 {
	ids := make([]uint64, 0, len(assets))
	for _, asset := range assets {
		ids = append(ids, uint64(asset.Id))
	}
	return ids
}

func matchIDs(matches []*core.SimilarityMatch) []uint64 {
	ids := make([]uint64, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, uint64(match.Asset.Id))
	}
	return ids
}
