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


package assetvault

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/brightpool/assetvault/ai"
	"github.com/brightpool/assetvault/ai/openai"
	"github.com/brightpool/assetvault/core"
	"github.com/brightpool/assetvault/processing"
	"github.com/brightpool/assetvault/search"
	"github.com/brightpool/assetvault/storage"
	"github.com/brightpool/assetvault/storage/badger"
	"github.com/brightpool/assetvault/storage/blob"
)

// Library is the top-level entry point for an asset vault: a badger-backed
// catalog, a blob store for the raw files, a processing pipeline, and a
// searcher, wired together over a shared AI provider.
type Library struct {
	assets   storage.AssetRepository
	blobs    storage.BlobStore
	provider ai.Provider
	pipeline *processing.Pipeline
	searcher *search.Searcher
	logger   *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	blobs    storage.BlobStore
	logger   *slog.Logger
}

// WithAIConfig configures an OpenAI-compatible provider from config. Ignored
// when WithProvider is also given.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a pre-built AI provider. The library takes ownership
// and closes it on Close.
func WithProvider(provider ai.Provider) LibraryOption {
	return func(o *libraryOptions) {
		o.provider = provider
	}
}

// WithBlobStore replaces the default filesystem blob store, for example with
// an S3-compatible one.
func WithBlobStore(blobs storage.BlobStore) LibraryOption {
	return func(o *libraryOptions) {
		o.blobs = blobs
	}
}

// WithLibraryLogger sets the logger. Defaults to slog.Default().
func WithLibraryLogger(logger *slog.Logger) LibraryOption {
	return func(o *libraryOptions) {
		o.logger = logger
	}
}

// NewLibrary opens an asset library rooted at dataDir. The badger database
// lives under <dataDir>/db and blobs under <dataDir>/blobs unless a blob
// store is supplied. Without WithProvider or WithAIConfig the AI provider is
// disabled and assets complete processing without enrichment.
func NewLibrary(dataDir string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	assets, err := badger.NewRepository(filepath.Join(dataDir, "db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open asset repository: %w", err)
	}

	blobs := options.blobs
	if blobs == nil {
		blobs, err = blob.NewFileStore(filepath.Join(dataDir, "blobs"))
		if err != nil {
			assets.Close()
			return nil, fmt.Errorf("failed to open blob store: %w", err)
		}
	}

	provider := options.provider
	if provider == nil {
		if options.aiConfig != nil {
			provider, err = openai.NewProvider(options.aiConfig)
			if err != nil {
				assets.Close()
				return nil, fmt.Errorf("failed to create AI provider: %w", err)
			}
		} else {
			provider = ai.Disabled()
		}
	}

	pipeline, err := processing.NewPipeline(assets, blobs, provider,
		processing.WithLogger(logger))
	if err != nil {
		provider.Close()
		assets.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(assets, provider,
		search.WithLogger(logger))
	if err != nil {
		pipeline.Release()
		provider.Close()
		assets.Close()
		return nil, err
	}

	return &Library{
		assets:   assets,
		blobs:    blobs,
		provider: provider,
		pipeline: pipeline,
		searcher: searcher,
		logger:   logger,
	}, nil
}

// AddAsset validates and stores a new asset, then enqueues it for
// asynchronous processing. The returned asset is in pending status; its
// enrichment fields fill in once processing completes.
func (l *Library) AddAsset(ctx context.Context, filename, mimeType string, data []byte) (*core.Asset, error) {
	fileType, err := core.FileTypeFromMime(mimeType)
	if err != nil {
		return nil, err
	}

	sanitized := core.SanitizeFilename(filename)
	if err := core.ValidateFilename(sanitized); err != nil {
		return nil, err
	}

	// Content-addressed blob path keeps identical uploads at one location.
	contentID := core.IDFromBytes(data)
	storagePath := path.Join("assets", fmt.Sprintf("%016x", uint64(contentID)),
		"original"+path.Ext(sanitized))

	if err := l.blobs.Upload(ctx, storagePath, data); err != nil {
		return nil, fmt.Errorf("failed to store blob: %w", err)
	}

	asset := &core.Asset{
		Filename:         sanitized,
		OriginalFilename: filename,
		FileType:         fileType,
		MimeType:         mimeType,
		FileSize:         int64(len(data)),
		StoragePath:      storagePath,
		Status:           core.StatusPending,
	}

	added, err := l.assets.AddAssets(ctx, asset)
	if err != nil {
		return nil, err
	}
	asset = added[0]

	if err := l.pipeline.Enqueue(asset.Id); err != nil {
		l.logger.Error("failed to enqueue asset for processing", "id", asset.Id, "err", err)
	}

	return asset, nil
}

// Search runs a combined keyword and semantic search over the catalog.
func (l *Library) Search(ctx context.Context, query string) (*core.SearchResponse, error) {
	return l.searcher.Search(ctx, query)
}

// Asset retrieves a single asset by ID.
func (l *Library) Asset(ctx context.Context, id core.ID) (*core.Asset, error) {
	return l.assets.GetAsset(ctx, id)
}

// RecentAssets returns the most recently created assets, newest first.
func (l *Library) RecentAssets(ctx context.Context, limit int) ([]*core.Asset, error) {
	return l.assets.GetRecentAssets(ctx, limit)
}

// Retry resets a failed asset to pending and reprocesses it.
func (l *Library) Retry(ctx context.Context, id core.ID) error {
	return l.pipeline.Retry(ctx, id)
}

// Delete removes an asset, its indices, and its download history, then
// removes its blobs best effort. A blob removal failure is logged, not
// returned: the catalog delete has already happened.
func (l *Library) Delete(ctx context.Context, id core.ID) error {
	asset, err := l.assets.GetAsset(ctx, id)
	if err != nil {
		return err
	}

	if err := l.assets.DeleteAssets(ctx, id); err != nil {
		return err
	}

	for _, p := range []string{asset.StoragePath, asset.ThumbnailPath} {
		if p == "" {
			continue
		}
		if err := l.blobs.Remove(ctx, p); err != nil {
			l.logger.Warn("failed to remove blob", "id", id, "path", p, "err", err)
		}
	}
	return nil
}

// RecordDownload records a download event and bumps the asset counter.
func (l *Library) RecordDownload(ctx context.Context, id core.ID, downloadedBy string) (*core.Download, error) {
	return l.assets.RecordDownload(ctx, id, downloadedBy)
}

// DownloadAsset fetches an asset's original bytes from the blob store.
func (l *Library) DownloadAsset(ctx context.Context, id core.ID) (*core.Asset, []byte, error) {
	asset, err := l.assets.GetAsset(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := l.blobs.Download(ctx, asset.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return asset, data, nil
}

// Assets exposes the underlying repository for advanced use.
func (l *Library) Assets() storage.AssetRepository {
	return l.assets
}

// Blobs exposes the underlying blob store.
func (l *Library) Blobs() storage.BlobStore {
	return l.blobs
}

// Provider exposes the configured AI provider.
func (l *Library) Provider() ai.Provider {
	return l.provider
}

// Pipeline exposes the processing pipeline.
func (l *Library) Pipeline() *processing.Pipeline {
	return l.pipeline
}

// Searcher exposes the search engine.
func (l *Library) Searcher() *search.Searcher {
	return l.searcher
}

// Close releases the pipeline, the AI provider, and the repository. In-flight
// processing runs finish first.
func (l *Library) Close() error {
	l.pipeline.Release()

	if err := l.provider.Close(); err != nil {
		l.logger.Error("error closing AI provider", "err", err)
	}

	if err := l.assets.Close(); err != nil {
		l.logger.Error("error closing asset repository", "err", err)
		return err
	}
	return nil
}
