package storage

import (
	"context"

	"github.com/brightpool/assetvault/core"
)

// Repository provides common storage operations shared across backends.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// AssetRepository provides operations for managing asset records and their
// indices.
type AssetRepository interface {
	Repository

	// AddAssets adds one or more assets to storage.
	// For assets with Id=0, generates new IDs from sequence.
	// Sets CreatedAt and UpdatedAt timestamps if not already set.
	// Returns the assets with generated IDs and timestamps populated.
	AddAssets(ctx context.Context, assets ...*core.Asset) ([]*core.Asset, error)

	// UpdateAssets replaces existing assets wholesale.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any asset doesn't exist.
	UpdateAssets(ctx context.Context, assets ...*core.Asset) ([]*core.Asset, error)

	// UpdateAssetFields applies a partial update to a single asset. Only
	// non-nil fields of update are written. Returns the updated asset, or
	// ErrNotFound if it doesn't exist.
	UpdateAssetFields(ctx context.Context, id core.ID, update *core.AssetUpdate) (*core.Asset, error)

	// DeleteAssets removes assets by their IDs, along with their indices
	// and download history.
	// Returns ErrNotFound if any asset doesn't exist.
	DeleteAssets(ctx context.Context, ids ...core.ID) error

	// GetAsset retrieves a single asset by ID.
	// Returns ErrNotFound if the asset doesn't exist.
	GetAsset(ctx context.Context, id core.ID) (*core.Asset, error)

	// GetAssets retrieves multiple assets by their IDs.
	// Returns only the assets that exist (no error for missing assets).
	GetAssets(ctx context.Context, ids ...core.ID) ([]*core.Asset, error)

	// GetRecentAssets retrieves the N most recently created assets, newest
	// first.
	GetRecentAssets(ctx context.Context, limit int) ([]*core.Asset, error)

	// FindByFilenameSubstring finds assets whose filename contains the given
	// text, case-insensitively. Results are ordered newest first, up to
	// limit.
	FindByFilenameSubstring(ctx context.Context, substring string, limit int) ([]*core.Asset, error)

	// FindByTag finds assets carrying the given tag (user or AI assigned),
	// matched case-insensitively as a whole token. Results are ordered
	// newest first, up to limit.
	FindByTag(ctx context.Context, tag string, limit int) ([]*core.Asset, error)

	// FindSimilar finds assets whose vectors are similar to the given one.
	// Returns assets with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first). Assets without vectors
	// are skipped.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SimilarityMatch, error)

	// ScanAssets iterates over every stored asset in ID order, invoking fn
	// for each. Iteration stops when fn returns an error.
	ScanAssets(ctx context.Context, fn func(asset *core.Asset) error) error

	// RecordDownload appends a download event for the asset and increments
	// its download counter. downloadedBy may be empty.
	// Returns ErrNotFound if the asset doesn't exist.
	RecordDownload(ctx context.Context, assetID core.ID, downloadedBy string) (*core.Download, error)

	// GetDownloads retrieves the download history for an asset, oldest
	// first.
	GetDownloads(ctx context.Context, assetID core.ID) ([]*core.Download, error)
}

// BlobStore stores the raw bytes of asset files and thumbnails, keyed by
// storage path. Implementations must be safe for concurrent use.
type BlobStore interface {
	// Upload stores data at the given path, overwriting any existing blob.
	Upload(ctx context.Context, path string, data []byte) error

	// Download retrieves the blob at the given path.
	// Returns ErrBlobNotFound if it doesn't exist.
	Download(ctx context.Context, path string) ([]byte, error)

	// Remove deletes the blob at the given path. Removing a missing blob is
	// not an error.
	Remove(ctx context.Context, path string) error
}
