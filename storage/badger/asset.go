package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/brightpool/assetvault/core"
	"github.com/brightpool/assetvault/storage"
	"github.com/dgraph-io/badger/v4"
)

// AssetRepository implements storage.AssetRepository for BadgerDB.
type AssetRepository struct {
	backend     *Backend
	idSeq       *badger.Sequence
	downloadSeq *badger.Sequence
	ownsBackend bool
}

var _ storage.AssetRepository = (*AssetRepository)(nil)

// NewAssetRepository creates an AssetRepository on an existing backend.
// The caller remains responsible for closing the backend.
func NewAssetRepository(backend *Backend) (*AssetRepository, error) {
	idSeq, err := backend.GetSequence(assetIDSeq)
	if err != nil {
		return nil, err
	}

	downloadSeq, err := backend.GetSequence(downloadIDSeq)
	if err != nil {
		idSeq.Release()
		return nil, err
	}

	return &AssetRepository{
		backend:     backend,
		idSeq:       idSeq,
		downloadSeq: downloadSeq,
	}, nil
}

// NewRepository opens a BadgerDB database at path and returns an asset
// repository backed by it. Closing the repository closes the database.
//
// Returns storage.AssetRepository interface to enforce abstraction.
func NewRepository(path string) (storage.AssetRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}

	repo, err := NewAssetRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repo.ownsBackend = true
	return repo, nil
}

// Close releases the ID sequences, and the backend if this repository owns it.
func (r *AssetRepository) Close() error {
	err := r.idSeq.Release()
	if dlErr := r.downloadSeq.Release(); err == nil {
		err = dlErr
	}
	if r.ownsBackend {
		if closeErr := r.backend.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}

// FindSimilar delegates to the backend.
func (r *AssetRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SimilarityMatch, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *AssetRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddAssets adds one or more assets to storage.
func (r *AssetRepository) AddAssets(ctx context.Context, assets ...*core.Asset) ([]*core.Asset, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, asset := range assets {
			if asset.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				asset.Id = core.ID(nextID)
			}

			if asset.CreatedAt.IsZero() {
				asset.CreatedAt = time.Now().UTC()
			}
			asset.UpdatedAt = asset.CreatedAt

			// Store primary record
			key := makeAssetKey(asset.Id)
			value := storage.MarshalAsset(asset)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index
			dateKey := makeAssetDateKey(asset.CreatedAt, asset.Id)
			if err := tx.Set(dateKey, storage.MarshalID(asset.Id)); err != nil {
				return err
			}

			// Update tag index
			if err := updateTagIndex(tx, asset); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return assets, err
}

// UpdateAssets replaces existing assets wholesale.
func (r *AssetRepository) UpdateAssets(ctx context.Context, assets ...*core.Asset) ([]*core.Asset, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, asset := range assets {
			key := makeAssetKey(asset.Id)

			old, err := readAsset(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			asset.UpdatedAt = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalAsset(asset)); err != nil {
				return err
			}

			// Update date index if creation time changed
			if !old.CreatedAt.Equal(asset.CreatedAt) {
				if err := tx.Delete(makeAssetDateKey(old.CreatedAt, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeAssetDateKey(asset.CreatedAt, asset.Id), storage.MarshalID(asset.Id)); err != nil {
					return err
				}
			}

			// Update tag index if tags changed
			if !slices.Equal(indexTags(old), indexTags(asset)) {
				if err := deleteTagIndex(tx, old); err != nil {
					return err
				}
				if err := updateTagIndex(tx, asset); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return assets, err
}

// UpdateAssetFields applies a partial update to a single asset.
func (r *AssetRepository) UpdateAssetFields(ctx context.Context, id core.ID, update *core.AssetUpdate) (*core.Asset, error) {
	var result *core.Asset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeAssetKey(id)

		asset, err := readAsset(tx, key)
		if err != nil {
			return err
		}
		if asset == nil {
			return storage.ErrNotFound
		}

		oldTags := indexTags(asset)
		applyUpdate(asset, update)
		asset.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalAsset(asset)); err != nil {
			return err
		}

		if !slices.Equal(oldTags, indexTags(asset)) {
			if err := deleteTagKeys(tx, oldTags, asset.Id); err != nil {
				return err
			}
			if err := updateTagIndex(tx, asset); err != nil {
				return err
			}
		}

		result = asset
		return tx.Commit()
	}, true)

	return result, err
}

// DeleteAssets removes assets by their IDs, along with indices and download
// history.
func (r *AssetRepository) DeleteAssets(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeAssetKey(id)

			asset, err := readAsset(tx, key)
			if err != nil {
				return err
			}
			if asset == nil {
				return storage.ErrNotFound
			}

			// Delete from date index
			if err := tx.Delete(makeAssetDateKey(asset.CreatedAt, asset.Id)); err != nil {
				return err
			}

			// Delete from tag index
			if err := deleteTagIndex(tx, asset); err != nil {
				return err
			}

			// Delete download history
			if err := deleteDownloads(tx, id); err != nil {
				return err
			}

			// Delete primary record
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetAsset retrieves a single asset by ID.
func (r *AssetRepository) GetAsset(ctx context.Context, id core.ID) (*core.Asset, error) {
	var result *core.Asset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readAsset(tx, makeAssetKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetAssets retrieves multiple assets by their IDs.
func (r *AssetRepository) GetAssets(ctx context.Context, ids ...core.ID) ([]*core.Asset, error) {
	var result []*core.Asset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			asset, err := readAsset(tx, makeAssetKey(id))
			if err != nil {
				return err
			}
			if asset != nil {
				result = append(result, asset)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetRecentAssets retrieves the N most recently created assets, newest first.
func (r *AssetRepository) GetRecentAssets(ctx context.Context, limit int) ([]*core.Asset, error) {
	var results []*core.Asset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent assets first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialAssetDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(assetDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var assetID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				assetID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			asset, err := readAsset(tx, makeAssetKey(assetID))
			if err != nil {
				return err
			}
			if asset != nil {
				results = append(results, asset)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// FindByFilenameSubstring finds assets whose filename contains the given
// text, case-insensitively. Walks the date index newest first so results are
// already ordered.
func (r *AssetRepository) FindByFilenameSubstring(ctx context.Context, substring string, limit int) ([]*core.Asset, error) {
	needle := strings.ToLower(substring)
	if needle == "" {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Asset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialAssetDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(assetDatePrefix + ":")

		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var assetID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				assetID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			asset, err := readAsset(tx, makeAssetKey(assetID))
			if err != nil {
				return err
			}
			if asset == nil {
				continue
			}

			if strings.Contains(strings.ToLower(asset.Filename), needle) {
				results = append(results, asset)
			}
		}
		return nil
	}, false)

	return results, err
}

// FindByTag finds assets carrying the given tag, matched case-insensitively
// as a whole token. Results are ordered newest first.
func (r *AssetRepository) FindByTag(ctx context.Context, tag string, limit int) ([]*core.Asset, error) {
	needle := strings.ToLower(strings.TrimSpace(tag))
	if needle == "" {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Asset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialAssetTagKey(needle)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) || slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			var assetID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				assetID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			asset, err := readAsset(tx, makeAssetKey(assetID))
			if err != nil {
				return err
			}
			if asset != nil {
				results = append(results, asset)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Tag index is ordered by ID; reorder newest first
	slices.SortFunc(results, func(a, b *core.Asset) int {
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		if a.CreatedAt.Before(b.CreatedAt) {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ScanAssets iterates over every stored asset in ID order.
func (r *AssetRepository) ScanAssets(ctx context.Context, fn func(asset *core.Asset) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(assetRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var asset *core.Asset
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				asset, err = storage.UnmarshalAsset(val)
				return err
			}); err != nil {
				return err
			}
			if asset == nil {
				continue
			}
			if err := fn(asset); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// RecordDownload appends a download event for the asset and increments its
// download counter.
func (r *AssetRepository) RecordDownload(ctx context.Context, assetID core.ID, downloadedBy string) (*core.Download, error) {
	var result *core.Download
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeAssetKey(assetID)

		asset, err := readAsset(tx, key)
		if err != nil {
			return err
		}
		if asset == nil {
			return storage.ErrNotFound
		}

		nextID, err := r.downloadSeq.Next()
		if err != nil {
			return err
		}
		if nextID == 0 {
			nextID, err = r.downloadSeq.Next()
			if err != nil {
				return err
			}
		}

		download := &core.Download{
			Id:           core.ID(nextID),
			AssetId:      assetID,
			DownloadedBy: downloadedBy,
			DownloadedAt: time.Now().UTC(),
		}

		dlKey := makeDownloadKey(assetID, download.Id)
		if err := tx.Set(dlKey, storage.MarshalDownload(download)); err != nil {
			return err
		}

		asset.DownloadCount++
		asset.UpdatedAt = time.Now().UTC()
		if err := tx.Set(key, storage.MarshalAsset(asset)); err != nil {
			return err
		}

		result = download
		return tx.Commit()
	}, true)

	return result, err
}

// GetDownloads retrieves the download history for an asset, oldest first.
func (r *AssetRepository) GetDownloads(ctx context.Context, assetID core.ID) ([]*core.Download, error) {
	var results []*core.Download
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialDownloadKey(assetID)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) || slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			var download *core.Download
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				download, err = storage.UnmarshalDownload(val)
				return err
			}); err != nil {
				return err
			}
			if download != nil {
				results = append(results, download)
			}
		}
		return nil
	}, false)

	return results, err
}

// Helper methods

// readAsset reads an asset from the transaction. Returns (nil, nil) when the
// key doesn't exist.
func readAsset(tx *badger.Txn, key []byte) (*core.Asset, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var asset *core.Asset
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		asset, unmarshalErr = storage.UnmarshalAsset(val)
		return unmarshalErr
	})
	return asset, err
}

// indexTags returns the sorted, deduplicated, lowercased union of an asset's
// AI and user tags. This is the set of tag index entries the asset owns.
func indexTags(asset *core.Asset) []string {
	seen := make(map[string]bool, len(asset.AITags)+len(asset.UserTags))
	var tags []string
	for _, group := range [][]string{asset.AITags, asset.UserTags} {
		for _, tag := range group {
			cleaned := strings.ToLower(strings.TrimSpace(tag))
			if cleaned == "" || seen[cleaned] {
				continue
			}
			seen[cleaned] = true
			tags = append(tags, cleaned)
		}
	}
	slices.Sort(tags)
	return tags
}

// updateTagIndex adds tag index entries for an asset.
func updateTagIndex(tx *badger.Txn, asset *core.Asset) error {
	for _, tag := range indexTags(asset) {
		key := makeAssetTagKey(tag, asset.Id)
		if err := tx.Set(key, storage.MarshalID(asset.Id)); err != nil {
			return err
		}
	}
	return nil
}

// deleteTagIndex removes tag index entries for an asset.
func deleteTagIndex(tx *badger.Txn, asset *core.Asset) error {
	return deleteTagKeys(tx, indexTags(asset), asset.Id)
}

func deleteTagKeys(tx *badger.Txn, tags []string, id core.ID) error {
	for _, tag := range tags {
		if err := tx.Delete(makeAssetTagKey(tag, id)); err != nil {
			return err
		}
	}
	return nil
}

// deleteDownloads removes all download events for an asset.
func deleteDownloads(tx *badger.Txn, assetID core.ID) error {
	startKey := makePartialDownloadKey(assetID)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Seek(startKey); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		if len(key) < len(startKey) || slices.Compare(key[:len(startKey)], startKey) != 0 {
			break
		}
		keys = append(keys, iter.Item().KeyCopy(nil))
	}

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// applyUpdate copies the non-nil fields of update onto the asset.
func applyUpdate(asset *core.Asset, update *core.AssetUpdate) {
	if update.Filename != nil {
		asset.Filename = *update.Filename
	}
	if update.UserTags != nil {
		asset.UserTags = *update.UserTags
	}
	if update.AITags != nil {
		asset.AITags = *update.AITags
	}
	if update.AISummary != nil {
		asset.AISummary = *update.AISummary
	}
	if update.ExtractedText != nil {
		asset.ExtractedText = *update.ExtractedText
	}
	if update.Vector != nil {
		asset.Vector = *update.Vector
	}
	if update.ThumbnailPath != nil {
		asset.ThumbnailPath = *update.ThumbnailPath
	}
	if update.Status != nil {
		asset.Status = *update.Status
	}
}
