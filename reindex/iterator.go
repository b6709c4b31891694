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


package reindex

import (
	"context"

	"github.com/brightpool/assetvault/core"
	"github.com/brightpool/assetvault/storage"
)

const (
	// DefaultBatchSize is the default number of assets to process in each batch
	DefaultBatchSize = 100
)

// AssetIterator iterates over all assets in batches.
type AssetIterator struct {
	repo      storage.AssetRepository
	batchSize int
}

// NewAssetIterator creates a new asset iterator.
// batchSize: number of assets to process in each batch (must be > 0)
func NewAssetIterator(repo storage.AssetRepository, batchSize int) *AssetIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &AssetIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all assets, calling fn for each batch.
// Iteration stops on first error from fn or when all assets are processed.
// Context cancellation is checked between batches.
func (it *AssetIterator) ForEach(ctx context.Context, fn func([]*core.Asset) error) error {
	batch := make([]*core.Asset, 0, it.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		batch = batch[:0]

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	err := it.repo.ScanAssets(ctx, func(asset *core.Asset) error {
		batch = append(batch, asset)
		if len(batch) >= it.batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}

	return flush()
}
