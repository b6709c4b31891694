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
	"fmt"
	"io"
	"time"

	"github.com/brightpool/assetvault/ai"
	"github.com/brightpool/assetvault/core"
	"github.com/brightpool/assetvault/storage"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of assets to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of assets)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer orchestrates the reembedding of every asset in a library.
type Reindexer struct {
	repo      storage.AssetRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *AssetIterator
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(repo storage.AssetRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay)
	iterator := NewAssetIterator(repo, config.BatchSize)

	return &Reindexer{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}
}

// Run executes the reindexing operation.
// Every asset in the library is reembedded with the configured embedder.
// Progress is reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context) error {
	// First, count total assets
	totalAssets := 0
	err := r.repo.ScanAssets(ctx, func(*core.Asset) error {
		totalAssets++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to count assets: %w", err)
	}

	if totalAssets == 0 {
		fmt.Fprintf(r.progress, "No assets found in library (0 assets)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindexing of %d assets (batch size: %d)\n",
		totalAssets, r.config.BatchSize)

	// Initialize progress tracker
	tracker := NewProgressTracker(r.progress, totalAssets, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	// Process all assets in batches
	err = r.iterator.ForEach(ctx, func(assets []*core.Asset) error {
		// Process this batch
		if err := r.processor.Process(ctx, assets); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		// Update progress
		processed += len(assets)
		tracker.Update(processed)

		return nil
	})

	if err != nil {
		return err
	}

	// Finish progress tracking
	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Processed %d assets in %v (%.1f assets/sec)\n",
		totalAssets, elapsed.Round(time.Second), float64(totalAssets)/elapsed.Seconds())

	return nil
}
