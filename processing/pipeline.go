package processing

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/brightpool/assetvault/ai"
	"github.com/brightpool/assetvault/core"
	"github.com/brightpool/assetvault/extract"
	"github.com/brightpool/assetvault/storage"
	"github.com/panjf2000/ants/v2"
)

// Pipeline orchestrates asynchronous asset processing. Uploads and retries
// enqueue work onto a bounded pool; each run drives one asset through
// extraction, enrichment, embedding, and persistence.
//
// Runs for the same asset are serialized through a per-asset mutex, so a
// retry racing an in-flight run cannot interleave partial updates.
type Pipeline struct {
	assets    storage.AssetRepository
	pool      *ants.Pool
	processor *processor
	logger    *slog.Logger

	mu    sync.Mutex
	locks map[core.ID]*assetLock
}

// assetLock serializes runs for one asset. Entries are reference counted so
// the lock map does not grow with every asset ever processed.
type assetLock struct {
	mu   sync.Mutex
	refs int
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		p.processor.logger = logger.With("component", "processing")
		return nil
	}
}

// WithThumbnailer sets the thumbnail collaborator.
// Default is NoopThumbnailer.
func WithThumbnailer(thumbnailer Thumbnailer) Option {
	return func(p *Pipeline) error {
		if thumbnailer == nil {
			thumbnailer = NoopThumbnailer{}
		}
		p.processor.thumbnailer = thumbnailer
		return nil
	}
}

// NewPipeline creates a new processing pipeline.
func NewPipeline(
	assets storage.AssetRepository,
	blobs storage.BlobStore,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if assets == nil {
		return nil, ErrAssetRepositoryRequired
	}
	if blobs == nil {
		return nil, ErrBlobStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	p := &Pipeline{
		assets: assets,
		pool:   pool,
		processor: &processor{
			assets:      assets,
			blobs:       blobs,
			extractor:   extract.NewExtractor(),
			embedder:    provider.Embedder(),
			analyzer:    provider.Analyzer(),
			thumbnailer: NoopThumbnailer{},
			logger:      logger.With("component", "processing"),
		},
		logger: logger,
		locks:  make(map[core.ID]*assetLock),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	return p, nil
}

// Enqueue submits an asset for asynchronous processing. The call does not
// block on completion; failures surface through the asset's status and the
// log.
func (p *Pipeline) Enqueue(id core.ID) error {
	return p.pool.Submit(func() {
		if err := p.Run(context.Background(), id); err != nil {
			p.logger.Error("background processing run failed", "asset", id, "err", err)
		}
	})
}

// Run processes an asset synchronously. Concurrent runs for the same asset
// are serialized; the second run observes the state the first one left.
func (p *Pipeline) Run(ctx context.Context, id core.ID) error {
	lock := p.acquireLock(id)
	lock.mu.Lock()
	defer func() {
		lock.mu.Unlock()
		p.releaseLock(id, lock)
	}()

	return p.processor.process(ctx, id)
}

// Retry resets a failed asset to pending and enqueues it again.
func (p *Pipeline) Retry(ctx context.Context, id core.ID) error {
	status := core.StatusPending
	if _, err := p.assets.UpdateAssetFields(ctx, id, &core.AssetUpdate{Status: &status}); err != nil {
		return err
	}
	return p.Enqueue(id)
}

// Release releases the worker pool. In-flight runs finish; queued runs are
// dropped. The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

func (p *Pipeline) acquireLock(id core.ID) *assetLock {
	p.mu.Lock()
	defer p.mu.Unlock()

	lock, ok := p.locks[id]
	if !ok {
		lock = &assetLock{}
		p.locks[id] = lock
	}
	lock.refs++
	return lock
}

func (p *Pipeline) releaseLock(id core.ID, lock *assetLock) {
	p.mu.Lock()
	defer p.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(p.locks, id)
	}
}
