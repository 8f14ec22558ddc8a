package prefetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/finmcp/finmcp/core"
	"github.com/finmcp/finmcp/storage"
)

// DefaultPoolSize is the number of concurrent fetches during a warm.
const DefaultPoolSize = 4

// Default retry behavior for a single provider fetch.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1 * time.Second
)

// Fetcher fetches one documentation page for a provider.
type Fetcher interface {
	Fetch(ctx context.Context, provider, path string) (*core.Document, error)
}

// Indexer receives freshly cached documents for search indexing.
type Indexer interface {
	Add(doc *core.Document) error
}

// WarmStats summarizes one warming run.
type WarmStats struct {
	Fetched int `json:"fetched"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Warmer prefetches provider index pages into the documentation cache.
type Warmer struct {
	fetcher     Fetcher
	store       storage.DocumentStore
	index       Indexer
	pool        *ants.Pool
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// Option configures a Warmer.
type Option func(*Warmer) error

// WithPoolSize sets the worker pool size for concurrent fetching.
// Default is DefaultPoolSize, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(w *Warmer) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if w.pool != nil {
			w.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		w.pool = pool
		return nil
	}
}

// WithRetry sets the retry budget for each provider fetch.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(w *Warmer) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		if baseDelay <= 0 {
			return ErrInvalidBaseDelay
		}
		w.maxAttempts = maxAttempts
		w.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Warmer) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWarmer creates a cache warmer over the given collaborators.
func NewWarmer(fetcher Fetcher, store storage.DocumentStore, index Indexer, opts ...Option) (*Warmer, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if index == nil {
		return nil, ErrIndexerRequired
	}

	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	w := &Warmer{
		fetcher:     fetcher,
		store:       store,
		index:       index,
		pool:        pool,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		logger:      slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(w); optErr != nil {
			w.Release()
			return nil, optErr
		}
	}

	return w, nil
}

// Warm fetches the index page of each listed provider and caches it.
// Providers whose index page is already cached are skipped. Failures are
// logged and counted but never abort the run; the returned error is only
// the context's, when the run was cancelled mid-flight.
func (w *Warmer) Warm(ctx context.Context, providers []string) (WarmStats, error) {
	var (
		mu    sync.Mutex
		stats WarmStats
		wg    sync.WaitGroup
	)

	for _, provider := range providers {
		wg.Add(1)

		err := w.pool.Submit(func() {
			defer wg.Done()

			outcome := w.warmOne(ctx, provider)
			mu.Lock()
			switch outcome {
			case warmFetched:
				stats.Fetched++
			case warmSkipped:
				stats.Skipped++
			default:
				stats.Failed++
			}
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			w.logger.Error("failed to submit warm task", "provider", provider, "err", err)
			mu.Lock()
			stats.Failed++
			mu.Unlock()
		}
	}

	wg.Wait()

	w.logger.Info("warm complete",
		"fetched", stats.Fetched,
		"skipped", stats.Skipped,
		"failed", stats.Failed)

	return stats, ctx.Err()
}

type warmOutcome int

const (
	warmFetched warmOutcome = iota
	warmSkipped
	warmFailed
)

// warmOne warms a single provider's index page.
func (w *Warmer) warmOne(ctx context.Context, provider string) warmOutcome {
	_, err := w.store.GetDocument(ctx, provider, "")
	if err == nil {
		w.logger.Debug("already cached, skipping", "provider", provider)
		return warmSkipped
	}
	if !errors.Is(err, storage.ErrNotFound) {
		w.logger.Error("cache check failed", "provider", provider, "err", err)
		return warmFailed
	}

	var doc *core.Document
	err = RetryWithBackoff(ctx, func() error {
		var fetchErr error
		doc, fetchErr = w.fetcher.Fetch(ctx, provider, "")
		return fetchErr
	}, w.maxAttempts, w.baseDelay)
	if err != nil {
		w.logger.Error("warm fetch failed", "provider", provider, "err", err)
		return warmFailed
	}

	if err := w.store.PutDocument(ctx, doc); err != nil {
		w.logger.Error("warm store failed", "provider", provider, "err", err)
		return warmFailed
	}

	// The page is cached even if indexing fails, so this still counts as fetched.
	if err := w.index.Add(doc); err != nil {
		w.logger.Warn("warm index failed", "provider", provider, "err", err)
	}

	w.logger.Debug("warmed provider index", "provider", provider, "bytes", doc.Size)
	return warmFetched
}

// Release releases the worker pool.
// The warmer should not be used after calling Release.
func (w *Warmer) Release() {
	if w.pool != nil {
		w.pool.Release()
	}
}
