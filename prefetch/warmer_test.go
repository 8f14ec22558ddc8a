package prefetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finmcp/finmcp/core"
	"github.com/finmcp/finmcp/storage"
	"github.com/finmcp/finmcp/storage/badger"
)

// testFetcher implements Fetcher for testing
type testFetcher struct {
	mu       sync.Mutex
	calls    map[string]int
	failAll  map[string]bool
	failures map[string]int // provider -> number of leading calls that fail
}

func (f *testFetcher) Fetch(ctx context.Context, provider, path string) (*core.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[provider]++

	if f.failAll[provider] {
		return nil, errors.New("fetch error")
	}
	if f.failures[provider] >= f.calls[provider] {
		return nil, errors.New("transient fetch error")
	}

	content := "documentation for " + provider
	return &core.Document{
		Provider:  provider,
		Path:      path,
		URL:       "https://example.org/" + provider,
		Content:   content,
		FetchedAt: time.Now().UTC(),
		Size:      int64(len(content)),
	}, nil
}

func (f *testFetcher) callCount(provider string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[provider]
}

// testIndexer implements Indexer for testing
type testIndexer struct {
	mu          sync.Mutex
	added       []string
	shouldError bool
}

func (ix *testIndexer) Add(doc *core.Document) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.shouldError {
		return errors.New("index error")
	}
	ix.added = append(ix.added, doc.Provider)
	return nil
}

func (ix *testIndexer) addedCount() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.added)
}

func setupWarmer(t *testing.T, fetcher Fetcher, index Indexer, opts ...Option) (*Warmer, storage.DocumentStore) {
	t.Helper()

	store, err := badger.NewMemoryStore(0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	warmer, err := NewWarmer(fetcher, store, index, opts...)
	require.NoError(t, err)
	t.Cleanup(warmer.Release)

	return warmer, store
}

func TestNewWarmer(t *testing.T) {
	store, err := badger.NewMemoryStore(0)
	require.NoError(t, err)
	defer store.Close()

	fetcher := &testFetcher{}
	index := &testIndexer{}

	t.Run("valid warmer", func(t *testing.T) {
		warmer, err := NewWarmer(fetcher, store, index)
		require.NoError(t, err)
		require.NotNil(t, warmer)
		defer warmer.Release()

		assert.NotNil(t, warmer.pool)
		assert.Equal(t, DefaultMaxAttempts, warmer.maxAttempts)
		assert.Equal(t, DefaultBaseDelay, warmer.baseDelay)
	})

	t.Run("nil fetcher", func(t *testing.T) {
		_, err := NewWarmer(nil, store, index)
		assert.Equal(t, ErrFetcherRequired, err)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := NewWarmer(fetcher, nil, index)
		assert.Equal(t, ErrStoreRequired, err)
	})

	t.Run("nil indexer", func(t *testing.T) {
		_, err := NewWarmer(fetcher, store, nil)
		assert.Equal(t, ErrIndexerRequired, err)
	})

	t.Run("with pool size zero defaults to 1", func(t *testing.T) {
		warmer, err := NewWarmer(fetcher, store, index, WithPoolSize(0))
		require.NoError(t, err)
		defer warmer.Release()
	})

	t.Run("invalid retry options", func(t *testing.T) {
		_, err := NewWarmer(fetcher, store, index, WithRetry(0, time.Second))
		assert.Equal(t, ErrInvalidMaxAttempts, err)

		_, err = NewWarmer(fetcher, store, index, WithRetry(3, 0))
		assert.Equal(t, ErrInvalidBaseDelay, err)
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		warmer, err := NewWarmer(fetcher, store, index, WithLogger(nil))
		require.NoError(t, err)
		defer warmer.Release()

		assert.NotNil(t, warmer.logger)
	})

	t.Run("with custom logger", func(t *testing.T) {
		logger := slog.Default()
		warmer, err := NewWarmer(fetcher, store, index, WithLogger(logger))
		require.NoError(t, err)
		defer warmer.Release()

		assert.Equal(t, logger, warmer.logger)
	})
}

func TestWarmer_Warm(t *testing.T) {
	fetcher := &testFetcher{}
	index := &testIndexer{}
	warmer, store := setupWarmer(t, fetcher, index, WithPoolSize(2))

	ctx := context.Background()
	stats, err := warmer.Warm(ctx, []string{"fred", "ecb", "worldbank"})
	require.NoError(t, err)

	assert.Equal(t, WarmStats{Fetched: 3}, stats)
	assert.Equal(t, 3, index.addedCount())

	// Every index page is now a cache hit.
	for _, provider := range []string{"fred", "ecb", "worldbank"} {
		doc, err := store.GetDocument(ctx, provider, "")
		require.NoError(t, err)
		assert.Equal(t, provider, doc.Provider)
	}
}

func TestWarmer_Warm_SkipsCached(t *testing.T) {
	fetcher := &testFetcher{}
	index := &testIndexer{}
	warmer, store := setupWarmer(t, fetcher, index)

	ctx := context.Background()

	cached := &core.Document{
		Provider:  "fred",
		URL:       "https://example.org/fred",
		Content:   "already here",
		FetchedAt: time.Now().UTC(),
		Size:      12,
	}
	require.NoError(t, store.PutDocument(ctx, cached))

	stats, err := warmer.Warm(ctx, []string{"fred", "ecb"})
	require.NoError(t, err)

	assert.Equal(t, WarmStats{Fetched: 1, Skipped: 1}, stats)
	assert.Equal(t, 0, fetcher.callCount("fred"), "cached provider should not be fetched")
	assert.Equal(t, 1, fetcher.callCount("ecb"))
}

func TestWarmer_Warm_CountsFailures(t *testing.T) {
	fetcher := &testFetcher{failAll: map[string]bool{"ecb": true}}
	index := &testIndexer{}
	warmer, _ := setupWarmer(t, fetcher, index, WithRetry(2, time.Millisecond))

	stats, err := warmer.Warm(context.Background(), []string{"fred", "ecb", "imf"})
	require.NoError(t, err, "per-provider failures must not abort the run")

	assert.Equal(t, WarmStats{Fetched: 2, Failed: 1}, stats)
	assert.Equal(t, 2, fetcher.callCount("ecb"), "failed provider should use the full retry budget")
}

func TestWarmer_Warm_RetriesTransientFailure(t *testing.T) {
	fetcher := &testFetcher{failures: map[string]int{"fred": 2}}
	index := &testIndexer{}
	warmer, _ := setupWarmer(t, fetcher, index, WithRetry(3, time.Millisecond))

	stats, err := warmer.Warm(context.Background(), []string{"fred"})
	require.NoError(t, err)

	assert.Equal(t, WarmStats{Fetched: 1}, stats)
	assert.Equal(t, 3, fetcher.callCount("fred"))
}

func TestWarmer_Warm_IndexFailureStillCached(t *testing.T) {
	fetcher := &testFetcher{}
	index := &testIndexer{shouldError: true}
	warmer, store := setupWarmer(t, fetcher, index)

	ctx := context.Background()
	stats, err := warmer.Warm(ctx, []string{"fred"})
	require.NoError(t, err)

	assert.Equal(t, WarmStats{Fetched: 1}, stats)

	_, err = store.GetDocument(ctx, "fred", "")
	assert.NoError(t, err)
}

func TestWarmer_Warm_Empty(t *testing.T) {
	warmer, _ := setupWarmer(t, &testFetcher{}, &testIndexer{})

	stats, err := warmer.Warm(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, WarmStats{}, stats)
}

func TestWarmer_Warm_ContextCancelled(t *testing.T) {
	fetcher := &testFetcher{}
	index := &testIndexer{}
	warmer, _ := setupWarmer(t, fetcher, index, WithRetry(3, time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := warmer.Warm(ctx, []string{"fred", "ecb"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, WarmStats{Failed: 2}, stats)
}

func TestWarmer_Release(t *testing.T) {
	warmer, _ := setupWarmer(t, &testFetcher{}, &testIndexer{})

	// Multiple releases should not panic
	warmer.Release()
	warmer.Release()
}
