package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finmcp/finmcp/core"
	"github.com/finmcp/finmcp/storage"
)

func testDocument(provider, path, content string) *core.Document {
	return &core.Document{
		Provider:  provider,
		Path:      path,
		URL:       "https://example.org/docs/" + path,
		Content:   content,
		FetchedAt: time.Now().UTC().Truncate(time.Microsecond),
		Size:      int64(len(content)),
	}
}

func TestDocumentStoreBasics(t *testing.T) {
	store, err := NewMemoryStore(0)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	doc := testDocument("fred", "series/observations", "# Observations endpoint")
	if err := store.PutDocument(ctx, doc); err != nil {
		t.Fatalf("Failed to put document: %v", err)
	}

	retrieved, err := store.GetDocument(ctx, "fred", "series/observations")
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}

	if retrieved.Content != doc.Content {
		t.Fatalf("Expected content %q, got %q", doc.Content, retrieved.Content)
	}
	if retrieved.URL != doc.URL {
		t.Fatalf("Expected URL %q, got %q", doc.URL, retrieved.URL)
	}
	if !retrieved.FetchedAt.Equal(doc.FetchedAt) {
		t.Fatalf("Expected FetchedAt %v, got %v", doc.FetchedAt, retrieved.FetchedAt)
	}
	if retrieved.Size != doc.Size {
		t.Fatalf("Expected size %d, got %d", doc.Size, retrieved.Size)
	}
}

func TestDocumentStore_GetMissing(t *testing.T) {
	store, err := NewMemoryStore(0)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	_, err = store.GetDocument(context.Background(), "fred", "no/such/page")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDocumentStore_PutReplaces(t *testing.T) {
	store, err := NewMemoryStore(0)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	if err := store.PutDocument(ctx, testDocument("ecb", "overview", "first version")); err != nil {
		t.Fatalf("Failed to put document: %v", err)
	}
	if err := store.PutDocument(ctx, testDocument("ecb", "overview", "second version")); err != nil {
		t.Fatalf("Failed to replace document: %v", err)
	}

	retrieved, err := store.GetDocument(ctx, "ecb", "overview")
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if retrieved.Content != "second version" {
		t.Fatalf("Expected replaced content, got %q", retrieved.Content)
	}

	infos, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("Expected 1 entry after replace, got %d", len(infos))
	}
}

func TestDocumentStore_PutInvalid(t *testing.T) {
	store, err := NewMemoryStore(0)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	if err := store.PutDocument(ctx, nil); !errors.Is(err, core.ErrInvalidDocument) {
		t.Fatalf("Expected ErrInvalidDocument for nil document, got %v", err)
	}

	noProvider := testDocument("", "page", "content")
	if err := store.PutDocument(ctx, noProvider); !errors.Is(err, core.ErrEmptyDocumentProvider) {
		t.Fatalf("Expected ErrEmptyDocumentProvider, got %v", err)
	}

	future := testDocument("fred", "page", "content")
	future.FetchedAt = time.Now().Add(time.Hour)
	if err := store.PutDocument(ctx, future); !errors.Is(err, core.ErrInvalidFetchTime) {
		t.Fatalf("Expected ErrInvalidFetchTime, got %v", err)
	}
}

func TestDocumentStore_Delete(t *testing.T) {
	store, err := NewMemoryStore(0)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	if err := store.PutDocument(ctx, testDocument("bls", "cpi", "CPI tables")); err != nil {
		t.Fatalf("Failed to put document: %v", err)
	}

	if err := store.DeleteDocument(ctx, "bls", "cpi"); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}

	if _, err := store.GetDocument(ctx, "bls", "cpi"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := store.DeleteDocument(ctx, "bls", "cpi"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestDocumentStore_ListOrdering(t *testing.T) {
	store, err := NewMemoryStore(0)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	// Insert in scrambled order; listing must come back sorted.
	docs := []*core.Document{
		testDocument("worldbank", "indicators", "WDI"),
		testDocument("ecb", "rates", "policy rates"),
		testDocument("fred", "series/search", "search endpoint"),
		testDocument("ecb", "exchange", "reference rates"),
		testDocument("fred", "series/observations", "observations endpoint"),
	}
	for _, doc := range docs {
		if err := store.PutDocument(ctx, doc); err != nil {
			t.Fatalf("Failed to put document: %v", err)
		}
	}

	infos, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}

	want := []struct{ provider, path string }{
		{"ecb", "exchange"},
		{"ecb", "rates"},
		{"fred", "series/observations"},
		{"fred", "series/search"},
		{"worldbank", "indicators"},
	}
	if len(infos) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(infos))
	}
	for i, w := range want {
		if infos[i].Provider != w.provider || infos[i].Path != w.path {
			t.Fatalf("Entry %d: expected %s/%s, got %s/%s",
				i, w.provider, w.path, infos[i].Provider, infos[i].Path)
		}
	}
	if infos[0].Size != int64(len("reference rates")) {
		t.Fatalf("Expected size %d, got %d", len("reference rates"), infos[0].Size)
	}
}

func TestDocumentStore_ListEmpty(t *testing.T) {
	store, err := NewMemoryStore(0)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	infos, err := store.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("Expected empty listing, got %d entries", len(infos))
	}
}

func TestDocumentStore_TTLExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping TTL expiry test in short mode")
	}

	// BadgerDB tracks expiry with second granularity, so the TTL and the
	// wait both need headroom.
	store, err := NewMemoryStore(2 * time.Second)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	if err := store.PutDocument(ctx, testDocument("imf", "sdmx", "SDMX endpoints")); err != nil {
		t.Fatalf("Failed to put document: %v", err)
	}

	if _, err := store.GetDocument(ctx, "imf", "sdmx"); err != nil {
		t.Fatalf("Expected fresh entry to be readable: %v", err)
	}

	time.Sleep(3 * time.Second)

	if _, err := store.GetDocument(ctx, "imf", "sdmx"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after expiry, got %v", err)
	}

	infos, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("Expected expired entry to drop out of listing, got %d entries", len(infos))
	}
}

func TestDocumentStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenStore(dir, false, 0)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	doc := testDocument("treasury", "yield-curve", "daily yield curve rates")
	if err := store.PutDocument(ctx, doc); err != nil {
		store.Close()
		t.Fatalf("Failed to put document: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	reopened, err := OpenStore(dir, false, 0)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	retrieved, err := reopened.GetDocument(ctx, "treasury", "yield-curve")
	if err != nil {
		t.Fatalf("Failed to get document after reopen: %v", err)
	}
	if retrieved.Content != doc.Content {
		t.Fatalf("Expected content %q, got %q", doc.Content, retrieved.Content)
	}
}
