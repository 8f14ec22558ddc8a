package storage

import (
	"context"

	"github.com/finmcp/finmcp/core"
)

// DocumentStore provides operations for the documentation cache.
// Implementations must be thread-safe and support concurrent access.
type DocumentStore interface {
	// PutDocument stores a document, replacing any existing entry for the
	// same provider/path pair. Entries expire after the store's TTL.
	PutDocument(ctx context.Context, doc *core.Document) error

	// GetDocument retrieves a cached document by provider and path.
	// Returns ErrNotFound if the entry is absent or has expired.
	GetDocument(ctx context.Context, provider, path string) (*core.Document, error)

	// DeleteDocument removes a cached document.
	// Returns ErrNotFound if the entry doesn't exist.
	DeleteDocument(ctx context.Context, provider, path string) error

	// ListDocuments returns listing entries for every live cache entry,
	// ordered by provider then path.
	ListDocuments(ctx context.Context) ([]core.DocumentInfo, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
