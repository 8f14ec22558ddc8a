package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/finmcp/finmcp/core"
	"github.com/finmcp/finmcp/storage"
)

// DocumentStore implements storage.DocumentStore for BadgerDB.
type DocumentStore struct {
	backend *Backend
	ttl     time.Duration
}

var _ storage.DocumentStore = (*DocumentStore)(nil)

// OpenStore opens a BadgerDB-backed document store at the given path.
// With inMemory set, path is ignored and nothing touches disk.
// A ttl of zero keeps entries until they are explicitly deleted.
func OpenStore(path string, inMemory bool, ttl time.Duration) (*DocumentStore, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}
	return NewDocumentStore(backend, ttl), nil
}

// NewDocumentStore creates a DocumentStore on top of an open backend.
// Closing the store closes the backend.
func NewDocumentStore(backend *Backend, ttl time.Duration) *DocumentStore {
	return &DocumentStore{backend: backend, ttl: ttl}
}

// Close closes the underlying database.
func (s *DocumentStore) Close() error {
	return s.backend.Close()
}

// PutDocument stores a document, replacing any previous entry for the same
// provider/path pair.
func (s *DocumentStore) PutDocument(ctx context.Context, doc *core.Document) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(doc.Key())
		entry := badger.NewEntry(key, storage.MarshalDocument(doc))
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a cached document by provider and path.
// Expired entries are reported the same way as missing ones.
func (s *DocumentStore) GetDocument(ctx context.Context, provider, path string) (*core.Document, error) {
	var result *core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(core.DocumentID(provider, path))
		var err error
		result, err = s.readDocument(tx, key)
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

// DeleteDocument removes a cached document.
func (s *DocumentStore) DeleteDocument(ctx context.Context, provider, path string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(core.DocumentID(provider, path))

		// Read first so a missing entry surfaces as ErrNotFound.
		doc, err := s.readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListDocuments returns listing entries for every live cache entry,
// ordered by provider then path.
func (s *DocumentStore) ListDocuments(ctx context.Context) ([]core.DocumentInfo, error) {
	var infos []core.DocumentInfo
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc == nil {
				continue
			}
			infos = append(infos, doc.Info())
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Keys are content hashes, so iteration order is meaningless.
	slices.SortFunc(infos, func(a, b core.DocumentInfo) int {
		if c := strings.Compare(a.Provider, b.Provider); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})

	return infos, nil
}

// readDocument reads and unmarshals a document, returning nil if absent.
func (s *DocumentStore) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}
