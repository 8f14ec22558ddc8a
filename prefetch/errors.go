package prefetch

import "errors"

var (
	// ErrFetcherRequired is returned when a fetcher is not provided.
	ErrFetcherRequired = errors.New("fetcher required")

	// ErrStoreRequired is returned when a document store is not provided.
	ErrStoreRequired = errors.New("document store required")

	// ErrIndexerRequired is returned when a search indexer is not provided.
	ErrIndexerRequired = errors.New("search indexer required")

	// ErrWarmerRequired is returned when a warmer is not provided.
	ErrWarmerRequired = errors.New("warmer required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidBaseDelay is returned when the retry base delay is <= 0
	ErrInvalidBaseDelay = errors.New("baseDelay must be greater than 0")
)
