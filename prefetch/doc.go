// Package prefetch warms the documentation cache ahead of demand.
//
// The Warmer fetches provider index pages concurrently over a worker pool,
// storing and indexing each page so later reads are cache hits. Pages that
// are already cached are skipped, and per-provider failures are logged and
// counted without aborting the run.
//
// The Refresher re-runs a warm on a cron schedule so the cache stays fresh
// across TTL expiry in long-running server mode.
package prefetch
