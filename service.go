// Copyright 2025 Poiesic Systems
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


package finmcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/finmcp/finmcp/config"
	"github.com/finmcp/finmcp/core"
	"github.com/finmcp/finmcp/fetch"
	"github.com/finmcp/finmcp/intelligence"
	"github.com/finmcp/finmcp/prefetch"
	"github.com/finmcp/finmcp/registry"
	"github.com/finmcp/finmcp/search"
	"github.com/finmcp/finmcp/storage"
	"github.com/finmcp/finmcp/storage/badger"
)

// Version of the server, reported over both transports.
const Version = "1.0.0"

var _ prefetch.Fetcher = (*fetch.Fetcher)(nil)

// Service wires the provider catalog, documentation cache, fetcher, search
// index, and recommendation engine behind one facade. Both transports and
// the CLI talk to a Service.
type Service struct {
	cfg      *config.Config
	registry *registry.Registry
	store    storage.DocumentStore
	fetcher  prefetch.Fetcher
	index    *search.Index
	engine   *intelligence.Engine
	warmer   *prefetch.Warmer
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger  *slog.Logger
	store   storage.DocumentStore
	fetcher prefetch.Fetcher
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithStore injects a document store, bypassing the configured cache
// directory. The service takes ownership and closes it on Close.
func WithStore(store storage.DocumentStore) ServiceOption {
	return func(o *serviceOptions) {
		o.store = store
	}
}

// WithFetcher injects a fetcher, bypassing the configured HTTP fetcher.
func WithFetcher(fetcher prefetch.Fetcher) ServiceOption {
	return func(o *serviceOptions) {
		o.fetcher = fetcher
	}
}

// NewService builds a service from configuration. A nil cfg uses defaults.
func NewService(cfg *config.Config, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Apply options
	options := &serviceOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	logger := options.logger

	// Load provider catalog
	reg, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		return nil, err
	}

	// Open document cache
	store := options.store
	if store == nil {
		store, err = badger.OpenStore(cfg.CacheDir, false, cfg.TTL())
		if err != nil {
			return nil, err
		}
	}

	// Create fetcher
	fetcher := options.fetcher
	if fetcher == nil {
		fetcher, err = fetch.NewFetcher(reg,
			fetch.WithTimeout(cfg.Timeout()),
			fetch.WithUserAgent(cfg.UserAgent),
			fetch.WithLogger(logger))
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	// Create search index
	index, err := search.NewIndex()
	if err != nil {
		store.Close()
		return nil, err
	}

	// Create recommendation engine
	engine, err := intelligence.NewEngine(reg, intelligence.WithLogger(logger))
	if err != nil {
		index.Close()
		store.Close()
		return nil, err
	}

	// Create cache warmer
	warmer, err := prefetch.NewWarmer(fetcher, store, index,
		prefetch.WithPoolSize(cfg.PoolSize),
		prefetch.WithLogger(logger))
	if err != nil {
		index.Close()
		store.Close()
		return nil, err
	}

	s := &Service{
		cfg:      cfg,
		registry: reg,
		store:    store,
		fetcher:  fetcher,
		index:    index,
		engine:   engine,
		warmer:   warmer,
		logger:   logger,
	}

	// A failed rebuild leaves search empty, not the service broken.
	if err := s.reindex(context.Background()); err != nil {
		logger.Warn("search index rebuild failed", "err", err)
	}

	return s, nil
}

// reindex rebuilds the search index from every live cache entry.
func (s *Service) reindex(ctx context.Context) error {
	infos, err := s.store.ListDocuments(ctx)
	if err != nil {
		return err
	}

	indexed := 0
	for _, info := range infos {
		doc, err := s.store.GetDocument(ctx, info.Provider, info.Path)
		if err != nil {
			// Entry expired between list and read
			continue
		}
		if err := s.index.Add(doc); err != nil {
			return err
		}
		indexed++
	}

	if indexed > 0 {
		s.logger.Debug("search index rebuilt", "documents", indexed)
	}
	return nil
}

// Registry returns the provider catalog.
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// Providers returns the full catalog in declaration order.
func (s *Service) Providers() []core.Provider {
	return s.registry.Providers()
}

// Classify parses a query into structured requirements.
func (s *Service) Classify(query string) core.Classification {
	return s.engine.Classify(query)
}

// Recommend renders the Markdown recommendation for a query.
// topN <= 0 uses the engine default.
func (s *Service) Recommend(query string, topN int) string {
	return s.engine.Recommend(query, topN)
}

// RecommendFull is Recommend returning the intermediate classification and
// matches alongside the rendered text.
func (s *Service) RecommendFull(query string, topN int) (core.Classification, []core.Match, string) {
	return s.engine.RecommendFull(query, topN)
}

// Doc returns a documentation page, serving from the cache when possible.
// With refresh set, the cache is bypassed and the fetched page replaces any
// cached copy.
func (s *Service) Doc(ctx context.Context, provider, path string, refresh bool) (*core.Document, error) {
	if !refresh {
		doc, err := s.store.GetDocument(ctx, provider, path)
		if err == nil {
			s.logger.Debug("cache hit", "provider", provider, "path", path)
			return doc, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			// A broken cache read degrades to a live fetch
			s.logger.Warn("cache read failed", "provider", provider, "path", path, "err", err)
		}
	}

	doc, err := s.fetcher.Fetch(ctx, provider, path)
	if err != nil {
		return nil, err
	}

	// The page is already in hand; cache and index failures only cost
	// the next request a refetch.
	if err := s.store.PutDocument(ctx, doc); err != nil {
		s.logger.Warn("cache write failed", "provider", provider, "path", path, "err", err)
	}
	if err := s.index.Add(doc); err != nil {
		s.logger.Warn("index update failed", "provider", provider, "path", path, "err", err)
	}

	return doc, nil
}

// Search queries the full-text index over cached documentation.
func (s *Service) Search(query string, limit int) ([]search.Hit, error) {
	return s.index.Search(query, limit)
}

// Warm prefetches provider index pages into the cache. An empty provider
// list warms the whole catalog.
func (s *Service) Warm(ctx context.Context, providers []string) (prefetch.WarmStats, error) {
	if len(providers) == 0 {
		providers = s.registry.IDs()
	}
	return s.warmer.Warm(ctx, providers)
}

// Refresher returns a cron refresher for the configured schedule, or nil
// when no refresh schedule is configured. The caller owns Start and Stop.
func (s *Service) Refresher() (*prefetch.Refresher, error) {
	if s.cfg.RefreshSchedule == "" {
		return nil, nil
	}
	return prefetch.NewRefresher(s.warmer, s.registry.IDs(), s.cfg.RefreshSchedule, s.logger)
}

// Close releases the warmer pool and closes the index and store.
func (s *Service) Close() error {
	s.warmer.Release()

	if err := s.index.Close(); err != nil {
		s.logger.Error("error closing search index", "err", err)
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing document store", "err", err)
		return err
	}
	return nil
}
