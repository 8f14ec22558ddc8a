package intelligence

import (
	"log/slog"

	"github.com/finmcp/finmcp/core"
	"github.com/finmcp/finmcp/registry"
)

// DefaultTopN is how many providers a recommendation includes unless the
// caller asks for a specific count.
const DefaultTopN = 5

// Engine binds the classifier and matcher to a provider catalog.
type Engine struct {
	registry *registry.Registry
	topN     int
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithTopN sets the default number of providers per recommendation.
func WithTopN(n int) Option {
	return func(e *Engine) error {
		if n <= 0 {
			return ErrInvalidTopN
		}
		e.topN = n
		return nil
	}
}

// NewEngine creates a recommendation engine over a catalog.
func NewEngine(reg *registry.Registry, opts ...Option) (*Engine, error) {
	if reg == nil {
		return nil, ErrRegistryRequired
	}

	e := &Engine{
		registry: reg,
		topN:     DefaultTopN,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Classify parses a query into structured requirements.
func (e *Engine) Classify(query string) core.Classification {
	return Classify(query)
}

// Match ranks the catalog against a classification. topN <= 0 yields an
// empty result, matching the matcher's contract.
func (e *Engine) Match(c core.Classification, topN int) []core.Match {
	return Match(e.registry.Providers(), c, topN)
}

// Recommend classifies a query, ranks the catalog, and renders the Markdown
// recommendation. topN <= 0 falls back to the engine default.
func (e *Engine) Recommend(query string, topN int) string {
	_, _, text := e.RecommendFull(query, topN)
	return text
}

// RecommendFull is Recommend returning the intermediate classification and
// matches alongside the rendered text, for callers that expose structured
// results.
func (e *Engine) RecommendFull(query string, topN int) (core.Classification, []core.Match, string) {
	if topN <= 0 {
		topN = e.topN
	}

	c := e.Classify(query)
	matches := e.Match(c, topN)

	e.logger.Debug("recommendation built",
		"dataTypes", c.DataTypes,
		"geography", c.Geography,
		"preferences", c.Preferences,
		"matches", len(matches))

	return c, matches, Recommendation(c, matches)
}
