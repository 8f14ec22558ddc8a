package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/finmcp/finmcp/core"
	"github.com/finmcp/finmcp/registry"
)

const (
	// DefaultUserAgent identifies the server to documentation sites.
	DefaultUserAgent = "FinMCP/1.0 (Financial API Documentation MCP Server)"

	// DefaultTimeout bounds a single documentation fetch.
	DefaultTimeout = 30 * time.Second
)

// Fetcher downloads provider documentation pages and extracts their text.
type Fetcher struct {
	registry  *registry.Registry
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher) error

// WithHTTPClient replaces the HTTP client. Passing nil restores the default.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) error {
		if client == nil {
			client = &http.Client{Timeout: DefaultTimeout}
		}
		f.client = client
		return nil
	}
}

// WithUserAgent overrides the User-Agent header. Empty restores the default.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) error {
		if ua == "" {
			ua = DefaultUserAgent
		}
		f.userAgent = ua
		return nil
	}
}

// WithTimeout sets the per-request timeout on the configured HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) error {
		if d <= 0 {
			return ErrInvalidTimeout
		}
		f.client.Timeout = d
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// NewFetcher creates a documentation fetcher over the given catalog.
func NewFetcher(reg *registry.Registry, opts ...Option) (*Fetcher, error) {
	if reg == nil {
		return nil, ErrRegistryRequired
	}

	f := &Fetcher{
		registry:  reg,
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Fetch downloads the documentation page for a provider path and returns it
// as a cacheable document. The provider must exist in the catalog.
func (f *Fetcher) Fetch(ctx context.Context, provider, path string) (*core.Document, error) {
	p, err := f.registry.Get(provider)
	if err != nil {
		return nil, err
	}

	url := resolveURL(p, path)
	f.logger.Debug("fetching documentation", "provider", p.ID, "path", path, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d fetching %s", ErrStatus, resp.StatusCode, url)
	}

	text, err := extractText(resp.Body, p.ContentSelectors)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	text, truncated := truncateText(text, maxContentBytes)
	fetchedAt := time.Now().UTC()
	content := formatDocument(p, url, text, fetchedAt, truncated)

	f.logger.Debug("fetched documentation", "provider", p.ID, "path", path, "bytes", len(content))

	return &core.Document{
		Provider:  p.ID,
		Path:      path,
		URL:       url,
		Content:   content,
		FetchedAt: fetchedAt,
		Size:      int64(len(content)),
	}, nil
}

// resolveURL builds the documentation URL for a provider path.
func resolveURL(p core.Provider, path string) string {
	base := p.DocsURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	if p.SpecialParsing {
		// FRED serves subpages as flat files: "series/observations"
		// lives at "series-observations.html".
		slug := strings.Trim(path, "/")
		if slug == "" {
			return p.DocsURL
		}
		slug = strings.ReplaceAll(slug, "/", "-")
		if !strings.HasSuffix(slug, ".html") {
			slug += ".html"
		}
		return base + slug
	}

	rel := strings.TrimLeft(path, "/")
	if rel == "" {
		return p.DocsURL
	}
	return base + rel
}

// formatDocument wraps extracted text in the banner and footer the transports
// hand to clients.
func formatDocument(p core.Provider, url, text string, fetchedAt time.Time, truncated bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s API Documentation\n\n", strings.ToUpper(p.ID))
	fmt.Fprintf(&b, "**Source URL:** %s\n", url)
	fmt.Fprintf(&b, "**Fetched:** %s\n\n", fetchedAt.Format(time.RFC1123))
	b.WriteString("---\n\n")
	b.WriteString(text)
	if truncated {
		b.WriteString(truncationNote)
	}
	b.WriteString("\n\n---\n\n")
	b.WriteString("**Note:** This documentation was fetched live from the official API documentation.\n")
	b.WriteString("Always verify the latest information at the source URL above.\n")
	return b.String()
}
