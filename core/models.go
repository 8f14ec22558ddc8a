package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for cached documents.
// It is generated from the provider id and documentation path via content hashing.
type ID uint64

// DocumentID generates a deterministic ID for a provider documentation page
// using BLAKE2b hashing. Identical provider/path pairs produce identical IDs.
func DocumentID(provider, path string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(provider + "/" + path))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Provider describes one financial/economic data provider in the catalog.
// Records are static configuration: loaded once at startup and never mutated.
type Provider struct {
	ID                 string   `yaml:"id" json:"id"`
	Name               string   `yaml:"name" json:"name"`
	DataTypes          []string `yaml:"data_types" json:"data_types"`
	GeographicCoverage []string `yaml:"geographic_coverage" json:"geographic_coverage"`
	RequiresAPIKey     bool     `yaml:"requires_api_key" json:"requires_api_key"`
	FreeTier           bool     `yaml:"free_tier" json:"free_tier"`
	LocalAvailable     bool     `yaml:"local_available" json:"local_available"`
	ResponseTime       string   `yaml:"response_time" json:"response_time"`
	RateLimit          string   `yaml:"rate_limit" json:"rate_limit"`
	DocsURL            string   `yaml:"docs_url" json:"docs_url"`
	ContentSelectors   []string `yaml:"content_selectors" json:"content_selectors,omitempty"`
	SpecialParsing     bool     `yaml:"special_parsing" json:"special_parsing,omitempty"`
}

// Classification is the structured form of a free-text data query.
// It is created fresh per query and owned by the caller.
type Classification struct {
	OriginalQuery string   `json:"original_query"`
	DataTypes     []string `json:"data_types"`
	Geography     []string `json:"geography"`
	Preferences   []string `json:"preferences"`
	Symbols       []string `json:"symbols"`
	Reasoning     string   `json:"reasoning"`
}

// Match is one scored provider recommendation. The provider fields are
// denormalized copies for display convenience.
type Match struct {
	ProviderID     string   `json:"provider_id"`
	Name           string   `json:"name"`
	Score          float64  `json:"score"`
	Reasons        []string `json:"match_reasons"`
	RequiresAPIKey bool     `json:"requires_api_key"`
	FreeTier       bool     `json:"free_tier"`
	LocalAvailable bool     `json:"local_available"`
	ResponseTime   string   `json:"response_time"`
}

// Document is one cached documentation page for a provider path.
type Document struct {
	Provider  string
	Path      string // sub-path under the provider docs base; "" is the index page
	URL       string // fully resolved URL that was fetched
	Content   string
	FetchedAt time.Time
	Size      int64 // length of Content in bytes at capture time
}

// Key returns the deterministic cache ID for this document.
func (d *Document) Key() ID {
	return DocumentID(d.Provider, d.Path)
}

// DocumentInfo is a lightweight listing entry for a cached document.
type DocumentInfo struct {
	Provider  string    `json:"provider"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	FetchedAt time.Time `json:"fetched_at"`
	Size      int64     `json:"size"`
}

// Info returns the listing entry for this document.
func (d *Document) Info() DocumentInfo {
	return DocumentInfo{
		Provider:  d.Provider,
		Path:      d.Path,
		URL:       d.URL,
		FetchedAt: d.FetchedAt,
		Size:      d.Size,
	}
}
