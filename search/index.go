package search

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"

	"github.com/finmcp/finmcp/core"
)

const (
	// DefaultLimit is used when a caller asks for zero or negative results.
	DefaultLimit = 10

	fragmentBytes = 200
)

// Hit is a single search result.
type Hit struct {
	Provider string  `json:"provider"`
	Path     string  `json:"path"`
	Score    float64 `json:"score"`
	Fragment string  `json:"fragment"`
}

// indexedDoc is the shape Bleve indexes. Field names come from the json tags.
type indexedDoc struct {
	Provider string `json:"provider"`
	Path     string `json:"path"`
	Content  string `json:"content"`
}

// Index is an in-memory full-text index over cached documents.
// Bleve indexes are safe for concurrent use, so Index needs no locking.
type Index struct {
	index bleve.Index
}

// NewIndex creates an empty in-memory index.
func NewIndex() (*Index, error) {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textField := bleve.NewTextFieldMapping()
	textField.Store = true
	textField.Index = true
	docMapping.AddFieldMappingsAt("provider", textField)
	docMapping.AddFieldMappingsAt("path", textField)
	docMapping.AddFieldMappingsAt("content", textField)
	indexMapping.AddDocumentMapping("_default", docMapping)

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, err
	}
	return &Index{index: index}, nil
}

// docID derives the index id from the cache identity of a document.
func docID(provider, path string) string {
	return strconv.FormatUint(uint64(core.DocumentID(provider, path)), 10)
}

// Add indexes a document, replacing any previous entry for the same
// provider/path pair.
func (ix *Index) Add(doc *core.Document) error {
	if doc == nil {
		return ErrDocumentRequired
	}
	return ix.index.Index(docID(doc.Provider, doc.Path), indexedDoc{
		Provider: doc.Provider,
		Path:     doc.Path,
		Content:  doc.Content,
	})
}

// Remove drops a document from the index. Removing an absent document is
// not an error.
func (ix *Index) Remove(provider, path string) error {
	return ix.index.Delete(docID(provider, path))
}

// Count returns the number of indexed documents.
func (ix *Index) Count() (uint64, error) {
	return ix.index.DocCount()
}

// Search runs a full-text query and returns up to limit hits, best first.
// A non-positive limit falls back to DefaultLimit.
func (ix *Index) Search(query string, limit int) ([]Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	contentQuery := bleve.NewMatchQuery(query)
	contentQuery.SetField("content")

	providerQuery := bleve.NewMatchQuery(query)
	providerQuery.SetField("provider")
	providerQuery.SetBoost(2.0)

	pathQuery := bleve.NewMatchQuery(query)
	pathQuery.SetField("path")
	pathQuery.SetBoost(1.5)

	searchQuery := bleve.NewDisjunctionQuery(contentQuery, providerQuery, pathQuery)

	request := bleve.NewSearchRequest(searchQuery)
	request.Fields = []string{"provider", "path", "content"}
	request.Size = limit

	results, err := ix.index.Search(request)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		hits = append(hits, Hit{
			Provider: fieldString(hit.Fields, "provider"),
			Path:     fieldString(hit.Fields, "path"),
			Score:    hit.Score,
			Fragment: makeFragment(fieldString(hit.Fields, "content")),
		})
	}
	return hits, nil
}

// Close releases the index.
func (ix *Index) Close() error {
	return ix.index.Close()
}

func fieldString(fields map[string]interface{}, key string) string {
	if val, ok := fields[key].(string); ok {
		return val
	}
	return ""
}

// makeFragment returns the opening of a document's text for display,
// skipping the fetch banner when present.
func makeFragment(content string) string {
	body := content
	if i := strings.Index(content, "\n---\n\n"); i >= 0 {
		body = content[i+len("\n---\n\n"):]
	}
	body = strings.TrimSpace(body)

	if len(body) <= fragmentBytes {
		return body
	}
	cut := fragmentBytes
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}
