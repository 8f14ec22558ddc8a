package storage

import (
	"testing"
	"time"

	"github.com/finmcp/finmcp/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		doc  *core.Document
	}{
		{
			name: "full document",
			doc: &core.Document{
				Provider:  "fred",
				Path:      "fred/series/observations",
				URL:       "https://fred.stlouisfed.org/docs/api/fred/series_observations.html",
				Content:   "# FRED API\n\nReturns observations for a series.",
				FetchedAt: now,
				Size:      46,
			},
		},
		{
			name: "empty content",
			doc: &core.Document{
				Provider:  "ecb",
				Path:      "overview",
				URL:       "https://data.ecb.europa.eu/help/api/overview",
				FetchedAt: now,
			},
		},
		{
			name: "unicode content",
			doc: &core.Document{
				Provider:  "estat",
				Path:      "api-guide",
				URL:       "https://www.e-stat.go.jp/api/",
				Content:   "統計データAPI — 人口・経済 🇯🇵",
				FetchedAt: now,
				Size:      42,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalDocument(tt.doc)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalDocument(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.doc.Provider, decoded.Provider)
			assert.Equal(t, tt.doc.Path, decoded.Path)
			assert.Equal(t, tt.doc.URL, decoded.URL)
			assert.Equal(t, tt.doc.Content, decoded.Content)
			assert.True(t, tt.doc.FetchedAt.Equal(decoded.FetchedAt))
			assert.Equal(t, tt.doc.Size, decoded.Size)
		})
	}
}

func TestMarshalDocument_TimestampResolution(t *testing.T) {
	// Sub-microsecond precision is dropped on the wire; the decoded
	// timestamp must survive a second round trip unchanged.
	doc := &core.Document{
		Provider:  "imf",
		Path:      "sdmx",
		URL:       "https://data.imf.org/en/Resource-Pages/IMF-API",
		Content:   "SDMX 2.1 REST endpoints",
		FetchedAt: time.Now().UTC(),
		Size:      23,
	}

	first, err := UnmarshalDocument(MarshalDocument(doc))
	require.NoError(t, err)
	second, err := UnmarshalDocument(MarshalDocument(first))
	require.NoError(t, err)

	assert.True(t, first.FetchedAt.Equal(second.FetchedAt))
	assert.True(t, doc.FetchedAt.Truncate(time.Microsecond).Equal(first.FetchedAt))
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
		{"partial data", []byte{4, 'f', 'r'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalDocument(tt.data)
			assert.Error(t, err)
		})
	}
}
