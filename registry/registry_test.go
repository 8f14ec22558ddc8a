package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finmcp/finmcp/core"
)

func TestDefault(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 10, r.Len())

	providers := r.Providers()
	assert.Equal(t, "fred", providers[0].ID)
	assert.Equal(t, "etherscan", providers[len(providers)-1].ID)

	fred, err := r.Get("fred")
	require.NoError(t, err)
	assert.True(t, fred.SpecialParsing)
	assert.True(t, fred.LocalAvailable)
	assert.NotEmpty(t, fred.ContentSelectors)
	assert.Contains(t, fred.DataTypes, "inflation")
}

func TestDefault_AllRecordsComplete(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	for _, p := range r.Providers() {
		t.Run(p.ID, func(t *testing.T) {
			assert.NotEmpty(t, p.Name)
			assert.NotEmpty(t, p.DocsURL)
			assert.NotEmpty(t, p.DataTypes)
			assert.NotEmpty(t, p.GeographicCoverage)
			assert.NotEmpty(t, p.ResponseTime)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses embedded default", func(t *testing.T) {
		r, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 10, r.Len())
	})

	t.Run("override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		data := `providers:
  - id: alpha
    name: Alpha Data
    data_types: [stocks]
    geographic_coverage: [US]
    docs_url: https://example.com/docs/
  - id: beta
    name: Beta Data
    data_types: [crypto]
    geographic_coverage: [Global]
    docs_url: https://example.org/docs/
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		r, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta"}, r.IDs())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("providers: [:::"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("empty catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("providers: []\n"), 0o644))

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})
}

func TestNew(t *testing.T) {
	valid := core.Provider{ID: "one", Name: "One", DocsURL: "https://example.com/"}

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := New([]core.Provider{valid, valid})
		assert.ErrorIs(t, err, core.ErrDuplicateProvider)
	})

	t.Run("invalid record rejected", func(t *testing.T) {
		_, err := New([]core.Provider{{ID: "broken"}})
		assert.ErrorIs(t, err, core.ErrInvalidProvider)
	})

	t.Run("order preserved", func(t *testing.T) {
		second := core.Provider{ID: "two", Name: "Two", DocsURL: "https://example.org/"}
		r, err := New([]core.Provider{valid, second})
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two"}, r.IDs())
	})
}

func TestGet(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	p, err := r.Get("worldbank")
	require.NoError(t, err)
	assert.Equal(t, "World Bank Open Data", p.Name)

	_, err = r.Get("bloomberg")
	assert.ErrorIs(t, err, core.ErrUnknownProvider)
	assert.False(t, r.Has("bloomberg"))
	assert.True(t, r.Has("worldbank"))
}

func TestProviders_ReturnsCopy(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	providers := r.Providers()
	providers[0] = core.Provider{ID: "clobbered"}

	fresh := r.Providers()
	assert.Equal(t, "fred", fresh[0].ID)
}
