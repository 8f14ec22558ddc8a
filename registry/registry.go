package registry

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/finmcp/finmcp/core"
)

//go:embed registry.yaml
var defaultCatalog []byte

// catalog is the on-disk shape of a provider catalog file.
type catalog struct {
	Providers []core.Provider `yaml:"providers"`
}

// Registry is the immutable, ordered provider catalog.
// Callers must treat returned records as read-only.
type Registry struct {
	providers []core.Provider
	index     map[string]int
}

// New builds a Registry from a provider list, validating every record and
// rejecting duplicate ids. The input order is preserved.
func New(providers []core.Provider) (*Registry, error) {
	r := &Registry{
		providers: make([]core.Provider, len(providers)),
		index:     make(map[string]int, len(providers)),
	}
	copy(r.providers, providers)

	for i := range r.providers {
		p := &r.providers[i]
		if err := core.ValidateProvider(p); err != nil {
			return nil, fmt.Errorf("provider %d: %w", i, err)
		}
		if _, dup := r.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", core.ErrDuplicateProvider, p.ID)
		}
		r.index[p.ID] = i
	}

	return r, nil
}

// Default parses the catalog embedded in the binary.
func Default() (*Registry, error) {
	return parse(defaultCatalog)
}

// Load reads a catalog override file. An empty path falls back to the
// embedded default.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Registry, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Providers) == 0 {
		return nil, ErrEmptyCatalog
	}
	return New(c.Providers)
}

// Providers returns the catalog in declaration order.
func (r *Registry) Providers() []core.Provider {
	out := make([]core.Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Get returns the provider with the given id, or core.ErrUnknownProvider.
func (r *Registry) Get(id string) (core.Provider, error) {
	i, ok := r.index[id]
	if !ok {
		return core.Provider{}, fmt.Errorf("%w: %q", core.ErrUnknownProvider, id)
	}
	return r.providers[i], nil
}

// Has reports whether the catalog contains the given id.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// IDs returns all provider ids in declaration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.providers))
	for i := range r.providers {
		ids[i] = r.providers[i].ID
	}
	return ids
}

// Len returns the number of providers in the catalog.
func (r *Registry) Len() int {
	return len(r.providers)
}
