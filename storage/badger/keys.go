package badger

import (
	"fmt"

	"github.com/finmcp/finmcp/core"
)

// Key prefixes for different data types
const (
	documentPrefix = "docrec"
)

// makeDocumentKey generates a key for a cached document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}
