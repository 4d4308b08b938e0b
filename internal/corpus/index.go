// Package corpus provides a read-only, line-addressable view over a
// document folder. The verification core consumes it exclusively through
// the Index interface and never mutates the corpus.
package corpus

import (
	"context"

	"github.com/citegate/citegate/internal/model"
)

// Index is the corpus capability the verification pipeline consumes.
// Implementations must be safe for concurrent use: searches for many claims
// and many runs share one index.
type Index interface {
	// Search returns candidate evidence spans for the query, ranked by
	// lexical match score descending with deterministic tie-breaks
	// (file ID, then line range ascending). A non-empty scope restricts
	// the search to those file IDs. Relation classification is the
	// locator's concern; spans come back RelationNeutral.
	Search(ctx context.Context, query string, scope []string, maxResults int) ([]model.EvidenceSpan, error)

	// ReadLines returns the exact text of the inclusive 1-based line range
	ReadLines(ctx context.Context, fileID string, lines model.LineRange) (string, error)

	// Files lists all file IDs in the corpus, sorted
	Files() []string
}
