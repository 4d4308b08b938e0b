// Package extract decomposes draft answers into atomic, independently
// verifiable claims. Each claim carries immutable byte offsets into the
// draft it came from; downstream stages never hold a live reference to
// mutable draft state.
package extract

import (
	"context"
	"errors"
	"strings"

	"github.com/citegate/citegate/internal/model"
)

// Extractor splits a draft into factual claims. An empty claim list is a
// valid outcome (the draft asserts nothing), not an error.
type Extractor interface {
	Extract(ctx context.Context, draft string) ([]model.Claim, error)
}

// checkDraft enforces the shared input contract: non-empty, within the
// configured size limit
func checkDraft(draft string, maxBytes int) error {
	if strings.TrimSpace(draft) == "" {
		return errors.New("draft is empty")
	}
	if maxBytes > 0 && len(draft) > maxBytes {
		return &model.DraftTooLargeError{Size: len(draft), Limit: maxBytes}
	}
	return nil
}

// dedupeClaims removes duplicate claims, keeping the first occurrence
func dedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool, len(claims))
	var unique []model.Claim

	for _, claim := range claims {
		key := strings.ToLower(strings.TrimSpace(claim.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, claim)
		}
	}

	return unique
}
