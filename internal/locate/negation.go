package locate

import (
	"github.com/citegate/citegate/internal/model"
	"github.com/citegate/citegate/internal/text"
)

// negationCues are tokens that flip the polarity of a statement. Checked
// against raw tokens, before stopword filtering, so "not" and "no" are
// visible here even though broader tokenization drops function words.
var negationCues = map[string]struct{}{
	"no": {}, "not": {}, "never": {}, "cannot": {}, "without": {},
	"oppose": {}, "opposes": {}, "opposed": {},
	"reject": {}, "rejects": {}, "rejected": {},
	"refuse": {}, "refuses": {}, "refused": {},
	"disagree": {}, "disagrees": {}, "disagreed": {},
	"deny": {}, "denies": {}, "denied": {},
	"against": {}, "infeasible": {}, "lacks": {}, "lacking": {},
	"unable": {}, "fails": {}, "failed": {},
}

// polarity reports whether s contains a negation cue
func polarity(s string) bool {
	for _, tok := range text.RawTokens(s) {
		if _, ok := negationCues[tok]; ok {
			return true
		}
	}
	return false
}

// classifyRelation decides how a quote relates to a claim. Two statements
// about the same subject matter agree when their polarities match and clash
// when they differ; below the relevance floor they are not about the same
// thing at all, so polarity is meaningless and the relation is NEUTRAL.
func classifyRelation(claim, quote string, overlap, relevanceFloor float64) model.Relation {
	if overlap < relevanceFloor {
		return model.RelationNeutral
	}
	if polarity(claim) == polarity(quote) {
		return model.RelationSupports
	}
	return model.RelationContradicts
}
