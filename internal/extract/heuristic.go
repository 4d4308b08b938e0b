package extract

import (
	"context"
	"strings"

	"github.com/citegate/citegate/internal/model"
)

// HeuristicExtractor extracts claims with deterministic lexical rules: the
// draft is split into sentences, structural and rhetorical sentences are
// discarded, and the rest are kept when they contain a factual predicate
// cue. Deterministic by construction, so it anchors the reproducibility
// guarantees of the whole pipeline.
type HeuristicExtractor struct {
	maxDraftBytes int
	cues          []string
}

// hedgePrefixes mark sentences that express uncertainty rather than fact
var hedgePrefixes = []string{
	"perhaps", "maybe", "possibly", "it seems", "it appears",
	"i think", "i believe", "i assume", "arguably",
}

// transitionPrefixes mark purely structural sentences when nothing factual
// follows the transition
var transitionPrefixes = []string{
	"in summary", "in conclusion", "to summarize", "let me know",
	"see below", "as follows", "as mentioned above",
}

// NewHeuristicExtractor creates a new heuristic extractor
func NewHeuristicExtractor(maxDraftBytes int) *HeuristicExtractor {
	return &HeuristicExtractor{
		maxDraftBytes: maxDraftBytes,
		cues: []string{
			"supports", "opposes", "opposed", "requires", "proposes",
			"proposed", "states", "stated", "rejects", "rejected",
			"agreed", "concluded", "observed", "reported", "confirmed",
			"according to", "defined as", "defines", "introduced",
			"established", "provides", "results in", "due to", "because",
			"shall", "must", " is ", " are ", " was ", " were ",
			" has ", " have ",
		},
	}
}

// Extract returns the factual claims of the draft in draft order
func (e *HeuristicExtractor) Extract(_ context.Context, draft string) ([]model.Claim, error) {
	if err := checkDraft(draft, e.maxDraftBytes); err != nil {
		return nil, err
	}

	var claims []model.Claim
	for i, sent := range splitSentences(draft) {
		if e.isStructural(sent.text) {
			continue
		}

		lower := strings.ToLower(sent.text)
		for _, cue := range e.cues {
			if strings.Contains(lower, cue) {
				claims = append(claims, model.Claim{
					Text:      sent.text,
					Span:      model.Span{Start: sent.start, End: sent.end},
					Heuristic: "keyword:" + strings.TrimSpace(cue),
					Sentence:  i,
				})
				break // one match per sentence
			}
		}
	}

	return dedupeClaims(claims), nil
}

// isStructural filters headers, questions, hedges, transitions, and
// fragments too short to carry a verifiable predicate
func (e *HeuristicExtractor) isStructural(s string) bool {
	if strings.HasPrefix(s, "#") {
		return true
	}
	if strings.HasSuffix(s, "?") {
		return true
	}
	if len(strings.Fields(s)) < 4 {
		return true
	}

	lower := strings.ToLower(s)
	for _, p := range hedgePrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	for _, p := range transitionPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
