// Package score turns a claim and its ranked evidence into a verification
// record. Scoring is a pure function of its inputs: no I/O, no randomness,
// no shared state, so the same claim and evidence always produce the same
// status and confidence.
package score

import (
	"github.com/citegate/citegate/internal/model"
)

// HighConfidence is the match score at and above which a supported claim is
// verified without hedging. Verified claims between the caller's threshold
// and this value carry moderate confidence and get hedged downstream.
const HighConfidence = 0.9

// partialFloor is the minimum best match score for partial verification.
// Below it evidence is considered too weak to cite at all.
const partialFloor = 0.5

// Scorer assigns verification statuses
type Scorer struct {
	contradictionThreshold float64
}

// NewScorer creates a scorer. contradictionThreshold is the minimum match
// score a contradicting span needs before it overrides support.
func NewScorer(contradictionThreshold float64) *Scorer {
	if contradictionThreshold <= 0 {
		contradictionThreshold = 0.5
	}
	return &Scorer{contradictionThreshold: contradictionThreshold}
}

// Score produces the verification record for one claim. evidence must be
// ranked by match score descending; confidenceThreshold is the run-level
// bar for full verification.
//
// Status is a function of the top-ranked span alone. Scanning deeper into
// the list would let a weak outlier override the strongest evidence the
// locator found.
func (s *Scorer) Score(claim model.Claim, evidence []model.EvidenceSpan, confidenceThreshold float64) model.VerificationRecord {
	record := model.VerificationRecord{Claim: claim, Evidence: evidence}

	if len(evidence) == 0 {
		record.Status = model.StatusNoEvidence
		record.Confidence = 0
		return record
	}

	best := evidence[0]
	record.Confidence = best.MatchScore

	switch {
	case best.Relation == model.RelationContradicts && best.MatchScore >= s.contradictionThreshold:
		record.Status = model.StatusContradicted
	case best.Relation == model.RelationSupports && best.MatchScore >= confidenceThreshold:
		record.Status = model.StatusVerified
	case best.MatchScore >= partialFloor:
		// weak or neutral evidence still anchors a partial verification
		// when it clears the citation floor
		record.Status = model.StatusPartiallyVerified
	default:
		record.Status = model.StatusUnverified
	}

	return record
}
