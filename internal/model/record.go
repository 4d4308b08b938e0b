package model

// Status is the verification outcome for one claim
type Status string

const (
	StatusVerified          Status = "verified"
	StatusPartiallyVerified Status = "partially_verified"
	StatusUnverified        Status = "unverified"
	StatusContradicted      Status = "contradicted"
	StatusNoEvidence        Status = "no_evidence"
)

// VerificationRecord is the outcome of scoring one claim against its
// evidence set. Evidence is ranked by match score descending.
type VerificationRecord struct {
	Claim      Claim          `json:"claim"`
	Evidence   []EvidenceSpan `json:"evidence,omitempty"`
	Status     Status         `json:"status"`
	Confidence float64        `json:"confidence"` // [0,1]
}

// BestEvidence returns the top-ranked evidence span, if any
func (r VerificationRecord) BestEvidence() (EvidenceSpan, bool) {
	if len(r.Evidence) == 0 {
		return EvidenceSpan{}, false
	}
	return r.Evidence[0], true
}
