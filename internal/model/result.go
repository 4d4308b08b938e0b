package model

// Mode controls whether unverified claims are removed or merely flagged
type Mode string

const (
	ModeStrict  Mode = "strict"
	ModeLenient Mode = "lenient"
)

// OverallConfidence summarizes the distribution of per-claim statuses
type OverallConfidence string

const (
	ConfidenceNone   OverallConfidence = "none"
	ConfidenceLow    OverallConfidence = "low"
	ConfidenceMedium OverallConfidence = "medium"
	ConfidenceHigh   OverallConfidence = "high"
)

// FallbackAnswer is the fixed answer returned when every extracted claim was
// excluded. The wording is part of the verification contract; callers must
// not override it.
const FallbackAnswer = "I could not find information about this in the available documents."

// VerificationResult is the final outcome of one verification run
type VerificationResult struct {
	FinalAnswer    string               `json:"final_answer"`
	ExcludedClaims []Claim              `json:"excluded_claims,omitempty"`
	FlaggedClaims  []Claim              `json:"flagged_claims,omitempty"` // lenient mode: kept in the answer but unverified
	Records        []VerificationRecord `json:"records,omitempty"`
	Overall        OverallConfidence    `json:"overall_confidence"`
}
