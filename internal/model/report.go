package model

import "time"

// VerificationReport is the complete artifact of one verification run
type VerificationReport struct {
	Draft      string             `json:"draft"`
	Mode       Mode               `json:"mode"`
	Threshold  float64            `json:"confidence_threshold"`
	CorpusRoot string             `json:"corpus_root,omitempty"`
	Scope      []string           `json:"scope,omitempty"`
	StartedAt  time.Time          `json:"started_at"`
	DurationMS int64              `json:"duration_ms"`
	Result     VerificationResult `json:"result"`
}
