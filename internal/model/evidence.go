package model

import "fmt"

// Relation classifies how an evidence span bears on a claim
type Relation string

const (
	RelationSupports    Relation = "supports"
	RelationContradicts Relation = "contradicts"
	RelationNeutral     Relation = "neutral"
)

// LineRange is an inclusive 1-based line range within a corpus file
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// EvidenceSpan is a located passage in the corpus that bears on a claim.
// Quote must be the literal text at FileID/Lines - never paraphrased.
type EvidenceSpan struct {
	FileID     string    `json:"file_id"` // Corpus-relative identifier, never an absolute path
	Lines      LineRange `json:"lines"`
	Quote      string    `json:"quote"`
	Relation   Relation  `json:"relation"`
	MatchScore float64   `json:"match_score"` // Claim-to-quote similarity in [0,1]
}

// Citation renders the span location in the wire citation format:
// [file:N] for a single line, [file:N-M] for a range.
func (s EvidenceSpan) Citation() string {
	if s.Lines.Start == s.Lines.End {
		return fmt.Sprintf("[%s:%d]", s.FileID, s.Lines.Start)
	}
	return fmt.Sprintf("[%s:%d-%d]", s.FileID, s.Lines.Start, s.Lines.End)
}
