// Package assemble rewrites a drafted answer into its verified final form.
// Verified claims gain inline citations, weakly supported claims gain
// hedging markers, unverified claims are removed or flagged depending on
// the verification mode, and contradicted or evidence-free claims are
// always removed. Draft text outside claim spans is preserved as written;
// removing a claim leaves a seam, and seam repair normalizes whitespace
// and punctuation around the cuts.
package assemble

import (
	"sort"
	"strings"

	"github.com/citegate/citegate/internal/model"
	"github.com/citegate/citegate/internal/score"
)

// Inline markers. Fixed strings, part of the output contract.
const (
	markerModerate   = "(moderate support)"
	markerPartial    = "(partially supported)"
	markerUnverified = "[unverified]"
)

// Assembler builds the final answer from a draft and its verification
// records
type Assembler struct {
	mode model.Mode
}

// NewAssembler creates an assembler for the given mode
func NewAssembler(mode model.Mode) *Assembler {
	if mode == "" {
		mode = model.ModeStrict
	}
	return &Assembler{mode: mode}
}

// Assemble produces the verification result. Records may arrive in any
// order; draft text outside claim spans is written through unchanged unless
// a removal seam needs repair.
func (a *Assembler) Assemble(draft string, records []model.VerificationRecord) model.VerificationResult {
	result := model.VerificationResult{Records: records}

	if len(records) == 0 {
		result.FinalAnswer = draft
		result.Overall = model.ConfidenceNone
		return result
	}

	ordered := append([]model.VerificationRecord(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Claim.Span.Start < ordered[j].Claim.Span.Start
	})

	var out strings.Builder
	cursor := 0
	kept := 0
	removed := false

	for _, record := range ordered {
		span := record.Claim.Span
		if span.Start < 0 || span.End < span.Start || span.End > len(draft) {
			continue
		}

		// overlapping spans: only the part of the draft not already
		// consumed by an earlier claim belongs to this one
		start := span.Start
		if start < cursor {
			start = cursor
		}
		segEnd := span.End
		if segEnd < start {
			segEnd = start
		}
		out.WriteString(draft[cursor:start])
		if span.End > cursor {
			cursor = span.End
		}
		segment := draft[start:segEnd]

		switch record.Status {
		case model.StatusVerified, model.StatusPartiallyVerified:
			if segment != "" {
				out.WriteString(annotate(segment, record))
			}
			kept++
		case model.StatusUnverified:
			if a.mode == model.ModeLenient {
				if segment != "" {
					out.WriteString(annotateMarker(segment, markerUnverified))
				}
				result.FlaggedClaims = append(result.FlaggedClaims, record.Claim)
				kept++
			} else {
				result.ExcludedClaims = append(result.ExcludedClaims, record.Claim)
				removed = true
			}
		default:
			// contradicted and evidence-free claims never reach the
			// reader, in either mode
			result.ExcludedClaims = append(result.ExcludedClaims, record.Claim)
			removed = true
		}
	}
	out.WriteString(draft[cursor:])

	if kept == 0 {
		result.FinalAnswer = model.FallbackAnswer
		result.Overall = model.ConfidenceNone
		return result
	}

	result.FinalAnswer = out.String()
	if removed {
		result.FinalAnswer = restitch(result.FinalAnswer)
	}
	result.Overall = overallConfidence(ordered)
	return result
}

// annotate appends the hedging marker and citation a scored claim earned
func annotate(claimText string, record model.VerificationRecord) string {
	var parts []string

	switch {
	case record.Status == model.StatusPartiallyVerified:
		parts = append(parts, markerPartial)
	case record.Confidence < score.HighConfidence:
		parts = append(parts, markerModerate)
	}

	if citation := citationFor(record); citation != "" {
		parts = append(parts, citation)
	}
	if len(parts) == 0 {
		return claimText
	}
	return insertBeforeTerminator(claimText, strings.Join(parts, " "))
}

func annotateMarker(claimText, marker string) string {
	return insertBeforeTerminator(claimText, marker)
}

// citationFor cites every span that agrees with the best one: same file,
// same relation. Line numbers collapse into the compact citation format.
func citationFor(record model.VerificationRecord) string {
	best, ok := record.BestEvidence()
	if !ok {
		return ""
	}

	var lines []int
	for _, span := range record.Evidence {
		if span.FileID != best.FileID || span.Relation != best.Relation {
			continue
		}
		for n := span.Lines.Start; n <= span.Lines.End; n++ {
			lines = append(lines, n)
		}
	}
	return model.FormatCitation(best.FileID, lines)
}

// insertBeforeTerminator places the annotation inside the sentence, before
// its trailing punctuation
func insertBeforeTerminator(claimText, annotation string) string {
	trimmed := strings.TrimRight(claimText, " ")
	if n := len(trimmed); n > 0 {
		switch trimmed[n-1] {
		case '.', '!', '?', ';', ':':
			return trimmed[:n-1] + " " + annotation + trimmed[n-1:]
		}
	}
	return trimmed + " " + annotation
}

// overallConfidence summarizes the status distribution
func overallConfidence(records []model.VerificationRecord) model.OverallConfidence {
	verified := 0
	contradicted := 0
	for _, r := range records {
		switch r.Status {
		case model.StatusVerified:
			verified++
		case model.StatusContradicted:
			contradicted++
		}
	}

	switch {
	case verified == len(records):
		return model.ConfidenceHigh
	case contradicted == 0 && verified*2 >= len(records):
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
