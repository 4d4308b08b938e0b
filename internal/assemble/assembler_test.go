package assemble

import (
	"strings"
	"testing"

	"github.com/citegate/citegate/internal/model"
)

// claimIn builds a claim whose span points at text's occurrence in draft
func claimIn(t *testing.T, draft, text string) model.Claim {
	t.Helper()
	pos := strings.Index(draft, text)
	if pos < 0 {
		t.Fatalf("Claim %q not found in draft", text)
	}
	return model.Claim{Text: text, Span: model.Span{Start: pos, End: pos + len(text)}}
}

func supportSpan(fileID string, start, end int, matchScore float64) model.EvidenceSpan {
	return model.EvidenceSpan{
		FileID:     fileID,
		Lines:      model.LineRange{Start: start, End: end},
		Quote:      "quoted text",
		Relation:   model.RelationSupports,
		MatchScore: matchScore,
	}
}

func TestAssemble_VerifiedClaimGetsCitation(t *testing.T) {
	draft := "The gateway requires dual antennas."
	record := model.VerificationRecord{
		Claim:      claimIn(t, draft, draft),
		Evidence:   []model.EvidenceSpan{supportSpan("specs.txt", 3, 4, 0.95)},
		Status:     model.StatusVerified,
		Confidence: 0.95,
	}

	result := NewAssembler(model.ModeStrict).Assemble(draft, []model.VerificationRecord{record})

	want := "The gateway requires dual antennas [specs.txt:3-4]."
	if result.FinalAnswer != want {
		t.Errorf("Expected %q, got %q", want, result.FinalAnswer)
	}
	if result.Overall != model.ConfidenceHigh {
		t.Errorf("Expected HIGH overall, got %s", result.Overall)
	}
	if len(result.ExcludedClaims) != 0 || len(result.FlaggedClaims) != 0 {
		t.Error("Expected no exclusions or flags")
	}
}

func TestAssemble_ModerateSupportIsHedged(t *testing.T) {
	draft := "The gateway requires dual antennas."
	record := model.VerificationRecord{
		Claim:      claimIn(t, draft, draft),
		Evidence:   []model.EvidenceSpan{supportSpan("specs.txt", 3, 3, 0.75)},
		Status:     model.StatusVerified,
		Confidence: 0.75,
	}

	result := NewAssembler(model.ModeStrict).Assemble(draft, []model.VerificationRecord{record})

	want := "The gateway requires dual antennas (moderate support) [specs.txt:3]."
	if result.FinalAnswer != want {
		t.Errorf("Expected %q, got %q", want, result.FinalAnswer)
	}
}

func TestAssemble_PartialSupportMarker(t *testing.T) {
	draft := "The gateway requires dual antennas."
	record := model.VerificationRecord{
		Claim:      claimIn(t, draft, draft),
		Evidence:   []model.EvidenceSpan{supportSpan("specs.txt", 8, 8, 0.6)},
		Status:     model.StatusPartiallyVerified,
		Confidence: 0.6,
	}

	result := NewAssembler(model.ModeStrict).Assemble(draft, []model.VerificationRecord{record})

	want := "The gateway requires dual antennas (partially supported) [specs.txt:8]."
	if result.FinalAnswer != want {
		t.Errorf("Expected %q, got %q", want, result.FinalAnswer)
	}
}

func TestAssemble_StrictRemovesFailingClaims(t *testing.T) {
	draft := "The gateway requires dual antennas. Unverified speculation sentence here. Operators deploy it widely."
	records := []model.VerificationRecord{
		{
			Claim:      claimIn(t, draft, "The gateway requires dual antennas."),
			Evidence:   []model.EvidenceSpan{supportSpan("specs.txt", 7, 7, 0.95)},
			Status:     model.StatusVerified,
			Confidence: 0.95,
		},
		{
			Claim:  claimIn(t, draft, "Unverified speculation sentence here."),
			Status: model.StatusNoEvidence,
		},
	}

	result := NewAssembler(model.ModeStrict).Assemble(draft, records)

	want := "The gateway requires dual antennas [specs.txt:7]. Operators deploy it widely."
	if result.FinalAnswer != want {
		t.Errorf("Expected %q, got %q", want, result.FinalAnswer)
	}
	if len(result.ExcludedClaims) != 1 {
		t.Fatalf("Expected 1 excluded claim, got %d", len(result.ExcludedClaims))
	}
	if result.ExcludedClaims[0].Text != "Unverified speculation sentence here." {
		t.Errorf("Unexpected excluded claim: %q", result.ExcludedClaims[0].Text)
	}
}

func TestAssemble_LenientFlagsUnverified(t *testing.T) {
	draft := "Unverified speculation sentence here."
	record := model.VerificationRecord{
		Claim: claimIn(t, draft, draft),
		Evidence: []model.EvidenceSpan{{
			FileID:     "notes.txt",
			Lines:      model.LineRange{Start: 1, End: 1},
			Relation:   model.RelationNeutral,
			MatchScore: 0.3,
		}},
		Status:     model.StatusUnverified,
		Confidence: 0.3,
	}

	result := NewAssembler(model.ModeLenient).Assemble(draft, []model.VerificationRecord{record})

	want := "Unverified speculation sentence here [unverified]."
	if result.FinalAnswer != want {
		t.Errorf("Expected %q, got %q", want, result.FinalAnswer)
	}
	if len(result.FlaggedClaims) != 1 {
		t.Errorf("Expected 1 flagged claim, got %d", len(result.FlaggedClaims))
	}
	if len(result.ExcludedClaims) != 0 {
		t.Errorf("Expected no exclusions for unverified in lenient mode, got %d", len(result.ExcludedClaims))
	}
}

func TestAssemble_LenientStillRemovesContradicted(t *testing.T) {
	draft := "The gateway requires dual antennas. Ericsson supports closed-loop frequency control."
	records := []model.VerificationRecord{
		{
			Claim:      claimIn(t, draft, "The gateway requires dual antennas."),
			Evidence:   []model.EvidenceSpan{supportSpan("specs.txt", 7, 7, 0.95)},
			Status:     model.StatusVerified,
			Confidence: 0.95,
		},
		{
			Claim: claimIn(t, draft, "Ericsson supports closed-loop frequency control."),
			Evidence: []model.EvidenceSpan{{
				FileID:     "minutes.txt",
				Lines:      model.LineRange{Start: 4, End: 4},
				Quote:      "Ericsson opposed closed-loop frequency control.",
				Relation:   model.RelationContradicts,
				MatchScore: 0.8,
			}},
			Status:     model.StatusContradicted,
			Confidence: 0.8,
		},
	}

	result := NewAssembler(model.ModeLenient).Assemble(draft, records)

	if strings.Contains(result.FinalAnswer, "Ericsson") {
		t.Errorf("Expected contradicted claim removed in lenient mode, got %q", result.FinalAnswer)
	}
	if len(result.ExcludedClaims) != 1 {
		t.Fatalf("Expected 1 excluded claim, got %d", len(result.ExcludedClaims))
	}
	if len(result.FlaggedClaims) != 0 {
		t.Errorf("Expected no flags for contradicted claims, got %d", len(result.FlaggedClaims))
	}
}

func TestAssemble_LenientRemovesNoEvidence(t *testing.T) {
	draft := "The committee approved teleportation for commercial flights."
	record := model.VerificationRecord{
		Claim:  claimIn(t, draft, draft),
		Status: model.StatusNoEvidence,
	}

	result := NewAssembler(model.ModeLenient).Assemble(draft, []model.VerificationRecord{record})

	if result.FinalAnswer != model.FallbackAnswer {
		t.Errorf("Expected fallback answer, got %q", result.FinalAnswer)
	}
	if len(result.ExcludedClaims) != 1 {
		t.Errorf("Expected 1 excluded claim, got %d", len(result.ExcludedClaims))
	}
}

func TestAssemble_OverlappingSpanStillExcluded(t *testing.T) {
	draft := "Gateways require dual antennas and endorses multi-satellite fallback."
	verified := claimIn(t, draft, "Gateways require dual antennas")
	overlapping := claimIn(t, draft, "dual antennas and endorses multi-satellite fallback.")

	records := []model.VerificationRecord{
		{
			Claim:      verified,
			Evidence:   []model.EvidenceSpan{supportSpan("specs.txt", 3, 3, 0.95)},
			Status:     model.StatusVerified,
			Confidence: 0.95,
		},
		{
			Claim:  overlapping,
			Status: model.StatusNoEvidence,
		},
	}

	result := NewAssembler(model.ModeStrict).Assemble(draft, records)

	if strings.Contains(result.FinalAnswer, "multi-satellite fallback") {
		t.Errorf("Expected overlapping failed span removed, got %q", result.FinalAnswer)
	}
	if !strings.Contains(result.FinalAnswer, "Gateways require dual antennas [specs.txt:3]") {
		t.Errorf("Expected verified prefix kept with citation, got %q", result.FinalAnswer)
	}
	if len(result.ExcludedClaims) != 1 {
		t.Fatalf("Expected 1 excluded claim, got %d", len(result.ExcludedClaims))
	}
	if result.ExcludedClaims[0].Text != overlapping.Text {
		t.Errorf("Unexpected excluded claim: %q", result.ExcludedClaims[0].Text)
	}
}

func TestAssemble_PreservesDraftTextWhenNothingRemoved(t *testing.T) {
	draft := "Intro  text stays as written.\nThe gateway requires dual antennas."
	record := model.VerificationRecord{
		Claim:      claimIn(t, draft, "The gateway requires dual antennas."),
		Evidence:   []model.EvidenceSpan{supportSpan("specs.txt", 3, 3, 0.95)},
		Status:     model.StatusVerified,
		Confidence: 0.95,
	}

	result := NewAssembler(model.ModeStrict).Assemble(draft, []model.VerificationRecord{record})

	want := "Intro  text stays as written.\nThe gateway requires dual antennas [specs.txt:3]."
	if result.FinalAnswer != want {
		t.Errorf("Expected draft text preserved byte for byte, got %q", result.FinalAnswer)
	}
}

func TestAssemble_FallbackWhenEverythingExcluded(t *testing.T) {
	draft := "The committee approved teleportation for commercial flights."
	record := model.VerificationRecord{
		Claim:  claimIn(t, draft, draft),
		Status: model.StatusNoEvidence,
	}

	result := NewAssembler(model.ModeStrict).Assemble(draft, []model.VerificationRecord{record})

	if result.FinalAnswer != model.FallbackAnswer {
		t.Errorf("Expected exact fallback answer, got %q", result.FinalAnswer)
	}
	if len(result.ExcludedClaims) != 1 {
		t.Errorf("Expected 1 excluded claim, got %d", len(result.ExcludedClaims))
	}
	if result.Overall != model.ConfidenceNone {
		t.Errorf("Expected NONE overall, got %s", result.Overall)
	}
}

func TestAssemble_NoRecordsLeavesDraftUntouched(t *testing.T) {
	draft := "Could you tell me which documents cover NTN timing?"
	result := NewAssembler(model.ModeStrict).Assemble(draft, nil)

	if result.FinalAnswer != draft {
		t.Errorf("Expected unchanged draft, got %q", result.FinalAnswer)
	}
	if result.Overall != model.ConfidenceNone {
		t.Errorf("Expected NONE overall, got %s", result.Overall)
	}
}

func TestAssemble_CitationMergesAgreeingSpans(t *testing.T) {
	draft := "The gateway requires dual antennas."
	record := model.VerificationRecord{
		Claim: claimIn(t, draft, draft),
		Evidence: []model.EvidenceSpan{
			supportSpan("specs.txt", 2, 2, 0.95),
			supportSpan("specs.txt", 5, 5, 0.8),
			supportSpan("other.txt", 1, 1, 0.7),
			{
				FileID:     "specs.txt",
				Lines:      model.LineRange{Start: 9, End: 9},
				Relation:   model.RelationContradicts,
				MatchScore: 0.1,
			},
		},
		Status:     model.StatusVerified,
		Confidence: 0.95,
	}

	result := NewAssembler(model.ModeStrict).Assemble(draft, []model.VerificationRecord{record})

	if !strings.Contains(result.FinalAnswer, "[specs.txt:2,5]") {
		t.Errorf("Expected merged citation [specs.txt:2,5], got %q", result.FinalAnswer)
	}
	if strings.Contains(result.FinalAnswer, "other.txt") || strings.Contains(result.FinalAnswer, ":9") {
		t.Errorf("Expected only agreeing same-file spans cited, got %q", result.FinalAnswer)
	}
}

func TestAssemble_RecordsInAnyOrder(t *testing.T) {
	draft := "First claim sentence stands alone. Second claim sentence stands alone."
	records := []model.VerificationRecord{
		{
			Claim:      claimIn(t, draft, "Second claim sentence stands alone."),
			Evidence:   []model.EvidenceSpan{supportSpan("b.txt", 2, 2, 0.95)},
			Status:     model.StatusVerified,
			Confidence: 0.95,
		},
		{
			Claim:      claimIn(t, draft, "First claim sentence stands alone."),
			Evidence:   []model.EvidenceSpan{supportSpan("a.txt", 1, 1, 0.95)},
			Status:     model.StatusVerified,
			Confidence: 0.95,
		},
	}

	result := NewAssembler(model.ModeStrict).Assemble(draft, records)

	want := "First claim sentence stands alone [a.txt:1]. Second claim sentence stands alone [b.txt:2]."
	if result.FinalAnswer != want {
		t.Errorf("Expected %q, got %q", want, result.FinalAnswer)
	}
}

func TestAssemble_OverallConfidenceBands(t *testing.T) {
	draft := "First claim sentence stands alone. Second claim sentence stands alone."
	verified := model.VerificationRecord{
		Claim:      claimIn(t, draft, "First claim sentence stands alone."),
		Evidence:   []model.EvidenceSpan{supportSpan("a.txt", 1, 1, 0.95)},
		Status:     model.StatusVerified,
		Confidence: 0.95,
	}
	partial := model.VerificationRecord{
		Claim:      claimIn(t, draft, "Second claim sentence stands alone."),
		Evidence:   []model.EvidenceSpan{supportSpan("a.txt", 4, 4, 0.6)},
		Status:     model.StatusPartiallyVerified,
		Confidence: 0.6,
	}
	contradicted := model.VerificationRecord{
		Claim:      partial.Claim,
		Evidence:   []model.EvidenceSpan{{FileID: "a.txt", Lines: model.LineRange{Start: 4, End: 4}, Relation: model.RelationContradicts, MatchScore: 0.8}},
		Status:     model.StatusContradicted,
		Confidence: 0.8,
	}

	assembler := NewAssembler(model.ModeStrict)

	if got := assembler.Assemble(draft, []model.VerificationRecord{verified, partial}).Overall; got != model.ConfidenceMedium {
		t.Errorf("Expected MEDIUM for half verified, got %s", got)
	}
	if got := assembler.Assemble(draft, []model.VerificationRecord{verified, contradicted}).Overall; got != model.ConfidenceLow {
		t.Errorf("Expected LOW with a contradiction present, got %s", got)
	}
}

func TestRestitch(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses doubled spaces", "One sentence.  Another one.", "One sentence. Another one."},
		{"removes space before punctuation", "Trailing space .", "Trailing space."},
		{"drops dangling connective", "The uplink works and .", "The uplink works."},
		{"preserves ellipsis", "Wait... more  text .", "Wait... more text."},
		{"collapses doubled terminators", "Sentence. . Next.", "Sentence. Next."},
		{"trims edges", "  padded text  ", "padded text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := restitch(tt.in); got != tt.want {
				t.Errorf("restitch(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
