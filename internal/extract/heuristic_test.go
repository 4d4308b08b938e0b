package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/citegate/citegate/internal/model"
)

func TestHeuristicExtractor_BasicExtraction(t *testing.T) {
	extractor := NewHeuristicExtractor(0)

	draft := "Qualcomm opposes single-satellite positioning due to latency. " +
		"Ericsson supports closed-loop frequency control for NTN uplinks."

	claims, err := extractor.Extract(context.Background(), draft)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(claims))
	}

	if !strings.Contains(claims[0].Text, "Qualcomm opposes") {
		t.Errorf("Unexpected first claim: %q", claims[0].Text)
	}
	if !strings.HasPrefix(claims[0].Heuristic, "keyword:") {
		t.Errorf("Expected keyword heuristic, got %q", claims[0].Heuristic)
	}

	// source spans must map back to the draft verbatim
	for _, c := range claims {
		if draft[c.Span.Start:c.Span.End] != c.Text {
			t.Errorf("Span mismatch for %q: draft slice is %q",
				c.Text, draft[c.Span.Start:c.Span.End])
		}
	}

	if claims[0].Sentence == claims[1].Sentence {
		t.Error("Expected distinct sentence indices")
	}
}

func TestHeuristicExtractor_SkipsStructuralText(t *testing.T) {
	extractor := NewHeuristicExtractor(0)

	draft := "# Findings on NTN positioning\n" +
		"Could you clarify which release applies?\n" +
		"Perhaps the discussion moves to the next meeting.\n" +
		"In summary, see the table below.\n" +
		"Qualcomm opposes single-satellite positioning due to latency.\n"

	claims, err := extractor.Extract(context.Background(), draft)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d: %v", len(claims), claims)
	}
	if !strings.Contains(claims[0].Text, "Qualcomm") {
		t.Errorf("Unexpected claim: %q", claims[0].Text)
	}
}

func TestHeuristicExtractor_NoClaimsIsValid(t *testing.T) {
	extractor := NewHeuristicExtractor(0)

	claims, err := extractor.Extract(context.Background(), "Could you tell me which documents cover NTN timing?")
	if err != nil {
		t.Fatalf("Expected no error for claim-free draft, got %v", err)
	}
	if len(claims) != 0 {
		t.Errorf("Expected no claims, got %d", len(claims))
	}
}

func TestHeuristicExtractor_EmptyDraft(t *testing.T) {
	extractor := NewHeuristicExtractor(0)
	if _, err := extractor.Extract(context.Background(), "   \n "); err == nil {
		t.Error("Expected error for empty draft")
	}
}

func TestHeuristicExtractor_DraftTooLarge(t *testing.T) {
	extractor := NewHeuristicExtractor(32)

	_, err := extractor.Extract(context.Background(), strings.Repeat("This statement is quite long. ", 10))
	if err == nil {
		t.Fatal("Expected error for oversized draft")
	}

	var tooLarge *model.DraftTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("Expected DraftTooLargeError, got %T: %v", err, err)
	}
	if tooLarge.Limit != 32 {
		t.Errorf("Expected limit 32, got %d", tooLarge.Limit)
	}
}

func TestHeuristicExtractor_DedupesRepeatedClaims(t *testing.T) {
	extractor := NewHeuristicExtractor(0)

	draft := "The gateway requires dual antennas. The gateway requires dual antennas."
	claims, err := extractor.Extract(context.Background(), draft)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) != 1 {
		t.Errorf("Expected 1 deduplicated claim, got %d", len(claims))
	}
}

func TestSplitSentences_Offsets(t *testing.T) {
	draft := "First sentence here. Second one follows!\nThird on a new line"
	sentences := splitSentences(draft)

	if len(sentences) != 3 {
		t.Fatalf("Expected 3 sentences, got %d: %v", len(sentences), sentences)
	}
	for _, s := range sentences {
		if draft[s.start:s.end] != s.text {
			t.Errorf("Offset mismatch: %q vs %q", draft[s.start:s.end], s.text)
		}
	}
	if sentences[1].text != "Second one follows!" {
		t.Errorf("Unexpected second sentence: %q", sentences[1].text)
	}
	if sentences[2].text != "Third on a new line" {
		t.Errorf("Unexpected third sentence: %q", sentences[2].text)
	}
}
