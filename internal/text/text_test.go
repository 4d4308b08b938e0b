package text

import "testing"

func TestTokenize_DropsStopwordsAndStems(t *testing.T) {
	tokens := Tokenize("Qualcomm opposes the single-satellite positioning due to latency.")

	want := map[string]bool{
		"qualcomm":  true,
		"oppos":     true,
		"single":    true,
		"satellite": true,
		"position":  true,
		"latency":   true,
	}

	if len(tokens) != len(want) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for _, tok := range tokens {
		if !want[tok] {
			t.Errorf("Unexpected token %q", tok)
		}
	}
}

func TestTokenize_InflectionsCollide(t *testing.T) {
	a := Tokenize("opposes")
	b := Tokenize("opposed")
	if len(a) != 1 || len(b) != 1 || a[0] != b[0] {
		t.Errorf("Expected opposes/opposed to stem equal, got %v / %v", a, b)
	}
}

func TestOverlap_FullAndPartial(t *testing.T) {
	full := Overlap("satellite positioning latency", "The satellite positioning latency was discussed")
	if full != 1.0 {
		t.Errorf("Expected full overlap 1.0, got %f", full)
	}

	partial := Overlap("satellite positioning latency budget", "satellite positioning")
	if partial <= 0.4 || partial >= 0.6 {
		t.Errorf("Expected overlap near 0.5, got %f", partial)
	}
}

func TestOverlap_EmptyAnchor(t *testing.T) {
	if got := Overlap("the of and", "anything at all"); got != 0 {
		t.Errorf("Expected 0 for stopword-only anchor, got %f", got)
	}
}

func TestRawTokens_KeepsNegators(t *testing.T) {
	raw := RawTokens("This is not feasible.")
	found := false
	for _, tok := range raw {
		if tok == "not" {
			found = true
		}
	}
	if !found {
		t.Error("Expected raw tokens to keep 'not'")
	}
}
