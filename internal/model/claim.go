package model

// Span marks a half-open [Start, End) byte range in the draft a claim was
// extracted from. Offsets point into an immutable copy of the draft, never
// a live reference.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Claim represents an atomic factual assertion extracted from a draft answer
type Claim struct {
	Text      string `json:"text"`                // The assertion in natural language
	Span      Span   `json:"span"`                // Where in the draft it came from
	Heuristic string `json:"heuristic,omitempty"` // Which extraction rule matched (e.g., "keyword:opposes")
	Sentence  int    `json:"sentence,omitempty"`  // Sentence index in the draft (0-based)
}
