package extract

import "strings"

// sentence is a draft segment with its byte offsets
type sentence struct {
	text  string
	start int
	end   int
}

// splitSentences splits a draft into sentences, tracking byte offsets.
// Newlines always terminate a segment so headers and bullets stand alone;
// '.', '!' and '?' terminate when followed by whitespace or end of input.
// Abbreviations like "e.g." will over-split; the claim filters downstream
// tolerate that.
func splitSentences(draft string) []sentence {
	var out []sentence
	start := 0

	flush := func(end int) {
		if end <= start {
			return
		}
		seg := draft[start:end]
		trimmed := strings.TrimSpace(seg)
		if trimmed != "" {
			lead := strings.Index(seg, trimmed)
			s := start + lead
			out = append(out, sentence{text: trimmed, start: s, end: s + len(trimmed)})
		}
		start = end
	}

	for i := 0; i < len(draft); i++ {
		switch draft[i] {
		case '\n':
			flush(i)
			start = i + 1
		case '.', '!', '?':
			if i+1 >= len(draft) || draft[i+1] == ' ' || draft[i+1] == '\t' || draft[i+1] == '\n' {
				flush(i + 1)
			}
		}
	}
	flush(len(draft))

	return out
}
