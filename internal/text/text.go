// Package text provides the shared tokenization helpers behind lexical
// matching: corpus search, evidence scoring, and relation classification all
// compare token sets produced here.
package text

import (
	"strings"
	"unicode"
)

// stopwords are dropped from content tokens. Negators ("not", "never") are
// deliberately kept: relation classification needs them visible.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "to": {}, "in": {}, "on": {},
	"at": {}, "for": {}, "and": {}, "or": {}, "but": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "being": {}, "it": {},
	"its": {}, "this": {}, "that": {}, "these": {}, "those": {}, "with": {},
	"as": {}, "by": {}, "from": {}, "their": {}, "there": {}, "they": {},
	"than": {}, "then": {}, "such": {}, "also": {}, "into": {}, "over": {},
	"about": {}, "after": {}, "before": {}, "between": {}, "during": {},
	"through": {}, "per": {}, "via": {}, "due": {}, "will": {}, "would": {},
	"can": {}, "could": {}, "should": {}, "shall": {}, "may": {},
	"might": {}, "must": {}, "has": {}, "have": {}, "had": {}, "which": {},
	"we": {}, "our": {}, "us": {},
}

// RawTokens lowercases s and splits it into runs of letters and digits, with
// no filtering. Used where every word matters (negation cues).
func RawTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Tokenize returns the stemmed content tokens of s: raw tokens minus
// stopwords and single characters, with light suffix stripping so that
// "opposes"/"opposed" and "positioning"/"position" compare equal.
func Tokenize(s string) []string {
	raw := RawTokens(s)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < 2 {
			continue
		}
		if _, skip := stopwords[tok]; skip {
			continue
		}
		out = append(out, stem(tok))
	}
	return out
}

// TokenSet returns the distinct content tokens of s
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(s) {
		set[tok] = struct{}{}
	}
	return set
}

// Overlap returns the share of a's distinct content tokens that also appear
// in b (overlap coefficient anchored on a). Returns 0 when a has no content
// tokens.
func Overlap(a, b string) float64 {
	aset := TokenSet(a)
	if len(aset) == 0 {
		return 0
	}
	bset := TokenSet(b)
	matched := 0
	for tok := range aset {
		if _, ok := bset[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(aset))
}

// stem strips a single common suffix from longer tokens. Deliberately crude:
// it only needs to make close inflections collide, not be linguistically
// correct.
func stem(tok string) string {
	for _, suf := range []string{"ing", "ed", "es", "s"} {
		if len(tok) > len(suf)+3 && strings.HasSuffix(tok, suf) {
			return strings.TrimSuffix(tok, suf)
		}
	}
	return tok
}
