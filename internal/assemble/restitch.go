package assemble

import (
	"regexp"
	"strings"
)

// ellipsisPlaceholder shields literal "..." from punctuation repair
const ellipsisPlaceholder = "\x00ellipsis\x00"

var (
	spaceRuns          = regexp.MustCompile(`[ \t]{2,}`)
	spaceBeforePunct   = regexp.MustCompile(`[ \t]+([.,!?;:])`)
	doubledTerminators = regexp.MustCompile(`([.!?]) *\.`)
	danglingConnective = regexp.MustCompile(`(?i)\s+(and|but|or|however|moreover|furthermore|therefore),?\s*([.!?])`)
	blankLines         = regexp.MustCompile(`\n{3,}`)
)

// restitch repairs the seams left by claim removal: doubled spaces, stray
// punctuation, and connectives whose continuation was removed
func restitch(s string) string {
	s = strings.ReplaceAll(s, "...", ellipsisPlaceholder)

	s = spaceRuns.ReplaceAllString(s, " ")
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	for {
		repaired := doubledTerminators.ReplaceAllString(s, "$1")
		if repaired == s {
			break
		}
		s = repaired
	}
	s = danglingConnective.ReplaceAllString(s, "$2")
	s = blankLines.ReplaceAllString(s, "\n\n")
	s = strings.ReplaceAll(s, " \n", "\n")

	s = strings.ReplaceAll(s, ellipsisPlaceholder, "...")
	return strings.TrimSpace(s)
}
