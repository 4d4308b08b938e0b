package model

import (
	"fmt"
	"sort"
	"strings"
)

// FormatCitation renders a set of line numbers in one file as a citation:
// [file:N] for a single line, [file:N-M] for a contiguous run, and
// [file:N,M,K] for discontinuous lines. Lines are deduplicated and sorted;
// runs of consecutive lines collapse to ranges.
func FormatCitation(fileID string, lines []int) string {
	if len(lines) == 0 {
		return ""
	}

	uniq := make([]int, 0, len(lines))
	seen := make(map[int]bool, len(lines))
	for _, n := range lines {
		if !seen[n] {
			seen[n] = true
			uniq = append(uniq, n)
		}
	}
	sort.Ints(uniq)

	var parts []string
	start, prev := uniq[0], uniq[0]
	flush := func() {
		if start == prev {
			parts = append(parts, fmt.Sprintf("%d", start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, n := range uniq[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		flush()
		start, prev = n, n
	}
	flush()

	return fmt.Sprintf("[%s:%s]", fileID, strings.Join(parts, ","))
}
