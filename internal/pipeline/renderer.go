package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/citegate/citegate/internal/model"
)

// RenderJSON serializes the full report
func RenderJSON(report *model.VerificationReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// RenderMarkdown renders the report as a human-readable document: the
// final answer first, then the per-claim verification table
func RenderMarkdown(report *model.VerificationReport, includeFooter bool) string {
	var b strings.Builder

	b.WriteString("# Verification Report\n\n")
	fmt.Fprintf(&b, "- **Mode:** %s\n", report.Mode)
	fmt.Fprintf(&b, "- **Confidence threshold:** %.2f\n", report.Threshold)
	fmt.Fprintf(&b, "- **Overall confidence:** %s\n", report.Result.Overall)
	fmt.Fprintf(&b, "- **Duration:** %dms\n\n", report.DurationMS)

	b.WriteString("## Final Answer\n\n")
	b.WriteString(report.Result.FinalAnswer)
	b.WriteString("\n")

	if len(report.Result.Records) > 0 {
		b.WriteString("\n## Claims\n\n")
		b.WriteString("| Claim | Status | Confidence | Evidence |\n")
		b.WriteString("|-------|--------|------------|----------|\n")
		for _, r := range report.Result.Records {
			citation := ""
			if best, ok := r.BestEvidence(); ok {
				citation = best.Citation()
			}
			fmt.Fprintf(&b, "| %s | %s | %.2f | %s |\n",
				escapeCell(r.Claim.Text), r.Status, r.Confidence, escapeCell(citation))
		}
	}

	if len(report.Result.ExcludedClaims) > 0 {
		b.WriteString("\n## Excluded Claims\n\n")
		for _, c := range report.Result.ExcludedClaims {
			fmt.Fprintf(&b, "- %s\n", c.Text)
		}
	}
	if len(report.Result.FlaggedClaims) > 0 {
		b.WriteString("\n## Flagged Claims\n\n")
		for _, c := range report.Result.FlaggedClaims {
			fmt.Fprintf(&b, "- %s\n", c.Text)
		}
	}

	if includeFooter {
		b.WriteString("\n---\n*Generated by citegate*\n")
	}
	return b.String()
}

// RenderSummary writes the short console summary
func RenderSummary(w io.Writer, report *model.VerificationReport) {
	fmt.Fprintf(w, "Verified %d claim(s) in %dms\n", len(report.Result.Records), report.DurationMS)
	fmt.Fprintf(w, "  excluded: %d  flagged: %d  overall: %s\n",
		len(report.Result.ExcludedClaims), len(report.Result.FlaggedClaims), report.Result.Overall)
	fmt.Fprintf(w, "\n%s\n", report.Result.FinalAnswer)
}

// escapeCell keeps claim text from breaking the markdown table
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
