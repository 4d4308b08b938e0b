package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/citegate/citegate/internal/model"
	"github.com/citegate/citegate/internal/text"
	"golang.org/x/net/html"
)

// DirIndex is a line-addressable index over a document folder. File IDs are
// slash-separated paths relative to the root, so citations never expose
// absolute paths. The folder is expected to hold text renditions produced by
// the ingestion subsystem; IDs keep whatever names the ingester wrote
// (a converted "R1-2509228.docx" keeps that name). HTML files are reduced to
// their visible text at load time; everything else is read as plain text.
type DirIndex struct {
	root   string
	window int
	docs   map[string]*document
	ids    []string
}

type document struct {
	lines  []string
	tokens []map[string]struct{} // per-line content tokens, precomputed
}

// NewDirIndex loads every document under root into memory. An unreadable
// root or file is a CorpusUnavailableError: the caller must be able to tell
// "could not open the corpus" from "corpus has no matching documents".
func NewDirIndex(root string, windowSize int) (*DirIndex, error) {
	if windowSize <= 0 {
		windowSize = 3
	}

	idx := &DirIndex{
		root:   root,
		window: windowSize,
		docs:   make(map[string]*document),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		id := filepath.ToSlash(rel)

		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var lines []string
		switch strings.ToLower(filepath.Ext(path)) {
		case ".html", ".htm":
			lines, err = htmlLines(string(raw))
			if err != nil {
				return fmt.Errorf("parse %s: %w", id, err)
			}
		default:
			lines = splitLines(string(raw))
		}

		doc := &document{lines: lines, tokens: make([]map[string]struct{}, len(lines))}
		for i, line := range lines {
			doc.tokens[i] = text.TokenSet(line)
		}
		idx.docs[id] = doc
		idx.ids = append(idx.ids, id)
		return nil
	})
	if err != nil {
		return nil, &model.CorpusUnavailableError{Op: "open", Err: err}
	}

	sort.Strings(idx.ids)
	return idx, nil
}

// Files lists all file IDs, sorted
func (idx *DirIndex) Files() []string {
	out := make([]string, len(idx.ids))
	copy(out, idx.ids)
	return out
}

// ReadLines returns the literal text of the inclusive 1-based line range,
// lines joined by newlines
func (idx *DirIndex) ReadLines(_ context.Context, fileID string, lines model.LineRange) (string, error) {
	doc, ok := idx.docs[fileID]
	if !ok {
		return "", fmt.Errorf("unknown corpus file %q", fileID)
	}
	if lines.Start < 1 || lines.End < lines.Start || lines.End > len(doc.lines) {
		return "", fmt.Errorf("line range %d-%d out of bounds for %s (%d lines)",
			lines.Start, lines.End, fileID, len(doc.lines))
	}
	return strings.Join(doc.lines[lines.Start-1:lines.End], "\n"), nil
}

// Search runs the coarse lexical pass: sliding line windows are scored by
// how much of the query's content vocabulary they cover. Ordering is fully
// deterministic so verification runs are reproducible.
func (idx *DirIndex) Search(ctx context.Context, query string, scope []string, maxResults int) ([]model.EvidenceSpan, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	queryTokens := text.TokenSet(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	ids := idx.ids
	if len(scope) > 0 {
		ids = idx.scopedIDs(scope)
	}

	var spans []model.EvidenceSpan
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc := idx.docs[id]
		spans = append(spans, idx.searchDoc(id, doc, queryTokens)...)
	}

	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.FileID != b.FileID {
			return a.FileID < b.FileID
		}
		if a.Lines.Start != b.Lines.Start {
			return a.Lines.Start < b.Lines.Start
		}
		return a.Lines.End < b.Lines.End
	})

	if len(spans) > maxResults {
		spans = spans[:maxResults]
	}
	return spans, nil
}

func (idx *DirIndex) scopedIDs(scope []string) []string {
	want := make(map[string]bool, len(scope))
	for _, id := range scope {
		want[id] = true
	}
	var out []string
	for _, id := range idx.ids {
		if want[id] {
			out = append(out, id)
		}
	}
	return out
}

func (idx *DirIndex) searchDoc(id string, doc *document, queryTokens map[string]struct{}) []model.EvidenceSpan {
	var spans []model.EvidenceSpan

	for start := 0; start < len(doc.lines); start++ {
		end := start + idx.window
		if end > len(doc.lines) {
			end = len(doc.lines)
		}

		matched := make(map[string]struct{})
		for i := start; i < end; i++ {
			for tok := range doc.tokens[i] {
				if _, ok := queryTokens[tok]; ok {
					matched[tok] = struct{}{}
				}
			}
		}
		if len(matched) == 0 {
			continue
		}

		// shrink the window to the matching lines so citations stay tight
		first, last := -1, -1
		for i := start; i < end; i++ {
			for tok := range doc.tokens[i] {
				if _, ok := queryTokens[tok]; ok {
					if first == -1 {
						first = i
					}
					last = i
					break
				}
			}
		}
		if first == -1 {
			continue
		}

		quote := strings.Join(doc.lines[first:last+1], "\n")
		if strings.TrimSpace(quote) == "" {
			continue
		}

		spans = append(spans, model.EvidenceSpan{
			FileID:     id,
			Lines:      model.LineRange{Start: first + 1, End: last + 1},
			Quote:      quote,
			Relation:   model.RelationNeutral,
			MatchScore: float64(len(matched)) / float64(len(queryTokens)),
		})
	}

	return dedupeSpans(spans)
}

// dedupeSpans drops windows that collapsed onto identical line ranges
func dedupeSpans(spans []model.EvidenceSpan) []model.EvidenceSpan {
	seen := make(map[model.LineRange]bool, len(spans))
	out := spans[:0]
	for _, s := range spans {
		if seen[s.Lines] {
			continue
		}
		seen[s.Lines] = true
		out = append(out, s)
	}
	return out
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(strings.TrimRight(content, "\n"), "\n")
}

// htmlLines reduces an HTML document to its visible text, one line per block
// element, skipping scripts and styles
func htmlLines(content string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	var lines []string
	var current strings.Builder

	flush := func() {
		line := strings.TrimSpace(current.String())
		if line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "p", "div", "li", "tr", "br", "h1", "h2", "h3", "h4", "h5", "h6":
				flush()
			}
		}

		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				if current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(t)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
				flush()
			}
		}
	}

	walk(doc)
	flush()

	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines, nil
}
