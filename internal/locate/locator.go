// Package locate finds evidence for claims in an indexed corpus. A coarse
// index search shortlists candidate windows, then each candidate's text is
// re-read from the corpus and rescored against the claim before relations
// are assigned.
package locate

import (
	"context"
	"sort"

	"github.com/citegate/citegate/internal/corpus"
	"github.com/citegate/citegate/internal/model"
	"github.com/citegate/citegate/internal/text"
)

// Embedder produces embedding vectors for semantic match scoring. The
// pipeline degrades to pure lexical scoring when none is configured.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Locator runs the two-pass evidence search
type Locator struct {
	index    corpus.Index
	embedder Embedder
	cfg      model.LocatorConfig
}

// NewLocator creates a locator over the given index. embedder may be nil.
func NewLocator(index corpus.Index, embedder Embedder, cfg model.LocatorConfig) *Locator {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.ShortlistSize < cfg.MaxResults {
		cfg.ShortlistSize = 5 * cfg.MaxResults
	}
	if cfg.ContradictionThreshold <= 0 {
		cfg.ContradictionThreshold = 0.5
	}

	return &Locator{index: index, embedder: embedder, cfg: cfg}
}

// Locate returns the evidence spans for a claim, strongest first. Every
// returned quote is re-read from the corpus, so quotes are verbatim file
// content by construction. An empty result is a valid outcome, not an
// error; errors are reserved for corpus and context failures.
func (l *Locator) Locate(ctx context.Context, claim model.Claim, scope []string) ([]model.EvidenceSpan, error) {
	candidates, err := l.index.Search(ctx, claim.Text, scope, l.cfg.ShortlistSize)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	spans := make([]model.EvidenceSpan, 0, len(candidates))
	for _, cand := range candidates {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		quote, err := l.index.ReadLines(ctx, cand.FileID, cand.Lines)
		if err != nil {
			return nil, err
		}

		overlap := text.Overlap(claim.Text, quote)
		spans = append(spans, model.EvidenceSpan{
			FileID:     cand.FileID,
			Lines:      cand.Lines,
			Quote:      quote,
			Relation:   classifyRelation(claim.Text, quote, overlap, l.cfg.RelevanceFloor),
			MatchScore: overlap,
		})
	}

	if err := l.blendSemantic(ctx, claim.Text, spans); err != nil {
		return nil, err
	}

	sortSpans(spans)
	if len(spans) > l.cfg.MaxResults {
		spans = spans[:l.cfg.MaxResults]
	}
	return spans, nil
}

// blendSemantic mixes embedding similarity into the lexical match scores.
// Embedder failures other than context cancellation leave the lexical
// scores untouched.
func (l *Locator) blendSemantic(ctx context.Context, claimText string, spans []model.EvidenceSpan) error {
	if l.embedder == nil || l.cfg.SemanticWeight <= 0 || len(spans) == 0 {
		return nil
	}

	texts := make([]string, 0, len(spans)+1)
	texts = append(texts, claimText)
	for _, s := range spans {
		texts = append(texts, s.Quote)
	}

	vecs, err := l.embedder.Embed(ctx, texts)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	}
	if len(vecs) != len(spans)+1 {
		return nil
	}

	w := l.cfg.SemanticWeight
	for i := range spans {
		sem := cosine(vecs[0], vecs[i+1])
		spans[i].MatchScore = (1-w)*spans[i].MatchScore + w*sem
	}
	return nil
}

// sortSpans orders spans by score descending with a full deterministic
// tie-break, so identical inputs always rank identically
func sortSpans(spans []model.EvidenceSpan) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].MatchScore != spans[j].MatchScore {
			return spans[i].MatchScore > spans[j].MatchScore
		}
		if spans[i].FileID != spans[j].FileID {
			return spans[i].FileID < spans[j].FileID
		}
		if spans[i].Lines.Start != spans[j].Lines.Start {
			return spans[i].Lines.Start < spans[j].Lines.Start
		}
		return spans[i].Lines.End < spans[j].Lines.End
	})
}
