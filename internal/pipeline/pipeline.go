// Package pipeline wires extraction, evidence location, scoring, and
// assembly into one verification run. Per-claim evidence searches fan out
// concurrently; scoring and assembly are deterministic, so concurrency
// never changes the answer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/citegate/citegate/internal/assemble"
	"github.com/citegate/citegate/internal/corpus"
	"github.com/citegate/citegate/internal/extract"
	"github.com/citegate/citegate/internal/locate"
	"github.com/citegate/citegate/internal/model"
	"github.com/citegate/citegate/internal/score"
)

// Deps are the injectable collaborators of a pipeline. Index is required;
// Extractor defaults to the heuristic extractor, Embedder and Logger may
// be nil.
type Deps struct {
	Index     corpus.Index
	Extractor extract.Extractor
	Embedder  locate.Embedder
	Logger    *zap.Logger
}

// Pipeline runs end-to-end verification of drafted answers
type Pipeline struct {
	cfg       *model.Config
	extractor extract.Extractor
	locator   *locate.Locator
	scorer    *score.Scorer
	assembler *assemble.Assembler
	audit     *Auditor
}

// New creates a pipeline from config and dependencies
func New(cfg *model.Config, deps Deps) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if deps.Index == nil {
		return nil, errors.New("pipeline requires a corpus index")
	}

	extractor := deps.Extractor
	if extractor == nil {
		extractor = extract.NewHeuristicExtractor(cfg.Extractor.MaxDraftBytes)
	}

	return &Pipeline{
		cfg:       cfg,
		extractor: extractor,
		locator:   locate.NewLocator(deps.Index, deps.Embedder, cfg.Locator),
		scorer:    score.NewScorer(cfg.Locator.ContradictionThreshold),
		assembler: assemble.NewAssembler(cfg.Verify.Mode),
		audit:     NewAuditor(deps.Logger),
	}, nil
}

// VerifyAndAssemble verifies a draft and returns the assembled result.
// The draft is never modified; the result references it only through
// claim spans.
func (p *Pipeline) VerifyAndAssemble(ctx context.Context, draft string) (*model.VerificationResult, error) {
	claims, err := p.extractor.Extract(ctx, draft)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrVerificationCancelled, err)
		}
		return nil, err
	}

	if len(claims) == 0 {
		result := p.assembler.Assemble(draft, nil)
		return &result, nil
	}

	records, err := p.verifyClaims(ctx, claims)
	if err != nil {
		return nil, err
	}

	result := p.assembler.Assemble(draft, records)
	return &result, nil
}

// verifyClaims fans the evidence search out across claims, bounded by the
// configured concurrency limit. A claim that exceeds its search budget
// degrades to NO_EVIDENCE; corpus failures and caller cancellation abort
// the whole run.
func (p *Pipeline) verifyClaims(ctx context.Context, claims []model.Claim) ([]model.VerificationRecord, error) {
	limit := p.cfg.Verify.MaxConcurrent
	if limit <= 0 {
		limit = 8
	}
	if limit > len(claims) {
		limit = len(claims)
	}

	records := make([]model.VerificationRecord, len(claims))
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var fatal error

	for i, claim := range claims {
		wg.Add(1)
		go func(i int, claim model.Claim) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			record, err := p.verifyOne(ctx, claim)
			if err != nil {
				mu.Lock()
				if fatal == nil {
					fatal = err
				}
				mu.Unlock()
				return
			}
			records[i] = record
		}(i, claim)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrVerificationCancelled, ctx.Err())
	}
	if fatal != nil {
		return nil, fatal
	}
	return records, nil
}

func (p *Pipeline) verifyOne(ctx context.Context, claim model.Claim) (model.VerificationRecord, error) {
	budget := p.cfg.Verify.ClaimTimeout
	if budget <= 0 {
		budget = 10 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	start := time.Now()
	evidence, err := p.locator.Locate(cctx, claim, p.cfg.Verify.Scope)
	if err != nil {
		// a blown per-claim budget fails closed while the run continues
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			p.audit.ClaimTimedOut(claim, budget)
			record := p.scorer.Score(claim, nil, p.cfg.Verify.ConfidenceThreshold)
			return record, nil
		}
		return model.VerificationRecord{}, err
	}

	record := p.scorer.Score(claim, evidence, p.cfg.Verify.ConfidenceThreshold)
	p.audit.ClaimVerified(record, time.Since(start))
	return record, nil
}

// Run verifies a draft and wraps the result in a full report
func (p *Pipeline) Run(ctx context.Context, draft string) (*model.VerificationReport, error) {
	started := time.Now()

	result, err := p.VerifyAndAssemble(ctx, draft)
	if err != nil {
		p.audit.RunFailed(err, time.Since(started))
		return nil, err
	}

	report := &model.VerificationReport{
		Draft:      draft,
		Mode:       p.cfg.Verify.Mode,
		Threshold:  p.cfg.Verify.ConfidenceThreshold,
		CorpusRoot: p.cfg.Corpus.Root,
		Scope:      p.cfg.Verify.Scope,
		StartedAt:  started,
		DurationMS: time.Since(started).Milliseconds(),
		Result:     *result,
	}
	p.audit.RunCompleted(report)
	return report, nil
}
