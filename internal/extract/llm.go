package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/citegate/citegate/internal/llm"
	"github.com/citegate/citegate/internal/model"
	"github.com/citegate/citegate/internal/worker"
)

// extractSleepFunc is the sleep function used between retries (injectable for tests)
var extractSleepFunc = time.Sleep

const extractSystemPrompt = `You decompose a drafted answer into atomic factual claims.

RULES:
1. One independently verifiable predicate per claim. Split compound statements.
2. Each claim MUST be copied verbatim from the draft - never paraphrase.
3. Skip questions, headers, transitions, hedges, and anything with no factual content.
4. Output one claim per line. No numbering, no bullets, no commentary.
5. If the draft contains no factual claims, output nothing.`

// LLMExtractor decomposes drafts with an LLM call. The model is constrained
// to return claims as verbatim draft substrings; anything it invents cannot
// be mapped back to a source span and is discarded, so hallucinated claim
// text never enters the pipeline. Transient provider failures are retried
// with exponential backoff before propagating ExtractionFailedError.
type LLMExtractor struct {
	provider      llm.Provider
	limiter       *worker.KeyedLimiter
	model         string
	maxDraftBytes int
	maxRetries    int
	backoff       time.Duration
}

// NewLLMExtractor creates an LLM-backed extractor. The limiter may be nil.
func NewLLMExtractor(provider llm.Provider, limiter *worker.KeyedLimiter, cfg model.ExtractorConfig, modelName string) *LLMExtractor {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &LLMExtractor{
		provider:      provider,
		limiter:       limiter,
		model:         modelName,
		maxDraftBytes: cfg.MaxDraftBytes,
		maxRetries:    maxRetries,
		backoff:       backoff,
	}
}

// Extract returns the factual claims of the draft in draft order
func (e *LLMExtractor) Extract(ctx context.Context, draft string) ([]model.Claim, error) {
	if err := checkDraft(draft, e.maxDraftBytes); err != nil {
		return nil, err
	}

	resp, err := e.completeWithRetry(ctx, draft)
	if err != nil {
		return nil, err
	}

	return e.mapClaims(draft, resp.Text), nil
}

func (e *LLMExtractor) completeWithRetry(ctx context.Context, draft string) (*llm.CompletionResponse, error) {
	req := llm.CompletionRequest{
		System: extractSystemPrompt,
		Prompt: draft,
		Model:  e.model,
	}

	var lastErr error
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx, e.provider.Name()); err != nil {
				return nil, err
			}
		}

		resp, err := e.provider.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// caller cancellation is not retryable
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt < e.maxRetries-1 {
			extractSleepFunc(e.backoff * time.Duration(1<<uint(attempt)))
		}
	}

	return nil, &model.ExtractionFailedError{Attempts: e.maxRetries, Err: lastErr}
}

// mapClaims locates each returned line verbatim in the draft. A cursor
// keeps duplicate claim texts mapped to successive occurrences.
func (e *LLMExtractor) mapClaims(draft, output string) []model.Claim {
	sentences := splitSentences(draft)
	cursor := 0
	var claims []model.Claim

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		pos := strings.Index(draft[cursor:], line)
		if pos >= 0 {
			pos += cursor
		} else {
			pos = strings.Index(draft, line)
		}
		if pos < 0 {
			// not a verbatim substring: discard
			continue
		}

		span := model.Span{Start: pos, End: pos + len(line)}
		claims = append(claims, model.Claim{
			Text:      line,
			Span:      span,
			Heuristic: fmt.Sprintf("llm:%s", e.provider.Name()),
			Sentence:  sentenceIndexAt(sentences, pos),
		})
		if end := span.End; end > cursor {
			cursor = end
		}
	}

	claims = dedupeClaims(claims)
	sort.SliceStable(claims, func(i, j int) bool {
		return claims[i].Span.Start < claims[j].Span.Start
	})
	return claims
}

func sentenceIndexAt(sentences []sentence, offset int) int {
	for i, s := range sentences {
		if offset >= s.start && offset < s.end {
			return i
		}
	}
	return 0
}
