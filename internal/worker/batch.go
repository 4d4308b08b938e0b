package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/citegate/citegate/internal/model"
)

// Runner verifies one draft. Implemented by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, draft string) (*model.VerificationReport, error)
}

// VerifyJob verifies the draft stored at Path
type VerifyJob struct {
	Path   string
	Runner Runner
}

// Execute reads the draft file and runs verification
func (j *VerifyJob) Execute(ctx context.Context) Result {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return &VerifyResult{Path: j.Path, Err: fmt.Errorf("read draft: %w", err)}
	}

	report, err := j.Runner.Run(ctx, string(data))
	if err != nil {
		return &VerifyResult{Path: j.Path, Err: err}
	}
	return &VerifyResult{Path: j.Path, Report: report}
}

// VerifyResult is the outcome of one batch verification job
type VerifyResult struct {
	Path   string
	Report *model.VerificationReport
	Err    error
}

// GetError returns the job error, if any
func (r *VerifyResult) GetError() error {
	return r.Err
}

// BatchProcessor verifies multiple drafts concurrently. Each draft gets its
// own independent verification run; runs never share claims or records.
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessPaths verifies the drafts at the given paths concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*VerifyResult {
	if len(paths) == 0 {
		return []*VerifyResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-stop:
		}
	}()

	for _, path := range paths {
		pool.Submit(&VerifyJob{Path: path, Runner: b.runner})
	}

	results := pool.Wait()

	out := make([]*VerifyResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*VerifyResult))
	}
	return out
}

// ProcessFile reads draft paths from a list file (one per line, blank lines
// and #-comments skipped) and verifies them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*VerifyResult, error) {
	f, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open list file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read list file: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}
