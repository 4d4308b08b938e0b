package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/citegate/citegate/internal/pipeline"
	"github.com/citegate/citegate/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple drafts from a list file in parallel",
	Long: `Batch verifies multiple drafts concurrently:
- Read draft file paths from the list file (one per line, # comments allowed)
- Verify drafts in parallel with a configurable worker count
- All drafts share one corpus index and its cache
- Generate an individual report for each draft

Example:
  citegate batch drafts.txt --corpus ./docs
  citegate batch drafts.txt --corpus ./docs --concurrency 10 --output-dir ./reports
  citegate batch drafts.txt --corpus ./docs --mode lenient --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&corpusRoot, "corpus", "", "corpus root directory (required)")
	_ = batchCmd.MarkFlagRequired("corpus")

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./citegate-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Verification flags shared with verify
	batchCmd.Flags().StringVar(&mode, "mode", "strict", "verification mode (strict, lenient)")
	batchCmd.Flags().Float64Var(&threshold, "threshold", 0.7, "confidence threshold for full verification")
	batchCmd.Flags().StringSliceVar(&scope, "scope", nil, "restrict searches to these corpus file IDs")
	batchCmd.Flags().IntVar(&maxResults, "max-results", 10, "max evidence spans per claim")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable corpus search memoization")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM claim extraction and semantic scoring")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	listFile := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Batch verification\n")
	fmt.Fprintf(os.Stderr, "  List file:  %s\n", listFile)
	fmt.Fprintf(os.Stderr, "  Corpus:     %s\n", corpusRoot)
	fmt.Fprintf(os.Stderr, "  Workers:    %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir: %s\n\n", outputDir)

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, cleanup, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(p, concurrency)
	results, err := processor.ProcessFile(ctx, listFile)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", res.Path, res.Err)
			continue
		}

		name := strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path))
		jsonPath := filepath.Join(outputDir, name+".json")
		data, err := pipeline.RenderJSON(res.Report)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: render report: %v\n", res.Path, err)
			continue
		}
		if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: write report: %v\n", res.Path, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "OK   %s  (overall: %s)  -> %s\n",
			res.Path, res.Report.Result.Overall, jsonPath)
	}

	fmt.Fprintf(os.Stderr, "\nProcessed %d draft(s), %d failed\n", len(results), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d drafts failed verification", failed, len(results))
	}
	return nil
}
