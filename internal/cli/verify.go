package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/citegate/citegate/internal/corpus"
	"github.com/citegate/citegate/internal/extract"
	"github.com/citegate/citegate/internal/llm"
	"github.com/citegate/citegate/internal/model"
	"github.com/citegate/citegate/internal/pipeline"
	"github.com/citegate/citegate/internal/worker"
)

var (
	corpusRoot  string
	mode        string
	threshold   float64
	scope       []string
	maxResults  int
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <draft-file>",
	Short: "Verify a drafted answer against a document corpus",
	Long: `Verify decomposes a drafted answer into factual claims, locates
evidence for each claim in the corpus, and rewrites the draft so that
every surviving claim carries an inline citation.

Pass "-" as the draft file to read the draft from stdin.

Example:
  citegate verify draft.txt --corpus ./docs
  citegate verify draft.txt --corpus ./docs --mode lenient --threshold 0.8
  citegate verify draft.txt --corpus ./docs --scope minutes.txt --json report.json
  citegate verify - --corpus ./docs --llm --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&corpusRoot, "corpus", "", "corpus root directory (required)")
	_ = verifyCmd.MarkFlagRequired("corpus")

	// Verification flags
	verifyCmd.Flags().StringVar(&mode, "mode", "strict", "verification mode (strict, lenient)")
	verifyCmd.Flags().Float64Var(&threshold, "threshold", 0.7, "confidence threshold for full verification")
	verifyCmd.Flags().StringSliceVar(&scope, "scope", nil, "restrict searches to these corpus file IDs")
	verifyCmd.Flags().IntVar(&maxResults, "max-results", 10, "max evidence spans per claim")
	verifyCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall verification timeout")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable corpus search memoization")

	// Output flags
	verifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON report path (optional)")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown report path (optional)")
	verifyCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	verifyCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM claim extraction and semantic scoring")
	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	draft, err := readDraft(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Corpus: %s\n", corpusRoot)
		fmt.Fprintf(os.Stderr, "Mode: %s  Threshold: %.2f\n", cfg.Verify.Mode, cfg.Verify.ConfidenceThreshold)
		fmt.Fprintf(os.Stderr, "Cache: %v\n\n", cfg.Cache.Enabled)
	}

	p, cleanup, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := p.Run(ctx, draft)
	if err != nil {
		return verificationError(err)
	}

	pipeline.RenderSummary(os.Stdout, report)
	return writeReports(report, cfg.Output.IncludeFooter)
}

// readDraft loads the draft from a file, or stdin for "-"
func readDraft(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read draft from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read draft: %w", err)
	}
	return string(data), nil
}

// buildConfig assembles run configuration from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Corpus.Root = corpusRoot
	cfg.Verify.ConfidenceThreshold = threshold
	cfg.Verify.Scope = scope
	cfg.Locator.MaxResults = maxResults
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.Output.JSONPath = outJSON
	cfg.Output.MarkdownPath = outMD

	switch model.Mode(mode) {
	case model.ModeStrict, model.ModeLenient:
		cfg.Verify.Mode = model.Mode(mode)
	default:
		return nil, fmt.Errorf("unknown mode %q (supported: strict, lenient)", mode)
	}

	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be in (0, 1], got %.2f", threshold)
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

// buildPipeline wires the corpus index, optional LLM provider, and logger
// into a ready pipeline. The returned cleanup flushes the logger.
func buildPipeline(cfg *model.Config) (*pipeline.Pipeline, func(), error) {
	index, err := newIndex(cfg)
	if err != nil {
		return nil, nil, err
	}

	deps := pipeline.Deps{Index: index}

	if cfg.LLM.Provider != "" {
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return nil, nil, err
		}
		if provider != nil {
			limiter := worker.NewKeyedLimiter(cfg.LLM.RequestsPerSecond, 1)
			deps.Extractor = extract.NewLLMExtractor(provider, limiter, cfg.Extractor, cfg.LLM.Model)
			deps.Embedder = provider
		}
	}

	cleanup := func() {}
	if verbose {
		logCfg := zap.NewProductionConfig()
		logCfg.OutputPaths = []string{"stderr"}
		logger, err := logCfg.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("build logger: %w", err)
		}
		deps.Logger = logger
		cleanup = func() { _ = logger.Sync() }
	}

	p, err := pipeline.New(cfg, deps)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return p, cleanup, nil
}

func newIndex(cfg *model.Config) (corpus.Index, error) {
	dir, err := corpus.NewDirIndex(cfg.Corpus.Root, cfg.Corpus.WindowSize)
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return dir, nil
	}
	return corpus.NewCachedIndex(dir, cfg.Cache.TTL), nil
}

// verificationError maps internal failures onto operator-facing messages
func verificationError(err error) error {
	switch {
	case model.IsCorpusUnavailable(err):
		return fmt.Errorf("verification could not be completed: corpus unavailable: %w", err)
	case errors.Is(err, model.ErrVerificationCancelled):
		return fmt.Errorf("verification could not be completed: cancelled or timed out")
	default:
		return fmt.Errorf("verification could not be completed: %w", err)
	}
}

func writeReports(report *model.VerificationReport, includeFooter bool) error {
	if outJSON != "" {
		data, err := pipeline.RenderJSON(report)
		if err != nil {
			return fmt.Errorf("render JSON report: %w", err)
		}
		if err := os.WriteFile(outJSON, data, 0o644); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "JSON report: %s\n", outJSON)
		}
	}

	if outMD != "" {
		md := pipeline.RenderMarkdown(report, includeFooter)
		if err := os.WriteFile(outMD, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write Markdown report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Markdown report: %s\n", outMD)
		}
	}

	return nil
}
