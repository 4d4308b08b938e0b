package model

import "time"

// Config carries all settings for a verification run. It is passed
// explicitly to each run, never read from ambient state, so runs stay
// independently testable and safely concurrent.
type Config struct {
	Verify    VerifyConfig    `yaml:"verify"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Locator   LocatorConfig   `yaml:"locator"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Cache     CacheConfig     `yaml:"cache"`
	LLM       LLMConfig       `yaml:"llm"`
	Output    OutputConfig    `yaml:"output"`
}

// VerifyConfig controls run-level verification policy
type VerifyConfig struct {
	Mode                Mode          `yaml:"mode"`
	ConfidenceThreshold float64       `yaml:"confidence_threshold"`
	Scope               []string      `yaml:"scope,omitempty"` // restrict searches to these file IDs
	MaxConcurrent       int           `yaml:"max_concurrent"`  // upper bound on parallel evidence searches
	ClaimTimeout        time.Duration `yaml:"claim_timeout"`   // per-claim evidence search budget
}

// ExtractorConfig controls claim extraction
type ExtractorConfig struct {
	MaxDraftBytes int           `yaml:"max_draft_bytes"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"` // base delay, doubled per attempt
}

// LocatorConfig controls evidence location
type LocatorConfig struct {
	MaxResults             int     `yaml:"max_results"`
	ShortlistSize          int     `yaml:"shortlist_size"`          // coarse-pass candidate count
	RelevanceFloor         float64 `yaml:"relevance_floor"`         // lexical overlap below this is NEUTRAL
	ContradictionThreshold float64 `yaml:"contradiction_threshold"` // min score for CONTRADICTED
	SemanticWeight         float64 `yaml:"semantic_weight"`         // embedding share of match_score
}

// CorpusConfig locates the document corpus
type CorpusConfig struct {
	Root       string `yaml:"root"`
	WindowSize int    `yaml:"window_size"` // lines per searchable window
}

// CacheConfig controls corpus-side memoization
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// LLMConfig configures the optional LLM provider used for claim extraction
// and semantic match scoring
type LLMConfig struct {
	Provider          string  `yaml:"provider"` // "openai", "ollama", or "" (disabled)
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"api_key,omitempty"`
	BaseURL           string  `yaml:"base_url,omitempty"`
	Timeout           int     `yaml:"timeout"` // seconds
	MaxTokens         int     `yaml:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose"`
	IncludeFooter bool   `yaml:"include_footer"`
	JSONPath      string `yaml:"json_path,omitempty"`
	MarkdownPath  string `yaml:"markdown_path,omitempty"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Verify: VerifyConfig{
			Mode:                ModeStrict,
			ConfidenceThreshold: 0.7,
			MaxConcurrent:       8,
			ClaimTimeout:        10 * time.Second,
		},
		Extractor: ExtractorConfig{
			MaxDraftBytes: 64 * 1024,
			MaxRetries:    3,
			RetryBackoff:  time.Second,
		},
		Locator: LocatorConfig{
			MaxResults:             10,
			ShortlistSize:          50,
			RelevanceFloor:         0.2,
			ContradictionThreshold: 0.5,
			SemanticWeight:         0.4,
		},
		Corpus: CorpusConfig{
			WindowSize: 3,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:          "",
			Timeout:           30,
			MaxTokens:         1000,
			RequestsPerSecond: 2,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
