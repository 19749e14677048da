package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction,omitempty"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Ranking    RankingConfig    `yaml:"ranking,omitempty"`
	Database   DatabaseConfig   `yaml:"database,omitempty"`
}

// ExtractionConfig holds outline-extraction thresholds.
// All font thresholds are percentiles over the document's own font-size
// distribution, never absolute point sizes.
type ExtractionConfig struct {
	TitlePercentile   float64 `yaml:"title_percentile,omitempty"`         // Rank a block must exceed to be the Title
	TitleFallbackSize float64 `yaml:"title_fallback_font_size,omitempty"` // Absolute point size for the Title fallback rule
	H1Percentile      float64 `yaml:"h1_percentile,omitempty"`            // Rank for H1 (combined with boldness)
	H2Percentile      float64 `yaml:"h2_percentile,omitempty"`            // Rank for H2 (combined with boldness)
	ShortTextMaxChars int     `yaml:"short_text_max_chars,omitempty"`     // Max chars for the short-bold H3 rule
	MinGapAbove       float64 `yaml:"min_gap_above,omitempty"`            // Min vertical gap (points) for the H3 rule
	MarginBand        float64 `yaml:"margin_band,omitempty"`              // Header/footer band as a fraction of page height
	MinFontSize       float64 `yaml:"min_font_size,omitempty"`            // Fonts below this are excluded from statistics
	MergePageWindow   int     `yaml:"merge_page_window,omitempty"`        // Page distance for duplicate-heading merge
	MaxWorkers        int     `yaml:"max_workers,omitempty"`              // Parallel per-page feature workers
	TimeBudgetSeconds int     `yaml:"time_budget_seconds,omitempty"`      // Wall-clock budget per document (0 = none)
}

// TimeBudget returns the per-document extraction budget as a duration.
func (c ExtractionConfig) TimeBudget() time.Duration {
	return time.Duration(c.TimeBudgetSeconds) * time.Second
}

// EmbeddingConfig holds embedding service configuration
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "openai" | "gemini"

	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Model    string `yaml:"model,omitempty"`

	Dimensions    int `yaml:"dimensions,omitempty"`      // Vector dimension reported by the provider
	BatchSize     int `yaml:"batch_size,omitempty"`      // Batch size for embedding requests
	MaxInputChars int `yaml:"max_input_chars,omitempty"` // Inputs are truncated to this many runes
	MaxWorkers    int `yaml:"max_workers,omitempty"`     // Concurrent embedding requests
}

// RankingConfig holds persona-ranking configuration
type RankingConfig struct {
	TopKSubsections        int  `yaml:"top_k_subsections,omitempty"`        // Sections refined by subsection analysis
	MaxPassagesPerSection  int  `yaml:"max_passages_per_section,omitempty"` // Cap on passages emitted per section
	DisableLexicalFallback bool `yaml:"disable_lexical_fallback,omitempty"` // Fail instead of falling back to keyword scoring
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	// Path to the SQLite database file holding run history and the
	// embedding cache. If empty, uses ~/.docsift/data/docsift.db.
	Path string `yaml:"path,omitempty"`
}

// Load loads configuration from the default config file
// Default location: ~/.docsift/config/docsift.yaml
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".docsift", "config", "docsift.yaml")
	return LoadFromFile(configPath)
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			homeDir, _ := os.UserHomeDir()
			defaultPath := filepath.Join(homeDir, ".docsift", "config", "docsift.yaml")
			return nil, &ConfigNotFoundError{
				RequestedPath: path,
				DefaultPath:   defaultPath,
			}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied and no
// embedding credentials. Used by commands that can run without a config
// file (outline extraction needs no embedding service).
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ConfigNotFoundError is returned when config file is not found
type ConfigNotFoundError struct {
	RequestedPath string
	DefaultPath   string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found at: %s\n\nDefault location: %s\n\nYou can:\n"+
		"  1. Create the config file at the default location\n"+
		"  2. Specify a custom path with -config flag",
		e.RequestedPath, e.DefaultPath)
}

// IsConfigNotFound checks if error is config not found
func IsConfigNotFound(err error) bool {
	_, ok := err.(*ConfigNotFoundError)
	return ok
}

// expandPath expands ~ and $HOME to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "$HOME/") || path == "$HOME" {
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			var err error
			homeDir, err = os.UserHomeDir()
			if err != nil {
				return path
			}
		}
		if path == "$HOME" {
			return homeDir
		}
		return filepath.Join(homeDir, path[6:])
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return homeDir
		}
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// ApplyDefaults sets default values for missing configuration
func (c *Config) ApplyDefaults() {
	if c.Extraction.TitlePercentile == 0 {
		c.Extraction.TitlePercentile = 0.98
	}
	if c.Extraction.TitleFallbackSize == 0 {
		c.Extraction.TitleFallbackSize = 16.0
	}
	if c.Extraction.H1Percentile == 0 {
		c.Extraction.H1Percentile = 0.90
	}
	if c.Extraction.H2Percentile == 0 {
		c.Extraction.H2Percentile = 0.75
	}
	if c.Extraction.ShortTextMaxChars == 0 {
		c.Extraction.ShortTextMaxChars = 60
	}
	if c.Extraction.MinGapAbove == 0 {
		c.Extraction.MinGapAbove = 6.0
	}
	if c.Extraction.MarginBand == 0 {
		c.Extraction.MarginBand = 0.05
	}
	if c.Extraction.MinFontSize == 0 {
		c.Extraction.MinFontSize = 8.0
	}
	if c.Extraction.MergePageWindow == 0 {
		c.Extraction.MergePageWindow = 1
	}
	if c.Extraction.MaxWorkers == 0 {
		c.Extraction.MaxWorkers = 4
	}
	if c.Extraction.TimeBudgetSeconds == 0 {
		c.Extraction.TimeBudgetSeconds = 10
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		switch c.Embedding.Provider {
		case "gemini":
			c.Embedding.Model = "text-embedding-004"
		default:
			c.Embedding.Model = "text-embedding-3-small"
		}
	}
	if c.Embedding.Dimensions == 0 {
		switch c.Embedding.Provider {
		case "gemini":
			c.Embedding.Dimensions = 768
		default:
			c.Embedding.Dimensions = 1536
		}
	}
	if c.Embedding.BatchSize == 0 {
		c.Embedding.BatchSize = 10
	}
	if c.Embedding.MaxInputChars == 0 {
		c.Embedding.MaxInputChars = 2000
	}
	if c.Embedding.MaxWorkers == 0 {
		c.Embedding.MaxWorkers = 4
	}

	if c.Ranking.TopKSubsections == 0 {
		c.Ranking.TopKSubsections = 5
	}
	if c.Ranking.MaxPassagesPerSection == 0 {
		c.Ranking.MaxPassagesPerSection = 10
	}

	if c.Database.Path != "" {
		c.Database.Path = expandPath(c.Database.Path)
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Embedding.Provider {
	case "openai", "gemini":
		// API key presence is checked when the client is built; outline
		// extraction never touches the embedding service and ranking can
		// fall back to lexical scoring.
	default:
		return fmt.Errorf("unsupported embedding provider: %s", c.Embedding.Provider)
	}

	if c.Embedding.BatchSize <= 0 || c.Embedding.BatchSize > 100 {
		return fmt.Errorf("batch_size must be between 1 and 100, got: %d", c.Embedding.BatchSize)
	}

	if c.Extraction.TitlePercentile <= 0 || c.Extraction.TitlePercentile > 1 {
		return fmt.Errorf("title_percentile must be in (0, 1], got: %v", c.Extraction.TitlePercentile)
	}
	if c.Extraction.H1Percentile <= 0 || c.Extraction.H1Percentile > 1 {
		return fmt.Errorf("h1_percentile must be in (0, 1], got: %v", c.Extraction.H1Percentile)
	}
	if c.Extraction.H2Percentile <= 0 || c.Extraction.H2Percentile > 1 {
		return fmt.Errorf("h2_percentile must be in (0, 1], got: %v", c.Extraction.H2Percentile)
	}
	if c.Extraction.H2Percentile > c.Extraction.H1Percentile {
		return fmt.Errorf("h2_percentile (%v) must not exceed h1_percentile (%v)",
			c.Extraction.H2Percentile, c.Extraction.H1Percentile)
	}
	if c.Extraction.MarginBand < 0 || c.Extraction.MarginBand >= 0.5 {
		return fmt.Errorf("margin_band must be in [0, 0.5), got: %v", c.Extraction.MarginBand)
	}

	return nil
}

// Save saves the configuration to the default location
func (c *Config) Save() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".docsift", "config")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "docsift.yaml")
	return c.SaveToFile(configPath)
}

// SaveToFile saves the configuration to a specific file
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

const defaultConfigTemplate = `# docsift configuration
#
# Copy and edit this file for your environment.
# Default location: $HOME/.docsift/config/docsift.yaml

# Outline extraction thresholds. Font thresholds are percentiles over the
# document's own font-size distribution.
extraction:
  title_percentile: 0.98
  title_fallback_font_size: 16.0
  h1_percentile: 0.90
  h2_percentile: 0.75
  short_text_max_chars: 60
  min_gap_above: 6.0
  margin_band: 0.05
  min_font_size: 8.0
  time_budget_seconds: 10

# Embedding service used by the rank command.
embedding:
  # Provider: "openai" or "gemini"
  provider: openai
  api_key: your-api-key
  model: text-embedding-3-small
  dimensions: 1536
  batch_size: 10
  max_input_chars: 2000

  # Gemini configuration (alternative)
  # provider: gemini
  # api_key: your-gemini-api-key
  # model: text-embedding-004
  # dimensions: 768

ranking:
  top_k_subsections: 5
`

// WriteDefaultTemplate creates a default configuration file if it does not exist.
// It returns true if a file was created, false if it already existed.
func WriteDefaultTemplate(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return false, fmt.Errorf("failed to write config template: %w", err)
	}

	return true, nil
}
