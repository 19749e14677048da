package internal

import (
	"fmt"
	"os"

	"github.com/docsift/docsift/internal/config"
)

// LoadConfig reads the YAML config from the given path, or from the
// default location when the path is empty.
func LoadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// PrintConfigExample writes a complete YAML config example to stderr.
func PrintConfigExample() {
	homeDir, _ := os.UserHomeDir()
	configPath := fmt.Sprintf("%s/.docsift/config/docsift.yaml", homeDir)

	fmt.Fprintf(os.Stderr, `Create a configuration file at %s:

# Embedding service configuration (required for rank)
embedding:
  # Provider: "openai" | "gemini"
  provider: openai
  api_key: your-api-key
  model: text-embedding-3-small
  dimensions: 1536
  batch_size: 10

# Outline extraction thresholds (all optional; percentiles over the
# document's own font-size distribution)
# extraction:
#   title_percentile: 0.98
#   h1_percentile: 0.90
#   h2_percentile: 0.75
#   time_budget_seconds: 10

# Ranking
# ranking:
#   top_k_subsections: 5

Usage:
  1. Create the config file
  2. Extract outlines: docsift outline ./docs
  3. Rank sections: docsift rank -persona "..." -job "..." ./docs
`, configPath)
}
