package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a billaudit run.
type Config struct {
	PricingPath  string // CSV or Parquet price table
	PricingDSN   string // optional Postgres source for the price table
	LogFormat    string // "text" or "json"
	LogLevel     string // minimum level, empty means zerolog's default
	TextPath     string // audit: extracted-text input file
	ListenAddr   string // serve: bind address
	OCRURL       string // serve: remote text-extraction endpoint
	RetrieverURL string // retrieval backend endpoint
	RetrieveTopK int    // passages per retrieval
	LLMURL       string // chat-completions endpoint
	LLMAPIKey    string
	LLMModel     string
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Retrieval struct {
		URL  string `yaml:"url"`
		TopK int    `yaml:"top_k"`
	} `yaml:"retrieval"`
	LLM struct {
		URL   string `yaml:"url"`
		Model string `yaml:"model"`
	} `yaml:"llm"`
	OCRURL string `yaml:"ocr_url"`
}

// LoadFromFile reads a YAML config file and merges its values into
// Config. Values already set (by flags) win over file values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if c.RetrieverURL == "" {
		c.RetrieverURL = yc.Retrieval.URL
	}
	if c.RetrieveTopK == 0 {
		c.RetrieveTopK = yc.Retrieval.TopK
	}
	if c.LLMURL == "" {
		c.LLMURL = yc.LLM.URL
	}
	if c.LLMModel == "" {
		c.LLMModel = yc.LLM.Model
	}
	if c.OCRURL == "" {
		c.OCRURL = yc.OCRURL
	}
	return c.validate()
}

func (c *Config) validate() error {
	if c.RetrieveTopK < 0 {
		return fmt.Errorf("retrieval top_k must not be negative, got %d", c.RetrieveTopK)
	}
	return nil
}

// ValidateForAudit checks the fields the audit command needs.
func (c *Config) ValidateForAudit() error {
	if c.TextPath == "" {
		return fmt.Errorf("--text is required")
	}
	if _, err := os.Stat(c.TextPath); err != nil {
		return fmt.Errorf("text file not accessible: %w", err)
	}
	return c.validate()
}

// ValidateForServe checks the fields the serve command needs.
func (c *Config) ValidateForServe() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("--listen is required")
	}
	return c.validate()
}
