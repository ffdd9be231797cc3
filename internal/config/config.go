// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Config is the application configuration loadable from a JSON file.
// All fields are optional; missing values use defaults or must be provided
// via CLI flags.
type Config struct {
	// Inputs
	JobFile string `json:"job,omitempty"`     // Path to job posting text file
	JobURL  string `json:"job_url,omitempty"` // URL to fetch job posting from

	// Analysis
	ContentTimeoutMS  int64    `json:"content_timeout_ms,omitempty"`  // Content branch timeout
	DeliveryTimeoutMS int64    `json:"delivery_timeout_ms,omitempty"` // Delivery branch timeout
	ContentWeight     float64  `json:"content_weight,omitempty"`      // Weight of content in the combined score
	DeliveryWeight    float64  `json:"delivery_weight,omitempty"`     // Weight of delivery in the combined score
	CrossInsightRules []string `json:"cross_insight_rules,omitempty"` // nil enables all rules

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Use headless browser for SPA job boards
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	ListenAddr  string `json:"listen_addr,omitempty"`  // Server listen address
}

// Defaults used when neither the config file nor flags set a value.
const (
	DefaultContentTimeoutMS  = 5000
	DefaultDeliveryTimeoutMS = 5000
	DefaultContentWeight     = 0.6
	DefaultDeliveryWeight    = 0.4
	DefaultListenAddr        = ":8080"
)

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration values. Required fields are enforced
// later by CLI flag validation, after merging.
func (c *Config) Validate() error {
	if c.JobFile != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	if c.ContentTimeoutMS < 0 {
		return fmt.Errorf("config error: 'content_timeout_ms' must be non-negative")
	}
	if c.DeliveryTimeoutMS < 0 {
		return fmt.Errorf("config error: 'delivery_timeout_ms' must be non-negative")
	}

	if c.ContentWeight < 0 || c.DeliveryWeight < 0 {
		return fmt.Errorf("config error: score weights must be non-negative")
	}
	// Both unset means defaults apply; a half-set or mismatched pair is a
	// configuration mistake.
	if c.ContentWeight != 0 || c.DeliveryWeight != 0 {
		if math.Abs(c.ContentWeight+c.DeliveryWeight-1.0) > 1e-9 {
			return fmt.Errorf("config error: 'content_weight' and 'delivery_weight' must sum to 1")
		}
	}

	if c.JobFile != "" {
		if _, err := os.Stat(c.JobFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.JobFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults, and hard defaults applied where both are unset.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.JobFile == "" {
		result.JobFile = defaults.JobFile
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.ListenAddr == "" {
		result.ListenAddr = DefaultListenAddr
	}

	if result.ContentTimeoutMS == 0 {
		result.ContentTimeoutMS = defaults.ContentTimeoutMS
	}
	if result.ContentTimeoutMS == 0 {
		result.ContentTimeoutMS = DefaultContentTimeoutMS
	}
	if result.DeliveryTimeoutMS == 0 {
		result.DeliveryTimeoutMS = defaults.DeliveryTimeoutMS
	}
	if result.DeliveryTimeoutMS == 0 {
		result.DeliveryTimeoutMS = DefaultDeliveryTimeoutMS
	}

	if result.ContentWeight == 0 && result.DeliveryWeight == 0 {
		result.ContentWeight = defaults.ContentWeight
		result.DeliveryWeight = defaults.DeliveryWeight
	}
	if result.ContentWeight == 0 && result.DeliveryWeight == 0 {
		result.ContentWeight = DefaultContentWeight
		result.DeliveryWeight = DefaultDeliveryWeight
	}

	if result.CrossInsightRules == nil {
		result.CrossInsightRules = defaults.CrossInsightRules
	}

	return result
}
