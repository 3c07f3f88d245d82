// Package config loads errlens.yaml configuration with .env and environment
// overrides.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the tool configuration.
type Config struct {
	Analyze struct {
		// Supertypes overrides the recognized error supertype set.
		Supertypes []string `yaml:"supertypes"`
		// Exclude holds path globs removed before analysis.
		Exclude []string `yaml:"exclude"`
		// Jobs caps concurrent per-file workers; 0 means GOMAXPROCS.
		Jobs int `yaml:"jobs"`
		// MaxFileSize skips files larger than this many bytes.
		MaxFileSize int `yaml:"max_file_size"`
	} `yaml:"analyze"`
	AI struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"ai"`
	GitHub struct {
		// Repo is the owner/name slug used for mention lookups.
		Repo    string `yaml:"repo"`
		APIBase string `yaml:"api_base"`
		Token   string `yaml:"token"`
	} `yaml:"github"`
}

const defaultMaxFileSize = 1_000_000 // 1 MB

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.Analyze.MaxFileSize = defaultMaxFileSize
	cfg.AI.Provider = "gemini"
	cfg.AI.Model = "gemini-2.0-flash"
	return cfg
}

// Load reads the config file at path, falling back to defaults when the file
// is missing. Override order: defaults, then the yaml file, then .env, then
// real environment variables (ERRLENS_API_KEY, ERRLENS_AI_PROVIDER,
// ERRLENS_GITHUB_TOKEN).
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if cfg.Analyze.MaxFileSize <= 0 {
		cfg.Analyze.MaxFileSize = defaultMaxFileSize
	}

	// 3. Override with environment variables if present
	if apiKey := os.Getenv("ERRLENS_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("ERRLENS_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if token := os.Getenv("ERRLENS_GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}

	return cfg, nil
}
