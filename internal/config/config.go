package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level ledgerdesk.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Matching MatchingConfig `yaml:"matching"`
	Limits   LimitsConfig   `yaml:"limits"`
	Git      GitConfig      `yaml:"git"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// MatchingConfig controls the statement matching engine.
type MatchingConfig struct {
	Threshold         float64 `yaml:"threshold"`
	AmountWeight      float64 `yaml:"amount_weight"`
	DateWeight        float64 `yaml:"date_weight"`
	DescriptionWeight float64 `yaml:"description_weight"`
}

// LimitsConfig caps bulk and expansion sizes.
type LimitsConfig struct {
	MaxBatchSize    int `yaml:"max_batch_size"`
	MaxInstallments int `yaml:"max_installments"`
}

// GitConfig controls git snapshots of the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a ledgerdesk.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			Currency: "BRL",
		},
		Matching: MatchingConfig{
			Threshold:         0.7,
			AmountWeight:      0.4,
			DateWeight:        0.3,
			DescriptionWeight: 0.3,
		},
		Limits: LimitsConfig{
			MaxBatchSize:    100,
			MaxInstallments: 12,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Ledgerdesk",
			AuthorEmail: "ledger@ledgerdesk.dev",
		},
	}
}
