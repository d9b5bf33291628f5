package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/lens/pkg/lens/internalerr"
)

// Config holds everything the engine reads from disk: the active reply
// language, value alias tables, dtype-inference thresholds and dataset limits.
type Config struct {
	Language  string    `yaml:"language"`
	Aliases   Aliases   `yaml:"aliases"`
	Inference Inference `yaml:"inference"`
	Limits    Limits    `yaml:"limits"`
}

// Aliases maps raw values to canonical display forms. Dimension tables
// shadow the generic table for values seen under that dimension key.
type Aliases struct {
	Generic    map[string]string            `yaml:"generic"`
	Dimensions map[string]map[string]string `yaml:"dimensions"`
}

// Inference holds the dtype-inference vote thresholds. These are heuristic
// constants, kept configurable rather than baked into the profiler.
type Inference struct {
	NumericThreshold float64 `yaml:"numeric_threshold"`
	DateThreshold    float64 `yaml:"date_threshold"`
	BoolThreshold    float64 `yaml:"bool_threshold"`
}

// Limits bounds how much of a dataset the provider keeps and how much of it
// the profiler reads on each agent call.
type Limits struct {
	MaxRows    int `yaml:"max_rows"`
	SampleRows int `yaml:"sample_rows"`
	MaxSamples int `yaml:"max_samples"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Language: "en",
		Aliases: Aliases{
			Generic: map[string]string{
				"credit card":      "Credit Card",
				"cod":              "COD",
				"n/a":              "N/A",
				"unknown":          "Unknown",
				"cash on delivery": "Cash on Delivery",
			},
			Dimensions: map[string]map[string]string{
				"payment_method": {
					"credit card":      "CC",
					"cc":               "CC",
					"cash on delivery": "COD",
					"cod":              "COD",
					"wallet":           "Wallet",
					"bank transfer":    "Bank Transfer",
				},
				"status": {
					"in transit": "In Transit",
					"delivered":  "Delivered",
					"returned":   "Returned",
				},
			},
		},
		Inference: Inference{
			NumericThreshold: 0.6,
			DateThreshold:    0.4,
			BoolThreshold:    0.6,
		},
		Limits: Limits{
			MaxRows:    25000,
			SampleRows: 400,
			MaxSamples: 12,
		},
	}
}

// Load reads a YAML config file and fills unset fields from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks threshold and limit ranges.
func (c *Config) Validate() error {
	for _, th := range []float64{c.Inference.NumericThreshold, c.Inference.DateThreshold, c.Inference.BoolThreshold} {
		if th <= 0 || th > 1 {
			return fmt.Errorf("%w: inference threshold %v out of (0,1]", internalerr.ErrInvalidConfig, th)
		}
	}
	if c.Limits.MaxRows <= 0 || c.Limits.SampleRows <= 0 || c.Limits.MaxSamples <= 0 {
		return fmt.Errorf("%w: limits must be positive", internalerr.ErrInvalidConfig)
	}
	if c.Language != "en" && c.Language != "ar" {
		return fmt.Errorf("%w: language must be en or ar", internalerr.ErrInvalidConfig)
	}
	return nil
}
