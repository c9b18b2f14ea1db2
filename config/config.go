// Package config loads and validates solver run configuration from YAML,
// strictly rejecting unknown keys (so a typo in an operator name fails fast at
// load time rather than silently falling back to a default), the way the
// ambient stack this codebase is built from loads its own policy bundles.
package config

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level solver run configuration.
type Config struct {
	Seed        int64           `yaml:"seed"`
	Termination Termination     `yaml:"termination"`
	Ruin        OperatorWeights `yaml:"ruin"`
	Recreate    OperatorWeights `yaml:"recreate"`
	Population  Population      `yaml:"population"`
	LogEvery    int64           `yaml:"log_every"`
}

// Termination bounds how long a search runs. A zero value for a field means
// that criterion is disabled.
type Termination struct {
	MaxGenerations int64         `yaml:"max_generations"`
	MaxDuration    time.Duration `yaml:"max_duration"`
	CostTarget     *float64      `yaml:"cost_target"`
}

// OperatorWeights maps an operator name to its relative selection weight in a
// composite ruin or recreate method. Weights need not sum to 1; they are
// normalized at selection time.
type OperatorWeights map[string]float64

// Population controls the bounded solution population the search loop
// maintains across generations.
type Population struct {
	Variant string `yaml:"variant"` // "greedy", "elitism", or "rosomaxa"
	Size    int    `yaml:"size"`
}

// validRuinOperators, validRecreateOperators and validPopulationVariants name
// every operator/variant the search loop knows how to construct. Unexported to
// prevent external mutation.
var (
	validRuinOperators = map[string]bool{
		"random-job": true, "random-route": true, "adjusted-string-removal": true,
		"neighbour-removal": true, "worst-job": true, "close-route": true,
	}
	validRecreateOperators = map[string]bool{
		"best-insertion": true, "regret-insertion": true, "blinks": true,
	}
	validPopulationVariants = map[string]bool{
		"greedy": true, "elitism": true, "rosomaxa": true,
	}
)

// IsValidRuinOperator returns true if name is a recognized ruin operator.
func IsValidRuinOperator(name string) bool { return validRuinOperators[name] }

// IsValidRecreateOperator returns true if name is a recognized recreate
// operator.
func IsValidRecreateOperator(name string) bool { return validRecreateOperators[name] }

// IsValidPopulationVariant returns true if name is a recognized population
// variant.
func IsValidPopulationVariant(name string) bool { return validPopulationVariants[name] }

// Load reads and strictly parses a YAML configuration file, then validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading solver config: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing solver config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks operator names, weights and termination bounds.
func (c *Config) Validate() error {
	for name, weight := range c.Ruin {
		if !validRuinOperators[name] {
			return fmt.Errorf("unknown ruin operator %q; valid options: %s", name, validNames(validRuinOperators))
		}
		if err := validateWeight(name, weight); err != nil {
			return err
		}
	}
	for name, weight := range c.Recreate {
		if !validRecreateOperators[name] {
			return fmt.Errorf("unknown recreate operator %q; valid options: %s", name, validNames(validRecreateOperators))
		}
		if err := validateWeight(name, weight); err != nil {
			return err
		}
	}
	if c.Population.Variant != "" && !validPopulationVariants[c.Population.Variant] {
		return fmt.Errorf("unknown population variant %q; valid options: %s", c.Population.Variant, validNames(validPopulationVariants))
	}
	if c.Population.Size < 0 {
		return fmt.Errorf("population size must be non-negative, got %d", c.Population.Size)
	}
	if c.Termination.MaxGenerations < 0 {
		return fmt.Errorf("max_generations must be non-negative, got %d", c.Termination.MaxGenerations)
	}
	if c.Termination.MaxDuration < 0 {
		return fmt.Errorf("max_duration must be non-negative, got %s", c.Termination.MaxDuration)
	}
	if c.Termination.CostTarget != nil {
		if math.IsNaN(*c.Termination.CostTarget) || math.IsInf(*c.Termination.CostTarget, 0) {
			return fmt.Errorf("cost_target must be a finite number, got %f", *c.Termination.CostTarget)
		}
	}
	return nil
}

func validateWeight(name string, weight float64) error {
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("weight for %q must be a non-negative finite number, got %f", name, weight)
	}
	return nil
}

func validNames(m map[string]bool) string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
