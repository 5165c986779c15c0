package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/rexgen/internal/prop"
	"github.com/roach88/rexgen/internal/target"
)

// Scenario defines one end-to-end generation check.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Manifest is the CUE manifest directory.
	// Relative paths are resolved against the scenario file location.
	Manifest string `yaml:"manifest"`

	// Targets lists the targets to generate, as platform-config-compiler.
	Targets []string `yaml:"targets"`

	// Runs is how many times the generator runs over the same output tree.
	// Zero means one.
	Runs int `yaml:"runs,omitempty"`

	// Assertions validate the written files and run reports.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of the generated output.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Module, Target and Property select a value (property_equals, property_absent).
	Module   string `yaml:"module,omitempty"`
	Target   string `yaml:"target,omitempty"`
	Property string `yaml:"property,omitempty"`

	// Value is the expected property value (property_equals).
	Value any `yaml:"value,omitempty"`

	// Run is the 1-based run number (written_count).
	Run int `yaml:"run,omitempty"`

	// Count is the expected number of files (written_count, file_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertPropertyEquals = "property_equals"
	AssertPropertyAbsent = "property_absent"
	AssertWrittenCount   = "written_count"
	AssertFileCount      = "file_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Manifest != "" && !filepath.IsAbs(scenario.Manifest) {
		scenario.Manifest = filepath.Join(filepath.Dir(path), scenario.Manifest)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	if info, err := os.Stat(s.Manifest); err != nil || !info.IsDir() {
		return fmt.Errorf("manifest directory not found: %s", s.Manifest)
	}
	if len(s.Targets) == 0 {
		return fmt.Errorf("targets list is required and must be non-empty")
	}
	if _, err := target.ParseAll(s.Targets); err != nil {
		return err
	}
	if s.Runs < 0 {
		return fmt.Errorf("runs must not be negative, got %d", s.Runs)
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], s.runCount()); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion, runs int) error {
	switch a.Type {
	case AssertPropertyEquals, AssertPropertyAbsent:
		if a.Module == "" || a.Target == "" || a.Property == "" {
			return fmt.Errorf("assertion[%d]: %s requires module, target and property", index, a.Type)
		}
		if _, err := target.Parse(a.Target); err != nil {
			return fmt.Errorf("assertion[%d]: %w", index, err)
		}
		if a.Type == AssertPropertyEquals {
			if a.Value == nil {
				return fmt.Errorf("assertion[%d]: property_equals requires value", index)
			}
			if _, err := prop.FromGo(a.Value); err != nil {
				return fmt.Errorf("assertion[%d]: value: %w", index, err)
			}
		}
	case AssertWrittenCount:
		if a.Run < 1 || a.Run > runs {
			return fmt.Errorf("assertion[%d]: run must be between 1 and %d, got %d", index, runs, a.Run)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertion[%d]: count must not be negative", index)
		}
	case AssertFileCount:
		if a.Count < 0 {
			return fmt.Errorf("assertion[%d]: count must not be negative", index)
		}
	default:
		return fmt.Errorf("assertion[%d]: unknown type %q", index, a.Type)
	}
	return nil
}

// runCount returns the number of generator runs, at least one.
func (s *Scenario) runCount() int {
	return max(s.Runs, 1)
}
