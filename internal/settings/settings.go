// Package settings loads the generation settings file (rexgen.yml or
// rexgen.toml).
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/roach88/rexgen/internal/fsutil"
	"github.com/roach88/rexgen/internal/relaunch"
	"github.com/roach88/rexgen/internal/target"
)

// DefaultFile is read when no settings path is given.
const DefaultFile = "rexgen.yml"

// Settings configure a generation run. Command-line flags override them.
type Settings struct {
	// IDE selects the project flavor and the -IDE option of regenerate commands.
	IDE string `yaml:"ide" toml:"ide"`

	// OutputDir is the root module.json files are written under.
	OutputDir string `yaml:"output_dir" toml:"output_dir"`

	// IntermediateDir holds generator state such as the journal.
	IntermediateDir string `yaml:"intermediate_dir" toml:"intermediate_dir"`

	// Targets lists targets as "platform-config-compiler".
	Targets []string `yaml:"targets" toml:"targets"`

	// Journal is the SQLite history path. Empty means
	// <IntermediateDir>/journal.db; "off" disables the journal.
	Journal string `yaml:"journal" toml:"journal"`

	// Jobs bounds concurrent artifact writes.
	Jobs int `yaml:"jobs" toml:"jobs"`

	// Launcher and Script form the regenerate command, e.g. "py _rex.py".
	Launcher string `yaml:"launcher" toml:"launcher"`
	Script   string `yaml:"script" toml:"script"`
}

// JournalOff disables the generation journal.
const JournalOff = "off"

// Defaults returns the settings used when no file exists.
func Defaults() *Settings {
	defaultTargets := target.Default()
	targets := make([]string, len(defaultTargets))
	for i, t := range defaultTargets {
		targets[i] = t.String()
	}

	return &Settings{
		IDE:             string(relaunch.IDEVisualStudio19),
		OutputDir:       "build",
		IntermediateDir: ".rexgen",
		Targets:         targets,
		Jobs:            4,
		Launcher:        "py",
		Script:          "_rex.py",
	}
}

// Find returns the DefaultFile nearest to start, searching start and its
// ancestors. It returns "" when no directory holds one.
func Find(start string) (string, error) {
	dir, err := fsutil.FindInParent(start, DefaultFile)
	if errors.Is(err, fsutil.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultFile), nil
}

// Load reads settings from path. If path is empty, it uses the
// DefaultFile found by Find from the working directory, or Defaults when
// there is none. An explicit path must exist. Files ending in .toml are
// parsed as TOML, anything else as YAML. Unknown keys are rejected in both.
func Load(path string) (*Settings, error) {
	if path == "" {
		found, err := Find(".")
		if err != nil {
			return nil, fmt.Errorf("failed to find settings file: %w", err)
		}
		if found == "" {
			return Defaults(), nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	s := Defaults()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("failed to parse TOML %s: %w", path, err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true) // Reject unknown fields
		if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}

// Validate checks that every field holds a usable value.
func (s *Settings) Validate() error {
	if _, err := relaunch.ParseIDE(s.IDE); err != nil {
		return err
	}
	if len(s.Targets) == 0 {
		return fmt.Errorf("targets list is required and must be non-empty")
	}
	if _, err := target.ParseAll(s.Targets); err != nil {
		return err
	}
	if s.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if s.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", s.Jobs)
	}
	return nil
}

// ParsedTargets returns Targets parsed. Call Validate first.
func (s *Settings) ParsedTargets() ([]target.Target, error) {
	return target.ParseAll(s.Targets)
}

// ParsedIDE returns IDE parsed. Call Validate first.
func (s *Settings) ParsedIDE() (relaunch.IDE, error) {
	return relaunch.ParseIDE(s.IDE)
}

// JournalPath resolves where the journal lives; "" when disabled.
func (s *Settings) JournalPath() string {
	switch s.Journal {
	case JournalOff:
		return ""
	case "":
		return filepath.Join(s.IntermediateDir, "journal.db")
	default:
		return s.Journal
	}
}
