package harness

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/roach88/rexgen/internal/module"
	"github.com/roach88/rexgen/internal/prop"
	"github.com/roach88/rexgen/internal/target"
)

// AssertionError describes a failed assertion.
type AssertionError struct {
	Type    string
	Message string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s assertion failed: %s", e.Type, e.Message)
}

// EvaluateAssertions checks every assertion and returns the failure
// messages. An empty slice means all passed.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertPropertyEquals:
			err = assertPropertyEquals(result, a)
		case AssertPropertyAbsent:
			err = assertPropertyAbsent(result, a)
		case AssertWrittenCount:
			err = assertWrittenCount(result, a)
		case AssertFileCount:
			err = assertFileCount(result, a)
		default:
			err = &AssertionError{Type: a.Type, Message: "unknown assertion type"}
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("assertion[%d]: %v", i, err))
		}
	}
	return failures
}

// descriptorProperties decodes the file of a.Module for a.Target.
func descriptorProperties(result *Result, a Assertion) (map[string]any, error) {
	t, err := target.Parse(a.Target)
	if err != nil {
		return nil, &AssertionError{Type: a.Type, Message: err.Error()}
	}
	path := filepath.ToSlash(module.FilePath("", t, a.Module))
	data, ok := result.Files[path]
	if !ok {
		return nil, &AssertionError{Type: a.Type, Message: fmt.Sprintf("no file %s", path)}
	}
	var props map[string]any
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, &AssertionError{Type: a.Type, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	return props, nil
}

func assertPropertyEquals(result *Result, a Assertion) error {
	props, err := descriptorProperties(result, a)
	if err != nil {
		return err
	}
	key := prop.NormalizeKey(a.Property)
	actual, ok := props[key]
	if !ok {
		return &AssertionError{Type: a.Type, Message: fmt.Sprintf("%s [%s] has no property %q", a.Module, a.Target, key)}
	}
	if !valuesEqual(actual, a.Value) {
		return &AssertionError{Type: a.Type, Message: fmt.Sprintf("%s [%s] %s = %v, want %v", a.Module, a.Target, key, actual, a.Value)}
	}
	return nil
}

func assertPropertyAbsent(result *Result, a Assertion) error {
	props, err := descriptorProperties(result, a)
	if err != nil {
		return err
	}
	key := prop.NormalizeKey(a.Property)
	if v, ok := props[key]; ok {
		return &AssertionError{Type: a.Type, Message: fmt.Sprintf("%s [%s] has %s = %v", a.Module, a.Target, key, v)}
	}
	return nil
}

func assertWrittenCount(result *Result, a Assertion) error {
	if a.Run < 1 || a.Run > len(result.Reports) {
		return &AssertionError{Type: a.Type, Message: fmt.Sprintf("run %d out of range (have %d)", a.Run, len(result.Reports))}
	}
	if got := result.Reports[a.Run-1].Written; got != a.Count {
		return &AssertionError{Type: a.Type, Message: fmt.Sprintf("run %d wrote %d file(s), want %d", a.Run, got, a.Count)}
	}
	return nil
}

func assertFileCount(result *Result, a Assertion) error {
	if got := len(result.Files); got != a.Count {
		return &AssertionError{Type: a.Type, Message: fmt.Sprintf("output holds %d file(s), want %d", got, a.Count)}
	}
	return nil
}

// valuesEqual compares a decoded JSON value with a YAML value through
// their JSON encodings, so 8 (YAML int) equals 8 (JSON number). The
// expected value must itself be a valid property value.
func valuesEqual(actual, expected any) bool {
	a, err := json.Marshal(actual)
	if err != nil {
		return false
	}
	want, err := prop.FromGo(expected)
	if err != nil {
		return false
	}
	e, err := json.Marshal(want)
	if err != nil {
		return false
	}
	return string(a) == string(e)
}
