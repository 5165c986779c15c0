package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/rexgen/internal/generate"
)

func testResult() *Result {
	r := NewResult()
	r.Reports = []*generate.Report{{Written: 2}, {Written: 0, Unchanged: 2}}
	r.Files["msvc/debug/rex_engine/module.json"] = []byte(`{
  "dependencies": ["rex_std"],
  "maxthreads": 8,
  "name": "rex_engine",
  "tracking": true
}
`)
	r.Files["msvc/debug/rex_std/module.json"] = []byte("{\n  \"name\": \"rex_std\"\n}\n")
	return r
}

func TestAssertPropertyEquals(t *testing.T) {
	r := testResult()
	base := Assertion{Type: AssertPropertyEquals, Module: "rex_engine", Target: "win64-debug-msvc"}

	tests := []struct {
		name     string
		property string
		value    any
		wantErr  string
	}{
		{"int", "MaxThreads", 8, ""},
		{"bool", "Tracking", true, ""},
		{"list", "dependencies", []any{"rex_std"}, ""},
		{"string", "NAME", "rex_engine", ""},
		{"mismatch", "maxthreads", 4, "maxthreads = 8, want 4"},
		{"type mismatch", "maxthreads", "8", "want 8"},
		{"missing", "loglevel", "x", `has no property "loglevel"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := base
			a.Property = tt.property
			a.Value = tt.value
			err := assertPropertyEquals(r, a)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestAssertPropertyEquals_MissingFile(t *testing.T) {
	err := assertPropertyEquals(testResult(), Assertion{
		Type: AssertPropertyEquals, Module: "rex_engine", Target: "linux-debug-clang", Property: "name", Value: "x",
	})
	assert.ErrorContains(t, err, "no file clang/debug/rex_engine/module.json")
}

func TestAssertPropertyAbsent(t *testing.T) {
	r := testResult()
	a := Assertion{Type: AssertPropertyAbsent, Module: "rex_std", Target: "win64-debug-msvc", Property: "MaxThreads"}
	assert.NoError(t, assertPropertyAbsent(r, a))

	a.Property = "Name"
	assert.ErrorContains(t, assertPropertyAbsent(r, a), "has name = rex_std")
}

func TestAssertWrittenCount(t *testing.T) {
	r := testResult()
	assert.NoError(t, assertWrittenCount(r, Assertion{Type: AssertWrittenCount, Run: 1, Count: 2}))
	assert.NoError(t, assertWrittenCount(r, Assertion{Type: AssertWrittenCount, Run: 2, Count: 0}))
	assert.ErrorContains(t, assertWrittenCount(r, Assertion{Type: AssertWrittenCount, Run: 2, Count: 1}), "run 2 wrote 0 file(s), want 1")
	assert.ErrorContains(t, assertWrittenCount(r, Assertion{Type: AssertWrittenCount, Run: 3}), "out of range")
}

func TestAssertFileCount(t *testing.T) {
	r := testResult()
	assert.NoError(t, assertFileCount(r, Assertion{Type: AssertFileCount, Count: 2}))
	assert.Error(t, assertFileCount(r, Assertion{Type: AssertFileCount, Count: 3}))
}

func TestEvaluateAssertions(t *testing.T) {
	failures := EvaluateAssertions(testResult(), []Assertion{
		{Type: AssertFileCount, Count: 2},
		{Type: AssertFileCount, Count: 9},
		{Type: "final_state"},
	})
	assert.Len(t, failures, 2)
	assert.Contains(t, failures[0], "assertion[1]")
	assert.Contains(t, failures[1], `assertion[2]: final_state assertion failed: unknown assertion type`)
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, valuesEqual(float64(8), 8))
	assert.True(t, valuesEqual([]any{"a"}, []string{"a"}))
	assert.False(t, valuesEqual(true, "true"))
	assert.False(t, valuesEqual(nil, false))
}
