package harness

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result for golden comparison: one header line per
// run, then every output file in path order.
func Snapshot(result *Result) []byte {
	var b bytes.Buffer
	for i, r := range result.Reports {
		fmt.Fprintf(&b, "# run %d: written %d, unchanged %d\n", i+1, r.Written, r.Unchanged)
	}
	for _, path := range slices.Sorted(maps.Keys(result.Files)) {
		fmt.Fprintf(&b, "== %s\n", path)
		b.Write(result.Files[path])
	}
	return b.Bytes()
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(result))
}
