package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
	require.NoError(t, err)
	return s
}

func TestScenarios(t *testing.T) {
	for _, name := range []string{"engine_overrides", "linux_clang"} {
		t.Run(name, func(t *testing.T) {
			result, err := Run(loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario should pass: errors=%v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_RunIDsAreFixed(t *testing.T) {
	result, err := Run(loadTestScenario(t, "engine_overrides"))
	require.NoError(t, err)
	require.Len(t, result.Reports, 2)
	assert.Equal(t, "run-1", result.Reports[0].RunID)
	assert.Equal(t, "run-2", result.Reports[1].RunID)
}

func TestRun_Deterministic(t *testing.T) {
	s := loadTestScenario(t, "engine_overrides")

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, Snapshot(first), Snapshot(second))
}

func TestRun_FreshDirectoryPerRun(t *testing.T) {
	s := loadTestScenario(t, "linux_clang")

	for range 2 {
		result, err := Run(s)
		require.NoError(t, err)
		require.Len(t, result.Reports, 1)
		// A shared journal or output tree would make the second call skip writes.
		assert.Equal(t, 2, result.Reports[0].Written)
	}
}

func TestRun_FailingAssertionsReported(t *testing.T) {
	s := loadTestScenario(t, "linux_clang")
	s.Assertions = []Assertion{
		{Type: AssertFileCount, Count: 5},
		{Type: AssertPropertyEquals, Module: "rex_std", Target: "linux-release-clang", Property: "DataPath", Value: "wrong"},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "output holds 2 file(s), want 5")
	assert.Contains(t, result.Errors[1], "datapath = data/rex_std, want wrong")
}

func TestRun_ManifestErrors(t *testing.T) {
	s := loadTestScenario(t, "linux_clang")
	s.Manifest = t.TempDir()

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load manifest")
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)

	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
