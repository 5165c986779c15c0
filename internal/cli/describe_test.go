package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeDefaultTarget(t *testing.T) {
	manifestDir := writeTestManifest(t, testManifest)

	out, err := execRoot(t, "describe", manifestDir, "rex_engine")
	require.NoError(t, err)
	assert.Equal(t, `{
  "datapath": "data/rex_engine",
  "dependencies": [
    "rex_std"
  ],
  "enablememorytracking": true,
  "name": "rex_engine"
}
`, out)
}

func TestDescribeExplicitTarget(t *testing.T) {
	manifestDir := writeTestManifest(t, testManifest)

	out, err := execRoot(t, "describe", manifestDir, "rex_engine", "-t", "win64-release-msvc")
	require.NoError(t, err)
	assert.NotContains(t, out, "enablememorytracking")
	assert.Contains(t, out, `"name": "rex_engine"`)
}

func TestDescribeJSON(t *testing.T) {
	manifestDir := writeTestManifest(t, testManifest)

	out, err := execRoot(t, "--format", "json", "describe", manifestDir, "rex_engine")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   Description `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "rex_engine", resp.Data.Module)
	assert.Equal(t, "win64-debug-msvc", resp.Data.Target)
	assert.Equal(t, []string{"win64-debug-msvc"}, resp.Data.Overrides)
	assert.Equal(t, filepath.Join("build", "msvc", "debug", "rex_engine", "module.json"), resp.Data.Path)

	var props map[string]any
	require.NoError(t, json.Unmarshal(resp.Data.Descriptor, &props))
	assert.Equal(t, true, props["enablememorytracking"])
}

func TestDescribeErrors(t *testing.T) {
	manifestDir := writeTestManifest(t, testManifest)

	t.Run("unknown module", func(t *testing.T) {
		out, err := execRoot(t, "describe", manifestDir, "rex_missing")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, `Error [E005]: module "rex_missing" not declared`)
	})

	t.Run("bad target", func(t *testing.T) {
		out, err := execRoot(t, "describe", manifestDir, "rex_engine", "-t", "mac-debug-msvc")
		require.Error(t, err)
		assert.Contains(t, out, ErrCodeInvalidFlag)
	})

	t.Run("wrong arg count", func(t *testing.T) {
		_, err := execRoot(t, "describe", manifestDir)
		require.Error(t, err)
	})
}
