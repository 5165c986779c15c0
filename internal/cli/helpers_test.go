package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testManifest = `
package rex

module: rex_std: properties: DataPath: "data/rex_std"

module: rex_engine: {
	properties: {
		DataPath:     "data/rex_engine"
		Dependencies: ["rex_std"]
	}
	overrides: "win64-debug-msvc": {
		EnableMemoryTracking: true
	}
}
`

// writeTestManifest creates a manifest directory with the given CUE source.
func writeTestManifest(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "modules.cue"), []byte(src), 0o644))
	return dir
}

// execRoot runs the root command with args. An empty settings file is
// passed so tests run on defaults and never pick up a rexgen.yml from the
// working directory.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	settingsPath := filepath.Join(t.TempDir(), "rexgen.yml")
	require.NoError(t, os.WriteFile(settingsPath, nil, 0o644))

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--settings", settingsPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

