package relaunch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDE(t *testing.T) {
	for _, ide := range IDEs {
		got, err := ParseIDE(string(ide))
		require.NoError(t, err)
		assert.Equal(t, ide, got)
	}

	got, err := ParseIDE("vscode")
	require.NoError(t, err)
	assert.Equal(t, IDEVSCode, got)

	_, err = ParseIDE("emacs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emacs")
}

func TestCommandLineOption(t *testing.T) {
	tests := []struct {
		ide  IDE
		want string
	}{
		{IDEVisualStudio, "VisualStudio"},
		{IDEVisualStudio19, "VisualStudio19"},
		{IDEVisualStudio22, "VisualStudio22"},
		{IDEVSCode, "VSCode"},
		{IDENone, "VisualStudio19"},
		{IDE("bogus"), "VisualStudio19"},
	}

	for _, tt := range tests {
		t.Run(string(tt.ide), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ide.CommandLineOption())
		})
	}
}

func TestForwardedArgs(t *testing.T) {
	_, ok := ForwardedArgs(nil)
	assert.False(t, ok)

	_, ok = ForwardedArgs([]string{"rexgen"})
	assert.False(t, ok)

	_, ok = ForwardedArgs([]string{"rexgen", "generate", "-IDE", "None"})
	assert.False(t, ok)

	args, ok := ForwardedArgs([]string{"rexgen", "/sources(a.cs,b.cs)", "/verbose"})
	require.True(t, ok)
	assert.Equal(t, "/sources(a.cs,b.cs) /verbose", args)
}

func TestDebugSettings(t *testing.T) {
	argv := []string{"/usr/bin/rexgen", "/sources(a.cs,b.cs)", "/defines(DEBUG)"}

	got, ok := DebugSettings("/usr/bin/rexgen", "/work", argv)
	require.True(t, ok)
	assert.Equal(t, &StartSettings{
		Program:          "/usr/bin/rexgen",
		Arguments:        `/sources("a.cs","b.cs") /defines("DEBUG")`,
		WorkingDirectory: "/work",
	}, got)
}

func TestDebugSettingsWithoutGroups(t *testing.T) {
	got, ok := DebugSettings("rexgen", "/work", []string{"rexgen", "generate"})
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRegenerateCommands(t *testing.T) {
	cmds := RegenerateCommands("py", "/rex/_rex.py", IDEVisualStudio22)

	assert.Equal(t, "py /rex/_rex.py generate -IDE None", cmds.Build)
	assert.Equal(t, "py /rex/_rex.py generate -use-default-config -IDE VisualStudio22", cmds.Rebuild)
	assert.Empty(t, cmds.Clean)
	assert.Empty(t, cmds.Output)
}
