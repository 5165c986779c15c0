// Package relaunch computes how an IDE relaunches the generator: the
// debug start settings of the generator's own project and the commands of
// the regeneration project every other project depends on.
package relaunch

import (
	"fmt"
	"strings"

	"github.com/roach88/rexgen/internal/requote"
)

// IDE is the project flavor a generation targets.
type IDE string

const (
	IDENone           IDE = "None"
	IDEVisualStudio   IDE = "VisualStudio"
	IDEVisualStudio19 IDE = "VisualStudio19"
	IDEVisualStudio22 IDE = "VisualStudio22"
	IDEVSCode         IDE = "VSCode"
)

// IDEs lists every supported IDE.
var IDEs = []IDE{IDENone, IDEVisualStudio, IDEVisualStudio19, IDEVisualStudio22, IDEVSCode}

// ParseIDE matches s against IDEs case-insensitively.
func ParseIDE(s string) (IDE, error) {
	for _, ide := range IDEs {
		if strings.EqualFold(string(ide), s) {
			return ide, nil
		}
	}
	return "", fmt.Errorf("unknown IDE %q: must be one of %v", s, IDEs)
}

// CommandLineOption is the -IDE value that regenerates projects for ide.
// IDEs without projects of their own fall back to VisualStudio19.
func (ide IDE) CommandLineOption() string {
	switch ide {
	case IDEVisualStudio, IDEVisualStudio19, IDEVisualStudio22, IDEVSCode:
		return string(ide)
	default:
		return string(IDEVisualStudio19)
	}
}

// StartSettings configure how the IDE debugs the generator.
type StartSettings struct {
	Program          string `json:"program"`
	Arguments        string `json:"arguments"`
	WorkingDirectory string `json:"working_directory"`
}

// ForwardedArgs joins argv without the program path.
// It reports false when no argument contains '(' since only grouped
// arguments need forwarding.
func ForwardedArgs(argv []string) (string, bool) {
	if len(argv) < 2 {
		return "", false
	}
	joined := strings.Join(argv[1:], " ")
	if !strings.Contains(joined, "(") {
		return "", false
	}
	return joined, true
}

// DebugSettings builds the start settings that rerun program with the
// current invocation's arguments. The arguments are requoted so the IDE
// passes each grouped item through intact.
func DebugSettings(program, workdir string, argv []string) (*StartSettings, bool) {
	args, ok := ForwardedArgs(argv)
	if !ok {
		return nil, false
	}
	return &StartSettings{
		Program:          program,
		Arguments:        requote.Requote(args),
		WorkingDirectory: workdir,
	}, true
}

// Commands are the custom build steps of the regeneration project.
type Commands struct {
	Build   string `json:"build"`
	Rebuild string `json:"rebuild"`
	Clean   string `json:"clean"`
	Output  string `json:"output"`
}

// RegenerateCommands returns the build steps that rerun generation through
// launcher (e.g. "py") and script. Build regenerates without touching IDE
// projects; Rebuild regenerates from the default configuration for ide.
func RegenerateCommands(launcher, script string, ide IDE) Commands {
	return Commands{
		Build:   fmt.Sprintf("%s %s generate -IDE %s", launcher, script, IDENone),
		Rebuild: fmt.Sprintf("%s %s generate -use-default-config -IDE %s", launcher, script, ide.CommandLineOption()),
	}
}
