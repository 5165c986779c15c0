package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/rexgen/internal/relaunch"
)

// RelaunchOptions holds flags for the relaunch command.
type RelaunchOptions struct {
	*RootOptions
	IDE     string
	Program string
	WorkDir string
}

// RelaunchResult is the JSON payload of the relaunch command.
type RelaunchResult struct {
	IDE      string                  `json:"ide"`
	Debug    *relaunch.StartSettings `json:"debug,omitempty"`
	Commands relaunch.Commands       `json:"commands"`
}

// NewRelaunchCommand creates the relaunch command.
func NewRelaunchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RelaunchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "relaunch [-- <generator-args...>]",
		Short: "Print the commands an IDE uses to rerun generation",
		Long: `Print the build and rebuild commands of the regeneration project for
an IDE. When generator arguments are given after --, also print the debug
start settings that rerun the generator with those arguments requoted.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelaunch(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.IDE, "ide", "", "IDE to relaunch for (defaults to settings)")
	cmd.Flags().StringVar(&opts.Program, "program", "", "generator executable for debug settings")
	cmd.Flags().StringVar(&opts.WorkDir, "workdir", "", "working directory for debug settings (defaults to current)")

	return cmd
}

func runRelaunch(opts *RelaunchOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := loadSettings(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	if opts.IDE != "" {
		s.IDE = opts.IDE
	}
	ide, err := s.ParsedIDE()
	if err != nil {
		return commandError(formatter, ErrCodeInvalidFlag, err.Error(), nil)
	}

	result := RelaunchResult{
		IDE:      string(ide),
		Commands: relaunch.RegenerateCommands(s.Launcher, s.Script, ide),
	}

	if len(args) > 0 {
		workdir := opts.WorkDir
		if workdir == "" {
			if workdir, err = os.Getwd(); err != nil {
				return commandError(formatter, ErrCodeGeneric, err.Error(), nil)
			}
		}
		program := opts.Program
		if program == "" {
			program = s.Launcher
		}
		// ForwardedArgs skips argv[0].
		argv := append([]string{program}, args...)
		if debug, ok := relaunch.DebugSettings(program, workdir, argv); ok {
			result.Debug = debug
		} else {
			formatter.VerboseLog("No parenthesized arguments; debug settings skipped")
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "IDE: %s\n", result.IDE)
	fmt.Fprintf(formatter.Writer, "Build:   %s\n", result.Commands.Build)
	fmt.Fprintf(formatter.Writer, "Rebuild: %s\n", result.Commands.Rebuild)
	if result.Debug != nil {
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintf(formatter.Writer, "Program:           %s\n", result.Debug.Program)
		fmt.Fprintf(formatter.Writer, "Arguments:         %s\n", result.Debug.Arguments)
		fmt.Fprintf(formatter.Writer, "Working directory: %s\n", result.Debug.WorkingDirectory)
	}
	return nil
}
