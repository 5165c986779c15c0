package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rexgen/internal/generate"
	"github.com/roach88/rexgen/internal/journal"
	"github.com/roach88/rexgen/internal/manifest"
	"github.com/roach88/rexgen/internal/settings"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Output  string   // output root, overrides settings
	Targets []string // targets, override settings
	Journal string   // journal path or "off", overrides settings
	IDE     string   // IDE, overrides settings
	Jobs    int      // concurrent writes, overrides settings
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <manifest-dir>",
		Short: "Write module.json descriptors for every module and target",
		Long: `Load the CUE module manifest and write one module.json per module
and target under <output>/<compiler>/<config>/<module>/.

Files whose content did not change since the last recorded run are left
untouched. Flags override values from the settings file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output root directory")
	cmd.Flags().StringArrayVarP(&opts.Targets, "target", "t", nil, "target as platform-config-compiler (repeatable)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", `journal database path, or "off"`)
	cmd.Flags().StringVar(&opts.IDE, "ide", "", "IDE the descriptors are generated for")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "maximum concurrent writes")

	return cmd
}

func runGenerate(opts *GenerateOptions, manifestDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := loadSettings(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	applyGenerateFlags(s, opts)
	if err := s.Validate(); err != nil {
		return commandError(formatter, ErrCodeInvalidFlag, err.Error(), nil)
	}
	targets, err := s.ParsedTargets()
	if err != nil {
		return commandError(formatter, ErrCodeInvalidFlag, err.Error(), nil)
	}

	result, loadErrors := manifest.Load(manifestDir, manifest.LoadModeCollectAll)
	if result == nil && len(loadErrors) > 0 {
		code, message := parseLoadError(loadErrors[0])
		return commandError(formatter, code, message, nil)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", result.FileCount, manifestDir)
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}

	gen := &generate.Generator{
		OutputDir: s.OutputDir,
		Jobs:      s.Jobs,
		IDE:       s.IDE,
		IDs:       journal.UUIDv7Generator{},
		Logger:    opts.Logger(cmd.ErrOrStderr()),
	}
	if path := s.JournalPath(); path != "" {
		j, err := openJournal(path)
		if err != nil {
			return commandError(formatter, ErrCodeJournal, err.Error(), nil)
		}
		defer j.Close()
		gen.Journal = j
		formatter.VerboseLog("Using journal %s", path)
	}

	report, runErr := gen.Run(cmd.Context(), result.Modules, targets)
	if report == nil {
		return commandError(formatter, ErrCodeGeneric, runErr.Error(), nil)
	}
	if runErr != nil {
		return outputGenerateFailure(formatter, report, runErr)
	}

	return outputGenerateSuccess(formatter, report, len(result.Modules), len(targets))
}

// applyGenerateFlags overrides settings with the flags that were given.
func applyGenerateFlags(s *settings.Settings, opts *GenerateOptions) {
	if opts.Output != "" {
		s.OutputDir = opts.Output
	}
	if len(opts.Targets) > 0 {
		s.Targets = opts.Targets
	}
	if opts.Journal != "" {
		s.Journal = opts.Journal
	}
	if opts.IDE != "" {
		s.IDE = opts.IDE
	}
	if opts.Jobs != 0 {
		s.Jobs = opts.Jobs
	}
}

func outputGenerateSuccess(formatter *OutputFormatter, report *generate.Report, modules, targets int) error {
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "✓ Generated %d descriptor(s) for %d module(s) × %d target(s): %d written, %d unchanged\n",
		len(report.Artifacts), modules, targets, report.Written, report.Unchanged)
	if formatter.Verbose {
		for _, a := range report.Artifacts {
			state := "unchanged"
			if a.Written {
				state = "written"
			}
			fmt.Fprintf(formatter.Writer, "  %s [%s] %s (%s)\n", a.Module, a.TargetName, a.Path, state)
		}
	}
	fmt.Fprintf(formatter.Writer, "Run %s\n", report.RunID)
	return nil
}

// outputGenerateFailure reports a run that wrote some files but not all.
func outputGenerateFailure(formatter *OutputFormatter, report *generate.Report, runErr error) error {
	var messages []string
	if joined, ok := runErr.(interface{ Unwrap() []error }); ok {
		for _, err := range joined.Unwrap() {
			messages = append(messages, err.Error())
		}
	} else {
		messages = append(messages, runErr.Error())
	}

	_ = formatter.Error(ErrCodeWriteFailed,
		fmt.Sprintf("%d descriptor(s) could not be written", len(messages)),
		map[string]any{"run_id": report.RunID, "errors": messages, "written": report.Written})
	if formatter.Format != "json" && !formatter.Verbose {
		for _, m := range messages {
			fmt.Fprintf(formatter.Writer, "  %s\n", m)
		}
	}

	return WrapExitError(ExitFailure, "generation incomplete", runErr)
}
