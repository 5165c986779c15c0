package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rexgen/internal/manifest"
	"github.com/roach88/rexgen/internal/module"
	"github.com/roach88/rexgen/internal/target"
)

// DescribeOptions holds flags for the describe command.
type DescribeOptions struct {
	*RootOptions
	Target string
}

// Description is the JSON payload of the describe command.
type Description struct {
	Module     string          `json:"module"`
	Target     string          `json:"target"`
	Path       string          `json:"path"`
	Overrides  []string        `json:"overrides"`
	Descriptor json.RawMessage `json:"descriptor"`
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DescribeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "describe <manifest-dir> <module>",
		Short: "Print the module.json a module would get for one target",
		Long: `Print the serialized descriptor of one module for one target without
writing anything. The target defaults to the first configured target.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Target, "target", "t", "", "target as platform-config-compiler")

	return cmd
}

func runDescribe(opts *DescribeOptions, manifestDir, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := loadSettings(opts.RootOptions, formatter)
	if err != nil {
		return err
	}

	var t target.Target
	if opts.Target != "" {
		t, err = target.Parse(opts.Target)
	} else {
		var targets []target.Target
		targets, err = s.ParsedTargets()
		if err == nil {
			t = targets[0]
		}
	}
	if err != nil {
		return commandError(formatter, ErrCodeInvalidFlag, err.Error(), nil)
	}

	result, loadErrors := manifest.Load(manifestDir, manifest.LoadModeCollectAll)
	if result == nil && len(loadErrors) > 0 {
		code, message := parseLoadError(loadErrors[0])
		return commandError(formatter, code, message, nil)
	}
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}

	d := result.Lookup(name)
	if d == nil {
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("module %q not declared in %s", name, manifestDir), nil)
	}

	data := d.Serialize(t)
	if formatter.Format == "json" {
		overrides := []string{}
		for _, o := range d.OverrideTargets() {
			overrides = append(overrides, o.String())
		}
		return formatter.Success(Description{
			Module:     d.Name(),
			Target:     t.String(),
			Path:       module.FilePath(s.OutputDir, t, d.Name()),
			Overrides:  overrides,
			Descriptor: data,
		})
	}

	formatter.VerboseLog("%s for %s -> %s", d.Name(), t, module.FilePath(s.OutputDir, t, d.Name()))
	_, err = formatter.Writer.Write(data)
	return err
}
