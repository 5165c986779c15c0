package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rexgen/internal/requote"
)

// RequoteResult is the JSON payload of the requote command.
type RequoteResult struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// NewRequoteCommand creates the requote command.
func NewRequoteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requote -- <args...>",
		Short: "Quote the items of parenthesized argument groups",
		Long: `Join the arguments with single spaces and quote every comma-separated
item inside (...) groups, the way generator arguments must be passed on.

  rexgen requote -- '/sources(a.cs,b.cs)'   ->   /sources("a.cs","b.cs")

Put -- before arguments that start with a dash.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequote(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runRequote(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	input := strings.Join(args, " ")
	output := requote.Requote(input)

	if formatter.Format == "json" {
		return formatter.Success(RequoteResult{Input: input, Output: output})
	}
	fmt.Fprintln(formatter.Writer, output)
	return nil
}
