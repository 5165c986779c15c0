package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/rexgen/internal/journal"
	"github.com/roach88/rexgen/internal/settings"
)

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// loadSettings reads the settings file named by --settings, or the
// default file. A missing file yields defaults.
func loadSettings(opts *RootOptions, formatter *OutputFormatter) (*settings.Settings, error) {
	s, err := settings.Load(opts.Settings)
	if err != nil {
		return nil, commandError(formatter, ErrCodeSettings, err.Error(), nil)
	}
	return s, nil
}

// openJournal opens the journal at path, creating its directory.
func openJournal(path string) (*journal.Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}
	return journal.Open(path)
}
