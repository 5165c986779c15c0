package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/rexgen/internal/generate"
	"github.com/roach88/rexgen/internal/journal"
	"github.com/roach88/rexgen/internal/manifest"
	"github.com/roach88/rexgen/internal/relaunch"
	"github.com/roach88/rexgen/internal/target"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh temporary directory with its own journal,
// so repeated runs see only their own history. Run IDs are run-1, run-2,
// and so on.
func Run(scenario *Scenario) (*Result, error) {
	root, err := os.MkdirTemp("", "rexgen-harness-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario directory: %w", err)
	}
	defer os.RemoveAll(root)

	j, err := journal.Open(filepath.Join(root, "journal.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer j.Close()

	loaded, loadErrs := manifest.Load(scenario.Manifest, manifest.LoadModeCollectAll)
	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("failed to load manifest: %w", errors.Join(loadErrs...))
	}

	targets, err := target.ParseAll(scenario.Targets)
	if err != nil {
		return nil, err
	}

	runs := scenario.runCount()
	ids := make([]string, runs)
	for i := range ids {
		ids[i] = fmt.Sprintf("run-%d", i+1)
	}

	outDir := filepath.Join(root, "out")
	gen := &generate.Generator{
		OutputDir: outDir,
		Jobs:      4,
		Journal:   j,
		IDs:       journal.NewFixedGenerator(ids...),
		IDE:       string(relaunch.IDENone),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()
	result := NewResult()
	for i := range runs {
		report, err := gen.Run(ctx, loaded.Modules, targets)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		result.Reports = append(result.Reports, report)
	}

	if result.Files, err = collectFiles(outDir); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// collectFiles reads every file under dir, keyed by slash path relative to dir.
func collectFiles(dir string) (map[string][]byte, error) {
	files := make(map[string][]byte)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect output: %w", err)
	}
	return files, nil
}
