// Package generate writes module.json descriptors for every module and
// target into the per-configuration output tree.
package generate

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/roach88/rexgen/internal/fsutil"
	"github.com/roach88/rexgen/internal/journal"
	"github.com/roach88/rexgen/internal/module"
	"github.com/roach88/rexgen/internal/prop"
	"github.com/roach88/rexgen/internal/target"
	"github.com/roach88/rexgen/internal/version"
)

// Journal is the history the generator consults and appends to.
// *journal.Journal implements it.
type Journal interface {
	BeginRun(ctx context.Context, runID, ide, toolVersion string) error
	RecordArtifact(ctx context.Context, a journal.Artifact) error
	LastHash(ctx context.Context, path string) (string, bool, error)
}

// Generator serializes descriptors to disk.
type Generator struct {
	// OutputDir is the root of the per-configuration tree.
	OutputDir string

	// Jobs bounds concurrent file writes. Values below 1 mean 1.
	Jobs int

	// Journal is optional. Without it every file is written.
	Journal Journal

	// IDs generates the run ID. Defaults to UUIDv7.
	IDs journal.RunIDGenerator

	// IDE is recorded with the run.
	IDE string

	Logger *slog.Logger
}

// Artifact is one descriptor file produced by a run.
type Artifact struct {
	Module      string        `json:"module"`
	Target      target.Target `json:"-"`
	TargetName  string        `json:"target"`
	Path        string        `json:"path"`
	ContentHash string        `json:"content_hash"`
	Written     bool          `json:"written"`
}

// Report summarizes a run. Artifacts are sorted by module, then target.
type Report struct {
	RunID     string     `json:"run_id"`
	Artifacts []Artifact `json:"artifacts"`
	Written   int        `json:"written"`
	Unchanged int        `json:"unchanged"`
}

// job is one module × target pair.
type job struct {
	artifact Artifact
	data     []byte
	err      error
}

// Run writes one module.json per descriptor and target.
//
// A file is left untouched when the journal's last hash for its path
// matches and the file on disk still holds those bytes. Write errors do
// not stop other writes; they are returned joined alongside a report of
// what succeeded.
func (g *Generator) Run(ctx context.Context, descriptors []*module.Descriptor, targets []target.Target) (*Report, error) {
	logger := g.logger()
	ids := g.IDs
	if ids == nil {
		ids = journal.UUIDv7Generator{}
	}
	runID := ids.Generate()

	jobs, err := g.plan(descriptors, targets)
	if err != nil {
		return nil, err
	}

	if g.Journal != nil {
		if err := g.Journal.BeginRun(ctx, runID, g.IDE, version.Tool); err != nil {
			return nil, fmt.Errorf("begin run %s: %w", runID, err)
		}
	}

	logger.Info("generation starting",
		"run_id", runID,
		"modules", len(descriptors),
		"targets", len(targets),
		"output", g.OutputDir,
	)

	pending, err := g.filterUnchanged(ctx, jobs)
	if err != nil {
		return nil, err
	}

	g.write(ctx, pending)

	report := &Report{RunID: runID, Artifacts: []Artifact{}}
	var errs []error
	for _, j := range jobs {
		if j.err != nil {
			errs = append(errs, j.err)
			continue
		}
		if g.Journal != nil {
			a := journal.Artifact{
				RunID:       runID,
				Module:      j.artifact.Module,
				Target:      j.artifact.TargetName,
				Path:        j.artifact.Path,
				ContentHash: j.artifact.ContentHash,
				Written:     j.artifact.Written,
			}
			if err := g.Journal.RecordArtifact(ctx, a); err != nil {
				errs = append(errs, err)
				continue
			}
		}
		report.Artifacts = append(report.Artifacts, j.artifact)
		if j.artifact.Written {
			report.Written++
		} else {
			report.Unchanged++
		}
	}

	logger.Info("generation finished",
		"run_id", runID,
		"written", report.Written,
		"unchanged", report.Unchanged,
		"errors", len(errs),
	)

	return report, errors.Join(errs...)
}

// plan serializes every module × target pair in report order.
func (g *Generator) plan(descriptors []*module.Descriptor, targets []target.Target) ([]*job, error) {
	sortedDescs := slices.Clone(descriptors)
	slices.SortFunc(sortedDescs, func(a, b *module.Descriptor) int {
		return cmp.Compare(a.Name(), b.Name())
	})
	sortedTargets := slices.Clone(targets)
	slices.SortFunc(sortedTargets, target.Compare)
	sortedTargets = slices.Compact(sortedTargets)

	// The output folder omits the platform, so two targets may collide.
	folders := make(map[string]target.Target, len(sortedTargets))
	for _, t := range sortedTargets {
		if prev, ok := folders[t.PerConfigFolder()]; ok {
			return nil, fmt.Errorf("targets %s and %s share output folder %s", prev, t, t.PerConfigFolder())
		}
		folders[t.PerConfigFolder()] = t
	}

	// Module folders must stay distinct on case-insensitive file systems.
	names := make(map[string]string, len(sortedDescs))
	jobs := make([]*job, 0, len(sortedDescs)*len(sortedTargets))
	for _, d := range sortedDescs {
		key := prop.NormalizeKey(d.Name())
		if prev, ok := names[key]; ok {
			if prev == d.Name() {
				return nil, fmt.Errorf("duplicate module %q", d.Name())
			}
			return nil, fmt.Errorf("modules %q and %q differ only in case", prev, d.Name())
		}
		names[key] = d.Name()

		for _, t := range sortedTargets {
			path := module.FilePath(g.OutputDir, t, d.Name())
			folder := filepath.Join(g.OutputDir, t.PerConfigFolder())
			if filepath.Dir(path) == folder || !fsutil.IsPartOfRoot(folder, path) {
				return nil, fmt.Errorf("module %q escapes output folder %s", d.Name(), folder)
			}

			data := d.Serialize(t)
			jobs = append(jobs, &job{
				artifact: Artifact{
					Module:      d.Name(),
					Target:      t,
					TargetName:  t.String(),
					Path:        path,
					ContentHash: journal.ContentHash(data),
				},
				data: data,
			})
		}
	}
	return jobs, nil
}

// filterUnchanged returns the jobs whose file must be written.
func (g *Generator) filterUnchanged(ctx context.Context, jobs []*job) ([]*job, error) {
	if g.Journal == nil {
		return jobs, nil
	}

	logger := g.logger()
	var pending []*job
	for _, j := range jobs {
		hash, ok, err := g.Journal.LastHash(ctx, j.artifact.Path)
		if err != nil {
			return nil, fmt.Errorf("last hash %s: %w", j.artifact.Path, err)
		}
		if ok && hash == j.artifact.ContentHash && onDiskMatches(j.artifact.Path, j.data) {
			logger.Debug("descriptor unchanged, skipping",
				"module", j.artifact.Module,
				"target", j.artifact.TargetName,
			)
			continue
		}
		pending = append(pending, j)
	}
	return pending, nil
}

// write saves pending jobs concurrently, at most Jobs at a time.
func (g *Generator) write(ctx context.Context, pending []*job) {
	logger := g.logger()
	sem := semaphore.NewWeighted(int64(max(g.Jobs, 1)))
	var wg sync.WaitGroup

	for _, j := range pending {
		if err := sem.Acquire(ctx, 1); err != nil {
			j.err = fmt.Errorf("%s: %s: %w", j.artifact.Module, j.artifact.TargetName, err)
			continue
		}
		wg.Add(1)
		go func(j *job) {
			defer wg.Done()
			defer sem.Release(1)

			if err := fsutil.SafeWriteFile(j.artifact.Path, j.data); err != nil {
				j.err = fmt.Errorf("%s: %s: %w", j.artifact.Module, j.artifact.TargetName, err)
				logger.Error("descriptor write failed",
					"module", j.artifact.Module,
					"target", j.artifact.TargetName,
					"error", err,
				)
				return
			}
			j.artifact.Written = true
			logger.Debug("descriptor written",
				"module", j.artifact.Module,
				"target", j.artifact.TargetName,
				"config", j.artifact.Target.Name(),
				"path", j.artifact.Path,
			)
		}(j)
	}

	wg.Wait()
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// onDiskMatches reports whether path holds exactly data. The journal
// hash only says what was written last, not what the file holds now.
func onDiskMatches(path string, data []byte) bool {
	onDisk, err := os.ReadFile(path)
	return err == nil && bytes.Equal(onDisk, data)
}
