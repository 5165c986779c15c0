package journal

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
)

// DomainModule prefixes the content hash of serialized descriptors.
// The version suffix allows a future change of algorithm.
const DomainModule = "rexgen/module/v1"

// ContentHash returns the hex SHA-256 of data with domain separation:
// SHA256(DomainModule + 0x00 + data).
func ContentHash(data []byte) string {
	h := sha256.New()
	h.Write([]byte(DomainModule))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Run is one generation invocation.
type Run struct {
	Seq         int64  `json:"seq"`
	ID          string `json:"id"`
	IDE         string `json:"ide"`
	ToolVersion string `json:"tool_version"`
	Artifacts   int    `json:"artifacts"`
	Written     int    `json:"written"`
}

// Artifact is one descriptor file considered by a run.
// Written is false when the file was already up to date.
type Artifact struct {
	Seq         int64  `json:"seq"`
	RunID       string `json:"run_id"`
	Module      string `json:"module"`
	Target      string `json:"target"`
	Path        string `json:"path"`
	ContentHash string `json:"content_hash"`
	Written     bool   `json:"written"`
}

// BeginRun inserts a run record. Re-inserting an existing ID is a no-op.
func (j *Journal) BeginRun(ctx context.Context, runID, ide, toolVersion string) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (id, ide, tool_version)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, runID, ide, toolVersion)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// RecordArtifact inserts an artifact record for an existing run.
// A second record for the same run and path is silently ignored.
func (j *Journal) RecordArtifact(ctx context.Context, a Artifact) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO artifacts (run_id, module, target, path, content_hash, written)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, path) DO NOTHING
	`, a.RunID, a.Module, a.Target, a.Path, a.ContentHash, a.Written)
	if err != nil {
		return fmt.Errorf("record artifact: %w", err)
	}
	return nil
}

// LastHash returns the most recently recorded content hash for path.
func (j *Journal) LastHash(ctx context.Context, path string) (string, bool, error) {
	var hash string
	err := j.db.QueryRowContext(ctx, `
		SELECT content_hash FROM artifacts
		WHERE path = ?
		ORDER BY seq DESC
		LIMIT 1
	`, path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("last hash: %w", err)
	}
	return hash, true, nil
}

// Runs returns every run with artifact counts, oldest first.
// Returns an empty slice (not nil) when the journal is empty.
func (j *Journal) Runs(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT r.seq, r.id, r.ide, r.tool_version,
		       COUNT(a.seq), COALESCE(SUM(a.written), 0)
		FROM runs r
		LEFT JOIN artifacts a ON a.run_id = r.id
		GROUP BY r.seq
		ORDER BY r.seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.Seq, &r.ID, &r.IDE, &r.ToolVersion, &r.Artifacts, &r.Written); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Artifacts returns the artifacts of a run in recording order.
// Returns an empty slice (not nil) when the run has none.
func (j *Journal) Artifacts(ctx context.Context, runID string) ([]Artifact, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, run_id, module, target, path, content_hash, written
		FROM artifacts
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := []Artifact{}
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.Seq, &a.RunID, &a.Module, &a.Target, &a.Path, &a.ContentHash, &a.Written); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return artifacts, nil
}
