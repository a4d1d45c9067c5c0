// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchpipe orchestrates a single analysis run: discover
// result directories, parse and normalize each one, aggregate, and
// report. The driver only sequences the stages and collects errors;
// parsing, conversion, and statistics live in the stage packages.
package benchpipe

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/CryxosMarco/benchmark-results/benchagg"
	"github.com/CryxosMarco/benchmark-results/benchdb"
	"github.com/CryxosMarco/benchmark-results/benchnorm"
	"github.com/CryxosMarco/benchmark-results/benchraw"
	"github.com/CryxosMarco/benchmark-results/benchreport"
)

// A RunDescriptor identifies one analysis invocation. It is built at
// pipeline start and read-only afterwards; no pipeline state persists
// between runs other than the written artifacts.
type RunDescriptor struct {
	// InputRoot holds one result directory per RTOS/configuration;
	// OutputRoot receives the artifacts.
	InputRoot  string
	OutputRoot string

	// GroupBy is the aggregation key (benchagg.DefaultGroupBy if nil).
	GroupBy []string

	// Dialect, if non-empty, forces one adapter for every directory
	// instead of signature detection.
	Dialect string

	// Vocabulary for normalization (benchnorm.DefaultVocabulary if nil).
	Vocabulary *benchnorm.Vocabulary

	// ArchivePath, if non-empty, also archives the normalized
	// dataset in a SQLite database at this path.
	ArchivePath string
}

// A DirError records the failure of one result directory.
type DirError struct {
	ConfigID string
	Err      error
}

func (e *DirError) Error() string { return e.ConfigID + ": " + e.Err.Error() }

func (e *DirError) Unwrap() error { return e.Err }

// A RunStatus summarizes a completed run.
type RunStatus struct {
	// Artifacts are the report files produced.
	Artifacts []string

	// Dirs is the number of result directories discovered.
	Dirs int

	// Records is the number of normalized records analyzed.
	Records int

	// Warnings are non-fatal normalization warnings.
	Warnings []error

	// DirErrors lists every directory whose ingestion failed. Those
	// directories are excluded from the statistics; the run is still
	// useful for the directories that succeeded.
	DirErrors []*DirError
}

// Failed reports whether any directory failed ingestion.
func (s *RunStatus) Failed() bool { return len(s.DirErrors) > 0 }

// Run executes the pipeline described by rd. Discovery failure and
// dialect ambiguity abort the run; a single directory's parse or
// normalization failure is recorded in the status and the remaining
// directories are still analyzed.
func Run(ctx context.Context, rd RunDescriptor) (*RunStatus, error) {
	dirs, err := benchraw.Discover(rd.InputRoot)
	if err != nil {
		return nil, err
	}
	dirs = excludeOutput(dirs, rd.OutputRoot)
	vocab := rd.Vocabulary
	if vocab == nil {
		vocab = benchnorm.DefaultVocabulary()
	}

	// Fan out one task per directory. Directories share no state, so
	// ingestion order does not matter; aggregation is order-independent.
	// Only ambiguity and cancellation travel through the group error;
	// per-directory failures land in results.
	type dirResult struct {
		ds       *benchnorm.Dataset
		warnings []error
		err      error
	}
	results := make([]dirResult, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	for i := range dirs {
		i, dir := i, dirs[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ds, warnings, err := ingest(dir, rd.Dialect, vocab)
			var ambig *benchraw.AmbiguityError
			if errors.As(err, &ambig) {
				return err
			}
			results[i] = dirResult{ds, warnings, err}
			return nil
		})
	}
	// Barrier: aggregation must not start until every directory has
	// finished ingestion.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	status := &RunStatus{Dirs: len(dirs)}
	merged := benchnorm.NewDataset()
	for i, res := range results {
		if res.err != nil {
			status.DirErrors = append(status.DirErrors, &DirError{dirs[i].ConfigID, res.err})
			continue
		}
		status.Warnings = append(status.Warnings, res.warnings...)
		if err := merged.Merge(res.ds); err != nil {
			return nil, err
		}
	}
	status.Records = merged.Len()

	stats, err := benchagg.Aggregate(merged, rd.GroupBy)
	if err != nil {
		return nil, err
	}
	status.Artifacts, err = benchreport.Report(stats, rd.OutputRoot)
	if err != nil {
		return nil, err
	}

	if rd.ArchivePath != "" {
		if err := archive(rd.ArchivePath, rd.InputRoot, merged); err != nil {
			return nil, err
		}
	}
	return status, nil
}

// excludeOutput drops any discovered directory that the output root
// equals or lives under. An output root nested inside the input root
// would otherwise be rediscovered as an unrecognizable result
// directory on the next run.
func excludeOutput(dirs []benchraw.ResultDir, outputRoot string) []benchraw.ResultDir {
	out, err := filepath.Abs(outputRoot)
	if err != nil {
		return dirs
	}
	kept := dirs[:0]
	for _, d := range dirs {
		p, err := filepath.Abs(d.Path)
		if err == nil && (out == p || strings.HasPrefix(out, p+string(filepath.Separator))) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// ingest parses and normalizes one result directory.
func ingest(dir benchraw.ResultDir, dialect string, vocab *benchnorm.Vocabulary) (*benchnorm.Dataset, []error, error) {
	adapter, err := benchraw.Select(dir.Path, dialect)
	if err != nil {
		return nil, nil, err
	}
	samples, err := adapter.Parse(dir)
	if err != nil {
		return nil, nil, err
	}
	return benchnorm.Normalize(samples, vocab)
}

func archive(path, inputRoot string, ds *benchnorm.Dataset) error {
	db, err := benchdb.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.WriteDataset(inputRoot, ds)
}
