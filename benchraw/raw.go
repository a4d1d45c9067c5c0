// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchraw locates RTOS benchmark result directories and
// parses their raw, dialect-specific measurement files.
//
// Each result directory holds the output of one RTOS/configuration
// combination. The files inside follow one of a closed set of raw
// dialects; an Adapter parses one dialect into RawSamples, the common
// in-memory schema shared by every dialect. New dialects are added by
// implementing a new Adapter, not by extending an existing parser.
//
// This package is designed to be used with the higher-level packages
// benchnorm, benchagg, and benchreport.
package benchraw

import (
	"fmt"
	"strings"
)

// A RawSample is a single measurement parsed from a raw result file.
// It is immutable once created; the normalizer derives canonical
// records from it but never mutates it.
type RawSample struct {
	// Dialect is the name of the adapter that produced this sample.
	Dialect string

	// RTOS and ConfigID identify the result set the sample came
	// from. ConfigID is the result directory name, verbatim.
	RTOS     string
	ConfigID string

	// Primitive and Metric are the dialect's own spellings; the
	// normalizer maps them to the canonical vocabulary.
	Primitive string
	Metric    string

	// Value and Unit are the measurement as written in the file.
	Value float64
	Unit  string

	fileName string
	line     int
}

// Pos returns the file name and line number the sample was read from.
func (s *RawSample) Pos() (fileName string, line int) {
	return s.fileName, s.line
}

// A DiscoveryError reports that a results root yielded nothing to
// analyze. It is fatal: without result directories there is no run.
type DiscoveryError struct {
	Root string
	Msg  string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Root, e.Msg)
}

// An AmbiguityError reports that more than one adapter claimed a
// result directory. It is never resolved by first-match; the caller
// must name a dialect explicitly.
type AmbiguityError struct {
	Dir      string
	Adapters []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%s: dialect is ambiguous between %s (select one explicitly)",
		e.Dir, strings.Join(e.Adapters, ", "))
}

// A MalformedRecordError reports a numeric field that failed to parse
// in a raw result file. Parsing of the offending directory is aborted
// rather than silently skipping records, since dropped samples would
// corrupt the statistics without any visible signal.
type MalformedRecordError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// Pos returns the file name and line number of the malformed record.
func (e *MalformedRecordError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}
