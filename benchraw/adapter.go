// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchraw

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// An Adapter parses one raw result dialect into RawSamples.
type Adapter interface {
	// Name returns the dialect name. It is recorded in
	// RawSample.Dialect and used for command-line overrides.
	Name() string

	// Match reports whether this adapter claims dir based on the
	// directory's entries and, where an extension is not enough, a
	// signature sniff of candidate files.
	Match(dir string, entries []fs.DirEntry) (bool, error)

	// Parse reads every file of this dialect in rd and returns one
	// RawSample per measurement. A bad numeric field aborts the
	// directory with a *MalformedRecordError.
	Parse(rd ResultDir) ([]RawSample, error)
}

// adapters is the closed set of known dialects, in registration order.
// The order only affects the order of names in error messages;
// selection never resolves by first match.
var adapters = []Adapter{
	threadMetricAdapter{},
	pmuLogAdapter{},
	csvTableAdapter{},
}

// Adapters returns the registered dialect adapters.
func Adapters() []Adapter {
	return append([]Adapter(nil), adapters...)
}

// ByName returns the adapter for the named dialect.
func ByName(name string) (Adapter, bool) {
	for _, a := range adapters {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// Select determines which adapter parses the directory at dir.
// Exactly one adapter must claim it: zero claims is an error scoped to
// the directory, and two or more claims is an *AmbiguityError. A
// non-empty override names the adapter to use and skips detection.
func Select(dir, override string) (Adapter, error) {
	if override != "" {
		a, ok := ByName(override)
		if !ok {
			return nil, fmt.Errorf("unknown dialect %q", override)
		}
		return a, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var claimed []Adapter
	for _, a := range adapters {
		ok, err := a.Match(dir, entries)
		if err != nil {
			return nil, err
		}
		if ok {
			claimed = append(claimed, a)
		}
	}
	switch len(claimed) {
	case 0:
		return nil, fmt.Errorf("%s: no adapter recognizes this directory", dir)
	case 1:
		return claimed[0], nil
	}
	names := make([]string, len(claimed))
	for i, a := range claimed {
		names[i] = a.Name()
	}
	return nil, &AmbiguityError{Dir: dir, Adapters: names}
}

// sniff reports whether any of the first sniffLen bytes of the file
// contain marker.
const sniffLen = 4096

func sniffFile(path string, markers ...string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	for _, m := range markers {
		if bytes.Contains(buf[:n], []byte(m)) {
			return true, nil
		}
	}
	return false, nil
}

// matchByMarker claims the directory if any file with extension ext
// contains one of the given markers near its start.
func matchByMarker(dir string, entries []fs.DirEntry, ext string, markers ...string) (bool, error) {
	for _, ent := range entries {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ext {
			continue
		}
		ok, err := sniffFile(filepath.Join(dir, ent.Name()), markers...)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// testName derives the dialect's primitive spelling from a result file
// name. The convention is "<rtos>_<test_name>[_test].<ext>"; the RTOS
// prefix and the "_test" suffix are dropped when present.
func testName(rd ResultDir, fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	base = strings.TrimPrefix(base, rd.RTOS+"_")
	base = strings.TrimSuffix(base, "_test")
	return base
}
