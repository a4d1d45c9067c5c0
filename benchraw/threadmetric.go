// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchraw

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// threadMetricAdapter parses Thread-Metric style benchmark logs: plain
// text files in which each reporting interval prints a
// "Relative Time: N" line followed by a "Time Period Total: N" line
// giving the work counter accumulated during that interval. All other
// lines (banners, blank lines, per-thread counters) are ignored.
type threadMetricAdapter struct{}

const (
	relTimeMarker   = "Relative Time:"
	periodMarker    = "Time Period Total:"
	threadMetricExt = ".txt"
)

func (threadMetricAdapter) Name() string { return "threadmetric" }

func (threadMetricAdapter) Match(dir string, entries []fs.DirEntry) (bool, error) {
	return matchByMarker(dir, entries, threadMetricExt, periodMarker)
}

func (a threadMetricAdapter) Parse(rd ResultDir) ([]RawSample, error) {
	ents, err := os.ReadDir(rd.Path)
	if err != nil {
		return nil, err
	}
	var samples []RawSample
	for _, ent := range ents {
		if ent.IsDir() || filepath.Ext(ent.Name()) != threadMetricExt {
			continue
		}
		path := filepath.Join(rd.Path, ent.Name())
		ok, err := sniffFile(path, periodMarker)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		fileSamples, err := a.parseFile(rd, path, testName(rd, ent.Name()))
		if err != nil {
			return nil, err
		}
		samples = append(samples, fileSamples...)
	}
	return samples, nil
}

func (a threadMetricAdapter) parseFile(rd ResultDir, path, primitive string) ([]RawSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var samples []RawSample
	s := bufio.NewScanner(f)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		rest, ok := cutMarker(line, periodMarker)
		if !ok {
			// Interval markers and everything else are tolerated;
			// only the measurement lines are parsed strictly.
			continue
		}
		val, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, &MalformedRecordError{path, lineNo, "parsing time period total: " + err.Error()}
		}
		samples = append(samples, RawSample{
			Dialect:   a.Name(),
			RTOS:      rd.RTOS,
			ConfigID:  rd.ConfigID,
			Primitive: primitive,
			Metric:    "time_period_total",
			Value:     val,
			Unit:      "ops/period",
			fileName:  path,
			line:      lineNo,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// cutMarker returns the trimmed text following marker in line.
func cutMarker(line, marker string) (rest string, ok bool) {
	i := strings.Index(line, marker)
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(line[i+len(marker):]), true
}
