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

// pmuLogAdapter parses performance-monitoring-unit profile logs: text
// files containing repeated profile blocks. Each block starts with a
// "Profile Point:" (or older "Profile Entry:") header and lists event
// counters, one per line.
//
// A directory may carry a calibration.csv file giving the measurement
// overhead per counter ("metric,overhead" header); the overhead is
// subtracted from every counter of that metric, clamped at zero.
type pmuLogAdapter struct{}

var profileMarkers = []string{"Profile Point:", "Profile Entry:"}

// pmuCounters maps counter line prefixes to the dialect's metric
// spelling and raw unit.
var pmuCounters = []struct {
	prefix, metric, unit string
}{
	{"Cycle Count", "cycle_count", "cycles"},
	{"ICache Miss", "icache_miss", "count"},
	{"DCache Access", "dcache_access", "count"},
	{"DCache Miss", "dcache_miss", "count"},
}

func (pmuLogAdapter) Name() string { return "pmulog" }

func (pmuLogAdapter) Match(dir string, entries []fs.DirEntry) (bool, error) {
	return matchByMarker(dir, entries, ".txt", profileMarkers...)
}

func (a pmuLogAdapter) Parse(rd ResultDir) ([]RawSample, error) {
	calib, err := readCalibration(filepath.Join(rd.Path, "calibration.csv"))
	if err != nil {
		return nil, err
	}

	ents, err := os.ReadDir(rd.Path)
	if err != nil {
		return nil, err
	}
	var samples []RawSample
	for _, ent := range ents {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ".txt" {
			continue
		}
		path := filepath.Join(rd.Path, ent.Name())
		ok, err := sniffFile(path, profileMarkers...)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		fileSamples, err := a.parseFile(rd, path, testName(rd, ent.Name()), calib)
		if err != nil {
			return nil, err
		}
		samples = append(samples, fileSamples...)
	}
	return samples, nil
}

func (a pmuLogAdapter) parseFile(rd ResultDir, path, primitive string, calib map[string]float64) ([]RawSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var samples []RawSample
	s := bufio.NewScanner(f)
	lineNo := 0
	inBlock := false
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if isProfileHeader(line) {
			inBlock = true
			continue
		}
		if !inBlock {
			continue
		}
		for _, c := range pmuCounters {
			if !strings.HasPrefix(line, c.prefix) {
				continue
			}
			colon := strings.Index(line, ":")
			if colon < 0 {
				break
			}
			val, err := strconv.ParseFloat(strings.TrimSpace(line[colon+1:]), 64)
			if err != nil {
				return nil, &MalformedRecordError{path, lineNo, "parsing " + c.metric + ": " + err.Error()}
			}
			if ov, ok := calib[c.metric]; ok {
				val -= ov
				if val < 0 {
					val = 0
				}
			}
			samples = append(samples, RawSample{
				Dialect:   a.Name(),
				RTOS:      rd.RTOS,
				ConfigID:  rd.ConfigID,
				Primitive: primitive,
				Metric:    c.metric,
				Value:     val,
				Unit:      c.unit,
				fileName:  path,
				line:      lineNo,
			})
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

func isProfileHeader(line string) bool {
	for _, m := range profileMarkers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}

// readCalibration reads a per-directory counter overhead table. A
// missing file means no calibration and is not an error.
func readCalibration(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	calib := make(map[string]float64)
	s := bufio.NewScanner(f)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") || line == "metric,overhead" {
			continue
		}
		metric, ovStr, ok := strings.Cut(line, ",")
		if !ok {
			return nil, &MalformedRecordError{path, lineNo, "expected metric,overhead"}
		}
		ov, err := strconv.ParseFloat(strings.TrimSpace(ovStr), 64)
		if err != nil {
			return nil, &MalformedRecordError{path, lineNo, "parsing overhead: " + err.Error()}
		}
		calib[strings.TrimSpace(metric)] = ov
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return calib, nil
}
