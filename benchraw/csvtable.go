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

// csvTableAdapter parses fixed-column CSV result tables. A table file
// starts with the header "primitive,metric,value,unit" and holds one
// measurement per row. Blank lines and lines starting with "#" are
// tolerated anywhere; the value column is parsed strictly.
type csvTableAdapter struct{}

const csvHeader = "primitive,metric,value,unit"

func (csvTableAdapter) Name() string { return "csvtable" }

func (csvTableAdapter) Match(dir string, entries []fs.DirEntry) (bool, error) {
	return matchByMarker(dir, entries, ".csv", csvHeader)
}

func (a csvTableAdapter) Parse(rd ResultDir) ([]RawSample, error) {
	ents, err := os.ReadDir(rd.Path)
	if err != nil {
		return nil, err
	}
	var samples []RawSample
	for _, ent := range ents {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ".csv" {
			continue
		}
		path := filepath.Join(rd.Path, ent.Name())
		ok, err := sniffFile(path, csvHeader)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		fileSamples, err := a.parseFile(rd, path)
		if err != nil {
			return nil, err
		}
		samples = append(samples, fileSamples...)
	}
	return samples, nil
}

func (a csvTableAdapter) parseFile(rd ResultDir, path string) ([]RawSample, error) {
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
		if line == "" || strings.HasPrefix(line, "#") || line == csvHeader {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 4 {
			return nil, &MalformedRecordError{path, lineNo, "expected 4 columns, got " + strconv.Itoa(len(fields))}
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return nil, &MalformedRecordError{path, lineNo, "parsing value: " + err.Error()}
		}
		samples = append(samples, RawSample{
			Dialect:   a.Name(),
			RTOS:      rd.RTOS,
			ConfigID:  rd.ConfigID,
			Primitive: strings.TrimSpace(fields[0]),
			Metric:    strings.TrimSpace(fields[1]),
			Value:     val,
			Unit:      strings.TrimSpace(fields[3]),
			fileName:  path,
			line:      lineNo,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}
