// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchreport renders aggregated benchmark statistics as
// comparison plots and tabular summaries.
//
// All artifacts are written atomically and in a deterministic order,
// so repeated runs over identical data produce byte-identical output.
package benchreport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/CryxosMarco/benchmark-results/benchagg"
)

// Report renders stats into outDir: one comparison chart per distinct
// (primitive, metric) pair, a summary.csv with one row per group, and
// a summary.html with the same table. It returns the paths of every
// artifact produced.
func Report(stats []benchagg.AggregateStat, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0777); err != nil {
		return nil, err
	}

	var artifacts []string

	csvPath := filepath.Join(outDir, "summary.csv")
	err := writeAtomic(csvPath, func(w io.Writer) error {
		return writeSummaryCSV(w, stats)
	})
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, csvPath)

	htmlPath := filepath.Join(outDir, "summary.html")
	err = writeAtomic(htmlPath, func(w io.Writer) error {
		return writeSummaryHTML(w, stats)
	})
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, htmlPath)

	chartPaths, err := writeCharts(stats, outDir)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, chartPaths...)

	return artifacts, nil
}

func summaryHeader() []string {
	hdr := []string{"rtos", "config", "primitive", "metric", "unit", "count", "mean", "stddev", "min", "max", "jitter", "jitter_pct"}
	for _, p := range benchagg.DefaultPercentiles {
		hdr = append(hdr, fmt.Sprintf("p%g", p))
	}
	return hdr
}

func summaryRow(s *benchagg.AggregateStat) []string {
	row := []string{
		s.Group.RTOS, s.Group.Config, s.Group.Primitive, s.Group.Metric, s.Unit,
		strconv.Itoa(s.Count),
		strof(s.Mean), strof(s.Stddev), strof(s.Min), strof(s.Max),
		strof(s.Jitter), strof(s.JitterPct),
	}
	for _, p := range benchagg.DefaultPercentiles {
		row = append(row, strof(s.Percentiles[p]))
	}
	return row
}

func writeSummaryCSV(w io.Writer, stats []benchagg.AggregateStat) error {
	csvw := csv.NewWriter(w)
	if err := csvw.Write(summaryHeader()); err != nil {
		return err
	}
	for i := range stats {
		if err := csvw.Write(summaryRow(&stats[i])); err != nil {
			return err
		}
	}
	csvw.Flush()
	return csvw.Error()
}

// strof formats a value exactly, with the fewest digits that round-trip.
func strof(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// A series is one (rtos, config) bar of a comparison chart.
type series struct {
	label string
	stat  *benchagg.AggregateStat
}

// chartGroups splits stats by (primitive, metric) and orders each
// group's series by mean ascending (label as tiebreak), which fixes
// the series order across runs.
func chartGroups(stats []benchagg.AggregateStat) []chartGroup {
	type pm struct{ primitive, metric string }
	byPM := make(map[pm][]series)
	for i := range stats {
		s := &stats[i]
		k := pm{s.Group.Primitive, s.Group.Metric}
		byPM[k] = append(byPM[k], series{seriesLabel(s.Group), s})
	}
	groups := make([]chartGroup, 0, len(byPM))
	for k, ss := range byPM {
		sort.Slice(ss, func(i, j int) bool {
			if ss[i].stat.Mean != ss[j].stat.Mean {
				return ss[i].stat.Mean < ss[j].stat.Mean
			}
			return ss[i].label < ss[j].label
		})
		groups = append(groups, chartGroup{k.primitive, k.metric, ss})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].primitive != groups[j].primitive {
			return groups[i].primitive < groups[j].primitive
		}
		return groups[i].metric < groups[j].metric
	})
	return groups
}

type chartGroup struct {
	primitive, metric string
	series            []series
}

func seriesLabel(k benchagg.GroupKey) string {
	switch {
	case k.Config != "":
		return k.Config
	case k.RTOS != "":
		return k.RTOS
	default:
		return "all"
	}
}
