// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/CryxosMarco/benchmark-results/benchagg"
)

// steel blue, matching the house style of the hand-made plots these
// charts replace.
var barColor = color.NRGBA{0x46, 0x82, 0xb4, 0xff}

// writeCharts renders one bar chart per (primitive, metric) pair, one
// bar per (rtos, config) series, and returns the produced paths.
func writeCharts(stats []benchagg.AggregateStat, outDir string) ([]string, error) {
	var paths []string
	for _, g := range chartGroups(stats) {
		path := filepath.Join(outDir, chartName(g.primitive, g.metric))
		err := writeAtomic(path, func(w io.Writer) error {
			return renderChart(w, g)
		})
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// chartName builds the artifact file name "<primitive>_<metric>.png".
func chartName(primitive, metric string) string {
	if primitive == "" {
		primitive = "all"
	}
	if metric == "" {
		metric = "all"
	}
	return sanitize(primitive) + "_" + sanitize(metric) + ".png"
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "-per-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

func renderChart(w io.Writer, g chartGroup) error {
	pl := plot.New()
	pl.Title.Text = g.primitive + " " + g.metric
	unit := g.series[0].stat.Unit
	if unit != "" {
		pl.Y.Label.Text = "mean (" + unit + ")"
	} else {
		pl.Y.Label.Text = "mean"
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	means := make(plotter.Values, len(g.series))
	labels := make([]string, len(g.series))
	for i, s := range g.series {
		means[i] = s.stat.Mean
		labels[i] = s.label
	}

	bars, err := plotter.NewBarChart(means, vg.Points(30))
	if err != nil {
		return err
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	pl.Add(bars)
	pl.NominalX(labels...)

	pl.X.Tick.Label.Rotation = -math.Pi / 8
	pl.X.Tick.Label.YAlign = draw.YTop
	pl.X.Tick.Label.XAlign = draw.XLeft

	wt, err := pl.WriterTo(20*vg.Centimeter, 12*vg.Centimeter, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
