// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"html/template"
	"io"
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/CryxosMarco/benchmark-results/benchagg"
)

var htmlTemplate = template.Must(template.New("summary").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Benchmark Result Comparison</title>
<style>
.summary { border-collapse: collapse; }
.summary th, .summary td { border: 1px solid #ccc; padding: 0.2em 0.6em; }
.summary th { border-bottom: 1px solid #666; text-align: left; }
.summary td:nth-child(n+6) { text-align: right; }
.summary tr.geomean td { border-top: 1px solid #666; font-style: italic; }
</style>
</head>
<body>
<table class='summary'>
<tr>{{range .Header}}<th>{{.}}{{end}}</tr>
{{range .Rows -}}
<tr>{{range .}}<td>{{.}}{{end}}</tr>
{{end -}}
{{range .Geomeans -}}
<tr class='geomean'><td colspan="{{$.KeyCols}}">geomean {{.Metric}}</td><td>{{.Unit}}</td><td></td><td>{{.Value}}</td></tr>
{{end -}}
</table>
</body>
</html>
`))

type htmlSummary struct {
	Header   []string
	Rows     [][]string
	Geomeans []htmlGeomean

	// KeyCols is the number of group-key columns at the start of
	// Header; the geomean label cell spans them.
	KeyCols int
}

type htmlGeomean struct {
	Metric, Unit, Value string
}

func writeSummaryHTML(w io.Writer, aggs []benchagg.AggregateStat) error {
	data := htmlSummary{Header: summaryHeader()}
	for i, h := range data.Header {
		if h == "unit" {
			data.KeyCols = i
			break
		}
	}
	means := make(map[string][]float64)
	units := make(map[string]string)
	var metrics []string
	for i := range aggs {
		s := &aggs[i]
		data.Rows = append(data.Rows, summaryRow(s))
		m := s.Group.Metric
		if _, ok := means[m]; !ok {
			metrics = append(metrics, m)
			units[m] = s.Unit
		}
		means[m] = append(means[m], s.Mean)
	}
	for _, m := range metrics {
		g := stats.GeoMean(means[m])
		if math.IsNaN(g) {
			// Zero or negative means have no geometric mean.
			continue
		}
		data.Geomeans = append(data.Geomeans, htmlGeomean{m, units[m], strof(g)})
	}
	return htmlTemplate.Execute(w, data)
}
