// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchagg computes grouped descriptive statistics over a
// normalized benchmark dataset.
//
// Aggregation is a pure function of the dataset: statistics are
// recomputed from the records on every call and are order-independent
// with respect to the record order, which allows directories to be
// ingested in parallel upstream.
package benchagg

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-moremath/stats"

	"github.com/CryxosMarco/benchmark-results/benchnorm"
)

// The fields of the grouping key.
const (
	FieldRTOS      = "rtos"
	FieldConfig    = "config"
	FieldPrimitive = "primitive"
	FieldMetric    = "metric"
)

// DefaultGroupBy is the full grouping key.
var DefaultGroupBy = []string{FieldRTOS, FieldConfig, FieldPrimitive, FieldMetric}

// ParseGroupBy parses a comma-separated grouping expression such as
// "rtos,primitive,metric" into an ordered field list.
func ParseGroupBy(expr string) ([]string, error) {
	if expr == "" {
		return DefaultGroupBy, nil
	}
	fields := strings.Split(expr, ",")
	seen := make(map[string]bool)
	for _, f := range fields {
		switch f {
		case FieldRTOS, FieldConfig, FieldPrimitive, FieldMetric:
			// ok
		default:
			return nil, fmt.Errorf("unknown grouping field %q", f)
		}
		if seen[f] {
			return nil, fmt.Errorf("duplicate grouping field %q", f)
		}
		seen[f] = true
	}
	return fields, nil
}

// A GroupKey identifies one aggregation group. Fields not named in the
// grouping are empty.
type GroupKey struct {
	RTOS      string
	Config    string
	Primitive string
	Metric    string
}

// String returns the key as space-separated field:value pairs in field
// order, omitting empty fields.
func (k GroupKey) String() string {
	buf := new(strings.Builder)
	add := func(field, val string) {
		if val == "" {
			return
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(field)
		buf.WriteByte(':')
		buf.WriteString(val)
	}
	add(FieldRTOS, k.RTOS)
	add(FieldConfig, k.Config)
	add(FieldPrimitive, k.Primitive)
	add(FieldMetric, k.Metric)
	return buf.String()
}

// DefaultPercentiles are the percentile ranks reported by Aggregate.
var DefaultPercentiles = []float64{50, 90, 95, 99}

// An AggregateStat holds the descriptive statistics of one group. It
// is derived, read-only data: the underlying records remain the source
// of truth.
type AggregateStat struct {
	Group GroupKey

	// Unit is the canonical unit shared by the group's records, or
	// "" if the grouping merged metrics with different units.
	Unit string

	Count        int
	Mean, Stddev float64
	Min, Max     float64

	// Jitter is Max-Min; JitterPct is Jitter as a percentage of
	// Mean (0 when Mean is 0).
	Jitter, JitterPct float64

	// Percentiles maps percentile rank (0-100) to value, one entry
	// per DefaultPercentiles rank.
	Percentiles map[float64]float64
}

// An accumulator folds values into running moments using Welford's
// online algorithm, so the result does not drift with input order.
type accumulator struct {
	n        int
	mean, m2 float64
	values   []float64
	unit     string
	mixed    bool
}

func (a *accumulator) add(v float64, unit string) {
	a.n++
	delta := v - a.mean
	a.mean += delta / float64(a.n)
	a.m2 += delta * (v - a.mean)
	a.values = append(a.values, v)
	if a.n == 1 {
		a.unit = unit
	} else if a.unit != unit {
		a.mixed = true
	}
}

// Aggregate computes one AggregateStat per group, grouping records by
// the given ordered subset of key fields (DefaultGroupBy if nil).
// Groups with no records never appear. The output is sorted by group
// key, so identical datasets always aggregate to identical output.
func Aggregate(ds *benchnorm.Dataset, groupBy []string) ([]AggregateStat, error) {
	if groupBy == nil {
		groupBy = DefaultGroupBy
	}
	want := make(map[string]bool, len(groupBy))
	for _, f := range groupBy {
		switch f {
		case FieldRTOS, FieldConfig, FieldPrimitive, FieldMetric:
			want[f] = true
		default:
			return nil, fmt.Errorf("unknown grouping field %q", f)
		}
	}

	accs := make(map[GroupKey]*accumulator)
	for i := range ds.Records {
		r := &ds.Records[i]
		var k GroupKey
		if want[FieldRTOS] {
			k.RTOS = r.RTOS
		}
		if want[FieldConfig] {
			k.Config = r.Config
		}
		if want[FieldPrimitive] {
			k.Primitive = r.Primitive
		}
		if want[FieldMetric] {
			k.Metric = r.Metric
		}
		acc := accs[k]
		if acc == nil {
			acc = new(accumulator)
			accs[k] = acc
		}
		acc.add(r.Value, r.Unit)
	}

	out := make([]AggregateStat, 0, len(accs))
	for k, acc := range accs {
		out = append(out, finalize(k, acc))
	}
	sort.Slice(out, func(i, j int) bool {
		return less(out[i].Group, out[j].Group)
	})
	return out, nil
}

func finalize(k GroupKey, acc *accumulator) AggregateStat {
	sort.Float64s(acc.values)
	min, max := stats.Bounds(acc.values)

	// The unbiased n-1 estimator; a single observation has no
	// spread, so its stddev is reported as exactly 0.
	stddev := 0.0
	if acc.n > 1 {
		stddev = math.Sqrt(acc.m2 / float64(acc.n-1))
	}

	pcts := make(map[float64]float64, len(DefaultPercentiles))
	for _, p := range DefaultPercentiles {
		pcts[p] = percentile(acc.values, p)
	}

	unit := acc.unit
	if acc.mixed {
		unit = ""
	}
	jitter := max - min
	jitterPct := 0.0
	if acc.mean != 0 {
		jitterPct = jitter / acc.mean * 100
	}
	return AggregateStat{
		Group:       k,
		Unit:        unit,
		Count:       acc.n,
		Mean:        acc.mean,
		Stddev:      stddev,
		Min:         min,
		Max:         max,
		Jitter:      jitter,
		JitterPct:   jitterPct,
		Percentiles: pcts,
	}
}

// percentile returns the p'th percentile (0-100) of sorted values
// using linear interpolation between adjacent order statistics.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func less(a, b GroupKey) bool {
	if a.RTOS != b.RTOS {
		return a.RTOS < b.RTOS
	}
	if a.Config != b.Config {
		return a.Config < b.Config
	}
	if a.Primitive != b.Primitive {
		return a.Primitive < b.Primitive
	}
	return a.Metric < b.Metric
}
