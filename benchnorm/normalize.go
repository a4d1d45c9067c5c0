// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchnorm merges raw benchmark samples into one unified
// dataset with canonical primitive/metric naming and consistent units.
//
// Normalization never drops samples: every raw sample maps to exactly
// one normalized record. Unrecognized names are reclassified under a
// synthesized name and reported as warnings; only a unit that cannot
// be converted is a hard error, since statistics over mixed scales
// would be silently wrong.
package benchnorm

import (
	"fmt"

	"github.com/CryxosMarco/benchmark-results/benchraw"
)

// A Record is one normalized measurement.
type Record struct {
	RTOS      string
	Config    string
	Primitive string
	Metric    string
	Value     float64

	// Unit is the canonical unit for Metric; it is identical across
	// every Record of the same Metric in a Dataset.
	Unit string
}

// A Key is the full composite key of a Record.
type Key struct {
	RTOS      string
	Config    string
	Primitive string
	Metric    string
}

// A Dataset is an ordered sequence of Records indexed by the full
// composite key. It is owned by a single pipeline run and not reused
// across runs.
type Dataset struct {
	Records []Record

	index  map[Key][]int
	unitOf map[string]string // metric -> canonical unit
}

// NewDataset returns an empty Dataset.
func NewDataset() *Dataset {
	return &Dataset{
		index:  make(map[Key][]int),
		unitOf: make(map[string]string),
	}
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// Lookup returns the indices into Records for the given key.
func (d *Dataset) Lookup(k Key) []int { return d.index[k] }

// Unit returns the canonical unit of metric, or "" if the dataset has
// no records for it.
func (d *Dataset) Unit(metric string) string { return d.unitOf[metric] }

func (d *Dataset) add(r Record) error {
	if have, ok := d.unitOf[r.Metric]; ok {
		if have != r.Unit {
			return fmt.Errorf("metric %s has conflicting canonical units %s and %s", r.Metric, have, r.Unit)
		}
	} else {
		d.unitOf[r.Metric] = r.Unit
	}
	k := Key{r.RTOS, r.Config, r.Primitive, r.Metric}
	d.index[k] = append(d.index[k], len(d.Records))
	d.Records = append(d.Records, r)
	return nil
}

// Merge appends the records of other to d. It fails if the two
// datasets disagree on the canonical unit of any metric.
func (d *Dataset) Merge(other *Dataset) error {
	for _, r := range other.Records {
		if err := d.add(r); err != nil {
			return err
		}
	}
	return nil
}

// A Warning reports a raw name that is not in the vocabulary. The
// sample is kept under the synthesized name rather than dropped.
type Warning struct {
	FileName string
	Line     int
	Kind     string // "primitive" or "metric"
	Raw      string
	Kept     string
}

func (w *Warning) Error() string {
	return fmt.Sprintf("%s:%d: unrecognized %s name %q kept as %q", w.FileName, w.Line, w.Kind, w.Raw, w.Kept)
}

// An UnconvertibleUnitError reports a raw unit with no conversion to a
// canonical unit. It aborts the offending directory's normalization.
type UnconvertibleUnitError struct {
	Unit     string
	Metric   string
	FileName string
	Line     int
}

func (e *UnconvertibleUnitError) Error() string {
	return fmt.Sprintf("%s:%d: no conversion for unit %q of metric %s", e.FileName, e.Line, e.Unit, e.Metric)
}

// Normalize maps every sample to exactly one Record. The returned
// warnings list one entry per unrecognized primitive or metric name;
// those samples are kept under a synthesized "other:" name. The record
// count always equals the sample count on success.
func Normalize(samples []benchraw.RawSample, vocab *Vocabulary) (*Dataset, []error, error) {
	ds := NewDataset()
	var warnings []error
	for i := range samples {
		s := &samples[i]
		file, line := s.Pos()

		primitive, ok := vocab.Primitives[s.Primitive]
		if !ok {
			primitive = "other:" + s.Primitive
			warnings = append(warnings, &Warning{file, line, "primitive", s.Primitive, primitive})
		}
		metric, ok := vocab.Metrics[s.Metric]
		if !ok {
			metric = "other:" + s.Metric
			warnings = append(warnings, &Warning{file, line, "metric", s.Metric, metric})
		}
		conv, ok := vocab.Units[s.Unit]
		if !ok {
			return nil, warnings, &UnconvertibleUnitError{s.Unit, metric, file, line}
		}

		err := ds.add(Record{
			RTOS:      s.RTOS,
			Config:    s.ConfigID,
			Primitive: primitive,
			Metric:    metric,
			Value:     s.Value * conv.Factor,
			Unit:      conv.To,
		})
		if err != nil {
			return nil, warnings, err
		}
	}
	return ds, warnings, nil
}
