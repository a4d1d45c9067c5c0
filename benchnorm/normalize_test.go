// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchnorm

import (
	"errors"
	"testing"

	"github.com/CryxosMarco/benchmark-results/benchraw"
)

func sample(rtos, config, primitive, metric string, value float64, unit string) benchraw.RawSample {
	return benchraw.RawSample{
		RTOS:      rtos,
		ConfigID:  config,
		Primitive: primitive,
		Metric:    metric,
		Value:     value,
		Unit:      unit,
	}
}

func TestNormalizeSynonyms(t *testing.T) {
	samples := []benchraw.RawSample{
		sample("freertos", "freertos_default", "sem_wait", "latency", 12.5, "us"),
		sample("zephyr", "zephyr_default", "semaphore-pend", "latency", 9, "us"),
		sample("threadx", "threadx_default", "synchronization_processing", "time_period_total", 185, "ops/period"),
	}
	ds, warnings, err := Normalize(samples, DefaultVocabulary())
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("got warnings %v, want none", warnings)
	}
	if ds.Len() != len(samples) {
		t.Fatalf("got %d records, want %d", ds.Len(), len(samples))
	}
	// All three spellings fold to "semaphore", still distinguished by
	// RTOS and config.
	for _, r := range ds.Records {
		if r.Primitive != "semaphore" {
			t.Errorf("primitive = %q, want semaphore", r.Primitive)
		}
	}
	if got := ds.Records[0]; got.Value != 12500 || got.Unit != "ns" {
		t.Errorf("us record = %v %s, want 12500 ns", got.Value, got.Unit)
	}
	if got := ds.Records[2]; got.Metric != "throughput" || got.Value != 185 || got.Unit != "count" {
		t.Errorf("throughput record = %+v, want 185 count", got)
	}
	idx := ds.Lookup(Key{"zephyr", "zephyr_default", "semaphore", "latency"})
	if len(idx) != 1 || ds.Records[idx[0]].Value != 9000 {
		t.Errorf("lookup = %v, want one record of 9000", idx)
	}
}

func TestNormalizeUnknownNames(t *testing.T) {
	samples := []benchraw.RawSample{
		sample("freertos", "freertos_default", "rpc_call", "latency", 5, "us"),
		sample("freertos", "freertos_default", "sem_wait", "retire_rate", 3, "count"),
	}
	ds, warnings, err := Normalize(samples, DefaultVocabulary())
	if err != nil {
		t.Fatal(err)
	}
	// Nothing is dropped: one record per sample, unknown names kept
	// under a synthesized name and warned about.
	if ds.Len() != len(samples) {
		t.Fatalf("got %d records, want %d", ds.Len(), len(samples))
	}
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
	var w *Warning
	if !errors.As(warnings[0], &w) {
		t.Fatalf("warning has type %T, want *Warning", warnings[0])
	}
	if w.Kind != "primitive" || w.Raw != "rpc_call" || w.Kept != "other:rpc_call" {
		t.Errorf("warning = %+v", w)
	}
	if ds.Records[0].Primitive != "other:rpc_call" {
		t.Errorf("primitive = %q, want other:rpc_call", ds.Records[0].Primitive)
	}
	if ds.Records[1].Metric != "other:retire_rate" {
		t.Errorf("metric = %q, want other:retire_rate", ds.Records[1].Metric)
	}
}

func TestNormalizeUnconvertibleUnit(t *testing.T) {
	samples := []benchraw.RawSample{
		sample("freertos", "freertos_default", "sem_wait", "latency", 5, "furlongs"),
	}
	_, _, err := Normalize(samples, DefaultVocabulary())
	var ue *UnconvertibleUnitError
	if !errors.As(err, &ue) {
		t.Fatalf("got %v, want UnconvertibleUnitError", err)
	}
	if ue.Unit != "furlongs" || ue.Metric != "latency" {
		t.Errorf("error = %+v", ue)
	}
}

func TestMergeUnitConflict(t *testing.T) {
	vocabNS := DefaultVocabulary()
	vocabUS := DefaultVocabulary()
	vocabUS.Units = map[string]UnitConversion{"us": {"us", 1}}

	a, _, err := Normalize([]benchraw.RawSample{
		sample("freertos", "freertos_default", "sem_wait", "latency", 5, "us"),
	}, vocabNS)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Normalize([]benchraw.RawSample{
		sample("zephyr", "zephyr_default", "sem_wait", "latency", 7, "us"),
	}, vocabUS)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Merge(b); err == nil {
		t.Fatal("merge of conflicting units succeeded, want error")
	}

	c, _, err := Normalize([]benchraw.RawSample{
		sample("zephyr", "zephyr_default", "sem_wait", "latency", 7, "us"),
	}, vocabNS)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Merge(c); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 2 || a.Unit("latency") != "ns" {
		t.Errorf("merged dataset: len %d unit %q, want 2 ns", a.Len(), a.Unit("latency"))
	}
}
