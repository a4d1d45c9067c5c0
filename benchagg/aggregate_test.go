// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"math"
	"math/rand"
	"testing"

	"github.com/CryxosMarco/benchmark-results/benchnorm"
)

func dataset(t *testing.T, records ...benchnorm.Record) *benchnorm.Dataset {
	t.Helper()
	ds := benchnorm.NewDataset()
	other := benchnorm.NewDataset()
	other.Records = records
	if err := ds.Merge(other); err != nil {
		t.Fatal(err)
	}
	return ds
}

func record(rtos, config, primitive, metric string, value float64, unit string) benchnorm.Record {
	return benchnorm.Record{RTOS: rtos, Config: config, Primitive: primitive, Metric: metric, Value: value, Unit: unit}
}

func TestAggregate(t *testing.T) {
	var records []benchnorm.Record
	// 100 throughput observations, 120..180 cycling in steps of 20.
	for i := 0; i < 100; i++ {
		records = append(records, record("threadx", "threadx_default", "semaphore", "throughput",
			float64(120+20*(i%4)), "count"))
	}
	ds := dataset(t, records...)
	res, err := Aggregate(ds, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Fatalf("got %d groups, want 1", len(res))
	}
	st := res[0]
	if st.Group.RTOS != "threadx" || st.Group.Metric != "throughput" {
		t.Errorf("group = %v", st.Group)
	}
	if st.Count != 100 || st.Unit != "count" {
		t.Errorf("count %d unit %q, want 100 count", st.Count, st.Unit)
	}
	if math.Abs(st.Mean-150) > 1e-9 || st.Min != 120 || st.Max != 180 {
		t.Errorf("mean %v min %v max %v, want 150 120 180", st.Mean, st.Min, st.Max)
	}
	if st.Jitter != 60 || math.Abs(st.JitterPct-40) > 1e-9 {
		t.Errorf("jitter %v (%v%%), want 60 (40%%)", st.Jitter, st.JitterPct)
	}
	if got := st.Group.String(); got != "rtos:threadx config:threadx_default primitive:semaphore metric:throughput" {
		t.Errorf("key string = %q", got)
	}
}

func TestAggregateSingleObservation(t *testing.T) {
	ds := dataset(t, record("zephyr", "zephyr_default", "mutex", "latency", 42, "ns"))
	res, err := Aggregate(ds, nil)
	if err != nil {
		t.Fatal(err)
	}
	st := res[0]
	if st.Stddev != 0 {
		t.Errorf("stddev = %v, want exactly 0", st.Stddev)
	}
	if st.Min != 42 || st.Max != 42 || st.Mean != 42 || st.Jitter != 0 {
		t.Errorf("stat = %+v, want all 42 and zero jitter", st)
	}
	for p, v := range st.Percentiles {
		if v != 42 {
			t.Errorf("p%v = %v, want 42", p, v)
		}
	}
}

func TestAggregateOrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var records []benchnorm.Record
	for i := 0; i < 200; i++ {
		records = append(records, record("freertos", "freertos_default", "semaphore", "latency",
			1000+rng.Float64()*500, "ns"))
	}
	ds1 := dataset(t, records...)
	shuffled := make([]benchnorm.Record, len(records))
	copy(shuffled, records)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	ds2 := dataset(t, shuffled...)

	res1, err := Aggregate(ds1, nil)
	if err != nil {
		t.Fatal(err)
	}
	res2, err := Aggregate(ds2, nil)
	if err != nil {
		t.Fatal(err)
	}
	a, b := res1[0], res2[0]
	approx := func(name string, x, y float64) {
		if math.Abs(x-y) > 1e-9 {
			t.Errorf("%s differs across orders: %v vs %v", name, x, y)
		}
	}
	approx("mean", a.Mean, b.Mean)
	approx("stddev", a.Stddev, b.Stddev)
	approx("p99", a.Percentiles[99], b.Percentiles[99])
	if a.Min != b.Min || a.Max != b.Max {
		t.Errorf("bounds differ across orders")
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	for _, test := range []struct {
		p, want float64
	}{
		{0, 1},
		{50, 2.5},
		{90, 3.7},
		{100, 4},
	} {
		if got := percentile(sorted, test.p); math.Abs(got-test.want) > 1e-12 {
			t.Errorf("percentile(%v) = %v, want %v", test.p, got, test.want)
		}
	}
}

func TestAggregateGrouping(t *testing.T) {
	ds := dataset(t,
		record("freertos", "freertos_default", "semaphore", "latency", 10, "ns"),
		record("freertos", "freertos_mpu", "semaphore", "latency", 20, "ns"),
		record("zephyr", "zephyr_default", "semaphore", "latency", 30, "ns"),
	)

	// Full key: three groups.
	res, err := Aggregate(ds, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 3 {
		t.Fatalf("full key: got %d groups, want 3", len(res))
	}

	// Dropping config merges the two freertos configurations.
	groupBy, err := ParseGroupBy("rtos,primitive,metric")
	if err != nil {
		t.Fatal(err)
	}
	res, err = Aggregate(ds, groupBy)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Fatalf("coarse key: got %d groups, want 2", len(res))
	}
	if res[0].Group.RTOS != "freertos" || res[0].Count != 2 || res[0].Mean != 15 {
		t.Errorf("freertos group = %+v, want count 2 mean 15", res[0])
	}
	if res[0].Group.Config != "" {
		t.Errorf("dropped field is non-empty: %q", res[0].Group.Config)
	}
}

func TestParseGroupByErrors(t *testing.T) {
	for _, expr := range []string{"rtos,flavor", "rtos,rtos"} {
		if _, err := ParseGroupBy(expr); err == nil {
			t.Errorf("ParseGroupBy(%q) succeeded, want error", expr)
		}
	}
	fields, err := ParseGroupBy("")
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 4 {
		t.Errorf("empty expression = %v, want the full key", fields)
	}
}
