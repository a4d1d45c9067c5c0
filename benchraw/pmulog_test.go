// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchraw

import (
	"errors"
	"testing"
)

const pmuLog = `Profile Point: 1
Cycle Count: 450
ICache Miss: 12
DCache Access: 300
DCache Miss: 8

Profile Point: 2
Cycle Count: 100
DCache Miss: 5
`

func TestPMULogParse(t *testing.T) {
	rd := writeTestDir(t, "zephyr_tickless", map[string]string{
		"zephyr_critical_section_test.txt": pmuLog,
	})
	samples, err := pmuLogAdapter{}.Parse(rd)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 6 {
		t.Fatalf("got %d samples, want 6", len(samples))
	}
	if samples[0].Metric != "cycle_count" || samples[0].Unit != "cycles" || samples[0].Value != 450 {
		t.Errorf("sample 0 = %+v, want cycle_count 450 cycles", samples[0])
	}
	for _, s := range samples {
		if s.Primitive != "critical_section" {
			t.Errorf("primitive = %q, want critical_section", s.Primitive)
		}
	}
}

func TestPMULogCalibration(t *testing.T) {
	rd := writeTestDir(t, "zephyr_tickless", map[string]string{
		"zephyr_critical_section_test.txt": pmuLog,
		"calibration.csv":                  "metric,overhead\ncycle_count,150\n",
	})
	samples, err := pmuLogAdapter{}.Parse(rd)
	if err != nil {
		t.Fatal(err)
	}
	var cycles []float64
	for _, s := range samples {
		if s.Metric == "cycle_count" {
			cycles = append(cycles, s.Value)
		}
	}
	// 450-150 = 300; 100-150 clamps to 0.
	if len(cycles) != 2 || cycles[0] != 300 || cycles[1] != 0 {
		t.Errorf("calibrated cycle counts = %v, want [300 0]", cycles)
	}
	// Uncalibrated counters are untouched.
	for _, s := range samples {
		if s.Metric == "icache_miss" && s.Value != 12 {
			t.Errorf("icache_miss = %v, want 12", s.Value)
		}
	}
}

func TestPMULogMalformed(t *testing.T) {
	for _, test := range []struct {
		name  string
		files map[string]string
	}{
		{
			"counter",
			map[string]string{"zephyr_critical_section_test.txt": "Profile Point: 1\nCycle Count: banana\n"},
		},
		{
			"calibration",
			map[string]string{
				"zephyr_critical_section_test.txt": pmuLog,
				"calibration.csv":                  "metric,overhead\ncycle_count,many\n",
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			rd := writeTestDir(t, "zephyr_tickless", test.files)
			_, err := pmuLogAdapter{}.Parse(rd)
			var mre *MalformedRecordError
			if !errors.As(err, &mre) {
				t.Fatalf("got %v, want MalformedRecordError", err)
			}
		})
	}
}
