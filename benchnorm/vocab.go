// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchnorm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// A Vocabulary is the declarative mapping from dialect-specific
// spellings to the canonical schema: synonym tables for primitive and
// metric names and a conversion table for units. A Vocabulary is
// immutable after construction and passed explicitly to Normalize, so
// tests can substitute alternate tables without touching any process
// state.
type Vocabulary struct {
	// Primitives and Metrics map raw spellings to canonical names.
	Primitives map[string]string `yaml:"primitives"`
	Metrics    map[string]string `yaml:"metrics"`

	// Units maps a raw unit to its canonical unit and the factor
	// that converts a value into it.
	Units map[string]UnitConversion `yaml:"units"`
}

// A UnitConversion rescales a raw unit into a canonical one.
type UnitConversion struct {
	To     string  `yaml:"to"`
	Factor float64 `yaml:"factor"`
}

// DefaultVocabulary returns the built-in vocabulary. Time is
// canonically nanoseconds; cycle counters stay in cycles; dimensionless
// work counters collapse to "count".
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Primitives: map[string]string{
			"sem_wait":                       "semaphore",
			"sem_post":                       "semaphore",
			"semaphore-pend":                 "semaphore",
			"semaphore_processing":           "semaphore",
			"synchronization_processing":     "semaphore",
			"mutex_lock":                     "mutex",
			"mutex_processing":               "mutex",
			"message_processing":             "message_queue",
			"queue_send":                     "message_queue",
			"message_isr_send_recv":          "message_queue",
			"event_flags":                    "event_flags",
			"critical_section":               "critical_section",
			"context_switch":                 "context_switch",
			"context_switching":              "context_switch",
			"preemptive_scheduling":          "scheduler_preemptive",
			"cooperative_scheduling":         "scheduler_cooperative",
			"interrupt_processing":           "interrupt",
			"interrupt_preemption":           "interrupt_preemption",
			"memory_allocation":              "memory_pool",
			"basic_single_thread_processing": "baseline",
			"task_synchronisation":           "semaphore",
			"inheritance":                    "mutex_inheritance",
		},
		Metrics: map[string]string{
			"time_period_total": "throughput",
			"throughput":        "throughput",
			"latency":           "latency",
			"wakeup_latency":    "latency",
			"cycle_count":       "cycle_count",
			"icache_miss":       "icache_miss",
			"dcache_access":     "dcache_access",
			"dcache_miss":       "dcache_miss",
			"jitter":            "jitter",
		},
		Units: map[string]UnitConversion{
			"ns":         {"ns", 1},
			"us":         {"ns", 1e3},
			"µs":         {"ns", 1e3},
			"ms":         {"ns", 1e6},
			"s":          {"ns", 1e9},
			"sec":        {"ns", 1e9},
			"cycles":     {"cycles", 1},
			"count":      {"count", 1},
			"ops/period": {"count", 1},
		},
	}
}

// LoadVocabulary reads a YAML vocabulary file. Sections omitted from
// the file fall back to the built-in defaults, so a file may override
// just the primitive synonyms, for example.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v := new(Vocabulary)
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	def := DefaultVocabulary()
	if v.Primitives == nil {
		v.Primitives = def.Primitives
	}
	if v.Metrics == nil {
		v.Metrics = def.Metrics
	}
	if v.Units == nil {
		v.Units = def.Units
	}
	return v, nil
}
