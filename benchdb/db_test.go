// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchdb

import (
	"path/filepath"
	"testing"

	"github.com/CryxosMarco/benchmark-results/benchnorm"
)

func TestWriteDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ds := benchnorm.NewDataset()
	other := benchnorm.NewDataset()
	other.Records = []benchnorm.Record{
		{RTOS: "freertos", Config: "freertos_default", Primitive: "semaphore", Metric: "latency", Value: 1200, Unit: "ns"},
		{RTOS: "zephyr", Config: "zephyr_default", Primitive: "semaphore", Metric: "latency", Value: 900, Unit: "ns"},
	}
	if err := ds.Merge(other); err != nil {
		t.Fatal(err)
	}
	if err := db.WriteDataset("/data/results", ds); err != nil {
		t.Fatal(err)
	}
	// A second run appends under its own run ID.
	if err := db.WriteDataset("/data/results", ds); err != nil {
		t.Fatal(err)
	}

	var runs, records int
	if err := db.sql.QueryRow("SELECT COUNT(*) FROM Runs").Scan(&runs); err != nil {
		t.Fatal(err)
	}
	if err := db.sql.QueryRow("SELECT COUNT(*) FROM Records").Scan(&records); err != nil {
		t.Fatal(err)
	}
	if runs != 2 || records != 4 {
		t.Errorf("runs %d records %d, want 2 and 4", runs, records)
	}

	var value float64
	err = db.sql.QueryRow(
		"SELECT Value FROM Records WHERE RTOS = ? AND RunID = 1", "zephyr").Scan(&value)
	if err != nil {
		t.Fatal(err)
	}
	if value != 900 {
		t.Errorf("zephyr value = %v, want 900", value)
	}
}
