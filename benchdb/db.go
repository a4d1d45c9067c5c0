// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchdb archives a normalized benchmark dataset in a SQLite
// database for downstream ad-hoc querying.
//
// The archive is a convenience output, not pipeline state: each run
// rewrites the archived records wholesale from its own dataset.
package benchdb

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/CryxosMarco/benchmark-results/benchnorm"
)

// DB is an open archive database.
type DB struct {
	sql *sql.DB
	// prepared statements
	insertRecord *sql.Stmt
}

const createStmts = `
CREATE TABLE IF NOT EXISTS Runs (
	RunID INTEGER PRIMARY KEY AUTOINCREMENT,
	InputRoot TEXT
);
CREATE TABLE IF NOT EXISTS Records (
	RunID INTEGER,
	RTOS VARCHAR(255),
	Config VARCHAR(255),
	Primitive VARCHAR(255),
	Metric VARCHAR(255),
	Value DOUBLE,
	Unit VARCHAR(255),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS RecordsKey ON Records(RTOS, Config, Primitive, Metric);
`

// OpenSQLite opens the archive at path, creating the file and any
// missing tables as needed.
func OpenSQLite(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	d := &DB{sql: db}
	if err := d.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	d.insertRecord, err = db.Prepare(
		"INSERT INTO Records(RunID, RTOS, Config, Primitive, Metric, Value, Unit) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (db *DB) createTables() error {
	for _, q := range strings.Split(createStmts, ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.insertRecord != nil {
		db.insertRecord.Close()
	}
	return db.sql.Close()
}

// WriteDataset archives ds as one run in a single transaction. The
// inputRoot labels the run for later inspection.
func (db *DB) WriteDataset(inputRoot string, ds *benchnorm.Dataset) error {
	tx, err := db.sql.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT INTO Runs(InputRoot) VALUES (?)", inputRoot)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	insert := tx.Stmt(db.insertRecord)
	for i := range ds.Records {
		r := &ds.Records[i]
		if _, err := insert.Exec(runID, r.RTOS, r.Config, r.Primitive, r.Metric, r.Value, r.Unit); err != nil {
			return err
		}
	}
	return tx.Commit()
}
