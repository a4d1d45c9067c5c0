// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Syncstat analyzes captured RTOS synchronization-benchmark results.
//
// Usage:
//
//	syncstat [-group keys] [-dialect name] [-vocab file] [-db file] input-root output-root
//
// The input root contains one subdirectory per RTOS/configuration
// combination, named "<rtos>_<variant>" (for example "threadx_default"
// or "zephyr_tickless"). Each subdirectory holds raw result files in
// one of the supported dialects; the dialect is detected from file
// signatures, or forced for every directory with -dialect when a
// directory's files match more than one.
//
// Syncstat normalizes all measurements to canonical primitive/metric
// names and units, computes per-group descriptive statistics, and
// writes comparison charts plus summary.csv and summary.html into the
// output root. Directories that fail to parse are reported and skipped;
// the exit status is zero only if every directory was ingested.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/CryxosMarco/benchmark-results/benchagg"
	"github.com/CryxosMarco/benchmark-results/benchnorm"
	"github.com/CryxosMarco/benchmark-results/benchpipe"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: syncstat [options] input-root output-root\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

var (
	flagGroup   = flag.String("group", "", "group statistics by comma-separated `keys` (default rtos,config,primitive,metric)")
	flagDialect = flag.String("dialect", "", "force this raw-result `dialect` for all directories (threadmetric, pmulog, csvtable)")
	flagVocab   = flag.String("vocab", "", "load the synonym/unit vocabulary from YAML `file`")
	flagDB      = flag.String("db", "", "also archive the normalized dataset in SQLite `file`")
)

func main() {
	log.SetPrefix("syncstat: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
	}

	groupBy, err := benchagg.ParseGroupBy(*flagGroup)
	if err != nil {
		log.Fatal(err)
	}
	vocab := benchnorm.DefaultVocabulary()
	if *flagVocab != "" {
		vocab, err = benchnorm.LoadVocabulary(*flagVocab)
		if err != nil {
			log.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	status, err := benchpipe.Run(ctx, benchpipe.RunDescriptor{
		InputRoot:   flag.Arg(0),
		OutputRoot:  flag.Arg(1),
		GroupBy:     groupBy,
		Dialect:     *flagDialect,
		Vocabulary:  vocab,
		ArchivePath: *flagDB,
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, w := range status.Warnings {
		log.Print("warning: ", w)
	}
	log.Printf("%d records, %d artifacts written to %s", status.Records, len(status.Artifacts), flag.Arg(1))
	if status.Failed() {
		for _, de := range status.DirErrors {
			log.Print("failed: ", de)
		}
		log.Printf("%d of %d directories failed", len(status.DirErrors), status.Dirs)
		os.Exit(1)
	}
}
