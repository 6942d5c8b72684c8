// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package domains is the external-data chapter of the examples: it
// aggregates counts by domain name over the GDELT public events data
// set on S3, writing sharded output files. It needs AWS credentials
// and network access, so CI excludes it from the smoke run.
package domains

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice/sliceio"
)

// DefaultPath is the GDELT events prefix.
const DefaultPath = "s3://gdelt-open-data/v2/events"

// sourceURLField is the GDELT v2 events column holding the report URL.
const sourceURLField = 60

// Counts reads the given event files, extracts the domain of each
// report's source URL, folds counts by domain, and writes the result
// as sharded text files under prefix.
var Counts = bigslice.Func(func(files []string, prefix string) bigslice.Slice {
	ctx := context.Background()
	type state struct {
		reader *csv.Reader
		file   file.File
	}
	slice := bigslice.ReaderFunc(len(files), func(shard int, state *state, urls []string) (n int, err error) {
		if state.file == nil {
			log.Printf("reading file %s", files[shard])
			state.file, err = file.Open(ctx, files[shard])
			if err != nil {
				return
			}
			state.reader = csv.NewReader(state.file.Reader(ctx))
			state.reader.Comma = '\t'
		}
		for i := range urls {
			fields, err := state.reader.Read()
			if err == io.EOF {
				return i, sliceio.EOF
			}
			if err != nil {
				return i, err
			}
			urls[i] = fields[sourceURLField]
		}
		return len(urls), nil
	})
	slice = bigslice.Map(slice, Domain)
	slice = bigslice.Fold(slice, func(a, e int) int { return a + e })
	slice = bigslice.Scan(slice, func(shard int, scan *sliceio.Scanner) error {
		f, err := file.Create(ctx, fmt.Sprintf("%s-%03d-of-%03d", prefix, shard, len(files)))
		if err != nil {
			return err
		}
		w := bufio.NewWriter(f.Writer(ctx))
		var (
			domain string
			count  int
		)
		for scan.Scan(ctx, &domain, &count) {
			fmt.Fprintf(w, "%s\t%d\n", domain, count)
		}
		if err := w.Flush(); err != nil {
			f.Close(ctx)
			return err
		}
		if err := f.Close(ctx); err != nil {
			return err
		}
		return scan.Err()
	})
	return slice
})

// Domain extracts the host of rawurl, counting one occurrence.
// Unparseable URLs land under "<unknown>".
func Domain(rawurl string) (domain string, count int) {
	u, err := url.Parse(rawurl)
	if err != nil || u.Host == "" {
		return "<unknown>", 1
	}
	return u.Host, 1
}

// Paths lists up to n event CSV files under base, sorted.
func Paths(ctx context.Context, base string, n int) ([]string, error) {
	var paths []string
	lst := file.List(ctx, base)
	for lst.Scan() {
		if strings.HasSuffix(lst.Path(), ".csv") {
			paths = append(paths, lst.Path())
		}
	}
	if err := lst.Err(); err != nil {
		return nil, err
	}
	sort.Strings(paths)
	if len(paths) > n {
		paths = paths[:n]
	}
	return paths, nil
}
