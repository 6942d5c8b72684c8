// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package display renders example results for human consumption: slices
// as canonically ordered, column-aligned text tables, and histograms as
// PNG plots. Evaluation is always local, so display is safe to use with
// slices whose operations share memory.
package display

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice/exec"
)

// Table evaluates slice locally and writes its rows to w, one line per
// row, columns tab-aligned, rows in canonical order. The canonical
// order makes output stable across shard counts and evaluation orders,
// which is what lets examples assert on it.
func Table(w io.Writer, slice bigslice.Slice) error {
	rows, err := materialize(slice)
	if err != nil {
		return err
	}
	canonicalize(rows)
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprintf(tw, "%v", v.Interface())
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// Print evaluates slice locally and prints its rows to standard
// output in canonical order, columns joined by single spaces,
// panicking on error. It is the form used by runnable examples, where
// expected output is written by hand.
func Print(slice bigslice.Slice) {
	rows, err := materialize(slice)
	if err != nil {
		log.Panicf("display: %v", err)
	}
	canonicalize(rows)
	for _, row := range rows {
		strs := make([]string, len(row))
		for i := range strs {
			strs[i] = fmt.Sprint(row[i].Interface())
		}
		fmt.Println(strings.Join(strs, " "))
	}
}

func materialize(slice bigslice.Slice) ([][]reflect.Value, error) {
	fn := bigslice.Func(func() bigslice.Slice { return slice })
	sess := exec.Start(exec.Local)
	defer sess.Shutdown()
	ctx := context.Background()
	res, err := sess.Run(ctx, fn)
	if err != nil {
		return nil, err
	}
	vs := make([]reflect.Value, slice.NumOut())
	args := make([]interface{}, slice.NumOut())
	for i := range vs {
		vs[i] = reflect.New(slice.Out(i))
		args[i] = vs[i].Interface()
	}
	var rows [][]reflect.Value
	scanner := res.Scanner()
	defer scanner.Close()
	for scanner.Scan(ctx, args...) {
		row := make([]reflect.Value, len(args))
		for i := range row {
			row[i] = reflect.ValueOf(reflect.Indirect(vs[i]).Interface())
		}
		rows = append(rows, row)
	}
	return rows, scanner.Err()
}

// canonicalize deep-sorts rows (and any slice-valued cells) so that
// row order is deterministic.
func canonicalize(rows [][]reflect.Value) {
	for _, row := range rows {
		for _, v := range row {
			valueCanonicalize(v)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rowLess(rows[i], rows[j]) })
}

func rowLess(lhs, rhs []reflect.Value) bool {
	for col := range lhs {
		if valueLess(lhs[col], rhs[col]) {
			return true
		}
		if valueLess(rhs[col], lhs[col]) {
			return false
		}
	}
	return false
}

func valueLess(lhs, rhs reflect.Value) bool {
	switch lhs.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lhs.Int() < rhs.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lhs.Uint() < rhs.Uint()
	case reflect.Float32, reflect.Float64:
		return lhs.Float() < rhs.Float()
	case reflect.String:
		return lhs.String() < rhs.String()
	case reflect.Slice:
		for i := 0; i < lhs.Len() && i < rhs.Len(); i++ {
			if valueLess(lhs.Index(i), rhs.Index(i)) {
				return true
			}
			if valueLess(rhs.Index(i), lhs.Index(i)) {
				return false
			}
		}
		return lhs.Len() < rhs.Len()
	case reflect.Struct:
		for i := 0; i < lhs.NumField(); i++ {
			if valueLess(lhs.Field(i), rhs.Field(i)) {
				return true
			}
			if valueLess(rhs.Field(i), lhs.Field(i)) {
				return false
			}
		}
		return false
	}
	log.Panicf("display: cannot compare %v values", lhs.Kind())
	return false
}

func valueCanonicalize(v reflect.Value) {
	if v.Kind() != reflect.Slice {
		return
	}
	for i := 0; i < v.Len(); i++ {
		valueCanonicalize(v.Index(i))
	}
	sort.SliceStable(v.Interface(), func(i, j int) bool {
		return valueLess(v.Index(i), v.Index(j))
	})
}
