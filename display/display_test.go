// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package display_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice-examples/display"
	"github.com/grailbio/testutil"
)

func TestTable(t *testing.T) {
	slice := bigslice.Const(2,
		[]int{3, 1, 2, 0},
		[]string{"three", "one", "two", "zero"},
	)
	var b bytes.Buffer
	if err := display.Table(&b, slice); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if got, want := len(lines), 4; got != want {
		t.Fatalf("got %v lines, want %v", got, want)
	}
	want := []string{"0 zero", "1 one", "2 two", "3 three"}
	for i, line := range lines {
		if got := strings.Join(strings.Fields(line), " "); got != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got, want[i])
		}
	}
}

func ExamplePrint() {
	slice := bigslice.Const(2,
		[]string{"boston", "akron", "chicago"},
		[]float64{2.5, 1.5, 3},
	)
	display.Print(slice)
	// Output:
	// akron 1.5
	// boston 2.5
	// chicago 3
}

func TestTableCanonicalOrder(t *testing.T) {
	const N = 1000
	fz := fuzz.New().NilChance(0).NumElements(N, N)
	var (
		ints   []int
		floats []float64
	)
	fz.Fuzz(&ints)
	fz.Fuzz(&floats)
	var b bytes.Buffer
	if err := display.Table(&b, bigslice.Const(7, ints, floats)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if got, want := len(lines), N; got != want {
		t.Fatalf("got %v lines, want %v", got, want)
	}
	var prev int64
	for i, line := range lines {
		fields := strings.Fields(line)
		if got, want := len(fields), 2; got != want {
			t.Fatalf("line %d: got %v columns, want %v", i, got, want)
		}
		v, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			t.Fatal(err)
		}
		if i > 0 && v < prev {
			t.Fatalf("line %d: %v out of order after %v", i, v, prev)
		}
		prev = v
	}
}

func TestSaveHistogram(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(dir, "hist.png")
	counts := []int{1, 4, 9, 4, 1}
	edges := []float64{0, 1, 2, 3, 4, 5}
	if err := display.SaveHistogram("test", counts, edges, path); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty plot file")
	}
}

func TestSaveHistogramBadEdges(t *testing.T) {
	err := display.SaveHistogram("bad", []int{1, 2}, []float64{0, 1}, "unused.png")
	if err == nil {
		t.Fatal("expected error for mismatched edges")
	}
}
