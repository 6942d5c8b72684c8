// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package arrays_test

import (
	"math"
	"testing"

	"github.com/grailbio/bigslice-examples/arrays"
	"github.com/grailbio/bigslice-examples/datagen"
	"github.com/grailbio/bigslice/slicetest"
	"gonum.org/v1/gonum/stat"
)

const (
	nblock    = 32
	blocksize = 100
)

func flat() []float64 {
	vals := make([]float64, nblock*blocksize)
	for i := range vals {
		vals[i] = datagen.Value(i)
	}
	return vals
}

func TestBlockMoments(t *testing.T) {
	var (
		keys    []string
		moments []arrays.Moments
	)
	blocks := datagen.Blocks(4, nblock, blocksize)
	slicetest.RunAndScan(t, arrays.BlockMoments(blocks), &keys, &moments)
	if got, want := len(moments), 1; got != want {
		t.Fatalf("got %v rows, want %v", got, want)
	}
	vals := flat()
	mean, variance := stat.MeanVariance(vals, nil)
	m := moments[0]
	if got, want := m.Count, len(vals); got != want {
		t.Errorf("count: got %v, want %v", got, want)
	}
	if math.Abs(m.Mean-mean) > 1e-9 {
		t.Errorf("mean: got %v, want %v", m.Mean, mean)
	}
	if math.Abs(m.Var-variance) > 1e-6 {
		t.Errorf("variance: got %v, want %v", m.Var, variance)
	}
}

func TestDotNorm(t *testing.T) {
	blocks := datagen.Blocks(4, nblock, blocksize)
	var (
		keys []string
		dots []float64
	)
	slicetest.RunAndScan(t, arrays.Dot(blocks, blocks), &keys, &dots)
	if got, want := len(dots), 1; got != want {
		t.Fatalf("got %v rows, want %v", got, want)
	}
	var norms []float64
	slicetest.RunAndScan(t, arrays.Norm(blocks), &keys, &norms)
	if got, want := len(norms), 1; got != want {
		t.Fatalf("got %v rows, want %v", got, want)
	}
	var ss float64
	for _, v := range flat() {
		ss += v * v
	}
	if math.Abs(dots[0]-ss)/ss > 1e-12 {
		t.Errorf("dot: got %v, want %v", dots[0], ss)
	}
	if math.Abs(norms[0]-math.Sqrt(ss))/math.Sqrt(ss) > 1e-12 {
		t.Errorf("norm: got %v, want %v", norms[0], math.Sqrt(ss))
	}
}

func TestScale(t *testing.T) {
	blocks := datagen.Blocks(2, 4, 10)
	var (
		indices []int
		scaled  [][]float64
	)
	slicetest.RunAndScan(t, arrays.Scale(blocks, -2), &indices, &scaled)
	if got, want := len(indices), 4; got != want {
		t.Fatalf("got %v blocks, want %v", got, want)
	}
	for i, b := range indices {
		for j, v := range scaled[i] {
			if got, want := v, -2*datagen.Value(b*10+j); got != want {
				t.Errorf("block %d elem %d: got %v, want %v", b, j, got, want)
			}
		}
	}
}

func TestHistogram(t *testing.T) {
	const (
		Nbins = 20
		Lo    = -5.0
		Hi    = 15.0
	)
	blocks := datagen.Blocks(4, nblock, blocksize)
	var (
		bins   []int
		counts []int
	)
	slicetest.RunAndScan(t, arrays.Histogram(blocks, Nbins, Lo, Hi), &bins, &counts)
	var total int
	for i, bin := range bins {
		if bin < 0 || bin >= Nbins {
			t.Errorf("bin %d out of range", bin)
		}
		total += counts[i]
	}
	if got, want := total, nblock*blocksize; got != want {
		t.Errorf("got %v elements, want %v", got, want)
	}
	if got, want := len(arrays.Edges(Nbins, Lo, Hi)), Nbins+1; got != want {
		t.Errorf("got %v edges, want %v", got, want)
	}
}
