// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package arrays is the blocked-arrays chapter of the examples. A
// large vector is stored as a Slice<int, []float64> of contiguous
// blocks; statistics are computed per block and then merged, so no
// machine ever holds the whole vector.
package arrays

import (
	"math"

	"github.com/grailbio/bigslice"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Moments summarizes a vector: element count, mean, and unbiased
// sample variance.
type Moments struct {
	Count int
	Mean  float64
	Var   float64
}

// merge combines the moments of two disjoint samples (the standard
// pairwise update, so partial results from different blocks can be
// combined in any order).
func merge(a, b Moments) Moments {
	if a.Count == 0 {
		return b
	}
	if b.Count == 0 {
		return a
	}
	var (
		n     = float64(a.Count + b.Count)
		delta = b.Mean - a.Mean
		mean  = a.Mean + delta*float64(b.Count)/n
		m2a   = a.Var * float64(a.Count-1)
		m2b   = b.Var * float64(b.Count-1)
		m2    = m2a + m2b + delta*delta*float64(a.Count)*float64(b.Count)/n
	)
	return Moments{
		Count: a.Count + b.Count,
		Mean:  mean,
		Var:   m2 / (n - 1),
	}
}

// BlockMoments computes the moments of each block of a
// Slice<int, []float64> and merges them into a single global summary,
// returned as a Slice<string, Moments> with one row.
func BlockMoments(blocks bigslice.Slice) bigslice.Slice {
	slice := bigslice.Map(blocks, func(b int, block []float64) (string, Moments) {
		mean, variance := stat.MeanVariance(block, nil)
		return "all", Moments{Count: len(block), Mean: mean, Var: variance}
	})
	return bigslice.Fold(slice, func(acc, m Moments) Moments {
		return merge(acc, m)
	})
}

// Scale multiplies every block by c.
func Scale(blocks bigslice.Slice, c float64) bigslice.Slice {
	return bigslice.Map(blocks, func(b int, block []float64) (int, []float64) {
		scaled := make([]float64, len(block))
		for i, v := range block {
			scaled[i] = c * v
		}
		return b, scaled
	})
}

// Dot computes the inner product of two identically blocked vectors by
// cogrouping on block index. The result is a Slice<string, float64>
// with a single row.
func Dot(a, b bigslice.Slice) bigslice.Slice {
	slice := bigslice.Cogroup(a, b)
	slice = bigslice.Map(slice, func(block int, xs, ys [][]float64) (string, float64) {
		var dot float64
		for i := range xs {
			for j := range ys {
				dot += floats.Dot(xs[i], ys[j])
			}
		}
		return "dot", dot
	})
	return bigslice.Reduce(slice, func(a, e float64) float64 { return a + e })
}

// Norm computes the Euclidean norm of a blocked vector, returned as a
// Slice<string, float64> with a single row.
func Norm(blocks bigslice.Slice) bigslice.Slice {
	slice := bigslice.Map(blocks, func(b int, block []float64) (string, float64) {
		var ss float64
		for _, v := range block {
			ss += v * v
		}
		return "norm", ss
	})
	slice = bigslice.Reduce(slice, func(a, e float64) float64 { return a + e })
	return bigslice.Map(slice, func(key string, ss float64) (string, float64) {
		return key, math.Sqrt(ss)
	})
}

// Histogram bins every element of a blocked vector into nbins
// equal-width bins over [lo, hi), returning a Slice<int, int> of
// (bin, count). Out-of-range elements are clamped into the edge bins.
func Histogram(blocks bigslice.Slice, nbins int, lo, hi float64) bigslice.Slice {
	width := (hi - lo) / float64(nbins)
	slice := bigslice.Flatmap(blocks, func(b int, block []float64) ([]int, []int) {
		bins := make([]int, len(block))
		ones := make([]int, len(block))
		for i, v := range block {
			bin := int((v - lo) / width)
			if bin < 0 {
				bin = 0
			}
			if bin >= nbins {
				bin = nbins - 1
			}
			bins[i] = bin
			ones[i] = 1
		}
		return bins, ones
	})
	return bigslice.Reduce(slice, func(a, e int) int { return a + e })
}

// Edges returns the nbins+1 bin boundaries used by Histogram.
func Edges(nbins int, lo, hi float64) []float64 {
	edges := make([]float64, nbins+1)
	width := (hi - lo) / float64(nbins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	return edges
}
