// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package datagen

import (
	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice/sliceio"
)

// Centroids returns k fixed cluster centers in dim dimensions, spread
// over [-10, 10) in each coordinate.
func Centroids(k, dim int) [][]float64 {
	centers := make([][]float64, k)
	for c := range centers {
		centers[c] = make([]float64, dim)
		for d := range centers[c] {
			centers[c][d] = 20*unit("centroid", c, d) - 10
		}
	}
	return centers
}

// Point returns the i'th clustered point: its centroid (i mod
// len(centers)) plus unit-variance noise.
func Point(i int, centers [][]float64) []float64 {
	center := centers[i%len(centers)]
	p := make([]float64, len(center))
	for d := range p {
		p[d] = center[d] + gauss("point", i, d)
	}
	return p
}

// Points returns a Slice<[]float64> of n points clustered around the
// centers given by Centroids(k, dim), with unit-variance spread.
func Points(nshard, n, k, dim int) bigslice.Slice {
	type state struct {
		next    int
		centers [][]float64
	}
	return bigslice.ReaderFunc(nshard, func(shard int, state *state, points [][]float64) (m int, err error) {
		if state.centers == nil {
			state.centers = Centroids(k, dim)
		}
		lo, hi := span(n, nshard, shard)
		i := lo + state.next
		for m < len(points) && i < hi {
			points[m] = Point(i, state.centers)
			i++
			m++
		}
		state.next += m
		if i == hi {
			return m, sliceio.EOF
		}
		return m, nil
	})
}

// LinearModel returns the fixed weights and bias from which Labeled
// draws its responses.
func LinearModel(dim int) (weights []float64, bias float64) {
	weights = make([]float64, dim)
	for d := range weights {
		weights[d] = 2*unit("model/weight", d) - 1
	}
	bias = 2*unit("model/bias") - 1
	return
}

// Labeled returns a Slice<[]float64, float64> of n feature vectors and
// noisy responses drawn from LinearModel(dim). Features are uniform in
// [-1, 1); the response noise has standard deviation 0.1.
func Labeled(nshard, n, dim int) bigslice.Slice {
	type state struct {
		next    int
		weights []float64
		bias    float64
	}
	return bigslice.ReaderFunc(nshard, func(shard int, state *state, xs [][]float64, ys []float64) (m int, err error) {
		if state.weights == nil {
			state.weights, state.bias = LinearModel(dim)
		}
		lo, hi := span(n, nshard, shard)
		i := lo + state.next
		for m < len(xs) && i < hi {
			x := make([]float64, dim)
			y := state.bias
			for d := range x {
				x[d] = 2*unit("feature", i, d) - 1
				y += state.weights[d] * x[d]
			}
			xs[m] = x
			ys[m] = y + 0.1*gauss("label/noise", i)
			i++
			m++
		}
		state.next += m
		if i == hi {
			return m, sliceio.EOF
		}
		return m, nil
	})
}
