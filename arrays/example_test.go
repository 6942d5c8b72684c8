// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package arrays_test

import (
	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice-examples/arrays"
	"github.com/grailbio/bigslice-examples/display"
)

func ExampleBlockMoments() {
	// One block, so the merged moments are just the block's own.
	blocks := bigslice.Const(1,
		[]int{0},
		[][]float64{{1, 2, 3, 4}},
	)
	display.Print(arrays.BlockMoments(blocks))
	// Output:
	// all {4 2.5 1.6666666666666667}
}

func ExampleNorm() {
	blocks := bigslice.Const(1,
		[]int{0, 1},
		[][]float64{{3}, {4}},
	)
	display.Print(arrays.Norm(blocks))
	// Output:
	// norm 5
}

func ExampleDot() {
	a := bigslice.Const(1, []int{0}, [][]float64{{1, 2}})
	b := bigslice.Const(1, []int{0}, [][]float64{{3, 4}})
	display.Print(arrays.Dot(a, b))
	// Output:
	// dot 11
}

func ExampleHistogram() {
	blocks := bigslice.Const(1,
		[]int{0, 1},
		[][]float64{{0.5, 1.5}, {1.6, 2.5}},
	)
	display.Print(arrays.Histogram(blocks, 3, 0, 3))
	// Output:
	// 0 1
	// 1 2
	// 2 1
}
