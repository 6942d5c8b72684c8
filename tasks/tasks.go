// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package tasks is the first chapter of the examples: building lazy
// task graphs and running them through a session. Slices describe
// computations; nothing executes until a Func is invoked with
// Session.Run. Materialized results can be passed back into later
// invocations, so iterative drivers pay for each stage once.
package tasks

import (
	"context"

	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice/exec"
	"golang.org/x/sync/errgroup"
)

// Squares returns a Slice<int, int> of (i, i*i) for i in [0, n).
func Squares(nshard, n int) bigslice.Slice {
	vals := make([]int, n)
	for i := range vals {
		vals[i] = i
	}
	slice := bigslice.Const(nshard, vals)
	return bigslice.Map(slice, func(i int) (int, int) { return i, i * i })
}

// EvenSquares filters a Slice<int, int> down to rows with even keys.
func EvenSquares(slice bigslice.Slice) bigslice.Slice {
	return bigslice.Filter(slice, func(i, square int) bool { return i%2 == 0 })
}

// Sum collapses a Slice<int, int> to a single row holding the sum of
// its second column.
func Sum(slice bigslice.Slice) bigslice.Slice {
	slice = bigslice.Map(slice, func(i, v int) (string, int) { return "total", v })
	return bigslice.Reduce(slice, func(a, e int) int { return a + e })
}

// SquaresFunc is the invocable form of Squares. Funcs are declared at
// package scope so they are instantiated before any session starts.
var SquaresFunc = bigslice.Func(func(nshard, n int) bigslice.Slice {
	return Squares(nshard, n)
})

// DoubleFunc doubles the values of an earlier result. Its argument is
// a materialized result from a previous invocation; the stages that
// produced it are not recomputed.
var DoubleFunc = bigslice.Func(func(prev bigslice.Slice) bigslice.Slice {
	return bigslice.Map(prev, func(i, v int) (int, int) { return i, 2 * v })
})

// SumFunc is the invocable form of Sum over an earlier result.
var SumFunc = bigslice.Func(func(prev bigslice.Slice) bigslice.Slice {
	return Sum(prev)
})

// Chain runs Squares once and then doubles the materialized result
// rounds times, reusing the session between invocations. It returns
// the final total, sum(i*i for i in [0, n)) << rounds.
func Chain(ctx context.Context, sess *exec.Session, nshard, n, rounds int) (int, error) {
	res, err := sess.Run(ctx, SquaresFunc, nshard, n)
	if err != nil {
		return 0, err
	}
	for r := 0; r < rounds; r++ {
		res, err = sess.Run(ctx, DoubleFunc, res)
		if err != nil {
			return 0, err
		}
	}
	res, err = sess.Run(ctx, SumFunc, res)
	if err != nil {
		return 0, err
	}
	scan := res.Scanner()
	defer scan.Close()
	var (
		key   string
		total int
	)
	for scan.Scan(ctx, &key, &total) {
	}
	return total, scan.Err()
}

// RunConcurrent submits n concurrent invocations of SquaresFunc to the
// same session and returns each invocation's row count. Sessions are
// safe for concurrent use; this is the closest analogue to submitting
// independent futures.
func RunConcurrent(ctx context.Context, sess *exec.Session, n, nshard, m int) ([]int, error) {
	counts := make([]int, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			res, err := sess.Run(ctx, SquaresFunc, nshard, m)
			if err != nil {
				return err
			}
			scan := res.Scanner()
			defer scan.Close()
			var k, square int
			for scan.Scan(ctx, &k, &square) {
				counts[i]++
			}
			return scan.Err()
		})
	}
	return counts, g.Wait()
}
