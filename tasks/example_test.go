// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tasks_test

import (
	"github.com/grailbio/bigslice-examples/display"
	"github.com/grailbio/bigslice-examples/tasks"
)

func ExampleSquares() {
	// Building the slice does no work; printing evaluates it locally.
	display.Print(tasks.Squares(2, 5))
	// Output:
	// 0 0
	// 1 1
	// 2 4
	// 3 9
	// 4 16
}

func ExampleEvenSquares() {
	display.Print(tasks.EvenSquares(tasks.Squares(2, 8)))
	// Output:
	// 0 0
	// 2 4
	// 4 16
	// 6 36
}

func ExampleSum() {
	// 0 + 1 + 4 + 9 + 16 = 30.
	display.Print(tasks.Sum(tasks.Squares(2, 5)))
	// Output:
	// total 30
}
