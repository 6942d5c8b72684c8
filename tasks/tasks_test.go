// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tasks_test

import (
	"context"
	"testing"

	"github.com/grailbio/bigslice-examples/tasks"
	"github.com/grailbio/bigslice/exec"
	"github.com/grailbio/bigslice/slicetest"
)

func TestSquares(t *testing.T) {
	const N = 100
	var keys, squares []int
	slicetest.RunAndScan(t, tasks.Squares(5, N), &keys, &squares)
	if got, want := len(keys), N; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range keys {
		if got, want := squares[i], keys[i]*keys[i]; got != want {
			t.Errorf("key %d: got %v, want %v", keys[i], got, want)
		}
	}
}

func TestEvenSquares(t *testing.T) {
	var keys, squares []int
	slicetest.RunAndScan(t, tasks.EvenSquares(tasks.Squares(3, 10)), &keys, &squares)
	if got, want := len(keys), 5; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range keys {
		if keys[i]%2 != 0 {
			t.Errorf("odd key %d", keys[i])
		}
	}
}

func TestChain(t *testing.T) {
	const (
		N      = 10
		Rounds = 3
	)
	sess := exec.Start(exec.Local)
	defer sess.Shutdown()
	total, err := tasks.Chain(context.Background(), sess, 2, N, Rounds)
	if err != nil {
		t.Fatal(err)
	}
	want := 0
	for i := 0; i < N; i++ {
		want += i * i
	}
	want <<= Rounds
	if got := total; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRunConcurrent(t *testing.T) {
	const (
		N = 4
		M = 50
	)
	sess := exec.Start(exec.Local)
	defer sess.Shutdown()
	counts, err := tasks.RunConcurrent(context.Background(), sess, N, 3, M)
	if err != nil {
		t.Fatal(err)
	}
	for i, count := range counts {
		if got, want := count, M; got != want {
			t.Errorf("invocation %d: got %v rows, want %v", i, got, want)
		}
	}
}
