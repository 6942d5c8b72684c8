// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package chaos is the resilience chapter of the examples. It runs a
// sharded computation on a cluster while a monkey kills machines out
// from under it, and verifies that the library's task re-execution
// still produces the exact expected result. The recovery machinery
// itself belongs to the library; this chapter only configures and
// observes it.
package chaos

import (
	"context"
	"math/rand"
	"time"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bigmachine/testsystem"
	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice/exec"
	"golang.org/x/sync/errgroup"
)

// Victim is the computation under attack: a sharded keyed reduction
// whose reducer sleeps with exponentially distributed durations, which
// keeps tasks in flight long enough for the monkey to act.
var Victim = bigslice.Func(func(nshard, n int, meanSleep time.Duration) bigslice.Slice {
	vals := make([]int, n)
	for i := range vals {
		vals[i] = i
	}
	slice := bigslice.Const(nshard, vals)
	slice = bigslice.Map(slice, func(i int) (int, int) {
		return i % 15, i
	})
	slice = bigslice.Reduce(slice, func(a, e int) int {
		time.Sleep(time.Duration(float64(meanSleep) * rand.ExpFloat64()))
		return a + e
	})
	return slice
})

// Expected returns the total Victim must produce for n inputs.
func Expected(n int) int { return n * (n - 1) / 2 }

// Config parameterizes Run.
type Config struct {
	Nshard int
	N      int
	// MaxKills is the fault threshold: the monkey stops after
	// injecting this many machine losses.
	MaxKills int
	// Parallelism is passed through to the session.
	Parallelism int
	// MeanSleep is the reducer's mean per-record sleep.
	MeanSleep time.Duration
}

// Result reports a chaos run.
type Result struct {
	Total   int
	Kills   int
	Elapsed time.Duration
}

// Run starts a session on an in-process test cluster, races Victim
// against a machine-killing monkey, and returns the computed total
// along with the number of kills injected. The returned total equals
// Expected(cfg.N) whenever err is nil.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.Parallelism < 1 {
		cfg.Parallelism = cfg.Nshard
	}
	system := testsystem.New()
	system.Machineprocs = 2
	system.KeepalivePeriod = time.Second
	system.KeepaliveTimeout = 2 * time.Second
	system.KeepaliveRpcTimeout = time.Second

	sess := exec.Start(exec.Bigmachine(system), exec.Parallelism(cfg.Parallelism))
	defer sess.Shutdown()

	monkeyCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		result Result
		start  = time.Now()
		g      errgroup.Group
	)
	g.Go(func() error {
		// Kill aggressively at first, then back off so the run can
		// actually finish.
		wait := time.Second
		for result.Kills < cfg.MaxKills {
			select {
			case <-monkeyCtx.Done():
				return nil
			case <-time.After(wait):
				wait += time.Duration(500+rand.Intn(2000)) * time.Millisecond
			}
			if system.Kill(nil) {
				result.Kills++
				log.Printf("chaos: killed a machine (%d of %d)", result.Kills, cfg.MaxKills)
			}
		}
		return nil
	})
	res, err := sess.Run(ctx, Victim, cfg.Nshard, cfg.N, cfg.MeanSleep)
	cancel()
	if waitErr := g.Wait(); waitErr != nil && err == nil {
		err = waitErr
	}
	if err != nil {
		return result, err
	}
	scan := res.Scanner()
	defer scan.Close()
	var key, sum int
	for scan.Scan(ctx, &key, &sum) {
		result.Total += sum
	}
	result.Elapsed = time.Since(start)
	return result, scan.Err()
}
