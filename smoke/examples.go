// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package smoke

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice-examples/arrays"
	"github.com/grailbio/bigslice-examples/chaos"
	"github.com/grailbio/bigslice-examples/datagen"
	"github.com/grailbio/bigslice-examples/display"
	"github.com/grailbio/bigslice-examples/domains"
	"github.com/grailbio/bigslice-examples/frames"
	"github.com/grailbio/bigslice-examples/learn"
	"github.com/grailbio/bigslice-examples/tasks"
)

// Funcs live at package scope so they are instantiated before any
// session starts.
var (
	joinFunc = bigslice.Func(func(nshard, nrides, nstations, ndays int) bigslice.Slice {
		return frames.JoinStats(datagen.Rides(nshard, nrides), datagen.Readings(nshard, nstations, ndays))
	})
	wordsFunc = bigslice.Func(func(nshard, ndoc int) bigslice.Slice {
		return frames.WordCount(datagen.Documents(nshard, ndoc))
	})
	momentsFunc = bigslice.Func(func(nshard, nblock, blocksize int) bigslice.Slice {
		return arrays.BlockMoments(datagen.Blocks(nshard, nblock, blocksize))
	})
	histogramFunc = bigslice.Func(func(nshard, nblock, blocksize, nbins int, lo, hi float64) bigslice.Slice {
		return arrays.Histogram(datagen.Blocks(nshard, nblock, blocksize), nbins, lo, hi)
	})
)

// RegisterDefaults registers the standard example corpus on r.
func RegisterDefaults(r *Registry) {
	r.Register(Example{Name: "tasks", Run: runTasks})
	r.Register(Example{Name: "frames", Run: runFrames})
	r.Register(Example{Name: "arrays", Run: runArrays})
	r.Register(Example{Name: "learn", Run: runLearn})
	r.Register(Example{Name: "chaos", Needs: NeedsCluster, Run: runChaos})
	r.Register(Example{Name: "domains", Needs: NeedsNetwork, Run: runDomains})
}

func runTasks(ctx context.Context, cfg Config) error {
	const (
		N      = 100
		Rounds = 3
	)
	total, err := tasks.Chain(ctx, cfg.Session, 4, N, Rounds)
	if err != nil {
		return err
	}
	want := 0
	for i := 0; i < N; i++ {
		want += i * i
	}
	want <<= Rounds
	if total != want {
		return fmt.Errorf("tasks: got %v, want %v", total, want)
	}
	counts, err := tasks.RunConcurrent(ctx, cfg.Session, 4, 4, N)
	if err != nil {
		return err
	}
	for i, count := range counts {
		if count != N {
			return fmt.Errorf("tasks: invocation %d returned %v rows, want %v", i, count, N)
		}
	}
	return nil
}

func runFrames(ctx context.Context, cfg Config) error {
	const (
		Nrides    = 2000
		Nstations = 8
		Ndays     = 60
	)
	res, err := cfg.Session.Run(ctx, joinFunc, 4, Nrides, Nstations, Ndays)
	if err != nil {
		return err
	}
	scan := res.Scanner()
	var (
		city       string
		fare, temp float64
		rows       int
	)
	for scan.Scan(ctx, &city, &fare, &temp) {
		rows++
	}
	if err := scanClose(scan.Err(), scan.Close()); err != nil {
		return err
	}
	if rows != Nstations {
		return fmt.Errorf("frames: joined %v cities, want %v", rows, Nstations)
	}
	res, err = cfg.Session.Run(ctx, wordsFunc, 4, 500)
	if err != nil {
		return err
	}
	scan = res.Scanner()
	var (
		word      string
		count     int
		wordTotal int
	)
	for scan.Scan(ctx, &word, &count) {
		wordTotal += count
	}
	if err := scanClose(scan.Err(), scan.Close()); err != nil {
		return err
	}
	if wordTotal == 0 {
		return fmt.Errorf("frames: no words counted")
	}
	return nil
}

func runArrays(ctx context.Context, cfg Config) error {
	const (
		Nblock    = 32
		Blocksize = 100
		Nbins     = 20
		Lo, Hi    = -5.0, 15.0
	)
	res, err := cfg.Session.Run(ctx, momentsFunc, 4, Nblock, Blocksize)
	if err != nil {
		return err
	}
	scan := res.Scanner()
	var (
		key string
		m   arrays.Moments
	)
	if !scan.Scan(ctx, &key, &m) {
		return fmt.Errorf("arrays: no moments: %v", scan.Err())
	}
	if err := scanClose(scan.Err(), scan.Close()); err != nil {
		return err
	}
	if m.Count != Nblock*Blocksize {
		return fmt.Errorf("arrays: got %v elements, want %v", m.Count, Nblock*Blocksize)
	}
	res, err = cfg.Session.Run(ctx, histogramFunc, 4, Nblock, Blocksize, Nbins, Lo, Hi)
	if err != nil {
		return err
	}
	scan = res.Scanner()
	var (
		bin, count int
		counts     = make([]int, Nbins)
		total      int
	)
	for scan.Scan(ctx, &bin, &count) {
		counts[bin] = count
		total += count
	}
	if err := scanClose(scan.Err(), scan.Close()); err != nil {
		return err
	}
	if total != Nblock*Blocksize {
		return fmt.Errorf("arrays: histogram holds %v elements, want %v", total, Nblock*Blocksize)
	}
	if cfg.PlotDir != "" {
		path := filepath.Join(cfg.PlotDir, "histogram.png")
		if err := display.SaveHistogram("synthetic vector", counts, arrays.Edges(Nbins, Lo, Hi), path); err != nil {
			return err
		}
	}
	return nil
}

func runLearn(ctx context.Context, cfg Config) error {
	rcfg := learn.RegressionConfig{
		Nshard: 4,
		N:      300,
		Dim:    3,
		Rounds: 30,
		LR:     0.5,
	}
	_, _, losses, err := learn.LinearRegression(ctx, cfg.Session, rcfg)
	if err != nil {
		return err
	}
	if last := losses[len(losses)-1]; last >= losses[0] {
		return fmt.Errorf("learn: loss did not decrease: first %v, last %v", losses[0], last)
	}
	kcfg := learn.KMeansConfig{
		Nshard:    4,
		N:         300,
		K:         3,
		Dim:       2,
		MaxRounds: 20,
		Tol:       1e-3,
	}
	centers, _, err := learn.KMeans(ctx, cfg.Session, kcfg)
	if err != nil {
		return err
	}
	if len(centers) != kcfg.K {
		return fmt.Errorf("learn: got %v centroids, want %v", len(centers), kcfg.K)
	}
	return nil
}

// runChaos starts its own cluster; the shared session is unused.
func runChaos(ctx context.Context, cfg Config) error {
	const N = 500
	result, err := chaos.Run(ctx, chaos.Config{
		Nshard:      10,
		N:           N,
		MaxKills:    2,
		Parallelism: 10,
		MeanSleep:   20 * time.Millisecond,
	})
	if err != nil {
		return err
	}
	if result.Total != chaos.Expected(N) {
		return fmt.Errorf("chaos: got %v, want %v despite %d kills", result.Total, chaos.Expected(N), result.Kills)
	}
	return nil
}

func runDomains(ctx context.Context, cfg Config) error {
	paths, err := domains.Paths(ctx, domains.DefaultPath, 4)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("domains: no event files under %s", domains.DefaultPath)
	}
	dir, err := ioutil.TempDir("", "domains")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	_, err = cfg.Session.Run(ctx, domains.Counts, paths, filepath.Join(dir, "counts"))
	return err
}

func scanClose(scanErr, closeErr error) error {
	if scanErr != nil {
		return scanErr
	}
	return closeErr
}
