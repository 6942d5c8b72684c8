// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice-examples/arrays"
	"github.com/grailbio/bigslice-examples/datagen"
	"github.com/grailbio/bigslice-examples/display"
	"github.com/grailbio/bigslice/exec"
)

var blockMoments = bigslice.Func(func(nshard, nblock, blocksize int) bigslice.Slice {
	log.Printf("blockMoments(%d, %d, %d)", nshard, nblock, blocksize)
	return arrays.BlockMoments(datagen.Blocks(nshard, nblock, blocksize))
})

var histogram = bigslice.Func(func(nshard, nblock, blocksize, nbins int, lo, hi float64) bigslice.Slice {
	return arrays.Histogram(datagen.Blocks(nshard, nblock, blocksize), nbins, lo, hi)
})

func arraysCmd(sess *exec.Session, args []string) error {
	var (
		flags     = flag.NewFlagSet("arrays", flag.ExitOnError)
		nshard    = flags.Int("nshard", 16, "number of shards")
		nblock    = flags.Int("nblock", 1024, "number of blocks")
		blocksize = flags.Int("blocksize", 10000, "elements per block")
		nbins     = flags.Int("nbins", 40, "histogram bins")
		plot      = flags.String("plot", "", "write a histogram plot to this path")
	)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, `usage: tour arrays [-nshard N] [-nblock N] [-blocksize N] [-nbins N] [-plot PATH]`)
		flags.PrintDefaults()
		os.Exit(2)
	}
	if err := flags.Parse(args); err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	res, err := sess.Run(ctx, blockMoments, *nshard, *nblock, *blocksize)
	if err != nil {
		return err
	}
	scan := res.Scanner()
	var (
		key string
		m   arrays.Moments
	)
	if !scan.Scan(ctx, &key, &m) {
		scan.Close()
		return fmt.Errorf("no moments: %v", scan.Err())
	}
	scan.Close()
	fmt.Printf("n %d mean %.4f var %.4f\n", m.Count, m.Mean, m.Var)

	const lo, hi = -5.0, 15.0
	res, err = sess.Run(ctx, histogram, *nshard, *nblock, *blocksize, *nbins, lo, hi)
	if err != nil {
		return err
	}
	scan = res.Scanner()
	defer scan.Close()
	var (
		bin, count int
		counts     = make([]int, *nbins)
		total      int
	)
	for scan.Scan(ctx, &bin, &count) {
		counts[bin] = count
		total += count
	}
	if err := scan.Err(); err != nil {
		return err
	}
	if total != m.Count {
		return fmt.Errorf("histogram holds %v elements, want %v", total, m.Count)
	}
	if *plot != "" {
		if err := display.SaveHistogram("synthetic vector", counts, arrays.Edges(*nbins, lo, hi), *plot); err != nil {
			return err
		}
		log.Printf("wrote %s", *plot)
	}
	fmt.Println("ok")
	return nil
}
