// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice-examples/datagen"
	"github.com/grailbio/bigslice-examples/frames"
	"github.com/grailbio/bigslice/exec"
)

var joinStats = bigslice.Func(func(nshard, nrides, nstations, ndays int) bigslice.Slice {
	log.Printf("joinStats(%d, %d, %d, %d)", nshard, nrides, nstations, ndays)
	return frames.JoinStats(datagen.Rides(nshard, nrides), datagen.Readings(nshard, nstations, ndays))
})

var topTips = bigslice.Func(func(nshard, nrides, k int) bigslice.Slice {
	return frames.TopTips(datagen.Rides(nshard, nrides), k)
})

func framesCmd(sess *exec.Session, args []string) error {
	var (
		flags     = flag.NewFlagSet("frames", flag.ExitOnError)
		nshard    = flags.Int("nshard", 16, "number of shards")
		nrides    = flags.Int("nrides", 1e6, "number of ride records")
		nstations = flags.Int("nstations", 20, "number of stations")
		ndays     = flags.Int("ndays", 365, "days of readings per station")
		k         = flags.Int("top", 10, "tips to keep")
	)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, `usage: tour frames [-nshard N] [-nrides N] [-nstations N] [-ndays N] [-top K]`)
		flags.PrintDefaults()
		os.Exit(2)
	}
	if err := flags.Parse(args); err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	res, err := sess.Run(ctx, joinStats, *nshard, *nrides, *nstations, *ndays)
	if err != nil {
		return err
	}
	scan := res.Scanner()
	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "city\tmean fare\tmax temp")
	var (
		city       string
		fare, temp float64
		rows       int
	)
	for scan.Scan(ctx, &city, &fare, &temp) {
		fmt.Fprintf(tw, "%s\t%.2f\t%.1f\n", city, fare, temp)
		rows++
	}
	if err := scan.Err(); err != nil {
		scan.Close()
		return err
	}
	scan.Close()
	tw.Flush()
	if rows == 0 {
		return fmt.Errorf("join produced no rows")
	}

	res, err = sess.Run(ctx, topTips, *nshard, *nrides, *k)
	if err != nil {
		return err
	}
	scan = res.Scanner()
	defer scan.Close()
	var tip float64
	var tips []float64
	for scan.Scan(ctx, &tip) {
		tips = append(tips, tip)
	}
	if err := scan.Err(); err != nil {
		return err
	}
	log.Printf("top %d tips: %v", *k, tips)
	fmt.Println("ok")
	return nil
}
