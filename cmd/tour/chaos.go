// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bigslice-examples/chaos"
	"github.com/grailbio/bigslice/exec"
)

func chaosCmd(sess *exec.Session, args []string) error {
	var (
		flags  = flag.NewFlagSet("chaos", flag.ExitOnError)
		nshard = flags.Int("nshard", 10, "number of shards")
		n      = flags.Int("n", 1000, "number of inputs")
		kills  = flags.Int("kills", 3, "machine losses to inject")
		live   = flags.Bool("live", false, "attack the configured session's own workers instead of an in-process test cluster")
	)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, `usage: tour chaos [-nshard N] [-n N] [-kills N] [-live]`)
		flags.PrintDefaults()
		os.Exit(2)
	}
	if err := flags.Parse(args); err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	if !*live {
		result, err := chaos.Run(ctx, chaos.Config{
			Nshard:      *nshard,
			N:           *n,
			MaxKills:    *kills,
			Parallelism: *nshard,
			MeanSleep:   60 * time.Millisecond,
		})
		if err != nil {
			return err
		}
		if result.Total != chaos.Expected(*n) {
			return fmt.Errorf("got %v, want %v", result.Total, chaos.Expected(*n))
		}
		log.Printf("recovered from %d kills in %s", result.Kills, result.Elapsed)
		fmt.Println("ok")
		return nil
	}

	// Live mode: run the victim on the configured session and SIGKILL
	// its worker processes while it is in flight.
	type runResult struct {
		res *exec.Result
		err error
	}
	runc := make(chan runResult, 1)
	go func() {
		res, err := sess.Run(ctx, chaos.Victim, *nshard, *n, 60*time.Millisecond)
		runc <- runResult{res, err}
	}()
	var killed int
	for killed < *kills {
		select {
		case r := <-runc:
			return finishChaos(ctx, r.res, r.err, *n, killed)
		case <-time.After(2 * time.Second):
		}
		m, err := chaos.KillWorkers(1)
		if err != nil {
			return err
		}
		if m > 0 {
			killed += m
			log.Printf("killed worker (%d of %d)", killed, *kills)
		}
	}
	r := <-runc
	return finishChaos(ctx, r.res, r.err, *n, killed)
}

func finishChaos(ctx context.Context, res *exec.Result, err error, n, killed int) error {
	if err != nil {
		return err
	}
	scan := res.Scanner()
	defer scan.Close()
	var key, sum, total int
	for scan.Scan(ctx, &key, &sum) {
		total += sum
	}
	if err := scan.Err(); err != nil {
		return err
	}
	if total != chaos.Expected(n) {
		return fmt.Errorf("got %v, want %v after %d kills", total, chaos.Expected(n), killed)
	}
	log.Printf("recovered from %d kills", killed)
	fmt.Println("ok")
	return nil
}
