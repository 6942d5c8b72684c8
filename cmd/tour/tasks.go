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
	"github.com/grailbio/bigslice-examples/tasks"
	"github.com/grailbio/bigslice/exec"
)

func tasksCmd(sess *exec.Session, args []string) error {
	var (
		flags  = flag.NewFlagSet("tasks", flag.ExitOnError)
		nshard = flags.Int("nshard", 16, "number of shards")
		n      = flags.Int("n", 1e6, "number of inputs")
		rounds = flags.Int("rounds", 3, "number of doubling rounds")
		p      = flags.Int("p", 4, "concurrent invocations")
	)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, `usage: tour tasks [-nshard N] [-n N] [-rounds N] [-p N]`)
		flags.PrintDefaults()
		os.Exit(2)
	}
	if err := flags.Parse(args); err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	total, err := tasks.Chain(ctx, sess, *nshard, *n, *rounds)
	if err != nil {
		return err
	}
	want := 0
	for i := 0; i < *n; i++ {
		want += i * i
	}
	want <<= uint(*rounds)
	if total != want {
		return fmt.Errorf("chained total %v, want %v", total, want)
	}
	log.Printf("chained %d rounds: total %d", *rounds, total)
	counts, err := tasks.RunConcurrent(ctx, sess, *p, *nshard, *n)
	if err != nil {
		return err
	}
	for i, count := range counts {
		if count != *n {
			return fmt.Errorf("invocation %d: %v rows, want %v", i, count, *n)
		}
	}
	fmt.Println("ok")
	return nil
}
