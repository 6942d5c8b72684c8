// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Tour runs the example chapters at cluster scale. Unlike the package
// examples, which evaluate locally with literal data, tour sessions
// are built from the shared bigslice configuration, so the same
// chapters can be pointed at a real cluster.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/must"
	"github.com/grailbio/bigslice/sliceconfig"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `usage: tour [-wait] chapter args...

Tour runs the example chapters, sized for a cluster. The session is
configured from the shared bigslice profile; pass -help to any chapter
for its own flags.

Available chapters are:

	tasks
		Lazy task graphs, result reuse, and concurrent invocations.
	frames
		Keyed-record aggregation, joins, and top-k.
	arrays
		Blocked vector statistics and histograms.
	learn
		Distributed linear regression and k-means.
	chaos
		Fault injection against a live computation.
`)
		flag.PrintDefaults()
		os.Exit(2)
	}

	wait := flag.Bool("wait", false, "don't exit after completion")
	sess, shutdown := sliceconfig.Parse()
	defer shutdown()

	if flag.NArg() == 0 {
		flag.Usage()
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	var err error
	switch cmd {
	default:
		fmt.Fprintf(os.Stderr, "unknown chapter %s\n", cmd)
		flag.Usage()
	case "tasks":
		err = tasksCmd(sess, args)
	case "frames":
		err = framesCmd(sess, args)
	case "arrays":
		err = arraysCmd(sess, args)
	case "learn":
		err = learnCmd(sess, args)
	case "chaos":
		err = chaosCmd(sess, args)
	}
	if *wait {
		if err != nil {
			log.Printf("finished with error %v: waiting", err)
		} else {
			log.Print("done: waiting")
		}
		<-make(chan struct{})
	}
	must.Nil(err, cmd)
}
