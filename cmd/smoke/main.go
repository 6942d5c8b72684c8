// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Smoke executes the example corpus end to end and exits nonzero if
// any example fails. It is the continuous-integration entry point:
// by default the two non-hermetic examples (chaos and domains) are
// held back; -cluster and -network run them too.
package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bigslice-examples/smoke"
	"github.com/grailbio/bigslice/exec"
)

func init() {
	file.RegisterImplementation("s3", s3file.NewImplementation(
		s3file.NewDefaultProvider(session.Options{})))
	s3file.SetBucketRegion("gdelt-open-data", "us-east-1")
}

func main() {
	var (
		skip    = flag.String("skip", "", "comma-separated example names to skip")
		cluster = flag.Bool("cluster", false, "run examples that start their own clusters")
		network = flag.Bool("network", false, "run examples that read external data")
		plots   = flag.String("plots", "", "directory for rendered plots (empty disables plotting)")
		p       = flag.Int("p", 1, "number of examples to run at once")
		timeout = flag.Duration("timeout", 30*time.Minute, "overall deadline")
	)
	log.AddFlags()
	flag.Parse()

	var allow smoke.Needs
	if *cluster {
		allow |= smoke.NeedsCluster
	}
	if *network {
		allow |= smoke.NeedsNetwork
	}
	var skips []string
	if *skip != "" {
		skips = strings.Split(*skip, ",")
	}

	var registry smoke.Registry
	smoke.RegisterDefaults(&registry)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	sess := exec.Start(exec.Local)
	defer sess.Shutdown()
	cfg := smoke.Config{Session: sess, PlotDir: *plots, Parallelism: *p}
	if err := registry.Run(ctx, cfg, allow, skips); err != nil {
		log.Fatal(err)
	}
	log.Print("all examples passed")
}
