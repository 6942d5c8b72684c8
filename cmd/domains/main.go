// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Domains aggregates counts by domain name over the GDELT public
// events data set on S3, writing sharded output files. It needs AWS
// credentials and, for cluster runs, an EC2-capable bigslice
// configuration, so CI does not run it.
package main

import (
	"context"
	"flag"
	_ "net/http/pprof"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/must"
	"github.com/grailbio/bigslice-examples/domains"
	"github.com/grailbio/bigslice/sliceconfig"
)

func init() {
	file.RegisterImplementation("s3", s3file.NewImplementation(
		s3file.NewDefaultProvider(session.Options{})))
	s3file.SetBucketRegion("gdelt-open-data", "us-east-1")
}

func main() {
	var (
		n   = flag.Int("n", 1000, "number of event files to process")
		out = flag.String("out", "", "output path prefix")
	)
	log.AddFlags()
	sess, shutdown := sliceconfig.Parse()
	defer shutdown()
	must.True(*out != "", "missing flag -out")

	ctx := context.Background()
	paths, err := domains.Paths(ctx, domains.DefaultPath, *n)
	must.Nil(err, "listing ", domains.DefaultPath)
	log.Printf("computing %d paths", len(paths))
	_, err = sess.Run(ctx, domains.Counts, paths, *out)
	must.Nil(err)
}
