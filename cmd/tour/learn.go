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
	"github.com/grailbio/bigslice-examples/learn"
	"github.com/grailbio/bigslice/exec"
)

func learnCmd(sess *exec.Session, args []string) error {
	var (
		flags  = flag.NewFlagSet("learn", flag.ExitOnError)
		nshard = flags.Int("nshard", 16, "number of shards")
		n      = flags.Int("n", 1e5, "number of examples")
		dim    = flags.Int("dim", 10, "feature dimension")
		rounds = flags.Int("rounds", 50, "gradient rounds")
		lr     = flags.Float64("lr", 0.5, "learning rate")
		k      = flags.Int("k", 5, "clusters")
	)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, `usage: tour learn [-nshard N] [-n N] [-dim D] [-rounds R] [-lr F] [-k K]`)
		flags.PrintDefaults()
		os.Exit(2)
	}
	if err := flags.Parse(args); err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	weights, bias, losses, err := learn.LinearRegression(ctx, sess, learn.RegressionConfig{
		Nshard: *nshard,
		N:      *n,
		Dim:    *dim,
		Rounds: *rounds,
		LR:     *lr,
	})
	if err != nil {
		return err
	}
	log.Printf("regression: loss %.6f -> %.6f over %d rounds", losses[0], losses[len(losses)-1], *rounds)
	log.Printf("regression: weights %.4f bias %.4f", weights, bias)

	centers, krounds, err := learn.KMeans(ctx, sess, learn.KMeansConfig{
		Nshard:    *nshard,
		N:         *n,
		K:         *k,
		Dim:       2,
		MaxRounds: 50,
		Tol:       1e-4,
	})
	if err != nil {
		return err
	}
	log.Printf("kmeans: converged in %d rounds", krounds)
	for c, center := range centers {
		log.Printf("kmeans: centroid %d at %.3f", c, center)
	}
	fmt.Println("ok")
	return nil
}
