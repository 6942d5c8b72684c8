// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package learn is the machine-learning chapter of the examples. Both
// algorithms follow the same shape: the per-record work (gradients,
// cluster assignment) is distributed as a slice computation, while the
// small model state (weights, centroids) lives in the driver and is
// broadcast to workers as invocation arguments. Each training round is
// one invocation; the session amortizes cluster state across rounds.
package learn

import (
	"context"
	"fmt"

	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice-examples/datagen"
	"github.com/grailbio/bigslice/exec"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Gradient is the summed least-squares gradient over a set of labeled
// points, plus the summed squared error for loss reporting.
type Gradient struct {
	W     []float64
	B     float64
	Count int
	Loss  float64
}

// gradientFunc computes the full-batch gradient of mean squared error
// for a linear model over the synthetic labeled dataset. The current
// model is broadcast through the invocation arguments.
var gradientFunc = bigslice.Func(func(nshard, n, dim int, weights []float64, bias float64) bigslice.Slice {
	slice := datagen.Labeled(nshard, n, dim)
	slice = bigslice.Map(slice, func(x []float64, y float64) (string, Gradient) {
		resid := bias + floats.Dot(weights, x) - y
		g := Gradient{W: make([]float64, len(x)), B: resid, Count: 1, Loss: resid * resid}
		for d := range x {
			g.W[d] = resid * x[d]
		}
		return "gradient", g
	})
	return bigslice.Fold(slice, func(a, g Gradient) Gradient {
		if a.W == nil {
			a.W = make([]float64, len(g.W))
		}
		floats.Add(a.W, g.W)
		a.B += g.B
		a.Count += g.Count
		a.Loss += g.Loss
		return a
	})
})

// RegressionConfig parameterizes LinearRegression.
type RegressionConfig struct {
	Nshard int
	N      int
	Dim    int
	Rounds int
	// LR is the gradient step size.
	LR float64
}

// LinearRegression fits a linear model to the synthetic labeled
// dataset by full-batch gradient descent, one invocation per round. It
// returns the fitted weights and bias along with the mean squared
// error observed at each round.
func LinearRegression(ctx context.Context, sess *exec.Session, cfg RegressionConfig) (weights []float64, bias float64, losses []float64, err error) {
	w := mat.NewVecDense(cfg.Dim, nil)
	for round := 0; round < cfg.Rounds; round++ {
		var g Gradient
		g, err = runGradient(ctx, sess, cfg, w.RawVector().Data, bias)
		if err != nil {
			return nil, 0, nil, err
		}
		n := float64(g.Count)
		losses = append(losses, g.Loss/n)
		w.AddScaledVec(w, -cfg.LR/n, mat.NewVecDense(cfg.Dim, g.W))
		bias -= cfg.LR * g.B / n
	}
	return w.RawVector().Data, bias, losses, nil
}

// MSE evaluates a model over the dataset without updating it.
func MSE(ctx context.Context, sess *exec.Session, cfg RegressionConfig, weights []float64, bias float64) (float64, error) {
	g, err := runGradient(ctx, sess, cfg, weights, bias)
	if err != nil {
		return 0, err
	}
	return g.Loss / float64(g.Count), nil
}

func runGradient(ctx context.Context, sess *exec.Session, cfg RegressionConfig, weights []float64, bias float64) (Gradient, error) {
	res, err := sess.Run(ctx, gradientFunc, cfg.Nshard, cfg.N, cfg.Dim, weights, bias)
	if err != nil {
		return Gradient{}, err
	}
	scan := res.Scanner()
	defer scan.Close()
	var (
		key string
		g   Gradient
	)
	if !scan.Scan(ctx, &key, &g) {
		if err := scan.Err(); err != nil {
			return Gradient{}, err
		}
		return Gradient{}, fmt.Errorf("gradient: empty result")
	}
	return g, scan.Err()
}
