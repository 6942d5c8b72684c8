// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package learn

import (
	"context"
	"math"

	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice-examples/datagen"
	"github.com/grailbio/bigslice/exec"
	"gonum.org/v1/gonum/floats"
)

// ClusterSum accumulates coordinate sums for the points assigned to
// one centroid.
type ClusterSum struct {
	Sum   []float64
	Count int
}

// assignFunc assigns every synthetic point to its nearest centroid and
// folds per-centroid coordinate sums. Centroids are broadcast flat
// because invocation arguments must have concrete gob-friendly types.
var assignFunc = bigslice.Func(func(nshard, n, k, dim int, flat []float64) bigslice.Slice {
	centers := unflatten(flat, k, dim)
	slice := datagen.Points(nshard, n, k, dim)
	slice = bigslice.Map(slice, func(p []float64) (int, ClusterSum) {
		sum := make([]float64, len(p))
		copy(sum, p)
		return nearest(centers, p), ClusterSum{Sum: sum, Count: 1}
	})
	return bigslice.Fold(slice, func(a, s ClusterSum) ClusterSum {
		if a.Sum == nil {
			a.Sum = make([]float64, len(s.Sum))
		}
		floats.Add(a.Sum, s.Sum)
		a.Count += s.Count
		return a
	})
})

func nearest(centers [][]float64, p []float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		if d := floats.Distance(center, p, 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func unflatten(flat []float64, k, dim int) [][]float64 {
	centers := make([][]float64, k)
	for c := range centers {
		centers[c] = flat[c*dim : (c+1)*dim]
	}
	return centers
}

func flatten(centers [][]float64) []float64 {
	flat := make([]float64, 0, len(centers)*len(centers[0]))
	for _, c := range centers {
		flat = append(flat, c...)
	}
	return flat
}

// KMeansConfig parameterizes KMeans.
type KMeansConfig struct {
	Nshard int
	N      int
	K      int
	Dim    int
	// MaxRounds caps Lloyd iterations; Tol stops early once no
	// centroid moves farther than this between rounds.
	MaxRounds int
	Tol       float64
}

// KMeans clusters the synthetic point set with Lloyd's algorithm,
// one invocation per round, starting from the first K points. It
// returns the final centroids and the number of rounds run.
func KMeans(ctx context.Context, sess *exec.Session, cfg KMeansConfig) (centers [][]float64, rounds int, err error) {
	// Seed with the first K points of the dataset itself.
	gen := datagen.Centroids(cfg.K, cfg.Dim)
	centers = make([][]float64, cfg.K)
	for c := range centers {
		centers[c] = datagen.Point(c, gen)
	}
	for rounds < cfg.MaxRounds {
		rounds++
		res, err := sess.Run(ctx, assignFunc, cfg.Nshard, cfg.N, cfg.K, cfg.Dim, flatten(centers))
		if err != nil {
			return nil, rounds, err
		}
		next := make([][]float64, cfg.K)
		copy(next, centers)
		scan := res.Scanner()
		var (
			c   int
			sum ClusterSum
		)
		for scan.Scan(ctx, &c, &sum) {
			mean := make([]float64, cfg.Dim)
			for d := range mean {
				mean[d] = sum.Sum[d] / float64(sum.Count)
			}
			next[c] = mean
		}
		if err := scan.Err(); err != nil {
			scan.Close()
			return nil, rounds, err
		}
		scan.Close()
		var moved float64
		for c := range centers {
			if d := floats.Distance(centers[c], next[c], 2); d > moved {
				moved = d
			}
		}
		centers = next
		if moved <= cfg.Tol {
			break
		}
	}
	return centers, rounds, nil
}
