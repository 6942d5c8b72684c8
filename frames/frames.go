// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package frames is the keyed-records chapter of the examples:
// dataframe-style filtering, grouped aggregation, joins, and top-k over
// record slices. Rides are Slice<city, minutes, fare, tip>; readings
// are Slice<station, day, tempC> (see package datagen).
package frames

import (
	"sort"
	"strings"

	"github.com/grailbio/bigslice"
)

// FareStats accumulates a running fare sum. Its fields are exported so
// the accumulator serializes between cluster machines.
type FareStats struct {
	Count int
	Sum   float64
}

// MeanFare computes the mean fare by city over a rides slice,
// returning a Slice<string, float64>.
func MeanFare(rides bigslice.Slice) bigslice.Slice {
	slice := bigslice.Map(rides, func(city string, minutes, fare, tip float64) (string, float64) {
		return city, fare
	})
	slice = bigslice.Fold(slice, func(a FareStats, fare float64) FareStats {
		a.Count++
		a.Sum += fare
		return a
	})
	return bigslice.Map(slice, func(city string, a FareStats) (string, float64) {
		return city, a.Sum / float64(a.Count)
	})
}

// MaxTemp computes each station's maximum reading, returning a
// Slice<string, float64>.
func MaxTemp(readings bigslice.Slice) bigslice.Slice {
	slice := bigslice.Map(readings, func(station string, day int, tempC float64) (string, float64) {
		return station, tempC
	})
	return bigslice.Reduce(slice, func(a, e float64) float64 {
		if a > e {
			return a
		}
		return e
	})
}

// HotDays counts, per station, the days whose reading is strictly
// above threshold, returning a Slice<string, int>. Stations with no
// hot days are absent from the result.
func HotDays(readings bigslice.Slice, threshold float64) bigslice.Slice {
	slice := bigslice.Filter(readings, func(station string, day int, tempC float64) bool {
		return tempC > threshold
	})
	counts := bigslice.Map(slice, func(station string, day int, tempC float64) (string, int) {
		return station, 1
	})
	return bigslice.Reduce(counts, func(a, e int) int { return a + e })
}

// JoinStats joins mean fares with maximum temperatures by city,
// returning a Slice<string, float64, float64> of (city, mean fare, max
// temp). Cities missing from either side are dropped.
func JoinStats(rides, readings bigslice.Slice) bigslice.Slice {
	joined := bigslice.Cogroup(MeanFare(rides), MaxTemp(readings))
	joined = bigslice.Filter(joined, func(city string, fares, temps []float64) bool {
		return len(fares) > 0 && len(temps) > 0
	})
	return bigslice.Map(joined, func(city string, fares, temps []float64) (string, float64, float64) {
		return city, fares[0], temps[0]
	})
}

// TipBoard holds the k largest tips seen so far, descending.
type TipBoard struct {
	Tips []float64
}

// TopTips returns a Slice<float64> of the k largest tips across all
// rides. The fold keeps a bounded board, so accumulator memory stays
// O(k) no matter how many rides flow through it.
func TopTips(rides bigslice.Slice, k int) bigslice.Slice {
	slice := bigslice.Map(rides, func(city string, minutes, fare, tip float64) (string, float64) {
		return "top", tip
	})
	folded := bigslice.Fold(slice, func(b TipBoard, tip float64) TipBoard {
		b.Tips = append(b.Tips, tip)
		sort.Sort(sort.Reverse(sort.Float64Slice(b.Tips)))
		if len(b.Tips) > k {
			b.Tips = b.Tips[:k]
		}
		return b
	})
	return bigslice.Flatmap(folded, func(key string, b TipBoard) []float64 {
		return b.Tips
	})
}

// WordCount tokenizes a Slice<string> of documents on spaces and
// counts occurrences, returning a Slice<string, int>.
func WordCount(docs bigslice.Slice) bigslice.Slice {
	words := bigslice.Flatmap(docs, func(doc string) ([]string, []int) {
		fields := strings.Fields(doc)
		ones := make([]int, len(fields))
		for i := range ones {
			ones[i] = 1
		}
		return fields, ones
	})
	return bigslice.Reduce(words, func(a, e int) int { return a + e })
}
