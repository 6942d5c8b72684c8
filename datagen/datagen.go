// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package datagen provides the deterministic synthetic datasets used
// throughout the examples. Record values are derived from hashes of the
// record's identity, never from shared RNG state, so that a dataset is
// the same multiset of records regardless of how many shards it is
// split into, and regardless of whether it is computed locally or on a
// cluster.
package datagen

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/spaolacci/murmur3"
)

// Seed is mixed into every hash so that datasets can be regenerated
// wholesale by changing a single value.
const Seed = 0x5eedbead

// unit hashes a tag and a set of indices into a uniform float64 in the
// half-open interval [0, 1).
func unit(tag string, parts ...int) float64 {
	b := make([]byte, 8, 8*(len(parts)+1)+len(tag))
	binary.LittleEndian.PutUint64(b, Seed)
	b = append(b, tag...)
	var p [8]byte
	for _, part := range parts {
		binary.LittleEndian.PutUint64(p[:], uint64(part))
		b = append(b, p[:]...)
	}
	// The top bits feed the 53-bit mantissa directly.
	return float64(murmur3.Sum64(b)>>11) / float64(1<<53)
}

// gauss returns a standard normal deviate derived from the same hash
// space as unit, via the Box-Muller transform.
func gauss(tag string, parts ...int) float64 {
	u1 := unit(tag+"/u1", parts...)
	u2 := unit(tag+"/u2", parts...)
	if u1 == 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// span returns the half-open index range [lo, hi) that shard covers
// when total records are split contiguously over nshard shards.
func span(total, nshard, shard int) (lo, hi int) {
	lo = shard * total / nshard
	hi = (shard + 1) * total / nshard
	return
}

var cities = []string{
	"akron", "boston", "chicago", "denver", "eugene",
	"fresno", "geneva", "helsinki", "istanbul", "juneau",
	"kyoto", "lisbon", "madrid", "nairobi", "oslo",
	"prague", "quito", "reno", "seattle", "tucson",
}

// Station returns the name of the i'th weather station. The first
// len(cities) stations get bare city names so that small examples read
// naturally; the rest are suffixed.
func Station(i int) string {
	if i < len(cities) {
		return cities[i]
	}
	return fmt.Sprintf("%s-%d", cities[i%len(cities)], i/len(cities))
}

// NumCities returns the number of distinct bare city names.
func NumCities() int { return len(cities) }
