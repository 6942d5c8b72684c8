// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package datagen

import (
	"math"
	"strings"

	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice/sliceio"
)

// Readings returns a Slice<string, int, float64> of daily temperature
// readings: station name, day ordinal, and temperature in Celsius. Each
// of nstation stations reports for ndays days. Temperatures follow a
// per-station baseline plus a seasonal wave plus noise.
func Readings(nshard, nstation, ndays int) bigslice.Slice {
	total := nstation * ndays
	return bigslice.ReaderFunc(nshard, func(shard int, next *int, stations []string, days []int, temps []float64) (n int, err error) {
		lo, hi := span(total, nshard, shard)
		i := lo + *next
		for n < len(stations) && i < hi {
			station, day := i/ndays, i%ndays
			stations[n] = Station(station)
			days[n] = day
			temps[n] = Temperature(station, day)
			i++
			n++
		}
		*next += n
		if i == hi {
			return n, sliceio.EOF
		}
		return n, nil
	})
}

// Temperature returns the reading for the given station and day. It is
// exported so that tests and drivers can compute expected aggregates
// without re-scanning the dataset.
func Temperature(station, day int) float64 {
	base := -5 + 30*unit("temp/base", station)
	seasonal := 10 * math.Sin(2*math.Pi*float64(day)/365)
	return base + seasonal + 3*gauss("temp/noise", station, day)
}

// Rides returns a Slice<string, float64, float64, float64> of ride
// records: city, duration in minutes, fare, and tip.
func Rides(nshard, n int) bigslice.Slice {
	return bigslice.ReaderFunc(nshard, func(shard int, next *int, cities []string, minutes, fares, tips []float64) (m int, err error) {
		lo, hi := span(n, nshard, shard)
		i := lo + *next
		for m < len(cities) && i < hi {
			city, minute, fare, tip := Ride(i)
			cities[m] = city
			minutes[m] = minute
			fares[m] = fare
			tips[m] = tip
			i++
			m++
		}
		*next += m
		if i == hi {
			return m, sliceio.EOF
		}
		return m, nil
	})
}

// Ride returns the i'th ride record.
func Ride(i int) (city string, minutes, fare, tip float64) {
	city = Station(int(unit("ride/city", i) * float64(len(cities))))
	minutes = 5 + 55*unit("ride/minutes", i)
	fare = 2.5 + 0.35*minutes + 2*unit("ride/fare", i)
	tip = fare * 0.25 * unit("ride/tip", i)
	return
}

// words is a fixed corpus used to build documents.
var words = []string{
	"few", "espy", "longer", "until", "interesting",
	"thus", "bason", "passage", "classes", "straighten",
	"ill", "property", "combine", "promise", "chicago",
	"generally", "yellow", "per", "verb", "products",
	"file", "park", "doughty", "changed", "inaureoled",
	"flummoxed", "knife", "ghyll", "none", "bulwark",
	"provide", "background", "purposes", "bivouac", "removed",
	"jr", "adopt", "oil", "clean", "dingle",
	"experience", "population", "coomb", "slightly", "encourage",
	"kill", "mark", "present", "system", "standards",
	"rapid", "mean", "conditions", "control", "within",
	"circlet", "proper", "nothing", "craven", "case",
	"day", "serious", "might", "sound", "student",
	"rhode", "yammer", "caught", "deem", "homes",
	"marry", "stands", "elect", "modern", "activity",
	"servant", "too", "sport", "block", "low",
	"addition", "london", "accept", "unusual", "commercial",
	"grind", "books", "countries", "collect", "these",
	"marriage", "narrow", "honor", "gave", "lip",
	"country", "spring", "watching", "sea", "proverb",
}

// Word returns the i'th word of the fixed corpus.
func Word(i int) string { return words[i%len(words)] }

// Document returns the i'th document: a line of hash-chosen words.
func Document(i int) string {
	n := 4 + int(8*unit("doc/len", i))
	ws := make([]string, n)
	for j := range ws {
		ws[j] = words[int(unit("doc/word", i, j)*float64(len(words)))]
	}
	return strings.Join(ws, " ")
}

// Documents returns a Slice<string> of ndoc documents.
func Documents(nshard, ndoc int) bigslice.Slice {
	return bigslice.ReaderFunc(nshard, func(shard int, next *int, docs []string) (n int, err error) {
		lo, hi := span(ndoc, nshard, shard)
		i := lo + *next
		for n < len(docs) && i < hi {
			docs[n] = Document(i)
			i++
			n++
		}
		*next += n
		if i == hi {
			return n, sliceio.EOF
		}
		return n, nil
	})
}
