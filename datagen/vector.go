// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package datagen

import (
	"github.com/grailbio/bigslice"
	"github.com/grailbio/bigslice/sliceio"
)

// Value returns the i'th element of the synthetic vector used by the
// arrays chapter: normal with mean 5 and standard deviation 2.
func Value(i int) float64 { return 5 + 2*gauss("vector", i) }

// Values returns a Slice<int, float64> of the first n vector elements,
// keyed by index.
func Values(nshard, n int) bigslice.Slice {
	return bigslice.ReaderFunc(nshard, func(shard int, next *int, indices []int, values []float64) (m int, err error) {
		lo, hi := span(n, nshard, shard)
		i := lo + *next
		for m < len(indices) && i < hi {
			indices[m] = i
			values[m] = Value(i)
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

// Blocks returns a Slice<int, []float64> of nblock contiguous blocks
// of the synthetic vector, each of size blocksize, keyed by block
// index. Blocked layout is what the arrays chapter computes over.
func Blocks(nshard, nblock, blocksize int) bigslice.Slice {
	return bigslice.ReaderFunc(nshard, func(shard int, next *int, indices []int, blocks [][]float64) (m int, err error) {
		lo, hi := span(nblock, nshard, shard)
		b := lo + *next
		for m < len(indices) && b < hi {
			block := make([]float64, blocksize)
			for j := range block {
				block[j] = Value(b*blocksize + j)
			}
			indices[m] = b
			blocks[m] = block
			b++
			m++
		}
		*next += m
		if b == hi {
			return m, sliceio.EOF
		}
		return m, nil
	})
}
