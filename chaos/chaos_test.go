// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package chaos_test

import (
	"context"
	"flag"
	"testing"
	"time"

	"github.com/grailbio/bigslice-examples/chaos"
)

var monkey = flag.Bool("monkey", false, "run the full machine-killing test")

func TestRunNoKills(t *testing.T) {
	if testing.Short() {
		t.Skip("cluster test disabled with -short")
	}
	result, err := chaos.Run(context.Background(), chaos.Config{
		Nshard:      4,
		N:           60,
		MaxKills:    0,
		Parallelism: 4,
		MeanSleep:   time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := result.Total, chaos.Expected(60); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := result.Kills, 0; got != want {
		t.Errorf("got %v kills, want %v", got, want)
	}
}

func TestRunWithKills(t *testing.T) {
	if testing.Short() {
		t.Skip("cluster test disabled with -short")
	}
	// Nondeterministic by nature and slow to recover; opt in, as with
	// the library's own chaos tests.
	if !*monkey {
		t.Skip("machine-killing test disabled; pass -monkey to enable")
	}
	result, err := chaos.Run(context.Background(), chaos.Config{
		Nshard:      10,
		N:           1000,
		MaxKills:    3,
		Parallelism: 10,
		MeanSleep:   60 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := result.Total, chaos.Expected(1000); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	t.Logf("recovered from %d kills in %s", result.Kills, result.Elapsed)
}

func TestExpected(t *testing.T) {
	for _, tc := range []struct{ n, want int }{
		{0, 0}, {1, 0}, {2, 1}, {10, 45},
	} {
		if got := chaos.Expected(tc.n); got != tc.want {
			t.Errorf("Expected(%d): got %v, want %v", tc.n, got, tc.want)
		}
	}
}
