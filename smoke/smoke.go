// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package smoke runs the example corpus end to end as a test: every
// registered example either completes without error or fails the run.
// Examples that need resources beyond a local session (a real cluster,
// the network) are held back unless the run grants them, which is how
// CI excludes the two non-hermetic chapters.
package smoke

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bigslice/exec"
	"golang.org/x/sync/errgroup"
)

// Needs flags resources an example requires beyond a local session.
type Needs int

const (
	// NeedsCluster marks examples that start their own multi-machine
	// cluster or kill worker processes.
	NeedsCluster Needs = 1 << iota
	// NeedsNetwork marks examples that read external data.
	NeedsNetwork
)

// Config carries per-run settings into examples.
type Config struct {
	// Session executes the example's invocations.
	Session *exec.Session
	// PlotDir, when nonempty, is where examples write rendered plots.
	PlotDir string
	// Parallelism bounds how many examples run at once. Values below 2
	// run the examples sequentially in name order.
	Parallelism int
}

// An Example is one runnable, self-verifying chapter demo.
type Example struct {
	Name  string
	Needs Needs
	Run   func(ctx context.Context, cfg Config) error
}

// A Registry holds a set of named examples.
type Registry struct {
	mu       sync.Mutex
	examples map[string]Example
}

// Register adds an example to the registry. It panics if the name is
// already taken.
func (r *Registry) Register(ex Example) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.examples == nil {
		r.examples = make(map[string]Example)
	}
	if _, ok := r.examples[ex.Name]; ok {
		log.Panicf("example %s is already registered", ex.Name)
	}
	r.examples[ex.Name] = ex
}

// Names returns the registered example names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.examples))
	for name := range r.examples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes every registered example whose needs are covered by
// allow and whose name is not in skip, in name order, up to
// cfg.Parallelism at a time. All examples are attempted; the returned
// error aggregates the failures. Run returns an error for skip entries
// that name no registered example, so stale exclusion lists fail
// loudly.
func (r *Registry) Run(ctx context.Context, cfg Config, allow Needs, skip []string) error {
	r.mu.Lock()
	examples := make(map[string]Example, len(r.examples))
	for name, ex := range r.examples {
		examples[name] = ex
	}
	r.mu.Unlock()

	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		if name == "" {
			continue
		}
		if _, ok := examples[name]; !ok {
			return fmt.Errorf("skip: no example named %s", name)
		}
		skipped[name] = true
	}
	names := make([]string, 0, len(examples))
	for name := range examples {
		names = append(names, name)
	}
	sort.Strings(names)

	var torun []Example
	for _, name := range names {
		ex := examples[name]
		switch {
		case skipped[name]:
			log.Printf("%s: skipped", name)
		case ex.Needs&^allow != 0:
			log.Printf("%s: skipped (needs not granted)", name)
		default:
			torun = append(torun, ex)
		}
	}

	procs := cfg.Parallelism
	if procs < 1 {
		procs = 1
	}
	var (
		mu     sync.Mutex
		failed []string
		sema   = make(chan struct{}, procs)
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, ex := range torun {
		ex := ex
		sema <- struct{}{}
		g.Go(func() error {
			defer func() { <-sema }()
			start := time.Now()
			if err := ex.Run(ctx, cfg); err != nil {
				log.Error.Printf("%s: %v", ex.Name, err)
				mu.Lock()
				failed = append(failed, ex.Name)
				mu.Unlock()
				return nil
			}
			log.Printf("%s: ok (%s)", ex.Name, time.Since(start))
			return nil
		})
	}
	g.Wait()
	if len(failed) > 0 {
		sort.Strings(failed)
		return fmt.Errorf("%d examples failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}
