// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package domains_test

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/grailbio/bigslice-examples/domains"
	"github.com/grailbio/bigslice/exec"
	"github.com/grailbio/testutil"
)

func TestDomain(t *testing.T) {
	for _, tc := range []struct {
		rawurl string
		want   string
	}{
		{"https://example.com/a/b", "example.com"},
		{"http://news.example.org", "news.example.org"},
		{"not a url", "<unknown>"},
		{"", "<unknown>"},
	} {
		domain, count := domains.Domain(tc.rawurl)
		if domain != tc.want {
			t.Errorf("%q: got %v, want %v", tc.rawurl, domain, tc.want)
		}
		if count != 1 {
			t.Errorf("%q: got count %v, want 1", tc.rawurl, count)
		}
	}
}

// event returns a GDELT-shaped row with the source URL in its proper
// column.
func event(rawurl string) string {
	fields := make([]string, 61)
	for i := range fields {
		fields[i] = "x"
	}
	fields[60] = rawurl
	return strings.Join(fields, "\t")
}

func TestCounts(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	files := []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.csv"),
	}
	contents := []string{
		event("https://example.com/1") + "\n" + event("https://example.com/2") + "\n",
		event("https://example.com/3") + "\n" + event("https://other.net/1") + "\n",
	}
	for i, path := range files {
		if err := ioutil.WriteFile(path, []byte(contents[i]), 0666); err != nil {
			t.Fatal(err)
		}
	}
	sess := exec.Start(exec.Local)
	defer sess.Shutdown()
	ctx := context.Background()
	prefix := filepath.Join(dir, "out")
	if _, err := sess.Run(ctx, domains.Counts, files, prefix); err != nil {
		t.Fatal(err)
	}
	matches, err := filepath.Glob(prefix + "-*")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) == 0 {
		t.Fatal("no output files written")
	}
	counts := make(map[string]int)
	for _, path := range matches {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
			if line == "" {
				continue
			}
			parts := strings.Split(line, "\t")
			if len(parts) != 2 {
				t.Fatalf("malformed line %q", line)
			}
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				t.Fatal(err)
			}
			counts[parts[0]] += n
		}
	}
	if got, want := counts["example.com"], 3; got != want {
		t.Errorf("example.com: got %v, want %v", got, want)
	}
	if got, want := counts["other.net"], 1; got != want {
		t.Errorf("other.net: got %v, want %v", got, want)
	}
}

func TestPaths(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	for _, name := range []string{"1.csv", "2.csv", "3.csv", "ignore.txt"} {
		if err := ioutil.WriteFile(filepath.Join(dir, name), []byte("x"), 0666); err != nil {
			t.Fatal(err)
		}
	}
	paths, err := domains.Paths(context.Background(), dir, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(paths), 2; got != want {
		t.Fatalf("got %v paths, want %v", got, want)
	}
	if !sort.StringsAreSorted(paths) {
		t.Error("paths not sorted")
	}
	for _, p := range paths {
		if !strings.HasSuffix(p, ".csv") {
			t.Errorf("unexpected path %s", p)
		}
	}
}
