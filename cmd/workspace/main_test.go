// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
)

func TestRewrite(t *testing.T) {
	const layout = `{
		"data": {
			"panes": [
				{"url": "{EXTERNAL_URL}/status", "title": "status"},
				{"url": "{EXTERNAL_URL}/metrics", "title": "metrics"}
			],
			"shards": 8
		}
	}`
	data, err := rewrite([]byte(layout), defaultPlaceholder, "https://example.com/session/1")
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Data struct {
			Panes []struct {
				URL   string
				Title string
			}
			Shards int
		}
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if got, want := len(doc.Data.Panes), 2; got != want {
		t.Fatalf("got %v panes, want %v", got, want)
	}
	if got, want := doc.Data.Panes[0].URL, "https://example.com/session/1/status"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := doc.Data.Panes[1].URL, "https://example.com/session/1/metrics"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := doc.Data.Shards, 8; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRewriteBadJSON(t *testing.T) {
	if _, err := rewrite([]byte("not json"), defaultPlaceholder, "x"); err == nil {
		t.Error("expected error for malformed layout")
	}
}

func TestRewriteFile(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "workspace")
	defer cleanup()
	path := filepath.Join(dir, "workspace.json")
	if err := ioutil.WriteFile(path, []byte(`{"url": "{EXTERNAL_URL}/x"}`), 0666); err != nil {
		t.Fatal(err)
	}
	if err := rewriteFile(path, defaultPlaceholder, "http://localhost:8080"); err != nil {
		t.Fatal(err)
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"http://localhost:8080/x"`) {
		t.Errorf("rewritten layout missing substituted URL: %s", data)
	}
}

func TestExternalURL(t *testing.T) {
	defer restoreEnv("WORKSPACE_EXTERNAL_URL", "WORKSPACE_HOST", "WORKSPACE_PREFIX")()

	os.Setenv("WORKSPACE_EXTERNAL_URL", "https://example.com/base/")
	url, err := externalURL()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := url, "https://example.com/base"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	os.Unsetenv("WORKSPACE_EXTERNAL_URL")
	os.Setenv("WORKSPACE_HOST", "https://example.com/")
	os.Setenv("WORKSPACE_PREFIX", "/user/abc/")
	url, err = externalURL()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := url, "https://example.com/user/abc"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	os.Unsetenv("WORKSPACE_HOST")
	if _, err = externalURL(); err == nil {
		t.Error("expected error with no workspace environment")
	}
}

func restoreEnv(keys ...string) func() {
	saved := make(map[string]string)
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok {
			saved[key] = v
		}
		os.Unsetenv(key)
	}
	return func() {
		for _, key := range keys {
			if v, ok := saved[key]; ok {
				os.Setenv(key, v)
			} else {
				os.Unsetenv(key)
			}
		}
	}
}
