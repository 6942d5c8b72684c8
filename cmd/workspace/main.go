// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Workspace prepares a hosted example environment before handing off
// to the real entry point. Hosted launchers only know the externally
// reachable URL at start time, through the environment; this command
// substitutes that URL for a placeholder in the workspace layout file
// (so links to the session status pages resolve) and then execs the
// remaining arguments in place.
//
// The external URL is taken from $WORKSPACE_EXTERNAL_URL. When that is
// unset, it is joined from the legacy pair $WORKSPACE_HOST and
// $WORKSPACE_PREFIX.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/grailbio/base/log"
)

const defaultPlaceholder = "{EXTERNAL_URL}"

func main() {
	var (
		layout      = flag.String("layout", "workspace.json", "workspace layout file to rewrite")
		placeholder = flag.String("placeholder", defaultPlaceholder, "placeholder replaced by the external URL")
	)
	log.AddFlags()
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: workspace [-layout FILE] [-placeholder STR] command args...")
		os.Exit(2)
	}

	url, err := externalURL()
	if err != nil {
		log.Fatal(err)
	}
	if err := rewriteFile(*layout, *placeholder, url); err != nil {
		log.Fatal(err)
	}

	args := flag.Args()
	path, err := exec.LookPath(args[0])
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("workspace ready: launching %s", strings.Join(args, " "))
	if err := syscall.Exec(path, args, os.Environ()); err != nil {
		log.Fatal(err)
	}
}

func externalURL() (string, error) {
	if url := os.Getenv("WORKSPACE_EXTERNAL_URL"); url != "" {
		return strings.TrimRight(url, "/"), nil
	}
	var (
		host   = os.Getenv("WORKSPACE_HOST")
		prefix = os.Getenv("WORKSPACE_PREFIX")
	)
	if host == "" {
		return "", fmt.Errorf("neither WORKSPACE_EXTERNAL_URL nor WORKSPACE_HOST is set")
	}
	return strings.TrimRight(host, "/") + "/" + strings.Trim(prefix, "/"), nil
}

// rewriteFile substitutes placeholder with url in every string value
// of the JSON layout file, writing the result atomically.
func rewriteFile(path, placeholder, url string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	rewritten, err := rewrite(data, placeholder, url)
	if err != nil {
		return fmt.Errorf("rewrite %s: %v", path, err)
	}
	tmp, err := ioutil.TempFile(filepath.Dir(path), ".workspace")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(rewritten); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func rewrite(data []byte, placeholder, url string) ([]byte, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc = substitute(doc, placeholder, url)
	return json.MarshalIndent(doc, "", "  ")
}

func substitute(doc interface{}, placeholder, url string) interface{} {
	switch v := doc.(type) {
	case string:
		return strings.Replace(v, placeholder, url, -1)
	case []interface{}:
		for i := range v {
			v[i] = substitute(v[i], placeholder, url)
		}
		return v
	case map[string]interface{}:
		for key := range v {
			v[key] = substitute(v[key], placeholder, url)
		}
		return v
	}
	return doc
}
