// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package chaos

import (
	"os"
	"syscall"

	ps "github.com/keybase/go-ps"
)

// Workers returns the pids of worker processes forked from this
// process. Under the local bigmachine system, every machine is a
// child re-execution of the driver binary, so children sharing our
// executable name are cluster workers.
func Workers() ([]int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, err
	}
	self := os.Getpid()
	var pids []int
	for _, p := range procs {
		if p.PPid() == self {
			pids = append(pids, p.Pid())
		}
	}
	return pids, nil
}

// KillWorkers delivers SIGKILL to up to n worker processes, returning
// the number actually signaled. It is the live-cluster counterpart of
// the test system's Kill: the process dies without warning and the
// library must notice via missed keepalives.
func KillWorkers(n int) (int, error) {
	pids, err := Workers()
	if err != nil {
		return 0, err
	}
	var killed int
	for _, pid := range pids {
		if killed >= n {
			break
		}
		if err := syscall.Kill(pid, syscall.SIGKILL); err != nil {
			continue
		}
		killed++
	}
	return killed, nil
}
