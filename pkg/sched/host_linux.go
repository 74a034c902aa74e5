// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build linux

package sched

import (
	"fmt"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

// DefaultProcMount is where procfs is expected to be mounted.
const DefaultProcMount = procfs.DefaultMountPoint

// restoreFlags are the sched_attr flags that describe state rather than
// request behaviour, and so are written back on restore.
const restoreFlags = unix.SCHED_FLAG_RESET_ON_FORK | unix.SCHED_FLAG_RECLAIM | unix.SCHED_FLAG_DL_OVERRUN

type host struct{}

// NewHost returns the Linux Host.
func NewHost() Host {
	return host{}
}

// Getpid implements Host.Getpid.
func (host) Getpid() int {
	return unix.Getpid()
}

// Gettid implements Host.Gettid.
func (host) Gettid() int {
	return unix.Gettid()
}

// GetAttr implements Host.GetAttr.
func (host) GetAttr(tid int) (Attr, error) {
	sa, err := unix.SchedGetAttr(tid, 0)
	if err != nil {
		return Attr{}, err
	}
	return Attr{
		Policy: Policy(sa.Policy),
		Param: Param{
			Flags:    sa.Flags & restoreFlags,
			Runtime:  sa.Runtime,
			Deadline: sa.Deadline,
			Period:   sa.Period,
			Priority: sa.Priority,
			Nice:     sa.Nice,
		},
	}, nil
}

// SetAttr implements Host.SetAttr.
func (host) SetAttr(tid int, a Attr) error {
	sa := unix.SchedAttr{
		Policy:   uint32(a.Policy),
		Flags:    a.Param.Flags & restoreFlags,
		Nice:     a.Param.Nice,
		Priority: a.Param.Priority,
		Runtime:  a.Param.Runtime,
		Deadline: a.Param.Deadline,
		Period:   a.Param.Period,
	}
	if err := unix.SchedSetAttr(tid, &sa, 0); err != nil {
		return fmt.Errorf("sched_setattr(%d, %v): %w", tid, a, err)
	}
	return nil
}

// Status is a read-only view of any thread's scheduling state, as reported by
// procfs.
type Status struct {
	// Comm is the thread name.
	Comm string

	// NSpids lists the thread id in each nested pid namespace, outermost
	// first.
	NSpids []uint64

	// Policy is the scheduling policy.
	Policy Policy

	// RTPriority is the real-time priority, 0 for normal policies.
	RTPriority uint

	// Nice is the nice value.
	Nice int
}

// Inspect reads the scheduling state of thread tid in process pid. Unlike
// CurrentThreadOn it does not need to run on the target thread, and it works
// for threads of other processes.
func Inspect(procMount string, pid, tid int) (Status, error) {
	fs, err := procfs.NewFS(procMount)
	if err != nil {
		return Status{}, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	thread, err := fs.Thread(pid, tid)
	if err != nil {
		return Status{}, fmt.Errorf("%w: thread %d/%d: %w", ErrQuery, pid, tid, err)
	}
	stat, err := thread.NewStat()
	if err != nil {
		return Status{}, fmt.Errorf("%w: thread %d/%d stat: %w", ErrQuery, pid, tid, err)
	}
	status, err := thread.NewStatus()
	if err != nil {
		return Status{}, fmt.Errorf("%w: thread %d/%d status: %w", ErrQuery, pid, tid, err)
	}
	return Status{
		Comm:       stat.Comm,
		NSpids:     status.NSpids,
		Policy:     Policy(stat.Policy),
		RTPriority: stat.RTPriority,
		Nice:       stat.Nice,
	}, nil
}
