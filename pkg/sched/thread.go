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

// Package sched captures and restores the scheduling identity of OS threads.
//
// A ThreadInfo is read on the thread it describes, so Go callers must hold
// runtime.LockOSThread for as long as the captured state matters.
package sched

import (
	"errors"
	"fmt"

	"gvisor.dev/rtsched/pkg/log"
)

// ErrQuery is returned when the scheduling state of a thread cannot be read.
var ErrQuery = errors.New("querying thread scheduling state")

// Host is the kernel interface used to capture and restore threads.
type Host interface {
	// Getpid returns the process id of the caller.
	Getpid() int

	// Gettid returns the kernel thread id of the caller.
	Gettid() int

	// GetAttr reads the scheduling state of thread tid.
	GetAttr(tid int) (Attr, error)

	// SetAttr replaces the scheduling state of thread tid.
	SetAttr(tid int, a Attr) error
}

// ThreadInfo is an opaque snapshot of a thread's identity and scheduling
// state. It can be copied, and serialized to be sent to another process that
// requests promotion on its behalf.
//
// Fields are ordered by alignment so that the in-memory layout has no padding
// and matches SizeBytes.
type ThreadInfo struct {
	// pid is the process containing the thread.
	pid int32

	// policy is the scheduling policy at capture time.
	policy Policy

	// tid is the kernel thread id sent to the broker.
	tid int64

	// localTID is the handle used to address the thread from inside the
	// owning process. It is only meaningful there.
	localTID uint64

	// param holds the scheduling parameters at capture time.
	param Param
}

// PID returns the id of the process that owns the thread.
func (t ThreadInfo) PID() int32 { return t.pid }

// TID returns the kernel thread id.
func (t ThreadInfo) TID() int64 { return t.tid }

// LocalTID returns the process-local thread handle.
func (t ThreadInfo) LocalTID() uint64 { return t.localTID }

// Policy returns the captured scheduling policy.
func (t ThreadInfo) Policy() Policy { return t.policy }

// Param returns the captured scheduling parameters.
func (t ThreadInfo) Param() Param { return t.param }

// Attr returns the captured policy and parameters.
func (t ThreadInfo) Attr() Attr {
	return Attr{Policy: t.policy, Param: t.param}
}

// Equal returns true if both snapshots describe the same thread. Only the
// thread ids take part; the pid and scheduling state may be stale.
func (t ThreadInfo) Equal(other ThreadInfo) bool {
	return t.tid == other.tid && t.localTID == other.localTID
}

// String implements fmt.Stringer.
func (t ThreadInfo) String() string {
	return fmt.Sprintf("pid=%d tid=%d local=%d %v", t.pid, t.tid, t.localTID, t.Attr())
}

// CurrentThread captures the calling thread using the Linux host.
func CurrentThread() (ThreadInfo, error) {
	return CurrentThreadOn(NewHost())
}

// CurrentThreadOn captures the calling thread using h.
func CurrentThreadOn(h Host) (ThreadInfo, error) {
	pid := h.Getpid()
	local := h.Gettid()

	attr, err := h.GetAttr(local)
	if err != nil {
		log.Warningf("sched_getattr on thread %d failed: %v", local, err)
		return ThreadInfo{}, fmt.Errorf("%w: thread %d: %w", ErrQuery, local, err)
	}

	return ThreadInfo{
		pid:      int32(pid),
		policy:   attr.Policy,
		tid:      int64(local),
		localTID: uint64(local),
		param:    attr.Param,
	}, nil
}

// Restore writes the captured scheduling state back to the thread through its
// process-local handle. The caller must be in the process that captured t.
func Restore(h Host, t ThreadInfo) error {
	return h.SetAttr(int(t.localTID), t.Attr())
}
