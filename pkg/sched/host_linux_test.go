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
	"errors"
	"os"
	"runtime"
	"testing"

	"golang.org/x/sys/unix"
)

func TestCaptureCurrentThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := NewHost()
	info, err := CurrentThreadOn(h)
	if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EPERM) {
		t.Skipf("sched_getattr not available: %v", err)
	}
	if err != nil {
		t.Fatalf("CurrentThreadOn: %v", err)
	}
	if got, want := int(info.PID()), os.Getpid(); got != want {
		t.Errorf("PID() = %d, want %d", got, want)
	}
	if got, want := int(info.LocalTID()), unix.Gettid(); got != want {
		t.Errorf("LocalTID() = %d, want %d", got, want)
	}
	if got, want := info.TID(), int64(unix.Gettid()); got != want {
		t.Errorf("TID() = %d, want %d", got, want)
	}

	// Writing back the unchanged state needs no privileges.
	if err := Restore(h, info); err != nil {
		t.Skipf("sched_setattr not permitted here: %v", err)
	}
	again, err := CurrentThreadOn(h)
	if err != nil {
		t.Fatalf("CurrentThreadOn: %v", err)
	}
	if again.Attr() != info.Attr() {
		t.Errorf("attributes after Restore = %v, want %v", again.Attr(), info.Attr())
	}
}

func TestInspectSelf(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if _, err := os.Stat(DefaultProcMount + "/self/status"); err != nil {
		t.Skipf("procfs unavailable: %v", err)
	}
	st, err := Inspect(DefaultProcMount, os.Getpid(), unix.Gettid())
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if st.Comm == "" {
		t.Errorf("Inspect returned empty Comm")
	}
	if st.Policy.IsRealtime() && st.RTPriority == 0 {
		t.Errorf("real-time policy %v with zero priority", st.Policy)
	}
}

func TestInspectMissingThread(t *testing.T) {
	if _, err := Inspect(DefaultProcMount, os.Getpid(), 1<<30); !errors.Is(err, ErrQuery) {
		t.Errorf("Inspect(missing thread) error = %v, want ErrQuery", err)
	}
}
