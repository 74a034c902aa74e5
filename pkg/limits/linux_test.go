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

package limits

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestInfinityConversion(t *testing.T) {
	if got := FromLinux(unix.RLIM_INFINITY); got != Infinity {
		t.Errorf("FromLinux(RLIM_INFINITY) = %d, want Infinity", got)
	}
	if got := ToLinux(Infinity); got != unix.RLIM_INFINITY {
		t.Errorf("ToLinux(Infinity) = %d, want RLIM_INFINITY", got)
	}
	if got := ToLinux(200000); got != 200000 {
		t.Errorf("ToLinux(200000) = %d", got)
	}
}

func TestToLinuxResource(t *testing.T) {
	for lt, want := range map[LimitType]int{
		RTTime:           unix.RLIMIT_RTTIME,
		RealTimePriority: unix.RLIMIT_RTPRIO,
		Nice:             unix.RLIMIT_NICE,
	} {
		got, err := ToLinuxResource(lt)
		if err != nil {
			t.Fatalf("ToLinuxResource(%v): %v", lt, err)
		}
		if got != want {
			t.Errorf("ToLinuxResource(%v) = %d, want %d", lt, got, want)
		}
	}
	if _, err := ToLinuxResource(LimitType(99)); err == nil {
		t.Errorf("ToLinuxResource(99) succeeded, want error")
	}
}

// Reading and rewriting the current value is always permitted.
func TestHostRoundTrip(t *testing.T) {
	h := NewHost()
	old, err := h.Get(RTTime)
	if err != nil {
		t.Fatalf("Get(RTTime): %v", err)
	}
	if err := h.Set(RTTime, old); err != nil {
		t.Fatalf("Set(RTTime, %v): %v", old, err)
	}
	got, err := h.Get(RTTime)
	if err != nil {
		t.Fatalf("Get(RTTime): %v", err)
	}
	if got != old {
		t.Errorf("Get after Set = %v, want %v", got, old)
	}
}
