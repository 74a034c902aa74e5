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

// Package limits provides access to the process resource limits that govern
// real-time scheduling.
package limits

import (
	"fmt"
	"sync"
	"syscall"
)

// LimitType defines a type of resource limit.
type LimitType int

// Set of limits relevant to real-time scheduling.
const (
	// RTTime is the CPU time, in microseconds, a thread under a real-time
	// policy may consume without making a blocking system call.
	RTTime LimitType = iota

	// RealTimePriority is the ceiling on the real-time priority a thread
	// may set for itself without privileges.
	RealTimePriority

	// Nice is the ceiling on the nice value, expressed as 20 - nice.
	Nice
)

// String implements fmt.Stringer.
func (lt LimitType) String() string {
	switch lt {
	case RTTime:
		return "RLIMIT_RTTIME"
	case RealTimePriority:
		return "RLIMIT_RTPRIO"
	case Nice:
		return "RLIMIT_NICE"
	default:
		return fmt.Sprintf("LimitType(%d)", int(lt))
	}
}

// Infinity is a constant representing a resource with no limit.
const Infinity = ^uint64(0)

// Limit specifies a system limit.
type Limit struct {
	// Cur specifies the current limit (the soft limit).
	Cur uint64

	// Max specifies the maximum settable limit (the hard limit).
	Max uint64
}

func formatValue(v uint64) string {
	if v == Infinity {
		return "unlimited"
	}
	return fmt.Sprintf("%d", v)
}

// String implements fmt.Stringer.
func (l Limit) String() string {
	return fmt.Sprintf("{cur=%s max=%s}", formatValue(l.Cur), formatValue(l.Max))
}

// Host reads and writes the resource limits of the calling process.
type Host interface {
	// Get returns the current value of the given limit.
	Get(lt LimitType) (Limit, error)

	// Set replaces the given limit.
	Set(lt LimitType, l Limit) error
}

// LimitSet is an in-memory Host that enforces the kernel's rules for setrlimit:
// the soft limit may not exceed the hard limit, and the hard limit may only be
// raised when privileged.
type LimitSet struct {
	mu         sync.Mutex
	data       map[LimitType]Limit
	privileged bool
}

// NewLimitSet returns a LimitSet where every limit is unlimited.
func NewLimitSet(privileged bool) *LimitSet {
	return &LimitSet{
		data:       make(map[LimitType]Limit),
		privileged: privileged,
	}
}

// Get implements Host.Get.
func (ls *LimitSet) Get(lt LimitType) (Limit, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if l, ok := ls.data[lt]; ok {
		return l, nil
	}
	return Limit{Cur: Infinity, Max: Infinity}, nil
}

// Set implements Host.Set.
func (ls *LimitSet) Set(lt LimitType, v Limit) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	old, ok := ls.data[lt]
	if !ok {
		old = Limit{Cur: Infinity, Max: Infinity}
	}
	if v.Cur > v.Max {
		return syscall.EINVAL
	}
	if v.Max > old.Max && !ls.privileged {
		return syscall.EPERM
	}
	ls.data[lt] = v
	return nil
}
