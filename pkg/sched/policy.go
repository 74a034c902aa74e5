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

package sched

import "fmt"

// Policy is a Linux scheduling policy. Values match the kernel ABI.
type Policy uint32

// Scheduling policies, from include/uapi/linux/sched.h.
const (
	Normal   Policy = 0
	FIFO     Policy = 1
	RR       Policy = 2
	Batch    Policy = 3
	Idle     Policy = 5
	Deadline Policy = 6
	Ext      Policy = 7
)

// ResetOnFork is the flag, in Param.Flags, that stops children from
// inheriting a real-time policy.
const ResetOnFork = 0x1

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case Normal:
		return "SCHED_OTHER"
	case FIFO:
		return "SCHED_FIFO"
	case RR:
		return "SCHED_RR"
	case Batch:
		return "SCHED_BATCH"
	case Idle:
		return "SCHED_IDLE"
	case Deadline:
		return "SCHED_DEADLINE"
	case Ext:
		return "SCHED_EXT"
	default:
		return fmt.Sprintf("SCHED_UNKNOWN(%d)", uint32(p))
	}
}

// IsRealtime returns true for the policies that preempt normal threads.
func (p Policy) IsRealtime() bool {
	return p == FIFO || p == RR || p == Deadline
}

// Param holds the scheduling parameters that accompany a Policy, in the shape
// of struct sched_attr. Priority only applies to FIFO and RR, Nice to Normal
// and Batch, and Runtime/Deadline/Period to Deadline.
type Param struct {
	Flags    uint64
	Runtime  uint64
	Deadline uint64
	Period   uint64
	Priority uint32
	Nice     int32
}

// Attr is the complete scheduling state of a thread.
type Attr struct {
	Policy Policy
	Param  Param
}

// String implements fmt.Stringer.
func (a Attr) String() string {
	s := fmt.Sprintf("%v prio=%d nice=%d", a.Policy, a.Param.Priority, a.Param.Nice)
	if a.Param.Flags&ResetOnFork != 0 {
		s += " reset-on-fork"
	}
	if a.Policy == Deadline {
		s += fmt.Sprintf(" runtime=%d deadline=%d period=%d", a.Param.Runtime, a.Param.Deadline, a.Param.Period)
	}
	return s
}
