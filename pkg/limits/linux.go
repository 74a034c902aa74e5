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
	"fmt"

	"golang.org/x/sys/unix"
)

// FromLinuxResource maps linux resources to LimitTypes.
var FromLinuxResource = map[int]LimitType{
	unix.RLIMIT_RTTIME: RTTime,
	unix.RLIMIT_RTPRIO: RealTimePriority,
	unix.RLIMIT_NICE:   Nice,
}

// ToLinuxResource maps LimitTypes to linux resources.
func ToLinuxResource(lt LimitType) (int, error) {
	for r, t := range FromLinuxResource {
		if t == lt {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown limit type %v", lt)
}

// FromLinux maps linux rlimit values to Limits, being careful to handle
// infinities.
func FromLinux(rl uint64) uint64 {
	if rl == unix.RLIM_INFINITY {
		return Infinity
	}
	return rl
}

// ToLinux maps Limits to linux rlimit values, being careful to handle
// infinities.
func ToLinux(l uint64) uint64 {
	if l == Infinity {
		return unix.RLIM_INFINITY
	}
	return l
}

type hostLimits struct{}

// NewHost returns a Host backed by prlimit(2) on the calling process.
func NewHost() Host {
	return hostLimits{}
}

// Get implements Host.Get.
func (hostLimits) Get(lt LimitType) (Limit, error) {
	res, err := ToLinuxResource(lt)
	if err != nil {
		return Limit{}, err
	}
	var rl unix.Rlimit
	if err := unix.Prlimit(0, res, nil, &rl); err != nil {
		return Limit{}, fmt.Errorf("prlimit(%v): %w", lt, err)
	}
	return Limit{Cur: FromLinux(rl.Cur), Max: FromLinux(rl.Max)}, nil
}

// Set implements Host.Set.
func (hostLimits) Set(lt LimitType, l Limit) error {
	res, err := ToLinuxResource(lt)
	if err != nil {
		return err
	}
	rl := unix.Rlimit{Cur: ToLinux(l.Cur), Max: ToLinux(l.Max)}
	if err := unix.Prlimit(0, res, &rl, nil); err != nil {
		return fmt.Errorf("prlimit(%v, %v): %w", lt, l, err)
	}
	return nil
}
