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

// Package rtkit talks to RealtimeKit, the system service that grants
// real-time scheduling to unprivileged threads.
package rtkit

import (
	"context"
	"time"
)

// Well-known names of the RealtimeKit service.
const (
	ServiceName = "org.freedesktop.RealtimeKit1"
	ObjectPath  = "/org/freedesktop/RealtimeKit1"
	Interface   = "org.freedesktop.RealtimeKit1"
)

// DefaultTimeout bounds each round trip to the broker.
const DefaultTimeout = 10 * time.Second

// Properties exported by the broker.
const (
	PropMaxRealtimePriority = "MaxRealtimePriority"
	PropRTTimeUSecMax       = "RTTimeUSecMax"
	PropMinNiceLevel        = "MinNiceLevel"
)

// Methods exported by the broker.
const (
	MethodMakeThreadRealtime        = Interface + ".MakeThreadRealtime"
	MethodMakeThreadRealtimeWithPID = Interface + ".MakeThreadRealtimeWithPID"
)

// Broker is the set of RealtimeKit operations used to promote threads.
// Thread ids are kernel thread ids as returned by gettid(2).
// Thread ids are system-wide ids, as seen from the broker's pid namespace.
type Broker interface {
	// MaxRealtimePriority returns the highest priority the broker grants.
	MaxRealtimePriority(ctx context.Context) (int64, error)

	// RTTimeUSecMax returns the largest RLIMIT_RTTIME, in microseconds, a
	// thread may hold to be promoted.
	RTTimeUSecMax(ctx context.Context) (int64, error)

	// MinNiceLevel returns the lowest nice level the broker grants.
	MinNiceLevel(ctx context.Context) (int64, error)

	// MakeThreadRealtime promotes thread tid of the calling process.
	MakeThreadRealtime(ctx context.Context, tid uint64, priority uint32) error

	// MakeThreadRealtimeWithPID promotes thread tid of process pid.
	MakeThreadRealtimeWithPID(ctx context.Context, pid, tid uint64, priority uint32) error
}
