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

package realtime

import (
	"sync/atomic"

	"gvisor.dev/rtsched/pkg/sched"
)

// Handle is proof that a thread was promoted. It is consumed by demotion.
type Handle struct {
	info     sched.ThreadInfo
	priority uint32

	// locked is set when the promoting goroutine was locked to the thread
	// and must be unlocked on demotion.
	locked bool

	consumed atomic.Bool
}

// ThreadInfo returns the state of the thread before promotion.
func (h *Handle) ThreadInfo() sched.ThreadInfo { return h.info }

// Priority returns the real-time priority granted by the broker.
func (h *Handle) Priority() uint32 { return h.priority }

// Consumed returns true once the handle has been demoted.
func (h *Handle) Consumed() bool { return h.consumed.Load() }
