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
	"context"
	"errors"
	"fmt"

	"gvisor.dev/rtsched/pkg/cleanup"
	"gvisor.dev/rtsched/pkg/limits"
	"gvisor.dev/rtsched/pkg/log"
	"gvisor.dev/rtsched/pkg/rtkit"
	"gvisor.dev/rtsched/pkg/sched"
)

// Negotiate asks the broker to promote the thread described by info to the
// given priority with a time slice of sliceUS microseconds. Both are lowered
// to the broker's maximums. It returns the priority that was granted.
//
// RLIMIT_RTTIME of the calling process is set to the slice, with the broker
// maximum as hard limit, as the broker requires. If the broker refuses, the
// previous limit is restored before returning ErrPromotionDenied.
func (c *Controller) Negotiate(ctx context.Context, info sched.ThreadInfo, sliceUS uint64, priority uint32) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	granted, err := c.negotiateLocked(ctx, info, sliceUS, priority)
	switch {
	case err == nil:
		c.metrics.promotions.WithLabelValues(resultGranted).Inc()
	case errors.Is(err, ErrPromotionDenied):
		c.metrics.promotions.WithLabelValues(resultDenied).Inc()
		c.denied.Warningf("Real-time promotion of thread %v refused: %v", info, err)
	default:
		c.metrics.promotions.WithLabelValues(resultError).Inc()
		log.Warningf("Real-time promotion of thread %v failed: %v", info, err)
	}
	return granted, err
}

// Preconditions: c.mu is locked.
func (c *Controller) negotiateLocked(ctx context.Context, info sched.ThreadInfo, sliceUS uint64, priority uint32) (uint32, error) {
	maxPriority, err := c.brokerMax(ctx, rtkit.PropMaxRealtimePriority, c.broker.MaxRealtimePriority)
	if err != nil {
		return 0, err
	}
	if uint64(priority) > maxPriority {
		log.Debugf("Lowering real-time priority %d to broker maximum %d", priority, maxPriority)
		c.metrics.clamps.WithLabelValues(clampPriority).Inc()
		priority = uint32(maxPriority)
	}

	maxSlice, err := c.brokerMax(ctx, rtkit.PropRTTimeUSecMax, c.broker.RTTimeUSecMax)
	if err != nil {
		return 0, err
	}
	if sliceUS > maxSlice {
		log.Debugf("Lowering real-time slice %dus to broker maximum %dus", sliceUS, maxSlice)
		c.metrics.clamps.WithLabelValues(clampSlice).Inc()
		sliceUS = maxSlice
	}

	old, err := c.limits.Get(limits.RTTime)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLimitQuery, err)
	}
	// A soft limit below the hard limit makes the kernel send SIGXCPU,
	// rather than SIGKILL, to a thread that overruns its slice.
	want := limits.Limit{Cur: sliceUS, Max: maxSlice}
	if err := c.limits.Set(limits.RTTime, want); err != nil {
		return 0, fmt.Errorf("%w: %v: %w", ErrLimitSet, want, err)
	}

	var rollbackErr error
	cu := cleanup.Make(func() {
		c.metrics.rollbacks.Inc()
		if err := c.limits.Set(limits.RTTime, old); err != nil {
			log.Warningf("Failed to restore %v to %v: %v", limits.RTTime, old, err)
			rollbackErr = fmt.Errorf("restoring %v to %v: %w", limits.RTTime, old, err)
		}
	})
	defer cu.Clean()

	if err := c.makeRealtime(ctx, info, priority); err != nil {
		cu.Clean()
		return 0, errors.Join(brokerError(ErrPromotionDenied, "promoting thread", err), rollbackErr)
	}
	cu.Release()
	return priority, nil
}

// brokerMax reads a broker maximum. Negative values signal an error in the
// broker.
func (c *Controller) brokerMax(ctx context.Context, name string, get func(context.Context) (int64, error)) (uint64, error) {
	v, err := get(ctx)
	if err != nil {
		return 0, brokerError(ErrBrokerQuery, name, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s is %d", ErrBrokerQuery, name, v)
	}
	return uint64(v), nil
}

// makeRealtime addresses the thread by its kernel thread id, and names the
// owning process when it is not the caller.
func (c *Controller) makeRealtime(ctx context.Context, info sched.ThreadInfo, priority uint32) error {
	tid := uint64(info.TID())
	if pid := info.PID(); pid != int32(c.threads.Getpid()) {
		return c.broker.MakeThreadRealtimeWithPID(ctx, uint64(pid), tid, priority)
	}
	return c.broker.MakeThreadRealtime(ctx, tid, priority)
}
