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

// Package realtime promotes threads to real-time scheduling through
// RealtimeKit and restores them afterwards.
//
// Promotion lowers RLIMIT_RTTIME of the calling process to the requested time
// slice, so that a thread that overruns it receives SIGXCPU, and asks the
// broker to switch the thread to SCHED_RR. The limit is rolled back if the
// broker refuses. Demotion writes back the scheduling state captured before
// promotion.
package realtime

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"gvisor.dev/rtsched/pkg/cleanup"
	"gvisor.dev/rtsched/pkg/limits"
	"gvisor.dev/rtsched/pkg/log"
	"gvisor.dev/rtsched/pkg/rtkit"
	"gvisor.dev/rtsched/pkg/sched"
)

// DefaultPriority is the real-time priority requested when none is
// configured.
const DefaultPriority = 10

// deniedLogInterval throttles warnings about refused promotions, which tend
// to repeat for every stream a client opens.
const deniedLogInterval = 10 * time.Second

// Controller promotes and demotes threads.
//
// A process should use a single Controller: negotiations change the
// process-wide RLIMIT_RTTIME and are only serialized within a Controller.
type Controller struct {
	broker   rtkit.Broker
	threads  sched.Host
	limits   limits.Host
	priority uint32
	metrics  *Metrics
	denied   log.Logger

	// mu serializes negotiations, from the first broker query until
	// RLIMIT_RTTIME is either kept or rolled back.
	mu sync.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithPriority sets the real-time priority requested on promotion.
func WithPriority(priority uint32) Option {
	return func(c *Controller) { c.priority = priority }
}

// WithThreadHost replaces the kernel interface used to capture and restore
// threads.
func WithThreadHost(h sched.Host) Option {
	return func(c *Controller) { c.threads = h }
}

// WithLimitHost replaces the kernel interface used for RLIMIT_RTTIME.
func WithLimitHost(h limits.Host) Option {
	return func(c *Controller) { c.limits = h }
}

// WithMetrics records outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// New returns a Controller that requests promotions from broker.
func New(broker rtkit.Broker, opts ...Option) *Controller {
	c := &Controller{
		broker:   broker,
		priority: DefaultPriority,
		denied:   log.BasicRateLimitedLogger(deniedLogInterval),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.threads == nil {
		c.threads = sched.NewHost()
	}
	if c.limits == nil {
		c.limits = limits.NewHost()
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	return c
}

var defaultController = sync.OnceValues(func() (*Controller, error) {
	client, err := rtkit.Dial("", rtkit.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	return New(client), nil
})

// Default returns the process-wide Controller, connected to RealtimeKit on
// the system bus. The connection is opened on first use and kept open.
func Default() (*Controller, error) {
	return defaultController()
}

// Priority returns the real-time priority requested on promotion.
func (c *Controller) Priority() uint32 {
	return c.priority
}

// PromoteCurrentThread promotes the calling thread to real-time with a time
// slice large enough to process bufferFrames frames at sampleRate Hz.
//
// On success the calling goroutine stays locked to its OS thread until the
// returned handle is passed to Demote from that goroutine. On failure the
// thread is left as it was.
func (c *Controller) PromoteCurrentThread(ctx context.Context, bufferFrames, sampleRate uint32) (*Handle, error) {
	runtime.LockOSThread()
	cu := cleanup.Make(runtime.UnlockOSThread)
	defer cu.Clean()

	info, err := sched.CurrentThreadOn(c.threads)
	if err != nil {
		c.metrics.promotions.WithLabelValues(resultError).Inc()
		return nil, err
	}
	h, err := c.PromoteThread(ctx, info, bufferFrames, sampleRate)
	if err != nil {
		return nil, err
	}
	h.locked = true
	cu.Release()
	return h, nil
}

// PromoteThread promotes the thread described by info, which may belong to
// another process, e.g. one that sent its serialized ThreadInfo.
func (c *Controller) PromoteThread(ctx context.Context, info sched.ThreadInfo, bufferFrames, sampleRate uint32) (*Handle, error) {
	slice, err := Budget(bufferFrames, sampleRate)
	if err != nil {
		c.metrics.promotions.WithLabelValues(resultError).Inc()
		return nil, err
	}
	priority, err := c.Negotiate(ctx, info, slice, c.priority)
	if err != nil {
		return nil, err
	}
	log.Infof("Promoted thread %v to real-time priority %d, slice %dus", info, priority, slice)
	return &Handle{info: info, priority: priority}, nil
}

// Demote restores the scheduling state captured before h was promoted. It
// must be called from the promoted thread; other threads get
// ErrIdentityMismatch and h remains usable.
func (c *Controller) Demote(h *Handle) error {
	if h == nil {
		return c.nilHandle()
	}
	pid, tid := c.threads.Getpid(), c.threads.Gettid()
	if h.info.PID() != int32(pid) || h.info.LocalTID() != uint64(tid) {
		c.metrics.demotions.WithLabelValues(resultRejected).Inc()
		return fmt.Errorf("%w: handle for %v, called from pid=%d local=%d", ErrIdentityMismatch, h.info, pid, tid)
	}
	if err := c.consume(h); err != nil {
		return err
	}
	if h.locked {
		defer runtime.UnlockOSThread()
	}
	return c.restore(h)
}

// DemoteThread restores the scheduling state captured before h was promoted,
// from any thread of the process that owns it. The goroutine that promoted a
// thread with PromoteCurrentThread stays locked to it.
func (c *Controller) DemoteThread(h *Handle) error {
	if h == nil {
		return c.nilHandle()
	}
	if pid := c.threads.Getpid(); h.info.PID() != int32(pid) {
		c.metrics.demotions.WithLabelValues(resultRejected).Inc()
		return fmt.Errorf("%w: handle for %v, called from pid=%d", ErrCrossProcess, h.info, pid)
	}
	if err := c.consume(h); err != nil {
		return err
	}
	return c.restore(h)
}

func (c *Controller) nilHandle() error {
	c.metrics.demotions.WithLabelValues(resultRejected).Inc()
	return fmt.Errorf("%w: nil handle", ErrHandleConsumed)
}

func (c *Controller) consume(h *Handle) error {
	if !h.consumed.CompareAndSwap(false, true) {
		c.metrics.demotions.WithLabelValues(resultRejected).Inc()
		return fmt.Errorf("%w: %v", ErrHandleConsumed, h.info)
	}
	return nil
}

func (c *Controller) restore(h *Handle) error {
	if err := sched.Restore(c.threads, h.info); err != nil {
		c.metrics.demotions.WithLabelValues(resultFailed).Inc()
		log.Warningf("Failed to restore scheduling state of thread %v: %v", h.info, err)
		return fmt.Errorf("%w: %v: %w", ErrDemotion, h.info, err)
	}
	c.metrics.demotions.WithLabelValues(resultRestored).Inc()
	log.Infof("Demoted thread %v", h.info)
	return nil
}

// BrokerLimits are the broker's caps next to the process limits that bound
// the same quantities.
type BrokerLimits struct {
	MaxRealtimePriority int64
	RTTimeUSecMax       int64
	MinNiceLevel        int64

	RTTime           limits.Limit
	RealTimePriority limits.Limit
	Nice             limits.Limit
}

// QueryLimits reads the broker's caps, RLIMIT_RTTIME, RLIMIT_RTPRIO and
// RLIMIT_NICE without changing anything.
func (c *Controller) QueryLimits(ctx context.Context) (BrokerLimits, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		bl  BrokerLimits
		err error
	)
	if bl.MaxRealtimePriority, err = c.broker.MaxRealtimePriority(ctx); err != nil {
		return BrokerLimits{}, brokerError(ErrBrokerQuery, rtkit.PropMaxRealtimePriority, err)
	}
	if bl.RTTimeUSecMax, err = c.broker.RTTimeUSecMax(ctx); err != nil {
		return BrokerLimits{}, brokerError(ErrBrokerQuery, rtkit.PropRTTimeUSecMax, err)
	}
	if bl.MinNiceLevel, err = c.broker.MinNiceLevel(ctx); err != nil {
		return BrokerLimits{}, brokerError(ErrBrokerQuery, rtkit.PropMinNiceLevel, err)
	}
	for _, q := range []struct {
		lt  limits.LimitType
		dst *limits.Limit
	}{
		{limits.RTTime, &bl.RTTime},
		{limits.RealTimePriority, &bl.RealTimePriority},
		{limits.Nice, &bl.Nice},
	} {
		if *q.dst, err = c.limits.Get(q.lt); err != nil {
			return BrokerLimits{}, fmt.Errorf("%w: %v: %w", ErrLimitQuery, q.lt, err)
		}
	}
	return bl, nil
}
