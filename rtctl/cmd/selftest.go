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

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gvisor.dev/rtsched/pkg/log"
	"gvisor.dev/rtsched/pkg/realtime"
	"gvisor.dev/rtsched/pkg/sched"
	"gvisor.dev/rtsched/rtctl/config"
)

// Selftest implements subcommands.Command for the "selftest" command.
type Selftest struct {
	frames uint
	rate   uint
	hold   time.Duration
}

// Name implements subcommands.Command.Name.
func (*Selftest) Name() string {
	return "selftest"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Selftest) Synopsis() string {
	return "promote and demote the current thread"
}

// Usage implements subcommands.Command.Usage.
func (*Selftest) Usage() string {
	return `selftest [flags] - promote the current thread, hold it, and demote it.

Checks that the thread runs under a real-time policy while promoted, and that
its previous scheduling state is restored afterwards.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (s *Selftest) SetFlags(f *flag.FlagSet) {
	f.UintVar(&s.frames, "frames", 512, "audio buffer size in frames. 0 requests a 50ms slice.")
	f.UintVar(&s.rate, "rate", 48000, "audio sample rate in Hz.")
	f.DurationVar(&s.hold, "hold", 100*time.Millisecond, "how long to stay promoted.")
}

// Execute implements subcommands.Command.Execute.
func (s *Selftest) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	frames, rate, err := bufferArgs(s.frames, s.rate)
	if err != nil {
		Fatalf("%v", err)
	}
	reg := prometheus.NewRegistry()
	c, done := newController(conf, realtime.WithMetrics(realtime.NewMetrics(reg)))
	defer done()

	// Stay on this thread after Demote releases its own lock, to check the
	// restored state.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h, err := c.PromoteCurrentThread(ctx, frames, rate)
	if err != nil {
		Fatalf("error promoting current thread: %v", err)
	}
	before := h.ThreadInfo()
	fmt.Fprintf(os.Stdout, "promoted %v to priority %d\n", before, h.Priority())

	st, err := sched.Inspect(conf.ProcMount, int(before.PID()), int(before.LocalTID()))
	if err != nil {
		log.Warningf("Cannot verify promotion: %v", err)
	} else if !st.Policy.IsRealtime() {
		Fatalf("thread runs under %v after promotion", st.Policy)
	}

	time.Sleep(s.hold)

	if err := c.Demote(h); err != nil {
		Fatalf("error demoting thread: %v", err)
	}
	after, err := sched.CurrentThreadOn(sched.NewHost())
	if err != nil {
		Fatalf("error capturing thread after demotion: %v", err)
	}
	if after.Attr() != before.Attr() {
		Fatalf("thread state after demotion is %v, want %v", after.Attr(), before.Attr())
	}
	fmt.Fprintf(os.Stdout, "restored %v\n", after)

	mfs, err := reg.Gather()
	if err != nil {
		Fatalf("error gathering metrics: %v", err)
	}
	enc := expfmt.NewEncoder(os.Stdout, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			Fatalf("error writing metrics: %v", err)
		}
	}
	return subcommands.ExitSuccess
}
