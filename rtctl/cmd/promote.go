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
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"gvisor.dev/rtsched/pkg/sched"
	"gvisor.dev/rtsched/rtctl/config"
)

// Promote implements subcommands.Command for the "promote" command.
type Promote struct {
	frames uint
	rate   uint
}

// Name implements subcommands.Command.Name.
func (*Promote) Name() string {
	return "promote"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Promote) Synopsis() string {
	return "promote a thread of another process to real-time"
}

// Usage implements subcommands.Command.Usage.
func (*Promote) Usage() string {
	return `promote [flags] <snapshot> - promote the thread described by a snapshot.

The snapshot is the hex string printed by "rtctl info" in the process that
owns the thread. The thread keeps its real-time policy until that process
restores it.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (p *Promote) SetFlags(f *flag.FlagSet) {
	f.UintVar(&p.frames, "frames", 0, "audio buffer size in frames. 0 requests a 50ms slice.")
	f.UintVar(&p.rate, "rate", 48000, "audio sample rate in Hz.")
}

// Execute implements subcommands.Command.Execute.
func (p *Promote) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	frames, rate, err := bufferArgs(p.frames, p.rate)
	if err != nil {
		Fatalf("%v", err)
	}
	b, err := hex.DecodeString(f.Arg(0))
	if err != nil {
		Fatalf("error decoding snapshot: %v", err)
	}
	info, err := sched.Deserialize(b)
	if err != nil {
		Fatalf("error decoding snapshot: %v", err)
	}

	c, done := newController(conf)
	defer done()

	h, err := c.PromoteThread(ctx, info, frames, rate)
	if err != nil {
		Fatalf("error promoting thread %v: %v", info, err)
	}
	fmt.Fprintf(os.Stdout, "promoted thread %d of process %d to priority %d\n", info.TID(), info.PID(), h.Priority())
	return subcommands.ExitSuccess
}
