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
	"io"
	"os"

	"github.com/google/subcommands"
	"gvisor.dev/rtsched/pkg/limits"
	"gvisor.dev/rtsched/pkg/realtime"
	"gvisor.dev/rtsched/rtctl/config"
)

// Limits implements subcommands.Command for the "limits" command.
type Limits struct{}

// Name implements subcommands.Command.Name.
func (*Limits) Name() string {
	return "limits"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Limits) Synopsis() string {
	return "show the limits RealtimeKit enforces"
}

// Usage implements subcommands.Command.Usage.
func (*Limits) Usage() string {
	return "limits - show the limits RealtimeKit enforces and the matching process rlimits.\n"
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Limits) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Limits) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	c, done := newController(conf)
	defer done()

	bl, err := c.QueryLimits(ctx)
	if err != nil {
		Fatalf("error querying limits: %v", err)
	}
	writeLimits(os.Stdout, bl)
	return subcommands.ExitSuccess
}

// writeLimits prints each broker cap next to the rlimit that bounds the same
// quantity for this process.
func writeLimits(w io.Writer, bl realtime.BrokerLimits) {
	fmt.Fprintf(w, "max real-time priority: %d\n", bl.MaxRealtimePriority)
	fmt.Fprintf(w, "RLIMIT_RTPRIO:          %v\n", bl.RealTimePriority)
	fmt.Fprintf(w, "max RLIMIT_RTTIME:      %dus\n", bl.RTTimeUSecMax)
	fmt.Fprintf(w, "RLIMIT_RTTIME:          %v\n", bl.RTTime)
	fmt.Fprintf(w, "min nice level:         %d\n", bl.MinNiceLevel)
	fmt.Fprintf(w, "RLIMIT_NICE:            %v", bl.Nice)
	// RLIMIT_NICE is stored as 20 - nice.
	if n := bl.Nice.Cur; n != limits.Infinity && n <= 40 {
		fmt.Fprintf(w, " (lowest nice %d)", 20-int64(n))
	}
	fmt.Fprintln(w)
}
