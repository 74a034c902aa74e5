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
	"runtime"

	"github.com/google/subcommands"
	"gvisor.dev/rtsched/pkg/sched"
	"gvisor.dev/rtsched/rtctl/config"
)

// Info implements subcommands.Command for the "info" command.
type Info struct {
	pid int
	tid int
}

// Name implements subcommands.Command.Name.
func (*Info) Name() string {
	return "info"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Info) Synopsis() string {
	return "show the scheduling state of a thread"
}

// Usage implements subcommands.Command.Usage.
func (*Info) Usage() string {
	return `info [flags] - show the scheduling state of a thread.

Without flags, captures the thread running rtctl and prints its serialized
snapshot, which "rtctl promote" accepts. With -pid, reads the state of any
thread from procfs.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (i *Info) SetFlags(f *flag.FlagSet) {
	f.IntVar(&i.pid, "pid", 0, "process to inspect instead of rtctl itself.")
	f.IntVar(&i.tid, "tid", 0, "thread of -pid to inspect. Defaults to the main thread.")
}

// Execute implements subcommands.Command.Execute.
func (i *Info) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	if i.pid == 0 {
		if i.tid != 0 {
			Fatalf("-tid requires -pid")
		}
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		info, err := sched.CurrentThreadOn(sched.NewHost())
		if err != nil {
			Fatalf("error capturing current thread: %v", err)
		}
		fmt.Fprintf(os.Stdout, "thread:   %v\n", info)
		fmt.Fprintf(os.Stdout, "snapshot: %s\n", hex.EncodeToString(info.Serialize()))
		return subcommands.ExitSuccess
	}

	tid := i.tid
	if tid == 0 {
		tid = i.pid
	}
	st, err := sched.Inspect(conf.ProcMount, i.pid, tid)
	if err != nil {
		Fatalf("error inspecting thread %d of process %d: %v", tid, i.pid, err)
	}
	fmt.Fprintf(os.Stdout, "comm:     %s\n", st.Comm)
	fmt.Fprintf(os.Stdout, "ids:      %v\n", st.NSpids)
	fmt.Fprintf(os.Stdout, "policy:   %v\n", st.Policy)
	fmt.Fprintf(os.Stdout, "priority: %d\n", st.RTPriority)
	fmt.Fprintf(os.Stdout, "nice:     %d\n", st.Nice)
	return subcommands.ExitSuccess
}
