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

// Package cmd holds implementations of the rtctl commands.
package cmd

import (
	"fmt"
	"math"
	"os"

	"gvisor.dev/rtsched/pkg/log"
	"gvisor.dev/rtsched/pkg/realtime"
	"gvisor.dev/rtsched/pkg/rtkit"
	"gvisor.dev/rtsched/pkg/sched"
	"gvisor.dev/rtsched/rtctl/config"
)

// Fatalf logs to stderr and exits with a failure status code.
func Fatalf(format string, args ...any) {
	log.Warningf("FATAL ERROR: "+format, args...)
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	// Return an error that is unlikely to be confused with a signal.
	os.Exit(128)
}

// newController connects to RealtimeKit as configured. The returned function
// closes the connection.
func newController(conf *config.Config, opts ...realtime.Option) (*realtime.Controller, func()) {
	client, err := rtkit.Dial(conf.Bus, conf.Timeout)
	if err != nil {
		Fatalf("error connecting to RealtimeKit: %v", err)
	}
	opts = append([]realtime.Option{
		realtime.WithPriority(uint32(conf.Priority)),
		realtime.WithThreadHost(sched.NewHost()),
	}, opts...)
	return realtime.New(client, opts...), func() {
		if err := client.Close(); err != nil {
			log.Warningf("Error closing bus connection: %v", err)
		}
	}
}

// bufferArgs narrows the --frames and --rate flags to the widths the
// controller takes.
func bufferArgs(frames, rate uint) (uint32, uint32, error) {
	if frames > math.MaxUint32 {
		return 0, 0, fmt.Errorf("--frames=%d is larger than %d", frames, uint32(math.MaxUint32))
	}
	if rate > math.MaxUint32 {
		return 0, 0, fmt.Errorf("--rate=%d is larger than %d", rate, uint32(math.MaxUint32))
	}
	return uint32(frames), uint32(rate), nil
}
