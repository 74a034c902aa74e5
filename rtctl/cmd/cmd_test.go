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
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gvisor.dev/rtsched/pkg/limits"
	"gvisor.dev/rtsched/pkg/realtime"
)

func TestBufferArgs(t *testing.T) {
	frames, rate, err := bufferArgs(256, 48000)
	if err != nil {
		t.Fatalf("bufferArgs: %v", err)
	}
	if frames != 256 || rate != 48000 {
		t.Errorf("bufferArgs(256, 48000) = %d, %d", frames, rate)
	}
	if _, _, err := bufferArgs(math.MaxUint32, math.MaxUint32); err != nil {
		t.Errorf("bufferArgs(MaxUint32, MaxUint32): %v", err)
	}
}

func TestBufferArgsTooLarge(t *testing.T) {
	if uint64(^uint(0)) == math.MaxUint32 {
		t.Skip("uint is 32 bits wide")
	}
	var big uint = math.MaxUint32
	big++
	for _, tc := range []struct {
		name         string
		frames, rate uint
		want         string
	}{
		{"frames", big, 48000, "--frames"},
		{"rate", 256, big, "--rate"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			frames, rate, err := bufferArgs(tc.frames, tc.rate)
			if err == nil {
				t.Fatalf("bufferArgs(%d, %d) = %d, %d, want error", tc.frames, tc.rate, frames, rate)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("bufferArgs error = %v, want it to name %s", err, tc.want)
			}
		})
	}
}

func TestWriteLimits(t *testing.T) {
	var b strings.Builder
	writeLimits(&b, realtime.BrokerLimits{
		MaxRealtimePriority: 20,
		RTTimeUSecMax:       200000,
		MinNiceLevel:        -15,
		RTTime:              limits.Limit{Cur: limits.Infinity, Max: limits.Infinity},
		RealTimePriority:    limits.Limit{Cur: 0, Max: 0},
		Nice:                limits.Limit{Cur: 35, Max: 35},
	})
	want := []string{
		"max real-time priority: 20",
		"RLIMIT_RTPRIO:          {cur=0 max=0}",
		"max RLIMIT_RTTIME:      200000us",
		"RLIMIT_RTTIME:          {cur=unlimited max=unlimited}",
		"min nice level:         -15",
		"RLIMIT_NICE:            {cur=35 max=35} (lowest nice -15)",
	}
	if diff := cmp.Diff(want, strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")); diff != "" {
		t.Errorf("writeLimits output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteLimitsUnlimitedNice(t *testing.T) {
	var b strings.Builder
	writeLimits(&b, realtime.BrokerLimits{
		Nice: limits.Limit{Cur: limits.Infinity, Max: limits.Infinity},
	})
	if strings.Contains(b.String(), "lowest nice") {
		t.Errorf("writeLimits printed a nice floor for an unlimited RLIMIT_NICE:\n%s", b.String())
	}
}
