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

package sched

import (
	"math"
	"testing"
	"unsafe"
)

func TestSizeMatchesLayout(t *testing.T) {
	var info ThreadInfo
	if got, want := info.SizeBytes(), int(unsafe.Sizeof(info)); got != want {
		t.Errorf("SizeBytes() = %d, in-memory size %d", got, want)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	for _, info := range []ThreadInfo{
		{},
		{pid: 4242, tid: 4250, localTID: 17, policy: Normal, param: Param{Nice: -11}},
		{pid: 1, tid: 2, localTID: 2, policy: RR, param: Param{Priority: 99, Flags: ResetOnFork}},
		{
			pid:      math.MaxInt32,
			tid:      math.MaxInt64,
			localTID: math.MaxUint64,
			policy:   Deadline,
			param:    Param{Runtime: 1e6, Deadline: 5e6, Period: 1e7, Nice: math.MinInt32},
		},
	} {
		b := info.Serialize()
		if len(b) != info.SizeBytes() {
			t.Fatalf("Serialize() returned %d bytes, want %d", len(b), info.SizeBytes())
		}
		got, err := Deserialize(b)
		if err != nil {
			t.Fatalf("Deserialize: %v", err)
		}
		// Equality only covers identity; the rest must survive as well.
		if got != info {
			t.Errorf("Deserialize(Serialize(%v)) = %v", info, got)
		}
		if !got.Equal(info) {
			t.Errorf("Deserialize(Serialize(%v)) is not Equal", info)
		}
	}
}

func TestDeserializeBadLength(t *testing.T) {
	for _, n := range []int{0, sizeofThreadInfo - 1, sizeofThreadInfo + 1} {
		if _, err := Deserialize(make([]byte, n)); err == nil {
			t.Errorf("Deserialize(%d bytes) succeeded, want error", n)
		}
	}
}
