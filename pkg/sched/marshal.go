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
	"encoding/binary"
	"fmt"
)

// byteOrder is the host byte order. Serialized snapshots are only meant to
// cross process boundaries on the same machine.
var byteOrder = binary.NativeEndian

// sizeofThreadInfo is the serialized, and in-memory, size of ThreadInfo.
const sizeofThreadInfo = 64

// SizeBytes returns the size of the serialized ThreadInfo.
func (t *ThreadInfo) SizeBytes() int {
	return sizeofThreadInfo
}

// MarshalBytes serializes t into dst, which must be at least SizeBytes long.
func (t *ThreadInfo) MarshalBytes(dst []byte) {
	byteOrder.PutUint32(dst[:4], uint32(t.pid))
	dst = dst[4:]
	byteOrder.PutUint32(dst[:4], uint32(t.policy))
	dst = dst[4:]
	byteOrder.PutUint64(dst[:8], uint64(t.tid))
	dst = dst[8:]
	byteOrder.PutUint64(dst[:8], t.localTID)
	dst = dst[8:]
	byteOrder.PutUint64(dst[:8], t.param.Flags)
	dst = dst[8:]
	byteOrder.PutUint64(dst[:8], t.param.Runtime)
	dst = dst[8:]
	byteOrder.PutUint64(dst[:8], t.param.Deadline)
	dst = dst[8:]
	byteOrder.PutUint64(dst[:8], t.param.Period)
	dst = dst[8:]
	byteOrder.PutUint32(dst[:4], t.param.Priority)
	dst = dst[4:]
	byteOrder.PutUint32(dst[:4], uint32(t.param.Nice))
}

// UnmarshalBytes deserializes src, which must be at least SizeBytes long,
// into t.
func (t *ThreadInfo) UnmarshalBytes(src []byte) {
	t.pid = int32(byteOrder.Uint32(src[:4]))
	src = src[4:]
	t.policy = Policy(byteOrder.Uint32(src[:4]))
	src = src[4:]
	t.tid = int64(byteOrder.Uint64(src[:8]))
	src = src[8:]
	t.localTID = byteOrder.Uint64(src[:8])
	src = src[8:]
	t.param.Flags = byteOrder.Uint64(src[:8])
	src = src[8:]
	t.param.Runtime = byteOrder.Uint64(src[:8])
	src = src[8:]
	t.param.Deadline = byteOrder.Uint64(src[:8])
	src = src[8:]
	t.param.Period = byteOrder.Uint64(src[:8])
	src = src[8:]
	t.param.Priority = byteOrder.Uint32(src[:4])
	src = src[4:]
	t.param.Nice = int32(byteOrder.Uint32(src[:4]))
}

// Serialize returns t as an opaque byte sequence of length SizeBytes.
func (t ThreadInfo) Serialize() []byte {
	buf := make([]byte, t.SizeBytes())
	t.MarshalBytes(buf)
	return buf
}

// Deserialize recovers a ThreadInfo produced by Serialize.
func Deserialize(b []byte) (ThreadInfo, error) {
	var t ThreadInfo
	if len(b) != t.SizeBytes() {
		return ThreadInfo{}, fmt.Errorf("thread info is %d bytes, want %d", len(b), t.SizeBytes())
	}
	t.UnmarshalBytes(b)
	return t, nil
}
