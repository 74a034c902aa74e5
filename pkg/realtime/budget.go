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

import "fmt"

// defaultBufferDivisor derives a 50ms buffer from the sample rate when the
// caller does not know its buffer size.
const defaultBufferDivisor = 20

// Budget returns the real-time slice, in microseconds, needed to process
// bufferFrames frames at sampleRate Hz. A bufferFrames of 0 stands for a 50ms
// buffer.
func Budget(bufferFrames, sampleRate uint32) (uint64, error) {
	if sampleRate == 0 {
		return 0, fmt.Errorf("%w: sample rate is 0", ErrInvalidBudget)
	}
	if bufferFrames == 0 {
		bufferFrames = sampleRate / defaultBufferDivisor
	}
	return uint64(bufferFrames) * 1_000_000 / uint64(sampleRate), nil
}
