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

import (
	"context"
	"errors"
	"fmt"

	"gvisor.dev/rtsched/pkg/sched"
)

// Errors returned by this package. Use errors.Is to match them; they are
// combined when more than one applies, e.g. a broker call that timed out is
// both ErrBrokerQuery and ErrBrokerTimeout.
var (
	// ErrQuery is returned when the calling thread cannot be captured.
	ErrQuery = sched.ErrQuery

	// ErrBrokerQuery is returned when a broker property cannot be read, or
	// holds a negative value.
	ErrBrokerQuery = errors.New("querying real-time broker")

	// ErrBrokerTimeout is returned alongside ErrBrokerQuery or
	// ErrPromotionDenied when the broker did not answer in time.
	ErrBrokerTimeout = errors.New("real-time broker timed out")

	// ErrLimitQuery is returned when RLIMIT_RTTIME cannot be read.
	ErrLimitQuery = errors.New("reading RLIMIT_RTTIME")

	// ErrLimitSet is returned when RLIMIT_RTTIME cannot be changed.
	ErrLimitSet = errors.New("setting RLIMIT_RTTIME")

	// ErrPromotionDenied is returned when the broker refuses to promote
	// the thread. RLIMIT_RTTIME has been rolled back.
	ErrPromotionDenied = errors.New("real-time promotion denied")

	// ErrDemotion is returned when the captured scheduling state cannot be
	// written back. The thread may still run under a real-time policy.
	ErrDemotion = errors.New("restoring thread scheduling state")

	// ErrIdentityMismatch is returned by Demote when called from a thread
	// other than the one the handle promoted.
	ErrIdentityMismatch = errors.New("handle belongs to another thread")

	// ErrHandleConsumed is returned when a handle is demoted twice, or is
	// nil.
	ErrHandleConsumed = errors.New("handle already demoted")

	// ErrCrossProcess is returned when demoting a thread of another
	// process.
	ErrCrossProcess = errors.New("handle belongs to another process")

	// ErrInvalidBudget is returned when no time slice can be derived from
	// the audio parameters.
	ErrInvalidBudget = errors.New("invalid real-time budget")
)

// brokerError classifies a failed broker round trip. sentinel is the error
// kind of the operation that failed.
func brokerError(sentinel error, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w: %s: %w", sentinel, ErrBrokerTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, op, err)
}
