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

//go:build !linux

package limits

import "errors"

var errUnsupported = errors.New("real-time resource limits are only supported on linux")

type hostLimits struct{}

// NewHost returns a Host that fails every call on this platform.
func NewHost() Host {
	return hostLimits{}
}

// Get implements Host.Get.
func (hostLimits) Get(LimitType) (Limit, error) {
	return Limit{}, errUnsupported
}

// Set implements Host.Set.
func (hostLimits) Set(LimitType, Limit) error {
	return errUnsupported
}
