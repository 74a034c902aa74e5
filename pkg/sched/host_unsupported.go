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

package sched

import (
	"errors"
	"os"
)

// DefaultProcMount is where procfs is expected to be mounted.
const DefaultProcMount = "/proc"

var errUnsupported = errors.New("thread scheduling control is only supported on linux")

type host struct{}

// NewHost returns a Host whose kernel calls fail on this platform.
func NewHost() Host {
	return host{}
}

func (host) Getpid() int               { return os.Getpid() }
func (host) Gettid() int               { return 0 }
func (host) GetAttr(int) (Attr, error) { return Attr{}, errUnsupported }
func (host) SetAttr(int, Attr) error   { return errUnsupported }

// Status is a read-only view of a thread's scheduling state.
type Status struct {
	Comm       string
	NSpids     []uint64
	Policy     Policy
	RTPriority uint
	Nice       int
}

// Inspect is not supported on this platform.
func Inspect(string, int, int) (Status, error) {
	return Status{}, errUnsupported
}
