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

// Package config provides basic infrastructure to set configuration settings
// for rtctl. Each setting is a command line flag, and may also be set from a
// TOML file whose keys are flag names.
package config

import (
	"fmt"
	"reflect"
	"time"

	"gvisor.dev/rtsched/pkg/log"
)

// Config holds configuration that is shared by all rtctl commands.
//
// Fields tagged with `flag` are populated from the flag of the same name by
// NewFromFlags.
type Config struct {
	// Debug indicates that debug logging should be enabled.
	Debug bool `flag:"debug"`

	// LogFormat is the log format for both stderr and DebugLog: text or
	// json.
	LogFormat string `flag:"log-format"`

	// DebugLog is the path to log debug information to, if not empty. It
	// may contain %TIMESTAMP% and %COMMAND%.
	DebugLog string `flag:"debug-log"`

	// AlsoLogToStderr sends logs to stderr even when DebugLog is set.
	AlsoLogToStderr bool `flag:"alsologtostderr"`

	// Bus is the D-Bus address of the bus hosting RealtimeKit. Empty means
	// the system bus.
	Bus string `flag:"bus"`

	// Timeout bounds each request to RealtimeKit.
	Timeout time.Duration `flag:"timeout"`

	// Priority is the real-time priority requested on promotion.
	Priority uint `flag:"priority"`

	// ProcMount is where procfs is mounted.
	ProcMount string `flag:"proc"`
}

// maxPriority is the highest SCHED_RR priority.
const maxPriority = 99

func (c *Config) validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, must be 'text' or 'json'", c.LogFormat)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Priority < 1 || c.Priority > maxPriority {
		return fmt.Errorf("priority must be between 1 and %d, got %d", maxPriority, c.Priority)
	}
	if c.ProcMount == "" {
		return fmt.Errorf("proc mount cannot be empty")
	}
	return nil
}

// Log logs important aspects of the configuration to the given log function.
func (c *Config) Log() {
	log.Infof("Config:")
	obj := reflect.ValueOf(c).Elem()
	st := obj.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		log.Infof("\t%s (--%s): %s", f.Name, f.Tag.Get("flag"), getVal(obj.Field(i)))
	}
}
