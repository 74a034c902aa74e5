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

package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newFlagSet(t *testing.T, args ...string) *flag.FlagSet {
	t.Helper()
	testFlags := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(testFlags)
	if err := testFlags.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return testFlags
}

func TestDefault(t *testing.T) {
	c, err := NewFromFlags(newFlagSet(t))
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		LogFormat: "text",
		Timeout:   10 * time.Second,
		Priority:  10,
		ProcMount: "/proc",
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("default config mismatch (-want +got):\n%s", diff)
	}

	// All defaults doesn't require setting flags.
	if flags := c.ToFlags(); len(flags) > 0 {
		t.Errorf("default flags not set correctly for: %s", flags)
	}
}

func TestFromFlags(t *testing.T) {
	c, err := NewFromFlags(newFlagSet(t, "--debug", "--bus=unix:path=/tmp/bus", "--timeout=250ms", "--priority=5"))
	if err != nil {
		t.Fatal(err)
	}
	if want := true; c.Debug != want {
		t.Errorf("Debug=%v, want: %v", c.Debug, want)
	}
	if want := "unix:path=/tmp/bus"; c.Bus != want {
		t.Errorf("Bus=%v, want: %v", c.Bus, want)
	}
	if want := 250 * time.Millisecond; c.Timeout != want {
		t.Errorf("Timeout=%v, want: %v", c.Timeout, want)
	}
	if want := uint(5); c.Priority != want {
		t.Errorf("Priority=%v, want: %v", c.Priority, want)
	}
}

func TestToFlagsFromFlags(t *testing.T) {
	orig := []string{"--debug=true", "--log-format=json", "--alsologtostderr=true", "--bus=unix:path=/tmp/bus", "--timeout=1s", "--priority=20"}
	c, err := NewFromFlags(newFlagSet(t, orig...))
	if err != nil {
		t.Fatal(err)
	}
	got := c.ToFlags()
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Errorf("ToFlags mismatch (-want +got):\n%s", diff)
	}

	// Feeding the flags back must produce the same config.
	c2, err := NewFromFlags(newFlagSet(t, got...))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c, c2); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
		err  string
	}{
		{"log format", []string{"--log-format=xml"}, "invalid log format"},
		{"timeout", []string{"--timeout=0"}, "timeout must be positive"},
		{"priority zero", []string{"--priority=0"}, "priority must be between"},
		{"priority high", []string{"--priority=100"}, "priority must be between"},
		{"proc", []string{"--proc="}, "proc mount cannot be empty"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFromFlags(newFlagSet(t, tc.args...))
			if err == nil || !strings.Contains(err.Error(), tc.err) {
				t.Errorf("NewFromFlags(%v) error = %v, want %q", tc.args, err, tc.err)
			}
		})
	}
}

func TestOverride(t *testing.T) {
	testFlags := newFlagSet(t)
	c, err := NewFromFlags(testFlags)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Override(testFlags, "priority", "42"); err != nil {
		t.Fatalf("Override: %v", err)
	}
	if c.Priority != 42 {
		t.Errorf("Priority=%v, want: 42", c.Priority)
	}
	if err := c.Override(testFlags, "priority", "abc"); err == nil {
		t.Errorf("Override(priority, abc) succeeded")
	}
	if err := c.Override(testFlags, "no-such-flag", "1"); err == nil {
		t.Errorf("Override(no-such-flag) succeeded")
	}
	if err := c.Override(testFlags, "log-format", "xml"); err == nil {
		t.Errorf("Override(log-format, xml) passed validation")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rtctl.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
debug = true
priority = 15
timeout = "2s"
bus = "unix:path=/run/test_bus"
`)
	testFlags := newFlagSet(t, "--priority=3")
	c, err := NewFromFlags(testFlags)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.LoadFile(testFlags, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	// The command line wins over the file.
	want := &Config{
		Debug:     true,
		LogFormat: "text",
		Bus:       "unix:path=/run/test_bus",
		Timeout:   2 * time.Second,
		Priority:  3,
		ProcMount: "/proc",
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
	}{
		{"syntax", "priority = "},
		{"unknown", "frobnicate = 1"},
		{"table", "[priority]\nvalue = 1"},
		{"array", "priority = [1, 2]"},
		{"invalid", "priority = 1000"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			testFlags := newFlagSet(t)
			c, err := NewFromFlags(testFlags)
			if err != nil {
				t.Fatal(err)
			}
			if err := c.LoadFile(testFlags, writeFile(t, tc.content)); err == nil {
				t.Errorf("LoadFile(%q) succeeded", tc.content)
			}
		})
	}
}
