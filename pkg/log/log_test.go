// Copyright 2018 Google LLC
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

package log

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type testWriter struct {
	lines []string
	fail  bool
}

func (w *testWriter) Write(bytes []byte) (int, error) {
	if w.fail {
		return 0, fmt.Errorf("simulated failure")
	}
	w.lines = append(w.lines, string(bytes))
	return len(bytes), nil
}

// output returns everything written so far.
func (w *testWriter) output() string {
	return strings.Join(w.lines, "")
}

func TestDropMessages(t *testing.T) {
	tw := &testWriter{}
	w := Writer{Next: tw}
	if _, err := w.Write([]byte("line 1\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	tw.fail = true
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}

	tw.fail = false
	if _, err := w.Write([]byte("line 2\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	want := []string{
		"line 1\n",
		"line 2\n",
		"\n*** Dropped 2 log messages ***\n",
	}
	if diff := cmp.Diff(want, tw.lines); diff != "" {
		t.Errorf("Writer lines mismatch (-want +got):\n%s", diff)
	}
}

func TestWriterAppendsNewline(t *testing.T) {
	tw := &testWriter{}
	w := Writer{Next: tw}
	if _, err := w.Write([]byte("no newline")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}
	if got, want := tw.output(), "no newline\n"; got != want {
		t.Errorf("Write got %q, want %q", got, want)
	}
}

func TestLevels(t *testing.T) {
	tw := &testWriter{}
	l := BasicLogger{Level: Info, Emitter: &Writer{Next: tw}}

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warningf("warning %d", 3)
	if diff := cmp.Diff("info 2\nwarning 3\n", tw.output()); diff != "" {
		t.Errorf("Info level output mismatch (-want +got):\n%s", diff)
	}

	tw.lines = nil
	l.SetLevel(Warning)
	l.Infof("info")
	l.Warningf("warning")
	if diff := cmp.Diff("warning\n", tw.output()); diff != "" {
		t.Errorf("Warning level output mismatch (-want +got):\n%s", diff)
	}
	if l.IsLogging(Debug) {
		t.Errorf("IsLogging(Debug) = true at level %v", l.Level)
	}
}

func TestMultiEmitter(t *testing.T) {
	a, b := &testWriter{}, &testWriter{}
	m := MultiEmitter{&Writer{Next: a}, &Writer{Next: b}}
	l := BasicLogger{Level: Debug, Emitter: &m}
	l.Debugf("both")
	for i, tw := range []*testWriter{a, b} {
		if diff := cmp.Diff("both\n", tw.output()); diff != "" {
			t.Errorf("emitter %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestGoogleEmitter(t *testing.T) {
	tw := &testWriter{}
	e := GoogleEmitter{&Writer{Next: tw}}
	ts := time.Date(2026, time.March, 7, 9, 5, 3, 12000, time.UTC)
	e.Emit(0, Warning, ts, "thread %d demoted", 42)

	if len(tw.lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(tw.lines), tw.lines)
	}
	re := regexp.MustCompile(`^W0307 09:05:03\.000012 +\d+ log_test\.go:\d+\] thread 42 demoted\n$`)
	if !re.MatchString(tw.lines[0]) {
		t.Errorf("line %q does not match %v", tw.lines[0], re)
	}
}

func TestRateLimitedLogger(t *testing.T) {
	tw := &testWriter{}
	l := &BasicLogger{Level: Debug, Emitter: &Writer{Next: tw}}
	rl := RateLimitedLogger(l, time.Hour)

	for i := 0; i < 10; i++ {
		rl.Warningf("denied %d", i)
	}
	if diff := cmp.Diff("denied 0\n", tw.output()); diff != "" {
		t.Errorf("rate limited output mismatch (-want +got):\n%s", diff)
	}
	if !rl.IsLogging(Debug) {
		t.Errorf("IsLogging(Debug) = false, want true")
	}
}

func TestFileOptsBuild(t *testing.T) {
	opts := FileOpts{
		Command: "promote",
		Start:   time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC),
	}
	for _, tc := range []struct {
		pattern string
		want    string
	}{
		{
			pattern: "/tmp/rtctl.log",
			want:    "/tmp/rtctl.log",
		},
		{
			pattern: "/tmp/rtctl-%COMMAND%.log",
			want:    "/tmp/rtctl-promote.log",
		},
		{
			pattern: "/tmp/logs/",
			want:    "/tmp/logs/rtctl.log.20260102-030405.000000.promote",
		},
	} {
		t.Run(tc.pattern, func(t *testing.T) {
			if got := opts.Build(tc.pattern); got != tc.want {
				t.Errorf("Build(%q) = %q, want %q", tc.pattern, got, tc.want)
			}
		})
	}
}
