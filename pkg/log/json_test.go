// Copyright 2018 The gVisor Authors.
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
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// Test that integers and names can be unmarshaled.
func TestUnmarshalLevel(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Level
	}{
		{`0`, Warning},
		{`1`, Info},
		{`2`, Debug},
		{`"warning"`, Warning},
		{`"info"`, Info},
		{`"debug"`, Debug},
	} {
		var lv Level
		if err := lv.UnmarshalJSON([]byte(tc.in)); err != nil {
			t.Errorf("UnmarshalJSON(%s): %v", tc.in, err)
			continue
		}
		if lv != tc.want {
			t.Errorf("UnmarshalJSON(%s) got %v want %v", tc.in, lv, tc.want)
		}
	}

	var lv Level
	if err := lv.UnmarshalJSON([]byte(`"fatal"`)); err == nil {
		t.Errorf("UnmarshalJSON(fatal) succeeded, want error")
	}
}

func TestJSONEmitter(t *testing.T) {
	tw := &testWriter{}
	e := JSONEmitter{&Writer{Next: tw}}
	ts := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	e.Emit(0, Info, ts, "granted priority %d", 10)

	if len(tw.lines) != 2 {
		t.Fatalf("got %d writes, want a record and a newline: %q", len(tw.lines), tw.lines)
	}
	var got jsonLog
	if err := json.Unmarshal([]byte(tw.lines[0]), &got); err != nil {
		t.Fatalf("json.Unmarshal(%q): %v", tw.lines[0], err)
	}
	if got.Msg != "granted priority 10" {
		t.Errorf("Msg = %q", got.Msg)
	}
	if got.Level != Info {
		t.Errorf("Level = %v, want %v", got.Level, Info)
	}
	if !got.Time.Equal(ts) {
		t.Errorf("Time = %v, want %v", got.Time, ts)
	}
	if !strings.HasPrefix(got.Caller, "json_test.go:") {
		t.Errorf("Caller = %q, want json_test.go:<line>", got.Caller)
	}
}
