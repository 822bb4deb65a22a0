/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestInitWritesJSONFile checks static and contextual attributes in the rotating file sink.
func TestInitWritesJSONFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "pagecanvas.log")
	var console bytes.Buffer
	Init(Options{Level: "debug", Format: "console", File: fpath, Console: &console})
	t.Cleanup(func() { Init(Options{Level: "info", Console: &bytes.Buffer{}}) })

	l := WithOperation(WithComponent("interaction"), "drag_commit")
	l.Info("gesture committed", slog.String("id", "text_1"), slog.Int("records", 1))

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	if m["app"] != "pagecanvas" {
		t.Fatalf("app attr mismatch: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "interaction" || m["op"] != "drag_commit" {
		t.Fatalf("context attrs mismatch: %v", m)
	}
	if m["msg"] != "gesture committed" {
		t.Fatalf("msg mismatch: %v", m["msg"])
	}
	if !strings.Contains(console.String(), "gesture committed") {
		t.Fatalf("console sink did not receive the record: %q", console.String())
	}
}

func TestSetLevelFiltersDebug(t *testing.T) {
	var console bytes.Buffer
	Init(Options{Level: "info", Console: &console})
	WithComponent("history").Debug("hidden")
	if strings.Contains(console.String(), "hidden") {
		t.Fatalf("debug record leaked at info level")
	}
	SetLevel("debug")
	WithComponent("history").Debug("shown")
	if !strings.Contains(console.String(), "shown") {
		t.Fatalf("debug record missing after SetLevel: %q", console.String())
	}
	SetLevel("info")
}
