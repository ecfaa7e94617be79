/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lastJSONLine(t *testing.T, path string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	scanner := bufio.NewScanner(strings.NewReader(string(b)))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found in %s", path)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	return m
}

// TestInitAndStructuredLoggingToFile verifies that Init with a file handler writes JSON logs
// and that static and contextual attributes are present.
func TestInitAndStructuredLoggingToFile(t *testing.T) {
	// Use a file in the system temp dir to avoid Windows deleting a still-open handle
	fpath := filepath.Join(os.TempDir(), fmt.Sprintf("ved_log_%d.json", time.Now().UnixNano()))

	Init(Options{Level: "debug", Format: "json", File: fpath})

	l := WithOperation(WithComponent("testcomp"), "op1")
	l.Info("hello world", slog.String("k", "v"))
	time.Sleep(50 * time.Millisecond)

	m := lastJSONLine(t, fpath)
	if m["app"] != "videoeditor" {
		t.Fatalf("missing app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "testcomp" || m["op"] != "op1" {
		t.Fatalf("context attrs mismatch: %v / %v", m["component"], m["op"])
	}
	if m["msg"] != "hello world" || m["k"] != "v" {
		t.Fatalf("record mismatch: %v", m)
	}
}

func TestProjectPathFromContextIsLogged(t *testing.T) {
	fpath := filepath.Join(os.TempDir(), fmt.Sprintf("ved_log_ctx_%d.json", time.Now().UnixNano()))
	Init(Options{Level: "info", Format: "json", File: fpath})

	ctx := ContextWithProject(context.Background(), "/tmp/x/Demo")
	WithComponent("host").InfoContext(ctx, "project saved")
	time.Sleep(50 * time.Millisecond)

	m := lastJSONLine(t, fpath)
	if m["project"] != "/tmp/x/Demo" {
		t.Fatalf("project attr = %v, want /tmp/x/Demo", m["project"])
	}
}

func TestContextWithProjectIgnoresBlank(t *testing.T) {
	ctx := ContextWithProject(context.Background(), "  ")
	if _, ok := ProjectFromContext(ctx); ok {
		t.Fatalf("blank project path should not be stored")
	}
}
