/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_EventAndUploadCrash(t *testing.T) {
	var mu sync.Mutex
	var events [][]byte
	var crashes [][]byte

	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		events = append(events, b)
		mu.Unlock()
	})
	mux.HandleFunc("/crash", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		crashes = append(crashes, b)
		mu.Unlock()
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(Config{OptIn: true, EventsURL: srv.URL + "/events", CrashURL: srv.URL + "/crash", Timeout: 2 * time.Second})
	defer c.Close()
	if !c.Enabled() {
		t.Fatalf("expected client to be enabled")
	}

	c.Event("project_saved", map[string]any{"frameRate": 30, "path": "/home/me/film", "via": "dialog"})

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(events)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	if len(events) == 0 {
		mu.Unlock()
		t.Fatalf("expected at least one event to be sent")
	}
	var m map[string]any
	err := json.Unmarshal(events[0], &m)
	mu.Unlock()
	if err != nil {
		t.Fatalf("bad event json: %v", err)
	}
	if m["name"] != "project_saved" || m["via"] != "dialog" {
		t.Fatalf("unexpected event: %v", m)
	}
	if _, ok := m["path"]; ok {
		t.Fatalf("path-like prop must be dropped: %v", m)
	}
	if _, ok := m["session"].(string); !ok {
		t.Fatalf("missing session field")
	}

	if err := c.UploadCrash(context.Background(), []byte("STACKTRACE")); err != nil {
		t.Fatalf("UploadCrash error: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(crashes) != 1 || string(crashes[0]) != "STACKTRACE" {
		t.Fatalf("crash upload not received: %q", crashes)
	}
}

func TestClient_DisabledAndEmptyEventName(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := New(Config{OptIn: false, EventsURL: srv.URL, CrashURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	if c.Enabled() {
		t.Fatalf("expected disabled client")
	}
	c.Event("ignored", nil)
	if err := c.UploadCrash(context.Background(), []byte("ignored")); err != nil {
		t.Fatalf("disabled upload should be a no-op: %v", err)
	}

	c2 := New(Config{OptIn: true, EventsURL: srv.URL, Timeout: time.Second})
	defer c2.Close()
	c2.Event("", nil)
	c2.Flush(nil)
	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected no requests, got %d", hits)
	}
}

func TestUploadCrashReportsFailure(t *testing.T) {
	c := New(Config{OptIn: true, CrashURL: "http://127.0.0.1:1/crash", Timeout: 50 * time.Millisecond, DebugLogging: true})
	defer c.Close()
	if err := c.UploadCrash(context.Background(), []byte("oops")); err == nil {
		t.Fatalf("expected error for unreachable crash endpoint")
	}
}

func TestFromEnvAndOptIn(t *testing.T) {
	t.Setenv(EnvOptIn, "")
	t.Setenv(EnvEventsURL, "http://127.0.0.1:0")
	t.Setenv(EnvTimeoutMS, "100")

	cfg := FromEnv()
	if cfg.OptIn || cfg.EventsURL == "" || cfg.Timeout != 100*time.Millisecond {
		t.Fatalf("FromEnv did not parse correctly: %+v", cfg)
	}
	if !cfg.WithOptIn(true).OptIn {
		t.Fatalf("settings opt-in must enable telemetry")
	}

	NewDefault(cfg.WithOptIn(true))
	if !Enabled() {
		t.Fatalf("default client should be enabled")
	}
}
