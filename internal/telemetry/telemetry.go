/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package telemetry sends anonymous, opt-in usage events and crash reports.
// Nothing is sent unless the user opted in and an endpoint is configured.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	applog "videoeditor/internal/log"
	"videoeditor/internal/version"
)

const (
	EnvOptIn     = "VED_TELEMETRY_OPT_IN"
	EnvEventsURL = "VED_TELEMETRY_URL"
	EnvCrashURL  = "VED_CRASH_UPLOAD_URL"
	EnvTimeoutMS = "VED_TELEMETRY_TIMEOUT_MS"
	EnvDebug     = "VED_TELEMETRY_DEBUG"
)

// Config holds runtime configuration for telemetry and crash uploads.
// Events are dropped when EventsURL is empty, even with OptIn set.
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv(EnvOptIn)),
		EventsURL:    strings.TrimSpace(os.Getenv(EnvEventsURL)),
		CrashURL:     strings.TrimSpace(os.Getenv(EnvCrashURL)),
		Timeout:      1500 * time.Millisecond,
		DebugLogging: os.Getenv(EnvDebug) != "",
	}
	if ms := strings.TrimSpace(os.Getenv(EnvTimeoutMS)); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = v
		}
	}
	return cfg
}

// WithOptIn returns cfg with the opt-in from the user's settings applied.
// The environment can only turn telemetry on, never override an explicit opt-in.
func (cfg Config) WithOptIn(optIn bool) Config {
	cfg.OptIn = cfg.OptIn || optIn
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Client is an async sender with a bounded queue. Failed sends are dropped.
type Client struct {
	cfg     Config
	log     *slog.Logger
	cli     *http.Client
	session string
	q       chan map[string]any
	once    sync.Once
	closed  chan struct{}
}

var (
	defaultClient *Client
	defaultOnce   sync.Once
)

// InitDefault installs a default client from the environment on first use.
func InitDefault() {
	defaultOnce.Do(func() {
		if defaultClient == nil {
			defaultClient = New(FromEnv())
		}
	})
}

// NewDefault replaces the package-level client and returns it.
func NewDefault(cfg Config) *Client {
	defaultOnce.Do(func() {})
	defaultClient = New(cfg)
	return defaultClient
}

func Default() *Client {
	InitDefault()
	return defaultClient
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 1500 * time.Millisecond
	}
	c := &Client{
		cfg:     cfg,
		log:     applog.WithComponent("telemetry"),
		cli:     &http.Client{Timeout: cfg.Timeout},
		session: uuid.NewString(),
		q:       make(chan map[string]any, 64),
		closed:  make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events would be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

func Enabled() bool { return Default().Enabled() }

// Event queues a usage event. Props must be scalars; strings that look like
// filesystem paths are dropped so project locations never leave the machine.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	payload := map[string]any{
		"name":    name,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"session": c.session,
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range props {
		if allowedProp(v) {
			payload[k] = v
		}
	}
	select {
	case c.q <- payload:
	default:
		// queue full
	}
}

func Event(name string, props map[string]any) { Default().Event(name, props) }

func allowedProp(v any) bool {
	switch x := v.(type) {
	case bool, int, int64, float64:
		return true
	case string:
		return len(x) <= 64 && !strings.ContainsAny(x, `/\`)
	default:
		return false
	}
}

// Flush waits briefly for the queue to drain.
func (c *Client) Flush(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	deadline := time.Now().Add(500 * time.Millisecond)
	for {
		if len(c.q) == 0 || time.Now().After(deadline) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(25 * time.Millisecond):
		}
	}
}

// Close stops the background sender.
func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case item := <-c.q:
			buf, _ := json.Marshal(item)
			if err := c.post(context.Background(), c.cfg.EventsURL, "application/json", buf); err != nil && c.cfg.DebugLogging {
				c.log.Debug("telemetry send failed", slog.Any("err", err))
			}
		}
	}
}

func (c *Client) post(ctx context.Context, url, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.cli.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// UploadCrash posts a crash report and waits for the result, bounded by ctx
// and the client timeout. It is a no-op without opt-in or a crash URL.
func (c *Client) UploadCrash(ctx context.Context, report []byte) error {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return nil
	}
	if err := c.post(ctx, c.cfg.CrashURL, "text/plain; charset=utf-8", report); err != nil {
		if c.cfg.DebugLogging {
			c.log.Debug("crash upload failed", slog.Any("err", err))
		}
		return fmt.Errorf("upload crash report: %w", err)
	}
	return nil
}

func UploadCrash(ctx context.Context, report []byte) error { return Default().UploadCrash(ctx, report) }
