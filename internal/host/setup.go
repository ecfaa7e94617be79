/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package host

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"videoeditor/internal/config"
	applog "videoeditor/internal/log"
	"videoeditor/internal/storage"
	"videoeditor/internal/telemetry"
)

// Runtime is a Service wired from the user's settings together with the
// resources it owns.
type Runtime struct {
	Service   *Service
	Telemetry *telemetry.Client
	recent    *storage.RecentStore
}

// Setup builds a Service for cfg. The recent-projects catalog lives in the config
// directory and is only opened when tracking is enabled.
func Setup(d Dialogs, cfg config.AppConfig) (*Runtime, error) {
	l := applog.WithComponent("host")
	tcfg := telemetry.FromEnv().WithOptIn(cfg.General.TelemetryOptIn)
	rt := &Runtime{Telemetry: telemetry.NewDefault(tcfg)}

	opts := []Option{WithEvents(rt.Telemetry)}
	if cfg.General.TrackRecent {
		dir, err := config.Dir()
		if err != nil {
			rt.Telemetry.Close()
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		store, err := storage.OpenRecentStore(dir)
		if err != nil {
			rt.Telemetry.Close()
			return nil, err
		}
		rt.recent = store
		opts = append(opts, WithRecent(store))
		l.Debug("recent tracking enabled", slog.String("db", store.Path()))
	}
	rt.Service = NewService(d, opts...)
	return rt, nil
}

// Headless returns a Service without native dialogs that shares the
// recent catalog and telemetry of r. The bridge server uses it.
func (r *Runtime) Headless() *Service {
	opts := []Option{WithEvents(r.Telemetry)}
	if r.recent != nil {
		opts = append(opts, WithRecent(r.recent))
	}
	return NewService(NoDialogs{}, opts...)
}

// Close flushes telemetry and closes the recent catalog.
func (r *Runtime) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r.Telemetry.Flush(ctx)
	r.Telemetry.Close()
	return r.recent.Close()
}
