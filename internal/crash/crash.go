/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report, an autosaved snapshot of the
// open project and a non-zero exit.
package crash

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"videoeditor/internal/domain"
	applog "videoeditor/internal/log"
	"videoeditor/internal/storage"
	"videoeditor/internal/telemetry"
	"videoeditor/internal/version"
)

// exitFn is replaced in tests.
var exitFn = os.Exit

// ProjectFunc returns the project currently open in the editor, or nil.
type ProjectFunc func() *domain.VideoProject

// Recover must be deferred directly (defer crash.Recover(current)) so that
// recover() sees the panic. current may be nil.
func Recover(current ProjectFunc) {
	r := recover()
	if r == nil {
		return
	}
	handle(r, debug.Stack(), current)
}

func handle(panicVal any, stack []byte, current ProjectFunc) {
	l := applog.WithComponent("crash")
	l.Error("panic recovered", slog.Any("panic", panicVal), slog.String("stack", string(stack)))

	var p *domain.VideoProject
	if current != nil {
		p = safeProject(current)
	}

	reportPath, report, err := writeReport(p, panicVal, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if p != nil && p.ProjectPath != "" {
		if path, err := storage.AutosaveCrashSnapshot(*p); err != nil {
			l.Error("autosave crash snapshot failed", slog.Any("err", err))
		} else {
			l.Info("autosave crash snapshot written", slog.String("path", path))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := telemetry.UploadCrash(ctx, report); err != nil {
		l.Warn("crash upload failed", slog.Any("err", err))
	}
	cancel()

	_, _ = fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	_, _ = fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

// safeProject calls current, ignoring a second panic from inside it.
func safeProject(current ProjectFunc) (p *domain.VideoProject) {
	defer func() {
		if recover() != nil {
			p = nil
		}
	}()
	return current()
}

// ReportDir is the project cache folder when a project is open, else the temp dir.
func ReportDir(p *domain.VideoProject) string {
	if p != nil && p.ProjectPath != "" {
		dir := filepath.Join(p.ProjectPath, storage.CacheDirName)
		if err := os.MkdirAll(dir, 0o755); err == nil {
			return dir
		}
	}
	return os.TempDir()
}

func writeReport(p *domain.VideoProject, panicVal any, stack []byte) (string, []byte, error) {
	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Video Editor Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if p != nil {
		_, _ = fmt.Fprintf(&buf, "Project: %s (%s)\n", p.Name, p.ID)
		_, _ = fmt.Fprintf(&buf, "ProjectPath: %s\n", p.ProjectPath)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	path := filepath.Join(ReportDir(p), fmt.Sprintf("crash-%s.log", time.Now().Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, buf.Bytes(), err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, buf.Bytes(), err
	}
	_ = f.Sync()
	return path, buf.Bytes(), nil
}
