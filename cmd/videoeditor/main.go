/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"videoeditor/internal/config"
	"videoeditor/internal/crash"
	"videoeditor/internal/domain"
	"videoeditor/internal/host"
	applog "videoeditor/internal/log"
	"videoeditor/internal/server"
	"videoeditor/internal/ui"
	"videoeditor/internal/version"
)

const banner = "Video Editor"

func usage(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n\n", banner, version.String())
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  videoeditor version|-v|--version                 Show version")
	fmt.Fprintln(w, "  videoeditor init <baseDir> <name> [WxH] [fps]    Create project <baseDir>/<name>")
	fmt.Fprintln(w, "  videoeditor open <projectDir>                     Load project and print summary")
	fmt.Fprintln(w, "  videoeditor save <projectDir>                     Re-stamp lastModified and save")
	fmt.Fprintln(w, "  videoeditor recent                                List recent projects")
	fmt.Fprintln(w, "  videoeditor ui [<projectDir>]                     Launch desktop UI (build with -tags fyne)")
	fmt.Fprintln(w, "  videoeditor serve [addr]                          Serve the project bridge over HTTP")
	fmt.Fprintln(w, "  videoeditor call <url> <op> [payload]             Send one request to a running bridge")
}

var current *domain.VideoProject

func currentProject() *domain.VideoProject { return current }

func main() {
	defer crash.Recover(currentProject)
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "Warning: config:", err)
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	l.Debug("start", slog.Int("args", len(args)))

	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	ctx := context.Background()

	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, banner)
		fmt.Fprintln(stdout, version.String())
		return 0

	case "init":
		if len(args) < 3 {
			fmt.Fprintln(stderr, "init requires <baseDir> and <name>")
			usage(stderr)
			return 2
		}
		data := domain.CreateProjectData{
			Name:       args[2],
			Resolution: domain.Resolution{Width: cfg.Project.Width, Height: cfg.Project.Height},
			FrameRate:  cfg.Project.FrameRate,
		}
		if len(args) > 3 {
			r, err := domain.ParseResolution(args[3])
			if err != nil {
				fmt.Fprintln(stderr, "Error:", err)
				return 2
			}
			data.Resolution = r
		}
		if len(args) > 4 {
			fps, err := strconv.Atoi(args[4])
			if err != nil || !domain.IsAllowedFrameRate(fps) {
				fmt.Fprintf(stderr, "Error: frame rate must be one of %v\n", domain.FrameRates)
				return 2
			}
			data.FrameRate = fps
		}
		return withService(cfg, stderr, func(svc *host.Service) int {
			base, err := filepath.Abs(args[1])
			if err != nil {
				return fail(l, stderr, err)
			}
			data.ProjectPath = base
			root, err := svc.CreateProjectFolder(ctx, base, data.Name)
			if err != nil {
				return fail(l, stderr, err)
			}
			p := domain.NewProject(data, root, domain.NewProjectID(), time.Now())
			current = &p
			if err := svc.SaveProject(ctx, p); err != nil {
				return fail(l, stderr, err)
			}
			fmt.Fprintln(stdout, "Created project at", root)
			return 0
		})

	case "open", "save":
		if len(args) < 2 {
			fmt.Fprintf(stderr, "%s requires <projectDir>\n", args[0])
			usage(stderr)
			return 2
		}
		return withService(cfg, stderr, func(svc *host.Service) int {
			dir, err := filepath.Abs(args[1])
			if err != nil {
				return fail(l, stderr, err)
			}
			p, err := svc.LoadProject(ctx, dir)
			if err != nil {
				return fail(l, stderr, err)
			}
			current = &p
			if args[0] == "open" {
				fmt.Fprintf(stdout, "Opened project: %s\n", p.Name)
				fmt.Fprintf(stdout, "Settings: %s • %dfps\n", p.Settings.Resolution, p.Settings.FrameRate)
				fmt.Fprintln(stdout, "Root:", p.ProjectPath)
				return 0
			}
			p.Touch(time.Now())
			if err := svc.SaveProject(ctx, p); err != nil {
				return fail(l, stderr, err)
			}
			fmt.Fprintf(stdout, "Saved project %s (lastModified %s)\n", p.Name, p.LastModified.Format(time.RFC3339))
			return 0
		})

	case "recent":
		return withService(cfg, stderr, func(svc *host.Service) int {
			list, err := svc.RecentProjects(ctx)
			if err != nil {
				return fail(l, stderr, err)
			}
			if len(list) == 0 {
				fmt.Fprintln(stdout, "No recent projects")
				return 0
			}
			for _, rp := range list {
				fmt.Fprintf(stdout, "%s\t%s\t%s\n", rp.Name, rp.Path, rp.LastModified.Format(time.RFC3339))
			}
			return 0
		})

	case "ui":
		var dir string
		if len(args) > 1 {
			abs, err := filepath.Abs(args[1])
			if err != nil {
				return fail(l, stderr, err)
			}
			dir = abs
		}
		if err := ui.Run(ui.Options{ProjectDir: dir, Config: cfg}); err != nil {
			return fail(l, stderr, err)
		}
		return 0

	case "serve":
		addr := cfg.Server.Addr
		if len(args) > 1 {
			addr = args[1]
		}
		rt, err := host.Setup(nil, cfg)
		if err != nil {
			return fail(l, stderr, err)
		}
		defer func() { _ = rt.Close() }()
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		router := server.NewRouter(host.NewBridge(rt.Headless()), server.Options{AllowedOrigins: cfg.Server.AllowedOrigins})
		fmt.Fprintf(stdout, "Serving project bridge on http://%s\n", addr)
		if err := server.Serve(sigCtx, addr, router); err != nil {
			return fail(l, stderr, err)
		}
		return 0

	case "call":
		if len(args) < 3 {
			fmt.Fprintln(stderr, "call requires <url> and <op>")
			usage(stderr)
			return 2
		}
		req := host.Request{Op: args[2]}
		if len(args) > 3 {
			req.Payload = json.RawMessage(args[3])
		}
		resp := server.NewHTTPTransport(args[1]).Dispatch(ctx, req)
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fail(l, stderr, err)
		}
		fmt.Fprintln(stdout, string(out))
		if !resp.OK {
			return 1
		}
		return 0
	}

	fmt.Fprintf(stderr, "unknown command %q\n", args[0])
	usage(stderr)
	return 2
}

func withService(cfg config.AppConfig, stderr io.Writer, fn func(svc *host.Service) int) int {
	rt, err := host.Setup(nil, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	defer func() { _ = rt.Close() }()
	return fn(rt.Service)
}

func fail(l *slog.Logger, stderr io.Writer, err error) int {
	l.Error("command failed", slog.Any("err", err))
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}
