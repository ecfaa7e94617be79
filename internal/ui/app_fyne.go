//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"log/slog"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"videoeditor/internal/app"
	"videoeditor/internal/crash"
	"videoeditor/internal/domain"
	"videoeditor/internal/host"
	applog "videoeditor/internal/log"
	"videoeditor/internal/server"
)

// Run starts the Fyne desktop shell and blocks until the window closes.
func Run(opts Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var shell *app.Shell
	defer crash.Recover(func() *domain.VideoProject {
		if shell == nil {
			return nil
		}
		return shell.State().Project
	})

	fyneApp := fyneapp.NewWithID("videoeditor")
	w := fyneApp.NewWindow(windowTitle)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	rt, err := host.Setup(&fyneDialogs{win: w}, opts.Config)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			l.Warn("close host runtime", slog.Any("err", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := func() { fyne.Do(fyneApp.Quit) }
	// The shell reaches the host only through the validated envelope.
	client := host.NewBridgeClient(host.NewBridge(rt.Service))
	shell = app.NewShell(client,
		app.WithQuit(quit),
		app.WithFormDefaults(
			domain.Resolution{Width: opts.Config.Project.Width, Height: opts.Config.Project.Height},
			opts.Config.Project.FrameRate,
		),
	)
	v := newView(ctx, shell, w)
	shell.Subscribe(func(st app.State) { fyne.Do(func() { v.render(st) }) })
	v.render(shell.State())
	w.SetMainMenu(v.mainMenu(quit))
	v.addShortcuts()

	if opts.Config.General.EnableServer {
		router := server.NewRouter(host.NewBridge(rt.Headless()), server.Options{AllowedOrigins: opts.Config.Server.AllowedOrigins})
		go func() {
			if err := server.Serve(ctx, opts.Config.Server.Addr, router); err != nil {
				l.Error("bridge server stopped", slog.Any("err", err))
			}
		}()
	}

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	go func() {
		defer crash.Recover(v.currentProject)
		shell.Start(ctx)
		if opts.ProjectDir != "" {
			if err := shell.OpenRecent(ctx, opts.ProjectDir); err != nil {
				l.Error("auto-open project failed", slog.String("dir", opts.ProjectDir), slog.Any("err", err))
			}
		}
	}()

	w.ShowAndRun()
	return nil
}
