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
	"errors"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"videoeditor/internal/app"
	"videoeditor/internal/crash"
	"videoeditor/internal/domain"
	applog "videoeditor/internal/log"
)

// view renders app.State into the window. render runs on the Fyne goroutine;
// shell actions that reach the host run on their own goroutines.
type view struct {
	ctx   context.Context
	shell *app.Shell
	win   fyne.Window
	log   *slog.Logger

	screen app.Screen
	built  bool

	// welcome
	newBtn    *widget.Button
	openBtn   *widget.Button
	recentBox *fyne.Container

	// create-project
	backBtn       *widget.Button
	nameEntry     *widget.Entry
	descEntry     *widget.Entry
	locationEntry *widget.Entry
	browseBtn     *widget.Button
	resSelect     *widget.Select
	fpsSelect     *widget.Select
	errLabel      *widget.Label
	submitBtn     *widget.Button
}

func newView(ctx context.Context, shell *app.Shell, win fyne.Window) *view {
	return &view{ctx: ctx, shell: shell, win: win, log: applog.WithComponent("ui")}
}

func (v *view) currentProject() *domain.VideoProject { return v.shell.State().Project }

// run executes a host-backed action off the UI goroutine.
func (v *view) run(name string, fn func(ctx context.Context) error) {
	go func() {
		defer crash.Recover(v.currentProject)
		v.report(name, fn(v.ctx))
	}()
}

func (v *view) report(name string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, app.ErrBusy):
		v.log.Debug("action ignored while busy", slog.String("action", name))
	case errors.Is(err, app.ErrNotSupported):
		fyne.Do(func() { dialog.ShowInformation("Not available", "This action is not available yet.", v.win) })
	case errors.Is(err, app.ErrValidation):
		// shown inline
	default:
		v.log.Warn("action failed", slog.String("action", name), slog.Any("err", err))
	}
}

func (v *view) dispatch(cmd app.Command) {
	v.run(string(cmd), func(ctx context.Context) error { return v.shell.Dispatch(ctx, cmd) })
}

func (v *view) render(st app.State) {
	if !v.built || st.Screen != v.screen {
		v.screen = st.Screen
		v.built = true
		switch st.Screen {
		case app.ScreenCreateProject:
			v.win.SetContent(v.buildCreate(st))
		case app.ScreenEditor:
			v.win.SetContent(v.buildEditor(st))
		default:
			v.win.SetContent(v.buildWelcome())
		}
	}
	switch st.Screen {
	case app.ScreenWelcome:
		v.updateWelcome(st)
	case app.ScreenCreateProject:
		v.updateCreate(st)
	}
}

func (v *view) buildWelcome() fyne.CanvasObject {
	title := widget.NewLabelWithStyle(windowTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	subtitle := widget.NewLabelWithStyle("Create a new project or open an existing one", fyne.TextAlignCenter, fyne.TextStyle{})

	v.newBtn = widget.NewButton("Create New Project", func() { v.report("create", v.shell.CreateProject()) })
	v.newBtn.Importance = widget.HighImportance
	v.openBtn = widget.NewButton("Open Existing Project", func() {
		v.run("open", v.shell.OpenProject)
	})
	v.recentBox = container.NewVBox()

	return container.NewCenter(container.NewVBox(
		title,
		subtitle,
		container.NewHBox(layout.NewSpacer(), v.newBtn, v.openBtn, layout.NewSpacer()),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Recent Projects", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		v.recentBox,
	))
}

func (v *view) updateWelcome(st app.State) {
	setEnabled(v.newBtn, !st.Busy)
	setEnabled(v.openBtn, !st.Busy)

	v.recentBox.RemoveAll()
	list := recentShown(st.Recent)
	if len(list) == 0 {
		v.recentBox.Add(widget.NewLabel(noRecentText))
		return
	}
	for _, rp := range list {
		path := rp.Path
		btn := widget.NewButton(rp.Name+"  ("+path+")", func() {
			v.run("open_recent", func(ctx context.Context) error { return v.shell.OpenRecent(ctx, path) })
		})
		btn.Alignment = widget.ButtonAlignLeading
		btn.Importance = widget.LowImportance
		setEnabled(btn, !st.Busy)
		v.recentBox.Add(btn)
	}
}

func (v *view) buildCreate(st app.State) fyne.CanvasObject {
	v.backBtn = widget.NewButton("← Back", func() {
		if err := v.shell.Back(); err != nil {
			v.report("back", err)
			return
		}
		v.run("refresh_recent", func(ctx context.Context) error {
			v.shell.RefreshRecent(ctx)
			return nil
		})
	})

	v.nameEntry = widget.NewEntry()
	v.nameEntry.SetPlaceHolder("My Video Project")
	v.nameEntry.SetText(st.Form.Name)
	v.nameEntry.OnChanged = func(s string) { v.report("name", v.shell.SetName(s)) }

	v.descEntry = widget.NewMultiLineEntry()
	v.descEntry.SetPlaceHolder("Optional description")
	v.descEntry.SetText(st.Form.Description)
	v.descEntry.OnChanged = func(s string) { v.report("description", v.shell.SetDescription(s)) }

	v.locationEntry = widget.NewEntry()
	v.locationEntry.SetPlaceHolder("Select a folder")
	v.locationEntry.Disable()
	v.browseBtn = widget.NewButton("Browse", func() { v.run("select_folder", v.shell.SelectFolder) })

	v.resSelect = widget.NewSelect(resolutionOptionsFor(st.Form.Resolution), func(label string) {
		if r, ok := resolutionFromLabel(label); ok {
			v.report("resolution", v.shell.SetResolution(r))
		}
	})
	v.resSelect.SetSelected(domain.PresetLabel(st.Form.Resolution))

	v.fpsSelect = widget.NewSelect(frameRateOptions(), func(label string) {
		if fps, ok := frameRateFromLabel(label); ok {
			v.report("frame_rate", v.shell.SetFrameRate(fps))
		}
	})
	v.fpsSelect.SetSelected(frameRateLabel(st.Form.FrameRate))

	v.errLabel = widget.NewLabel("")
	v.errLabel.Importance = widget.DangerImportance
	v.errLabel.Wrapping = fyne.TextWrapWord

	v.submitBtn = widget.NewButton(submitText, func() { v.run("submit", v.shell.Submit) })
	v.submitBtn.Importance = widget.HighImportance

	form := widget.NewForm(
		widget.NewFormItem("Project Name", v.nameEntry),
		widget.NewFormItem("Description", v.descEntry),
		widget.NewFormItem("Location", container.NewBorder(nil, nil, nil, v.browseBtn, v.locationEntry)),
		widget.NewFormItem("Resolution", v.resSelect),
		widget.NewFormItem("Frame Rate", v.fpsSelect),
	)
	header := container.NewHBox(v.backBtn, widget.NewLabelWithStyle("Create New Project", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	return container.NewPadded(container.NewVBox(header, widget.NewSeparator(), form, v.errLabel, v.submitBtn))
}

func (v *view) updateCreate(st app.State) {
	if v.locationEntry.Text != st.Form.Location {
		v.locationEntry.SetText(st.Form.Location)
	}
	v.errLabel.SetText(st.Form.Error)
	if st.Form.Error == "" {
		v.errLabel.Hide()
	} else {
		v.errLabel.Show()
	}
	if st.Busy {
		v.submitBtn.SetText(submitBusyText)
	} else {
		v.submitBtn.SetText(submitText)
	}
	setEnabled(v.submitBtn, !st.Busy)
	setEnabled(v.browseBtn, !st.Busy)
	setEnabled(v.backBtn, !st.Busy)
}

func (v *view) buildEditor(st app.State) fyne.CanvasObject {
	var p domain.VideoProject
	if st.Project != nil {
		p = *st.Project
	}
	name := widget.NewLabelWithStyle(p.Name, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	summary := widget.NewLabelWithStyle(editorSummary(p), fyne.TextAlignCenter, fyne.TextStyle{})
	created := widget.NewLabelWithStyle(editorCreatedText, fyne.TextAlignCenter, fyne.TextStyle{})
	path := widget.NewLabelWithStyle(p.ProjectPath, fyne.TextAlignCenter, fyne.TextStyle{Monospace: true})
	soon := widget.NewLabelWithStyle(editorSoonText, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	return container.NewCenter(container.NewVBox(name, summary, widget.NewSeparator(), created, path, soon))
}

func (v *view) mainMenu(quit func()) *fyne.MainMenu {
	item := func(label string, cmd app.Command) *fyne.MenuItem {
		return fyne.NewMenuItem(label, func() { v.dispatch(cmd) })
	}
	newItem := item("New Project", app.CmdNewProject)
	newItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierShortcutDefault}
	openItem := item("Open Project", app.CmdOpenProject)
	openItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}
	exitItem := fyne.NewMenuItem("Exit", quit)
	exitItem.IsQuit = true

	fileMenu := fyne.NewMenu("File", newItem, openItem, fyne.NewMenuItemSeparator(), exitItem)
	viewMenu := fyne.NewMenu("View",
		item("Reload", app.CmdReload),
		item("Toggle Developer Tools", app.CmdToggleDevTools),
		fyne.NewMenuItemSeparator(),
		item("Zoom In", app.CmdZoomIn),
		item("Zoom Out", app.CmdZoomOut),
		item("Actual Size", app.CmdZoomReset),
		fyne.NewMenuItemSeparator(),
		item("Toggle Full Screen", app.CmdToggleFullScreen),
	)
	windowMenu := fyne.NewMenu("Window",
		item("Minimize", app.CmdMinimize),
		item("Maximize", app.CmdMaximize),
	)
	return fyne.NewMainMenu(fileMenu, viewMenu, windowMenu)
}

func (v *view) addShortcuts() {
	c := v.win.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		v.dispatch(app.CmdNewProject)
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		v.dispatch(app.CmdOpenProject)
	})
}

func setEnabled(w fyne.Disableable, on bool) {
	if on {
		w.Enable()
	} else {
		w.Disable()
	}
}
