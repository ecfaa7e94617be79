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
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"

	"videoeditor/internal/host"
	applog "videoeditor/internal/log"
)

// fyneDialogs adapts Fyne's callback dialogs to the blocking host.Dialogs.
// Its methods must not be called on the Fyne UI goroutine.
type fyneDialogs struct {
	win fyne.Window
}

var _ host.Dialogs = (*fyneDialogs)(nil)

type pick struct {
	path string
	err  error
}

func (d *fyneDialogs) ChooseDirectory(ctx context.Context, title string) (string, error) {
	ch := make(chan pick, 1)
	fyne.Do(func() {
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				ch <- pick{err: err}
				return
			}
			ch <- pick{path: uri.Path()}
		}, d.win)
		fd.SetConfirmText("Select")
		fd.Show()
	})
	d.log(title)
	return wait(ctx, ch)
}

// ChooseFile applies the first concrete filter; Fyne file dialogs accept a single filter.
func (d *fyneDialogs) ChooseFile(ctx context.Context, title string, filters []host.FileFilter) (string, error) {
	ch := make(chan pick, 1)
	fyne.Do(func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				ch <- pick{err: err}
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			ch <- pick{path: path}
		}, d.win)
		if exts := firstExtensions(filters); len(exts) > 0 {
			fd.SetFilter(fstorage.NewExtensionFileFilter(exts))
		}
		fd.SetConfirmText("Open")
		fd.Show()
	})
	d.log(title)
	return wait(ctx, ch)
}

func (d *fyneDialogs) log(title string) {
	applog.WithComponent("ui").Debug("dialog shown", slog.String("title", title))
}

func firstExtensions(filters []host.FileFilter) []string {
	for _, f := range filters {
		var exts []string
		for _, e := range f.Extensions {
			if e == "*" {
				continue
			}
			exts = append(exts, "."+strings.TrimPrefix(e, "."))
		}
		if len(exts) > 0 {
			return exts
		}
	}
	return nil
}

func wait(ctx context.Context, ch <-chan pick) (string, error) {
	select {
	case p := <-ch:
		return p.path, p.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
