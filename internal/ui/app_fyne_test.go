//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests drive the Fyne views with the in-memory test driver. They are gated
// behind the "fyne" build tag so headless CI does not need Fyne or a display.
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"videoeditor/internal/app"
	"videoeditor/internal/domain"
	"videoeditor/internal/host"
)

type stubClient struct {
	recent []domain.RecentProject
}

func (s *stubClient) SelectProjectFolder(context.Context) (string, error) { return "/videos", nil }
func (s *stubClient) CreateProjectFolder(_ context.Context, base, name string) (string, error) {
	return filepath.Join(base, name), nil
}
func (s *stubClient) SaveProject(context.Context, domain.VideoProject) error { return nil }
func (s *stubClient) OpenProject(context.Context) (*domain.VideoProject, error) {
	return nil, nil
}
func (s *stubClient) LoadProject(context.Context, string) (domain.VideoProject, error) {
	return domain.VideoProject{}, nil
}
func (s *stubClient) RecentProjects(context.Context) ([]domain.RecentProject, error) {
	return s.recent, nil
}
func (s *stubClient) AppInfo(context.Context) (host.AppInfo, error) { return host.AppInfo{}, nil }

func newTestView(t *testing.T, c host.Client) (*view, *app.Shell) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	w := a.NewWindow(windowTitle)
	shell := app.NewShell(c)
	v := newView(context.Background(), shell, w)
	v.render(shell.State())
	return v, shell
}

func TestWelcomeShowsNoRecentProjects(t *testing.T) {
	v, _ := newTestView(t, &stubClient{})
	if len(v.recentBox.Objects) != 1 {
		t.Fatalf("expected placeholder, got %d objects", len(v.recentBox.Objects))
	}
}

func TestWelcomeListsRecent(t *testing.T) {
	c := &stubClient{recent: make([]domain.RecentProject, 7)}
	v, shell := newTestView(t, c)
	shell.RefreshRecent(context.Background())
	v.render(shell.State())
	if len(v.recentBox.Objects) != maxRecentShown {
		t.Fatalf("expected %d recent entries, got %d", maxRecentShown, len(v.recentBox.Objects))
	}
}

func TestCreateFormFlow(t *testing.T) {
	v, shell := newTestView(t, &stubClient{})

	test.Tap(v.newBtn)
	v.render(shell.State())
	if shell.State().Screen != app.ScreenCreateProject {
		t.Fatalf("expected create-project screen")
	}
	if v.resSelect.Selected != domain.PresetResolutions[0].Label || v.fpsSelect.Selected != "30 fps" {
		t.Fatalf("unexpected defaults: %q %q", v.resSelect.Selected, v.fpsSelect.Selected)
	}

	// Submit without a name shows the validation message.
	if err := shell.Submit(context.Background()); err == nil {
		t.Fatalf("expected validation error")
	}
	v.render(shell.State())
	if v.errLabel.Text != app.MsgNameRequired || !v.errLabel.Visible() {
		t.Fatalf("unexpected error label %q", v.errLabel.Text)
	}

	test.Type(v.nameEntry, "Trip")
	if err := shell.SelectFolder(context.Background()); err != nil {
		t.Fatal(err)
	}
	v.render(shell.State())
	if v.locationEntry.Text != "/videos" {
		t.Fatalf("location not rendered: %q", v.locationEntry.Text)
	}

	if err := shell.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for shell.State().Screen != app.ScreenEditor && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if shell.State().Project == nil || shell.State().Project.Name != "Trip" {
		t.Fatalf("expected editor with project, got %+v", shell.State())
	}
}
