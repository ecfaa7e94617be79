/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package host implements the privileged project operations of the video editor:
// native folder and file pickers, project folder scaffolding, saving and loading
// project.json. The UI reaches it either directly through Service or across the
// schema-validated message envelope (Bridge, BridgeClient).
package host

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"videoeditor/internal/domain"
	applog "videoeditor/internal/log"
	"videoeditor/internal/storage"
	"videoeditor/internal/version"
)

// Client is the set of operations the UI shell needs from the host.
// Service implements it in-process, BridgeClient across the envelope.
type Client interface {
	SelectProjectFolder(ctx context.Context) (string, error)
	CreateProjectFolder(ctx context.Context, basePath, projectName string) (string, error)
	SaveProject(ctx context.Context, p domain.VideoProject) error
	OpenProject(ctx context.Context) (*domain.VideoProject, error)
	LoadProject(ctx context.Context, projectPath string) (domain.VideoProject, error)
	RecentProjects(ctx context.Context) ([]domain.RecentProject, error)
	AppInfo(ctx context.Context) (AppInfo, error)
}

// RecentTracker records opened projects. storage.RecentStore implements it.
type RecentTracker interface {
	Touch(ctx context.Context, p domain.VideoProject) error
	List(ctx context.Context, limit int) ([]domain.RecentProject, error)
	Remove(ctx context.Context, path string) error
}

// EventSink receives usage events. telemetry.Client implements it.
type EventSink interface {
	Event(name string, props map[string]any)
}

// AppInfo describes the running host.
type AppInfo struct {
	Version string `json:"version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// Service performs host operations against the local filesystem.
type Service struct {
	dialogs Dialogs
	recent  RecentTracker
	events  EventSink
	log     *slog.Logger
}

type Option func(*Service)

// WithRecent enables recent-project tracking.
func WithRecent(r RecentTracker) Option { return func(s *Service) { s.recent = r } }

// WithEvents forwards usage events to sink.
func WithEvents(sink EventSink) Option { return func(s *Service) { s.events = sink } }

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// NewService returns a Service using d for native dialogs. A nil d means NoDialogs.
func NewService(d Dialogs, opts ...Option) *Service {
	if d == nil {
		d = NoDialogs{}
	}
	s := &Service{dialogs: d}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = applog.WithComponent("host")
	}
	return s
}

var _ Client = (*Service)(nil)

func (s *Service) SelectProjectFolder(ctx context.Context) (string, error) {
	dir, err := s.dialogs.ChooseDirectory(ctx, "Select Project Location")
	if err != nil {
		s.log.Warn("folder dialog failed", slog.Any("err", err))
		return "", opErr("select folder", err)
	}
	if dir == "" {
		return "", nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", opErr("select folder", err)
	}
	return abs, nil
}

func (s *Service) CreateProjectFolder(ctx context.Context, basePath, projectName string) (string, error) {
	l := applog.WithOperation(s.log, "create_project_folder")
	root, err := storage.CreateProjectFolder(basePath, projectName)
	if err != nil {
		l.Error("create folder failed", slog.String("base", basePath), slog.Any("err", err))
		return "", opErr("create project folder", err)
	}
	l.InfoContext(applog.ContextWithProject(ctx, root), "project folder ready")
	s.emit("project_created", nil)
	return root, nil
}

// SaveProject writes p as-is. Callers own lastModified (see VideoProject.Touch).
func (s *Service) SaveProject(ctx context.Context, p domain.VideoProject) error {
	ctx = applog.ContextWithProject(ctx, p.ProjectPath)
	l := applog.WithOperation(s.log, "save_project")
	if err := storage.SaveProject(p); err != nil {
		l.ErrorContext(ctx, "save failed", slog.Any("err", err))
		return opErr("save project", err)
	}
	l.InfoContext(ctx, "project saved")
	s.track(ctx, p)
	s.emit("project_saved", map[string]any{"frameRate": p.Settings.FrameRate})
	return nil
}

func (s *Service) OpenProject(ctx context.Context) (*domain.VideoProject, error) {
	l := applog.WithOperation(s.log, "open_project")
	path, err := s.dialogs.ChooseFile(ctx, "Open Project", ProjectFileFilters)
	if err != nil {
		l.Warn("file dialog failed", slog.Any("err", err))
		return nil, opErr("open project", err)
	}
	if path == "" {
		return nil, nil
	}
	p, err := storage.ReadProjectFile(path)
	if err != nil {
		l.Error("read project failed", slog.String("file", path), slog.Any("err", err))
		return nil, opErr("open project", err)
	}
	ctx = applog.ContextWithProject(ctx, p.ProjectPath)
	l.InfoContext(ctx, "project opened")
	s.track(ctx, p)
	s.emit("project_opened", map[string]any{"via": "dialog"})
	return &p, nil
}

func (s *Service) LoadProject(ctx context.Context, projectPath string) (domain.VideoProject, error) {
	ctx = applog.ContextWithProject(ctx, projectPath)
	l := applog.WithOperation(s.log, "load_project")
	p, err := storage.LoadProject(projectPath)
	if err != nil {
		l.ErrorContext(ctx, "load failed", slog.Any("err", err))
		if errors.Is(err, os.ErrNotExist) {
			s.forget(ctx, projectPath)
		}
		return domain.VideoProject{}, opErr("load project", err)
	}
	l.InfoContext(ctx, "project loaded")
	s.track(ctx, p)
	s.emit("project_opened", map[string]any{"via": "path"})
	return p, nil
}

// RecentProjects lists tracked projects. Without a tracker the list is empty.
func (s *Service) RecentProjects(ctx context.Context) ([]domain.RecentProject, error) {
	if s.recent == nil {
		return []domain.RecentProject{}, nil
	}
	list, err := s.recent.List(ctx, storage.DefaultRecentLimit)
	if err != nil {
		return nil, opErr("list recent projects", err)
	}
	return list, nil
}

func (s *Service) AppInfo(context.Context) (AppInfo, error) {
	return AppInfo{Version: version.String(), OS: runtime.GOOS, Arch: runtime.GOARCH}, nil
}

func (s *Service) track(ctx context.Context, p domain.VideoProject) {
	if s.recent == nil {
		return
	}
	if err := s.recent.Touch(ctx, p); err != nil {
		s.log.WarnContext(ctx, "recent tracking failed", slog.Any("err", err))
	}
}

// forget drops a project whose descriptor is gone from the recent catalog.
func (s *Service) forget(ctx context.Context, projectPath string) {
	if s.recent == nil {
		return
	}
	if err := s.recent.Remove(ctx, projectPath); err != nil {
		s.log.WarnContext(ctx, "recent cleanup failed", slog.Any("err", err))
	}
}

func (s *Service) emit(name string, props map[string]any) {
	if s.events != nil {
		s.events.Event(name, props)
	}
}
