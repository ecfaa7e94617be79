/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package app holds the UI shell: the welcome, create-project and editor screens
// as a state machine driven by user actions and backed by a host.Client.
// It is toolkit agnostic; internal/ui renders its State.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"videoeditor/internal/domain"
	"videoeditor/internal/host"
	applog "videoeditor/internal/log"
)

type Screen string

const (
	ScreenWelcome       Screen = "welcome"
	ScreenCreateProject Screen = "create-project"
	ScreenEditor        Screen = "editor"
)

const (
	MsgNameRequired     = "Project name is required"
	MsgLocationRequired = "Please select a project location"
	MsgSelectFailed     = "Failed to select folder"
)

var (
	// ErrBusy is returned while another host operation is in flight.
	ErrBusy = errors.New("another operation is in progress")
	// ErrNotSupported is returned for actions that have no transition on the current screen.
	ErrNotSupported = errors.New("not supported")
	// ErrValidation marks a rejected form submission. The message is in State.Form.Error.
	ErrValidation = errors.New("invalid project form")
)

// Form is the create-project form.
type Form struct {
	Name        string
	Description string
	Location    string
	Resolution  domain.Resolution
	FrameRate   int
	Error       string
}

// State is a snapshot of the shell. Mutating it has no effect on the Shell.
type State struct {
	Screen  Screen
	Form    Form
	Project *domain.VideoProject
	Recent  []domain.RecentProject
	Busy    bool
}

// Shell is safe for concurrent use. Host calls run without holding the lock.
type Shell struct {
	client host.Client
	now    func() time.Time
	newID  func() string
	onQuit func()
	log    *slog.Logger

	defaultRes domain.Resolution
	defaultFPS int

	mu    sync.Mutex
	state State
	subs  []func(State)
}

type Option func(*Shell)

func WithClock(now func() time.Time) Option { return func(s *Shell) { s.now = now } }

func WithIDGenerator(f func() string) Option { return func(s *Shell) { s.newID = f } }

// WithQuit sets the hook run by CmdQuit.
func WithQuit(f func()) Option { return func(s *Shell) { s.onQuit = f } }

// WithFormDefaults overrides the resolution and frame rate of a fresh form.
// Invalid values are ignored.
func WithFormDefaults(res domain.Resolution, fps int) Option {
	return func(s *Shell) {
		if res.Width > 0 && res.Height > 0 {
			s.defaultRes = res
		}
		if domain.IsAllowedFrameRate(fps) {
			s.defaultFPS = fps
		}
	}
}

func WithLogger(l *slog.Logger) Option { return func(s *Shell) { s.log = l } }

// NewShell returns a shell on the welcome screen.
func NewShell(client host.Client, opts ...Option) *Shell {
	s := &Shell{
		client:     client,
		now:        time.Now,
		newID:      domain.NewProjectID,
		defaultRes: domain.DefaultResolution(),
		defaultFPS: domain.DefaultFrameRate,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = applog.WithComponent("shell")
	}
	s.state = State{Screen: ScreenWelcome, Recent: []domain.RecentProject{}}
	return s
}

func (s *Shell) freshForm() Form {
	return Form{Resolution: s.defaultRes, FrameRate: s.defaultFPS}
}

// State returns the current snapshot.
func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Shell) snapshotLocked() State {
	st := s.state
	st.Recent = append([]domain.RecentProject(nil), s.state.Recent...)
	if s.state.Project != nil {
		p := *s.state.Project
		st.Project = &p
	}
	return st
}

// Subscribe registers fn to be called with every new state. The returned func unsubscribes.
func (s *Shell) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.subs) {
			s.subs[idx] = nil
		}
	}
}

// update applies fn under the lock and notifies subscribers afterwards.
func (s *Shell) update(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.snapshotLocked()
	subs := make([]func(State), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, sub := range subs {
		if sub != nil {
			sub(snap)
		}
	}
}

// begin marks the shell busy if it is on screen and idle.
func (s *Shell) begin(screen Screen, mutate func(st *State) error) error {
	var err error
	s.update(func(st *State) {
		switch {
		case st.Busy:
			err = ErrBusy
		case st.Screen != screen:
			err = fmt.Errorf("%w on %s", ErrNotSupported, st.Screen)
		default:
			if mutate != nil {
				if err = mutate(st); err != nil {
					return
				}
			}
			st.Busy = true
		}
	})
	return err
}

// Start loads the recent projects for the welcome screen.
func (s *Shell) Start(ctx context.Context) { s.RefreshRecent(ctx) }

// RefreshRecent reloads the recent list. Failures are logged and leave the list as is.
func (s *Shell) RefreshRecent(ctx context.Context) {
	list, err := s.client.RecentProjects(ctx)
	if err != nil {
		s.log.Warn("recent projects unavailable", slog.Any("err", err))
		return
	}
	s.update(func(st *State) { st.Recent = list })
}

// CreateProject moves from welcome to a fresh create-project form.
func (s *Shell) CreateProject() error {
	var err error
	s.update(func(st *State) {
		switch {
		case st.Busy:
			err = ErrBusy
		case st.Screen != ScreenWelcome:
			err = fmt.Errorf("%w on %s", ErrNotSupported, st.Screen)
		default:
			st.Screen = ScreenCreateProject
			st.Form = s.freshForm()
		}
	})
	return err
}

// Back discards the form and returns to welcome.
func (s *Shell) Back() error {
	var err error
	s.update(func(st *State) {
		switch {
		case st.Busy:
			err = ErrBusy
		case st.Screen != ScreenCreateProject:
			err = fmt.Errorf("%w on %s", ErrNotSupported, st.Screen)
		default:
			st.Screen = ScreenWelcome
			st.Form = Form{}
		}
	})
	return err
}

// OpenProject asks the host for a project file. Cancel keeps the welcome screen.
// A failure is returned for logging only. The shell stays on welcome.
func (s *Shell) OpenProject(ctx context.Context) error {
	if err := s.begin(ScreenWelcome, nil); err != nil {
		return err
	}
	p, err := s.client.OpenProject(ctx)
	return s.finishOpen(p, err)
}

// OpenRecent loads the project stored at path.
func (s *Shell) OpenRecent(ctx context.Context, path string) error {
	if err := s.begin(ScreenWelcome, nil); err != nil {
		return err
	}
	p, err := s.client.LoadProject(ctx, path)
	if err != nil {
		return s.finishOpen(nil, err)
	}
	return s.finishOpen(&p, nil)
}

func (s *Shell) finishOpen(p *domain.VideoProject, err error) error {
	if err != nil {
		s.log.Error("open project failed", slog.Any("err", err))
	}
	s.update(func(st *State) {
		st.Busy = false
		if err == nil && p != nil {
			st.Screen = ScreenEditor
			st.Project = p
		}
	})
	return err
}

// SelectFolder asks the host for the project location.
func (s *Shell) SelectFolder(ctx context.Context) error {
	if err := s.begin(ScreenCreateProject, nil); err != nil {
		return err
	}
	dir, err := s.client.SelectProjectFolder(ctx)
	if err != nil {
		s.log.Error("select folder failed", slog.Any("err", err))
	}
	s.update(func(st *State) {
		st.Busy = false
		switch {
		case err != nil:
			st.Form.Error = MsgSelectFailed
		case dir != "":
			st.Form.Location = dir
			st.Form.Error = ""
		}
	})
	return err
}

func (s *Shell) editForm(fn func(f *Form)) error {
	var err error
	s.update(func(st *State) {
		if st.Screen != ScreenCreateProject {
			err = fmt.Errorf("%w on %s", ErrNotSupported, st.Screen)
			return
		}
		fn(&st.Form)
	})
	return err
}

func (s *Shell) SetName(name string) error {
	return s.editForm(func(f *Form) { f.Name = name })
}

func (s *Shell) SetDescription(desc string) error {
	return s.editForm(func(f *Form) { f.Description = desc })
}

func (s *Shell) SetResolution(res domain.Resolution) error {
	if res.Width <= 0 || res.Height <= 0 {
		return fmt.Errorf("%w: resolution %s", ErrValidation, res)
	}
	return s.editForm(func(f *Form) { f.Resolution = res })
}

func (s *Shell) SetFrameRate(fps int) error {
	if !domain.IsAllowedFrameRate(fps) {
		return fmt.Errorf("%w: frame rate %d", ErrValidation, fps)
	}
	return s.editForm(func(f *Form) { f.FrameRate = fps })
}

// Submit validates the form, creates the project folder and saves the new project.
// On success the shell enters the editor with the created project.
func (s *Shell) Submit(ctx context.Context) error {
	var form Form
	err := s.begin(ScreenCreateProject, func(st *State) error {
		switch {
		case strings.TrimSpace(st.Form.Name) == "":
			st.Form.Error = MsgNameRequired
		case st.Form.Location == "":
			st.Form.Error = MsgLocationRequired
		default:
			st.Form.Error = ""
			form = st.Form
			return nil
		}
		return fmt.Errorf("%w: %s", ErrValidation, st.Form.Error)
	})
	if err != nil {
		return err
	}

	name := strings.TrimSpace(form.Name)
	p, err := s.create(ctx, form, name)
	if err != nil {
		s.log.Error("create project failed", slog.String("name", name), slog.Any("err", err))
	}
	s.update(func(st *State) {
		st.Busy = false
		if err != nil {
			st.Form.Error = err.Error()
			return
		}
		st.Screen = ScreenEditor
		st.Project = &p
		st.Form = Form{}
	})
	return err
}

func (s *Shell) create(ctx context.Context, form Form, name string) (domain.VideoProject, error) {
	root, err := s.client.CreateProjectFolder(ctx, form.Location, name)
	if err != nil {
		return domain.VideoProject{}, err
	}
	p := domain.NewProject(domain.CreateProjectData{
		Name:        name,
		Description: form.Description,
		ProjectPath: form.Location,
		Resolution:  form.Resolution,
		FrameRate:   form.FrameRate,
	}, root, s.newID(), s.now())
	if err := s.client.SaveProject(ctx, p); err != nil {
		return domain.VideoProject{}, err
	}
	return p, nil
}
