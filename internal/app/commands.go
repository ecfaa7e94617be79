/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package app

import (
	"context"
	"fmt"
)

// Command is a menu or shortcut action routed through Shell.Dispatch.
type Command string

const (
	CmdNewProject       Command = "new-project"
	CmdOpenProject      Command = "open-project"
	CmdQuit             Command = "quit"
	CmdCloseProject     Command = "close-project"
	CmdReload           Command = "reload"
	CmdToggleDevTools   Command = "toggle-devtools"
	CmdZoomIn           Command = "zoom-in"
	CmdZoomOut          Command = "zoom-out"
	CmdZoomReset        Command = "zoom-reset"
	CmdToggleFullScreen Command = "toggle-fullscreen"
	CmdMinimize         Command = "minimize"
	CmdMaximize         Command = "maximize"
)

// Commands lists every command the menus may emit.
var Commands = []Command{
	CmdNewProject, CmdOpenProject, CmdQuit, CmdCloseProject,
	CmdReload, CmdToggleDevTools, CmdZoomIn, CmdZoomOut, CmdZoomReset,
	CmdToggleFullScreen, CmdMinimize, CmdMaximize,
}

// Dispatch runs cmd. Commands without a defined transition on the current
// screen fail with ErrNotSupported.
func (s *Shell) Dispatch(ctx context.Context, cmd Command) error {
	s.log.Debug("dispatch", "command", string(cmd))
	screen := s.State().Screen
	switch cmd {
	case CmdNewProject:
		if screen == ScreenWelcome {
			return s.CreateProject()
		}
	case CmdOpenProject:
		if screen == ScreenWelcome {
			return s.OpenProject(ctx)
		}
	case CmdQuit:
		if s.onQuit != nil {
			s.onQuit()
		}
		return nil
	}
	return fmt.Errorf("%w: %s on %s", ErrNotSupported, cmd, screen)
}
