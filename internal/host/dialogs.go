/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package host

import "context"

// FileFilter restricts a file dialog to the given extensions (without dot).
// A single "*" entry matches every file.
type FileFilter struct {
	Name       string
	Extensions []string
}

// ProjectFileFilters are offered when opening an existing project.
var ProjectFileFilters = []FileFilter{
	{Name: "Video Editor Projects", Extensions: []string{"json"}},
	{Name: "All Files", Extensions: []string{"*"}},
}

// Dialogs is the native dialog surface the host relies on. Implementations block
// until the user decides. A cancelled dialog returns "" and a nil error.
type Dialogs interface {
	ChooseDirectory(ctx context.Context, title string) (string, error)
	ChooseFile(ctx context.Context, title string, filters []FileFilter) (string, error)
}

// NoDialogs is used by headless hosts such as the bridge server.
type NoDialogs struct{}

func (NoDialogs) ChooseDirectory(context.Context, string) (string, error) {
	return "", ErrDialogUnavailable
}

func (NoDialogs) ChooseFile(context.Context, string, []FileFilter) (string, error) {
	return "", ErrDialogUnavailable
}
