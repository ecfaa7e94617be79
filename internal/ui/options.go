/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ui renders the application shell with Fyne. The toolkit code is only
// compiled with -tags fyne; the helpers in this file are shared by every build.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"videoeditor/internal/config"
	"videoeditor/internal/domain"
)

// Options configure Run.
type Options struct {
	// ProjectDir is opened right after start when set.
	ProjectDir string
	Config     config.AppConfig
}

const (
	windowTitle       = "Video Editor"
	maxRecentShown    = 5
	noRecentText      = "No recent projects"
	submitText        = "Create Project"
	submitBusyText    = "Creating Project..."
	editorCreatedText = "Project Created Successfully!"
	editorSoonText    = "Editor interface coming soon..."
)

func resolutionOptions() []string {
	out := make([]string, 0, len(domain.PresetResolutions))
	for _, p := range domain.PresetResolutions {
		out = append(out, p.Label)
	}
	return out
}

// resolutionOptionsFor lists the presets plus current when it is not one of them,
// so a custom form default stays selectable.
func resolutionOptionsFor(current domain.Resolution) []string {
	out := resolutionOptions()
	label := domain.PresetLabel(current)
	for _, o := range out {
		if o == label {
			return out
		}
	}
	return append(out, label)
}

func resolutionFromLabel(label string) (domain.Resolution, bool) {
	for _, p := range domain.PresetResolutions {
		if p.Label == label {
			return p.Resolution, true
		}
	}
	r, err := domain.ParseResolution(label)
	return r, err == nil
}

func frameRateOptions() []string {
	out := make([]string, 0, len(domain.FrameRates))
	for _, fps := range domain.FrameRates {
		out = append(out, frameRateLabel(fps))
	}
	return out
}

func frameRateLabel(fps int) string { return fmt.Sprintf("%d fps", fps) }

func frameRateFromLabel(label string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(label, "fps")))
	if err != nil || !domain.IsAllowedFrameRate(n) {
		return 0, false
	}
	return n, true
}

// editorSummary renders "1920x1080 • 30fps".
func editorSummary(p domain.VideoProject) string {
	return fmt.Sprintf("%s • %dfps", p.Settings.Resolution, p.Settings.FrameRate)
}

// recentShown caps the welcome list.
func recentShown(list []domain.RecentProject) []domain.RecentProject {
	if len(list) > maxRecentShown {
		return list[:maxRecentShown]
	}
	return list
}
