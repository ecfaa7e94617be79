/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the project data model persisted as project.json.
// Field names are part of the on-disk format and must not change.

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Resolution is the frame size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AudioSettings describes the project audio format.
type AudioSettings struct {
	SampleRate int `json:"sampleRate"`
	Channels   int `json:"channels"`
}

// ProjectSettings holds the technical settings fixed at creation time.
type ProjectSettings struct {
	Resolution    Resolution    `json:"resolution"`
	FrameRate     int           `json:"frameRate"`
	Duration      *float64      `json:"duration,omitempty"` // seconds
	AudioSettings AudioSettings `json:"audioSettings"`
}

// VideoProject is the aggregate persisted to <ProjectPath>/project.json.
// ProjectPath doubles as the identity used to re-open a project.
type VideoProject struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	ProjectPath  string          `json:"projectPath"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastModified time.Time       `json:"lastModified"`
	Settings     ProjectSettings `json:"settings"`
}

// CreateProjectData is the transient input of the create-project form.
// ProjectPath is the parent directory chosen by the user, not the final project directory.
type CreateProjectData struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ProjectPath string     `json:"projectPath"`
	Resolution  Resolution `json:"resolution"`
	FrameRate   int        `json:"frameRate"`
}

// RecentProject is an entry of the recent-projects list shown on the welcome screen.
type RecentProject struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	LastModified time.Time `json:"lastModified"`
}

// Timestamp normalizes t the way project timestamps are stored: UTC, millisecond precision,
// no monotonic reading. Values produced here survive a JSON round trip unchanged.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// NewProjectID returns a time-ordered unique id for a new project.
func NewProjectID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// NewProject builds the VideoProject for a freshly created project directory.
func NewProject(data CreateProjectData, projectPath, id string, now time.Time) VideoProject {
	ts := Timestamp(now)
	return VideoProject{
		ID:           id,
		Name:         data.Name,
		Description:  data.Description,
		ProjectPath:  projectPath,
		CreatedAt:    ts,
		LastModified: ts,
		Settings: ProjectSettings{
			Resolution:    data.Resolution,
			FrameRate:     data.FrameRate,
			AudioSettings: DefaultAudio,
		},
	}
}

// Touch marks the project as modified at now. Call before every re-save.
func (p *VideoProject) Touch(now time.Time) { p.LastModified = Timestamp(now) }

var ErrInvalidProject = errors.New("invalid project")

// Validate checks the structural invariants of a project.
func (p VideoProject) Validate() error {
	var problems []string
	if strings.TrimSpace(p.ID) == "" {
		problems = append(problems, "id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(p.ProjectPath) == "" {
		problems = append(problems, "projectPath is required")
	}
	if p.Settings.Resolution.Width <= 0 || p.Settings.Resolution.Height <= 0 {
		problems = append(problems, fmt.Sprintf("resolution %s must be positive", p.Settings.Resolution))
	}
	if !IsAllowedFrameRate(p.Settings.FrameRate) {
		problems = append(problems, fmt.Sprintf("frameRate %d is not one of %v", p.Settings.FrameRate, FrameRates))
	}
	if p.Settings.Duration != nil && *p.Settings.Duration < 0 {
		problems = append(problems, "duration must not be negative")
	}
	if p.Settings.AudioSettings.SampleRate <= 0 || p.Settings.AudioSettings.Channels <= 0 {
		problems = append(problems, "audioSettings must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProject, strings.Join(problems, "; "))
	}
	return nil
}
