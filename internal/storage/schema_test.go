/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"videoeditor/internal/domain"
)

func TestProjectSchemaCompiles(t *testing.T) {
	if _, err := ProjectSchema(); err != nil {
		t.Fatalf("schema compile: %v", err)
	}
}

func TestSchemaAcceptsNewProject(t *testing.T) {
	p := domain.NewProject(domain.CreateProjectData{
		Name:       "Valid",
		Resolution: domain.Resolution{Width: 1280, Height: 720},
		FrameRate:  24,
	}, "/tmp/valid", domain.NewProjectID(), time.Now())
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateProjectJSON(b); err != nil {
		t.Fatalf("expected valid project, got %v", err)
	}
}

func TestSchemaRejections(t *testing.T) {
	cases := map[string]string{
		"missing id":   `{"name":"a","projectPath":"/p","createdAt":"2025-01-01T00:00:00Z","lastModified":"2025-01-01T00:00:00Z","settings":{"resolution":{"width":1,"height":1},"frameRate":30,"audioSettings":{"sampleRate":48000,"channels":2}}}`,
		"blank name":   `{"id":"i","name":"  ","projectPath":"/p","createdAt":"2025-01-01T00:00:00Z","lastModified":"2025-01-01T00:00:00Z","settings":{"resolution":{"width":1,"height":1},"frameRate":30,"audioSettings":{"sampleRate":48000,"channels":2}}}`,
		"zero width":   `{"id":"i","name":"a","projectPath":"/p","createdAt":"2025-01-01T00:00:00Z","lastModified":"2025-01-01T00:00:00Z","settings":{"resolution":{"width":0,"height":1},"frameRate":30,"audioSettings":{"sampleRate":48000,"channels":2}}}`,
		"bad duration": `{"id":"i","name":"a","projectPath":"/p","createdAt":"2025-01-01T00:00:00Z","lastModified":"2025-01-01T00:00:00Z","settings":{"resolution":{"width":1,"height":1},"frameRate":30,"duration":-1,"audioSettings":{"sampleRate":48000,"channels":2}}}`,
	}
	for name, doc := range cases {
		if err := ValidateProjectJSON([]byte(doc)); !errors.Is(err, ErrInvalidManifest) {
			t.Errorf("%s: expected ErrInvalidManifest, got %v", name, err)
		}
	}
}
