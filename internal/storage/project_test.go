/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"videoeditor/internal/domain"
)

func newTestProject(t *testing.T, dir string) domain.VideoProject {
	t.Helper()
	data := domain.CreateProjectData{
		Name:        "Holiday Cut",
		Description: "first pass",
		ProjectPath: filepath.Dir(dir),
		Resolution:  domain.Resolution{Width: 1920, Height: 1080},
		FrameRate:   30,
	}
	return domain.NewProject(data, dir, domain.NewProjectID(), time.Now())
}

func TestCreateProjectFolderScaffoldsSubdirs(t *testing.T) {
	base := t.TempDir()
	root, err := CreateProjectFolder(base, "My Film")
	if err != nil {
		t.Fatalf("CreateProjectFolder error: %v", err)
	}
	if root != filepath.Join(base, "My Film") {
		t.Fatalf("unexpected root %q", root)
	}
	for _, d := range StandardSubDirs() {
		p := filepath.Join(root, d)
		if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
			t.Fatalf("expected directory %s to exist", p)
		}
	}
	// A second call on an existing folder is fine.
	if _, err := CreateProjectFolder(base, "My Film"); err != nil {
		t.Fatalf("second CreateProjectFolder error: %v", err)
	}
}

func TestCreateProjectFolderRejectsBadNames(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"", "   ", "..", "a/b", `a\b`} {
		if _, err := CreateProjectFolder(base, name); !errors.Is(err, ErrInvalidProjectName) {
			t.Fatalf("name %q: expected ErrInvalidProjectName, got %v", name, err)
		}
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	root, err := CreateProjectFolder(t.TempDir(), "Round Trip")
	if err != nil {
		t.Fatal(err)
	}
	p := newTestProject(t, root)
	d := 12.5
	p.Settings.Duration = &d
	if err := SaveProject(p); err != nil {
		t.Fatalf("SaveProject error: %v", err)
	}
	got, err := LoadProject(root)
	if err != nil {
		t.Fatalf("LoadProject error: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}
}

func TestSaveOverwritesAndLeavesNoTempFiles(t *testing.T) {
	root, err := CreateProjectFolder(t.TempDir(), "Overwrite")
	if err != nil {
		t.Fatal(err)
	}
	p := newTestProject(t, root)
	if err := SaveProject(p); err != nil {
		t.Fatal(err)
	}
	p.Name = "Renamed"
	p.Touch(time.Now().Add(time.Second))
	if err := SaveProject(p); err != nil {
		t.Fatal(err)
	}
	got, err := LoadProject(root)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Renamed" || !got.LastModified.Equal(p.LastModified) {
		t.Fatalf("second save not visible: %+v", got)
	}
	ents, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range ents {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestSaveToMissingDirectoryFails(t *testing.T) {
	p := newTestProject(t, filepath.Join(t.TempDir(), "does-not-exist"))
	if err := SaveProject(p); err == nil {
		t.Fatalf("expected error saving into a missing directory")
	}
}

func TestLoadMissingProjectFails(t *testing.T) {
	_, err := LoadProject(t.TempDir())
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadMalformedJSONFails(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(ProjectFilePath(root), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProject(root); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadSchemaViolationFails(t *testing.T) {
	root := t.TempDir()
	doc := `{"id":"x","name":"ok","projectPath":"/p","createdAt":"2025-01-01T00:00:00Z","lastModified":"2025-01-01T00:00:00Z",
		"settings":{"resolution":{"width":1920,"height":1080},"frameRate":25,"audioSettings":{"sampleRate":48000,"channels":2}}}`
	if err := os.WriteFile(ProjectFilePath(root), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadProject(root)
	if !errors.Is(err, ErrInvalidManifest) {
		t.Fatalf("expected ErrInvalidManifest, got %v", err)
	}
}

func TestAutosaveCrashSnapshotLeavesProjectFile(t *testing.T) {
	root, err := CreateProjectFolder(t.TempDir(), "Crashy")
	if err != nil {
		t.Fatal(err)
	}
	p := newTestProject(t, root)
	if err := SaveProject(p); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(ProjectFilePath(root))

	p.Name = "Unsaved edit"
	snap, err := AutosaveCrashSnapshot(p)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot error: %v", err)
	}
	if filepath.Dir(snap) != filepath.Join(root, CacheDirName) {
		t.Fatalf("snapshot not under cache: %s", snap)
	}
	got, err := ReadProjectFile(snap)
	if err != nil {
		t.Fatalf("snapshot unreadable: %v", err)
	}
	if got.Name != "Unsaved edit" {
		t.Fatalf("snapshot content mismatch: %q", got.Name)
	}
	after, _ := os.ReadFile(ProjectFilePath(root))
	if string(before) != string(after) {
		t.Fatalf("project.json changed by crash snapshot")
	}
}
