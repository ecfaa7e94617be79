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
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"videoeditor/internal/domain"
)

const (
	ProjectFileName = "project.json"
	CacheDirName    = "cache"
)

// Standard subfolders created inside every project directory.
var standardSubDirs = []string{
	"assets",
	"exports",
	CacheDirName,
}

// StandardSubDirs returns the names of the subfolders scaffolded for a project.
func StandardSubDirs() []string { return append([]string(nil), standardSubDirs...) }

var ErrInvalidProjectName = errors.New("invalid project name")

// ProjectFilePath returns <projectPath>/project.json.
func ProjectFilePath(projectPath string) string {
	return filepath.Join(projectPath, ProjectFileName)
}

// CreateProjectFolder creates basePath/projectName and its standard subfolders.
// Existing directories are left as they are. Directories created before a failure
// are not removed. It returns the absolute project path.
func CreateProjectFolder(basePath, projectName string) (string, error) {
	if strings.TrimSpace(basePath) == "" {
		return "", errors.New("base path is required")
	}
	name := strings.TrimSpace(projectName)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProjectName, projectName)
	}
	root, err := filepath.Abs(filepath.Join(basePath, name))
	if err != nil {
		return "", fmt.Errorf("resolve project path: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create project root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return "", fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	return root, nil
}

// SaveProject writes p to <p.ProjectPath>/project.json, replacing any existing file.
// The project directory must already exist.
func SaveProject(p domain.VideoProject) error {
	if strings.TrimSpace(p.ProjectPath) == "" {
		return errors.New("project path is required")
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	data = append(data, '\n')
	return writeFileAtomic(ProjectFilePath(p.ProjectPath), data)
}

// LoadProject reads <projectPath>/project.json.
func LoadProject(projectPath string) (domain.VideoProject, error) {
	if strings.TrimSpace(projectPath) == "" {
		return domain.VideoProject{}, errors.New("project path is required")
	}
	return ReadProjectFile(ProjectFilePath(projectPath))
}

// ReadProjectFile reads and validates a project descriptor at an arbitrary path.
func ReadProjectFile(path string) (domain.VideoProject, error) {
	var p domain.VideoProject
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := ValidateProjectJSON(b); err != nil {
		return p, err
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// AutosaveCrashSnapshot writes the in-memory project to the project's cache folder
// without touching project.json. It returns the snapshot path.
func AutosaveCrashSnapshot(p domain.VideoProject) (string, error) {
	if strings.TrimSpace(p.ProjectPath) == "" {
		return "", errors.New("project path is required")
	}
	dir := filepath.Join(p.ProjectPath, CacheDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure cache dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal project: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("project.crash-%s.json", stamp))
	if err := writeFileAtomic(path, append(data, '\n')); err != nil {
		return "", err
	}
	return path, nil
}

// writeFileAtomic writes to a temp file in the target directory, syncs it and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(temp, path); err != nil {
		// Windows refuses to rename over an existing file.
		if _, statErr := os.Stat(path); statErr == nil {
			_ = os.Remove(path)
			err = os.Rename(temp, path)
		}
		if err != nil {
			_ = os.Remove(temp)
			return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}
