/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"videoeditor/internal/domain"
	applog "videoeditor/internal/log"
	"videoeditor/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	RecentFileName = "recent.sqlite"

	// recentSchemaVersion tracks the catalog schema. Bump it together with a migration.
	recentSchemaVersion = 1

	DefaultRecentLimit = 10
)

// RecentStore is the per-user catalog of recently opened projects.
type RecentStore struct {
	db   *sql.DB
	path string
}

// OpenRecentStore opens (or creates) <dir>/recent.sqlite.
func OpenRecentStore(dir string) (*RecentStore, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "recent_open").With(slog.String("dir", dir))
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("recent store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.Error("create dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create recent store dir: %w", err)
	}
	path := filepath.Join(dir, RecentFileName)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureRecentSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("recent store ready", slog.String("path", path))
	return &RecentStore{db: db, path: path}, nil
}

func ensureRecentSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS recent_projects (
			path           TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			last_modified  TEXT NOT NULL,
			opened_at      TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_recent_opened ON recent_projects(opened_at DESC);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`,
			recentSchemaVersion, version.String(), now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("query version: %w", err)
	case cur > recentSchemaVersion:
		return fmt.Errorf("recent store schema %d is newer than supported %d", cur, recentSchemaVersion)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// Path returns the database file location.
func (s *RecentStore) Path() string { return s.path }

// Touch records p as the most recently opened project.
func (s *RecentStore) Touch(ctx context.Context, p domain.VideoProject) error {
	if strings.TrimSpace(p.ProjectPath) == "" {
		return errors.New("project path is required")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO recent_projects(path, name, last_modified, opened_at)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET name=excluded.name, last_modified=excluded.last_modified, opened_at=excluded.opened_at`,
		p.ProjectPath, p.Name,
		domain.Timestamp(p.LastModified).Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert recent project: %w", err)
	}
	return nil
}

// List returns up to limit entries, most recently opened first. Entries whose
// project.json no longer exists are skipped. A non-positive limit uses DefaultRecentLimit.
func (s *RecentStore) List(ctx context.Context, limit int) ([]domain.RecentProject, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT path, name, last_modified FROM recent_projects ORDER BY opened_at DESC, path ASC`)
	if err != nil {
		return nil, fmt.Errorf("query recent projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RecentProject, 0, limit)
	for rows.Next() && len(out) < limit {
		var path, name, lm string
		if err := rows.Scan(&path, &name, &lm); err != nil {
			return nil, fmt.Errorf("scan recent project: %w", err)
		}
		if _, err := os.Stat(ProjectFilePath(path)); err != nil {
			continue
		}
		t, _ := time.Parse(time.RFC3339Nano, lm)
		out = append(out, domain.RecentProject{Name: name, Path: path, LastModified: t})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent projects: %w", err)
	}
	return out, nil
}

// Remove forgets path. Removing an unknown path is not an error.
func (s *RecentStore) Remove(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recent_projects WHERE path=?`, path); err != nil {
		return fmt.Errorf("delete recent project: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *RecentStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
