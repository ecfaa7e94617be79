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
	"os"
	"testing"
	"time"
)

func TestRecentStoreTouchListRemove(t *testing.T) {
	ctx := context.Background()
	s, err := OpenRecentStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenRecentStore error: %v", err)
	}
	defer s.Close()

	base := t.TempDir()
	var roots []string
	for _, name := range []string{"One", "Two"} {
		root, err := CreateProjectFolder(base, name)
		if err != nil {
			t.Fatal(err)
		}
		p := newTestProject(t, root)
		p.Name = name
		if err := SaveProject(p); err != nil {
			t.Fatal(err)
		}
		if err := s.Touch(ctx, p); err != nil {
			t.Fatalf("Touch error: %v", err)
		}
		roots = append(roots, root)
		time.Sleep(2 * time.Millisecond)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Two" || list[1].Name != "One" {
		t.Fatalf("unexpected order: %+v", list)
	}

	// Projects whose folder vanished are skipped.
	if err := os.RemoveAll(roots[1]); err != nil {
		t.Fatal(err)
	}
	list, err = s.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Path != roots[0] {
		t.Fatalf("expected only the surviving project, got %+v", list)
	}

	if err := s.Remove(ctx, roots[0]); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	list, _ = s.List(ctx, 10)
	if len(list) != 0 {
		t.Fatalf("expected empty list after remove, got %+v", list)
	}
}

func TestRecentStoreReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := OpenRecentStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	root, err := CreateProjectFolder(t.TempDir(), "Persisted")
	if err != nil {
		t.Fatal(err)
	}
	p := newTestProject(t, root)
	if err := SaveProject(p); err != nil {
		t.Fatal(err)
	}
	if err := s.Touch(ctx, p); err != nil {
		t.Fatal(err)
	}
	// Touching again updates rather than duplicates.
	if err := s.Touch(ctx, p); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s2, err := OpenRecentStore(dir)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s2.Close()
	list, err := s2.List(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || !list[0].LastModified.Equal(p.LastModified) {
		t.Fatalf("unexpected entries after reopen: %+v", list)
	}
}
