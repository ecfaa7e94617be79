/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package host

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videoeditor/internal/storage"
)

func TestBridgeRejectsMalformedPayloadWithoutTouchingDisk(t *testing.T) {
	base := t.TempDir()
	b := NewBridge(NewService(nil))
	cases := []string{
		`{"basePath":"` + filepath.ToSlash(base) + `"}`,
		`{"basePath":"` + filepath.ToSlash(base) + `","projectName":"   "}`,
		`{"basePath":"` + filepath.ToSlash(base) + `","projectName":"x","extra":true}`,
		`{"basePath":42,"projectName":"x"}`,
		`not json`,
	}
	for _, payload := range cases {
		resp := b.Dispatch(context.Background(), Request{Op: OpCreateProjectFolder, Payload: json.RawMessage(payload)})
		require.False(t, resp.OK, payload)
		require.NotNil(t, resp.Error)
		assert.Equal(t, CodeInvalidPayload, resp.Error.Code, payload)
	}
	ents, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, ents, "nothing may be created for rejected payloads")
}

func TestBridgeUnknownOperation(t *testing.T) {
	resp := NewBridge(NewService(nil)).Dispatch(context.Background(), Request{Op: "delete-everything"})
	require.False(t, resp.OK)
	assert.Equal(t, CodeUnknownOperation, resp.Error.Code)
}

func TestBridgeSaveRejectsInvalidProject(t *testing.T) {
	root := t.TempDir()
	p := sampleProject(root)
	p.Settings.FrameRate = 25
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	resp := NewBridge(NewService(nil)).Dispatch(context.Background(), Request{Op: OpSaveProject, Payload: raw})
	require.False(t, resp.OK)
	assert.Equal(t, CodeInvalidPayload, resp.Error.Code)
	assert.NoFileExists(t, storage.ProjectFilePath(root))
}

func TestBridgeDialogUnavailable(t *testing.T) {
	resp := NewBridge(NewService(nil)).Dispatch(context.Background(), Request{Op: OpSelectProjectFolder})
	require.False(t, resp.OK)
	assert.Equal(t, CodeDialogUnavailable, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Failed to select folder")
}

func TestBridgeClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewBridgeClient(NewBridge(NewService(&fakeDialogs{})))

	root, err := c.CreateProjectFolder(ctx, t.TempDir(), "Across")
	require.NoError(t, err)
	p := sampleProject(root)
	require.NoError(t, c.SaveProject(ctx, p))

	got, err := c.LoadProject(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	opened, err := c.OpenProject(ctx)
	require.NoError(t, err)
	assert.Nil(t, opened, "cancelled dialog")

	dir, err := c.SelectProjectFolder(ctx)
	require.NoError(t, err)
	assert.Empty(t, dir)

	list, err := c.RecentProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	info, err := c.AppInfo(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, info.Version)
}

func TestBridgeClientErrors(t *testing.T) {
	ctx := context.Background()
	c := NewBridgeClient(NewBridge(NewService(nil)))

	_, err := c.SelectProjectFolder(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDialogUnavailable)
	assert.True(t, IsRemoteCode(err, CodeDialogUnavailable))

	_, err = c.CreateProjectFolder(ctx, t.TempDir(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = c.LoadProject(ctx, t.TempDir())
	require.Error(t, err)
	assert.True(t, IsRemoteCode(err, CodeIO))
	assert.Contains(t, err.Error(), "Failed to load project: ")
}
