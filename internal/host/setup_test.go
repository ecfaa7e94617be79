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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videoeditor/internal/config"
	"videoeditor/internal/storage"
)

func TestSetupRecentTrackingFollowsConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigDir, dir)
	ctx := context.Background()

	cfg := config.Defaults()
	rt, err := Setup(nil, cfg)
	require.NoError(t, err)
	list, err := rt.Service.RecentProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, rt.Close())
	assert.NoFileExists(t, filepath.Join(dir, storage.RecentFileName))

	cfg.General.TrackRecent = true
	rt, err = Setup(nil, cfg)
	require.NoError(t, err)
	defer func() { _ = rt.Close() }()

	root, err := rt.Service.CreateProjectFolder(ctx, t.TempDir(), "Tracked")
	require.NoError(t, err)
	require.NoError(t, rt.Service.SaveProject(ctx, sampleProject(root)))
	list, err = rt.Service.RecentProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, root, list[0].Path)
}

func TestHeadlessServiceHasNoDialogs(t *testing.T) {
	t.Setenv(config.EnvConfigDir, t.TempDir())
	rt, err := Setup(&fakeDialogs{dir: t.TempDir()}, config.Defaults())
	require.NoError(t, err)
	defer func() { _ = rt.Close() }()

	_, err = rt.Headless().SelectProjectFolder(context.Background())
	assert.ErrorIs(t, err, ErrDialogUnavailable)
}
