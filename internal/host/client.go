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
	"errors"
	"fmt"

	"videoeditor/internal/domain"
)

// RemoteError is a failure reported by the host side of the envelope.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// Is maps error codes back to the package sentinels.
func (e *RemoteError) Is(target error) bool {
	switch e.Code {
	case CodeInvalidPayload:
		return target == ErrInvalidPayload
	case CodeUnknownOperation:
		return target == ErrUnknownOperation
	case CodeDialogUnavailable:
		return target == ErrDialogUnavailable
	}
	return false
}

// BridgeClient implements Client by sending envelopes over a Transport.
type BridgeClient struct {
	t Transport
}

func NewBridgeClient(t Transport) *BridgeClient { return &BridgeClient{t: t} }

var _ Client = (*BridgeClient)(nil)

func (c *BridgeClient) call(ctx context.Context, op string, payload, out any) error {
	req := Request{Op: op}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", op, err)
		}
		req.Payload = b
	}
	resp := c.t.Dispatch(ctx, req)
	if !resp.OK {
		if resp.Error == nil {
			return &RemoteError{Code: CodeIO, Message: "host returned no result for " + op}
		}
		return &RemoteError{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", op, err)
	}
	return nil
}

func (c *BridgeClient) SelectProjectFolder(ctx context.Context) (string, error) {
	var r SelectProjectFolderResult
	if err := c.call(ctx, OpSelectProjectFolder, nil, &r); err != nil {
		return "", err
	}
	return r.Path, nil
}

func (c *BridgeClient) CreateProjectFolder(ctx context.Context, basePath, projectName string) (string, error) {
	var r CreateProjectFolderResult
	in := CreateProjectFolderPayload{BasePath: basePath, ProjectName: projectName}
	if err := c.call(ctx, OpCreateProjectFolder, in, &r); err != nil {
		return "", err
	}
	return r.ProjectPath, nil
}

func (c *BridgeClient) SaveProject(ctx context.Context, p domain.VideoProject) error {
	return c.call(ctx, OpSaveProject, p, nil)
}

func (c *BridgeClient) OpenProject(ctx context.Context) (*domain.VideoProject, error) {
	var r OpenProjectResult
	if err := c.call(ctx, OpOpenProject, nil, &r); err != nil {
		return nil, err
	}
	return r.Project, nil
}

func (c *BridgeClient) LoadProject(ctx context.Context, projectPath string) (domain.VideoProject, error) {
	var p domain.VideoProject
	err := c.call(ctx, OpLoadProject, LoadProjectPayload{ProjectPath: projectPath}, &p)
	return p, err
}

func (c *BridgeClient) RecentProjects(ctx context.Context) ([]domain.RecentProject, error) {
	list := []domain.RecentProject{}
	if err := c.call(ctx, OpRecentProjects, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *BridgeClient) AppInfo(ctx context.Context) (AppInfo, error) {
	var info AppInfo
	err := c.call(ctx, OpAppInfo, nil, &info)
	return info, err
}

// IsRemoteCode reports whether err is a RemoteError with the given code.
func IsRemoteCode(err error, code string) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Code == code
}
