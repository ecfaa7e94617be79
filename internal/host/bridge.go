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
	"log/slog"

	"videoeditor/internal/domain"
	applog "videoeditor/internal/log"
)

// Transport carries envelopes to a host. Bridge is the in-process transport.
type Transport interface {
	Dispatch(ctx context.Context, req Request) Response
}

// Bridge is the receiving side of the trust boundary. It validates every payload
// against the schema of its operation before delegating to the Service.
type Bridge struct {
	svc *Service
	log *slog.Logger
}

func NewBridge(svc *Service) *Bridge {
	return &Bridge{svc: svc, log: applog.WithComponent("bridge")}
}

var _ Transport = (*Bridge)(nil)

func (b *Bridge) Dispatch(ctx context.Context, req Request) Response {
	if !KnownOperation(req.Op) {
		b.log.Warn("unknown operation", slog.String("op", req.Op))
		return failure(CodeUnknownOperation, "unknown operation: "+req.Op)
	}
	if err := ValidatePayload(req.Op, req.Payload); err != nil {
		b.log.Warn("payload rejected", slog.String("op", req.Op), slog.Any("err", err))
		return failure(CodeInvalidPayload, err.Error())
	}
	payload := normalizePayload(req.Payload)

	var (
		result any
		err    error
	)
	switch req.Op {
	case OpSelectProjectFolder:
		var path string
		path, err = b.svc.SelectProjectFolder(ctx)
		result = SelectProjectFolderResult{Path: path}
	case OpCreateProjectFolder:
		var in CreateProjectFolderPayload
		if err = json.Unmarshal(payload, &in); err != nil {
			return failure(CodeInvalidPayload, err.Error())
		}
		var root string
		root, err = b.svc.CreateProjectFolder(ctx, in.BasePath, in.ProjectName)
		result = CreateProjectFolderResult{ProjectPath: root}
	case OpSaveProject:
		var p domain.VideoProject
		if err = json.Unmarshal(payload, &p); err != nil {
			return failure(CodeInvalidPayload, err.Error())
		}
		err = b.svc.SaveProject(ctx, p)
	case OpOpenProject:
		var p *domain.VideoProject
		p, err = b.svc.OpenProject(ctx)
		result = OpenProjectResult{Project: p}
	case OpLoadProject:
		var in LoadProjectPayload
		if err = json.Unmarshal(payload, &in); err != nil {
			return failure(CodeInvalidPayload, err.Error())
		}
		result, err = b.svc.LoadProject(ctx, in.ProjectPath)
	case OpRecentProjects:
		result, err = b.svc.RecentProjects(ctx)
	case OpAppInfo:
		result, err = b.svc.AppInfo(ctx)
	}
	if err != nil {
		code := CodeIO
		if errors.Is(err, ErrDialogUnavailable) {
			code = CodeDialogUnavailable
		}
		return failure(code, err.Error())
	}
	if result == nil {
		return Response{OK: true}
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return failure(CodeIO, err.Error())
	}
	return Response{OK: true, Result: raw}
}

func failure(code, msg string) Response {
	return Response{Error: &ResponseError{Code: code, Message: msg}}
}
