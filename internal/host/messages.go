/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package host

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"videoeditor/internal/domain"
	"videoeditor/internal/storage"
)

// Operation names carried in Request.Op.
const (
	OpSelectProjectFolder = "select-project-folder"
	OpCreateProjectFolder = "create-project-folder"
	OpSaveProject         = "save-project"
	OpOpenProject         = "open-project"
	OpLoadProject         = "load-project"
	OpRecentProjects      = "recent-projects"
	OpAppInfo             = "app-info"
)

// Error codes carried in ResponseError.Code.
const (
	CodeInvalidPayload    = "invalid_payload"
	CodeUnknownOperation  = "unknown_operation"
	CodeIO                = "io"
	CodeDialogUnavailable = "dialog_unavailable"
)

// Request is one call across the trust boundary.
type Request struct {
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response answers a Request. Result is set when OK is true, Error otherwise.
type Response struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ResponseError  `json:"error,omitempty"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Payloads and results of the envelope operations.
type (
	CreateProjectFolderPayload struct {
		BasePath    string `json:"basePath"`
		ProjectName string `json:"projectName"`
	}
	LoadProjectPayload struct {
		ProjectPath string `json:"projectPath"`
	}
	SelectProjectFolderResult struct {
		Path string `json:"path"`
	}
	CreateProjectFolderResult struct {
		ProjectPath string `json:"projectPath"`
	}
	OpenProjectResult struct {
		Project *domain.VideoProject `json:"project"`
	}
)

const emptyPayloadSchema = `{
  "type": "object",
  "additionalProperties": false
}`

const createProjectFolderSchema = `{
  "type": "object",
  "required": ["basePath", "projectName"],
  "additionalProperties": false,
  "properties": {
    "basePath": {"type": "string", "minLength": 1},
    "projectName": {"type": "string", "pattern": "\\S"}
  }
}`

const loadProjectSchema = `{
  "type": "object",
  "required": ["projectPath"],
  "additionalProperties": false,
  "properties": {
    "projectPath": {"type": "string", "minLength": 1}
  }
}`

var payloadSchemaSources = map[string]string{
	OpSelectProjectFolder: emptyPayloadSchema,
	OpCreateProjectFolder: createProjectFolderSchema,
	OpOpenProject:         emptyPayloadSchema,
	OpLoadProject:         loadProjectSchema,
	OpRecentProjects:      emptyPayloadSchema,
	OpAppInfo:             emptyPayloadSchema,
	// save-project carries the project itself and reuses the project.json schema.
	OpSaveProject: "",
}

var (
	payloadSchemasOnce sync.Once
	payloadSchemas     map[string]*gojsonschema.Schema
	payloadSchemasErr  error
)

func compilePayloadSchemas() (map[string]*gojsonschema.Schema, error) {
	payloadSchemasOnce.Do(func() {
		out := make(map[string]*gojsonschema.Schema, len(payloadSchemaSources))
		for op, src := range payloadSchemaSources {
			if src == "" {
				s, err := storage.ProjectSchema()
				if err != nil {
					payloadSchemasErr = err
					return
				}
				out[op] = s
				continue
			}
			s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
			if err != nil {
				payloadSchemasErr = fmt.Errorf("compile %s schema: %w", op, err)
				return
			}
			out[op] = s
		}
		payloadSchemas = out
	})
	return payloadSchemas, payloadSchemasErr
}

// KnownOperation reports whether op is exposed by the host.
func KnownOperation(op string) bool {
	_, ok := payloadSchemaSources[op]
	return ok
}

// ValidatePayload checks payload against the schema of op. An absent payload
// is treated as an empty object.
func ValidatePayload(op string, payload json.RawMessage) error {
	schemas, err := compilePayloadSchemas()
	if err != nil {
		return err
	}
	s, ok := schemas[op]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	return storage.ValidateWith(s, normalizePayload(payload), ErrInvalidPayload)
}

func normalizePayload(p json.RawMessage) []byte {
	if len(p) == 0 || string(p) == "null" {
		return []byte("{}")
	}
	return p
}
