/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/project.schema.json
var projectSchemaJSON []byte

var ErrInvalidManifest = errors.New("project file does not match the project schema")

var (
	projectSchemaOnce sync.Once
	projectSchema     *gojsonschema.Schema
	projectSchemaErr  error
)

// ProjectSchema returns the compiled project.json schema.
func ProjectSchema() (*gojsonschema.Schema, error) {
	projectSchemaOnce.Do(func() {
		projectSchema, projectSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(projectSchemaJSON))
	})
	return projectSchema, projectSchemaErr
}

// ProjectSchemaJSON returns a copy of the raw schema document.
func ProjectSchemaJSON() []byte { return append([]byte(nil), projectSchemaJSON...) }

// ValidateProjectJSON checks that b is JSON describing a valid project.
// Malformed JSON yields a parse error; a schema mismatch wraps ErrInvalidManifest.
func ValidateProjectJSON(b []byte) error {
	schema, err := ProjectSchema()
	if err != nil {
		return fmt.Errorf("compile project schema: %w", err)
	}
	return ValidateWith(schema, b, ErrInvalidManifest)
}

// ValidateWith validates b against schema, wrapping violations in sentinel.
func ValidateWith(schema *gojsonschema.Schema, b []byte, sentinel error) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(msgs, "; "))
}
