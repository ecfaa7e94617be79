/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package host

import (
	"errors"
	"fmt"
)

var (
	// ErrDialogUnavailable is returned by hosts that cannot show native dialogs.
	ErrDialogUnavailable = errors.New("native dialogs are not available")
	// ErrInvalidPayload marks a request whose payload failed schema validation.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrUnknownOperation marks a request for an operation the host does not expose.
	ErrUnknownOperation = errors.New("unknown operation")
)

// OpError is a failed host operation. Its message is the one surfaced to users.
type OpError struct {
	Action string // e.g. "save project"
	Err    error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Failed to %s", e.Action)
	}
	return fmt.Sprintf("Failed to %s: %v", e.Action, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opErr(action string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Action: action, Err: err}
}
