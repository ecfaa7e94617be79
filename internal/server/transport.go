/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"videoeditor/internal/host"
)

// HTTPTransport sends envelopes to a running bridge server. Wrap it with
// host.NewBridgeClient to get a host.Client.
type HTTPTransport struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPTransport sets no client timeout; calls are bounded by the caller's context.
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{BaseURL: strings.TrimRight(baseURL, "/"), Client: &http.Client{}}
}

var _ host.Transport = (*HTTPTransport)(nil)

func (t *HTTPTransport) Dispatch(ctx context.Context, req host.Request) host.Response {
	body := []byte(req.Payload)
	if len(body) == 0 {
		body = []byte("{}")
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/api/ops/"+req.Op, bytes.NewReader(body))
	if err != nil {
		return transportFailure(err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	resp, err := t.Client.Do(hreq)
	if err != nil {
		return transportFailure(err)
	}
	defer resp.Body.Close()
	var out host.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return transportFailure(fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err))
	}
	return out
}

func transportFailure(err error) host.Response {
	return host.Response{Error: &host.ResponseError{Code: host.CodeIO, Message: err.Error()}}
}
