/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolutionPreset is a named resolution offered by the create-project form.
type ResolutionPreset struct {
	Label      string
	Resolution Resolution
}

// PresetResolutions are a UI convenience; projects may carry any positive resolution.
var PresetResolutions = []ResolutionPreset{
	{Label: "1920x1080 (Full HD)", Resolution: Resolution{Width: 1920, Height: 1080}},
	{Label: "1280x720 (HD)", Resolution: Resolution{Width: 1280, Height: 720}},
	{Label: "3840x2160 (4K)", Resolution: Resolution{Width: 3840, Height: 2160}},
	{Label: "1080x1920 (Vertical)", Resolution: Resolution{Width: 1080, Height: 1920}},
}

// FrameRates is the allowed set of project frame rates.
var FrameRates = []int{24, 30, 60}

const DefaultFrameRate = 30

// DefaultAudio is assigned to every new project.
var DefaultAudio = AudioSettings{SampleRate: 48000, Channels: 2}

// DefaultResolution is the first preset.
func DefaultResolution() Resolution { return PresetResolutions[0].Resolution }

func IsAllowedFrameRate(fps int) bool {
	for _, r := range FrameRates {
		if r == fps {
			return true
		}
	}
	return false
}

// String renders the resolution as "WxH".
func (r Resolution) String() string { return fmt.Sprintf("%dx%d", r.Width, r.Height) }

// ParseResolution parses "WxH" (case-insensitive x) into a positive Resolution.
func ParseResolution(s string) (Resolution, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Resolution{}, fmt.Errorf("resolution %q: want WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil || width <= 0 {
		return Resolution{}, fmt.Errorf("resolution %q: invalid width", s)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || height <= 0 {
		return Resolution{}, fmt.Errorf("resolution %q: invalid height", s)
	}
	return Resolution{Width: width, Height: height}, nil
}

// PresetLabel returns the preset label for r, or its "WxH" form when r is custom.
func PresetLabel(r Resolution) string {
	for _, p := range PresetResolutions {
		if p.Resolution == r {
			return p.Label
		}
	}
	return r.String()
}
