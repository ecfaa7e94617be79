/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "testing"

func TestPresetsAndFrameRates(t *testing.T) {
	if len(PresetResolutions) != 4 || DefaultResolution() != (Resolution{Width: 1920, Height: 1080}) {
		t.Fatalf("unexpected presets: %+v", PresetResolutions)
	}
	for _, fps := range []int{24, 30, 60} {
		if !IsAllowedFrameRate(fps) {
			t.Fatalf("%d fps should be allowed", fps)
		}
	}
	if IsAllowedFrameRate(25) || IsAllowedFrameRate(0) {
		t.Fatalf("25/0 fps must not be allowed")
	}
	if !IsAllowedFrameRate(DefaultFrameRate) {
		t.Fatalf("default frame rate must be allowed")
	}
}

func TestParseResolution(t *testing.T) {
	r, err := ParseResolution(" 1080X1920 ")
	if err != nil || r != (Resolution{Width: 1080, Height: 1920}) {
		t.Fatalf("ParseResolution = %v, %v", r, err)
	}
	if r.String() != "1080x1920" {
		t.Fatalf("String() = %q", r.String())
	}
	for _, bad := range []string{"", "1920", "x1080", "0x10", "axb", "-1x5"} {
		if _, err := ParseResolution(bad); err == nil {
			t.Errorf("ParseResolution(%q) expected error", bad)
		}
	}
}

func TestPresetLabel(t *testing.T) {
	if got := PresetLabel(Resolution{Width: 3840, Height: 2160}); got != "3840x2160 (4K)" {
		t.Fatalf("PresetLabel(4K) = %q", got)
	}
	if got := PresetLabel(Resolution{Width: 640, Height: 480}); got != "640x480" {
		t.Fatalf("PresetLabel(custom) = %q", got)
	}
}
