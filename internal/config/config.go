/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables (optionally seeded from a .env file) are read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Server        ServerConfig  `yaml:"server"`
	Project       ProjectConfig `yaml:"project"`
	Logging       LoggingConfig `yaml:"logging"`
}

type GeneralConfig struct {
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
	EnableServer   bool   `yaml:"enable_server"`
	TrackRecent    bool   `yaml:"track_recent"`
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
}

// ServerConfig configures the optional loopback bridge used by external renderers.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ProjectConfig holds the values the create-project form starts with.
type ProjectConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	FrameRate int `yaml:"frame_rate"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system"},
		Server:        ServerConfig{Addr: "127.0.0.1:7777", AllowedOrigins: []string{"http://localhost:5173"}},
		Project:       ProjectConfig{Width: 1920, Height: 1080, FrameRate: 30},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigDir      = "VED_CONFIG_DIR"
	EnvDotEnvFile     = "VED_ENV_FILE"
	EnvEnableServer   = "VED_ENABLE_SERVER"
	EnvServerAddr     = "VED_SERVER_ADDR"
	EnvAllowedOrigins = "VED_ALLOWED_ORIGINS"
	EnvTrackRecent    = "VED_TRACK_RECENT"
	EnvTelemetryOptIn = "VED_TELEMETRY_OPT_IN"
	EnvLogLevel       = "VED_LOG_LEVEL"
	EnvLogFormat      = "VED_LOG_FORMAT"
	EnvLogSource      = "VED_LOG_SOURCE"
	EnvLogFile        = "VED_LOG_FILE"
)

const configFileName = "config.yaml"

// Dir returns the per-user configuration directory. VED_CONFIG_DIR wins when set.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvConfigDir)); v != "" {
		return v, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "VideoEditor")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "VideoEditor")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "videoeditor")
		} else if home := os.Getenv("HOME"); home != "" {
			base = filepath.Join(home, ".config", "videoeditor")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the user config file (if present), applies defaults and merges
// environment overrides. A .env file (VED_ENV_FILE or ./.env) seeds variables
// that are not already set in the process environment.
func Load() (AppConfig, error) {
	cfg := Defaults()
	loadDotEnv()
	path, err := ConfigPath()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	if data, rerr := os.ReadFile(path); rerr == nil {
		var fileCfg AppConfig
		if uerr := yaml.Unmarshal(data, &fileCfg); uerr == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func loadDotEnv() {
	f := strings.TrimSpace(os.Getenv(EnvDotEnvFile))
	if f == "" {
		f = ".env"
	}
	if _, err := os.Stat(f); err != nil {
		return
	}
	// godotenv.Load never overrides variables already present.
	_ = godotenv.Load(f)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if s := strings.TrimSpace(src.General.Theme); s != "" {
		dst.General.Theme = s
	}
	// booleans: copy directly from the file so user preferences persist
	dst.General.EnableServer = src.General.EnableServer
	dst.General.TrackRecent = src.General.TrackRecent
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn

	if s := strings.TrimSpace(src.Server.Addr); s != "" {
		dst.Server.Addr = s
	}
	if len(src.Server.AllowedOrigins) > 0 {
		dst.Server.AllowedOrigins = append([]string(nil), src.Server.AllowedOrigins...)
	}

	if src.Project.Width > 0 && src.Project.Height > 0 {
		dst.Project.Width, dst.Project.Height = src.Project.Width, src.Project.Height
	}
	if src.Project.FrameRate > 0 {
		dst.Project.FrameRate = src.Project.FrameRate
	}

	if s := strings.TrimSpace(src.Logging.Level); s != "" {
		dst.Logging.Level = strings.ToLower(s)
	}
	if s := strings.TrimSpace(src.Logging.Format); s != "" {
		dst.Logging.Format = strings.ToLower(s)
	}
	dst.Logging.Source = src.Logging.Source
	if s := strings.TrimSpace(src.Logging.File); s != "" {
		dst.Logging.File = s
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvEnableServer)); v != "" {
		cfg.General.EnableServer = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTrackRecent)); v != "" {
		cfg.General.TrackRecent = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAllowedOrigins)); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "general.enable_server":
		env = EnvEnableServer
	case "general.track_recent":
		env = EnvTrackRecent
	case "general.telemetry_opt_in":
		env = EnvTelemetryOptIn
	case "server.addr":
		env = EnvServerAddr
	case "server.allowed_origins":
		env = EnvAllowedOrigins
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
