/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are read-only overrides applied at load time.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Editor        EditorConfig  `yaml:"editor"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Storage       StorageConfig `yaml:"storage"`
	Logging       LoggingConfig `yaml:"logging"`
}

type EditorConfig struct {
	MaxRecords   int     `yaml:"max_records"`
	NudgeStep    float64 `yaml:"nudge_step"`
	MinSize      float64 `yaml:"min_size"`
	PasteOffset  float64 `yaml:"paste_offset"`
	DeleteLocked bool    `yaml:"delete_locked"`
}

type CanvasConfig struct {
	DefaultZoom   float64 `yaml:"default_zoom"`
	MinZoom       float64 `yaml:"min_zoom"`
	MaxZoom       float64 `yaml:"max_zoom"`
	SnapThreshold float64 `yaml:"snap_threshold"`
	Guides        bool    `yaml:"guides"`
}

type StorageConfig struct {
	AutosaveSnapshots bool `yaml:"autosave_snapshots"`
	KeepSnapshots     int  `yaml:"keep_snapshots"`
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
		Editor:        EditorConfig{MaxRecords: 50, NudgeStep: 1, MinSize: 1, PasteOffset: 10, DeleteLocked: true},
		Canvas:        CanvasConfig{DefaultZoom: 1, MinZoom: 0.1, MaxZoom: 4, SnapThreshold: 6, Guides: true},
		Storage:       StorageConfig{AutosaveSnapshots: true, KeepSnapshots: 20},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile        = "PCV_CONFIG"
	EnvMaxRecords        = "PCV_MAX_RECORDS"
	EnvNudgeStep         = "PCV_NUDGE_STEP"
	EnvMinSize           = "PCV_MIN_SIZE"
	EnvPasteOffset       = "PCV_PASTE_OFFSET"
	EnvDeleteLocked      = "PCV_DELETE_LOCKED"
	EnvDefaultZoom       = "PCV_DEFAULT_ZOOM"
	EnvSnapThreshold     = "PCV_SNAP_THRESHOLD"
	EnvGuides            = "PCV_GUIDES"
	EnvAutosaveSnapshots = "PCV_AUTOSAVE_SNAPSHOTS"
	EnvKeepSnapshots     = "PCV_KEEP_SNAPSHOTS"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "PCV_LOG_LEVEL"
	EnvLogFormat = "PCV_LOG_FORMAT"
	EnvLogSource = "PCV_LOG_SOURCE"
	EnvLogFile   = "PCV_LOG_FILE"
)

// envKeys maps dotted config keys to their override variable.
var envKeys = map[string]string{
	"editor.max_records":         EnvMaxRecords,
	"editor.nudge_step":          EnvNudgeStep,
	"editor.min_size":            EnvMinSize,
	"editor.paste_offset":        EnvPasteOffset,
	"editor.delete_locked":       EnvDeleteLocked,
	"canvas.default_zoom":        EnvDefaultZoom,
	"canvas.snap_threshold":      EnvSnapThreshold,
	"canvas.guides":              EnvGuides,
	"storage.autosave_snapshots": EnvAutosaveSnapshots,
	"storage.keep_snapshots":     EnvKeepSnapshots,
	"logging.level":              EnvLogLevel,
	"logging.format":             EnvLogFormat,
	"logging.source":             EnvLogSource,
	"logging.file":               EnvLogFile,
}

// ConfigPath returns the per-user config file path. PCV_CONFIG wins when set.
func ConfigPath() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvConfigFile)); v != "" {
		return v, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "PageCanvas")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "PageCanvas")
	default: // linux and others
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "pagecanvas")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "pagecanvas")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file path. A missing file yields defaults;
// a malformed one is an error.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		// decode onto defaults so absent keys keep their default values
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	return cfg, cfg.Validate()
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg to path, creating parent directories.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate reports every out-of-range value.
func (c AppConfig) Validate() error {
	var errs []error
	if c.Editor.MaxRecords <= 0 {
		errs = append(errs, fmt.Errorf("editor.max_records must be positive, got %d", c.Editor.MaxRecords))
	}
	if c.Editor.NudgeStep <= 0 {
		errs = append(errs, fmt.Errorf("editor.nudge_step must be positive, got %g", c.Editor.NudgeStep))
	}
	if c.Editor.MinSize < 0 {
		errs = append(errs, fmt.Errorf("editor.min_size must not be negative, got %g", c.Editor.MinSize))
	}
	if c.Canvas.MinZoom <= 0 || c.Canvas.MaxZoom < c.Canvas.MinZoom {
		errs = append(errs, fmt.Errorf("canvas zoom range [%g, %g] is invalid", c.Canvas.MinZoom, c.Canvas.MaxZoom))
	} else if c.Canvas.DefaultZoom < c.Canvas.MinZoom || c.Canvas.DefaultZoom > c.Canvas.MaxZoom {
		errs = append(errs, fmt.Errorf("canvas.default_zoom %g outside [%g, %g]", c.Canvas.DefaultZoom, c.Canvas.MinZoom, c.Canvas.MaxZoom))
	}
	if c.Storage.KeepSnapshots < 0 {
		errs = append(errs, fmt.Errorf("storage.keep_snapshots must not be negative, got %d", c.Storage.KeepSnapshots))
	}
	return errors.Join(errs...)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Editor.MaxRecords != 0 {
		dst.Editor.MaxRecords = src.Editor.MaxRecords
	}
	if src.Editor.NudgeStep != 0 {
		dst.Editor.NudgeStep = src.Editor.NudgeStep
	}
	dst.Editor.MinSize = src.Editor.MinSize
	dst.Editor.PasteOffset = src.Editor.PasteOffset
	// booleans: copy directly from src (file) so user preferences persist
	dst.Editor.DeleteLocked = src.Editor.DeleteLocked
	if src.Canvas.DefaultZoom != 0 {
		dst.Canvas.DefaultZoom = src.Canvas.DefaultZoom
	}
	if src.Canvas.MinZoom != 0 {
		dst.Canvas.MinZoom = src.Canvas.MinZoom
	}
	if src.Canvas.MaxZoom != 0 {
		dst.Canvas.MaxZoom = src.Canvas.MaxZoom
	}
	dst.Canvas.SnapThreshold = src.Canvas.SnapThreshold
	dst.Canvas.Guides = src.Canvas.Guides
	dst.Storage.AutosaveSnapshots = src.Storage.AutosaveSnapshots
	dst.Storage.KeepSnapshots = src.Storage.KeepSnapshots
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	envInt(EnvMaxRecords, &cfg.Editor.MaxRecords)
	envFloat(EnvNudgeStep, &cfg.Editor.NudgeStep)
	envFloat(EnvMinSize, &cfg.Editor.MinSize)
	envFloat(EnvPasteOffset, &cfg.Editor.PasteOffset)
	envBool(EnvDeleteLocked, &cfg.Editor.DeleteLocked)
	envFloat(EnvDefaultZoom, &cfg.Canvas.DefaultZoom)
	envFloat(EnvSnapThreshold, &cfg.Canvas.SnapThreshold)
	envBool(EnvGuides, &cfg.Canvas.Guides)
	envBool(EnvAutosaveSnapshots, &cfg.Storage.AutosaveSnapshots)
	envInt(EnvKeepSnapshots, &cfg.Storage.KeepSnapshots)
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	envBool(EnvLogSource, &cfg.Logging.Source)
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// Unparsable values leave the field untouched.
func envInt(name string, dst *int) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(name string, dst *float64) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(name string, dst *bool) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		lv := strings.ToLower(v)
		*dst = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}
