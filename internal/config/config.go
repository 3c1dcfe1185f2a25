// Package config holds the run configuration of colony-counter: binarization,
// classification parameters, batch concurrency and output options.
//
// Values are layered: Default, then an optional JSON file (LoadFile/Apply),
// then environment overrides (ApplyEnv), then command-line flags set by the
// caller. Validate runs once, before any image is processed.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/ironsheep/colony-counter/internal/colony"
	"github.com/ironsheep/colony-counter/internal/logging"
)

// DefaultThreshold is the binarization threshold on the normalized grayscale
// image.
const DefaultThreshold = 0.55

// EnvWorkers names the environment variable overriding Config.Workers.
const EnvWorkers = "COLONY_WORKERS"

// maxFileSize bounds configuration files (1 MiB).
const maxFileSize = 1 * 1024 * 1024

// Config is the resolved run configuration.
type Config struct {
	Threshold             float64       `json:"threshold"`
	AutoThreshold         bool          `json:"auto_threshold"`
	EccentricityThreshold float64       `json:"eccentricity_threshold"`
	AreaDeviation         float64       `json:"area_deviation"`
	Modes                 []colony.Mode `json:"modes"`
	Workers               int           `json:"workers"`
	OutputDir             string        `json:"output_dir"`
	WritePanel            bool          `json:"write_panel"`
	WriteHistogram        bool          `json:"write_histogram"`
	LogLevel              string        `json:"log_level"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Threshold:             DefaultThreshold,
		EccentricityThreshold: colony.DefaultEccentricityThreshold,
		AreaDeviation:         colony.DefaultAreaDeviation,
		Modes:                 colony.AllModes(),
		Workers:               runtime.NumCPU(),
		OutputDir:             ".",
		WritePanel:            true,
		WriteHistogram:        true,
		LogLevel:              "info",
	}
}

// File is the on-disk form of Config. Omitted fields keep their prior value.
type File struct {
	Threshold             *float64      `json:"threshold,omitempty"`
	AutoThreshold         *bool         `json:"auto_threshold,omitempty"`
	EccentricityThreshold *float64      `json:"eccentricity_threshold,omitempty"`
	AreaDeviation         *float64      `json:"area_deviation,omitempty"`
	Modes                 []colony.Mode `json:"modes,omitempty"`
	Workers               *int          `json:"workers,omitempty"`
	OutputDir             *string       `json:"output_dir,omitempty"`
	WritePanel            *bool         `json:"write_panel,omitempty"`
	WriteHistogram        *bool         `json:"write_histogram,omitempty"`
	LogLevel              *string       `json:"log_level,omitempty"`
}

// LoadFile reads a JSON configuration file. The path must end in .json and the
// file must not exceed 1 MiB. Unknown keys are rejected.
func LoadFile(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("%w: config file must have .json extension, got %q", colony.ErrInvalidConfig, ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("%w: config file too large: %d bytes (max %d)", colony.ErrInvalidConfig, info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config JSON: %v", colony.ErrInvalidConfig, err)
	}
	return &f, nil
}

// Apply copies every field set in f onto cfg.
func (f *File) Apply(cfg *Config) {
	if f.Threshold != nil {
		cfg.Threshold = *f.Threshold
	}
	if f.AutoThreshold != nil {
		cfg.AutoThreshold = *f.AutoThreshold
	}
	if f.EccentricityThreshold != nil {
		cfg.EccentricityThreshold = *f.EccentricityThreshold
	}
	if f.AreaDeviation != nil {
		cfg.AreaDeviation = *f.AreaDeviation
	}
	if len(f.Modes) > 0 {
		cfg.Modes = append([]colony.Mode(nil), f.Modes...)
	}
	if f.Workers != nil {
		cfg.Workers = *f.Workers
	}
	if f.OutputDir != nil {
		cfg.OutputDir = *f.OutputDir
	}
	if f.WritePanel != nil {
		cfg.WritePanel = *f.WritePanel
	}
	if f.WriteHistogram != nil {
		cfg.WriteHistogram = *f.WriteHistogram
	}
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}
}

// ApplyEnv applies COLONY_LOG_LEVEL and COLONY_WORKERS from getenv. Unset or
// empty variables leave cfg unchanged.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(logging.EnvLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", colony.ErrInvalidConfig, EnvWorkers, v)
		}
		cfg.Workers = n
	}
	return nil
}

// Load resolves Default, the optional file at path (skipped when path is
// empty), the process environment and then each override in order, and
// validates the result. Overrides carry command-line flags.
func Load(path string, overrides ...func(*Config) error) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		f.Apply(&cfg)
	}
	if err := ApplyEnv(&cfg, os.Getenv); err != nil {
		return Config{}, err
	}
	for _, override := range overrides {
		if err := override(&cfg); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports colony.ErrInvalidConfig for out-of-domain values.
func (c Config) Validate() error {
	if !c.AutoThreshold && (math.IsNaN(c.Threshold) || c.Threshold <= 0 || c.Threshold >= 1) {
		return fmt.Errorf("%w: threshold %v outside (0, 1)", colony.ErrInvalidConfig, c.Threshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", colony.ErrInvalidConfig, c.Workers)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("%w: output_dir must not be empty", colony.ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", colony.ErrInvalidConfig, err)
	}
	return c.Classifier().Validate()
}

// Classifier returns the classification parameters of c.
func (c Config) Classifier() colony.Config {
	return colony.Config{
		EccentricityThreshold: c.EccentricityThreshold,
		AreaDeviation:         c.AreaDeviation,
		Modes:                 append([]colony.Mode(nil), c.Modes...),
	}
}
