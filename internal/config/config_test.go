package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ironsheep/colony-counter/internal/colony"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func noEnv(string) string { return "" }

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0.55, cfg.Threshold)
	assert.Equal(t, 0.625, cfg.EccentricityThreshold)
	assert.Equal(t, 1.5, cfg.AreaDeviation)
	assert.Equal(t, colony.AllModes(), cfg.Modes)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "colony.json", `{"area_deviation": 2, "modes": ["high-ecc", "low-ecc"], "write_panel": false}`)

	f, err := LoadFile(path)
	require.NoError(t, err)

	cfg := Default()
	f.Apply(&cfg)

	want := Default()
	want.AreaDeviation = 2
	want.Modes = []colony.Mode{colony.ModeHighEcc, colony.ModeLowEccInRange}
	want.WritePanel = false
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"wrong extension", "colony.yaml", `{}`},
		{"malformed", "colony.json", `{"threshold": }`},
		{"unknown key", "colony.json", `{"thresh": 0.5}`},
		{"unknown mode", "colony.json", `{"modes": ["medium-ecc"]}`},
		{"too large", "colony.json", `{"log_level": "` + strings.Repeat("x", maxFileSize) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, colony.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{"COLONY_LOG_LEVEL": "debug", "COLONY_WORKERS": " 3 "}
	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg, func(k string) string { return env[k] }))
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Workers)

	before := cfg
	require.NoError(t, ApplyEnv(&cfg, noEnv))
	if diff := cmp.Diff(before, cfg); diff != "" {
		t.Errorf("empty environment changed config:\n%s", diff)
	}
}

func TestApplyEnv_BadWorkers(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(&cfg, func(k string) string {
		if k == EnvWorkers {
			return "many"
		}
		return ""
	})
	assert.True(t, errors.Is(err, colony.ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"threshold zero", func(c *Config) { c.Threshold = 0 }},
		{"threshold one", func(c *Config) { c.Threshold = 1 }},
		{"negative multiplier", func(c *Config) { c.AreaDeviation = -1 }},
		{"eccentricity above one", func(c *Config) { c.EccentricityThreshold = 1.2 }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"empty output dir", func(c *Config) { c.OutputDir = " " }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"duplicate mode", func(c *Config) { c.Modes = []colony.Mode{colony.ModeHighEcc, colony.ModeHighEcc} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, colony.ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidate_AutoThresholdIgnoresFixedValue(t *testing.T) {
	cfg := Default()
	cfg.AutoThreshold = true
	cfg.Threshold = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvWorkers, "2")
	t.Setenv("COLONY_LOG_LEVEL", "")
	path := writeConfig(t, "colony.json", `{"eccentricity_threshold": 0.7}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.EccentricityThreshold)
	assert.Equal(t, 2, cfg.Workers)

	_, err = Load(writeConfig(t, "bad.json", `{"area_deviation": -0.5}`))
	assert.True(t, errors.Is(err, colony.ErrInvalidConfig))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvWorkers, "2")
	t.Setenv("COLONY_LOG_LEVEL", "")
	path := writeConfig(t, "colony.json", `{"threshold": 0.4}`)

	cfg, err := Load(path, func(c *Config) error {
		c.Workers = 5
		return nil
	}, func(c *Config) error {
		c.OutputDir = "plates-out"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.Threshold)
	assert.Equal(t, 5, cfg.Workers, "override wins over environment")
	assert.Equal(t, "plates-out", cfg.OutputDir)

	_, err = Load("", func(c *Config) error {
		c.Threshold = 1.5
		return nil
	})
	assert.True(t, errors.Is(err, colony.ErrInvalidConfig), "overrides are validated")

	boom := errors.New("bad flag")
	_, err = Load("", func(*Config) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestClassifier_DoesNotAlias(t *testing.T) {
	cfg := Default()
	cc := cfg.Classifier()
	cc.Modes[0] = colony.ModeHighEcc
	assert.Equal(t, colony.AllModes(), cfg.Modes)
	assert.Equal(t, cfg.AreaDeviation, cc.AreaDeviation)
}
