// Package config loads GuardianCam configuration from YAML files with
// environment variable overrides for deployment-level settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jontylopez/GuardianCam/pkg/engine"
)

// File is the on-disk configuration shape. Engine fields left out of
// the YAML keep their defaults, so a deployment only states what it
// recalibrates.
type File struct {
	LogLevel string        `yaml:"log_level"`
	Engine   engine.Config `yaml:"engine"`
}

// Load reads a YAML config file over the engine defaults and validates
// the result. An empty path returns the defaults unchanged.
func Load(path string) (*File, error) {
	cfg := &File{
		LogLevel: "info",
		Engine:   engine.DefaultConfig(),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// EffectiveLogLevel returns the log level to use: the
// GUARDIANCAM_LOG_LEVEL env var wins over the config file.
func (f *File) EffectiveLogLevel() string {
	if lvl := os.Getenv("GUARDIANCAM_LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return f.LogLevel
}
