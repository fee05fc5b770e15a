package commands

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML configuration file. Flags and environment
// variables win over file values; the file only fills in what they left
// empty.
type FileConfig struct {
	Listen   string `yaml:"listen"`
	Postgres struct {
		ConnString string `yaml:"conn_string"`
	} `yaml:"postgres"`
	SystemActorEmail string `yaml:"system_actor_email"`
}

// loadFileConfig reads the config file at path. A missing path returns an
// empty config.
func loadFileConfig(path string) (*FileConfig, error) {
	cfg := &FileConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}
