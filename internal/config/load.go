package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads the config file at path on top of the defaults and validates
// the result. The format follows the extension: .yaml/.yml, .toml or .json.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := Decode(filepath.Ext(path), data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Decode unmarshals data in the format named by ext into cfg. Unknown keys
// are rejected. List settings absent from data keep their current values;
// present ones replace them whole.
func Decode(ext string, data []byte, cfg *Config) error {
	offsets, constraints := cfg.Elevation.IterationsOffsets, cfg.Placement.Constraints
	cfg.Elevation.IterationsOffsets, cfg.Placement.Constraints = nil, nil

	err := decode(ext, data, cfg)
	if cfg.Elevation.IterationsOffsets == nil {
		cfg.Elevation.IterationsOffsets = offsets
	}
	if cfg.Placement.Constraints == nil {
		cfg.Placement.Constraints = constraints
	}
	return err
}

func decode(ext string, data []byte, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".toml":
		return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
	return fmt.Errorf("unsupported config format %q", ext)
}
