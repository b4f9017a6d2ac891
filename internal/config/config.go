package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/OCharnyshevich/wildwalk/internal/placement"
	"github.com/OCharnyshevich/wildwalk/internal/world"
	"github.com/OCharnyshevich/wildwalk/pkg/terrain"
)

// Config holds the world generator configuration.
type Config struct {
	Elevation terrain.ElevationConfig `json:"elevation" yaml:"elevation" toml:"elevation"`
	Tiles     world.TileConfig        `json:"tiles" yaml:"tiles" toml:"tiles"`
	Forest    world.ForestConfig      `json:"forest" yaml:"forest" toml:"forest"`
	Placement PlacementConfig         `json:"placement" yaml:"placement" toml:"placement"`

	Listen   string `json:"listen" yaml:"listen" toml:"listen"` // websocket address, empty disables the feed
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
	Ticks    int    `json:"ticks" yaml:"ticks" toml:"ticks"`
	TickRate int    `json:"tick_rate" yaml:"tick_rate" toml:"tick_rate"` // ticks per second
}

// PlacementConfig holds the per-kind placement rules.
type PlacementConfig struct {
	Seed        uint64                 `json:"seed" yaml:"seed" toml:"seed"`
	Constraints []placement.Constraint `json:"constraints" yaml:"constraints" toml:"constraints"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Elevation: terrain.DefaultElevationConfig(),
		Tiles:     world.DefaultTileConfig(),
		Forest:    world.DefaultForestConfig(),
		Placement: PlacementConfig{
			Constraints: placement.DefaultConstraints(),
		},
		LogLevel: "info",
		Ticks:    600,
		TickRate: 60,
	}
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	seed := cfg.Elevation.Seed
	cfg.Elevation = fromFile.Elevation
	if explicitFlags["seed"] {
		cfg.Elevation.Seed = seed
	}
	cfg.Tiles = fromFile.Tiles
	cfg.Forest = fromFile.Forest

	placementSeed := cfg.Placement.Seed
	cfg.Placement = fromFile.Placement
	if explicitFlags["placement-seed"] {
		cfg.Placement.Seed = placementSeed
	}

	if !explicitFlags["listen"] {
		cfg.Listen = fromFile.Listen
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
	if !explicitFlags["ticks"] {
		cfg.Ticks = fromFile.Ticks
	}
	if !explicitFlags["tick-rate"] {
		cfg.TickRate = fromFile.TickRate
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	e := c.Elevation
	switch {
	case e.MaxIterations < 0:
		return errors.New("elevation.max_iterations cannot be negative")
	case e.BaseFrequency <= 0:
		return errors.New("elevation.base_frequency must be positive")
	case e.Lacunarity <= 0:
		return errors.New("elevation.lacunarity must be positive")
	case e.Persistence < 0:
		return errors.New("elevation.persistence cannot be negative")
	case e.Power < 0:
		return errors.New("elevation.power cannot be negative")
	}

	t := c.Tiles
	switch {
	case t.Size <= 0:
		return errors.New("tiles.size must be positive")
	case t.Subdivisions <= 0:
		return errors.New("tiles.subdivisions must be positive")
	case t.Radius < 0:
		return errors.New("tiles.radius cannot be negative")
	case t.FinalRadius < 0 || t.FinalRadius > t.Radius:
		return errors.New("tiles.final_radius must be between 0 and tiles.radius")
	case t.FarPrecision < 0 || t.FarPrecision > 1:
		return errors.New("tiles.far_precision must be between 0 and 1")
	case t.GeneratePerTick <= 0:
		return errors.New("tiles.generate_per_tick must be positive")
	}

	f := c.Forest
	switch {
	case f.TreesPerTile < 0:
		return errors.New("forest.trees_per_tile cannot be negative")
	case f.SpawnProbability < 0 || f.SpawnProbability > 1:
		return errors.New("forest.spawn_probability must be between 0 and 1")
	}

	seen := make(map[placement.Kind]bool, len(c.Placement.Constraints))
	for i, pc := range c.Placement.Constraints {
		if seen[pc.Kind] {
			return fmt.Errorf("placement.constraints[%d].kind %s is duplicated", i, pc.Kind)
		}
		seen[pc.Kind] = true
		if pc.Count < 0 {
			return fmt.Errorf("placement.constraints[%d].count cannot be negative", i)
		}
		if pc.Kind == placement.Tree && pc.Count != 0 {
			return fmt.Errorf("placement.constraints[%d].count must be 0 for tree, forest.trees_per_tile sets density", i)
		}
		if pc.SpawnRange < 0 {
			return fmt.Errorf("placement.constraints[%d].spawn_range cannot be negative", i)
		}
		if pc.MinSeparation < 0 {
			return fmt.Errorf("placement.constraints[%d].min_separation cannot be negative", i)
		}
	}

	if c.Ticks < 0 {
		return errors.New("ticks cannot be negative")
	}
	if c.TickRate <= 0 {
		return errors.New("tick_rate must be positive")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// World converts the config into world construction options.
func (c *Config) World() world.Options {
	return world.Options{
		Elevation:     c.Elevation,
		Tiles:         c.Tiles,
		Forest:        c.Forest,
		Constraints:   append([]placement.Constraint(nil), c.Placement.Constraints...),
		PlacementSeed: c.Placement.Seed,
	}
}

// ParseLevel maps a level name onto a slog level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log_level %q is not one of debug, info, warn, error", name)
}
