// Package config maps the viper configuration tree onto the pieces the
// commands need: the tiling scheme constants, the HTTP server settings and
// the log level.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/rasterd/rasterd/pkg/tile"
)

// Scheme describes the tiling scheme to derive the constants table from: a
// fixed upper-left origin and the slippy zoom range the scheme covers.
// Depth 0 maps to MinZoom.
type Scheme struct {
	RootLat float64 `mapstructure:"root-lat"`
	RootLon float64 `mapstructure:"root-lon"`
	MinZoom int     `mapstructure:"min-zoom"`
	MaxZoom int     `mapstructure:"max-zoom"`
}

// Server holds the HTTP server settings.
type Server struct {
	Bind    string        `mapstructure:"bind"`
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Log holds the logging settings.
type Log struct {
	Level string `mapstructure:"level"`
}

// Config is the full configuration tree.
type Config struct {
	Scheme Scheme `mapstructure:"scheme"`
	Server Server `mapstructure:"server"`
	Log    Log    `mapstructure:"log"`
}

// SetDefaults registers the compiled-in defaults with viper. The default
// scheme is the Seattle region the reference dataset was cut for, seven
// depths starting at slippy zoom 11.
func SetDefaults() {
	viper.SetDefault("scheme.root-lat", 47.754097979680026)
	viper.SetDefault("scheme.root-lon", -122.6953125)
	viper.SetDefault("scheme.min-zoom", 11)
	viper.SetDefault("scheme.max-zoom", 17)

	viper.SetDefault("server.bind", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeout", 30*time.Second)

	viper.SetDefault("log.level", "info")
}

// Load unmarshals the current viper state. Callers are expected to have
// pointed viper at a config file (or not) beforehand.
func Load() (*Config, error) {
	SetDefaults()

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// TileScheme derives the constants table from the scheme settings.
func (c *Config) TileScheme() (*tile.Scheme, error) {
	s, err := tile.NewScheme(c.Scheme.RootLat, c.Scheme.RootLon, c.Scheme.MinZoom, c.Scheme.MaxZoom)
	if err != nil {
		return nil, fmt.Errorf("derive tile scheme: %w", err)
	}
	return s, nil
}
