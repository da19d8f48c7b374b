// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package frame

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"

	"github.com/gviegas/rcore/driver"
	"github.com/gviegas/rcore/engine"
	"github.com/gviegas/rcore/linear"
	"github.com/gviegas/rcore/loader"
)

// ErrConfig means that a configuration value is invalid.
var ErrConfig = errors.New("frame: invalid configuration")

// Config configures an App.
type Config struct {
	Engine     engine.Config `toml:"engine"`
	ClearColor [4]float32    `toml:"clear_color"`
	Camera     Camera        `toml:"camera"`
	Texture    TextureFile   `toml:"texture"`
	Shaders    ShaderFiles   `toml:"shaders"`

	// Backend, if not nil, is opened instead of the
	// driver that Engine.Driver names.
	Backend driver.Driver `toml:"-"`
}

// TextureFile names the texture applied to the cube.
// An empty name selects a generated checkerboard.
type TextureFile struct {
	Name string     `toml:"name"`
	Ext  loader.Ext `toml:"ext"`
}

// ShaderFiles names precompiled shader bytecode files.
// If both are empty, built-in bytecode is used.
type ShaderFiles struct {
	Vertex string `toml:"vertex"`
	Pixel  string `toml:"pixel"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Engine:     engine.DefaultConfig(),
		ClearColor: [4]float32{0.1, 0.1, 0.1, 1},
		Camera:     DefaultCamera(),
		Texture:    TextureFile{Ext: loader.DDS},
	}
}

// DecodeConfig decodes a TOML configuration from r.
// Values missing from r keep their defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("frame: config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig decodes the named TOML file.
func LoadConfig(name string) (Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return Config{}, fmt.Errorf("frame: config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// Validate checks the values of c.
func (c *Config) Validate() error {
	cam := &c.Camera
	switch {
	case cam.FOV <= 0 || cam.FOV >= math32.Pi:
		return fmt.Errorf("%w: camera fov %v out of range", ErrConfig, cam.FOV)
	case cam.Near <= 0 || cam.Far <= cam.Near:
		return fmt.Errorf("%w: camera depth range [%v, %v]", ErrConfig, cam.Near, cam.Far)
	case cam.Eye == cam.At:
		return fmt.Errorf("%w: camera eye and target coincide", ErrConfig)
	case cam.Up == linear.V3{}:
		return fmt.Errorf("%w: camera up vector is zero", ErrConfig)
	case !cam.upright():
		return fmt.Errorf("%w: camera up vector is parallel to the view direction", ErrConfig)
	case (c.Shaders.Vertex == "") != (c.Shaders.Pixel == ""):
		return fmt.Errorf("%w: both shader files must be given", ErrConfig)
	case c.Engine.Samples < 0 || c.Engine.BufferCount < 0:
		return fmt.Errorf("%w: negative engine value", ErrConfig)
	}
	return nil
}
