package core

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultFramesInFlight = 2
	MaxFramesInFlight     = 3
)

type ApplicationConfig struct {
	Name   string `toml:"name"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type RendererConfig struct {
	FramesInFlight uint32 `toml:"frames_in_flight"`
	// duration string, "0" waits forever
	FenceTimeout string `toml:"fence_timeout"`
	VSync        bool   `toml:"vsync"`
	Validation   bool   `toml:"validation"`
}

type GeometryConfig struct {
	VertexLayout string `toml:"vertex_layout"`
	IndexType    string `toml:"index_type"`
}

type AssetsConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Config is the content of the engine configuration file.
type Config struct {
	Application ApplicationConfig `toml:"application"`
	Renderer    RendererConfig    `toml:"renderer"`
	Geometry    GeometryConfig    `toml:"geometry"`
	Assets      AssetsConfig      `toml:"assets"`
	Log         LogConfig         `toml:"log"`
}

func DefaultConfig() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:   "prism",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			FramesInFlight: DefaultFramesInFlight,
			FenceTimeout:   "0",
			VSync:          true,
		},
		Geometry: GeometryConfig{
			VertexLayout: "interleaved",
			IndexType:    "uint32",
		},
		Assets: AssetsConfig{
			Dir: "assets",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads the TOML file at path on top of the defaults. A missing
// file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			LogWarn("configuration file %s not found, using defaults", path)
			return cfg, nil
		}
		return nil, errors.Mark(errors.Wrapf(err, "reading %s", path), ErrLoadFailed)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			err = errors.Wrapf(err, "%s:%d:%d", path, row, col)
		}
		return nil, errors.Mark(err, ErrLoadFailed)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enum strings and clamps numeric ranges.
func (c *Config) Validate() error {
	switch c.Geometry.VertexLayout {
	case "interleaved", "planar", "position_planar":
	default:
		return errors.Wrapf(ErrInvalidCreateArgument, "geometry.vertex_layout %q", c.Geometry.VertexLayout)
	}
	switch c.Geometry.IndexType {
	case "none", "uint8", "uint16", "uint32":
	default:
		return errors.Wrapf(ErrInvalidCreateArgument, "geometry.index_type %q", c.Geometry.IndexType)
	}
	if _, err := c.FenceTimeout(); err != nil {
		return err
	}
	if c.Renderer.FramesInFlight == 0 {
		LogWarn("renderer.frames_in_flight must be at least 1. Defaulting to %d.", DefaultFramesInFlight)
		c.Renderer.FramesInFlight = DefaultFramesInFlight
	}
	if c.Renderer.FramesInFlight > MaxFramesInFlight {
		LogWarn("renderer.frames_in_flight %d too high. Clamping to %d.", c.Renderer.FramesInFlight, MaxFramesInFlight)
		c.Renderer.FramesInFlight = MaxFramesInFlight
	}
	if c.Application.Width == 0 || c.Application.Height == 0 {
		return errors.Wrapf(ErrInvalidCreateArgument, "window size %dx%d", c.Application.Width, c.Application.Height)
	}
	return nil
}

// FenceTimeout returns the configured wait timeout. Zero means no timeout.
func (c *Config) FenceTimeout() (time.Duration, error) {
	if c.Renderer.FenceTimeout == "" || c.Renderer.FenceTimeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Renderer.FenceTimeout)
	if err != nil || d < 0 {
		return 0, errors.Wrapf(ErrInvalidCreateArgument, "renderer.fence_timeout %q", c.Renderer.FenceTimeout)
	}
	return d, nil
}
