package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/juliaset/internal/compute"
	"github.com/san-kum/juliaset/internal/fractal"
	"github.com/san-kum/juliaset/internal/palette"
)

const (
	DefaultWidth          = 1280
	DefaultHeight         = 720
	DefaultMaxIteration   = 500
	DefaultEscapeRadius   = 2.0
	DefaultSamplesPerLine = 2
	DefaultPalette        = palette.Default
	DefaultPartition      = string(compute.Bands)
)

type Config struct {
	Raster     RasterConfig     `yaml:"raster"`
	Escape     EscapeConfig     `yaml:"escape"`
	Viewport   ViewportConfig   `yaml:"viewport"`
	Navigation NavigationConfig `yaml:"navigation"`
	Compute    ComputeConfig    `yaml:"compute"`
	Palette    string           `yaml:"palette"`
}

type RasterConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type EscapeConfig struct {
	MaxIteration   int     `yaml:"max_iteration"`
	Radius         float64 `yaml:"radius"`
	SamplesPerLine int     `yaml:"samples_per_line"`
}

type ViewportConfig struct {
	CenterRe float64 `yaml:"center_re"`
	CenterIm float64 `yaml:"center_im"`
	Zoom     float64 `yaml:"zoom"`
	OffsetX  int32   `yaml:"offset_x"`
	OffsetY  int32   `yaml:"offset_y"`
}

type NavigationConfig struct {
	ZoomFactor float64 `yaml:"zoom_factor"`
	PanRe      float64 `yaml:"pan_re"`
	PanIm      float64 `yaml:"pan_im"`
	Bound      float64 `yaml:"bound"`
	WrapRe     float64 `yaml:"wrap_re"`
	WrapIm     float64 `yaml:"wrap_im"`
	OffsetStep int32   `yaml:"offset_step"`
}

type ComputeConfig struct {
	Partition string `yaml:"partition"`
	Workers   int    `yaml:"workers"`
	TileSize  int    `yaml:"tile_size"`
}

func DefaultConfig() *Config {
	view := fractal.DefaultViewport()
	nav := fractal.DefaultNavigation()
	return &Config{
		Raster: RasterConfig{Width: DefaultWidth, Height: DefaultHeight},
		Escape: EscapeConfig{
			MaxIteration:   DefaultMaxIteration,
			Radius:         DefaultEscapeRadius,
			SamplesPerLine: DefaultSamplesPerLine,
		},
		Viewport: ViewportConfig{
			CenterRe: view.CenterRe,
			CenterIm: view.CenterIm,
			Zoom:     view.Zoom,
		},
		Navigation: NavigationConfig{
			ZoomFactor: nav.ZoomFactor,
			PanRe:      nav.PanRe,
			PanIm:      nav.PanIm,
			Bound:      nav.Bound,
			WrapRe:     nav.WrapRe,
			WrapIm:     nav.WrapIm,
			OffsetStep: nav.OffsetStep,
		},
		Compute: ComputeConfig{
			Partition: DefaultPartition,
			TileSize:  compute.DefaultTileSize,
		},
		Palette: DefaultPalette,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values that are not covered by engine construction.
func (c *Config) Validate() error {
	if c.Raster.Width <= 0 || c.Raster.Height <= 0 {
		return fmt.Errorf("raster must be positive, got %dx%d", c.Raster.Width, c.Raster.Height)
	}
	if c.Viewport.Zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %f", c.Viewport.Zoom)
	}
	if c.Escape.MaxIteration < 1 {
		return fmt.Errorf("max_iteration must be positive, got %d", c.Escape.MaxIteration)
	}
	if c.Escape.Radius <= 0 {
		return fmt.Errorf("radius must be positive, got %f", c.Escape.Radius)
	}
	if c.Escape.SamplesPerLine < 1 {
		return fmt.Errorf("samples_per_line must be at least 1, got %d", c.Escape.SamplesPerLine)
	}
	if c.Navigation.ZoomFactor <= 0 {
		return fmt.Errorf("zoom_factor must be positive, got %f", c.Navigation.ZoomFactor)
	}
	if c.Navigation.Bound <= 0 {
		return fmt.Errorf("bound must be positive, got %f", c.Navigation.Bound)
	}
	if c.Compute.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Compute.Workers)
	}
	if _, err := compute.ParsePartition(c.Compute.Partition); err != nil {
		return err
	}
	if _, err := palette.Lookup(c.Palette); err != nil {
		return err
	}
	return nil
}

func (c *Config) GetViewport() fractal.Viewport {
	return fractal.Viewport{
		CenterRe: c.Viewport.CenterRe,
		CenterIm: c.Viewport.CenterIm,
		Zoom:     c.Viewport.Zoom,
		OffsetX:  c.Viewport.OffsetX,
		OffsetY:  c.Viewport.OffsetY,
	}
}

func (c *Config) GetNavigation() fractal.Navigation {
	return fractal.Navigation{
		ZoomFactor: c.Navigation.ZoomFactor,
		PanRe:      c.Navigation.PanRe,
		PanIm:      c.Navigation.PanIm,
		Bound:      c.Navigation.Bound,
		WrapRe:     c.Navigation.WrapRe,
		WrapIm:     c.Navigation.WrapIm,
		OffsetStep: c.Navigation.OffsetStep,
	}
}

// Options converts the config into engine options.
func (c *Config) Options() (fractal.Options, error) {
	if err := c.Validate(); err != nil {
		return fractal.Options{}, err
	}

	partition, _ := compute.ParsePartition(c.Compute.Partition)
	gradient, _ := palette.Lookup(c.Palette)

	return fractal.Options{
		Width:    c.Raster.Width,
		Height:   c.Raster.Height,
		Viewport: c.GetViewport(),
		Params: fractal.Params{
			MaxIteration:   c.Escape.MaxIteration,
			EscapeRadius:   c.Escape.Radius,
			SamplesPerLine: c.Escape.SamplesPerLine,
		},
		Navigation: c.GetNavigation(),
		Plan: compute.Plan{
			Partition: partition,
			Workers:   c.Compute.Workers,
			TileSize:  c.Compute.TileSize,
		},
		Gradient: gradient,
	}, nil
}

// NewEngine builds an engine from the config.
func (c *Config) NewEngine() (*fractal.Engine, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return fractal.New(opts)
}
