package config

import (
	"fmt"
	"sort"
)

// Preset is a named Julia parameter with a starting zoom.
type Preset struct {
	Description string
	CenterRe    float64
	CenterIm    float64
	Zoom        float64
}

var Presets = map[string]*Preset{
	"classic":   {Description: "c = -0.8 + 0.156i", CenterRe: -0.8, CenterIm: 0.156, Zoom: 2.0},
	"rabbit":    {Description: "Douady rabbit", CenterRe: -0.123, CenterIm: 0.745, Zoom: 2.0},
	"dendrite":  {Description: "dendrite, c = i", CenterRe: 0.0, CenterIm: 1.0, Zoom: 2.0},
	"siegel":    {Description: "Siegel disk", CenterRe: -0.391, CenterIm: -0.587, Zoom: 2.0},
	"san_marco": {Description: "San Marco fractal", CenterRe: -0.75, CenterIm: 0.0, Zoom: 2.0},
	"spiral":    {Description: "spiral arms", CenterRe: 0.285, CenterIm: 0.01, Zoom: 1.5},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset overwrites the viewport centre and zoom with the named preset
// and resets the pixel offset.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, ListPresets())
	}
	c.Viewport = ViewportConfig{CenterRe: p.CenterRe, CenterIm: p.CenterIm, Zoom: p.Zoom}
	return nil
}
