package config

import (
	"path/filepath"
	"sort"
)

var Presets = map[string]func() *Config{
	"light_sersic_exp": DefaultConfig,
	"light_sersic": func() *Config {
		cfg := DefaultConfig()
		cfg.Dataset.Name = "light_sersic"
		cfg.Galaxies[0].Profiles = []ProfileConfig{bulge()}
		return cfg
	},
	"light_exp": func() *Config {
		cfg := DefaultConfig()
		cfg.Dataset.Name = "light_exp"
		cfg.Galaxies[0].Profiles = []ProfileConfig{disk()}
		return cfg
	},
	"alma": func() *Config {
		cfg := DefaultConfig()
		cfg.Dataset.Name = "light_sersic_exp_alma"
		cfg.UVWavelengths.Path = filepath.Join(DefaultRoot, DefaultDatasetType, "uv_wavelengths", "alma.fits")
		cfg.Simulator.Transformer = "fft"
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
