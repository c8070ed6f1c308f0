package config

import "sort"

// Presets override the defaults; zero-valued render settings are kept from
// DefaultConfig.
var Presets = map[string]func(*Config){
	"original": func(c *Config) {},
	"small": func(c *Config) {
		c.Initial.Theta = 0.2
		c.Integration.Duration = 20
	},
	"large": func(c *Config) {
		c.Initial.Theta = 2.5
		c.Integration.Duration = 20
	},
	"undamped": func(c *Config) {
		c.Physics.Damping = 0
		c.Initial.Theta = 0.2
		c.Integration.Dt = 0.001
	},
	"overdamped": func(c *Config) {
		c.Physics.Damping = 8
		c.Initial.Theta = 1.0
	},
	"spinning": func(c *Config) {
		c.Initial.Theta = 0.1
		c.Initial.Omega = 8.0
		c.Integration.Duration = 30
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
