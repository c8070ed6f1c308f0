package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGravity  = 9.81
	DefaultLength   = 1.0
	DefaultDamping  = 0.1
	DefaultTheta    = math.Pi / 4
	DefaultOmega    = 0.0
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultFPS      = 60
	DefaultSize     = 480
	DefaultOutput   = "pendulum_simulation.mp4"
)

type Config struct {
	Physics     PhysicsConfig     `yaml:"physics"`
	Initial     InitialConfig     `yaml:"initial"`
	Integration IntegrationConfig `yaml:"integration"`
	Render      RenderConfig      `yaml:"render"`
}

type PhysicsConfig struct {
	Gravity float64 `yaml:"gravity"`
	Length  float64 `yaml:"length"`
	Damping float64 `yaml:"damping"`
}

type InitialConfig struct {
	Theta float64 `yaml:"theta"`
	Omega float64 `yaml:"omega"`
}

type IntegrationConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Method   string  `yaml:"method"`
}

type RenderConfig struct {
	FPS          int     `yaml:"fps"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	LineWidth    float64 `yaml:"line_width"`
	MarkerRadius float64 `yaml:"marker_radius"`
	Output       string  `yaml:"output"`
	FFmpeg       string  `yaml:"ffmpeg,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Physics: PhysicsConfig{
			Gravity: DefaultGravity,
			Length:  DefaultLength,
			Damping: DefaultDamping,
		},
		Initial: InitialConfig{
			Theta: DefaultTheta,
			Omega: DefaultOmega,
		},
		Integration: IntegrationConfig{
			Dt:       DefaultDt,
			Duration: DefaultDuration,
			Method:   integrators.DefaultMethod,
		},
		Render: RenderConfig{
			FPS:          DefaultFPS,
			Width:        DefaultSize,
			Height:       DefaultSize,
			LineWidth:    2,
			MarkerRadius: 10,
			Output:       DefaultOutput,
		},
	}
}

// Load overlays the YAML file at path on DefaultConfig.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto overlays the YAML file at path on base; keys missing from the
// file keep base's values.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", dynamo.ErrInvalidConfig, path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Params() dynamo.Params {
	return dynamo.Params{
		Gravity: c.Physics.Gravity,
		Length:  c.Physics.Length,
		Damping: c.Physics.Damping,
	}
}

func (c *Config) InitialState() dynamo.InitialState {
	return dynamo.InitialState{
		Angle:           c.Initial.Theta,
		AngularVelocity: c.Initial.Omega,
	}
}

func (c *Config) IntegrationConfig() dynamo.IntegrationConfig {
	return dynamo.IntegrationConfig{
		TimeStep: c.Integration.Dt,
		Duration: c.Integration.Duration,
	}
}

// Validate checks everything the integrator would reject before any work
// is done.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if err := c.IntegrationConfig().Validate(); err != nil {
		return err
	}
	if _, err := integrators.Get(c.Integration.Method); err != nil {
		return err
	}
	return nil
}
