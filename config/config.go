// Package config provides configuration loading and access for the engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Avatar    AvatarConfig    `yaml:"avatar"`
	Ambient   AmbientConfig   `yaml:"ambient"`
	Audio     AudioConfig     `yaml:"audio"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// AvatarConfig holds the dissolve/vortex/reform/speaking engine parameters.
type AvatarConfig struct {
	RenderSize       int     `yaml:"render_size"`       // pixel edge length of the square output
	GridResolution   int     `yaml:"grid_resolution"`   // N for the NxN sample grid
	MaxParticles     int     `yaml:"max_particles"`     // hard cap on sampled particles
	AlphaThreshold   int     `yaml:"alpha_threshold"`   // cells below this alpha are rejected
	SizeMin          float64 `yaml:"size_min"`          // particle size jitter band
	SizeMax          float64 `yaml:"size_max"`
	ReducedMotion    bool    `yaml:"reduced_motion"`    // render a single static frame
	ReducedParticles int     `yaml:"reduced_particles"` // fixed low count under reduced motion

	DissolveSec   float64 `yaml:"dissolve_sec"`
	ReformSec     float64 `yaml:"reform_sec"`
	SpeakBlendSec float64 `yaml:"speak_blend_sec"` // vortex -> speaking blend window

	Damping        float64 `yaml:"damping"`          // per-tick velocity damping
	ImplosionPull  float64 `yaml:"implosion_pull"`   // center pull at full ease, px/sec^2
	SpiralStrength float64 `yaml:"spiral_strength"`  // perpendicular component of the pull
	CenterFadeFrac float64 `yaml:"center_fade_frac"` // fade radius as fraction of half size
	ReformStep     float64 `yaml:"reform_step"`      // per-second convergence rate toward origin

	Vortex   VortexConfig   `yaml:"vortex"`
	Speaking SpeakingConfig `yaml:"speaking"`
}

// VortexConfig holds holding-pattern parameters.
type VortexConfig struct {
	MaxRadiusFrac  float64 `yaml:"max_radius_frac"`  // containment radius as fraction of half size
	BaseRadiusFrac float64 `yaml:"base_radius_frac"` // center of the scatter annulus
	RadiusWave     float64 `yaml:"radius_wave"`      // wave amplitude as fraction of half size
	WaveSpeed      float64 `yaml:"wave_speed"`       // rad/sec of the breathing wave
	AngularSpeed   float64 `yaml:"angular_speed"`    // base orbit speed, rad/sec
	AngularJitter  float64 `yaml:"angular_jitter"`   // per-particle speed variation fraction
	EdgeFadeStart  float64 `yaml:"edge_fade_start"`  // fraction of max radius where fade begins
	ArcIntervalSec float64 `yaml:"arc_interval_sec"` // decorative energy arc spawn period
	ArcLifeSec     float64 `yaml:"arc_life_sec"`
}

// SpeakingConfig holds audio-reactive sphere parameters.
type SpeakingConfig struct {
	ShellFraction float64 `yaml:"shell_fraction"` // fraction of particles on the shell
	ShellRadius   float64 `yaml:"shell_radius"`   // shell radius as fraction of render size
	RadiusGain    float64 `yaml:"radius_gain"`    // audio-driven radius swell
	RotationSpeed float64 `yaml:"rotation_speed"` // rad/sec base shell rotation
	Wander        float64 `yaml:"wander"`         // noise wander amplitude, px
	FlowSpeed     float64 `yaml:"flow_speed"`     // noise time scale for wander
	WispMinFrac   float64 `yaml:"wisp_min_frac"`  // inner wisp orbit as fraction of half size
	WispMaxFrac   float64 `yaml:"wisp_max_frac"`
	WispSpeed     float64 `yaml:"wisp_speed"` // rad/sec base wisp orbit speed
	GlowBase      float64 `yaml:"glow_base"`  // shell opacity floor
	GlowGain      float64 `yaml:"glow_gain"`  // audio-driven opacity gain
}

// AmbientConfig holds the fluid overlay parameters.
type AmbientConfig struct {
	NoiseScale     float64       `yaml:"noise_scale"`      // world -> noise coordinate scale
	TimeScale      float64       `yaml:"time_scale"`       // noise evolution speed
	FlowStrength   float64       `yaml:"flow_strength"`    // acceleration from the flow sample
	Damping        float64       `yaml:"damping"`          // per-tick velocity damping
	MaxSpeed       float64       `yaml:"max_speed"`        // px/sec velocity clamp (scaled per layer)
	CursorRadius   float64       `yaml:"cursor_radius"`    // attraction cutoff distance, px
	CursorStrength float64       `yaml:"cursor_strength"`  // attraction acceleration at the cursor
	EdgeFadeMargin float64       `yaml:"edge_fade_margin"` // linear fade band at canvas edges, px
	Layers         []LayerConfig `yaml:"layers"`
}

// LayerConfig defines one depth layer of the ambient overlay.
type LayerConfig struct {
	Name       string  `yaml:"name"`
	Count      int     `yaml:"count"`
	SizeMin    float64 `yaml:"size_min"`
	SizeMax    float64 `yaml:"size_max"`
	OpacityMin float64 `yaml:"opacity_min"`
	OpacityMax float64 `yaml:"opacity_max"`
	Speed      float64 `yaml:"speed"`   // speed multiplier relative to ambient max_speed
	ColorA     [3]int  `yaml:"color_a"` // gradient endpoints, RGB 0-255
	ColorB     [3]int  `yaml:"color_b"`
}

// AudioConfig holds audio reactivity parameters.
type AudioConfig struct {
	Sensitivity float64 `yaml:"sensitivity"` // scaling applied after clamping to [0,1]
	Attack      float64 `yaml:"attack"`      // smoothing factor when the level rises
	Release     float64 `yaml:"release"`     // smoothing factor when the level falls
}

// TelemetryConfig holds frame telemetry parameters.
type TelemetryConfig struct {
	Window int `yaml:"window"` // ticks per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	RenderSize32 float32 // Avatar.RenderSize as float32
	HalfSize32   float32 // half the render size (field center offset)
	ScreenW32    float32
	ScreenH32    float32
	AmbientCount int // total particle count across layers
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// Grid resolution is bounded so the worst-case cell count stays
	// inside the particle cap.
	if c.Avatar.GridResolution < 2 {
		c.Avatar.GridResolution = 2
	}
	if c.Avatar.MaxParticles > 0 {
		n := c.Avatar.GridResolution
		for n > 2 && n*n > c.Avatar.MaxParticles {
			n--
		}
		c.Avatar.GridResolution = n
	}

	c.Derived.RenderSize32 = float32(c.Avatar.RenderSize)
	c.Derived.HalfSize32 = float32(c.Avatar.RenderSize) / 2
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	total := 0
	for _, l := range c.Ambient.Layers {
		total += l.Count
	}
	c.Derived.AmbientCount = total
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
