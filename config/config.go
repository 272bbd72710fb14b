// Package config provides configuration loading and access for the ripple surface.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all ripple surface configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Field      FieldConfig      `yaml:"field"`
	Pointer    PointerConfig    `yaml:"pointer"`
	Contact    ContactConfig    `yaml:"contact"`
	Bodies     []BodyConfig     `yaml:"bodies"`
	Compositor CompositorConfig `yaml:"compositor"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Terminal   TerminalConfig   `yaml:"terminal"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display and scheduling settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	TickRate  float64 `yaml:"tick_rate"` // Fixed simulation ticks per second
}

// FieldConfig holds ripple field parameters. Immutable once a field is built.
type FieldConfig struct {
	Size       int     `yaml:"size"`        // Buffer edge length in samples
	BaseRadius float64 `yaml:"base_radius"` // Starting radius in normalized units
	MaxAge     float64 `yaml:"max_age"`     // Age after which a ripple is dropped
	AgeRate    float64 `yaml:"age_rate"`    // Added to every ripple's age per tick
	MaxRipples int     `yaml:"max_ripples"` // FIFO bound applied at spawn time
	Workers    int     `yaml:"workers"`     // Raster row-band goroutines (0 = NumCPU)
}

// PointerConfig holds pointer-to-ripple dispatch parameters.
type PointerConfig struct {
	Gain          float64 `yaml:"gain"`           // Momentum per unit of normalized distance
	MaxMomentum   float64 `yaml:"max_momentum"`   // Momentum cap
	DeadZone      float64 `yaml:"dead_zone"`      // Momentum at or below this spawns nothing
	QueueCapacity int     `yaml:"queue_capacity"` // Pending samples between ticks
}

// ContactConfig holds the water-line detector and splash burst geometry.
type ContactConfig struct {
	BandLow        float64 `yaml:"band_low"`        // Exclusive lower bound of the contact band
	BandHigh       float64 `yaml:"band_high"`       // Exclusive upper bound of the contact band
	Throttle       int     `yaml:"throttle"`        // Burst only when tick % throttle == 0
	OuterCount     int     `yaml:"outer_count"`     // Ripples on the outer ring
	OuterRadius    float64 `yaml:"outer_radius"`    // Outer ring radius (UV units)
	OuterMomentum  float64 `yaml:"outer_momentum"`
	CenterMomentum float64 `yaml:"center_momentum"`
	InnerCount     int     `yaml:"inner_count"`  // Ripples on the inner ring
	InnerRadius    float64 `yaml:"inner_radius"` // Inner ring radius (UV units)
	InnerMomentum  float64 `yaml:"inner_momentum"`
}

// BodyConfig places one floating body on the surface.
type BodyConfig struct {
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	Amplitude    float64 `yaml:"amplitude"`     // Vertical oscillation amplitude
	AngularSpeed float64 `yaml:"angular_speed"` // Radians per tick
	Radius       float64 `yaml:"radius"`        // Drawn radius (UV units)
}

// CompositorConfig holds surface shading parameters.
type CompositorConfig struct {
	Strength    float64 `yaml:"strength"`  // Displacement scale applied to sample UVs
	TimeStep    float64 `yaml:"time_step"` // Time uniform advance per tick
	ShaderPath  string  `yaml:"shader_path"`
	TextureSize int     `yaml:"-"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds of simulated time per window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Ticks averaged by the perf collector
	SampleStride        int     `yaml:"sample_stride"`         // Buffer sampling stride for displacement stats
}

// TerminalConfig holds terminal front end settings.
type TerminalConfig struct {
	FrameInterval float64 `yaml:"frame_interval"` // Seconds between terminal redraws
	Glyph         string  `yaml:"glyph"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickDT       float64 // Seconds per simulation tick
	WindowTicks  int     // Ticks per telemetry window
	ScreenW32    float32
	ScreenH32    float32
	BufferPixels int // Field.Size squared
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

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
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

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

	cfg.applyBodyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// applyBodyDefaults fills in body fields a user file left at zero.
func (c *Config) applyBodyDefaults() {
	if len(c.Bodies) == 0 {
		c.Bodies = []BodyConfig{{X: 0.5, Y: 0.5}}
	}
	for i := range c.Bodies {
		b := &c.Bodies[i]
		if b.Amplitude == 0 {
			b.Amplitude = 0.15
		}
		if b.AngularSpeed == 0 {
			b.AngularSpeed = 0.008
		}
		if b.Radius == 0 {
			b.Radius = 0.175
		}
	}
}

// Validate checks the values that construction depends on.
func (c *Config) Validate() error {
	f := c.Field
	switch {
	case f.Size <= 0:
		return fmt.Errorf("%w: field.size must be > 0, got %d", ErrInvalid, f.Size)
	case f.MaxAge <= 0:
		return fmt.Errorf("%w: field.max_age must be > 0, got %g", ErrInvalid, f.MaxAge)
	case f.MaxRipples < 1:
		return fmt.Errorf("%w: field.max_ripples must be >= 1, got %d", ErrInvalid, f.MaxRipples)
	case f.BaseRadius <= 0:
		return fmt.Errorf("%w: field.base_radius must be > 0, got %g", ErrInvalid, f.BaseRadius)
	case f.AgeRate < 0:
		return fmt.Errorf("%w: field.age_rate must be >= 0, got %g", ErrInvalid, f.AgeRate)
	case f.Workers < 0:
		return fmt.Errorf("%w: field.workers must be >= 0, got %d", ErrInvalid, f.Workers)
	}
	if c.Contact.Throttle < 1 {
		return fmt.Errorf("%w: contact.throttle must be >= 1, got %d", ErrInvalid, c.Contact.Throttle)
	}
	if c.Contact.BandLow >= c.Contact.BandHigh {
		return fmt.Errorf("%w: contact.band_low (%g) must be below band_high (%g)",
			ErrInvalid, c.Contact.BandLow, c.Contact.BandHigh)
	}
	if c.Pointer.QueueCapacity < 1 {
		return fmt.Errorf("%w: pointer.queue_capacity must be >= 1, got %d", ErrInvalid, c.Pointer.QueueCapacity)
	}
	if c.Screen.TickRate <= 0 {
		return fmt.Errorf("%w: screen.tick_rate must be > 0, got %g", ErrInvalid, c.Screen.TickRate)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TickDT = 1.0 / c.Screen.TickRate
	c.Derived.WindowTicks = int(c.Telemetry.StatsWindow * c.Screen.TickRate)
	if c.Derived.WindowTicks < 1 {
		c.Derived.WindowTicks = 1
	}
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.BufferPixels = c.Field.Size * c.Field.Size
	c.Compositor.TextureSize = c.Field.Size
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
