package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	f := cfg.Field
	if f.Size != 512 || f.BaseRadius != 0.06 || f.MaxAge != 140 || f.AgeRate != 0.35 || f.MaxRipples != 15 {
		t.Errorf("unexpected field defaults: %+v", f)
	}
	if cfg.Contact.Throttle != 5 || cfg.Contact.OuterCount != 12 || cfg.Contact.InnerCount != 8 {
		t.Errorf("unexpected contact defaults: %+v", cfg.Contact)
	}
	if len(cfg.Bodies) != 1 {
		t.Fatalf("expected one default body, got %d", len(cfg.Bodies))
	}
	if cfg.Derived.BufferPixels != 512*512 {
		t.Errorf("expected 512*512 buffer pixels, got %d", cfg.Derived.BufferPixels)
	}
	if cfg.Derived.WindowTicks != 300 {
		t.Errorf("expected 300 ticks per window, got %d", cfg.Derived.WindowTicks)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	data := []byte("field:\n  max_ripples: 4\nbodies:\n  - x: 0.25\n    y: 0.75\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}
	if cfg.Field.MaxRipples != 4 {
		t.Errorf("expected max_ripples 4, got %d", cfg.Field.MaxRipples)
	}
	if cfg.Field.Size != 512 {
		t.Errorf("expected size to keep default 512, got %d", cfg.Field.Size)
	}

	b := cfg.Bodies[0]
	if b.X != 0.25 || b.Y != 0.75 {
		t.Errorf("expected body at (0.25, 0.75), got (%g, %g)", b.X, b.Y)
	}
	if b.Amplitude != 0.15 || b.AngularSpeed != 0.008 {
		t.Errorf("expected body oscillation defaults, got amplitude=%g speed=%g", b.Amplitude, b.AngularSpeed)
	}
}

func TestValidateRejectsBadField(t *testing.T) {
	cases := map[string]func(c *Config){
		"size":        func(c *Config) { c.Field.Size = 0 },
		"max_age":     func(c *Config) { c.Field.MaxAge = 0 },
		"max_ripples": func(c *Config) { c.Field.MaxRipples = 0 },
		"base_radius": func(c *Config) { c.Field.BaseRadius = -1 },
		"throttle":    func(c *Config) { c.Contact.Throttle = 0 },
		"band":        func(c *Config) { c.Contact.BandLow = c.Contact.BandHigh },
	}

	for name, mutate := range cases {
		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		mutate(cfg)
		err = cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", name)
			continue
		}
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Field.MaxRipples = 9

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if reloaded.Field.MaxRipples != 9 {
		t.Errorf("expected max_ripples 9 after reload, got %d", reloaded.Field.MaxRipples)
	}
}
