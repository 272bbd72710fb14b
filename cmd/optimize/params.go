// Package main provides CMA-ES calibration of ripple field parameters.
package main

import (
	"github.com/pthm-cable/ripple/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Field
			{Name: "base_radius", Path: "field.base_radius", Min: 0.02, Max: 0.15, Default: 0.06},
			{Name: "max_age", Path: "field.max_age", Min: 40, Max: 300, Default: 140},
			{Name: "age_rate", Path: "field.age_rate", Min: 0.1, Max: 1.5, Default: 0.35},
			{Name: "max_ripples", Path: "field.max_ripples", Min: 4, Max: 48, Default: 15},
			// Pointer
			{Name: "pointer_gain", Path: "pointer.gain", Min: 2, Max: 30, Default: 10},
			{Name: "max_momentum", Path: "pointer.max_momentum", Min: 0.5, Max: 3, Default: 1.5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Field.BaseRadius = clamped[0]
	cfg.Field.MaxAge = clamped[1]
	cfg.Field.AgeRate = clamped[2]
	cfg.Field.MaxRipples = int(clamped[3] + 0.5)
	cfg.Pointer.Gain = clamped[4]
	cfg.Pointer.MaxMomentum = clamped[5]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Field.BaseRadius,
		cfg.Field.MaxAge,
		cfg.Field.AgeRate,
		float64(cfg.Field.MaxRipples),
		cfg.Pointer.Gain,
		cfg.Pointer.MaxMomentum,
	}
}
