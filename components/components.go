// Package components defines ECS components for floating bodies.
package components

import "github.com/pthm-cable/ripple/systems"

// Float attaches a bobbing motion and water-line detection to an entity.
// The detector owns the body's anchor on the surface.
type Float struct {
	Detector *systems.BodyContactDetector
	Radius   float64 // Drawn radius (surface units, relative to height)
}
