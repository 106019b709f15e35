package domain

import "math"

// Position is a point in world space. X/Y are the authoritative planar pair,
// Z is the vertical offset reported by the client.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PlanarDistanceTo ignores the vertical axis.
func (p Position) PlanarDistanceTo(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Shift returns a copy moved on the plane.
func (p Position) Shift(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy, Z: p.Z}
}
