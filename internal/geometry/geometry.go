// Package geometry implements the 2D primitives the world is built from:
// points, axis-aligned road segments, and the thickened "corridor" test a
// dog or lost object position is checked against.
package geometry

// CorridorHalfWidth is the fixed corridor half-width W from the
// specification: every road's walkable region extends this far
// perpendicular to the road's axis, and this far past each endpoint.
const CorridorHalfWidth = 0.4

// Point2D is a position in map units.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{X: p.X + q.X, Y: p.Y + q.Y}
}

// Scale returns p scaled by s.
func (p Point2D) Scale(s float64) Point2D {
	return Point2D{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product of p and q.
func (p Point2D) Dot(q Point2D) float64 {
	return p.X*q.X + p.Y*q.Y
}

// SqDistanceTo returns the squared distance between p and q.
func (p Point2D) SqDistanceTo(q Point2D) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Segment is an axis-aligned road segment with integer endpoints. Exactly
// one of X0==X1 or Y0==Y1 holds; never both, never neither.
type Segment struct {
	X0, Y0 int
	X1, Y1 int
}

// IsHorizontal reports whether the segment runs along the X axis.
func (s Segment) IsHorizontal() bool {
	return s.Y0 == s.Y1
}

// IsVertical reports whether the segment runs along the Y axis.
func (s Segment) IsVertical() bool {
	return s.X0 == s.X1
}

// Start returns the segment's starting point.
func (s Segment) Start() Point2D {
	return Point2D{X: float64(s.X0), Y: float64(s.Y0)}
}

// End returns the segment's ending point.
func (s Segment) End() Point2D {
	return Point2D{X: float64(s.X1), Y: float64(s.Y1)}
}

// Bounds returns the thickened corridor rectangle as (minX, minY, maxX, maxY).
func (s Segment) Bounds() (minX, minY, maxX, maxY float64) {
	x0, x1 := float64(s.X0), float64(s.X1)
	y0, y1 := float64(s.Y0), float64(s.Y1)
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return x0 - CorridorHalfWidth, y0 - CorridorHalfWidth, x1 + CorridorHalfWidth, y1 + CorridorHalfWidth
}

// Contains reports whether p lies within the segment's thickened corridor:
// the segment widened by CorridorHalfWidth perpendicular to its axis and
// extended by the same amount past each endpoint.
func (s Segment) Contains(p Point2D) bool {
	minX, minY, maxX, maxY := s.Bounds()
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}

// UniformPointOn returns a uniformly random point lying exactly on the
// segment (not corridor-thickened), using r to pick the free-axis fraction.
// r must be in [0, 1); callers pass rand.Float64().
func (s Segment) UniformPointOn(r float64) Point2D {
	if s.IsHorizontal() {
		x0, x1 := float64(s.X0), float64(s.X1)
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		return Point2D{X: x0 + r*(x1-x0), Y: float64(s.Y0)}
	}
	y0, y1 := float64(s.Y0), float64(s.Y1)
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Point2D{X: float64(s.X0), Y: y0 + r*(y1-y0)}
}

// Clamp returns v restricted to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
