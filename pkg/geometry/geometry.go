// Package geometry provides the canonical geometric model for room layouts.
//
// All downstream components (constraint building, solving, validation, flow
// scoring) call into this package rather than re-implementing geometric
// queries. The package is side-effect free: every function is a pure query
// over immutable inputs.
//
// # Units
//
// All internal computation is in centimeters with the origin at the room's
// minimum corner. The API boundary accepts room plans in meters (the wire
// convention of the scanning pipeline) and converts exactly once in NewRoom.
// Rotation is expressed in degrees.
//
// # Footprints
//
// A furniture footprint is an axis-aligned rectangle after discrete rotation
// (0/90/180/270 degrees swap width and depth). Conservative collision checks
// use the rotation-swept disk: the union of all rotations of a rectangle
// about its center, which is a disk of radius half the diagonal.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is a position in centimeters from the room's minimum corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Orb converts the point to an orb.Point for planar operations.
func (p Point) Orb() orb.Point { return orb.Point{p.X, p.Y} }

// Dist returns the Euclidean distance to q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Segment is a directed line segment between two points.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Length returns the segment length.
func (s Segment) Length() float64 { return s.Start.Dist(s.End) }

// Midpoint returns the segment midpoint.
func (s Segment) Midpoint() Point {
	return Point{X: (s.Start.X + s.End.X) / 2, Y: (s.Start.Y + s.End.Y) / 2}
}

// Direction returns the unit direction vector from Start to End.
// A zero-length segment yields the zero vector.
func (s Segment) Direction() Point {
	l := s.Length()
	if l == 0 {
		return Point{}
	}
	return Point{X: (s.End.X - s.Start.X) / l, Y: (s.End.Y - s.Start.Y) / l}
}

// DistanceToPoint returns the shortest distance from p to the segment.
func (s Segment) DistanceToPoint(p Point) float64 {
	dx := s.End.X - s.Start.X
	dy := s.End.Y - s.Start.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return s.Start.Dist(p)
	}
	t := ((p.X-s.Start.X)*dx + (p.Y-s.Start.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := Point{X: s.Start.X + t*dx, Y: s.Start.Y + t*dy}
	return closest.Dist(p)
}

// Project returns the parameter t in [0,1] of the closest point on the
// segment to p, measured from Start.
func (s Segment) Project(p Point) float64 {
	dx := s.End.X - s.Start.X
	dy := s.End.Y - s.Start.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return 0
	}
	t := ((p.X-s.Start.X)*dx + (p.Y-s.Start.Y)*dy) / lenSq
	return math.Max(0, math.Min(1, t))
}

// At returns the point at parameter t along the segment.
func (s Segment) At(t float64) Point {
	return Point{
		X: s.Start.X + t*(s.End.X-s.Start.X),
		Y: s.Start.Y + t*(s.End.Y-s.Start.Y),
	}
}

// Intersects reports whether the two segments cross or touch.
func (s Segment) Intersects(o Segment) bool {
	d1 := orient(o.Start, o.End, s.Start)
	d2 := orient(o.Start, o.End, s.End)
	d3 := orient(s.Start, s.End, o.Start)
	d4 := orient(s.Start, s.End, o.End)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear touch cases.
	if d1 == 0 && onSegment(o.Start, o.End, s.Start) {
		return true
	}
	if d2 == 0 && onSegment(o.Start, o.End, s.End) {
		return true
	}
	if d3 == 0 && onSegment(s.Start, s.End, o.Start) {
		return true
	}
	if d4 == 0 && onSegment(s.Start, s.End, o.End) {
		return true
	}
	return false
}

// orient returns the sign of the cross product (b-a) x (c-a).
func orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// onSegment reports whether p lies within the bounding box of segment ab.
// Callers must have already established collinearity.
func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}
