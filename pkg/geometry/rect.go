package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Rect is an axis-aligned rectangle in centimeters.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Area returns the rectangle area.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Center returns the rectangle center point.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Contains reports whether p lies inside or on the rectangle boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// ContainsRect reports whether o lies entirely within r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.MinX >= r.MinX && o.MaxX <= r.MaxX && o.MinY >= r.MinY && o.MaxY <= r.MaxY
}

// Intersects reports whether the interiors of r and o overlap.
// Rectangles that merely share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Inflate grows the rectangle by d on every side. Negative d shrinks it.
func (r Rect) Inflate(d float64) Rect {
	return Rect{MinX: r.MinX - d, MinY: r.MinY - d, MaxX: r.MaxX + d, MaxY: r.MaxY + d}
}

// DistanceToPoint returns the shortest distance from p to the rectangle.
// Points inside the rectangle have distance 0.
func (r Rect) DistanceToPoint(p Point) float64 {
	dx := math.Max(math.Max(r.MinX-p.X, 0), p.X-r.MaxX)
	dy := math.Max(math.Max(r.MinY-p.Y, 0), p.Y-r.MaxY)
	return math.Hypot(dx, dy)
}

// DistanceToRect returns the shortest distance between the two rectangles.
// Overlapping rectangles have distance 0.
func (r Rect) DistanceToRect(o Rect) float64 {
	dx := math.Max(math.Max(o.MinX-r.MaxX, 0), r.MinX-o.MaxX)
	dy := math.Max(math.Max(o.MinY-r.MaxY, 0), r.MinY-o.MaxY)
	return math.Hypot(dx, dy)
}

// DistanceToSegment returns the shortest distance from the rectangle to s.
func (r Rect) DistanceToSegment(s Segment) float64 {
	if r.Contains(s.Start) || r.Contains(s.End) {
		return 0
	}
	for _, edge := range r.Edges() {
		if edge.Intersects(s) {
			return 0
		}
	}
	d := math.Inf(1)
	for _, edge := range r.Edges() {
		d = math.Min(d, s.DistanceToPoint(edge.Start))
	}
	d = math.Min(d, r.DistanceToPoint(s.Start))
	d = math.Min(d, r.DistanceToPoint(s.End))
	return d
}

// Edges returns the four boundary segments in counter-clockwise order.
func (r Rect) Edges() [4]Segment {
	a := Point{r.MinX, r.MinY}
	b := Point{r.MaxX, r.MinY}
	c := Point{r.MaxX, r.MaxY}
	d := Point{r.MinX, r.MaxY}
	return [4]Segment{{a, b}, {b, c}, {c, d}, {d, a}}
}

// Ring returns the rectangle boundary as a closed orb.Ring, suitable for
// planar containment and distance queries.
func (r Rect) Ring() orb.Ring {
	return orb.Ring{
		{r.MinX, r.MinY},
		{r.MaxX, r.MinY},
		{r.MaxX, r.MaxY},
		{r.MinX, r.MaxY},
		{r.MinX, r.MinY},
	}
}

// RingContains reports whether p lies inside the rectangle using the planar
// ring test. Equivalent to Contains for well-formed rectangles; exposed so
// validators operate on the same predicate used for arbitrary rings.
func (r Rect) RingContains(p Point) bool {
	return planar.RingContains(r.Ring(), p.Orb())
}

// RotatedDims returns the footprint width and depth after rotating a
// width x depth item by the given discrete rotation. Rotations of 90 and 270
// degrees swap the dimensions; all other values leave them unchanged.
func RotatedDims(widthCm, depthCm float64, rotationDeg int) (float64, float64) {
	rot := ((rotationDeg % 360) + 360) % 360
	if rot == 90 || rot == 270 {
		return depthCm, widthCm
	}
	return widthCm, depthCm
}

// FootprintRect returns the axis-aligned footprint of an item whose
// reference corner (minimum corner after rotation) sits at (x, y).
func FootprintRect(xCm, yCm, widthCm, depthCm float64, rotationDeg int) Rect {
	w, d := RotatedDims(widthCm, depthCm, rotationDeg)
	return Rect{MinX: xCm, MinY: yCm, MaxX: xCm + w, MaxY: yCm + d}
}

// SweptRadius returns the radius of the rotation-swept disk of a
// width x depth footprint: half the rectangle diagonal. The swept disk is
// the union of the footprint across every permitted rotation about its
// center, used for conservative collision checks.
func SweptRadius(widthCm, depthCm float64) float64 {
	return math.Hypot(widthCm, depthCm) / 2
}

// SweptOverlap reports whether the rotation-swept disks of two footprints
// come closer than the required pairwise clearance. The clearance is the
// larger of the two items' requirements, matching how inflated footprints
// are compared everywhere else in the engine.
func SweptOverlap(a, b Rect, clearanceCm float64) bool {
	ra := SweptRadius(a.Width(), a.Height())
	rb := SweptRadius(b.Width(), b.Height())
	return a.Center().Dist(b.Center()) < ra+rb+clearanceCm
}
