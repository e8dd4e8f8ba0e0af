package geometry

import "math"

// SwingArc models a door swing as a quarter circle originating at the hinge.
// FromRad and ToRad bound the swept angle counter-clockwise, with ToRad
// greater than FromRad by pi/2 for a standard door.
type SwingArc struct {
	Hinge   Point
	Radius  float64
	FromRad float64
	ToRad   float64
}

// DoorSwing derives the swing arc for a door within a room. The hinge sits
// at the edge of the opening along the nearest wall; the arc sweeps a
// quarter circle of radius equal to the door width into the room interior.
// Doors marked "outward" swing away from the room and return a zero-radius
// arc that intersects nothing.
func DoorSwing(door Door, room *Room) SwingArc {
	if door.SwingDirection == "outward" {
		return SwingArc{Hinge: door.Position}
	}

	// Find the wall the door sits on to orient the hinge.
	var wallDir Point
	bestDist := math.Inf(1)
	for _, w := range room.Walls {
		d := w.Segment().DistanceToPoint(door.Position)
		if d < bestDist {
			bestDist = d
			wallDir = w.Segment().Direction()
		}
	}
	if bestDist == math.Inf(1) {
		// No walls: assume an x-aligned opening.
		wallDir = Point{X: 1, Y: 0}
	}

	hinge := Point{
		X: door.Position.X - wallDir.X*door.WidthCm/2,
		Y: door.Position.Y - wallDir.Y*door.WidthCm/2,
	}

	// The arc sweeps from the wall direction toward the room interior.
	wallAngle := math.Atan2(wallDir.Y, wallDir.X)
	center := room.Center()
	toCenter := math.Atan2(center.Y-hinge.Y, center.X-hinge.X)

	// Pick the quarter turn from the wall axis that faces the interior.
	from, to := wallAngle, wallAngle+math.Pi/2
	if angularDistance(toCenter, wallAngle-math.Pi/4) < angularDistance(toCenter, wallAngle+math.Pi/4) {
		from, to = wallAngle-math.Pi/2, wallAngle
	}

	return SwingArc{Hinge: hinge, Radius: door.WidthCm, FromRad: from, ToRad: to}
}

// ContainsPoint reports whether p lies within the swept quarter disk.
func (a SwingArc) ContainsPoint(p Point) bool {
	if a.Radius <= 0 {
		return false
	}
	if a.Hinge.Dist(p) > a.Radius {
		return false
	}
	angle := math.Atan2(p.Y-a.Hinge.Y, p.X-a.Hinge.X)
	return angleWithin(angle, a.FromRad, a.ToRad)
}

// IntersectsRect reports whether the swept quarter disk touches the
// rectangle. The check samples the arc boundary and the hinge rays in
// addition to testing rectangle corners against the disk; the sampling is
// dense enough that any intersection deeper than 1 cm is detected.
func (a SwingArc) IntersectsRect(r Rect) bool {
	if a.Radius <= 0 {
		return false
	}

	// Quick reject: rectangle entirely outside the full disk.
	if r.DistanceToPoint(a.Hinge) > a.Radius {
		return false
	}

	// Rectangle corners (and center) inside the quarter disk.
	for _, c := range []Point{
		{r.MinX, r.MinY}, {r.MaxX, r.MinY}, {r.MaxX, r.MaxY}, {r.MinX, r.MaxY}, r.Center(),
	} {
		if a.ContainsPoint(c) {
			return true
		}
	}

	// Hinge inside the rectangle.
	if r.Contains(a.Hinge) {
		return true
	}

	// Sample the arc boundary and both bounding rays.
	const samples = 32
	for i := 0; i <= samples; i++ {
		t := a.FromRad + (a.ToRad-a.FromRad)*float64(i)/samples
		edge := Point{
			X: a.Hinge.X + a.Radius*math.Cos(t),
			Y: a.Hinge.Y + a.Radius*math.Sin(t),
		}
		if r.Contains(edge) {
			return true
		}
	}
	for _, t := range []float64{a.FromRad, a.ToRad} {
		for i := 1; i <= samples; i++ {
			d := a.Radius * float64(i) / samples
			p := Point{X: a.Hinge.X + d*math.Cos(t), Y: a.Hinge.Y + d*math.Sin(t)}
			if r.Contains(p) {
				return true
			}
		}
	}
	return false
}

// angularDistance returns the absolute difference between two angles,
// normalized to [0, pi].
func angularDistance(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// angleWithin reports whether angle lies in [from, to], accounting for wrap.
func angleWithin(angle, from, to float64) bool {
	norm := func(a float64) float64 {
		a = math.Mod(a, 2*math.Pi)
		if a < 0 {
			a += 2 * math.Pi
		}
		return a
	}
	a, f, t := norm(angle), norm(from), norm(to)
	if f <= t {
		return a >= f && a <= t
	}
	return a >= f || a <= t
}
