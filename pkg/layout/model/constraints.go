package model

import (
	"fmt"
	"math"

	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout"
)

// Ergonomic bounds for desk work surfaces and their paired seats.
const (
	// DeskHeightMinCm and DeskHeightMaxCm bound a usable work surface.
	DeskHeightMinCm = 65
	DeskHeightMaxCm = 82

	// DeskPairMaxGapCm is the farthest a paired seat may sit from its desk.
	DeskPairMaxGapCm = 80
)

// TV viewing band, as multiples of the screen diagonal, and the maximum
// off-axis viewing angle in degrees.
const (
	TVDistanceMinDiagonals = 1.5
	TVDistanceMaxDiagonals = 3.0
	TVMaxViewingAngleDeg   = 30
)

// CheckPlacement validates a candidate placement against the room and the
// other placements already in the assignment. It returns nil when the
// placement is feasible, otherwise the first violated hard constraint.
// The candidate itself must not already be part of the assignment.
func (m *Model) CheckPlacement(a *Assignment, p layout.Placement) *layout.Violation {
	fp := p.Footprint()

	// Room-bounds containment.
	if !m.Room.ContainsRect(fp) {
		return &layout.Violation{
			Kind:    layout.ViolationBounds,
			ItemIDs: []string{p.FurnitureID},
			Hint:    fmt.Sprintf("%s extends outside the room bounds", p.FurnitureID),
		}
	}

	// Pairwise non-overlap against every already-selected item.
	for i := range a.Placements {
		q := &a.Placements[i]
		if q.FurnitureID == p.FurnitureID {
			continue
		}
		if v := checkPair(p, *q); v != nil {
			return v
		}
	}

	// Door clearance band.
	for _, d := range m.Room.Doors {
		if fp.DistanceToPoint(d.Position) < m.Room.MinDoorClearanceCm {
			return &layout.Violation{
				Kind:    layout.ViolationDoorClearance,
				ItemIDs: []string{p.FurnitureID},
				Hint:    fmt.Sprintf("%s blocks the clearance zone of door %s", p.FurnitureID, d.ID),
			}
		}
	}

	// Door swing arcs.
	for i, arc := range m.swings {
		if arc.IntersectsRect(fp) {
			return &layout.Violation{
				Kind:    layout.ViolationDoorSwing,
				ItemIDs: []string{p.FurnitureID},
				Hint:    fmt.Sprintf("%s obstructs the swing of door %s", p.FurnitureID, m.Room.Doors[i].ID),
			}
		}
	}

	// Window access for tall items.
	if p.IsTall() {
		for _, w := range m.Room.Windows {
			if fp.DistanceToPoint(w.Position) < m.Room.MinWindowAccessCm {
				return &layout.Violation{
					Kind:    layout.ViolationWindowAccess,
					ItemIDs: []string{p.FurnitureID},
					Hint:    fmt.Sprintf("%s blocks access to window %s", p.FurnitureID, w.ID),
				}
			}
		}
	}

	// Relationship constraints against already-placed partners.
	for i := range a.Placements {
		q := a.Placements[i]
		if v := checkTVBand(p, q); v != nil {
			return v
		}
		if v := checkTVBand(q, p); v != nil {
			return v
		}
		if v := checkErgonomics(p, q); v != nil {
			return v
		}
		if v := checkErgonomics(q, p); v != nil {
			return v
		}
	}
	return nil
}

// Feasible reports whether the whole assignment satisfies every hard
// constraint. It re-checks each placement against the others, so it is
// quadratic; use CheckPlacement for incremental construction.
func (m *Model) Feasible(a *Assignment) bool {
	return m.FirstViolation(a) == nil
}

// FirstViolation returns the first hard-constraint violation in the
// assignment, or nil when it is fully feasible.
func (m *Model) FirstViolation(a *Assignment) *layout.Violation {
	for i := range a.Placements {
		rest := &Assignment{Placements: append([]layout.Placement{}, a.Placements[:i]...)}
		if v := m.CheckPlacement(rest, a.Placements[i]); v != nil {
			return v
		}
	}
	return nil
}

// checkPair enforces pairwise spacing between two placed items: the
// footprints separated by the larger of the two clearance requirements,
// plus a conservative rotation-swept near-miss check for pairs that are
// not deliberately adjacent by a functional rule.
func checkPair(p, q layout.Placement) *layout.Violation {
	fp, fq := p.Footprint(), q.Footprint()
	required := math.Max(p.ClearanceCm, q.ClearanceCm)

	violation := func(hint string) *layout.Violation {
		return &layout.Violation{
			Kind:    layout.ViolationCollision,
			ItemIDs: []string{p.FurnitureID, q.FurnitureID},
			Hint:    hint,
		}
	}

	if functionalPair(p, q) {
		// Adjacent by design: overlap is still forbidden, spacing is not.
		if fp.Intersects(fq) {
			return violation(fmt.Sprintf("%s overlaps %s", p.FurnitureID, q.FurnitureID))
		}
		return nil
	}

	if fp.DistanceToRect(fq) < required {
		return violation(fmt.Sprintf("%s is closer than %.0f cm to %s", p.FurnitureID, required, q.FurnitureID))
	}
	if geometry.SweptOverlap(fp, fq, required) {
		return violation(fmt.Sprintf("%s would touch %s if rotated in place", p.FurnitureID, q.FurnitureID))
	}
	return nil
}

// functionalPair reports whether two placements are deliberately adjacent:
// a table fronting or flanking a seat, a desk with its paired chair, or a
// screen with its seating. Such pairs keep the non-overlap requirement but
// are exempt from the clearance band and rotation sweep.
func functionalPair(p, q layout.Placement) bool {
	related := func(a, b layout.Placement) bool {
		switch {
		case a.Category == "table" && b.Category == "seating":
			return true
		case a.Category == "work" && b.Category == "seating":
			return true
		case a.ScreenDiagonalCm > 0 && b.Category == "seating":
			return true
		}
		return false
	}
	return related(p, q) || related(q, p)
}

// checkTVBand enforces the viewing-distance band and off-axis angle between
// a screen item tv and a primary seat q. Secondary seats (footprint width
// under 150 cm) are unconstrained.
func checkTVBand(tv, seat layout.Placement) *layout.Violation {
	if tv.ScreenDiagonalCm <= 0 || seat.Category != "seating" || seat.WidthCm < 150 {
		return nil
	}
	dist := tv.Footprint().Center().Dist(seat.Footprint().Center())
	minD := TVDistanceMinDiagonals * tv.ScreenDiagonalCm
	maxD := TVDistanceMaxDiagonals * tv.ScreenDiagonalCm
	if dist < minD || dist > maxD {
		return &layout.Violation{
			Kind:    layout.ViolationTVAngle,
			ItemIDs: []string{tv.FurnitureID, seat.FurnitureID},
			Hint: fmt.Sprintf("viewing distance %.0f cm outside [%.0f, %.0f] for %s",
				dist, minD, maxD, tv.FurnitureID),
		}
	}

	facing := tv.Facing()
	tvCenter := tv.Footprint().Center()
	seatCenter := seat.Footprint().Center()
	to := geometry.Point{X: seatCenter.X - tvCenter.X, Y: seatCenter.Y - tvCenter.Y}
	norm := math.Hypot(to.X, to.Y)
	if norm == 0 {
		return nil
	}
	cos := (facing.X*to.X + facing.Y*to.Y) / norm
	angle := math.Acos(math.Max(-1, math.Min(1, cos))) * 180 / math.Pi
	if angle > TVMaxViewingAngleDeg {
		return &layout.Violation{
			Kind:    layout.ViolationTVAngle,
			ItemIDs: []string{tv.FurnitureID, seat.FurnitureID},
			Hint:    fmt.Sprintf("seating sits %.0f° off the screen axis of %s", angle, tv.FurnitureID),
		}
	}
	return nil
}

// checkErgonomics enforces work-surface bounds between a desk and a paired
// seat: the desk height must fall in the usable band and the seat must sit
// within reach of the desk.
func checkErgonomics(desk, seat layout.Placement) *layout.Violation {
	if desk.Category != "work" || seat.Category != "seating" {
		return nil
	}
	// Only seats meant for the desk participate; lounge seating is free to
	// sit anywhere.
	if !seat.HasRule("desk_pair") {
		return nil
	}
	if desk.HeightCm < DeskHeightMinCm || desk.HeightCm > DeskHeightMaxCm {
		return &layout.Violation{
			Kind:    layout.ViolationErgonomics,
			ItemIDs: []string{desk.FurnitureID},
			Hint: fmt.Sprintf("%s surface height %.0f cm outside [%d, %d]",
				desk.FurnitureID, desk.HeightCm, DeskHeightMinCm, DeskHeightMaxCm),
		}
	}
	gap := desk.Footprint().DistanceToRect(seat.Footprint())
	if gap > DeskPairMaxGapCm {
		return &layout.Violation{
			Kind:    layout.ViolationErgonomics,
			ItemIDs: []string{desk.FurnitureID, seat.FurnitureID},
			Hint: fmt.Sprintf("%s sits %.0f cm from %s (max %d)",
				seat.FurnitureID, gap, desk.FurnitureID, DeskPairMaxGapCm),
		}
	}
	return nil
}
