// Package layout defines the artifacts that cross the engine boundary:
// resolved placements, scored solutions, violation reports, and the
// navigability grid. Sub-packages implement the stages that produce them
// (model, seed, solve, anneal, validate, flow, rank).
//
// Coordinates follow the engine convention: centimeters from the room's
// minimum corner, rotation in discrete degrees, prices in integer cents.
package layout

import (
	"math"

	"github.com/matzehuels/roomforge/pkg/geometry"
)

// Placement is a resolved furniture position. Placements are enriched with
// the item's dimensions and price so a solution can be validated and costed
// without re-resolving the catalog.
type Placement struct {
	FurnitureID string `json:"furniture_id"`
	Name        string `json:"furniture_name,omitempty"`
	Category    string `json:"category,omitempty"`

	XCm         float64 `json:"x_cm"`
	YCm         float64 `json:"y_cm"`
	RotationDeg int     `json:"rotation"`

	WidthCm          float64  `json:"width_cm"`
	DepthCm          float64  `json:"depth_cm"`
	HeightCm         float64  `json:"height_cm"`
	ClearanceCm      float64  `json:"clearance_cm"`
	PriceCents       int64    `json:"price_cents"`
	ScreenDiagonalCm float64  `json:"screen_diagonal_cm,omitempty"`
	Rules            []string `json:"placement_rules,omitempty"`

	// Anchor records which heuristic produced the initial position, when
	// the placement originated from a seed.
	Anchor string `json:"anchor_type,omitempty"`
}

// HasRule reports whether the placement's item carries the named rule.
func (p Placement) HasRule(rule string) bool {
	for _, r := range p.Rules {
		if r == rule {
			return true
		}
	}
	return false
}

// Footprint returns the axis-aligned floor rectangle of the placement.
func (p Placement) Footprint() geometry.Rect {
	return geometry.FootprintRect(p.XCm, p.YCm, p.WidthCm, p.DepthCm, p.RotationDeg)
}

// InflatedFootprint returns the footprint grown by the item's clearance.
func (p Placement) InflatedFootprint() geometry.Rect {
	return p.Footprint().Inflate(p.ClearanceCm)
}

// Facing returns the unit vector the item faces: the outward normal of its
// front edge for each discrete rotation. Rotation 0 faces +y.
func (p Placement) Facing() geometry.Point {
	switch ((p.RotationDeg % 360) + 360) % 360 {
	case 90:
		return geometry.Point{X: 1, Y: 0}
	case 180:
		return geometry.Point{X: 0, Y: -1}
	case 270:
		return geometry.Point{X: -1, Y: 0}
	default:
		return geometry.Point{X: 0, Y: 1}
	}
}

// IsTall reports whether the placement blocks window access.
func (p Placement) IsTall() bool { return p.HeightCm > 100 }

// ViolationKind classifies a hard-constraint violation.
type ViolationKind string

// Violation kinds.
const (
	ViolationCollision     ViolationKind = "collision"
	ViolationDoorClearance ViolationKind = "door-clearance"
	ViolationWindowAccess  ViolationKind = "window-access"
	ViolationBounds        ViolationKind = "bounds"
	ViolationDoorSwing     ViolationKind = "door-swing"
	ViolationTVAngle       ViolationKind = "tv-angle"
	ViolationErgonomics    ViolationKind = "ergonomics"
)

// Violation is a single hard-constraint failure with a user-facing hint.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	ItemIDs []string      `json:"item_ids"`
	Hint    string        `json:"hint"`
}

// Metrics summarizes a solution for ranking and reporting.
type Metrics struct {
	TotalCostCents int64   `json:"total_cost_cents"`
	FurnitureCount int     `json:"furniture_count"`
	CoverageRatio  float64 `json:"coverage_ratio"`
	FlowScore      float64 `json:"flow_score"`
}

// Solution is a complete, scored furniture arrangement. Solutions are the
// only artifacts that escape the engine; everything else is discarded after
// the solve session.
type Solution struct {
	ID         string      `json:"id"`
	Name       string      `json:"name,omitempty"`
	Strategy   string      `json:"strategy,omitempty"`
	Placements []Placement `json:"placements"`
	Score      float64     `json:"score"`
	Rationale  string      `json:"rationale,omitempty"`
	Violations []Violation `json:"violations"`
	Metrics    Metrics     `json:"metrics"`
	Partial    bool        `json:"partial,omitempty"`
}

// TotalCost sums the prices of all placements.
func (s Solution) TotalCost() int64 {
	var total int64
	for _, p := range s.Placements {
		total += p.PriceCents
	}
	return total
}

// Grid is a coarse occupancy / navigation grid over the room floor.
// Cell values: -1 outside the room, 0 blocked, (0,1] walkable with higher
// values meaning more clearance. Cells are stored row-major, y-major.
type Grid struct {
	ResolutionCm float64   `json:"resolution_cm"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Cells        []float64 `json:"cells"`
}

// NewGrid allocates a grid covering width x height centimeters.
func NewGrid(widthCm, heightCm, resolutionCm float64) Grid {
	w := int(math.Ceil(widthCm/resolutionCm)) + 1
	h := int(math.Ceil(heightCm/resolutionCm)) + 1
	return Grid{
		ResolutionCm: resolutionCm,
		Width:        w,
		Height:       h,
		Cells:        make([]float64, w*h),
	}
}

// At returns the cell value at (ix, iy). Out-of-range cells read as -1.
func (g *Grid) At(ix, iy int) float64 {
	if ix < 0 || iy < 0 || ix >= g.Width || iy >= g.Height {
		return -1
	}
	return g.Cells[iy*g.Width+ix]
}

// Set writes the cell value at (ix, iy). Out-of-range writes are ignored.
func (g *Grid) Set(ix, iy int, v float64) {
	if ix < 0 || iy < 0 || ix >= g.Width || iy >= g.Height {
		return
	}
	g.Cells[iy*g.Width+ix] = v
}

// CellOf maps a point in centimeters to grid indices.
func (g *Grid) CellOf(p geometry.Point) (int, int) {
	return int(p.X / g.ResolutionCm), int(p.Y / g.ResolutionCm)
}

// CenterOf maps grid indices to the cell center in centimeters.
func (g *Grid) CenterOf(ix, iy int) geometry.Point {
	return geometry.Point{
		X: (float64(ix) + 0.5) * g.ResolutionCm,
		Y: (float64(iy) + 0.5) * g.ResolutionCm,
	}
}

// Walkable reports whether the cell is inside the room and unblocked.
func (g *Grid) Walkable(ix, iy int) bool { return g.At(ix, iy) > 0 }
