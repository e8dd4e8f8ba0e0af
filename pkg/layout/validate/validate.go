// Package validate re-checks finished layouts independently of the solver:
// it works from placements and room geometry alone, recomputing every hard
// constraint and a set of quality metrics (clearance heatmap, walkable
// share, space utilization, furniture accessibility). The engine treats
// this package as authoritative; a solver result that fails validation is
// discarded.
package validate

import (
	"fmt"
	"math"

	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/layout/flow"
	"github.com/matzehuels/roomforge/pkg/layout/model"
)

// Clearance heatmap ramp: cells nearer than TightDistanceCm to furniture
// read 0, cells beyond ComfortDistanceCm read 1.
const (
	TightDistanceCm   = 30
	ComfortDistanceCm = 150
)

// Utilization band considered healthy for living spaces.
const (
	UtilizationLow  = 0.25
	UtilizationHigh = 0.35
)

// Report is the full validation result for one layout.
type Report struct {
	Valid      bool               `json:"valid"`
	Violations []layout.Violation `json:"violations"`

	Heatmap          layout.Grid `json:"heatmap"`
	WalkableRatio    float64     `json:"walkable_ratio"`
	SpaceUtilization float64     `json:"space_utilization"`
	Accessibility    float64     `json:"accessibility"`
	FlowScore        float64     `json:"flow_score"`

	Recommendations []string `json:"recommendations"`
	OverallScore    float64  `json:"overall_score"`
}

// Validator checks layouts against room geometry.
type Validator struct {
	ResolutionCm float64
	flow         *flow.Scorer
}

// New returns a validator at the default grid resolution.
func New() *Validator {
	return &Validator{ResolutionCm: flow.DefaultResolutionCm, flow: flow.NewScorer()}
}

// Check validates the placements and computes the quality metrics.
func (v *Validator) Check(room *geometry.Room, placements []layout.Placement) Report {
	r := Report{
		Violations:       v.violations(room, placements),
		SpaceUtilization: utilization(room, placements),
		FlowScore:        v.flow.Score(room, placements),
	}
	r.Valid = len(r.Violations) == 0
	r.Heatmap = v.heatmap(room, placements)
	r.WalkableRatio = walkableRatio(&r.Heatmap)
	r.Accessibility = v.accessibility(room, placements)
	r.Recommendations = recommend(&r, room)
	r.OverallScore = overall(&r)
	return r
}

// violations collects every hard-constraint failure, not just the first.
func (v *Validator) violations(room *geometry.Room, placements []layout.Placement) []layout.Violation {
	var out []layout.Violation
	add := func(kind layout.ViolationKind, hint string, ids ...string) {
		out = append(out, layout.Violation{Kind: kind, ItemIDs: ids, Hint: hint})
	}

	swings := make([]geometry.SwingArc, len(room.Doors))
	for i, d := range room.Doors {
		swings[i] = geometry.DoorSwing(d, room)
	}

	for i := range placements {
		p := placements[i]
		fp := p.Footprint()

		if !room.ContainsRect(fp) {
			add(layout.ViolationBounds,
				fmt.Sprintf("%s extends outside the room bounds", p.FurnitureID), p.FurnitureID)
		}
		for _, d := range room.Doors {
			if fp.DistanceToPoint(d.Position) < room.MinDoorClearanceCm {
				add(layout.ViolationDoorClearance,
					fmt.Sprintf("%s blocks the clearance zone of door %s", p.FurnitureID, d.ID),
					p.FurnitureID)
			}
		}
		for j, arc := range swings {
			if arc.IntersectsRect(fp) {
				add(layout.ViolationDoorSwing,
					fmt.Sprintf("%s obstructs the swing of door %s", p.FurnitureID, room.Doors[j].ID),
					p.FurnitureID)
			}
		}
		if p.IsTall() {
			for _, w := range room.Windows {
				if fp.DistanceToPoint(w.Position) < room.MinWindowAccessCm {
					add(layout.ViolationWindowAccess,
						fmt.Sprintf("%s blocks access to window %s", p.FurnitureID, w.ID),
						p.FurnitureID)
				}
			}
		}

		for j := i + 1; j < len(placements); j++ {
			out = append(out, pairViolations(p, placements[j])...)
		}
	}
	return out
}

// pairViolations re-derives the pairwise constraints between two placed
// items: spacing, the viewing band for screens, and desk ergonomics.
func pairViolations(p, q layout.Placement) []layout.Violation {
	var out []layout.Violation
	fp, fq := p.Footprint(), q.Footprint()

	if deliberatelyAdjacent(p, q) {
		if fp.Intersects(fq) {
			out = append(out, layout.Violation{
				Kind:    layout.ViolationCollision,
				ItemIDs: []string{p.FurnitureID, q.FurnitureID},
				Hint:    fmt.Sprintf("%s overlaps %s", p.FurnitureID, q.FurnitureID),
			})
		}
	} else {
		required := math.Max(p.ClearanceCm, q.ClearanceCm)
		if fp.DistanceToRect(fq) < required || geometry.SweptOverlap(fp, fq, required) {
			out = append(out, layout.Violation{
				Kind:    layout.ViolationCollision,
				ItemIDs: []string{p.FurnitureID, q.FurnitureID},
				Hint:    fmt.Sprintf("%s and %s need %.0f cm between them", p.FurnitureID, q.FurnitureID, required),
			})
		}
	}

	out = append(out, viewingViolations(p, q)...)
	out = append(out, viewingViolations(q, p)...)
	out = append(out, ergonomicViolations(p, q)...)
	out = append(out, ergonomicViolations(q, p)...)
	return out
}

func deliberatelyAdjacent(p, q layout.Placement) bool {
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

func viewingViolations(tv, seat layout.Placement) []layout.Violation {
	if tv.ScreenDiagonalCm <= 0 || seat.Category != "seating" || seat.WidthCm < 150 {
		return nil
	}
	var out []layout.Violation
	dist := tv.Footprint().Center().Dist(seat.Footprint().Center())
	minD := model.TVDistanceMinDiagonals * tv.ScreenDiagonalCm
	maxD := model.TVDistanceMaxDiagonals * tv.ScreenDiagonalCm
	if dist < minD || dist > maxD {
		out = append(out, layout.Violation{
			Kind:    layout.ViolationTVAngle,
			ItemIDs: []string{tv.FurnitureID, seat.FurnitureID},
			Hint: fmt.Sprintf("viewing distance %.0f cm outside [%.0f, %.0f] for %s",
				dist, minD, maxD, tv.FurnitureID),
		})
	}

	facing := tv.Facing()
	to := geometry.Point{
		X: seat.Footprint().Center().X - tv.Footprint().Center().X,
		Y: seat.Footprint().Center().Y - tv.Footprint().Center().Y,
	}
	norm := math.Hypot(to.X, to.Y)
	if norm > 0 {
		cos := (facing.X*to.X + facing.Y*to.Y) / norm
		angle := math.Acos(math.Max(-1, math.Min(1, cos))) * 180 / math.Pi
		if angle > model.TVMaxViewingAngleDeg {
			out = append(out, layout.Violation{
				Kind:    layout.ViolationTVAngle,
				ItemIDs: []string{tv.FurnitureID, seat.FurnitureID},
				Hint:    fmt.Sprintf("seating sits %.0f° off the screen axis of %s", angle, tv.FurnitureID),
			})
		}
	}
	return out
}

func ergonomicViolations(desk, seat layout.Placement) []layout.Violation {
	if desk.Category != "work" || seat.Category != "seating" || !seat.HasRule("desk_pair") {
		return nil
	}
	var out []layout.Violation
	if desk.HeightCm < model.DeskHeightMinCm || desk.HeightCm > model.DeskHeightMaxCm {
		out = append(out, layout.Violation{
			Kind:    layout.ViolationErgonomics,
			ItemIDs: []string{desk.FurnitureID},
			Hint: fmt.Sprintf("%s surface height %.0f cm outside [%d, %d]",
				desk.FurnitureID, desk.HeightCm, model.DeskHeightMinCm, model.DeskHeightMaxCm),
		})
	}
	if gap := desk.Footprint().DistanceToRect(seat.Footprint()); gap > model.DeskPairMaxGapCm {
		out = append(out, layout.Violation{
			Kind:    layout.ViolationErgonomics,
			ItemIDs: []string{desk.FurnitureID, seat.FurnitureID},
			Hint: fmt.Sprintf("%s sits %.0f cm from %s (max %d)",
				seat.FurnitureID, gap, desk.FurnitureID, model.DeskPairMaxGapCm),
		})
	}
	return out
}

// heatmap rates every floor cell by its distance to the nearest furniture:
// -1 outside the room, 0 inside or tight against a footprint, rising
// linearly to 1 at comfortable distance.
func (v *Validator) heatmap(room *geometry.Room, placements []layout.Placement) layout.Grid {
	res := v.ResolutionCm
	if res <= 0 {
		res = flow.DefaultResolutionCm
	}
	g := layout.NewGrid(room.Width(), room.Height(), res)

	footprints := make([]geometry.Rect, len(placements))
	for i, p := range placements {
		footprints[i] = p.Footprint()
	}

	for iy := 0; iy < g.Height; iy++ {
		for ix := 0; ix < g.Width; ix++ {
			c := g.CenterOf(ix, iy)
			if !room.Contains(c) {
				g.Set(ix, iy, -1)
				continue
			}
			dist := math.Inf(1)
			for _, fp := range footprints {
				if fp.Contains(c) {
					dist = 0
					break
				}
				dist = math.Min(dist, fp.DistanceToPoint(c))
			}
			g.Set(ix, iy, heatValue(dist))
		}
	}
	return g
}

func heatValue(distCm float64) float64 {
	switch {
	case distCm <= TightDistanceCm:
		return 0
	case distCm >= ComfortDistanceCm:
		return 1
	default:
		return (distCm - TightDistanceCm) / (ComfortDistanceCm - TightDistanceCm)
	}
}

func walkableRatio(g *layout.Grid) float64 {
	var inside, walkable int
	for iy := 0; iy < g.Height; iy++ {
		for ix := 0; ix < g.Width; ix++ {
			v := g.At(ix, iy)
			if v < 0 {
				continue
			}
			inside++
			if v > 0 {
				walkable++
			}
		}
	}
	if inside == 0 {
		return 0
	}
	return float64(walkable) / float64(inside)
}

func utilization(room *geometry.Room, placements []layout.Placement) float64 {
	area := room.Bounds.Area()
	if area == 0 {
		return 0
	}
	var used float64
	for _, p := range placements {
		used += p.WidthCm * p.DepthCm
	}
	return math.Min(1, used/area)
}

// accessibility is the share of furniture reachable on foot from the room
// entry: an item counts when a walkable cell borders its footprint and
// connects to a door (or the room center, for doorless rooms).
func (v *Validator) accessibility(room *geometry.Room, placements []layout.Placement) float64 {
	if len(placements) == 0 {
		return 1
	}
	g := v.flow.Grid(room, placements)

	origin := room.Center()
	if len(room.Doors) > 0 {
		origin = room.Doors[0].Position
	}
	reached := reachable(&g, origin)

	var ok int
	for _, p := range placements {
		ring := p.Footprint().Inflate(g.ResolutionCm)
		found := false
		for iy := 0; iy < g.Height && !found; iy++ {
			for ix := 0; ix < g.Width; ix++ {
				if !reached[iy*g.Width+ix] {
					continue
				}
				if ring.RingContains(g.CenterOf(ix, iy)) {
					found = true
					break
				}
			}
		}
		if found {
			ok++
		}
	}
	return float64(ok) / float64(len(placements))
}

// reachable floods the walkable cells from the cell nearest to origin.
func reachable(g *layout.Grid, origin geometry.Point) []bool {
	seen := make([]bool, g.Width*g.Height)
	sx, sy := g.CellOf(origin)

	// Snap the origin onto walkable floor.
	start := -1
	for radius := 0; radius < max(g.Width, g.Height) && start < 0; radius++ {
		for dy := -radius; dy <= radius && start < 0; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if abs(dx) != radius && abs(dy) != radius {
					continue
				}
				if g.Walkable(sx+dx, sy+dy) {
					start = (sy+dy)*g.Width + (sx + dx)
					break
				}
			}
		}
	}
	if start < 0 {
		return seen
	}

	queue := []int{start}
	seen[start] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cx, cy := cur%g.Width, cur/g.Width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := cx+dx, cy+dy
				if nx < 0 || ny < 0 || nx >= g.Width || ny >= g.Height {
					continue
				}
				idx := ny*g.Width + nx
				if seen[idx] || !g.Walkable(nx, ny) {
					continue
				}
				seen[idx] = true
				queue = append(queue, idx)
			}
		}
	}
	return seen
}

// recommend derives user-facing suggestions from the metrics.
func recommend(r *Report, room *geometry.Room) []string {
	var out []string
	if r.SpaceUtilization > UtilizationHigh {
		out = append(out, "the room is densely furnished; removing an item would ease circulation")
	}
	if r.SpaceUtilization > 0 && r.SpaceUtilization < UtilizationLow {
		out = append(out, "the room is sparsely furnished; an additional piece would balance the space")
	}
	if r.FlowScore < 0.5 && len(room.Doors) > 0 {
		out = append(out, "main walkways are obstructed; widen the path between the entry and the room center")
	}
	if r.Accessibility < 1 {
		out = append(out, "some furniture cannot be reached on foot; open a walkway to every item")
	}
	for _, v := range r.Violations {
		if v.Kind == layout.ViolationWindowAccess {
			out = append(out, "keep tall furniture away from windows to preserve daylight")
			break
		}
	}
	return out
}

// overall blends constraint satisfaction with the quality metrics.
func overall(r *Report) float64 {
	constraint := math.Max(0, 1-0.15*float64(len(r.Violations)))
	util := utilizationBandScore(r.SpaceUtilization)
	score := 0.45*constraint + 0.2*r.FlowScore + 0.15*r.WalkableRatio + 0.1*util + 0.1*r.Accessibility
	return math.Max(0, math.Min(1, score))
}

func utilizationBandScore(u float64) float64 {
	switch {
	case u >= UtilizationLow && u <= UtilizationHigh:
		return 1
	case u < UtilizationLow:
		return u / UtilizationLow
	default:
		return math.Max(0, 1-(u-UtilizationHigh)/0.3)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
