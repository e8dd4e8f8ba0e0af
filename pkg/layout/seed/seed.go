// Package seed derives starting arrangements for the solver from furniture
// placement rules: anchor items against clear wall spans, pair tables with
// seating, and orient screens toward the primary seat. Each named strategy
// orders the catalog differently, so the strategies explore different
// regions of the layout space from the first iteration on.
package seed

import (
	"sort"

	"github.com/matzehuels/roomforge/pkg/catalog"
	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/layout/model"
)

// Strategy names, in generation order. The identifiers are part of the
// wire contract, so all three carry the same suffix.
const (
	StrategyConversation  = "conversation_focused"
	StrategyWork          = "work_focused"
	StrategyEntertainment = "entertainment_focused"
)

// Strategies returns every seeding strategy in generation order.
func Strategies() []string {
	return []string{StrategyConversation, StrategyWork, StrategyEntertainment}
}

// DisplayName maps a strategy to its user-facing layout name.
func DisplayName(strategy string) string {
	switch strategy {
	case StrategyConversation:
		return "Cozy Conversation"
	case StrategyWork:
		return "Work & Lounge"
	case StrategyEntertainment:
		return "Entertainment Hub"
	default:
		return strategy
	}
}

// Seed is one starting arrangement. Its assignment is feasible but usually
// partial; the solver fills in what the heuristics could not place.
type Seed struct {
	Strategy   string
	Name       string
	Assignment *model.Assignment
}

// All generates one seed per strategy.
func All(m *model.Model) []Seed {
	seeds := make([]Seed, 0, len(Strategies()))
	for _, s := range Strategies() {
		seeds = append(seeds, Generate(m, s))
	}
	return seeds
}

// Generate builds the seed for one strategy. Every candidate placement is
// vetted by the model, so the result never violates a hard constraint;
// items with no feasible anchor are simply left out.
func Generate(m *model.Model, strategy string) Seed {
	g := &generator{m: m, asg: &model.Assignment{}}
	for _, v := range orderItems(m.Vars, strategy) {
		g.place(v.Item)
	}
	return Seed{Strategy: strategy, Name: DisplayName(strategy), Assignment: g.asg}
}

// orderItems sorts the variable set into the placement order of a strategy:
// the anchor category first, then by catalog priority.
func orderItems(vars []model.Variable, strategy string) []model.Variable {
	rank := func(it catalog.Item) int {
		var categories []string
		switch strategy {
		case StrategyWork:
			categories = []string{"work", "seating", "storage", "table", "media"}
		case StrategyEntertainment:
			categories = []string{"media", "seating", "table", "storage", "work"}
		default:
			categories = []string{"seating", "table", "storage", "media", "work"}
		}
		for i, c := range categories {
			if it.Category == c {
				return i
			}
		}
		return len(categories)
	}

	out := make([]model.Variable, len(vars))
	copy(out, vars)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i].Item), rank(out[j].Item)
		if ri != rj {
			return ri < rj
		}
		return out[i].Item.Priority < out[j].Item.Priority
	})
	return out
}

type generator struct {
	m   *model.Model
	asg *model.Assignment
}

// place tries the item's candidate anchors in order and keeps the first
// feasible one. It reports whether the item was placed.
func (g *generator) place(it catalog.Item) bool {
	for _, cand := range g.candidates(it) {
		if g.m.CheckPlacement(g.asg, cand) == nil {
			g.asg.Add(cand)
			return true
		}
	}
	return false
}

// candidates produces anchor placements for an item, most preferred first.
// The rule-driven anchors come before the generic fallbacks, and a coarse
// grid sweep closes the list so a feasible spot is found whenever one
// exists at grid resolution.
func (g *generator) candidates(it catalog.Item) []layout.Placement {
	var out []layout.Placement
	switch {
	case it.HasRule(catalog.RuleSofaFront):
		out = append(out, g.pairedCandidates(it, "seating", "sofa_front")...)
	case it.HasRule(catalog.RuleDeskPair):
		out = append(out, g.pairedCandidates(it, "work", "desk_pair")...)
	case it.HasRule(catalog.RuleSofaSide) || it.HasRule(catalog.RuleChairSide):
		out = append(out, g.sideCandidates(it)...)
	case it.HasRule(catalog.RuleWindowAdjacent):
		out = append(out, g.wallCandidates(it, true)...)
	case it.HasRule(catalog.RuleCorner):
		out = append(out, g.cornerCandidates(it)...)
	case it.HasRule(catalog.RuleRoomCenter) || it.HasRule(catalog.RuleAccent):
		out = append(out, g.centerCandidates(it)...)
	}
	if it.HasRule(catalog.RuleAgainstWall) || it.HasRule(catalog.RuleWallCentered) ||
		it.HasRule(catalog.RuleTVViewing) || len(out) == 0 {
		out = append(out, g.wallCandidates(it, false)...)
	}
	out = append(out, g.centerCandidates(it)...)
	out = append(out, g.gridCandidates(it)...)
	return out
}

// wallCandidates anchors the item flush against each clear wall span,
// facing into the room: the span midpoint first, then the golden-ratio
// points, then a sweep along the span. With nearWindow set, spans closest
// to a window come first.
func (g *generator) wallCandidates(it catalog.Item, nearWindow bool) []layout.Placement {
	spans := g.m.Room.ClearWallSpans(it.MinDim())
	if nearWindow && len(g.m.Room.Windows) > 0 {
		sort.SliceStable(spans, func(i, j int) bool {
			return g.windowDist(spans[i].Midpoint()) < g.windowDist(spans[j].Midpoint())
		})
	} else {
		sort.SliceStable(spans, func(i, j int) bool {
			return spans[i].Length() > spans[j].Length()
		})
	}

	var out []layout.Placement
	for _, span := range spans {
		side, ok := wallSide(span, g.m.Room)
		if !ok {
			continue
		}
		rot := side.rotation
		w, d := geometry.RotatedDims(it.WidthCm, it.DepthCm, rot)
		run := span.Length()
		if run < alongLen(w, d, side) {
			continue
		}
		for _, t := range []float64{0.5, 0.382, 0.618, 0.25, 0.75, 0.1, 0.9} {
			out = append(out, side.placeAt(g.m, it, span.At(t), w, d, rot))
		}
	}
	return out
}

func (g *generator) windowDist(p geometry.Point) float64 {
	best := -1.0
	for _, w := range g.m.Room.Windows {
		d := p.Dist(w.Position)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// pairedCandidates places the item in front of an already-placed partner of
// the given category, facing it, at increasing gaps.
func (g *generator) pairedCandidates(it catalog.Item, partnerCategory, anchor string) []layout.Placement {
	partner := g.firstPlaced(partnerCategory)
	if partner == nil {
		return nil
	}
	facing := partner.Facing()
	pc := partner.Footprint().Center()
	pw, pd := partner.Footprint().Width(), partner.Footprint().Height()

	var out []layout.Placement
	for _, gap := range []float64{10, 20, 40, 60, 80} {
		// Face back toward the partner.
		rot := (partner.RotationDeg + 180) % 360
		w, d := geometry.RotatedDims(it.WidthCm, it.DepthCm, rot)
		// Offset from the partner's front edge along its facing.
		half := pd / 2
		if facing.X != 0 {
			half = pw / 2
		}
		off := half + gap
		cx := pc.X + facing.X*(off+facingExtent(w, d, facing)/2)
		cy := pc.Y + facing.Y*(off+facingExtent(w, d, facing)/2)
		out = append(out, g.m.NewPlacement(it, cx-w/2, cy-d/2, rot, anchor))
	}
	return out
}

// sideCandidates flanks the first placed seat on either end.
func (g *generator) sideCandidates(it catalog.Item) []layout.Placement {
	partner := g.firstPlaced("seating")
	if partner == nil {
		return nil
	}
	fp := partner.Footprint()
	rot := partner.RotationDeg
	w, d := geometry.RotatedDims(it.WidthCm, it.DepthCm, rot)

	var out []layout.Placement
	for _, gap := range []float64{5, 15, 30} {
		if partner.Facing().Y != 0 {
			// Partner spans x; flank left and right.
			out = append(out,
				g.m.NewPlacement(it, fp.MaxX+gap, fp.MinY, rot, "side"),
				g.m.NewPlacement(it, fp.MinX-gap-w, fp.MinY, rot, "side"))
		} else {
			out = append(out,
				g.m.NewPlacement(it, fp.MinX, fp.MaxY+gap, rot, "side"),
				g.m.NewPlacement(it, fp.MinX, fp.MinY-gap-d, rot, "side"))
		}
	}
	return out
}

// cornerCandidates tucks the item into each room corner, back to the walls.
func (g *generator) cornerCandidates(it catalog.Item) []layout.Placement {
	b := g.m.Room.Bounds
	var out []layout.Placement
	for _, rot := range model.Rotations {
		w, d := geometry.RotatedDims(it.WidthCm, it.DepthCm, rot)
		out = append(out,
			g.m.NewPlacement(it, b.MinX, b.MinY, rot, "corner"),
			g.m.NewPlacement(it, b.MaxX-w, b.MinY, rot, "corner"),
			g.m.NewPlacement(it, b.MinX, b.MaxY-d, rot, "corner"),
			g.m.NewPlacement(it, b.MaxX-w, b.MaxY-d, rot, "corner"))
	}
	return out
}

// centerCandidates centers the item on the room center and the four
// golden-ratio anchor points.
func (g *generator) centerCandidates(it catalog.Item) []layout.Placement {
	b := g.m.Room.Bounds
	anchors := []geometry.Point{
		b.Center(),
		{X: b.MinX + b.Width()*0.382, Y: b.MinY + b.Height()*0.382},
		{X: b.MinX + b.Width()*0.618, Y: b.MinY + b.Height()*0.382},
		{X: b.MinX + b.Width()*0.382, Y: b.MinY + b.Height()*0.618},
		{X: b.MinX + b.Width()*0.618, Y: b.MinY + b.Height()*0.618},
	}
	var out []layout.Placement
	for _, a := range anchors {
		for _, rot := range model.Rotations {
			w, d := geometry.RotatedDims(it.WidthCm, it.DepthCm, rot)
			out = append(out, g.m.NewPlacement(it, a.X-w/2, a.Y-d/2, rot, "center"))
		}
	}
	return out
}

// gridCandidates sweeps a coarse grid over the room as the placement of
// last resort.
func (g *generator) gridCandidates(it catalog.Item) []layout.Placement {
	const step = 50.0
	b := g.m.Room.Bounds
	var out []layout.Placement
	for _, rot := range []int{0, 90} {
		w, d := geometry.RotatedDims(it.WidthCm, it.DepthCm, rot)
		for y := b.MinY; y+d <= b.MaxY; y += step {
			for x := b.MinX; x+w <= b.MaxX; x += step {
				out = append(out, g.m.NewPlacement(it, x, y, rot, "grid"))
			}
		}
	}
	return out
}

func (g *generator) firstPlaced(category string) *layout.Placement {
	for i := range g.asg.Placements {
		if g.asg.Placements[i].Category == category {
			return &g.asg.Placements[i]
		}
	}
	return nil
}

// facingExtent returns the footprint extent along the facing axis.
func facingExtent(w, d float64, facing geometry.Point) float64 {
	if facing.X != 0 {
		return w
	}
	return d
}

// side describes which room side a wall span belongs to and how an item
// anchors against it.
type side struct {
	rotation int
	// placeAt positions the rotated footprint so its back edge touches the
	// wall and its along-wall center sits at the anchor point.
	placeAt func(m *model.Model, it catalog.Item, anchor geometry.Point, w, d float64, rot int) layout.Placement
}

// alongLen returns the footprint extent along the wall for a side.
func alongLen(w, d float64, s side) float64 {
	if s.rotation == 90 || s.rotation == 270 {
		return d
	}
	return w
}

// wallSide classifies an axis-aligned wall span by which side of the room
// it bounds. Diagonal walls are not anchorable.
func wallSide(span geometry.Segment, room *geometry.Room) (side, bool) {
	mid := span.Midpoint()
	center := room.Center()
	dir := span.Direction()

	horizontal := dir.Y == 0 || (dir.X != 0 && absf(dir.Y/dir.X) < 1e-9)
	vertical := dir.X == 0 || (dir.Y != 0 && absf(dir.X/dir.Y) < 1e-9)
	switch {
	case horizontal && mid.Y <= center.Y:
		// South wall; the item faces +y.
		return side{rotation: 0, placeAt: func(m *model.Model, it catalog.Item, a geometry.Point, w, d float64, rot int) layout.Placement {
			return m.NewPlacement(it, a.X-w/2, mid.Y, rot, "against_wall")
		}}, true
	case horizontal:
		return side{rotation: 180, placeAt: func(m *model.Model, it catalog.Item, a geometry.Point, w, d float64, rot int) layout.Placement {
			return m.NewPlacement(it, a.X-w/2, mid.Y-d, rot, "against_wall")
		}}, true
	case vertical && mid.X <= center.X:
		// West wall; the item faces +x.
		return side{rotation: 90, placeAt: func(m *model.Model, it catalog.Item, a geometry.Point, w, d float64, rot int) layout.Placement {
			return m.NewPlacement(it, mid.X, a.Y-d/2, rot, "against_wall")
		}}, true
	case vertical:
		return side{rotation: 270, placeAt: func(m *model.Model, it catalog.Item, a geometry.Point, w, d float64, rot int) layout.Placement {
			return m.NewPlacement(it, mid.X-w, a.Y-d/2, rot, "against_wall")
		}}, true
	}
	return side{}, false
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
