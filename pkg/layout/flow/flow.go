// Package flow scores circulation quality: it rasterizes the furnished
// room into an occupancy grid and measures how directly the main routes
// (each door to the room center, and door to door) can be walked. A route
// scores 1.0 when the walked path matches the straight-line distance and
// decays as furniture forces detours; blocked routes carry a fixed
// penalty.
package flow

import (
	"container/heap"
	"math"

	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout"
)

const (
	// DefaultResolutionCm is the occupancy grid cell size.
	DefaultResolutionCm = 10

	// UnreachablePenalty is the route score when no walkable path exists.
	UnreachablePenalty = 0.1
)

// Scorer computes flow scores over an occupancy grid.
type Scorer struct {
	ResolutionCm float64
}

// NewScorer returns a scorer at the default grid resolution.
func NewScorer() *Scorer {
	return &Scorer{ResolutionCm: DefaultResolutionCm}
}

// Grid rasterizes the room and placements into an occupancy grid. Cells
// covered by a footprint are blocked; everything else inside the room is
// walkable.
func (s *Scorer) Grid(room *geometry.Room, placements []layout.Placement) layout.Grid {
	res := s.ResolutionCm
	if res <= 0 {
		res = DefaultResolutionCm
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
			blocked := false
			for _, fp := range footprints {
				if fp.Contains(c) {
					blocked = true
					break
				}
			}
			if blocked {
				g.Set(ix, iy, 0)
			} else {
				g.Set(ix, iy, 1)
			}
		}
	}
	return g
}

// Score measures circulation for the furnished room in [0, 1]. Rooms
// without doors fall back to the walkable share of the floor.
func (s *Scorer) Score(room *geometry.Room, placements []layout.Placement) float64 {
	g := s.Grid(room, placements)

	if len(room.Doors) == 0 {
		return walkableShare(&g)
	}

	routes := make([][2]geometry.Point, 0, len(room.Doors)+1)
	center := room.Center()
	for _, d := range room.Doors {
		routes = append(routes, [2]geometry.Point{d.Position, center})
	}
	for i := 0; i < len(room.Doors); i++ {
		for j := i + 1; j < len(room.Doors); j++ {
			routes = append(routes, [2]geometry.Point{room.Doors[i].Position, room.Doors[j].Position})
		}
	}

	var sum float64
	for _, r := range routes {
		sum += routeScore(&g, r[0], r[1])
	}
	return sum / float64(len(routes))
}

// routeScore compares the walked path length against the straight-line
// baseline between two points.
func routeScore(g *layout.Grid, from, to geometry.Point) float64 {
	start, ok := nearestWalkable(g, from)
	if !ok {
		return UnreachablePenalty
	}
	goal, ok := nearestWalkable(g, to)
	if !ok {
		return UnreachablePenalty
	}

	pathLen, ok := shortestPath(g, start, goal)
	if !ok {
		return UnreachablePenalty
	}
	baseline := from.Dist(to) / g.ResolutionCm
	if pathLen <= 0 || baseline <= 0 {
		return 1
	}
	return math.Min(1, baseline/pathLen)
}

func walkableShare(g *layout.Grid) float64 {
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

type cell struct{ x, y int }

// nearestWalkable snaps a point to the closest walkable cell, searching in
// growing rings around its cell. Door positions sit on the room boundary,
// so the snap is almost always one ring deep.
func nearestWalkable(g *layout.Grid, p geometry.Point) (cell, bool) {
	cx, cy := g.CellOf(p)
	for radius := 0; radius < max(g.Width, g.Height); radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if absi(dx) != radius && absi(dy) != radius {
					continue
				}
				if g.Walkable(cx+dx, cy+dy) {
					return cell{cx + dx, cy + dy}, true
				}
			}
		}
	}
	return cell{}, false
}

// shortestPath runs A* over the 8-connected grid and returns the path
// length in cell units.
func shortestPath(g *layout.Grid, start, goal cell) (float64, bool) {
	if start == goal {
		return 0, true
	}

	octile := func(c cell) float64 {
		dx := math.Abs(float64(c.x - goal.x))
		dy := math.Abs(float64(c.y - goal.y))
		return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
	}

	dist := map[cell]float64{start: 0}
	open := &nodeHeap{{cell: start, priority: octile(start)}}
	heap.Init(open)

	for open.Len() > 0 {
		cur := heap.Pop(open).(node)
		if cur.cell == goal {
			return dist[goal], true
		}
		if cur.priority-octile(cur.cell) > dist[cur.cell] {
			continue
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				next := cell{cur.cell.x + dx, cur.cell.y + dy}
				if !g.Walkable(next.x, next.y) {
					continue
				}
				stepCost := 1.0
				if dx != 0 && dy != 0 {
					stepCost = math.Sqrt2
				}
				nd := dist[cur.cell] + stepCost
				if prev, seen := dist[next]; !seen || nd < prev {
					dist[next] = nd
					heap.Push(open, node{cell: next, priority: nd + octile(next)})
				}
			}
		}
	}
	return 0, false
}

type node struct {
	cell     cell
	priority float64
}

type nodeHeap []node

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].priority < h[j].priority }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(node)) }

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func absi(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
