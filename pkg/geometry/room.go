package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/roomforge/pkg/errors"
)

// Default clearance constants in centimeters, applied when a plan does not
// override them.
const (
	DefaultMinWalkwayCm       = 80
	DefaultMinDoorClearanceCm = 80
	DefaultMinWindowAccessCm  = 60
)

// Wall is a straight wall segment in centimeters.
type Wall struct {
	ID          string  `json:"id"`
	Start       Point   `json:"start"`
	End         Point   `json:"end"`
	ThicknessCm float64 `json:"thickness_cm"`
}

// Segment returns the wall centerline.
func (w Wall) Segment() Segment { return Segment{Start: w.Start, End: w.End} }

// Door is an opening in a wall. Position is the center of the opening.
type Door struct {
	ID             string  `json:"id"`
	Position       Point   `json:"position"`
	WidthCm        float64 `json:"width_cm"`
	SwingDirection string  `json:"swing_direction"` // "inward" or "outward"
}

// Window is a glazed opening. Position is the center of the opening.
type Window struct {
	ID           string  `json:"id"`
	Position     Point   `json:"position"`
	WidthCm      float64 `json:"width_cm"`
	SillHeightCm float64 `json:"sill_height_cm"`
}

// Room is the normalized room model. All fields are in centimeters with the
// origin at the room's minimum corner. A Room is immutable for the duration
// of a solve request.
type Room struct {
	Bounds  Rect
	Walls   []Wall
	Doors   []Door
	Windows []Window

	MinWalkwayCm       float64
	MinDoorClearanceCm float64
	MinWindowAccessCm  float64

	// ring is the closed room boundary, precomputed by NewRoom for the
	// planar containment test.
	ring orb.Ring
}

// Width returns the room extent along the x axis.
func (r *Room) Width() float64 { return r.Bounds.Width() }

// Height returns the room extent along the y axis.
func (r *Room) Height() float64 { return r.Bounds.Height() }

// SmallerDim returns the smaller of the two room extents. Items whose
// minimum footprint dimension exceeds this can never be placed.
func (r *Room) SmallerDim() float64 { return math.Min(r.Width(), r.Height()) }

// Center returns the room center point.
func (r *Room) Center() Point { return r.Bounds.Center() }

// Contains reports whether p lies within the room boundary, including
// points exactly on it. The test runs against the precomputed ring so it
// shares the planar predicate used for arbitrary-polygon queries.
func (r *Room) Contains(p Point) bool { return planar.RingContains(r.ring, p.Orb()) }

// ContainsRect reports whether the rectangle lies entirely within bounds.
func (r *Room) ContainsRect(rect Rect) bool { return r.Bounds.ContainsRect(rect) }

// ClearWallSpans returns the unbroken runs of each wall: the wall centerline
// minus the projected spans of doors and windows that sit on that wall.
// An opening is attributed to a wall when its center lies within half the
// opening width of the wall line. Spans shorter than minLenCm are dropped.
func (r *Room) ClearWallSpans(minLenCm float64) []Segment {
	var spans []Segment
	for _, wall := range r.Walls {
		seg := wall.Segment()
		length := seg.Length()
		if length == 0 {
			continue
		}

		// Collect blocked intervals along the wall parameter.
		type interval struct{ lo, hi float64 }
		var blocked []interval
		addOpening := func(pos Point, widthCm float64) {
			if seg.DistanceToPoint(pos) > widthCm/2+1 {
				return
			}
			t := seg.Project(pos)
			half := (widthCm / 2) / length
			blocked = append(blocked, interval{lo: t - half, hi: t + half})
		}
		for _, d := range r.Doors {
			addOpening(d.Position, d.WidthCm)
		}
		for _, w := range r.Windows {
			addOpening(w.Position, w.WidthCm)
		}

		// Walk the wall, emitting clear intervals.
		cursor := 0.0
		for cursor < 1.0 {
			next := 1.0
			advanced := false
			for _, iv := range blocked {
				if iv.lo <= cursor && iv.hi > cursor {
					cursor = iv.hi
					advanced = true
					break
				}
				if iv.lo > cursor && iv.lo < next {
					next = iv.lo
				}
			}
			if advanced {
				continue
			}
			if (next-cursor)*length >= minLenCm {
				spans = append(spans, Segment{Start: seg.At(cursor), End: seg.At(next)})
			}
			cursor = next
			if next == 1.0 {
				break
			}
		}
	}
	return spans
}

// Plan is the meters-based wire representation of a room, as produced by the
// scanning and semantic-detection pipeline. NewRoom converts it to the
// centimeter model.
type Plan struct {
	Bounds  PlanBounds   `json:"bounds"`
	Walls   []PlanWall   `json:"walls"`
	Doors   []PlanDoor   `json:"doors"`
	Windows []PlanWindow `json:"windows"`

	MinWalkwayCm       float64 `json:"min_walkway_cm,omitempty"`
	MinDoorClearanceCm float64 `json:"min_door_clearance_cm,omitempty"`
	MinWindowAccessCm  float64 `json:"min_window_access_cm,omitempty"`
}

// PlanBounds is the room bounding box in meters.
type PlanBounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// PlanWall is a wall segment in meters.
type PlanWall struct {
	ID         string  `json:"id"`
	StartX     float64 `json:"start_x"`
	StartY     float64 `json:"start_y"`
	EndX       float64 `json:"end_x"`
	EndY       float64 `json:"end_y"`
	ThicknessM float64 `json:"thickness_m,omitempty"`
}

// PlanDoor is a door opening in meters.
type PlanDoor struct {
	ID             string  `json:"id"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	WidthM         float64 `json:"width_m"`
	SwingDirection string  `json:"swing_direction,omitempty"`
}

// PlanWindow is a window opening in meters.
type PlanWindow struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	WidthM      float64 `json:"width_m"`
	SillHeightM float64 `json:"sill_height_m,omitempty"`
}

// NewRoom converts a meters-based plan into the centimeter room model,
// normalizing coordinates so the room's minimum corner is the origin.
// Malformed geometry (zero-area bounds, self-intersecting walls, openings
// outside the room) yields an INVALID_GEOMETRY error before any solving.
func NewRoom(plan Plan) (*Room, error) {
	widthM := plan.Bounds.MaxX - plan.Bounds.MinX
	heightM := plan.Bounds.MaxY - plan.Bounds.MinY
	if widthM <= 0 || heightM <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry,
			"room bounds have non-positive area (%.2fm x %.2fm)", widthM, heightM)
	}

	toCm := func(xM, yM float64) Point {
		return Point{X: (xM - plan.Bounds.MinX) * 100, Y: (yM - plan.Bounds.MinY) * 100}
	}

	room := &Room{
		Bounds:             Rect{MinX: 0, MinY: 0, MaxX: widthM * 100, MaxY: heightM * 100},
		MinWalkwayCm:       plan.MinWalkwayCm,
		MinDoorClearanceCm: plan.MinDoorClearanceCm,
		MinWindowAccessCm:  plan.MinWindowAccessCm,
	}
	room.ring = room.Bounds.Ring()
	if room.MinWalkwayCm <= 0 {
		room.MinWalkwayCm = DefaultMinWalkwayCm
	}
	if room.MinDoorClearanceCm <= 0 {
		room.MinDoorClearanceCm = DefaultMinDoorClearanceCm
	}
	if room.MinWindowAccessCm <= 0 {
		room.MinWindowAccessCm = DefaultMinWindowAccessCm
	}

	for _, w := range plan.Walls {
		wall := Wall{
			ID:          w.ID,
			Start:       toCm(w.StartX, w.StartY),
			End:         toCm(w.EndX, w.EndY),
			ThicknessCm: w.ThicknessM * 100,
		}
		if wall.ThicknessCm <= 0 {
			wall.ThicknessCm = 15
		}
		if wall.Segment().Length() == 0 {
			return nil, errors.New(errors.ErrCodeInvalidGeometry, "wall %q has zero length", w.ID)
		}
		room.Walls = append(room.Walls, wall)
	}

	// Non-adjacent walls must not cross.
	for i := 0; i < len(room.Walls); i++ {
		for j := i + 1; j < len(room.Walls); j++ {
			a, b := room.Walls[i].Segment(), room.Walls[j].Segment()
			if sharesEndpoint(a, b) {
				continue
			}
			if a.Intersects(b) {
				return nil, errors.New(errors.ErrCodeInvalidGeometry,
					"walls %q and %q intersect", room.Walls[i].ID, room.Walls[j].ID)
			}
		}
	}

	for _, d := range plan.Doors {
		if d.WidthM <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidGeometry, "door %q has non-positive width", d.ID)
		}
		door := Door{
			ID:             d.ID,
			Position:       toCm(d.X, d.Y),
			WidthCm:        d.WidthM * 100,
			SwingDirection: d.SwingDirection,
		}
		if door.SwingDirection == "" {
			door.SwingDirection = "inward"
		}
		if !room.Contains(door.Position) {
			return nil, errors.New(errors.ErrCodeInvalidGeometry, "door %q lies outside room bounds", d.ID)
		}
		room.Doors = append(room.Doors, door)
	}

	for _, w := range plan.Windows {
		if w.WidthM <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidGeometry, "window %q has non-positive width", w.ID)
		}
		win := Window{
			ID:           w.ID,
			Position:     toCm(w.X, w.Y),
			WidthCm:      w.WidthM * 100,
			SillHeightCm: w.SillHeightM * 100,
		}
		if !room.Contains(win.Position) {
			return nil, errors.New(errors.ErrCodeInvalidGeometry, "window %q lies outside room bounds", w.ID)
		}
		room.Windows = append(room.Windows, win)
	}

	return room, nil
}

// RectangularPlan builds a plan for a plain rectangular room of the given
// size in meters, with four perimeter walls. Doors and windows can be added
// to the returned plan before calling NewRoom.
func RectangularPlan(widthM, heightM float64) Plan {
	return Plan{
		Bounds: PlanBounds{MinX: 0, MinY: 0, MaxX: widthM, MaxY: heightM},
		Walls: []PlanWall{
			{ID: "wall_s", StartX: 0, StartY: 0, EndX: widthM, EndY: 0},
			{ID: "wall_e", StartX: widthM, StartY: 0, EndX: widthM, EndY: heightM},
			{ID: "wall_n", StartX: widthM, StartY: heightM, EndX: 0, EndY: heightM},
			{ID: "wall_w", StartX: 0, StartY: heightM, EndX: 0, EndY: 0},
		},
	}
}

func sharesEndpoint(a, b Segment) bool {
	const eps = 1e-6
	close := func(p, q Point) bool { return p.Dist(q) < eps }
	return close(a.Start, b.Start) || close(a.Start, b.End) ||
		close(a.End, b.Start) || close(a.End, b.End)
}
