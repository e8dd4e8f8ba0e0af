package geometry

import (
	"math"
	"testing"

	"github.com/matzehuels/roomforge/pkg/errors"
)

func TestRotatedDims(t *testing.T) {
	tests := []struct {
		rot          int
		wantW, wantD float64
	}{
		{0, 200, 90},
		{90, 90, 200},
		{180, 200, 90},
		{270, 90, 200},
		{360, 200, 90},
		{-90, 90, 200},
	}
	for _, tt := range tests {
		w, d := RotatedDims(200, 90, tt.rot)
		if w != tt.wantW || d != tt.wantD {
			t.Errorf("RotatedDims(200, 90, %d) = %v, %v; want %v, %v",
				tt.rot, w, d, tt.wantW, tt.wantD)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	tests := []struct {
		name string
		o    Rect
		want bool
	}{
		{"overlapping", Rect{MinX: 50, MinY: 50, MaxX: 150, MaxY: 150}, true},
		{"contained", Rect{MinX: 10, MinY: 10, MaxX: 20, MaxY: 20}, true},
		{"disjoint", Rect{MinX: 200, MinY: 0, MaxX: 300, MaxY: 100}, false},
		{"shared edge only", Rect{MinX: 100, MinY: 0, MaxX: 200, MaxY: 100}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.o); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectDistances(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

	if d := r.DistanceToPoint(Point{X: 50, Y: 50}); d != 0 {
		t.Errorf("inside point distance = %v, want 0", d)
	}
	if d := r.DistanceToPoint(Point{X: 130, Y: 50}); d != 30 {
		t.Errorf("side point distance = %v, want 30", d)
	}
	want := math.Hypot(30, 40)
	if d := r.DistanceToPoint(Point{X: 130, Y: 140}); math.Abs(d-want) > 1e-9 {
		t.Errorf("corner point distance = %v, want %v", d, want)
	}

	o := Rect{MinX: 150, MinY: 0, MaxX: 200, MaxY: 100}
	if d := r.DistanceToRect(o); d != 50 {
		t.Errorf("rect distance = %v, want 50", d)
	}
	if d := r.DistanceToRect(Rect{MinX: 50, MinY: 50, MaxX: 60, MaxY: 60}); d != 0 {
		t.Errorf("overlapping rect distance = %v, want 0", d)
	}
}

func TestSegmentQueries(t *testing.T) {
	s := Segment{Start: Point{X: 0, Y: 0}, End: Point{X: 100, Y: 0}}

	if d := s.DistanceToPoint(Point{X: 50, Y: 30}); d != 30 {
		t.Errorf("DistanceToPoint = %v, want 30", d)
	}
	// Beyond the end: clamp to the endpoint.
	if d := s.DistanceToPoint(Point{X: 140, Y: 30}); math.Abs(d-50) > 1e-9 {
		t.Errorf("clamped DistanceToPoint = %v, want 50", d)
	}
	if tp := s.Project(Point{X: 25, Y: 99}); tp != 0.25 {
		t.Errorf("Project = %v, want 0.25", tp)
	}
	if p := s.At(0.5); p != (Point{X: 50, Y: 0}) {
		t.Errorf("At(0.5) = %v", p)
	}

	crossing := Segment{Start: Point{X: 50, Y: -10}, End: Point{X: 50, Y: 10}}
	if !s.Intersects(crossing) {
		t.Error("crossing segments should intersect")
	}
	parallel := Segment{Start: Point{X: 0, Y: 10}, End: Point{X: 100, Y: 10}}
	if s.Intersects(parallel) {
		t.Error("parallel segments should not intersect")
	}
	touching := Segment{Start: Point{X: 100, Y: 0}, End: Point{X: 200, Y: 0}}
	if !s.Intersects(touching) {
		t.Error("endpoint touch counts as intersection")
	}
}

func TestSweptOverlap(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	far := Rect{MinX: 400, MinY: 0, MaxX: 500, MaxY: 100}
	if SweptOverlap(a, far, 40) {
		t.Error("distant footprints should not overlap when swept")
	}

	// Separated as rectangles but within the swept disks plus clearance.
	near := Rect{MinX: 120, MinY: 0, MaxX: 220, MaxY: 100}
	if !SweptOverlap(a, near, 40) {
		t.Error("near footprints should overlap when swept")
	}
}

func TestRoomContains(t *testing.T) {
	room, err := NewRoom(RectangularPlan(5, 4))
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"interior", Point{X: 250, Y: 200}, true},
		{"on edge", Point{X: 250, Y: 0}, true},
		{"corner", Point{X: 0, Y: 0}, true},
		{"outside x", Point{X: 501, Y: 200}, false},
		{"outside y", Point{X: 250, Y: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := room.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectRingContains(t *testing.T) {
	r := Rect{MinX: 100, MinY: 100, MaxX: 300, MaxY: 200}
	for _, p := range []Point{{X: 200, Y: 150}, {X: 100, Y: 100}, {X: 300, Y: 150}} {
		if !r.RingContains(p) {
			t.Errorf("RingContains(%v) = false, want true", p)
		}
		if r.RingContains(p) != r.Contains(p) {
			t.Errorf("RingContains(%v) disagrees with Contains", p)
		}
	}
	if r.RingContains(Point{X: 50, Y: 150}) {
		t.Error("RingContains() = true for an outside point")
	}
}

func TestNewRoomConvertsToCentimeters(t *testing.T) {
	plan := RectangularPlan(5, 4)
	plan.Bounds = PlanBounds{MinX: 2, MinY: 3, MaxX: 7, MaxY: 7}
	for i := range plan.Walls {
		plan.Walls[i].StartX += 2
		plan.Walls[i].StartY += 3
		plan.Walls[i].EndX += 2
		plan.Walls[i].EndY += 3
	}
	plan.Doors = []PlanDoor{{ID: "d1", X: 4.5, Y: 3, WidthM: 0.9}}
	plan.Windows = []PlanWindow{{ID: "w1", X: 7, Y: 5, WidthM: 1.2, SillHeightM: 0.9}}

	room, err := NewRoom(plan)
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}
	if room.Width() != 500 || room.Height() != 400 {
		t.Errorf("room is %vx%v cm, want 500x400", room.Width(), room.Height())
	}
	// Offset bounds normalize to the origin.
	if room.Doors[0].Position != (Point{X: 250, Y: 0}) {
		t.Errorf("door at %v, want {250 0}", room.Doors[0].Position)
	}
	if room.Doors[0].SwingDirection != "inward" {
		t.Errorf("swing = %q, want inward default", room.Doors[0].SwingDirection)
	}
	if room.Windows[0].SillHeightCm != 90 {
		t.Errorf("sill = %v cm, want 90", room.Windows[0].SillHeightCm)
	}
	if room.MinWalkwayCm != DefaultMinWalkwayCm {
		t.Errorf("walkway = %v, want default %v", room.MinWalkwayCm, DefaultMinWalkwayCm)
	}
}

func TestNewRoomRejectsBadGeometry(t *testing.T) {
	crossed := RectangularPlan(5, 4)
	crossed.Walls = append(crossed.Walls, PlanWall{
		ID: "wall_x", StartX: 1, StartY: 1, EndX: 4, EndY: 3,
	}, PlanWall{
		ID: "wall_y", StartX: 1, StartY: 3, EndX: 4, EndY: 1,
	})

	doorOutside := RectangularPlan(5, 4)
	doorOutside.Doors = []PlanDoor{{ID: "d1", X: 9, Y: 0, WidthM: 0.9}}

	zeroDoor := RectangularPlan(5, 4)
	zeroDoor.Doors = []PlanDoor{{ID: "d1", X: 2, Y: 0}}

	zeroWall := RectangularPlan(5, 4)
	zeroWall.Walls = append(zeroWall.Walls, PlanWall{ID: "wall_0", StartX: 1, StartY: 1, EndX: 1, EndY: 1})

	tests := []struct {
		name string
		plan Plan
	}{
		{"zero area", Plan{}},
		{"inverted bounds", Plan{Bounds: PlanBounds{MinX: 5, MaxX: 0, MinY: 0, MaxY: 4}}},
		{"crossing walls", crossed},
		{"door outside", doorOutside},
		{"zero-width door", zeroDoor},
		{"zero-length wall", zeroWall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRoom(tt.plan)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
				t.Errorf("code = %v, want INVALID_GEOMETRY", errors.GetCode(err))
			}
		})
	}
}

func TestClearWallSpans(t *testing.T) {
	plan := RectangularPlan(5, 4)
	plan.Doors = []PlanDoor{{ID: "d1", X: 2.5, Y: 0, WidthM: 1}}
	room, err := NewRoom(plan)
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}

	spans := room.ClearWallSpans(50)

	// The south wall splits around the door; the other three stay whole.
	if len(spans) != 5 {
		t.Fatalf("got %d spans, want 5", len(spans))
	}
	var total float64
	for _, s := range spans {
		total += s.Length()
	}
	// Perimeter 1800 cm minus the 100 cm door opening.
	if math.Abs(total-1700) > 1 {
		t.Errorf("total clear length = %v, want ~1700", total)
	}

	// A high minimum length drops the short fragments.
	long := room.ClearWallSpans(300)
	for _, s := range long {
		if s.Length() < 300 {
			t.Errorf("span of length %v below the requested minimum", s.Length())
		}
	}
}

func TestDoorSwing(t *testing.T) {
	plan := RectangularPlan(5, 4)
	plan.Doors = []PlanDoor{{ID: "d1", X: 2.5, Y: 0, WidthM: 0.9}}
	room, err := NewRoom(plan)
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}

	arc := DoorSwing(room.Doors[0], room)
	if arc.Radius != 90 {
		t.Errorf("radius = %v, want door width 90", arc.Radius)
	}
	// A footprint sitting on the opening is inside the swing.
	blocking := Rect{MinX: 230, MinY: 0, MaxX: 280, MaxY: 50}
	if !arc.IntersectsRect(blocking) {
		t.Error("footprint in front of the door should intersect the swing")
	}
	clear := Rect{MinX: 400, MinY: 300, MaxX: 480, MaxY: 380}
	if arc.IntersectsRect(clear) {
		t.Error("far footprint should not intersect the swing")
	}

	out := Door{ID: "d2", Position: Point{X: 250, Y: 0}, WidthCm: 90, SwingDirection: "outward"}
	if a := DoorSwing(out, room); a.Radius != 0 || a.IntersectsRect(blocking) {
		t.Error("outward door should have a zero-radius swing")
	}
}
