package flow

import (
	"testing"

	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout"
)

func roomWithDoor(t *testing.T) *geometry.Room {
	t.Helper()
	plan := geometry.RectangularPlan(5, 4)
	plan.Doors = []geometry.PlanDoor{{ID: "entry", X: 2.5, Y: 0, WidthM: 0.9}}
	room, err := geometry.NewRoom(plan)
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	return room
}

func placementAt(id string, x, y, w, d float64) layout.Placement {
	return layout.Placement{FurnitureID: id, XCm: x, YCm: y, WidthCm: w, DepthCm: d, HeightCm: 80}
}

func TestScoreEmptyRoomIsPerfect(t *testing.T) {
	room := roomWithDoor(t)
	got := NewScorer().Score(room, nil)
	if got < 0.95 {
		t.Fatalf("empty room flow = %v, want near 1", got)
	}
}

func TestScoreDropsWithDetour(t *testing.T) {
	room := roomWithDoor(t)
	s := NewScorer()
	open := s.Score(room, nil)

	// A long wall between door and center forces a detour.
	blocker := []layout.Placement{placementAt("wall", 50, 150, 400, 30)}
	detour := s.Score(room, blocker)

	if detour >= open {
		t.Fatalf("detour score %v should be below open score %v", detour, open)
	}
	if detour <= UnreachablePenalty {
		t.Fatalf("detour is reachable, score %v should beat the penalty", detour)
	}
}

func TestScoreUnreachableCenter(t *testing.T) {
	room := roomWithDoor(t)
	// Seal the room across its full width.
	blocker := []layout.Placement{placementAt("wall", 0, 150, 500, 40)}
	got := NewScorer().Score(room, blocker)
	if got != UnreachablePenalty {
		t.Fatalf("Score = %v, want unreachable penalty %v", got, UnreachablePenalty)
	}
}

func TestScoreAveragesDoorPairs(t *testing.T) {
	plan := geometry.RectangularPlan(5, 4)
	plan.Doors = []geometry.PlanDoor{
		{ID: "south", X: 2.5, Y: 0, WidthM: 0.9},
		{ID: "north", X: 2.5, Y: 4, WidthM: 0.9},
	}
	room, err := geometry.NewRoom(plan)
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	got := NewScorer().Score(room, nil)
	if got < 0.95 {
		t.Fatalf("two open routes plus a door pair should score near 1, got %v", got)
	}
}

func TestScoreNoDoorsFallsBackToWalkableShare(t *testing.T) {
	room, err := geometry.NewRoom(geometry.RectangularPlan(4, 4))
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	s := NewScorer()
	if got := s.Score(room, nil); got != 1 {
		t.Fatalf("empty doorless room = %v, want 1", got)
	}
	half := []layout.Placement{placementAt("slab", 0, 0, 400, 200)}
	got := s.Score(room, half)
	if got < 0.4 || got > 0.6 {
		t.Fatalf("half-covered room walkable share = %v, want about 0.5", got)
	}
}

func TestGridMarksBlockedCells(t *testing.T) {
	room, err := geometry.NewRoom(geometry.RectangularPlan(2, 2))
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	g := NewScorer().Grid(room, []layout.Placement{placementAt("box", 0, 0, 100, 100)})

	if g.Walkable(2, 2) {
		t.Error("cell inside the footprint should be blocked")
	}
	if !g.Walkable(15, 15) {
		t.Error("cell outside the footprint should be walkable")
	}
}
