package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout"
)

// ReadPlan decodes a room plan from r and validates its geometry.
//
// The input is the meters-based plan format produced by the scanning
// pipeline: a bounds box plus wall, door, and window lists. ReadPlan
// rejects plans the solver could not load (zero-area bounds, openings
// outside the room, degenerate walls) so callers see the problem with
// file context instead of a mid-pipeline failure.
func ReadPlan(r io.Reader) (geometry.Plan, error) {
	var plan geometry.Plan
	if err := json.NewDecoder(r).Decode(&plan); err != nil {
		return geometry.Plan{}, fmt.Errorf("decode: %w", err)
	}
	if _, err := geometry.NewRoom(plan); err != nil {
		return geometry.Plan{}, err
	}
	return plan, nil
}

// ImportPlan reads a JSON room plan from the file at path.
func ImportPlan(path string) (geometry.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return geometry.Plan{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	plan, err := ReadPlan(f)
	if err != nil {
		return geometry.Plan{}, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// placementsFile accepts a bare placement array, a {"placements": [...]}
// wrapper, or a full exported solution.
type placementsFile struct {
	Placements []layout.Placement `json:"placements"`
}

// ReadPlacements decodes a placement list from r, for re-validating a
// layout produced earlier.
func ReadPlacements(r io.Reader) ([]layout.Placement, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var placements []layout.Placement
	if err := json.Unmarshal(raw, &placements); err == nil {
		return placements, nil
	}

	var wrapped placementsFile
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return wrapped.Placements, nil
}

// ImportPlacements reads a JSON placement list from the file at path.
func ImportPlacements(path string) ([]layout.Placement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	placements, err := ReadPlacements(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return placements, nil
}
