// Package model translates a furniture catalog, room geometry, and objective
// weights into the decision-variable model searched by the solver and
// refiner: per-item position, discrete rotation, and selection, plus the
// hard-constraint set and the weighted soft objective.
//
// The model owns feasibility: solver, refiner, and seeder all funnel every
// candidate placement through CheckPlacement, so no component can explore
// infeasible space by accident. The validator re-implements the same rules
// independently (see pkg/layout/validate) and is authoritative when the two
// disagree.
package model

import (
	"math"

	"github.com/matzehuels/roomforge/pkg/catalog"
	"github.com/matzehuels/roomforge/pkg/errors"
	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout"
)

// Rotations enumerates the discrete rotation domain of every placement
// variable, in degrees.
var Rotations = []int{0, 90, 180, 270}

// Weights are the named soft-objective weights supplied per request.
// Each weight lies in [0, 1]; they need not sum to one.
type Weights struct {
	PlacementCoverage  float64 `json:"placement_coverage"`
	BudgetOptimization float64 `json:"budget_optimization"`
	FlowOptimization   float64 `json:"flow_optimization"`
	Daylight           float64 `json:"daylight,omitempty"`
	Symmetry           float64 `json:"symmetry,omitempty"`
}

// Balanced returns the default weight set used when a request supplies none.
func Balanced() Weights {
	return Weights{PlacementCoverage: 0.4, BudgetOptimization: 0.3, FlowOptimization: 0.3}
}

// Validate checks every weight lies in [0, 1].
func (w Weights) Validate() error {
	check := func(name string, v float64) error {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return errors.New(errors.ErrCodeInvalidWeights, "weight %s = %v outside [0,1]", name, v)
		}
		return nil
	}
	if err := check("placement_coverage", w.PlacementCoverage); err != nil {
		return err
	}
	if err := check("budget_optimization", w.BudgetOptimization); err != nil {
		return err
	}
	if err := check("flow_optimization", w.FlowOptimization); err != nil {
		return err
	}
	if err := check("daylight", w.Daylight); err != nil {
		return err
	}
	return check("symmetry", w.Symmetry)
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.PlacementCoverage + w.BudgetOptimization + w.FlowOptimization + w.Daylight + w.Symmetry
}

// IsZero reports whether no weight is set.
func (w Weights) IsZero() bool { return w.Sum() == 0 }

// Variable is the decision variable for one furniture item: a continuous
// position, a discrete rotation, and a selection flag. Variables exist only
// within a solve session.
type Variable struct {
	Item      catalog.Item
	Rotations []int
}

// Excluded records an item removed from the variable set before solving,
// with the reason it can never be placed.
type Excluded struct {
	ItemID string `json:"item_id"`
	Reason string `json:"reason"`
}

// Model is the complete variable/constraint model for one solve request.
// A Model is immutable after Build and safe for concurrent readers.
type Model struct {
	Room     *geometry.Room
	Vars     []Variable
	Excluded []Excluded
	Weights  Weights

	// BudgetCents is the requested budget; zero means unpriced request.
	BudgetCents int64

	swings  []geometry.SwingArc
	maxCost int64
}

// Build constructs the model. Items whose footprint cannot fit the room in
// any rotation are excluded from the variable set entirely rather than
// offered to the solver; an oversized catalog therefore yields an empty
// result, never a solver failure.
func Build(room *geometry.Room, items []catalog.Item, w Weights, budgetCents int64) (*Model, error) {
	if room == nil {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "nil room")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := catalog.ValidateAll(items); err != nil {
		return nil, err
	}

	m := &Model{
		Room:        room,
		Weights:     w,
		BudgetCents: budgetCents,
	}
	if m.Weights.IsZero() {
		m.Weights = Balanced()
	}

	for _, it := range items {
		if !fitsRoom(it, room) {
			m.Excluded = append(m.Excluded, Excluded{
				ItemID: it.ID,
				Reason: "footprint exceeds room bounds in every rotation",
			})
			continue
		}
		m.Vars = append(m.Vars, Variable{Item: it, Rotations: Rotations})
		m.maxCost += it.Price
	}

	for _, d := range room.Doors {
		m.swings = append(m.swings, geometry.DoorSwing(d, room))
	}
	return m, nil
}

// fitsRoom reports whether the item fits within the room bounds in at least
// one rotation.
func fitsRoom(it catalog.Item, room *geometry.Room) bool {
	w, h := room.Width(), room.Height()
	return (it.WidthCm <= w && it.DepthCm <= h) || (it.DepthCm <= w && it.WidthCm <= h)
}

// NewPlacement builds an enriched placement for an item of this model.
func (m *Model) NewPlacement(it catalog.Item, xCm, yCm float64, rotationDeg int, anchor string) layout.Placement {
	rules := make([]string, 0, len(it.Rules))
	for _, r := range it.Rules {
		rules = append(rules, r.String())
	}
	return layout.Placement{
		FurnitureID:      it.ID,
		Name:             it.Name,
		Category:         it.Category,
		XCm:              xCm,
		YCm:              yCm,
		RotationDeg:      rotationDeg,
		WidthCm:          it.WidthCm,
		DepthCm:          it.DepthCm,
		HeightCm:         it.HeightCm,
		ClearanceCm:      pairwiseClearance(it.Clearance),
		PriceCents:       it.Price,
		ScreenDiagonalCm: it.ScreenDiagonalCm,
		Rules:            rules,
		Anchor:           anchor,
	}
}

// Var returns the variable for an item ID, or nil.
func (m *Model) Var(itemID string) *Variable {
	for i := range m.Vars {
		if m.Vars[i].Item.ID == itemID {
			return &m.Vars[i]
		}
	}
	return nil
}

// MaxCost returns the cost of selecting every feasible item, used to
// normalize the budget objective for unpriced requests.
func (m *Model) MaxCost() int64 { return m.maxCost }

// Swings returns the precomputed door swing arcs.
func (m *Model) Swings() []geometry.SwingArc { return m.swings }

// pairwiseClearance picks the uniform clearance used between item pairs:
// the item's uniform requirement when set, otherwise the default. Per-side
// clearances are honored by the functional pairing rules, not the pairwise
// spacing check, so deliberately adjacent pairs (sofa and coffee table)
// remain representable.
func pairwiseClearance(c catalog.Clearance) float64 {
	if c.AllCm > 0 {
		return c.AllCm
	}
	return catalog.DefaultClearanceCm
}

// Assignment is a mutable set of selected placements under construction by
// the solver or refiner. It is not safe for concurrent use.
type Assignment struct {
	Placements []layout.Placement
}

// Clone deep-copies the assignment.
func (a *Assignment) Clone() *Assignment {
	out := &Assignment{Placements: make([]layout.Placement, len(a.Placements))}
	copy(out.Placements, a.Placements)
	return out
}

// Get returns the placement for an item ID, or nil.
func (a *Assignment) Get(itemID string) *layout.Placement {
	for i := range a.Placements {
		if a.Placements[i].FurnitureID == itemID {
			return &a.Placements[i]
		}
	}
	return nil
}

// Has reports whether the item is selected.
func (a *Assignment) Has(itemID string) bool { return a.Get(itemID) != nil }

// Add appends a placement.
func (a *Assignment) Add(p layout.Placement) { a.Placements = append(a.Placements, p) }

// Remove drops the placement for an item ID, preserving order.
func (a *Assignment) Remove(itemID string) {
	for i := range a.Placements {
		if a.Placements[i].FurnitureID == itemID {
			a.Placements = append(a.Placements[:i], a.Placements[i+1:]...)
			return
		}
	}
}

// Replace swaps the placement at the item's slot for p.
func (a *Assignment) Replace(itemID string, p layout.Placement) {
	for i := range a.Placements {
		if a.Placements[i].FurnitureID == itemID {
			a.Placements[i] = p
			return
		}
	}
	a.Add(p)
}

// TotalCost sums the prices of selected items.
func (a *Assignment) TotalCost() int64 {
	var total int64
	for _, p := range a.Placements {
		total += p.PriceCents
	}
	return total
}

// PrioritySum sums variable priorities of selected items; lower is better
// and is used as the final tie-break between equal-scoring assignments.
func (a *Assignment) PrioritySum(m *Model) int {
	var total int
	for _, p := range a.Placements {
		if v := m.Var(p.FurnitureID); v != nil {
			total += v.Item.Priority
		}
	}
	return total
}

// FootprintArea sums the selected footprint areas in square centimeters.
func (a *Assignment) FootprintArea() float64 {
	var total float64
	for _, p := range a.Placements {
		total += p.WidthCm * p.DepthCm
	}
	return total
}
