// Package solve turns a seeded model into the best assignment it can find
// within a time budget. The solver is pluggable behind the Backend
// interface; the default backend runs a deterministic greedy placement over
// a candidate grid followed by local improvement passes.
package solve

import (
	"context"
	"math"

	"github.com/matzehuels/roomforge/pkg/errors"
	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/layout/model"
)

// Result is the outcome of one backend run. Partial marks results returned
// because the time budget ran out before the search finished; a partial
// result is still fully feasible.
type Result struct {
	Assignment *model.Assignment
	Score      float64
	Partial    bool
}

// Backend searches for a high-scoring feasible assignment starting from a
// seed. Implementations honor ctx cancellation and deadline: an expired
// deadline yields the best assignment found so far with Partial set, while
// explicit cancellation returns a SOLVE_CANCELLED error.
type Backend interface {
	Solve(ctx context.Context, m *model.Model, start *model.Assignment) (Result, error)
}

// GridSearch is the default backend: greedy insertion of unplaced items
// over a regular candidate grid, then hill-climbing relocation passes.
// It is deterministic for a given model and seed.
type GridSearch struct {
	// StepCm is the candidate grid resolution.
	StepCm float64
	// Passes bounds the local improvement sweeps after construction.
	Passes int
}

// NewGridSearch returns a GridSearch with the default resolution.
func NewGridSearch() *GridSearch {
	return &GridSearch{StepCm: 20, Passes: 2}
}

// Solve implements Backend.
func (g *GridSearch) Solve(ctx context.Context, m *model.Model, start *model.Assignment) (Result, error) {
	step := g.StepCm
	if step <= 0 {
		step = 20
	}
	passes := g.Passes
	if passes <= 0 {
		passes = 2
	}

	asg := &model.Assignment{}
	if start != nil {
		asg = start.Clone()
	}

	s := &search{ctx: ctx, m: m, step: step}

	// Greedy insertion of everything the seed left out, best variable
	// first by catalog priority.
	for _, v := range m.Vars {
		if s.expired() {
			break
		}
		if asg.Has(v.Item.ID) {
			continue
		}
		if p, ok := s.bestPlacement(asg, v, nil); ok {
			asg.Add(p)
		}
	}

	// Relocation passes: move one item at a time to its best spot given
	// the others, keeping only strict improvements.
	for pass := 0; pass < passes && !s.expired(); pass++ {
		improved := false
		for i := range m.Vars {
			if s.expired() {
				break
			}
			v := m.Vars[i]
			cur := asg.Get(v.Item.ID)
			if cur == nil {
				continue
			}
			rest := asg.Clone()
			rest.Remove(v.Item.ID)
			if p, ok := s.bestPlacement(rest, v, cur); ok {
				rest.Add(p)
				if Score(m, rest) > Score(m, asg) {
					asg = rest
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}

	if err := ctx.Err(); err != nil && err != context.DeadlineExceeded {
		return Result{}, errors.Wrap(errors.ErrCodeSolveCancelled, err, "solve cancelled")
	}
	return Result{
		Assignment: asg,
		Score:      Score(m, asg),
		Partial:    s.expired(),
	}, nil
}

// Score evaluates an assignment with the cheap flow proxy used during the
// search. The pipeline rescores final solutions with the real flow scorer.
func Score(m *model.Model, a *model.Assignment) float64 {
	return m.Score(a, model.SoftTerms{Flow: flowProxy(m, a)})
}

// Better ranks two results: higher score wins, then more placed items,
// then the lower catalog priority sum.
func Better(m *model.Model, a, b Result) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if la, lb := len(a.Assignment.Placements), len(b.Assignment.Placements); la != lb {
		return la > lb
	}
	return a.Assignment.PrioritySum(m) < b.Assignment.PrioritySum(m)
}

// flowProxy estimates circulation from open floor share: empty rooms flow
// perfectly, and the estimate decays as furniture crowds the walkable area.
func flowProxy(m *model.Model, a *model.Assignment) float64 {
	area := m.Room.Bounds.Area()
	if area == 0 {
		return 0
	}
	open := 1 - a.FootprintArea()/area
	return math.Max(0, math.Min(1, open))
}

type search struct {
	ctx  context.Context
	m    *model.Model
	step float64

	checks int
}

// expired reports whether the context deadline or cancellation has fired.
// The context is polled every few dozen feasibility checks to keep the
// sweep cheap.
func (s *search) expired() bool {
	return s.ctx.Err() != nil
}

func (s *search) tick() bool {
	s.checks++
	if s.checks%64 == 0 {
		return s.expired()
	}
	return false
}

// bestPlacement sweeps the candidate grid for the highest-scoring feasible
// placement of the variable's item given the fixed assignment. The current
// placement, when non-nil, competes as a candidate so relocation can only
// improve on it.
func (s *search) bestPlacement(fixed *model.Assignment, v model.Variable, cur *layout.Placement) (layout.Placement, bool) {
	var best layout.Placement
	bestScore := math.Inf(-1)
	found := false

	consider := func(p layout.Placement) {
		if s.m.CheckPlacement(fixed, p) != nil {
			return
		}
		trial := fixed.Clone()
		trial.Add(p)
		if sc := Score(s.m, trial); sc > bestScore {
			best, bestScore, found = p, sc, true
		}
	}

	if cur != nil {
		consider(*cur)
	}

	b := s.m.Room.Bounds
	for _, rot := range v.Rotations {
		w, d := geometry.RotatedDims(v.Item.WidthCm, v.Item.DepthCm, rot)
		for y := b.MinY; y+d <= b.MaxY+1e-9; y += s.step {
			for x := b.MinX; x+w <= b.MaxX+1e-9; x += s.step {
				if s.tick() {
					return best, found
				}
				consider(s.m.NewPlacement(v.Item, x, y, rot, ""))
			}
		}
		// Flush against the far walls, which the stride may have skipped.
		for y := b.MinY; y+d <= b.MaxY+1e-9; y += s.step {
			if s.tick() {
				return best, found
			}
			consider(s.m.NewPlacement(v.Item, b.MaxX-w, y, rot, ""))
		}
		for x := b.MinX; x+w <= b.MaxX+1e-9; x += s.step {
			if s.tick() {
				return best, found
			}
			consider(s.m.NewPlacement(v.Item, x, b.MaxY-d, rot, ""))
		}
	}
	return best, found
}
