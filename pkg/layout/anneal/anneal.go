// Package anneal refines a feasible assignment with simulated annealing.
// Moves perturb one placement at a time (shift, rotate, or swap two items
// of the same category); infeasible moves are rejected outright, so the
// refiner never leaves the feasible region it was given.
package anneal

import (
	"context"
	"math"
	"math/rand"

	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/layout/model"
	"github.com/matzehuels/roomforge/pkg/layout/solve"
)

// Config tunes one annealing run.
type Config struct {
	Iterations int
	StartTemp  float64
	Cooling    float64
	MaxShiftCm float64
}

// DefaultConfig returns the tuning used by the pipeline.
func DefaultConfig() Config {
	return Config{
		Iterations: 2000,
		StartTemp:  1.0,
		Cooling:    0.997,
		MaxShiftCm: 60,
	}
}

// Refiner runs simulated annealing over assignments. The random source is
// injected so runs are reproducible under a fixed seed.
type Refiner struct {
	cfg Config
	rng *rand.Rand
}

// New returns a refiner with the given config and random source. A zero
// config falls back to DefaultConfig.
func New(cfg Config, rng *rand.Rand) *Refiner {
	if cfg.Iterations <= 0 {
		cfg = DefaultConfig()
	}
	return &Refiner{cfg: cfg, rng: rng}
}

// Refine improves the assignment in place of a clone and returns the best
// assignment seen. The input is never mutated. Refine stops early when the
// context expires and returns the best so far.
func (r *Refiner) Refine(ctx context.Context, m *model.Model, start *model.Assignment) *model.Assignment {
	cur := start.Clone()
	best := start.Clone()
	curScore := solve.Score(m, cur)
	bestScore := curScore

	temp := r.cfg.StartTemp
	for i := 0; i < r.cfg.Iterations; i++ {
		if i%64 == 0 && ctx.Err() != nil {
			break
		}
		next, ok := r.propose(m, cur)
		if !ok {
			temp *= r.cfg.Cooling
			continue
		}
		nextScore := solve.Score(m, next)
		if accept(curScore, nextScore, temp, r.rng) {
			cur, curScore = next, nextScore
			if curScore > bestScore {
				best, bestScore = cur.Clone(), curScore
			}
		}
		temp *= r.cfg.Cooling
	}
	return best
}

// accept implements the Metropolis criterion: better moves always pass,
// worse moves pass with probability exp(-delta/temp).
func accept(cur, next, temp float64, rng *rand.Rand) bool {
	if next >= cur {
		return true
	}
	if temp <= 0 {
		return false
	}
	return rng.Float64() < math.Exp((next-cur)/temp)
}

// propose generates one random feasible neighbor, or reports failure when
// the sampled move is infeasible or the assignment is empty.
func (r *Refiner) propose(m *model.Model, cur *model.Assignment) (*model.Assignment, bool) {
	if len(cur.Placements) == 0 {
		return nil, false
	}
	switch r.rng.Intn(3) {
	case 0:
		return r.shift(m, cur)
	case 1:
		return r.rotate(m, cur)
	default:
		return r.swap(m, cur)
	}
}

// shift nudges one placement by a random offset within MaxShiftCm.
func (r *Refiner) shift(m *model.Model, cur *model.Assignment) (*model.Assignment, bool) {
	i := r.rng.Intn(len(cur.Placements))
	p := cur.Placements[i]
	p.XCm += (r.rng.Float64()*2 - 1) * r.cfg.MaxShiftCm
	p.YCm += (r.rng.Float64()*2 - 1) * r.cfg.MaxShiftCm
	return r.replaced(m, cur, p)
}

// rotate turns one placement to a different discrete rotation, keeping its
// footprint center fixed.
func (r *Refiner) rotate(m *model.Model, cur *model.Assignment) (*model.Assignment, bool) {
	i := r.rng.Intn(len(cur.Placements))
	p := cur.Placements[i]
	center := p.Footprint().Center()

	rot := model.Rotations[r.rng.Intn(len(model.Rotations))]
	if rot == p.RotationDeg {
		rot = (rot + 90) % 360
	}
	p.RotationDeg = rot
	fp := p.Footprint()
	p.XCm += center.X - fp.Center().X
	p.YCm += center.Y - fp.Center().Y
	return r.replaced(m, cur, p)
}

// swap exchanges the positions of two same-category placements.
func (r *Refiner) swap(m *model.Model, cur *model.Assignment) (*model.Assignment, bool) {
	i := r.rng.Intn(len(cur.Placements))
	var partners []int
	for j := range cur.Placements {
		if j != i && cur.Placements[j].Category == cur.Placements[i].Category {
			partners = append(partners, j)
		}
	}
	if len(partners) == 0 {
		return nil, false
	}
	j := partners[r.rng.Intn(len(partners))]

	next := cur.Clone()
	a, b := &next.Placements[i], &next.Placements[j]
	a.XCm, b.XCm = b.XCm, a.XCm
	a.YCm, b.YCm = b.YCm, a.YCm
	a.RotationDeg, b.RotationDeg = b.RotationDeg, a.RotationDeg
	if m.FirstViolation(next) != nil {
		return nil, false
	}
	return next, true
}

// replaced swaps p into a clone of cur and keeps it only if the result
// stays feasible.
func (r *Refiner) replaced(m *model.Model, cur *model.Assignment, p layout.Placement) (*model.Assignment, bool) {
	next := cur.Clone()
	next.Replace(p.FurnitureID, p)

	rest := next.Clone()
	rest.Remove(p.FurnitureID)
	if m.CheckPlacement(rest, p) != nil {
		return nil, false
	}
	return next, true
}
