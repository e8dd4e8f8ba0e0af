// Package rank orders solved layouts and picks a diverse shortlist: the
// best solution always survives, and each further slot goes to the highest
// scorer that differs enough from everything already chosen. It also
// renders the user-facing rationale attached to each layout.
package rank

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/layout/seed"
)

const (
	// PositionThresholdCm is the displacement at which two placements of
	// the same item count as fully different.
	PositionThresholdCm = 50

	// DefaultDiversityThreshold is the minimum dissimilarity between any
	// two shortlisted layouts.
	DefaultDiversityThreshold = 0.3
)

// Dissimilarity measures how different two solutions are in [0, 1]: the
// mean over the item union of per-item differences, where an item placed
// in only one solution counts 1, diverging rotations count at least 0.5,
// and displacement ramps up to 1 at PositionThresholdCm.
func Dissimilarity(a, b layout.Solution) float64 {
	byID := func(s layout.Solution) map[string]layout.Placement {
		m := make(map[string]layout.Placement, len(s.Placements))
		for _, p := range s.Placements {
			m[p.FurnitureID] = p
		}
		return m
	}
	pa, pb := byID(a), byID(b)

	ids := make(map[string]struct{}, len(pa)+len(pb))
	for id := range pa {
		ids[id] = struct{}{}
	}
	for id := range pb {
		ids[id] = struct{}{}
	}
	if len(ids) == 0 {
		return 0
	}

	diffs := make([]float64, 0, len(ids))
	for id := range ids {
		qa, oka := pa[id]
		qb, okb := pb[id]
		if !oka || !okb {
			diffs = append(diffs, 1)
			continue
		}
		shift := qa.Footprint().Center().Dist(qb.Footprint().Center())
		d := shift / PositionThresholdCm
		if d > 1 {
			d = 1
		}
		if qa.RotationDeg != qb.RotationDeg && d < 0.5 {
			d = 0.5
		}
		diffs = append(diffs, d)
	}
	return stat.Mean(diffs, nil)
}

// Select returns up to k solutions: the pool ordered by score with
// diversity enforced at the given threshold. Candidates too similar to an
// already-chosen layout are dropped, never recycled, so a uniform pool
// yields fewer than k results rather than near-duplicates.
func Select(pool []layout.Solution, k int, threshold float64) []layout.Solution {
	if k <= 0 || len(pool) == 0 {
		return nil
	}
	ordered := make([]layout.Solution, len(pool))
	copy(ordered, pool)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		if li, lj := len(ordered[i].Placements), len(ordered[j].Placements); li != lj {
			return li > lj
		}
		return ordered[i].TotalCost() < ordered[j].TotalCost()
	})

	selected := make([]layout.Solution, 0, k)
	for _, cand := range ordered {
		if len(selected) == k {
			break
		}
		if minDissimilarity(cand, selected) >= threshold {
			selected = append(selected, cand)
		}
	}
	return selected
}

func minDissimilarity(cand layout.Solution, selected []layout.Solution) float64 {
	if len(selected) == 0 {
		return 1
	}
	ds := make([]float64, len(selected))
	for i, s := range selected {
		ds[i] = Dissimilarity(cand, s)
	}
	return floats.Min(ds)
}

// Rationale renders the explanation attached to a layout: what the seeding
// strategy aimed for plus a verdict tier from the score.
func Rationale(s layout.Solution) string {
	var b strings.Builder
	switch s.Strategy {
	case seed.StrategyConversation:
		b.WriteString("Seating is grouped to face the center of the room, favoring easy conversation.")
	case seed.StrategyWork:
		b.WriteString("The work area anchors the layout near natural light, with lounge seating kept apart.")
	case seed.StrategyEntertainment:
		b.WriteString("Seating is arranged at a comfortable viewing distance from the screen.")
	default:
		b.WriteString("Furniture is arranged for open circulation.")
	}

	switch {
	case s.Score >= 0.85:
		b.WriteString(" This arrangement scores excellently across coverage, budget, and flow.")
	case s.Score >= 0.75:
		b.WriteString(" This arrangement balances coverage, budget, and flow well.")
	default:
		b.WriteString(fmt.Sprintf(" Overall score %.2f; the room constrains how much can be placed.", s.Score))
	}

	if s.Partial {
		b.WriteString(" The search stopped at the time budget, so a longer solve may improve it.")
	}
	return b.String()
}
