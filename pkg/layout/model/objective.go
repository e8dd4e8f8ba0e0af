package model

import (
	"math"
)

// Space-utilization band for living spaces: the fraction of floor area
// covered by furniture that scores highest.
const (
	utilizationLow  = 0.25
	utilizationHigh = 0.35
)

// SoftTerms carries objective components the model cannot compute by
// itself. Flow is the normalized path score produced by the flow scorer;
// callers that have not run it pass an estimate.
type SoftTerms struct {
	Flow float64
}

// Score combines the soft objective terms into one scalar in [0, 1] using
// the request weights. Higher is better. Hard-constraint satisfaction is a
// precondition, not a term: infeasible assignments are never scored.
func (m *Model) Score(a *Assignment, terms SoftTerms) float64 {
	w := m.Weights
	total := w.Sum()
	if total == 0 {
		w = Balanced()
		total = w.Sum()
	}

	s := w.PlacementCoverage * m.coverageTerm(a)
	s += w.BudgetOptimization * m.budgetTerm(a)
	s += w.FlowOptimization * clamp01(terms.Flow)
	s += w.Daylight * m.daylightTerm(a)
	s += w.Symmetry * m.symmetryTerm(a)
	return s / total
}

// CoverageRatio returns the fraction of floor area covered by furniture.
func (m *Model) CoverageRatio(a *Assignment) float64 {
	area := m.Room.Bounds.Area()
	if area == 0 {
		return 0
	}
	return math.Min(1, a.FootprintArea()/area)
}

// coverageTerm rewards placing many items at a healthy room density:
// placement fraction blended with closeness to the utilization band.
func (m *Model) coverageTerm(a *Assignment) float64 {
	if len(m.Vars) == 0 {
		return 0
	}
	placed := float64(len(a.Placements)) / float64(len(m.Vars))
	return 0.6*placed + 0.4*utilizationScore(m.CoverageRatio(a))
}

// utilizationScore peaks inside the utilization band and falls off
// linearly on both sides.
func utilizationScore(ratio float64) float64 {
	switch {
	case ratio >= utilizationLow && ratio <= utilizationHigh:
		return 1
	case ratio < utilizationLow:
		return ratio / utilizationLow
	default:
		return math.Max(0, 1-(ratio-utilizationHigh)/0.3)
	}
}

// budgetTerm rewards cheaper selections. With a requested budget, staying
// under it is best and overshoot decays toward zero; without one, cost is
// normalized against the cost of selecting the entire candidate set, so
// the term decreases monotonically with spend either way.
func (m *Model) budgetTerm(a *Assignment) float64 {
	cost := float64(a.TotalCost())
	if m.BudgetCents > 0 {
		budget := float64(m.BudgetCents)
		if cost <= budget {
			return 1 - 0.5*cost/budget
		}
		return math.Max(0, 0.5-(cost-budget)/budget)
	}
	if m.maxCost == 0 {
		return 1
	}
	return 1 - cost/float64(m.maxCost)
}

// daylightTerm rewards seats and work surfaces close to windows, falling
// off with inverse distance. Rooms without windows score a neutral 0.5.
func (m *Model) daylightTerm(a *Assignment) float64 {
	if len(m.Room.Windows) == 0 {
		return 0.5
	}
	var sum float64
	var n int
	for _, p := range a.Placements {
		if p.Category != "seating" && p.Category != "work" {
			continue
		}
		best := math.Inf(1)
		for _, w := range m.Room.Windows {
			best = math.Min(best, p.Footprint().Center().Dist(w.Position))
		}
		sum += 1 / (1 + best/100)
		n++
	}
	if n == 0 {
		return 0.5
	}
	return sum / float64(n)
}

// symmetryTerm rewards aligning the largest placed item with a room axis.
func (m *Model) symmetryTerm(a *Assignment) float64 {
	if len(a.Placements) == 0 {
		return 0
	}
	var anchor *int
	var bestArea float64
	for i := range a.Placements {
		area := a.Placements[i].WidthCm * a.Placements[i].DepthCm
		if area > bestArea {
			bestArea = area
			j := i
			anchor = &j
		}
	}
	center := a.Placements[*anchor].Footprint().Center()
	room := m.Room.Center()
	offset := math.Min(math.Abs(center.X-room.X), math.Abs(center.Y-room.Y))
	half := m.Room.SmallerDim() / 2
	if half == 0 {
		return 0
	}
	return 1 - math.Min(1, offset/half)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
