// Package catalog defines the furniture catalog consumed by the layout
// engine. Items are owned by the external catalog service and read-only to
// the engine; this package provides the wire types, validation, a builtin
// demo catalog, and candidate filtering helpers.
//
// All dimensions and clearances are in centimeters; prices are integer
// cents. These conventions are part of the engine's external contract and
// must be preserved bit-for-bit.
package catalog

import (
	"math"

	"github.com/matzehuels/roomforge/pkg/errors"
)

// DefaultClearanceCm is the pairwise clearance applied when an item does
// not specify one.
const DefaultClearanceCm = 40

// TallItemThresholdCm is the height above which an item is considered tall
// and subject to window-access constraints.
const TallItemThresholdCm = 100

// Clearance describes required free space around an item, per side or
// uniform. Zero values fall back to AllCm, then to DefaultClearanceCm.
type Clearance struct {
	FrontCm float64 `json:"front_cm,omitempty"`
	BackCm  float64 `json:"back_cm,omitempty"`
	SidesCm float64 `json:"sides_cm,omitempty"`
	AllCm   float64 `json:"all_cm,omitempty"`
}

// Uniform collapses the clearance to a single conservative value: the
// uniform clearance if set, otherwise the largest per-side requirement,
// otherwise DefaultClearanceCm.
func (c Clearance) Uniform() float64 {
	if c.AllCm > 0 {
		return c.AllCm
	}
	m := math.Max(c.FrontCm, math.Max(c.BackCm, c.SidesCm))
	if m > 0 {
		return m
	}
	return DefaultClearanceCm
}

// Item is a single furniture catalog entry.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	WidthCm  float64 `json:"width_cm"`
	DepthCm  float64 `json:"depth_cm"`
	HeightCm float64 `json:"height_cm"`
	Category string  `json:"category"` // seating, table, storage, work, media

	Clearance Clearance       `json:"clearances"`
	Rules     []PlacementRule `json:"placement_rules"`
	Priority  int             `json:"priority"` // lower value = place first
	Price     int64           `json:"price_cents"`
	StyleTags []string        `json:"style_tags,omitempty"`

	// ScreenDiagonalCm is set for media items carrying a screen and drives
	// the viewing-distance band constraint.
	ScreenDiagonalCm float64 `json:"screen_diagonal_cm,omitempty"`
}

// FootprintArea returns the floor area of the item in square centimeters.
func (i Item) FootprintArea() float64 { return i.WidthCm * i.DepthCm }

// MinDim returns the smaller footprint dimension. An item whose MinDim
// exceeds the room's smaller bound can never be placed.
func (i Item) MinDim() float64 { return math.Min(i.WidthCm, i.DepthCm) }

// IsTall reports whether the item is subject to window-access constraints.
func (i Item) IsTall() bool { return i.HeightCm > TallItemThresholdCm }

// IsTV reports whether the item carries a screen with viewing constraints.
func (i Item) IsTV() bool {
	return i.Category == "media" || i.HasRule(RuleTVViewing)
}

// IsSeat reports whether the item is something a person sits on.
func (i Item) IsSeat() bool { return i.Category == "seating" }

// IsDesk reports whether the item is a work surface with ergonomic bounds.
func (i Item) IsDesk() bool { return i.Category == "work" }

// HasRule reports whether the item carries the given placement rule.
func (i Item) HasRule(r PlacementRule) bool {
	for _, rule := range i.Rules {
		if rule == r {
			return true
		}
	}
	return false
}

// HasStyle reports whether the item carries any of the given style tags.
func (i Item) HasStyle(tags []string) bool {
	for _, want := range tags {
		for _, have := range i.StyleTags {
			if want == have {
				return true
			}
		}
	}
	return false
}

// Validate checks an item for structural problems: empty IDs, non-positive
// dimensions, negative prices. Returns an INVALID_FURNITURE error.
func (i Item) Validate() error {
	if i.ID == "" {
		return errors.New(errors.ErrCodeInvalidFurniture, "furniture item has empty id")
	}
	if i.WidthCm <= 0 || i.DepthCm <= 0 || i.HeightCm <= 0 {
		return errors.New(errors.ErrCodeInvalidFurniture,
			"item %q has non-positive dimensions (%.0fx%.0fx%.0f cm)",
			i.ID, i.WidthCm, i.DepthCm, i.HeightCm)
	}
	if i.Price < 0 {
		return errors.New(errors.ErrCodeInvalidFurniture, "item %q has negative price", i.ID)
	}
	return nil
}

// ValidateAll validates every item and checks for duplicate IDs.
func ValidateAll(items []Item) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
		if seen[it.ID] {
			return errors.New(errors.ErrCodeInvalidFurniture, "duplicate furniture id %q", it.ID)
		}
		seen[it.ID] = true
	}
	return nil
}

// ByID builds an index from item ID to item.
func ByID(items []Item) map[string]Item {
	m := make(map[string]Item, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return m
}

// FilterStyle keeps items matching any of the style tags. With no tags, or
// when nothing matches, the input is returned unchanged so the caller never
// loses its whole candidate set to an over-narrow preference.
func FilterStyle(items []Item, tags []string) []Item {
	if len(tags) == 0 {
		return items
	}
	var out []Item
	for _, it := range items {
		if it.HasStyle(tags) {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return items
	}
	return out
}

// FilterBudget drops items costing more than 40% of the total budget, the
// single-item cap used when assembling candidates for a priced request.
// A zero budget disables the filter.
func FilterBudget(items []Item, budgetCents int64) []Item {
	if budgetCents <= 0 {
		return items
	}
	maxPrice := float64(budgetCents) * 0.4
	var out []Item
	for _, it := range items {
		if float64(it.Price) <= maxPrice {
			out = append(out, it)
		}
	}
	return out
}

// FilterArea drops bulky items (footprint >= 2 m²) for small rooms under
// 15 m². Larger rooms pass through unchanged.
func FilterArea(items []Item, roomAreaSqCm float64) []Item {
	const smallRoomSqCm = 15 * 100 * 100
	const bulkySqCm = 2 * 100 * 100
	if roomAreaSqCm >= smallRoomSqCm {
		return items
	}
	var out []Item
	for _, it := range items {
		if it.FootprintArea() < bulkySqCm {
			out = append(out, it)
		}
	}
	return out
}
