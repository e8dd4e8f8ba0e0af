package catalog

import (
	"strings"
	"testing"

	"github.com/matzehuels/roomforge/pkg/errors"
)

func validItem() Item {
	return Item{
		ID: "sofa", Name: "Sofa", Category: "seating",
		WidthCm: 200, DepthCm: 90, HeightCm: 80, Price: 50000,
	}
}

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Item)
		wantErr bool
	}{
		{"valid", func(*Item) {}, false},
		{"empty id", func(i *Item) { i.ID = "" }, true},
		{"zero width", func(i *Item) { i.WidthCm = 0 }, true},
		{"negative depth", func(i *Item) { i.DepthCm = -1 }, true},
		{"zero height", func(i *Item) { i.HeightCm = 0 }, true},
		{"negative price", func(i *Item) { i.Price = -1 }, true},
		{"free item", func(i *Item) { i.Price = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := validItem()
			tt.mutate(&it)
			err := it.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFurniture) {
				t.Errorf("Validate() code = %v, want INVALID_FURNITURE", errors.GetCode(err))
			}
		})
	}
}

func TestValidateAllRejectsDuplicates(t *testing.T) {
	items := []Item{validItem(), validItem()}
	if err := ValidateAll(items); err == nil {
		t.Error("expected error for duplicate ids, got nil")
	}
}

func TestClearanceUniform(t *testing.T) {
	tests := []struct {
		name string
		c    Clearance
		want float64
	}{
		{"uniform set", Clearance{AllCm: 25}, 25},
		{"largest side wins", Clearance{FrontCm: 80, BackCm: 30, SidesCm: 20}, 80},
		{"uniform beats sides", Clearance{AllCm: 10, FrontCm: 80}, 10},
		{"empty defaults", Clearance{}, DefaultClearanceCm},
	}
	for _, tt := range tests {
		if got := tt.c.Uniform(); got != tt.want {
			t.Errorf("%s: Uniform() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestItemClassification(t *testing.T) {
	tv := Item{Category: "media", ScreenDiagonalCm: 140}
	if !tv.IsTV() {
		t.Error("media item should be a TV")
	}
	ruled := Item{Category: "storage", Rules: []PlacementRule{RuleTVViewing}}
	if !ruled.IsTV() {
		t.Error("tv_viewing rule should mark an item as TV")
	}
	tall := Item{HeightCm: 101}
	if !tall.IsTall() {
		t.Error("101cm item should be tall")
	}
	short := Item{HeightCm: 100}
	if short.IsTall() {
		t.Error("100cm item is at the threshold, not above it")
	}
}

func TestFilterStyle(t *testing.T) {
	modern := validItem()
	modern.StyleTags = []string{"modern"}
	classic := validItem()
	classic.ID = "classic"
	classic.StyleTags = []string{"traditional"}
	items := []Item{modern, classic}

	got := FilterStyle(items, []string{"modern"})
	if len(got) != 1 || got[0].ID != "sofa" {
		t.Errorf("FilterStyle() = %v, want only sofa", got)
	}

	// No tags: pass through.
	if got := FilterStyle(items, nil); len(got) != 2 {
		t.Errorf("FilterStyle(nil) kept %d items, want 2", len(got))
	}

	// No matches: never empty the candidate set.
	if got := FilterStyle(items, []string{"brutalist"}); len(got) != 2 {
		t.Errorf("FilterStyle(no match) kept %d items, want all 2", len(got))
	}
}

func TestFilterBudget(t *testing.T) {
	cheap := validItem()
	cheap.Price = 10000
	pricey := validItem()
	pricey.ID = "pricey"
	pricey.Price = 50000

	got := FilterBudget([]Item{cheap, pricey}, 100000) // 40% cap = 40000
	if len(got) != 1 || got[0].ID != "sofa" {
		t.Errorf("FilterBudget() = %v, want only the cheap item", got)
	}
	if got := FilterBudget([]Item{cheap, pricey}, 0); len(got) != 2 {
		t.Errorf("zero budget should disable the filter, kept %d", len(got))
	}
}

func TestFilterArea(t *testing.T) {
	bulky := validItem() // 200x90 = 1.8 m^2
	huge := validItem()
	huge.ID = "huge"
	huge.WidthCm, huge.DepthCm = 250, 100 // 2.5 m^2

	small := 10.0 * 100 * 100 // 10 m^2 room
	got := FilterArea([]Item{bulky, huge}, small)
	if len(got) != 1 || got[0].ID != "sofa" {
		t.Errorf("FilterArea(small room) = %v, want only the 1.8m^2 item", got)
	}

	large := 20.0 * 100 * 100
	if got := FilterArea([]Item{bulky, huge}, large); len(got) != 2 {
		t.Errorf("large room should pass all items, kept %d", len(got))
	}
}

func TestParseRuleRoundTrip(t *testing.T) {
	for rule, name := range map[PlacementRule]string{
		RuleAgainstWall: "against_wall",
		RuleDeskPair:    "desk_pair",
		RuleTVViewing:   "tv_viewing",
	} {
		if rule.String() != name {
			t.Errorf("String() = %q, want %q", rule.String(), name)
		}
		parsed, err := ParseRule(name)
		if err != nil || parsed != rule {
			t.Errorf("ParseRule(%q) = %v, %v", name, parsed, err)
		}
	}

	if _, err := ParseRule("levitating"); err == nil {
		t.Error("expected error for unknown rule, got nil")
	}
}

func TestReadRejectsUnknownRule(t *testing.T) {
	in := `[{"id": "x", "name": "X", "width_cm": 10, "depth_cm": 10, "height_cm": 10,
		"category": "storage", "placement_rules": ["levitating"]}]`
	if _, err := Read(strings.NewReader(in)); err == nil {
		t.Error("expected error for unknown placement rule, got nil")
	}
}

func TestBuiltinIsValid(t *testing.T) {
	items := Builtin()
	if len(items) == 0 {
		t.Fatal("builtin catalog is empty")
	}
	if err := ValidateAll(items); err != nil {
		t.Fatalf("builtin catalog invalid: %v", err)
	}
}
