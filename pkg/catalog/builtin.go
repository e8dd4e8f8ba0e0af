package catalog

// Builtin returns the demo furniture catalog used by the CLI when no
// external catalog is supplied. Dimensions, clearances, prices, rules and
// priorities match the vendor seed data, converted to centimeters.
func Builtin() []Item {
	return []Item{
		{
			ID: "sofa_3seat", Name: "3-Seat Sofa", Category: "seating",
			WidthCm: 228, DepthCm: 95, HeightCm: 83,
			Clearance: Clearance{FrontCm: 80, BackCm: 30, SidesCm: 30},
			Rules:     []PlacementRule{RuleAgainstWall, RuleRoomCenter},
			Priority:  1, Price: 79900,
			StyleTags: []string{"modern", "traditional"},
		},
		{
			ID: "armchair", Name: "Armchair", Category: "seating",
			WidthCm: 80, DepthCm: 85, HeightCm: 90,
			Clearance: Clearance{FrontCm: 60, BackCm: 20, SidesCm: 20},
			Rules:     []PlacementRule{RuleCorner, RuleAccent},
			Priority:  2, Price: 39900,
			StyleTags: []string{"modern", "traditional", "minimalist"},
		},
		{
			ID: "coffee_table", Name: "Coffee Table", Category: "table",
			WidthCm: 120, DepthCm: 60, HeightCm: 45,
			Clearance: Clearance{AllCm: 40},
			Rules:     []PlacementRule{RuleSofaFront},
			Priority:  2, Price: 24999,
			StyleTags: []string{"modern", "minimalist"},
		},
		{
			ID: "side_table", Name: "Side Table", Category: "table",
			WidthCm: 50, DepthCm: 50, HeightCm: 55,
			Clearance: Clearance{AllCm: 20},
			Rules:     []PlacementRule{RuleSofaSide, RuleChairSide},
			Priority:  3, Price: 12999,
			StyleTags: []string{"modern", "traditional"},
		},
		{
			ID: "tv_stand", Name: "TV Stand", Category: "media",
			WidthCm: 150, DepthCm: 40, HeightCm: 60,
			Clearance:        Clearance{FrontCm: 150, BackCm: 10, SidesCm: 20},
			Rules:            []PlacementRule{RuleAgainstWall, RuleTVViewing},
			Priority:         2, Price: 34999,
			StyleTags:        []string{"modern", "minimalist"},
			ScreenDiagonalCm: 140,
		},
		{
			ID: "bookshelf", Name: "Bookshelf", Category: "storage",
			WidthCm: 80, DepthCm: 30, HeightCm: 180,
			Clearance: Clearance{FrontCm: 50, BackCm: 10, SidesCm: 10},
			Rules:     []PlacementRule{RuleAgainstWall},
			Priority:  3, Price: 29999,
			StyleTags: []string{"traditional", "modern"},
		},
		{
			ID: "desk", Name: "Desk", Category: "work",
			WidthCm: 120, DepthCm: 60, HeightCm: 75,
			Clearance: Clearance{FrontCm: 100, BackCm: 30, SidesCm: 30},
			Rules:     []PlacementRule{RuleAgainstWall, RuleWindowAdjacent},
			Priority:  2, Price: 45999,
			StyleTags: []string{"modern", "minimalist"},
		},
		{
			ID: "office_chair", Name: "Office Chair", Category: "seating",
			WidthCm: 60, DepthCm: 60, HeightCm: 120,
			Clearance: Clearance{FrontCm: 80, BackCm: 50, SidesCm: 30},
			Rules:     []PlacementRule{RuleDeskPair},
			Priority:  2, Price: 25999,
			StyleTags: []string{"modern", "ergonomic"},
		},
	}
}
