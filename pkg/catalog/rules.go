package catalog

import (
	"encoding/json"

	"github.com/matzehuels/roomforge/pkg/errors"
)

// PlacementRule is a closed enumeration of placement behaviors an item can
// request. Rules arrive on the wire as strings; parsing rejects unknown
// values so new rule kinds are introduced here, not scattered through
// ad-hoc string matching.
type PlacementRule int

// Placement rule variants.
const (
	RuleAgainstWall PlacementRule = iota
	RuleCorner
	RuleRoomCenter
	RuleSofaFront
	RuleSofaSide
	RuleChairSide
	RuleTVViewing
	RuleWindowAdjacent
	RuleDeskPair
	RuleAccent
	RuleWallCentered
)

var ruleNames = map[PlacementRule]string{
	RuleAgainstWall:    "against_wall",
	RuleCorner:         "corner",
	RuleRoomCenter:     "room_center",
	RuleSofaFront:      "sofa_front",
	RuleSofaSide:       "sofa_side",
	RuleChairSide:      "chair_side",
	RuleTVViewing:      "tv_viewing",
	RuleWindowAdjacent: "window_adjacent",
	RuleDeskPair:       "desk_pair",
	RuleAccent:         "accent",
	RuleWallCentered:   "wall_centered",
}

var rulesByName = func() map[string]PlacementRule {
	m := make(map[string]PlacementRule, len(ruleNames))
	for r, n := range ruleNames {
		m[n] = r
	}
	return m
}()

// String returns the wire name of the rule.
func (r PlacementRule) String() string {
	if n, ok := ruleNames[r]; ok {
		return n
	}
	return "unknown"
}

// ParseRule converts a wire name into a PlacementRule. Unknown names return
// an INVALID_FURNITURE error.
func ParseRule(name string) (PlacementRule, error) {
	if r, ok := rulesByName[name]; ok {
		return r, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidFurniture, "unknown placement rule %q", name)
}

// MarshalJSON encodes the rule as its wire name.
func (r PlacementRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a wire name, rejecting unknown rules.
func (r *PlacementRule) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseRule(name)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
