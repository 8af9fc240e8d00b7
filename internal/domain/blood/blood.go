// Package blood defines blood group types shared across the matching engine.
package blood

import (
	"strings"

	"github.com/bloodlink/bloodlink/pkg/errs"
)

// Group is an ABO/Rh blood group.
type Group string

const (
	APos  Group = "A+"
	ANeg  Group = "A-"
	BPos  Group = "B+"
	BNeg  Group = "B-"
	ABPos Group = "AB+"
	ABNeg Group = "AB-"
	OPos  Group = "O+"
	ONeg  Group = "O-"
)

var validGroups = map[Group]bool{
	APos: true, ANeg: true,
	BPos: true, BNeg: true,
	ABPos: true, ABNeg: true,
	OPos: true, ONeg: true,
}

// Groups returns all valid blood groups in a stable order.
func Groups() []Group {
	return []Group{APos, ANeg, BPos, BNeg, ABPos, ABNeg, OPos, ONeg}
}

// Parse normalizes and validates a blood group string.
func Parse(s string) (Group, error) {
	g := Group(strings.ToUpper(strings.TrimSpace(s)))
	if !validGroups[g] {
		return "", errs.Errorf(errs.CodeInvalidArgument, "invalid blood group: %q", s)
	}
	return g, nil
}

// Valid reports whether g is a recognized blood group.
func (g Group) Valid() bool {
	return validGroups[g]
}

// Matches reports whether a donor of group g can serve a request for want.
// Matching is exact: cross-group ABO compatibility is a clinical decision
// left to the requesting hospital.
func (g Group) Matches(want Group) bool {
	return g == want
}

func (g Group) String() string {
	return string(g)
}
