package taxonomy

import (
	"fmt"

	"github.com/jonkmatsumo/classroom-auditor/internal/normalize"
)

// AreaKind identifies which rule family an area selects.
type AreaKind string

// Area kinds.
const (
	AreaTraining  AreaKind = "training"
	AreaTechnical AreaKind = "technical"
)

// CycleKind identifies which rule family a cycle selects.
type CycleKind string

// Cycle kinds.
const (
	CycleOrganizational CycleKind = "organizational"
	CycleOne            CycleKind = "cycle1"
	CycleTwo            CycleKind = "cycle2"
	CycleThree          CycleKind = "cycle3"
	CycleGraphic        CycleKind = "graphic"
)

// Kind derives the area kind from the display name. Names are operator
// configured, so classification is by folded keyword.
func (a Area) Kind() (AreaKind, error) {
	folded := normalize.Fold(a.Name)
	switch {
	case contains(folded, "formacion"):
		return AreaTraining, nil
	case contains(folded, "tecnic"):
		return AreaTechnical, nil
	}
	return "", fmt.Errorf("area %d (%q) matches no known area kind", a.ID, a.Name)
}

// Kind derives the cycle kind from the display name.
func (c Cycle) Kind() (CycleKind, error) {
	folded := normalize.Fold(c.Name)
	switch {
	case contains(folded, "organizativ"):
		return CycleOrganizational, nil
	case contains(folded, "grafic"):
		return CycleGraphic, nil
	// Roman numerals are substrings of each other; longest first.
	case contains(folded, "ciclo 3"), contains(folded, "ciclo iii"):
		return CycleThree, nil
	case contains(folded, "ciclo 2"), contains(folded, "ciclo ii"):
		return CycleTwo, nil
	case contains(folded, "ciclo 1"), contains(folded, "ciclo i"):
		return CycleOne, nil
	}
	return "", fmt.Errorf("cycle %d (%q) matches no known cycle kind", c.ID, c.Name)
}

func contains(folded, keyword string) bool {
	return normalize.ContainsFold(folded, keyword)
}
