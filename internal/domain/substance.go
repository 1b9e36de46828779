// Package domain contains the core business entities and interfaces.
package domain

import "fmt"

// Substance identifies what was taken in an intake event.
type Substance string

// Known substances. Only the modeled ones contribute to the bio-score.
const (
	Elvanse         Substance = "elvanse"
	Medikinet       Substance = "medikinet"
	MedikinetRetard Substance = "medikinet_retard"
	Mate            Substance = "mate"
	CoDafalgan      Substance = "co_dafalgan"
	Other           Substance = "other"
)

// Substances lists every accepted substance in display order.
var Substances = []Substance{Elvanse, Medikinet, MedikinetRetard, Mate, CoDafalgan, Other}

// Valid reports whether s is one of the known substances.
func (s Substance) Valid() bool {
	for _, k := range Substances {
		if s == k {
			return true
		}
	}
	return false
}

// ParseSubstance converts a wire name into a Substance.
func ParseSubstance(name string) (Substance, error) {
	s := Substance(name)
	if !s.Valid() {
		return "", fmt.Errorf("unknown substance %q", name)
	}
	return s, nil
}
