package inheritanceMode

import (
	"clinfilter/api/models/constants"
)

// Gene-level inheritance modes as annotated in the DDG2P panel
const (
	Monoallelic     constants.InheritanceMode = "Monoallelic"
	Biallelic       constants.InheritanceMode = "Biallelic"
	Both            constants.InheritanceMode = "Both"
	XLinkedDominant constants.InheritanceMode = "X-linked dominant"
	Hemizygous      constants.InheritanceMode = "Hemizygous"
	Mosaic          constants.InheritanceMode = "Mosaic"
	Imprinted       constants.InheritanceMode = "Imprinted"
)

// Dosage mechanisms annotated per mode on a panel gene
const (
	LossOfFunction      constants.DosageMechanism = "Loss of function"
	IncreasedGeneDosage constants.DosageMechanism = "Increased gene dosage"
	Uncertain           constants.DosageMechanism = "Uncertain"
)

// Intersects reports whether two inheritance mode sets share a member
func Intersects(a map[constants.InheritanceMode]bool, b map[constants.InheritanceMode]bool) bool {
	for mode := range a {
		if b[mode] {
			return true
		}
	}
	return false
}

// Intersection collects the modes present in both sets
func Intersection(a map[constants.InheritanceMode]bool, b map[constants.InheritanceMode]bool) []constants.InheritanceMode {
	var shared []constants.InheritanceMode
	for mode := range a {
		if b[mode] {
			shared = append(shared, mode)
		}
	}
	return shared
}

// NewModeSet builds a mode set from a list of modes
func NewModeSet(modes ...constants.InheritanceMode) map[constants.InheritanceMode]bool {
	set := map[constants.InheritanceMode]bool{}
	for _, mode := range modes {
		set[mode] = true
	}
	return set
}
