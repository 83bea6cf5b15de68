package cnvGenotype

import (
	"fmt"

	"clinfilter/api/models/constants"
)

const (
	Unknown constants.CnvGenotype = iota
	Ref
	Del
	Dup
)

// FromAltAllele maps a structural alternate-allele tag to a copy-number
// genotype. Anything other than the deletion/duplication tags is malformed.
func FromAltAllele(altAllele string) (constants.CnvGenotype, error) {
	switch altAllele {
	case "<DEL>":
		return Del, nil
	case "<DUP>":
		return Dup, nil
	}
	return Unknown, fmt.Errorf("unknown CNV allele code: %s", altAllele)
}

func IsAlt(value constants.CnvGenotype) bool {
	return value == Del || value == Dup
}

func GenotypeToString(value constants.CnvGenotype) string {
	switch value {
	case Ref:
		return "REF"
	case Del:
		return "DEL"
	case Dup:
		return "DUP"
	default:
		return "UNKNOWN"
	}
}
