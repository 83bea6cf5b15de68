package classification

import (
	"clinfilter/api/models/constants"
)

const (
	Rejected constants.Classification = iota
	SingleVariant
	CompoundHetPartner
	Hemizygous
)

func IsCandidate(value constants.Classification) bool {
	return value == SingleVariant || value == CompoundHetPartner || value == Hemizygous
}

// ClassificationToString keeps the historical report tokens
// consumed by downstream review tooling
func ClassificationToString(value constants.Classification) string {
	switch value {
	case SingleVariant:
		return "single_variant"
	case CompoundHetPartner:
		return "compound_het"
	case Hemizygous:
		return "hemizygous"
	default:
		return "nothing"
	}
}
