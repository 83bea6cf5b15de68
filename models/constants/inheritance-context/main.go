package inheritanceContext

import (
	"clinfilter/api/models/constants"
)

const (
	Unknown constants.InheritanceContext = iota
	Autosomal
	XLinkedMale
	XLinkedFemale

	// YLinkedFemale is not a usable context: a variant call on the
	// female Y chromosome is malformed input and must be rejected
	YLinkedFemale
)

func IsValid(value constants.InheritanceContext) bool {
	return value >= Autosomal && value <= XLinkedFemale
}

func IsAllosomal(value constants.InheritanceContext) bool {
	return value == XLinkedMale || value == XLinkedFemale
}

func ContextToString(value constants.InheritanceContext) string {
	switch value {
	case Autosomal:
		return "autosomal"
	case XLinkedMale:
		return "XChrMale"
	case XLinkedFemale:
		return "XChrFemale"
	case YLinkedFemale:
		return "YChrFemale"
	default:
		return "unknown"
	}
}
