package variantKind

import (
	"clinfilter/api/models/constants"
)

const (
	Point constants.VariantKind = iota
	Structural
)

func KindToString(value constants.VariantKind) string {
	switch value {
	case Structural:
		return "structural"
	default:
		return "point"
	}
}
