package sex

import (
	"strings"

	"clinfilter/api/models/constants"
)

const (
	Unknown constants.Sex = iota
	Male
	Female
)

// Parse accepts both PED numeric sex codes and the single
// letter codes carried on variant records ("1"/"M"/"male", "2"/"F"/"female")
func Parse(code string) constants.Sex {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "1", "m", "male":
		return Male
	case "2", "f", "female":
		return Female
	}
	return Unknown
}

func IsKnown(value constants.Sex) bool {
	return value == Male || value == Female
}

func SexToString(value constants.Sex) string {
	switch value {
	case Male:
		return "M"
	case Female:
		return "F"
	default:
		return "unknown"
	}
}
