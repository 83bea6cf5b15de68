package affectedStatus

import (
	"strings"

	"clinfilter/api/models/constants"
)

const (
	Unknown constants.AffectedStatus = iota
	Unaffected
	Affected
)

// Parse maps PED affected-status codes ("1" unaffected, "2" affected);
// anything else is treated as unknown rather than an error, since
// pedigree files routinely carry "0" or "-9" placeholders
func Parse(code string) constants.AffectedStatus {
	switch strings.TrimSpace(code) {
	case "1":
		return Unaffected
	case "2":
		return Affected
	}
	return Unknown
}
