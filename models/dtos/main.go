package dtos

import (
	"clinfilter/api/models/indexes"
)

// ClassificationsDataResponseDTO wraps the per-family result set
// returned by the results endpoints
type ClassificationsDataResponseDTO struct {
	FamilyId string                         `json:"familyId"`
	Count    int                            `json:"count"`
	Results  []indexes.ClassificationResult `json:"results"`
}
