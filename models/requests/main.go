package requests

import (
	"github.com/google/uuid"
)

type State string

const (
	Queued  State = "Queued"
	Running State = "Running"
	Done    State = "Done"
	Error   State = "Error"
)

// ClassificationRequest tracks one queued family-classification job
type ClassificationRequest struct {
	Id        uuid.UUID `json:"id"`
	FamilyId  string    `json:"familyId"`
	State     State     `json:"state"`
	Message   string    `json:"message"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type ClassificationResponseDTO struct {
	Id       uuid.UUID `json:"id"`
	FamilyId string    `json:"familyId"`
	State    State     `json:"state"`
	Message  string    `json:"message"`
}
