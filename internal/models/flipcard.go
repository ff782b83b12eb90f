package models

import "github.com/google/uuid"

// Flipcard is a two-sided financial fact shown on the dashboard home card.
type Flipcard struct {
	ID   uuid.UUID `json:"id"`
	Head string    `json:"head"`
	Info string    `json:"info"`
}
