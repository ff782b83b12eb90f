package models

import "github.com/google/uuid"

// ChangeEvent announces a document change on a collection. Events travel over
// Redis pub/sub and are relayed to subscribed websocket clients.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"` // "updated" | "created" | "deleted"
	ID         uuid.UUID `json:"id"`
}
