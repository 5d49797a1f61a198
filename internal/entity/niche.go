package entity

import (
	"time"

	"github.com/google/uuid"
)

// Niche is a user-defined market segment used to tag contact batches.
type Niche struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
