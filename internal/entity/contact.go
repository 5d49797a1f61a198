package entity

import (
	"time"

	"github.com/google/uuid"
)

// Known scraping sources a contact batch can come from.
const (
	SourceCasaDosDados = "CASA_DOS_DADOS"
	SourceLinkedIn     = "LINKEDIN"
)

// Contact represents an extracted lead stored for a user. Empty strings mean
// the extractor found nothing for the field.
type Contact struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	JobTitle      string    `json:"job_title"`
	Email         string    `json:"email"`
	Company       string    `json:"company"`
	Phone         string    `json:"phone"`
	City          string    `json:"city"`
	Niche         string    `json:"niche"`
	Source        string    `json:"source"`
	Origin        string    `json:"origin"`
	SourceText    string    `json:"source_text"`
	SentToSpotter bool      `json:"sent_to_spotter"`
	SpotterLeadID *string   `json:"spotter_lead_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
