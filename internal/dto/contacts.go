package dto

import "github.com/wisechats/leadboard/api/internal/entity"

// ContactListFilter contains query parameters for contact listing endpoints.
type ContactListFilter struct {
	Q       string
	Niche   string
	City    string
	Source  string
	Tag     string
	Sent    *bool
	Sort    string
	Page    int
	PerPage int
}

// SaveContactsRequest persists a batch of extracted contacts under a niche.
// Source names the scraping origin of the whole batch; Origin is a free-text
// import tag the user can filter by later.
type SaveContactsRequest struct {
	Niche    string         `json:"niche"`
	Source   string         `json:"source,omitempty"`
	Origin   string         `json:"origin,omitempty"`
	Contacts []ContactInput `json:"contacts"`
}

// SaveContactsResponse reports a persisted batch. Duplicated contacts were
// dropped before hitting storage.
type SaveContactsResponse struct {
	Saved      []entity.Contact `json:"saved"`
	Duplicated []ContactInput   `json:"duplicated"`
}

// ContactInput is one contact as submitted by the client.
type ContactInput struct {
	Name       string `json:"name"`
	JobTitle   string `json:"job_title"`
	Email      string `json:"email"`
	Company    string `json:"company"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	SourceText string `json:"source_text"`
}

// BulkDeleteRequest removes several contacts at once.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// ContactFacets lists the distinct filter values present in a user's contacts.
type ContactFacets struct {
	Niches []string `json:"niches"`
	Cities []string `json:"cities"`
	Tags   []string `json:"tags"`
}
