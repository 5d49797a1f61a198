package dto

import "github.com/wisechats/leadboard/api/internal/service/extract"

// ExtractRequest is the payload used by the text extraction endpoint.
type ExtractRequest struct {
	Text     string `json:"text"`
	Strategy string `json:"strategy,omitempty"`
	Niche    string `json:"niche,omitempty"`
}

// ExtractResponse partitions the extraction outcome for the client.
type ExtractResponse struct {
	Unique     []extract.Contact `json:"unique"`
	Duplicated []extract.Contact `json:"duplicated"`
	Total      int               `json:"total"`
}
