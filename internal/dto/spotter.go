package dto

// SpotterTokenRequest stores or replaces the user's Spotter API token.
type SpotterTokenRequest struct {
	Token string `json:"token"`
}

// SpotterTokenResponse reports whether a token is configured without
// revealing it in full.
type SpotterTokenResponse struct {
	Configured bool   `json:"configured"`
	Hint       string `json:"hint,omitempty"`
}

// BulkSendRequest submits several contacts to Spotter at once.
type BulkSendRequest struct {
	IDs []string `json:"ids"`
}

// SendOutcome reports the result of one contact submission.
type SendOutcome struct {
	ContactID string `json:"contact_id"`
	Status    string `json:"status"`
	LeadID    string `json:"lead_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BulkSendResponse aggregates per-contact outcomes of a bulk submission.
type BulkSendResponse struct {
	Sent     int           `json:"sent"`
	Partial  int           `json:"partial"`
	Failed   int           `json:"failed"`
	Outcomes []SendOutcome `json:"outcomes"`
}
