package dto

// NicheCount is one slice of the per-niche contact breakdown.
type NicheCount struct {
	Niche string `json:"niche"`
	Count int    `json:"count"`
}

// SourceCount is one slice of the per-source contact breakdown.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// DashboardStats summarizes a user's contact base.
type DashboardStats struct {
	TotalContacts int           `json:"total_contacts"`
	SentToSpotter int           `json:"sent_to_spotter"`
	WithEmail     int           `json:"with_email"`
	WithPhone     int           `json:"with_phone"`
	ByNiche       []NicheCount  `json:"by_niche"`
	BySource      []SourceCount `json:"by_source"`
}
