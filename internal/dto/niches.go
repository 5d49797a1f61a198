package dto

// CreateNicheRequest registers a new niche for the current user.
type CreateNicheRequest struct {
	Name string `json:"name"`
}
