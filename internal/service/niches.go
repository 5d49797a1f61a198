package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/wisechats/leadboard/api/internal/entity"
	"github.com/wisechats/leadboard/api/internal/repository"
)

// NichesService manages the per-user niche catalogue.
type NichesService struct {
	niches repository.NichesRepository
}

// NewNichesService constructs a NichesService.
func NewNichesService(niches repository.NichesRepository) *NichesService {
	return &NichesService{niches: niches}
}

// List returns the user's niches.
func (s *NichesService) List(ctx context.Context, userID uuid.UUID) ([]entity.Niche, error) {
	return s.niches.List(ctx, userID)
}

// Create adds a niche to the user's catalogue.
func (s *NichesService) Create(ctx context.Context, userID uuid.UUID, name string) (*entity.Niche, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	return s.niches.Create(ctx, userID, name)
}

// Delete removes a niche by id.
func (s *NichesService) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	nicheID, err := uuid.Parse(id)
	if err != nil {
		return errors.New("invalid niche id")
	}
	return s.niches.Delete(ctx, userID, nicheID)
}
